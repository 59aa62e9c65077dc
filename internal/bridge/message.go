// Package bridge talks to a host page over the native messaging protocol:
// each message is a 4-byte little-endian length followed by that many
// bytes of UTF-8 JSON.
package bridge

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	// MaxInbound bounds messages read from the host.
	MaxInbound = 64 << 20
	// MaxOutbound bounds messages written to the host. Larger payloads
	// are split into parts.
	MaxOutbound = 1 << 20
)

// ErrTooLarge is returned for messages beyond the size limits.
var ErrTooLarge = errors.New("message too large")

// Message types.
const (
	TypeInit    = "init"
	TypeCommand = "command"
	TypeSave    = "save"
	TypeClose   = "close"
	TypeReady   = "ready"
	TypeError   = "error"
	TypeResult  = "result"
)

// Message is the envelope for both directions. Only the fields relevant
// to Type are set. Index is always sent since 0 names the first image.
type Message struct {
	Type    string `json:"type"`
	Src     string `json:"src,omitempty"`
	Index   int    `json:"index"`
	Line    string `json:"line,omitempty"`
	DataURL string `json:"dataUrl,omitempty"`
	Part    int    `json:"part,omitempty"`
	Parts   int    `json:"parts,omitempty"`
	Message string `json:"message,omitempty"`
	Output  string `json:"output,omitempty"`
}

// ReadMessage reads one framed message. A clean end of stream before the
// length prefix returns io.EOF.
func ReadMessage(r io.Reader) (Message, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, fmt.Errorf("read length: %w", err)
		}
		return Message{}, err
	}
	n := binary.LittleEndian.Uint32(hdr[:])
	if n > MaxInbound {
		return Message{}, fmt.Errorf("inbound %d bytes: %w", n, ErrTooLarge)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Message{}, fmt.Errorf("read body: %w", err)
	}
	var m Message
	if err := json.Unmarshal(buf, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

// WriteMessage writes one framed message.
func WriteMessage(w io.Writer, m Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if len(body) > MaxOutbound {
		return fmt.Errorf("outbound %s of %d bytes: %w", m.Type, len(body), ErrTooLarge)
	}
	frame := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write %s: %w", m.Type, err)
	}
	return nil
}

// saveChunk leaves room for the envelope around a data URL part.
const saveChunk = MaxOutbound - 1024

// writeSave sends a data URL, split into numbered parts when it does not
// fit in one message. Parts is zero for a single message.
func writeSave(w io.Writer, dataURL string, index int) error {
	if len(dataURL) <= saveChunk {
		return WriteMessage(w, Message{Type: TypeSave, DataURL: dataURL, Index: index})
	}
	parts := (len(dataURL) + saveChunk - 1) / saveChunk
	for i := 0; i < parts; i++ {
		end := min((i+1)*saveChunk, len(dataURL))
		m := Message{Type: TypeSave, DataURL: dataURL[i*saveChunk : end], Index: index, Part: i + 1, Parts: parts}
		if err := WriteMessage(w, m); err != nil {
			return err
		}
	}
	return nil
}
