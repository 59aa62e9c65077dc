package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/example/stickerpad/internal/console"
)

// Handler carries out host requests.
type Handler interface {
	// Init opens the image the host wants edited. index identifies the
	// image on the host page and is echoed back on save.
	Init(ctx context.Context, src string, index int) error
	// Command runs one console line and returns its output.
	Command(ctx context.Context, line string) (string, error)
	// Save returns the flattened image and the index it replaces.
	Save(ctx context.Context) (dataURL string, index int, err error)
}

// Serve answers messages from r on w until the host sends close, the
// stream ends or ctx is cancelled. Handler failures are reported to the
// host as error messages and do not stop the loop.
func Serve(ctx context.Context, r io.Reader, w io.Writer, h Handler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := ReadMessage(r)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrTooLarge) {
				if werr := sendError(w, err); werr != nil {
					return werr
				}
			}
			return err
		}
		switch m.Type {
		case TypeInit:
			if err := h.Init(ctx, m.Src, m.Index); err != nil {
				err = sendError(w, err)
			} else {
				err = WriteMessage(w, Message{Type: TypeReady, Index: m.Index})
			}
			if err != nil {
				return err
			}
		case TypeCommand:
			out, cmdErr := h.Command(ctx, m.Line)
			if cmdErr != nil {
				err = sendError(w, cmdErr)
			} else {
				err = WriteMessage(w, Message{Type: TypeResult, Output: out})
			}
			if err != nil {
				return err
			}
		case TypeSave:
			url, index, saveErr := h.Save(ctx)
			if saveErr != nil {
				err = sendError(w, saveErr)
			} else {
				err = writeSave(w, url, index)
			}
			if err != nil {
				return err
			}
		case TypeClose:
			return WriteMessage(w, Message{Type: TypeClose})
		default:
			if err := sendError(w, fmt.Errorf("unknown message type %q", m.Type)); err != nil {
				return err
			}
		}
	}
}

func sendError(w io.Writer, err error) error {
	log.Printf("bridge: %v", err)
	return WriteMessage(w, Message{Type: TypeError, Message: err.Error()})
}

// SessionHandler serves host requests with a console and its session.
type SessionHandler struct {
	console *console.Console
	index   int
}

// NewSessionHandler wraps c. Host commands may not read local files and
// export only inside the console's save directory.
func NewSessionHandler(c *console.Console) *SessionHandler {
	c.ConfinePaths()
	return &SessionHandler{console: c}
}

func (h *SessionHandler) Init(ctx context.Context, src string, index int) error {
	if err := h.console.Session().OpenSource(ctx, src); err != nil {
		return err
	}
	h.index = index
	return nil
}

func (h *SessionHandler) Command(ctx context.Context, line string) (string, error) {
	var out bytes.Buffer
	restore := h.console.WithIO(&out, &out)
	defer restore()
	if _, err := h.console.Execute(ctx, line); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

func (h *SessionHandler) Save(context.Context) (string, int, error) {
	url, err := h.console.Session().ExportDataURL()
	if err != nil {
		return "", 0, err
	}
	return url, h.index, nil
}
