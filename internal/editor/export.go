package editor

import (
	"bytes"
	"fmt"
	"io"

	"github.com/example/stickerpad/internal/imageio"
	"github.com/example/stickerpad/internal/notify"
)

// Export writes the flattened image as PNG at canvas resolution, without
// selection or tool decorations. Session state is left untouched.
func (s *Session) Export(w io.Writer) error {
	if s.base == nil {
		return ErrNoImage
	}
	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, s.compose(false)); err != nil {
		s.toastErr("export failed", err)
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		s.toastErr("export failed", err)
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ExportDataURL returns the flattened image as a PNG data URL.
func (s *Session) ExportDataURL() (string, error) {
	if s.base == nil {
		return "", ErrNoImage
	}
	url, err := imageio.PNGDataURL(s.compose(false))
	if err != nil {
		s.toastErr("export failed", err)
		return "", err
	}
	return url, nil
}

// CopyToClipboard places the flattened image on the clipboard.
func (s *Session) CopyToClipboard() error {
	if s.base == nil {
		return ErrNoImage
	}
	if err := s.copyImage(s.compose(false)); err != nil {
		s.toastErr("copy failed", err)
		return fmt.Errorf("copy: %w", err)
	}
	s.toast(notify.EventCopy, "image")
	return nil
}
