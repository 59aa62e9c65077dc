package editor

import (
	"image"

	"github.com/example/stickerpad/internal/sticker"
)

// snapshot is everything an undo step restores. Images are deep copies;
// sticker artwork is shared because it is never modified.
type snapshot struct {
	base     *image.RGBA
	layer    *image.RGBA
	stickers []sticker.Sticker
	canvas   image.Point
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func (s *Session) capture() *snapshot {
	return &snapshot{
		base:     cloneRGBA(s.base),
		layer:    cloneRGBA(s.layer),
		stickers: s.stickers.Snapshot(),
		canvas:   s.canvas,
	}
}

func (s *Session) restore(snap *snapshot) {
	s.base = cloneRGBA(snap.base)
	s.layer = cloneRGBA(snap.layer)
	s.stickers.Restore(snap.stickers)
	s.canvas = snap.canvas
	s.touchBase()
	s.layout()
}

// apply runs a discrete operation, recording the prior state under label
// on success. A failed operation leaves the session as it was.
func (s *Session) apply(label string, fn func() error) error {
	if s.base == nil {
		return ErrNoImage
	}
	s.finishGesture()
	pre := s.capture()
	if err := fn(); err != nil {
		s.restore(pre)
		return err
	}
	s.history.Push(label, *pre)
	return nil
}

// Undo reverts the most recent operation. It reports the label of the
// undone operation.
func (s *Session) Undo() (string, bool) {
	s.finishGesture()
	e, ok := s.history.Undo(*s.capture())
	if !ok {
		return "", false
	}
	s.restore(&e.State)
	return e.Label, true
}

// Redo re-applies the most recently undone operation.
func (s *Session) Redo() (string, bool) {
	s.finishGesture()
	e, ok := s.history.Redo(*s.capture())
	if !ok {
		return "", false
	}
	s.restore(&e.State)
	return e.Label, true
}

// CanUndo reports whether there is anything to undo.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether there is anything to redo.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// HistoryLabels lists the undoable operations, oldest first.
func (s *Session) HistoryLabels() []string { return s.history.Labels() }
