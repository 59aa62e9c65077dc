package editor

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/example/stickerpad/internal/notify"
	"github.com/example/stickerpad/internal/sticker"
)

// ErrNoSticker is returned by sticker operations when nothing is selected.
var ErrNoSticker = errors.New("no sticker selected")

// AddSticker loads src and places it on the canvas. A full sticker list or
// a load failure is toasted and leaves the session unchanged.
func (s *Session) AddSticker(ctx context.Context, src string) (*sticker.Sticker, error) {
	if s.base == nil {
		return nil, ErrNoImage
	}
	if s.stickers.Full() {
		err := fmt.Errorf("add %s: %w (%d)", src, sticker.ErrLimit, s.limits.Max)
		s.toast(notify.EventError, err.Error())
		return nil, err
	}
	img, err := s.loader.Load(ctx, src)
	if err != nil {
		s.toastErr("could not load sticker", err)
		return nil, err
	}
	return s.AddStickerImage(img, src)
}

// AddStickerImage places an already decoded image as a new sticker.
func (s *Session) AddStickerImage(img image.Image, source string) (*sticker.Sticker, error) {
	if s.base == nil {
		return nil, ErrNoImage
	}
	var added *sticker.Sticker
	err := s.apply("add sticker", func() error {
		st, err := s.stickers.Add(img, source, s.canvas)
		added = st
		return err
	})
	if err != nil {
		s.toast(notify.EventError, err.Error())
		return nil, err
	}
	return added, nil
}

// SelectSticker selects the sticker with the given id. Selection is not
// recorded in the history.
func (s *Session) SelectSticker(id int) error {
	st := s.stickers.ByID(id)
	if st == nil {
		return fmt.Errorf("sticker %d not found", id)
	}
	s.stickers.Select(st)
	return nil
}

func (s *Session) selected() (*sticker.Sticker, error) {
	if s.base == nil {
		return nil, ErrNoImage
	}
	st := s.stickers.Selected()
	if st == nil {
		return nil, ErrNoSticker
	}
	return st, nil
}

// selectedOp runs fn on the selected sticker as one history step.
func (s *Session) selectedOp(label string, fn func(st *sticker.Sticker) error) error {
	if _, err := s.selected(); err != nil {
		return err
	}
	return s.apply(label, func() error { return fn(s.stickers.Selected()) })
}

// DuplicateSelected copies the selected sticker.
func (s *Session) DuplicateSelected() (*sticker.Sticker, error) {
	var dup *sticker.Sticker
	err := s.selectedOp("duplicate sticker", func(st *sticker.Sticker) error {
		d, err := s.stickers.Duplicate(st)
		dup = d
		return err
	})
	if errors.Is(err, sticker.ErrLimit) {
		s.toast(notify.EventError, err.Error())
	}
	return dup, err
}

// DeleteSelected removes the selected sticker.
func (s *Session) DeleteSelected() error {
	return s.selectedOp("delete sticker", func(st *sticker.Sticker) error {
		s.stickers.Delete(st)
		return nil
	})
}

// ClearStickers removes every sticker.
func (s *Session) ClearStickers() error {
	if s.base == nil {
		return ErrNoImage
	}
	if s.stickers.Len() == 0 {
		return nil
	}
	return s.apply("clear stickers", func() error {
		s.stickers.Clear()
		return nil
	})
}

// RaiseSelected moves the selected sticker one step up. With top set it
// goes straight to the front.
func (s *Session) RaiseSelected(top bool) error {
	return s.selectedOp("raise sticker", func(st *sticker.Sticker) error {
		if top {
			s.stickers.ToFront(st)
		} else {
			s.stickers.Raise(st)
		}
		return nil
	})
}

// LowerSelected moves the selected sticker one step down. With bottom set
// it goes straight to the back.
func (s *Session) LowerSelected(bottom bool) error {
	return s.selectedOp("lower sticker", func(st *sticker.Sticker) error {
		if bottom {
			s.stickers.ToBack(st)
		} else {
			s.stickers.Lower(st)
		}
		return nil
	})
}

// SetStickerRotation sets the rotation of the selected sticker in degrees.
func (s *Session) SetStickerRotation(deg float64) error {
	return s.selectedOp("rotate sticker", func(st *sticker.Sticker) error {
		s.stickers.SetRotation(st, deg)
		return nil
	})
}

// SetStickerOpacity sets the opacity of the selected sticker.
func (s *Session) SetStickerOpacity(v float64) error {
	return s.selectedOp("sticker opacity", func(st *sticker.Sticker) error {
		s.stickers.SetOpacity(st, v)
		return nil
	})
}

// SetStickerShadow switches the drop shadow of the selected sticker.
func (s *Session) SetStickerShadow(on bool) error {
	return s.selectedOp("sticker shadow", func(st *sticker.Sticker) error {
		st.Shadow = on
		return nil
	})
}
