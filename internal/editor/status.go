package editor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/theme"
)

// Status summarises the session for status bars and the console.
type Status struct {
	Source     image.Point
	Canvas     image.Point
	Zoom       float64
	Tool       Tool
	Stickers   int
	Selected   int
	Adjust     filter.Adjust
	Brush      color.RGBA
	BrushWidth int
	CanUndo    bool
	CanRedo    bool
}

// Status reports the current state.
func (s *Session) Status() Status {
	st := Status{
		Source:     s.SourceSize(),
		Canvas:     s.canvas,
		Zoom:       s.zoom,
		Tool:       s.tool,
		Stickers:   s.stickers.Len(),
		Adjust:     s.adjust,
		Brush:      s.brush,
		BrushWidth: s.brushWidth,
		CanUndo:    s.CanUndo(),
		CanRedo:    s.CanRedo(),
	}
	if sel := s.stickers.Selected(); sel != nil {
		st.Selected = sel.ID
	}
	return st
}

func (st Status) String() string {
	sel := "-"
	if st.Selected != 0 {
		sel = fmt.Sprintf("#%d", st.Selected)
	}
	return fmt.Sprintf("source %dx%d canvas %dx%d zoom %.0f%% tool %s stickers %d selected %s brush %s/%d undo %v redo %v",
		st.Source.X, st.Source.Y, st.Canvas.X, st.Canvas.Y, st.Zoom*100, st.Tool,
		st.Stickers, sel, theme.FormatColor(st.Brush), st.BrushWidth, st.CanUndo, st.CanRedo)
}
