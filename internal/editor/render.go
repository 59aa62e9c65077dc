package editor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/paint"
	"github.com/example/stickerpad/internal/sticker"
)

const handleSize = 10

// RenderOptions controls what Redraw includes beyond the image content.
type RenderOptions struct {
	// Decorations adds the selection outline, resize handles and the
	// active tool overlay.
	Decorations bool
}

// Redraw builds a fresh frame at canvas resolution from the current
// state. It does not modify the session and may be called on every
// pointer move.
func (s *Session) Redraw(opts RenderOptions) *image.RGBA {
	if s.base == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return s.compose(opts.Decorations)
}

func (s *Session) compose(decorations bool) *image.RGBA {
	frame := image.NewRGBA(image.Rectangle{Max: s.canvas})
	copy(frame.Pix, s.scaledBase().Pix)
	if s.layer != nil {
		draw.Draw(frame, frame.Bounds(), s.layer, image.Point{}, draw.Over)
	}
	// Filters preview over the paint layer, as BakeFilters commits them.
	filter.Apply(frame, s.adjust)
	for _, st := range s.stickers.All() {
		drawSticker(frame, st)
	}
	if !decorations {
		return frame
	}
	if sel := s.stickers.Selected(); sel != nil {
		s.drawSelection(frame, sel)
	}
	if s.active != nil {
		s.active.overlay(s, frame)
	}
	return frame
}

func drawSticker(dst *image.RGBA, st *sticker.Sticker) {
	if st.Image == nil || st.Opacity <= 0 {
		return
	}
	src := st.Image.Bounds()
	m := geom.StickerTransform(st.Box(), src)
	var opts *xdraw.Options
	if st.Opacity < 1 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(st.Opacity*255 + 0.5)})}
	}
	if !st.Shadow {
		xdraw.BiLinear.Transform(dst, m, st.Image, src, xdraw.Over, opts)
		return
	}
	layer := image.NewRGBA(footprint(st.Box()).Intersect(dst.Bounds()))
	if layer.Bounds().Empty() {
		return
	}
	xdraw.BiLinear.Transform(layer, m, st.Image, src, xdraw.Over, opts)
	filter.DropShadow(dst, layer, filter.DefaultShadow())
}

// footprint is the integer bounding box of the rotated box.
func footprint(b geom.Box) image.Rectangle {
	c := geom.Corners(b)
	minX, minY, maxX, maxY := c[0][0], c[0][1], c[0][0], c[0][1]
	for _, p := range c[1:] {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

func (s *Session) drawSelection(dst *image.RGBA, st *sticker.Sticker) {
	corners := geom.Corners(st.Box())
	paint.Polygon(dst, corners[:], s.theme.SelectionOutline, 2)
	for _, c := range corners {
		paint.FillSquare(dst, c, handleSize, s.theme.HandleFill, s.theme.HandleBorder)
	}
}
