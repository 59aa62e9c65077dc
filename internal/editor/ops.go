package editor

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/paint"
	"github.com/example/stickerpad/internal/sticker"
)

// ErrNoSelection is returned by ApplyCrop when no crop rectangle has been
// dragged out.
var ErrNoSelection = errors.New("no crop selection")

// flattenLayer composites the paint layer into the base image and clears
// it. It reports whether the layer held anything.
func (s *Session) flattenLayer() bool {
	if s.layer == nil || s.base == nil || isBlank(s.layer) {
		return false
	}
	if s.layer.Bounds().Size() == s.base.Bounds().Size() {
		draw.Draw(s.base, s.base.Bounds(), s.layer, image.Point{}, draw.Over)
	} else {
		xdraw.BiLinear.Scale(s.base, s.base.Bounds(), s.layer, s.layer.Bounds(), xdraw.Over, nil)
	}
	clear(s.layer.Pix)
	s.touchBase()
	return true
}

func isBlank(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Flatten bakes the paint layer into the base image.
func (s *Session) Flatten() error {
	if s.base == nil {
		return ErrNoImage
	}
	if s.layer == nil || isBlank(s.layer) {
		return nil
	}
	return s.apply("flatten", func() error {
		s.flattenLayer()
		return nil
	})
}

// Rotate turns the base image clockwise by deg, which must be a multiple
// of 90. Stickers are carried along with the image.
func (s *Session) Rotate(deg int) error {
	deg = ((deg % 360) + 360) % 360
	if deg%90 != 0 {
		return fmt.Errorf("rotate %d: not a multiple of 90 degrees", deg)
	}
	if s.base == nil {
		return ErrNoImage
	}
	if deg == 0 {
		return nil
	}
	return s.apply("rotate", func() error {
		s.flattenLayer()
		w, h := float64(s.canvas.X), float64(s.canvas.Y)
		s.base = rotateRGBA(s.base, deg)
		s.touchBase()
		s.stickers.Remap(func(st *sticker.Sticker) {
			c := st.Box().Center()
			var nc f64.Vec2
			switch deg {
			case 90:
				nc = f64.Vec2{h - c[1], c[0]}
			case 180:
				nc = f64.Vec2{w - c[0], h - c[1]}
			case 270:
				nc = f64.Vec2{c[1], w - c[0]}
			}
			st.X, st.Y = nc[0]-st.W/2, nc[1]-st.H/2
			st.Rotation = geom.NormalizeDegrees(st.Rotation + float64(deg))
		})
		if deg != 180 {
			s.canvas = image.Pt(s.canvas.Y, s.canvas.X)
		}
		s.layer = nil
		s.layout()
		return nil
	})
}

// Flip mirrors the base image horizontally or vertically. Sticker
// positions and rotations mirror with it; their artwork does not.
func (s *Session) Flip(horizontal bool) error {
	return s.apply("flip", func() error {
		s.flattenLayer()
		s.base = flipRGBA(s.base, horizontal)
		s.touchBase()
		w, h := float64(s.canvas.X), float64(s.canvas.Y)
		s.stickers.Remap(func(st *sticker.Sticker) {
			if horizontal {
				st.X = w - st.X - st.W
			} else {
				st.Y = h - st.Y - st.H
			}
			st.Rotation = geom.NormalizeDegrees(-st.Rotation)
		})
		return nil
	})
}

// ApplyCrop crops to the rectangle dragged out with the crop tool and
// clears the selection.
func (s *Session) ApplyCrop() error {
	r, ok := s.CropSelection()
	if !ok {
		return ErrNoSelection
	}
	if err := s.Crop(r); err != nil {
		return err
	}
	if c, ok := s.active.(*cropTool); ok {
		*c = cropTool{}
	}
	return nil
}

// Crop keeps the part of the image under r, given in canvas pixels.
// Stickers keep their place relative to the image content.
func (s *Session) Crop(r geom.Rect) error {
	if s.base == nil {
		return ErrNoImage
	}
	src := geom.RectCanvasToSource(r, s.canvas, s.SourceSize())
	if src.Empty() {
		return fmt.Errorf("crop %v: %w", r, ErrNoSelection)
	}
	return s.apply("crop", func() error {
		s.flattenLayer()
		out := image.NewRGBA(image.Rectangle{Max: src.Size()})
		draw.Draw(out, out.Bounds(), s.base, src.Min, draw.Src)
		sx, sy := s.sourceScale()
		ox, oy := float64(src.Min.X)/sx, float64(src.Min.Y)/sy
		s.stickers.Remap(func(st *sticker.Sticker) {
			st.X -= ox
			st.Y -= oy
		})
		s.canvas = image.Pt(
			max(1, int(math.Round(float64(src.Dx())/sx))),
			max(1, int(math.Round(float64(src.Dy())/sy))),
		)
		s.base = out
		s.touchBase()
		s.layer = nil
		s.layout()
		return nil
	})
}

// StampShape draws a shape between two canvas points straight into the
// base image.
func (s *Session) StampShape(sh paint.Shape, a, b f64.Vec2, fill bool) error {
	return s.apply("shape", func() error { return s.stampShape(sh, a, b, fill) })
}

func (s *Session) stampShape(sh paint.Shape, a, b f64.Vec2, fill bool) error {
	s.flattenLayer()
	sx, _ := s.sourceScale()
	style := paint.ShapeStyle{Color: s.brush, Width: float64(s.brushWidth) * sx, Fill: fill}
	if err := paint.StampShape(s.base, sh, s.toSource(a), s.toSource(b), style); err != nil {
		return err
	}
	s.touchBase()
	return nil
}

// StampText writes text centred on the canvas into the base image.
func (s *Session) StampText(text string) error {
	if text == "" {
		return errors.New("empty text")
	}
	return s.apply("text", func() error {
		s.flattenLayer()
		_, sy := s.sourceScale()
		b := s.base.Bounds()
		if err := paint.DrawTextCentered(s.base, b.Dx()/2, b.Dy()/2, text, s.brush, s.textSize*sy); err != nil {
			return fmt.Errorf("stamp text: %w", err)
		}
		s.touchBase()
		return nil
	})
}

// BlurRect blurs the base image under r, given in canvas pixels.
func (s *Session) BlurRect(r geom.Rect) error {
	if r.Normalize().Empty() {
		return fmt.Errorf("blur %v: empty rectangle", r)
	}
	return s.apply("blur", func() error {
		s.blurRect(r)
		return nil
	})
}

func (s *Session) blurRect(r geom.Rect) {
	s.flattenLayer()
	sx, _ := s.sourceScale()
	src := geom.RectCanvasToSource(r, s.canvas, s.SourceSize())
	filter.BlurRect(s.base, src, max(1, int(math.Round(float64(s.blurRadius)*sx))))
	s.touchBase()
}

// BakeFilters commits the filter preview into the base image and resets
// the preview to neutral.
func (s *Session) BakeFilters() error {
	if s.base == nil {
		return ErrNoImage
	}
	if s.adjust.Neutral() {
		return nil
	}
	a := s.adjust
	err := s.apply("filters", func() error {
		s.flattenLayer()
		filter.Apply(s.base, a)
		s.touchBase()
		return nil
	})
	if err == nil {
		s.adjust = filter.Adjust{}
	}
	return err
}

func rotateRGBA(src *image.RGBA, deg int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	var dst *image.RGBA
	if deg == 180 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch deg {
			case 90:
				dx, dy = h-1-y, x
			case 180:
				dx, dy = w-1-x, h-1-y
			case 270:
				dx, dy = y, w-1-x
			}
			si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

func flipRGBA(src *image.RGBA, horizontal bool) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := w-1-x, y
			if !horizontal {
				dx, dy = x, h-1-y
			}
			si := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			di := dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
