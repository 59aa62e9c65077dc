package paint

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/math/f64"
)

// Shape is a kind of shape the shapes tool can stamp.
type Shape string

const (
	ShapeRect    Shape = "rect"
	ShapeEllipse Shape = "ellipse"
	ShapeLine    Shape = "line"
	ShapeArrow   Shape = "arrow"
)

// Shapes lists the supported shapes.
func Shapes() []Shape { return []Shape{ShapeRect, ShapeEllipse, ShapeLine, ShapeArrow} }

// ParseShape resolves a shape name.
func ParseShape(s string) (Shape, error) {
	for _, sh := range Shapes() {
		if string(sh) == s {
			return sh, nil
		}
	}
	return "", fmt.Errorf("unknown shape %q", s)
}

// ShapeStyle controls how a shape is stamped.
type ShapeStyle struct {
	Color color.Color
	Width float64
	Fill  bool
}

// StampShape draws shape spanning a to b directly into img, antialiased.
// Fill applies to closed shapes only.
func StampShape(img *image.RGBA, shape Shape, a, b f64.Vec2, style ShapeStyle) error {
	if style.Width <= 0 {
		style.Width = 1
	}
	if style.Color == nil {
		style.Color = color.Black
	}
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(style.Color)
	dc.SetLineWidth(style.Width)
	dc.SetLineCapRound()
	x0, y0 := math.Min(a[0], b[0]), math.Min(a[1], b[1])
	w, h := math.Abs(b[0]-a[0]), math.Abs(b[1]-a[1])
	switch shape {
	case ShapeRect:
		dc.DrawRectangle(x0, y0, w, h)
	case ShapeEllipse:
		dc.DrawEllipse(x0+w/2, y0+h/2, w/2, h/2)
	case ShapeLine:
		dc.DrawLine(a[0], a[1], b[0], b[1])
		dc.Stroke()
		return nil
	case ShapeArrow:
		dc.DrawLine(a[0], a[1], b[0], b[1])
		dc.Stroke()
		arrowHead(dc, a, b, style.Width)
		return nil
	default:
		return fmt.Errorf("unknown shape %q", shape)
	}
	if style.Fill {
		dc.Fill()
	} else {
		dc.Stroke()
	}
	return nil
}

func arrowHead(dc *gg.Context, a, b f64.Vec2, width float64) {
	angle := math.Atan2(b[1]-a[1], b[0]-a[0])
	size := 6 + width*3
	dc.MoveTo(b[0], b[1])
	dc.LineTo(b[0]-size*math.Cos(angle-math.Pi/6), b[1]-size*math.Sin(angle-math.Pi/6))
	dc.LineTo(b[0]-size*math.Cos(angle+math.Pi/6), b[1]-size*math.Sin(angle+math.Pi/6))
	dc.ClosePath()
	dc.Fill()
}
