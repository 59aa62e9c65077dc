// Package geom maps points between the coordinate spaces used by the editor
// and answers hit-test questions about rotated sticker boxes.
//
// Four spaces are involved: screen (client pixels reported by pointer
// events), display (the on-screen rectangle the canvas is shown in),
// canvas (the internal pixel grid stickers live in) and source (the pixels of
// the base image). Every conversion has its own named function.
package geom

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// DefaultHandleTolerance is the distance in canvas pixels within which a
// pointer grabs a resize handle.
const DefaultHandleTolerance = 15

// Rect is a floating point rectangle given by its origin and extent.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Normalize returns r with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// RectFromPoints returns the rectangle spanned by two corner points.
func RectFromPoints(a, b f64.Vec2) Rect {
	return Rect{X: a[0], Y: a[1], W: b[0] - a[0], H: b[1] - a[1]}.Normalize()
}

// Image rounds r to an integer rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}

// Box is an axis-aligned rectangle in canvas space rotated about its centre.
// Rotation is in degrees; positive values turn clockwise on screen.
type Box struct {
	X, Y, W, H float64
	Rotation   float64
}

// Center returns the centre of the box.
func (b Box) Center() f64.Vec2 {
	return f64.Vec2{b.X + b.W/2, b.Y + b.H/2}
}

// Corner identifies one of the four resize handles of a box.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	}
	return "unknown"
}

// Opposite returns the corner diagonally across from c.
func (c Corner) Opposite() Corner {
	switch c {
	case TopLeft:
		return BottomRight
	case TopRight:
		return BottomLeft
	case BottomLeft:
		return TopRight
	default:
		return TopLeft
	}
}

// Pointer is a pointer event in screen coordinates. Touch events carry their
// touch points; only the first one is used.
type Pointer struct {
	X, Y    float64
	Touches []f64.Vec2
}

// Client returns the client coordinates the event refers to.
func (p Pointer) Client() f64.Vec2 {
	if len(p.Touches) > 0 {
		return p.Touches[0]
	}
	return f64.Vec2{p.X, p.Y}
}

// Viewport relates the canvas pixel grid to where it is shown on screen.
// A zero Display means the canvas is shown unscaled at the origin.
type Viewport struct {
	Canvas  image.Point
	Display Rect
}

func (v Viewport) scale() (sx, sy float64) {
	if v.Display.Empty() || v.Canvas.X <= 0 || v.Canvas.Y <= 0 {
		return 1, 1
	}
	return float64(v.Canvas.X) / v.Display.W, float64(v.Canvas.Y) / v.Display.H
}

// ScreenToCanvas converts a pointer event into canvas pixel coordinates by
// scaling with canvas size over displayed size.
func ScreenToCanvas(p Pointer, v Viewport) f64.Vec2 {
	c := p.Client()
	sx, sy := v.scale()
	return f64.Vec2{(c[0] - v.Display.X) * sx, (c[1] - v.Display.Y) * sy}
}

// CanvasToDisplay converts a canvas point to screen coordinates.
func CanvasToDisplay(p f64.Vec2, v Viewport) f64.Vec2 {
	sx, sy := v.scale()
	return f64.Vec2{p[0]/sx + v.Display.X, p[1]/sy + v.Display.Y}
}

// CanvasToSource converts a canvas point into base image pixel coordinates.
func CanvasToSource(p f64.Vec2, canvas, source image.Point) f64.Vec2 {
	if canvas.X <= 0 || canvas.Y <= 0 {
		return p
	}
	return f64.Vec2{
		p[0] * float64(source.X) / float64(canvas.X),
		p[1] * float64(source.Y) / float64(canvas.Y),
	}
}

// RectCanvasToSource maps a canvas rectangle onto the base image and clips it
// to the image bounds.
func RectCanvasToSource(r Rect, canvas, source image.Point) image.Rectangle {
	r = r.Normalize()
	min := CanvasToSource(f64.Vec2{r.X, r.Y}, canvas, source)
	max := CanvasToSource(f64.Vec2{r.X + r.W, r.Y + r.H}, canvas, source)
	out := Rect{X: min[0], Y: min[1], W: max[0] - min[0], H: max[1] - min[1]}.Image()
	return out.Intersect(image.Rectangle{Max: source})
}

// FitSize scales src to fit inside avail while keeping its aspect ratio. It
// never scales up. A zero avail leaves src unchanged.
func FitSize(src, avail image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 {
		return image.Point{}
	}
	if avail.X <= 0 || avail.Y <= 0 {
		return src
	}
	s := math.Min(float64(avail.X)/float64(src.X), float64(avail.Y)/float64(src.Y))
	if s >= 1 {
		return src
	}
	w := int(math.Round(float64(src.X) * s))
	h := int(math.Round(float64(src.Y) * s))
	return image.Pt(max(w, 1), max(h, 1))
}

func rotate(v f64.Vec2, deg float64) f64.Vec2 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return f64.Vec2{v[0]*cos - v[1]*sin, v[0]*sin + v[1]*cos}
}

// RotateAbout turns p about c by deg degrees, clockwise on screen.
func RotateAbout(p, c f64.Vec2, deg float64) f64.Vec2 {
	r := rotate(f64.Vec2{p[0] - c[0], p[1] - c[1]}, deg)
	return f64.Vec2{c[0] + r[0], c[1] + r[1]}
}

// toLocal moves a canvas point into the box frame: origin at the centre,
// axes aligned with the unrotated box.
func toLocal(px, py float64, b Box) f64.Vec2 {
	c := b.Center()
	return rotate(f64.Vec2{px - c[0], py - c[1]}, -b.Rotation)
}

// PointInRotatedRect reports whether (px, py) lies inside the rotated box.
func PointInRotatedRect(px, py float64, b Box) bool {
	l := toLocal(px, py, b)
	return math.Abs(l[0]) <= b.W/2 && math.Abs(l[1]) <= b.H/2
}

func localCorner(c Corner, b Box) f64.Vec2 {
	hw, hh := b.W/2, b.H/2
	switch c {
	case TopLeft:
		return f64.Vec2{-hw, -hh}
	case TopRight:
		return f64.Vec2{hw, -hh}
	case BottomLeft:
		return f64.Vec2{-hw, hh}
	default:
		return f64.Vec2{hw, hh}
	}
}

// HandleAt returns the corner handle within tol of (px, py), measured in the
// box's rotated frame.
func HandleAt(px, py float64, b Box, tol float64) (Corner, bool) {
	l := toLocal(px, py, b)
	for _, c := range []Corner{TopLeft, TopRight, BottomLeft, BottomRight} {
		k := localCorner(c, b)
		if math.Abs(l[0]-k[0]) <= tol && math.Abs(l[1]-k[1]) <= tol {
			return c, true
		}
	}
	return 0, false
}

// Corners returns the rotated corner positions in canvas space, ordered
// top-left, top-right, bottom-right, bottom-left so they trace the outline.
func Corners(b Box) [4]f64.Vec2 {
	c := b.Center()
	var out [4]f64.Vec2
	for i, k := range []Corner{TopLeft, TopRight, BottomRight, BottomLeft} {
		r := rotate(localCorner(k, b), b.Rotation)
		out[i] = f64.Vec2{c[0] + r[0], c[1] + r[1]}
	}
	return out
}

// CornerPoint returns the position of corner k of the unrotated box.
func CornerPoint(k Corner, b Box) f64.Vec2 {
	switch k {
	case TopLeft:
		return f64.Vec2{b.X, b.Y}
	case TopRight:
		return f64.Vec2{b.X + b.W, b.Y}
	case BottomLeft:
		return f64.Vec2{b.X, b.Y + b.H}
	default:
		return f64.Vec2{b.X + b.W, b.Y + b.H}
	}
}

// StickerTransform returns the affine map from pixels of a source image with
// bounds src onto the box in canvas space.
func StickerTransform(b Box, src image.Rectangle) f64.Aff3 {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw == 0 || sh == 0 {
		return f64.Aff3{1, 0, b.X, 0, 1, b.Y}
	}
	sx, sy := b.W/sw, b.H/sh
	sin, cos := math.Sincos(b.Rotation * math.Pi / 180)
	c := b.Center()
	a := cos * sx
	bb := -sin * sy
	d := sin * sx
	e := cos * sy
	tx := c[0] - cos*b.W/2 + sin*b.H/2
	ty := c[1] - sin*b.W/2 - cos*b.H/2
	mx, my := float64(src.Min.X), float64(src.Min.Y)
	return f64.Aff3{a, bb, tx - a*mx - bb*my, d, e, ty - d*mx - e*my}
}

// Apply maps p through m.
func Apply(m f64.Aff3, p f64.Vec2) f64.Vec2 {
	return f64.Vec2{m[0]*p[0] + m[1]*p[1] + m[2], m[3]*p[0] + m[4]*p[1] + m[5]}
}

// NormalizeDegrees folds deg into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
