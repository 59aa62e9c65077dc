// Package sticker holds the ordered list of overlay stickers placed on the
// editor canvas. List order is z-order: later stickers draw on top and win
// hit tests.
package sticker

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/example/stickerpad/internal/geom"
	"golang.org/x/image/math/f64"
)

// ErrLimit is returned when adding a sticker would exceed the configured
// maximum.
var ErrLimit = errors.New("sticker limit reached")

// Limits configures sizing and capacity rules for a List.
type Limits struct {
	// Max is the largest number of stickers the list accepts.
	Max int
	// MinSize is the smallest width or height a resize may produce.
	MinSize float64
	// Scale is the fraction of the canvas's shorter side a new sticker
	// occupies along its longer side.
	Scale float64
	// DuplicateOffset shifts duplicates right and down.
	DuplicateOffset float64
}

// DefaultLimits returns the stock limits.
func DefaultLimits() Limits {
	return Limits{Max: 20, MinSize: 20, Scale: 0.25, DuplicateOffset: 20}
}

// Sticker is one overlay image. Position and size are in canvas pixels;
// rotation is in degrees about the sticker centre.
type Sticker struct {
	ID       int
	X, Y     float64
	W, H     float64
	Rotation float64
	Opacity  float64
	// Image may be shared between stickers; it is never modified.
	Image    image.Image
	Source   string
	Selected bool
	// Shadow draws a soft drop shadow beneath the sticker.
	Shadow bool
}

// Box returns the geometric footprint of s.
func (s *Sticker) Box() geom.Box {
	return geom.Box{X: s.X, Y: s.Y, W: s.W, H: s.H, Rotation: s.Rotation}
}

func (s *Sticker) String() string {
	out := fmt.Sprintf("#%d %s at (%.0f,%.0f) %.0fx%.0f rot %.0f opacity %.2f",
		s.ID, s.Source, s.X, s.Y, s.W, s.H, s.Rotation, s.Opacity)
	if s.Shadow {
		out += " shadow"
	}
	return out
}

// List is an ordered collection of stickers with at most one selected.
type List struct {
	limits Limits
	items  []*Sticker
	nextID int
}

// NewList creates an empty list. Zero fields in limits take their defaults.
func NewList(limits Limits) *List {
	def := DefaultLimits()
	if limits.Max <= 0 {
		limits.Max = def.Max
	}
	if limits.MinSize <= 0 {
		limits.MinSize = def.MinSize
	}
	if limits.Scale <= 0 {
		limits.Scale = def.Scale
	}
	if limits.DuplicateOffset == 0 {
		limits.DuplicateOffset = def.DuplicateOffset
	}
	return &List{limits: limits, nextID: 1}
}

// Limits returns the rules the list was created with.
func (l *List) Limits() Limits { return l.limits }

// Len returns the number of stickers.
func (l *List) Len() int { return len(l.items) }

// All returns the stickers in z-order, bottom first. The slice must not be
// modified.
func (l *List) All() []*Sticker { return l.items }

// Full reports whether no more stickers can be added.
func (l *List) Full() bool { return len(l.items) >= l.limits.Max }

// Add places img centred on a canvas of the given size, sized to Scale of
// the canvas's shorter side with the image aspect ratio kept. The new
// sticker becomes the selection.
func (l *List) Add(img image.Image, source string, canvas image.Point) (*Sticker, error) {
	if l.Full() {
		return nil, fmt.Errorf("add %s: %w (%d)", source, ErrLimit, l.limits.Max)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("add %s: empty image", source)
	}
	target := float64(min(canvas.X, canvas.Y)) * l.limits.Scale
	iw, ih := float64(b.Dx()), float64(b.Dy())
	var w, h float64
	if iw >= ih {
		w = target
		h = target * ih / iw
	} else {
		h = target
		w = target * iw / ih
	}
	s := &Sticker{
		ID:      l.nextID,
		X:       (float64(canvas.X) - w) / 2,
		Y:       (float64(canvas.Y) - h) / 2,
		W:       w,
		H:       h,
		Opacity: 1,
		Image:   img,
		Source:  source,
	}
	l.nextID++
	l.items = append(l.items, s)
	l.Select(s)
	return s, nil
}

// Duplicate copies s, offset by DuplicateOffset, and selects the copy.
func (l *List) Duplicate(s *Sticker) (*Sticker, error) {
	if l.index(s) < 0 {
		return nil, fmt.Errorf("duplicate: sticker not in list")
	}
	if l.Full() {
		return nil, fmt.Errorf("duplicate %s: %w (%d)", s.Source, ErrLimit, l.limits.Max)
	}
	d := *s
	d.ID = l.nextID
	d.X += l.limits.DuplicateOffset
	d.Y += l.limits.DuplicateOffset
	l.nextID++
	l.items = append(l.items, &d)
	l.Select(&d)
	return &d, nil
}

// Delete removes s. It reports whether s was present.
func (l *List) Delete(s *Sticker) bool {
	i := l.index(s)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// Clear removes every sticker.
func (l *List) Clear() { l.items = nil }

// Select makes s the only selected sticker. A nil s clears the selection.
func (l *List) Select(s *Sticker) {
	for _, it := range l.items {
		it.Selected = it == s
	}
}

// Deselect clears the selection.
func (l *List) Deselect() { l.Select(nil) }

// Selected returns the selected sticker or nil.
func (l *List) Selected() *Sticker {
	for _, it := range l.items {
		if it.Selected {
			return it
		}
	}
	return nil
}

// ByID returns the sticker with the given id or nil.
func (l *List) ByID(id int) *Sticker {
	for _, it := range l.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// HitTest returns the topmost sticker containing p.
func (l *List) HitTest(p f64.Vec2) *Sticker {
	for i := len(l.items) - 1; i >= 0; i-- {
		if geom.PointInRotatedRect(p[0], p[1], l.items[i].Box()) {
			return l.items[i]
		}
	}
	return nil
}

// HandleHit reports the resize handle of the selected sticker under p.
// Unselected stickers never offer handles.
func (l *List) HandleHit(p f64.Vec2, tol float64) (*Sticker, geom.Corner, bool) {
	s := l.Selected()
	if s == nil {
		return nil, 0, false
	}
	c, ok := geom.HandleAt(p[0], p[1], s.Box(), tol)
	if !ok {
		return nil, 0, false
	}
	return s, c, true
}

// Resize moves corner c of s to p, keeping the opposite corner fixed and
// the aspect ratio of origW x origH. It reports false and leaves s untouched
// when the result would be smaller than MinSize.
func (l *List) Resize(s *Sticker, c geom.Corner, anchor f64.Vec2, origW, origH float64, p f64.Vec2) bool {
	if origW <= 0 || origH <= 0 {
		return false
	}
	var w float64
	switch c {
	case geom.BottomRight, geom.TopRight:
		w = p[0] - anchor[0]
	default:
		w = anchor[0] - p[0]
	}
	h := w * origH / origW
	if w < l.limits.MinSize || h < l.limits.MinSize || math.IsNaN(w) {
		return false
	}
	x, y := anchor[0], anchor[1]
	switch c {
	case geom.TopLeft:
		x, y = anchor[0]-w, anchor[1]-h
	case geom.TopRight:
		y = anchor[1] - h
	case geom.BottomLeft:
		x = anchor[0] - w
	}
	s.X, s.Y, s.W, s.H = x, y, w, h
	return true
}

// SetRotation sets the rotation of s in degrees, folded into [0, 360).
func (l *List) SetRotation(s *Sticker, deg float64) {
	s.Rotation = geom.NormalizeDegrees(deg)
}

// SetOpacity sets the opacity of s, clamped to [0, 1].
func (l *List) SetOpacity(s *Sticker, v float64) {
	s.Opacity = math.Max(0, math.Min(1, v))
}

// Raise moves s one step towards the top.
func (l *List) Raise(s *Sticker) bool {
	i := l.index(s)
	if i < 0 || i == len(l.items)-1 {
		return false
	}
	l.items[i], l.items[i+1] = l.items[i+1], l.items[i]
	return true
}

// Lower moves s one step towards the bottom.
func (l *List) Lower(s *Sticker) bool {
	i := l.index(s)
	if i <= 0 {
		return false
	}
	l.items[i], l.items[i-1] = l.items[i-1], l.items[i]
	return true
}

// ToFront moves s to the top of the stack.
func (l *List) ToFront(s *Sticker) bool {
	i := l.index(s)
	if i < 0 || i == len(l.items)-1 {
		return false
	}
	l.items = append(append(l.items[:i:i], l.items[i+1:]...), s)
	return true
}

// ToBack moves s to the bottom of the stack.
func (l *List) ToBack(s *Sticker) bool {
	i := l.index(s)
	if i <= 0 {
		return false
	}
	rest := append(l.items[:i:i], l.items[i+1:]...)
	l.items = append([]*Sticker{s}, rest...)
	return true
}

// Snapshot copies the stickers by value. Images are shared.
func (l *List) Snapshot() []Sticker {
	out := make([]Sticker, len(l.items))
	for i, it := range l.items {
		out[i] = *it
	}
	return out
}

// Restore replaces the list contents with a snapshot.
func (l *List) Restore(snap []Sticker) {
	l.items = make([]*Sticker, len(snap))
	for i := range snap {
		s := snap[i]
		l.items[i] = &s
		if s.ID >= l.nextID {
			l.nextID = s.ID + 1
		}
	}
}

// Remap rewrites every sticker through fn, used when the canvas changes
// resolution or orientation.
func (l *List) Remap(fn func(s *Sticker)) {
	for _, it := range l.items {
		fn(it)
	}
}

func (l *List) index(s *Sticker) int {
	if s == nil {
		return -1
	}
	for i, it := range l.items {
		if it == s {
			return i
		}
	}
	return -1
}
