// Package editor implements the sticker editing session: the canvas
// layout, the render loop, pointer interaction, tools, destructive
// operations and undo history.
//
// A Session is not safe for concurrent use. Front ends drive it from a
// single goroutine, one event at a time.
package editor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/stickerpad/internal/clipboard"
	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/history"
	"github.com/example/stickerpad/internal/imageio"
	"github.com/example/stickerpad/internal/notify"
	"github.com/example/stickerpad/internal/paint"
	"github.com/example/stickerpad/internal/sticker"
	"github.com/example/stickerpad/internal/theme"
)

// ErrNoImage is returned by operations that need a base image before one
// has been opened.
var ErrNoImage = errors.New("no image open")

// ImageLoader resolves a sticker or base image source.
type ImageLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// Toaster shows short user-facing messages.
type Toaster interface {
	Toast(ev notify.Event, detail string)
}

// Option configures a Session.
type Option func(*Session)

// WithLimits sets the sticker capacity and sizing rules.
func WithLimits(l sticker.Limits) Option { return func(s *Session) { s.limits = l } }

// WithHandleTolerance sets how close a press must be to grab a handle.
func WithHandleTolerance(tol float64) Option { return func(s *Session) { s.tol = tol } }

// WithHistoryLimit bounds the number of undo steps.
func WithHistoryLimit(n int) Option { return func(s *Session) { s.historyLimit = n } }

// WithBrush sets the initial brush colour and width.
func WithBrush(c color.RGBA, width int) Option {
	return func(s *Session) { s.brush, s.brushWidth = c, width }
}

// WithTextSize sets the point size used by the text stamp.
func WithTextSize(size float64) Option { return func(s *Session) { s.textSize = size } }

// WithTheme sets the colours used for decorations.
func WithTheme(t *theme.Theme) Option { return func(s *Session) { s.theme = t } }

// WithLoader replaces the image loader.
func WithLoader(l ImageLoader) Option { return func(s *Session) { s.loader = l } }

// WithToaster routes user-facing messages.
func WithToaster(t Toaster) Option { return func(s *Session) { s.toaster = t } }

// WithClipboard replaces the function used to copy the export.
func WithClipboard(fn func(image.Image) error) Option { return func(s *Session) { s.copyImage = fn } }

type mode int

const (
	modeIdle mode = iota
	modeDragging
	modeResizing
	modeTool
)

// Session is one editing session over a single base image.
type Session struct {
	limits       sticker.Limits
	tol          float64
	historyLimit int
	theme        *theme.Theme
	loader       ImageLoader
	toaster      Toaster
	copyImage    func(image.Image) error

	base    *image.RGBA
	baseRev int
	scaled  *image.RGBA
	scaledR int

	canvas  image.Point
	avail   image.Point
	display geom.Rect
	zoom    float64

	layer    *image.RGBA
	stickers *sticker.List
	history  *history.Stack[snapshot]
	adjust   filter.Adjust

	tool       Tool
	active     gestureTool
	brush      color.RGBA
	brushWidth int
	textSize   float64
	shape      paint.Shape
	shapeFill  bool
	blurRadius int

	mode    mode
	pending *snapshot
	changed bool
	grab    grabState
}

type grabState struct {
	target *sticker.Sticker
	offset f64.Vec2
	corner geom.Corner
	anchor f64.Vec2
	centre f64.Vec2
	origW  float64
	origH  float64
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		limits:     sticker.DefaultLimits(),
		tol:        geom.DefaultHandleTolerance,
		theme:      theme.Default(),
		loader:     &imageio.Loader{},
		copyImage:  clipboard.WriteImage,
		zoom:       1,
		brush:      color.RGBA{255, 0, 0, 255},
		brushWidth: 4,
		textSize:   paint.DefaultTextSize,
		shape:      paint.ShapeRect,
		blurRadius: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tol <= 0 {
		s.tol = geom.DefaultHandleTolerance
	}
	if s.theme == nil {
		s.theme = theme.Default()
	}
	s.stickers = sticker.NewList(s.limits)
	s.limits = s.stickers.Limits()
	s.history = history.New[snapshot](s.historyLimit)
	return s
}

// Open replaces the base image and resets every other piece of state.
func (s *Session) Open(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrNoImage
	}
	s.base = imageio.ToRGBA(img)
	s.touchBase()
	s.stickers = sticker.NewList(s.limits)
	s.history.Reset()
	s.adjust = filter.Adjust{}
	s.layer = nil
	s.canvas = image.Point{}
	s.resetGesture()
	s.setTool(s.tool)
	s.layout()
	return nil
}

// OpenSource loads src and opens it as the base image. Load failures are
// toasted and leave the session untouched.
func (s *Session) OpenSource(ctx context.Context, src string) error {
	img, err := s.loader.Load(ctx, src)
	if err != nil {
		s.toastErr("could not load image", err)
		return err
	}
	return s.Open(img)
}

// HasImage reports whether a base image is open.
func (s *Session) HasImage() bool { return s.base != nil }

// Base returns the base image at source resolution. It must not be
// modified.
func (s *Session) Base() *image.RGBA { return s.base }

// SourceSize returns the base image dimensions.
func (s *Session) SourceSize() image.Point {
	if s.base == nil {
		return image.Point{}
	}
	return s.base.Bounds().Size()
}

// CanvasSize returns the internal canvas resolution.
func (s *Session) CanvasSize() image.Point { return s.canvas }

// Stickers exposes the sticker list.
func (s *Session) Stickers() *sticker.List { return s.stickers }

// Theme returns the decoration colours.
func (s *Session) Theme() *theme.Theme { return s.theme }

// SetAvailable sets the space the canvas may occupy. The canvas shrinks to
// fit but is never scaled above the source resolution. A zero size means
// unconstrained.
func (s *Session) SetAvailable(w, h int) {
	s.avail = image.Pt(max(w, 0), max(h, 0))
	s.layout()
}

// SetDisplay records where the canvas is shown on screen.
func (s *Session) SetDisplay(r geom.Rect) { s.display = r }

// Display returns the on-screen rectangle of the canvas.
func (s *Session) Display() geom.Rect { return s.display }

// SetZoom sets the display zoom. It never changes canvas coordinates.
func (s *Session) SetZoom(z float64) {
	if math.IsNaN(z) || z <= 0 {
		return
	}
	s.zoom = math.Max(0.1, math.Min(8, z))
}

// Zoom returns the display zoom.
func (s *Session) Zoom() float64 { return s.zoom }

// Viewport relates canvas and display coordinates.
func (s *Session) Viewport() geom.Viewport {
	return geom.Viewport{Canvas: s.canvas, Display: s.display}
}

// layout recomputes the canvas resolution. When it changes, stickers and
// the paint layer are rescaled proportionally.
func (s *Session) layout() {
	if s.base == nil {
		return
	}
	want := geom.FitSize(s.base.Bounds().Size(), s.avail)
	old := s.canvas
	if want == old && s.layer != nil && s.layer.Bounds().Size() == want {
		return
	}
	s.canvas = want
	if old.X > 0 && old.Y > 0 && old != want {
		sx := float64(want.X) / float64(old.X)
		sy := float64(want.Y) / float64(old.Y)
		s.stickers.Remap(func(st *sticker.Sticker) {
			st.X, st.W = st.X*sx, st.W*sx
			st.Y, st.H = st.Y*sy, st.H*sy
		})
	}
	s.layer = resample(s.layer, want)
}

// resample returns img scaled to size, or a blank image when img is nil.
func resample(img *image.RGBA, size image.Point) *image.RGBA {
	out := image.NewRGBA(image.Rectangle{Max: size})
	if img == nil {
		return out
	}
	if img.Bounds().Size() == size {
		copy(out.Pix, img.Pix)
		return out
	}
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

func (s *Session) touchBase() { s.baseRev++ }

// scaledBase returns the base image at canvas resolution, cached until
// the base or the canvas size changes.
func (s *Session) scaledBase() *image.RGBA {
	if s.scaledFresh() {
		return s.scaled
	}
	if s.canvas == s.base.Bounds().Size() {
		s.scaled = resample(s.base, s.canvas)
	} else {
		s.scaled = image.NewRGBA(image.Rectangle{Max: s.canvas})
		xdraw.CatmullRom.Scale(s.scaled, s.scaled.Bounds(), s.base, s.base.Bounds(), xdraw.Src, nil)
	}
	s.scaledR = s.baseRev
	return s.scaled
}

// scaledFresh reports whether the cached canvas copy matches the base.
func (s *Session) scaledFresh() bool {
	return s.scaled != nil && s.scaledR == s.baseRev && s.scaled.Bounds().Size() == s.canvas
}

// sourceScale is the ratio of source pixels to canvas pixels.
func (s *Session) sourceScale() (sx, sy float64) {
	src := s.SourceSize()
	if s.canvas.X == 0 || s.canvas.Y == 0 {
		return 1, 1
	}
	return float64(src.X) / float64(s.canvas.X), float64(src.Y) / float64(s.canvas.Y)
}

func (s *Session) toSource(p f64.Vec2) f64.Vec2 {
	return geom.CanvasToSource(p, s.canvas, s.SourceSize())
}

func (s *Session) toast(ev notify.Event, msg string) {
	if s.toaster != nil {
		s.toaster.Toast(ev, msg)
	}
}

func (s *Session) toastErr(msg string, err error) {
	log.Printf("%s: %v", msg, err)
	s.toast(notify.EventError, msg+": "+err.Error())
}
