package ui

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/stickerpad/internal/paint"
	"github.com/example/stickerpad/internal/theme"
)

// KeyShortcut describes a keyboard combination that triggers an action.
// Printable keys match on Rune, the rest on Code.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button is a clickable element of the window chrome.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
}

// CacheButton wraps another Button and caches its rendered states until
// its rectangle changes.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func buttonFill(t *theme.Theme, state ButtonState) color.RGBA {
	c := t.Background
	switch state {
	case StateHover:
		c = shade(c, 20)
	case StatePressed:
		c = shade(c, 50)
	}
	return c
}

func shade(c color.RGBA, by uint8) color.RGBA {
	sub := func(v uint8) uint8 {
		if v < by {
			return 0
		}
		return v - by
	}
	return color.RGBA{sub(c.R), sub(c.G), sub(c.B), c.A}
}

// labelButton is a toolbar button with a text label.
type labelButton struct {
	label string
	theme *theme.Theme
	rect  image.Rectangle
}

func (b *labelButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, image.NewUniform(buttonFill(b.theme, state)), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(b.theme.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+15)}
	d.DrawString(b.label)
}

func (b *labelButton) Rect() image.Rectangle     { return b.rect }
func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }

// thumbButton shows a sticker thumbnail in the tray.
type thumbButton struct {
	img   image.Image
	theme *theme.Theme
	rect  image.Rectangle
}

func (b *thumbButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, b.rect, image.NewUniform(buttonFill(b.theme, state)), image.Point{}, draw.Src)
	if b.img == nil {
		return
	}
	inner := b.rect.Inset(4)
	sb := b.img.Bounds()
	scale := min(float64(inner.Dx())/float64(sb.Dx()), float64(inner.Dy())/float64(sb.Dy()))
	w, h := int(float64(sb.Dx())*scale), int(float64(sb.Dy())*scale)
	x := inner.Min.X + (inner.Dx()-w)/2
	y := inner.Min.Y + (inner.Dy()-h)/2
	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), b.img, sb, draw.Over, nil)
	if state == StateHover {
		paint.Rect(dst, b.rect, b.theme.SelectionOutline, 1)
	}
}

func (b *thumbButton) Rect() image.Rectangle     { return b.rect }
func (b *thumbButton) SetRect(r image.Rectangle) { b.rect = r }
