package ui

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/stickerpad/internal/editor"
	"github.com/example/stickerpad/internal/notify"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// newWindow returns a window over a 400x300 image laid out in an 872x600
// window, so the canvas is shown unscaled at (272,112).
func newWindow(t *testing.T) *Window {
	t.Helper()
	s := editor.New(editor.WithClipboard(func(image.Image) error { return nil }))
	if err := s.Open(solid(400, 300, color.RGBA{255, 255, 255, 255})); err != nil {
		t.Fatalf("open: %v", err)
	}
	w := New(s, WithSaveDir(t.TempDir()))
	w.resize(872, 600)
	return w
}

func press(r rune, code key.Code, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress}
}

func centre(r image.Rectangle) (float32, float32) {
	c := r.Min.Add(r.Max).Div(2)
	return float32(c.X), float32(c.Y)
}

func TestLayoutHit(t *testing.T) {
	c := layoutChrome(872, 600, 3)
	if c.area != image.Rect(toolbarWidth, 0, 872, 600-statusHeight-trayHeight) {
		t.Fatalf("area = %v", c.area)
	}
	if len(c.tools) != len(editor.Tools()) || len(c.tray) != 3 {
		t.Fatalf("tools %d tray %d", len(c.tools), len(c.tray))
	}
	tests := []struct {
		p     image.Point
		where part
		idx   int
	}{
		{image.Pt(400, 200), partCanvas, 0},
		{c.tools[2].Min.Add(image.Pt(1, 1)), partTool, 2},
		{c.swatches[5].Min.Add(image.Pt(1, 1)), partSwatch, 5},
		{c.widths[1].Min.Add(image.Pt(1, 1)), partWidth, 1},
		{c.tray[0].Min.Add(image.Pt(1, 1)), partTray, 0},
		{image.Pt(860, c.trayBand.Min.Y+10), partNone, 0},
		{image.Pt(10, 590), partStatus, 0},
	}
	for _, tc := range tests {
		where, idx := c.hit(tc.p)
		if where != tc.where || idx != tc.idx {
			t.Errorf("hit(%v) = %v,%d want %v,%d", tc.p, where, idx, tc.where, tc.idx)
		}
	}
}

func TestDisplayRectCentres(t *testing.T) {
	area := image.Rect(72, 0, 872, 524)
	if got := displayRect(area, image.Pt(400, 300), 1); got != image.Rect(272, 112, 672, 412) {
		t.Fatalf("got %v", got)
	}
	if got := displayRect(area, image.Pt(400, 300), 2); got.Dx() != 800 || got.Dy() != 600 {
		t.Fatalf("zoomed size %v", got.Size())
	}
	w, h := initialSize(image.Point{})
	if w <= toolbarWidth || h <= statusHeight+trayHeight {
		t.Fatalf("initial size %dx%d too small", w, h)
	}
}

func TestToastsExpire(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var forwarded []string
	ts := NewToasts(toasterFunc(func(ev notify.Event, d string) { forwarded = append(forwarded, d) }))
	ts.now = func() time.Time { return now }
	ts.Toast(notify.EventSave, "out.png")
	if got := ts.Current(); got != "saved out.png" {
		t.Fatalf("current = %q", got)
	}
	if len(forwarded) != 1 || forwarded[0] != "out.png" {
		t.Fatalf("forwarded = %v", forwarded)
	}
	now = now.Add(toastDuration)
	if got := ts.Current(); got != "" {
		t.Fatalf("expected expiry, got %q", got)
	}
	ts.Show("local")
	ts.Dismiss()
	if got := ts.Current(); got != "" {
		t.Fatalf("expected dismissal, got %q", got)
	}
}

type toasterFunc func(notify.Event, string)

func (f toasterFunc) Toast(ev notify.Event, d string) { f(ev, d) }

func TestToolShortcutsAndUndo(t *testing.T) {
	w := newWindow(t)
	if !w.handleKey(press('b', key.CodeB, 0)) || w.session.Tool() != editor.ToolDraw {
		t.Fatalf("b should select draw, got %v", w.session.Tool())
	}
	w.handleKey(press(']', key.CodeRightSquareBracket, 0))
	if got := w.session.SourceSize(); got != image.Pt(300, 400) {
		t.Fatalf("rotate gave %v", got)
	}
	w.handleKey(press('z', key.CodeZ, key.ModControl))
	if got := w.session.SourceSize(); got != image.Pt(400, 300) {
		t.Fatalf("undo gave %v", got)
	}
	if w.handleKey(key.Event{Rune: 'b', Code: key.CodeB, Direction: key.DirRelease}) {
		t.Fatalf("key release must be ignored")
	}
	w.handleKey(press('q', key.CodeQ, 0))
	if !w.quit {
		t.Fatalf("q should quit")
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	w := newWindow(t)
	for i := 0; i < 2; i++ {
		if _, err := w.session.AddStickerImage(solid(20, 20, color.RGBA{0, 0, 255, 255}), "square"); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	w.handleKey(press('x', key.CodeX, 0))
	if n := w.session.Stickers().Len(); n != 2 {
		t.Fatalf("first x removed stickers: %d left", n)
	}
	w.handleKey(press('b', key.CodeB, 0))
	w.handleKey(press('x', key.CodeX, 0))
	if n := w.session.Stickers().Len(); n != 2 {
		t.Fatalf("another key in between must reset the confirmation")
	}
	w.handleKey(press('x', key.CodeX, 0))
	if n := w.session.Stickers().Len(); n != 0 {
		t.Fatalf("second x left %d stickers", n)
	}
}

func TestTextToolTyping(t *testing.T) {
	w := newWindow(t)
	w.handleKey(press('t', key.CodeT, 0))
	if w.session.Tool() != editor.ToolText {
		t.Fatalf("tool = %v", w.session.Tool())
	}
	for _, r := range "hix" {
		w.handleKey(press(r, key.CodeA, 0))
	}
	w.handleKey(press(-1, key.CodeDeleteBackspace, 0))
	if string(w.textInput) != "hi" {
		t.Fatalf("text input = %q", string(w.textInput))
	}
	w.handleKey(press(-1, key.CodeReturnEnter, 0))
	labels := w.session.HistoryLabels()
	if len(labels) != 1 || labels[0] != "text" {
		t.Fatalf("history = %v", labels)
	}
	w.handleKey(press(-1, key.CodeEscape, 0))
	if w.session.Tool() != editor.ToolNone {
		t.Fatalf("escape should leave the text tool")
	}
}

func TestFilterAndShapeKeys(t *testing.T) {
	w := newWindow(t)
	w.handleKey(press('f', key.CodeF, 0))
	w.handleKey(press(-1, key.CodeUpArrow, 0))
	w.handleKey(press('.', key.CodeFullStop, 0))
	a := w.session.Adjust()
	if a.Brightness != filterStep || a.Saturation != filterStep {
		t.Fatalf("adjust = %+v", a)
	}
	w.handleKey(press(-1, key.CodeReturnEnter, 0))
	if labels := w.session.HistoryLabels(); len(labels) != 1 || labels[0] != "filters" {
		t.Fatalf("history = %v", labels)
	}
	w.handleKey(press('s', key.CodeS, 0))
	w.handleKey(press('2', key.Code2, 0))
	w.handleKey(press('g', key.CodeG, 0))
	if w.shape != "ellipse" || !w.shapeFill {
		t.Fatalf("shape = %v fill %v", w.shape, w.shapeFill)
	}
}

func TestMouseRoutesToolbarAndCanvas(t *testing.T) {
	w := newWindow(t)
	x, y := centre(w.layout.tools[int(editor.ToolDraw)])
	w.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if w.session.Tool() != editor.ToolDraw {
		t.Fatalf("toolbar click gave %v", w.session.Tool())
	}
	x, y = centre(w.layout.swatches[0])
	w.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if w.session.Brush() != palette[0] {
		t.Fatalf("brush = %v", w.session.Brush())
	}
	x, y = centre(w.layout.widths[3])
	w.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if w.session.BrushWidth() != brushWidths[3] {
		t.Fatalf("width = %d", w.session.BrushWidth())
	}

	w.handleMouse(mouse.Event{X: 300, Y: 150, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	w.handleMouse(mouse.Event{X: 350, Y: 200})
	// Dragging outside the canvas keeps feeding the gesture.
	w.handleMouse(mouse.Event{X: 20, Y: 590})
	w.handleMouse(mouse.Event{X: 20, Y: 590, Button: mouse.ButtonLeft, Direction: mouse.DirRelease})
	if w.pointerDown {
		t.Fatalf("release should end the gesture")
	}
	if labels := w.session.HistoryLabels(); len(labels) != 1 || labels[0] != "draw" {
		t.Fatalf("history = %v", labels)
	}
}

func TestTrayClickAddsSticker(t *testing.T) {
	w := newWindow(t)
	if len(w.layout.tray) == 0 {
		t.Fatalf("no stickers in the tray")
	}
	x, y := centre(w.layout.tray[0])
	w.handleMouse(mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress})
	if n := w.session.Stickers().Len(); n != 1 {
		t.Fatalf("stickers = %d", n)
	}
}

func TestSaveAndPaste(t *testing.T) {
	w := newWindow(t)
	w.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	w.handleKey(press('s', key.CodeS, key.ModControl))
	path := filepath.Join(w.saveDir, "stickerpad-20260102-030405.png")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := w.toasts.Current(); got != "saved "+path {
		t.Fatalf("toast = %q", got)
	}

	w.readClipboard = func() (image.Image, error) { return nil, errors.New("empty") }
	w.handleKey(press('v', key.CodeV, key.ModControl))
	if got := w.session.SourceSize(); got != image.Pt(400, 300) {
		t.Fatalf("failed paste changed the image: %v", got)
	}
	w.readClipboard = func() (image.Image, error) { return solid(50, 40, color.RGBA{A: 255}), nil }
	w.handleKey(press('v', key.CodeV, key.ModControl))
	if got := w.session.SourceSize(); got != image.Pt(50, 40) {
		t.Fatalf("paste gave %v", got)
	}
}

func TestRenderDrawsChrome(t *testing.T) {
	w := newWindow(t)
	w.toasts.Show("hello")
	st := w.paintState()
	if st.display != image.Rect(272, 112, 672, 412) {
		t.Fatalf("display = %v", st.display)
	}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	p := &painter{}
	p.render(dst, &st)
	if got := dst.RGBAAt(400, 300); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("canvas pixel = %v", got)
	}
	if got := dst.RGBAAt(st.width-2, st.height-2); got != st.theme.StatusBackground {
		t.Fatalf("status pixel = %v", got)
	}
	if len(p.tools) != len(editor.Tools()) {
		t.Fatalf("painter built %d tool buttons", len(p.tools))
	}
}
