// Package ui is the desktop front end: a shiny window that shows the
// session frame, routes pointer and keyboard input to it and draws the
// toolbar, sticker tray and status bar around it.
package ui

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/stickerpad/assets"
	"github.com/example/stickerpad/internal/clipboard"
	"github.com/example/stickerpad/internal/editor"
	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/notify"
	paintpkg "github.com/example/stickerpad/internal/paint"
)

const loadTimeout = 30 * time.Second

var toolKeys = map[editor.Tool]rune{
	editor.ToolNone:    'm',
	editor.ToolCrop:    'r',
	editor.ToolDraw:    'b',
	editor.ToolEraser:  'e',
	editor.ToolText:    't',
	editor.ToolShapes:  's',
	editor.ToolFilters: 'f',
	editor.ToolBlur:    'u',
	editor.ToolColor:   'i',
}

// Option configures a Window.
type Option func(*Window)

// WithOutput sets the file saved by Ctrl+S. Without it saves go to the
// save directory under a timestamped name.
func WithOutput(path string) Option { return func(w *Window) { w.output = path } }

// WithSaveDir sets where timestamped saves go.
func WithSaveDir(dir string) Option { return func(w *Window) { w.saveDir = dir } }

// WithNotifier announces saves on the desktop.
func WithNotifier(n *notify.Notifier) Option { return func(w *Window) { w.notifier = n } }

// WithToasts shares the toast area the session reports into.
func WithToasts(t *Toasts) Option { return func(w *Window) { w.toasts = t } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(w *Window) { w.title = title } }

// Window is the desktop editor window.
type Window struct {
	session  *editor.Session
	toasts   *Toasts
	notifier *notify.Notifier
	output   string
	saveDir  string
	title    string

	readClipboard func() (image.Image, error)
	now           func() time.Time

	stickerNames  []string
	stickerImages []image.Image

	width, height int
	layout        chrome
	hoverTool     int
	hoverTray     int
	pointerDown   bool
	textInput     []rune
	confirmClear  bool
	shape         paintpkg.Shape
	shapeFill     bool

	actions  map[string]func()
	keys     map[KeyShortcut]string
	quit     bool
}

// New creates a window over s.
func New(s *editor.Session, opts ...Option) *Window {
	w := &Window{
		session:       s,
		title:         "stickerpad",
		readClipboard: clipboard.ReadImage,
		now:           time.Now,
		hoverTool:     -1,
		hoverTray:     -1,
		shape:         paintpkg.ShapeRect,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.toasts == nil {
		w.toasts = NewToasts(nil)
	}
	for _, name := range assets.Stickers() {
		img, err := assets.Image(name)
		if err != nil {
			log.Printf("sticker tray: %v", err)
			continue
		}
		w.stickerNames = append(w.stickerNames, name)
		w.stickerImages = append(w.stickerImages, img)
	}
	w.registerActions()
	return w
}

// Run executes the UI loop using shiny's driver. It returns when the
// window closes.
func (w *Window) Run() { driver.Main(w.Main) }

// Main runs the event loop on s.
func (w *Window) Main(s screen.Screen) {
	width, height := initialSize(w.session.SourceSize())
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: w.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer win.Release()

	w.toasts.setWake(func() { win.Send(paint.Event{}) })
	defer w.toasts.setWake(nil)
	w.resize(width, height)

	var (
		paintMu     sync.Mutex
		paintCancel context.CancelFunc
		dropCount   int
	)
	paintCh := make(chan paintState, 1)
	go func() {
		p := &painter{}
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, win, p, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch e := win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			w.resize(e.WidthPx, e.HeightPx)
			win.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := w.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if w.handleMouse(e) {
				win.Send(paint.Event{})
			}
		case key.Event:
			repaint := w.handleKey(e)
			if w.quit {
				stopPaint()
				return
			}
			if repaint {
				win.Send(paint.Event{})
			}
		}
	}
}

func (w *Window) resize(width, height int) {
	w.width, w.height = width, height
	w.layout = layoutChrome(width, height, len(w.stickerImages))
	w.session.SetAvailable(w.layout.area.Dx(), w.layout.area.Dy())
	w.updateDisplay()
}

func (w *Window) updateDisplay() {
	r := displayRect(w.layout.area, w.session.CanvasSize(), w.session.Zoom())
	w.session.SetDisplay(geom.Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())})
}

func (w *Window) paintState() paintState {
	w.updateDisplay()
	d := w.session.Display()
	st := paintState{
		width:      w.width,
		height:     w.height,
		theme:      w.session.Theme(),
		layout:     w.layout,
		display:    d.Image(),
		tool:       w.session.Tool(),
		hoverTool:  w.hoverTool,
		hoverTray:  w.hoverTray,
		brush:      w.session.Brush(),
		brushWidth: w.session.BrushWidth(),
		stickers:   w.stickerImages,
		status:     w.statusLine(),
		message:    w.toasts.Current(),
	}
	if w.session.HasImage() {
		st.frame = w.session.Redraw(editor.RenderOptions{Decorations: true})
	}
	return st
}

func (w *Window) statusLine() string {
	if w.session.Tool() == editor.ToolText {
		return fmt.Sprintf("text: %s|  (Enter stamps, Esc leaves)", string(w.textInput))
	}
	if !w.session.HasImage() {
		return "no image: Ctrl+V pastes one from the clipboard"
	}
	return w.session.Status().String()
}

// handleMouse routes a mouse event and reports whether to repaint.
func (w *Window) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	ev := geom.Pointer{X: float64(e.X), Y: float64(e.Y)}
	if w.pointerDown {
		switch e.Direction {
		case mouse.DirRelease:
			w.pointerDown = false
			w.session.PointerUp(ev)
		default:
			w.session.PointerMove(ev)
		}
		return true
	}
	if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
		if e.Modifiers&key.ModControl != 0 {
			w.zoom(e.Button == mouse.ButtonWheelUp)
			return true
		}
		return false
	}
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	if press && w.toasts.Current() != "" {
		w.toasts.Dismiss()
	}
	where, idx := w.layout.hit(p)
	prevTool, prevTray := w.hoverTool, w.hoverTray
	w.hoverTool, w.hoverTray = -1, -1
	switch where {
	case partCanvas:
		if press {
			w.pointerDown = true
			w.session.PointerDown(ev)
			return true
		}
	case partTool:
		w.hoverTool = idx
		if press {
			w.setTool(editor.Tool(idx))
		}
	case partSwatch:
		if press {
			w.session.SetBrush(palette[idx])
		}
	case partWidth:
		if press {
			w.session.SetBrushWidth(brushWidths[idx])
		}
	case partTray:
		w.hoverTray = idx
		if press {
			w.addSticker(idx)
		}
	}
	return press || prevTool != w.hoverTool || prevTray != w.hoverTray
}

func (w *Window) addSticker(idx int) {
	if idx < 0 || idx >= len(w.stickerNames) || !w.session.HasImage() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if _, err := w.session.AddSticker(ctx, w.stickerNames[idx]); err != nil {
		log.Printf("add sticker: %v", err)
	}
}

func (w *Window) setTool(t editor.Tool) {
	w.session.SetTool(t)
	w.textInput = w.textInput[:0]
}

func (w *Window) zoom(in bool) {
	z := w.session.Zoom()
	if in {
		z *= 1.25
	} else {
		z /= 1.25
	}
	w.session.SetZoom(z)
	w.updateDisplay()
}

func (w *Window) register(name string, keys KeyboardShortcuts, fn func()) {
	w.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			w.keys[sc] = name
		}
	}
}

func (w *Window) registerActions() {
	w.actions = map[string]func(){}
	w.keys = map[KeyShortcut]string{}
	ctrl := key.ModControl
	s := w.session

	for t, r := range toolKeys {
		t := t
		w.register("tool-"+t.String(), shortcutList{{Rune: r}}, func() { w.setTool(t) })
	}
	w.register("undo", shortcutList{{Rune: 'z', Modifiers: ctrl}}, func() {
		if label, ok := s.Undo(); ok {
			w.toasts.Show("undid " + label)
		}
	})
	w.register("redo", shortcutList{{Rune: 'y', Modifiers: ctrl}}, func() {
		if label, ok := s.Redo(); ok {
			w.toasts.Show("redid " + label)
		}
	})
	w.register("duplicate", shortcutList{{Rune: 'd', Modifiers: ctrl}}, func() { w.report(func() error { _, err := s.DuplicateSelected(); return err }) })
	w.register("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() { w.report(s.DeleteSelected) })
	w.register("clear", shortcutList{{Rune: 'x'}}, func() {
		if !w.confirmClear {
			w.confirmClear = true
			w.toasts.Show("press X again to remove every sticker")
			return
		}
		w.confirmClear = false
		w.report(s.ClearStickers)
	})
	w.register("raise", shortcutList{{Code: key.CodePageUp}}, func() { w.report(func() error { return s.RaiseSelected(false) }) })
	w.register("lower", shortcutList{{Code: key.CodePageDown}}, func() { w.report(func() error { return s.LowerSelected(false) }) })
	w.register("shadow", shortcutList{{Rune: 'w'}}, func() {
		w.report(func() error {
			sel := s.Stickers().Selected()
			if sel == nil {
				return editor.ErrNoSticker
			}
			return s.SetStickerShadow(!sel.Shadow)
		})
	})
	w.register("rotate-cw", shortcutList{{Rune: ']'}}, func() { w.report(func() error { return s.Rotate(90) }) })
	w.register("rotate-ccw", shortcutList{{Rune: '['}}, func() { w.report(func() error { return s.Rotate(270) }) })
	w.register("flip-h", shortcutList{{Rune: 'h'}}, func() { w.report(func() error { return s.Flip(true) }) })
	w.register("flip-v", shortcutList{{Rune: 'k'}}, func() { w.report(func() error { return s.Flip(false) }) })
	w.register("flatten", shortcutList{{Rune: 'l'}}, func() { w.report(s.Flatten) })
	w.register("apply", shortcutList{{Code: key.CodeReturnEnter}}, w.apply)
	w.register("cancel", shortcutList{{Code: key.CodeEscape}}, func() { w.setTool(editor.ToolNone) })
	w.register("save", shortcutList{{Rune: 's', Modifiers: ctrl}}, w.save)
	w.register("copy", shortcutList{{Rune: 'c', Modifiers: ctrl}}, func() { w.report(s.CopyToClipboard) })
	w.register("paste", shortcutList{{Rune: 'v', Modifiers: ctrl}}, w.paste)
	w.register("zoom-in", shortcutList{{Rune: '+'}, {Rune: '='}}, func() { w.zoom(true) })
	w.register("zoom-out", shortcutList{{Rune: '-'}}, func() { w.zoom(false) })
	w.register("zoom-reset", shortcutList{{Rune: '0'}}, func() { s.SetZoom(1); w.updateDisplay() })
	w.register("quit", shortcutList{{Rune: 'q'}}, func() { w.quit = true })
}

// report logs a failed action. The session has already toasted it where
// the user needs to know.
func (w *Window) report(fn func() error) {
	if err := fn(); err != nil {
		log.Printf("action: %v", err)
		w.toasts.Show(err.Error())
	}
}

// apply commits the pending work of the active tool.
func (w *Window) apply() {
	s := w.session
	switch s.Tool() {
	case editor.ToolCrop:
		w.report(s.ApplyCrop)
	case editor.ToolFilters:
		w.report(s.BakeFilters)
	}
}

func (w *Window) save() {
	path := w.output
	if path == "" {
		name := "stickerpad-" + w.now().Format("20060102-150405") + ".png"
		path = filepath.Join(w.saveDir, name)
	}
	if err := w.writeFile(path); err != nil {
		log.Printf("save: %v", err)
		w.toasts.Show("save failed: " + err.Error())
		return
	}
	log.Printf("saved %s", path)
	w.toasts.Show("saved " + path)
	w.notifier.Save(path)
}

func (w *Window) writeFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.session.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w *Window) paste() {
	img, err := w.readClipboard()
	if err != nil {
		log.Printf("paste: %v", err)
		w.toasts.Show("clipboard has no image")
		return
	}
	if err := w.session.Open(img); err != nil {
		w.toasts.Show(err.Error())
		return
	}
	w.resize(w.width, w.height)
	w.toasts.Show("opened image from clipboard")
}

// handleKey routes a key press and reports whether to repaint.
func (w *Window) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if w.session.Tool() == editor.ToolText && w.textKey(e) {
		return true
	}
	if w.session.Tool() == editor.ToolFilters && w.filterKey(e) {
		return true
	}
	if w.session.Tool() == editor.ToolShapes && w.shapeKey(e) {
		return true
	}
	action, ok := w.lookup(e)
	if action != "clear" {
		w.confirmClear = false
	}
	if !ok {
		return false
	}
	w.actions[action]()
	return true
}

func (w *Window) lookup(e key.Event) (string, bool) {
	if e.Rune > 0 {
		mods := e.Modifiers &^ key.ModShift
		if a, ok := w.keys[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
			return a, true
		}
	}
	a, ok := w.keys[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return a, ok
}

// textKey collects typed text while the text tool is active.
func (w *Window) textKey(e key.Event) bool {
	if e.Modifiers&key.ModControl != 0 {
		return false
	}
	switch e.Code {
	case key.CodeReturnEnter:
		if len(w.textInput) > 0 {
			w.report(func() error { return w.session.StampText(string(w.textInput)) })
			w.textInput = w.textInput[:0]
		}
		return true
	case key.CodeEscape:
		w.setTool(editor.ToolNone)
		return true
	case key.CodeDeleteBackspace:
		if n := len(w.textInput); n > 0 {
			w.textInput = w.textInput[:n-1]
		}
		return true
	}
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		w.textInput = append(w.textInput, e.Rune)
		return true
	}
	return false
}

const filterStep = 5

// filterKey nudges the filter preview with the arrow keys and , . for
// saturation.
func (w *Window) filterKey(e key.Event) bool {
	a := w.session.Adjust()
	switch {
	case e.Code == key.CodeUpArrow:
		a.Brightness += filterStep
	case e.Code == key.CodeDownArrow:
		a.Brightness -= filterStep
	case e.Code == key.CodeRightArrow:
		a.Contrast += filterStep
	case e.Code == key.CodeLeftArrow:
		a.Contrast -= filterStep
	case e.Rune == '.':
		a.Saturation += filterStep
	case e.Rune == ',':
		a.Saturation -= filterStep
	case e.Rune == '0' && e.Modifiers == 0:
		a = filter.Adjust{}
	default:
		return false
	}
	w.session.SetAdjust(a)
	return true
}

// shapeKey picks the stamped shape with 1-4 and toggles fill with g.
func (w *Window) shapeKey(e key.Event) bool {
	shapes := paintpkg.Shapes()
	if e.Rune >= '1' && int(e.Rune-'1') < len(shapes) {
		w.shape = shapes[e.Rune-'1']
	} else if e.Rune == 'g' || e.Rune == 'G' {
		w.shapeFill = !w.shapeFill
	} else {
		return false
	}
	w.session.SetShape(w.shape, w.shapeFill)
	w.toasts.Show(fmt.Sprintf("shape %s fill %v", w.shape, w.shapeFill))
	return true
}
