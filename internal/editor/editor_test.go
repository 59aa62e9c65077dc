package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"golang.org/x/image/math/f64"

	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/imageio"
	"github.com/example/stickerpad/internal/notify"
	"github.com/example/stickerpad/internal/paint"
	"github.com/example/stickerpad/internal/sticker"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var (
	grey = color.RGBA{100, 100, 100, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

type toasts struct{ got []string }

func (t *toasts) Toast(ev notify.Event, detail string) { t.got = append(t.got, string(ev)+": "+detail) }

type fakeLoader map[string]image.Image

func (f fakeLoader) Load(_ context.Context, src string) (image.Image, error) {
	if img, ok := f[src]; ok {
		return img, nil
	}
	return nil, &imageio.LoadError{Src: src, Stage: imageio.StageDecode, Err: errors.New("not an image")}
}

func newSession(t *testing.T, w, h int, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClipboard(func(image.Image) error { return nil })}, opts...)
	s := New(opts...)
	if err := s.Open(solid(w, h, grey)); err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func exportBytes(t *testing.T, s *Session) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	return buf.Bytes()
}

func addSquare(t *testing.T, s *Session) *sticker.Sticker {
	t.Helper()
	st, err := s.AddStickerImage(solid(64, 64, blue), "sale.png")
	if err != nil {
		t.Fatalf("add sticker: %v", err)
	}
	return st
}

func TestAddStickerScenario(t *testing.T) {
	s := newSession(t, 800, 600)
	st := addSquare(t, s)
	if st.W != 150 || st.H != 150 || st.X != 325 || st.Y != 225 {
		t.Fatalf("unexpected sticker %v", st)
	}
	if got := s.HistoryLabels(); len(got) != 1 || got[0] != "add sticker" {
		t.Fatalf("labels = %v", got)
	}
}

func TestMoveUndoRedoRoundTrip(t *testing.T) {
	s := newSession(t, 800, 600)
	addSquare(t, s)
	before := exportBytes(t, s)

	s.Press(f64.Vec2{400, 300})
	for x := 401.0; x <= 450; x++ {
		s.Drag(f64.Vec2{x, 300})
	}
	s.Release(f64.Vec2{450, 300})
	after := exportBytes(t, s)
	if bytes.Equal(before, after) {
		t.Fatalf("move did not change the export")
	}
	if got := s.HistoryLabels(); len(got) != 2 || got[1] != "move sticker" {
		t.Fatalf("one drag should be one history entry, got %v", got)
	}
	if st := s.Stickers().Selected(); st.X != 375 {
		t.Fatalf("sticker x = %v, want 375", st.X)
	}

	if label, ok := s.Undo(); !ok || label != "move sticker" {
		t.Fatalf("undo = %q, %v", label, ok)
	}
	if !bytes.Equal(before, exportBytes(t, s)) {
		t.Fatalf("undo did not restore the pre-move image")
	}
	if _, ok := s.Redo(); !ok {
		t.Fatalf("redo failed")
	}
	if !bytes.Equal(after, exportBytes(t, s)) {
		t.Fatalf("redo did not restore the post-move image")
	}
}

func TestNewOperationInvalidatesRedo(t *testing.T) {
	s := newSession(t, 200, 200)
	addSquare(t, s)
	s.Undo()
	if !s.CanRedo() {
		t.Fatalf("expected redo after undo")
	}
	addSquare(t, s)
	if s.CanRedo() {
		t.Fatalf("redo must be invalid after a new operation")
	}
}

func TestClickWithoutMovingRecordsNothing(t *testing.T) {
	s := newSession(t, 800, 600)
	addSquare(t, s)
	s.Press(f64.Vec2{400, 300})
	s.Release(f64.Vec2{400, 300})
	if n := len(s.HistoryLabels()); n != 1 {
		t.Fatalf("history length = %d, want 1", n)
	}
}

func TestSelectionStaysExclusive(t *testing.T) {
	s := newSession(t, 800, 600)
	a := addSquare(t, s)
	a.X = 0
	b := addSquare(t, s)
	clicks := []f64.Vec2{{75, 300}, {400, 300}, {75, 300}, {790, 10}, {400, 300}}
	for _, p := range clicks {
		s.Press(p)
		s.Release(p)
		n := 0
		for _, st := range s.Stickers().All() {
			if st.Selected {
				n++
			}
		}
		if n > 1 {
			t.Fatalf("%d stickers selected after click at %v", n, p)
		}
	}
	a, b = s.Stickers().All()[0], s.Stickers().All()[1]
	if a.Selected || !b.Selected {
		t.Fatalf("expected b selected, a not")
	}
}

func TestResizeGestureRespectsMinimum(t *testing.T) {
	s := newSession(t, 800, 600)
	st := addSquare(t, s)
	s.Press(f64.Vec2{475, 375})
	for _, p := range []f64.Vec2{{330, 230}, {-1e6, -1e6}, {326, 226}, {600, 600}, {1e6, 1}, {340, 240}} {
		s.Drag(p)
		st = s.Stickers().Selected()
		if st.W < 20 || st.H < 20 {
			t.Fatalf("sticker shrank below minimum: %v", st)
		}
		if st.X != 325 || st.Y != 225 {
			t.Fatalf("top-left anchor moved: %v", st)
		}
	}
	s.Release(f64.Vec2{340, 240})
	labels := s.HistoryLabels()
	if labels[len(labels)-1] != "resize sticker" {
		t.Fatalf("labels = %v", labels)
	}
}

func TestPointerEventsUseDisplayScale(t *testing.T) {
	s := newSession(t, 800, 600)
	addSquare(t, s)
	s.SetDisplay(geom.Rect{X: 10, Y: 10, W: 400, H: 300})
	s.SetZoom(0.5)
	s.PointerDown(geom.Pointer{Touches: []f64.Vec2{{210, 160}}})
	s.PointerMove(geom.Pointer{X: 220, Y: 160})
	s.PointerUp(geom.Pointer{X: 220, Y: 160})
	if st := s.Stickers().Selected(); st.X != 345 {
		t.Fatalf("sticker x = %v, want 345", st.X)
	}
}

func TestRotateRemapsStickers(t *testing.T) {
	s := newSession(t, 800, 600)
	addSquare(t, s)
	if err := s.Rotate(90); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if got := s.CanvasSize(); got != image.Pt(600, 800) {
		t.Fatalf("canvas = %v, want 600x800", got)
	}
	st := s.Stickers().All()[0]
	if st.X != 225 || st.Y != 325 || st.Rotation != 90 {
		t.Fatalf("sticker not remapped: %v", st)
	}
	if err := s.Rotate(45); err == nil {
		t.Fatalf("expected error for 45 degrees")
	}
	s.Undo()
	if got := s.CanvasSize(); got != image.Pt(800, 600) {
		t.Fatalf("undo canvas = %v", got)
	}
	if st := s.Stickers().All()[0]; st.X != 325 || st.Rotation != 0 {
		t.Fatalf("undo sticker = %v", st)
	}
}

func TestRotatePixels(t *testing.T) {
	s := newSession(t, 4, 2)
	s.base.SetRGBA(0, 0, blue)
	if err := s.Rotate(90); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if got := s.Base().RGBAAt(1, 0); got != blue {
		t.Fatalf("top-left pixel should move to top-right, got %v", got)
	}
	if err := s.Flip(true); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if got := s.Base().RGBAAt(0, 0); got != blue {
		t.Fatalf("flip did not mirror, got %v", got)
	}
}

func TestCropScenario(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 2000, 2000))
	base.SetRGBA(200, 200, blue)
	base.SetRGBA(999, 999, color.RGBA{0, 255, 0, 255})
	s := New()
	if err := s.Open(base); err != nil {
		t.Fatalf("open: %v", err)
	}
	s.SetAvailable(1000, 1000)
	if s.CanvasSize() != image.Pt(1000, 1000) {
		t.Fatalf("canvas = %v", s.CanvasSize())
	}
	s.SetTool(ToolCrop)
	s.Press(f64.Vec2{100, 100})
	s.Drag(f64.Vec2{300, 300})
	s.Release(f64.Vec2{500, 500})
	r, ok := s.CropSelection()
	if !ok || r != (geom.Rect{X: 100, Y: 100, W: 400, H: 400}) {
		t.Fatalf("selection = %v, %v", r, ok)
	}
	if err := s.ApplyCrop(); err != nil {
		t.Fatalf("apply crop: %v", err)
	}
	if got := s.SourceSize(); got != image.Pt(800, 800) {
		t.Fatalf("cropped size = %v, want 800x800", got)
	}
	if s.Base().RGBAAt(0, 0) != blue || s.Base().RGBAAt(799, 799) != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("crop extracted the wrong region")
	}
	if _, ok := s.CropSelection(); ok {
		t.Fatalf("crop selection should be cleared after apply")
	}
	if err := s.ApplyCrop(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestCropKeepsStickerOnContent(t *testing.T) {
	s := newSession(t, 800, 600)
	st := addSquare(t, s)
	x, y := st.X, st.Y
	if err := s.Crop(geom.Rect{X: 100, Y: 50, W: 600, H: 500}); err != nil {
		t.Fatalf("crop: %v", err)
	}
	st = s.Stickers().All()[0]
	if st.X != x-100 || st.Y != y-50 {
		t.Fatalf("sticker at (%v,%v), want (%v,%v)", st.X, st.Y, x-100, y-50)
	}
}

func TestBrightnessBake(t *testing.T) {
	s := newSession(t, 10, 10)
	s.SetAdjust(filter.Adjust{Brightness: 20})
	if got := s.Redraw(RenderOptions{}).RGBAAt(3, 3); got.R != 120 {
		t.Fatalf("preview = %v, want 120", got)
	}
	if got := s.Base().RGBAAt(3, 3); got.R != 100 {
		t.Fatalf("preview must not touch the base, got %v", got)
	}
	if err := s.BakeFilters(); err != nil {
		t.Fatalf("bake: %v", err)
	}
	if got := s.Base().RGBAAt(3, 3); got != (color.RGBA{120, 120, 120, 255}) {
		t.Fatalf("baked = %v", got)
	}
	if !s.Adjust().Neutral() {
		t.Fatalf("preview should reset after bake: %+v", s.Adjust())
	}
	if got := s.Redraw(RenderOptions{}).RGBAAt(3, 3); got.R != 120 {
		t.Fatalf("bake applied twice: %v", got)
	}
	s.Undo()
	if got := s.Base().RGBAAt(3, 3); got.R != 100 {
		t.Fatalf("undo bake = %v", got)
	}
}

func TestDrawLayerSurvivesRedrawAndFlatten(t *testing.T) {
	s := newSession(t, 100, 100)
	s.SetTool(ToolDraw)
	s.Press(f64.Vec2{10, 10})
	s.Drag(f64.Vec2{30, 10})
	s.Release(f64.Vec2{50, 10})
	red := s.Brush()
	for i := 0; i < 3; i++ {
		if got := s.Redraw(RenderOptions{Decorations: true}).RGBAAt(30, 10); got != red {
			t.Fatalf("stroke lost on redraw %d: %v", i, got)
		}
	}
	if s.Base().RGBAAt(30, 10) != grey {
		t.Fatalf("stroke should live in the paint layer until flattened")
	}
	if err := s.Flatten(); err != nil {
		t.Fatalf("flatten: %v", err)
	}
	if s.Base().RGBAAt(30, 10) != red {
		t.Fatalf("flatten did not bake the stroke")
	}
	want := []string{"draw", "flatten"}
	got := s.HistoryLabels()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	s.Undo()
	s.Undo()
	if s.Redraw(RenderOptions{}).RGBAAt(30, 10) != grey {
		t.Fatalf("undo did not remove the stroke")
	}
}

func TestEraserClearsBase(t *testing.T) {
	s := newSession(t, 20, 20)
	s.SetTool(ToolEraser)
	s.Press(f64.Vec2{5, 5})
	s.Release(f64.Vec2{5, 5})
	if got := s.Base().RGBAAt(5, 5); got.A != 0 {
		t.Fatalf("eraser left %v", got)
	}
	if got := s.HistoryLabels(); len(got) != 1 || got[0] != "erase" {
		t.Fatalf("labels = %v", got)
	}
}

func TestShapeToolStampsIntoBase(t *testing.T) {
	s := newSession(t, 100, 100)
	s.SetTool(ToolShapes)
	s.SetShape(paint.ShapeRect, true)
	s.Press(f64.Vec2{20, 20})
	s.Drag(f64.Vec2{60, 60})
	if s.Base().RGBAAt(40, 40) != grey {
		t.Fatalf("shape baked before release")
	}
	if got := s.Redraw(RenderOptions{Decorations: true}).RGBAAt(40, 40); got != s.Brush() {
		t.Fatalf("shape preview missing: %v", got)
	}
	s.Release(f64.Vec2{80, 80})
	if got := s.Base().RGBAAt(50, 50); got != s.Brush() {
		t.Fatalf("shape not baked: %v", got)
	}
}

func TestBlurToolAndTextStamp(t *testing.T) {
	s := newSession(t, 100, 100)
	s.base.SetRGBA(50, 50, color.RGBA{255, 255, 255, 255})
	s.SetTool(ToolBlur)
	s.Press(f64.Vec2{30, 30})
	s.Release(f64.Vec2{70, 70})
	if got := s.Base().RGBAAt(50, 50); got.R == 255 {
		t.Fatalf("blur had no effect")
	}
	if err := s.StampText("SALE"); err != nil {
		t.Fatalf("stamp text: %v", err)
	}
	got := s.HistoryLabels()
	if len(got) != 2 || got[0] != "blur" || got[1] != "text" {
		t.Fatalf("labels = %v", got)
	}
}

func TestColorToolSamples(t *testing.T) {
	s := New()
	want := color.RGBA{10, 200, 30, 255}
	if err := s.Open(solid(20, 20, want)); err != nil {
		t.Fatalf("open: %v", err)
	}
	s.SetTool(ToolColor)
	s.Press(f64.Vec2{2, 2})
	s.Release(f64.Vec2{2, 2})
	if s.Brush() != want {
		t.Fatalf("brush = %v", s.Brush())
	}
	if s.CanUndo() {
		t.Fatalf("sampling must not create history")
	}
}

func TestStickerLimitAndLoadFailure(t *testing.T) {
	tt := &toasts{}
	s := newSession(t, 200, 200,
		WithLimits(sticker.Limits{Max: 1}),
		WithToaster(tt),
		WithLoader(fakeLoader{"stickers/sale.png": solid(8, 8, blue)}))
	if _, err := s.AddSticker(context.Background(), "stickers/broken.png"); !imageio.IsStage(err, imageio.StageDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if s.Stickers().Len() != 0 || s.CanUndo() || len(tt.got) != 1 {
		t.Fatalf("load failure mutated state or was not toasted: %v", tt.got)
	}
	if _, err := s.AddSticker(context.Background(), "stickers/sale.png"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.AddSticker(context.Background(), "stickers/sale.png"); !errors.Is(err, sticker.ErrLimit) {
		t.Fatalf("expected ErrLimit, got %v", err)
	}
	if _, err := s.DuplicateSelected(); !errors.Is(err, sticker.ErrLimit) {
		t.Fatalf("expected ErrLimit from duplicate, got %v", err)
	}
	if n := len(s.HistoryLabels()); n != 1 {
		t.Fatalf("rejected adds must not create history, got %d entries", n)
	}
	if len(tt.got) != 3 {
		t.Fatalf("toasts = %v", tt.got)
	}
}

func TestStickerOperations(t *testing.T) {
	s := newSession(t, 800, 600)
	a := addSquare(t, s)
	if _, err := s.DuplicateSelected(); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if err := s.LowerSelected(true); err != nil {
		t.Fatalf("lower: %v", err)
	}
	if s.Stickers().All()[1].ID != a.ID {
		t.Fatalf("duplicate should be at the back")
	}
	if err := s.SetStickerRotation(-30); err != nil {
		t.Fatalf("rotate sticker: %v", err)
	}
	if err := s.SetStickerOpacity(2); err != nil {
		t.Fatalf("opacity: %v", err)
	}
	sel := s.Stickers().Selected()
	if sel.Rotation != 330 || sel.Opacity != 1 {
		t.Fatalf("unexpected sticker %v", sel)
	}
	if err := s.DeleteSelected(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteSelected(); !errors.Is(err, ErrNoSticker) {
		t.Fatalf("expected ErrNoSticker, got %v", err)
	}
	if err := s.ClearStickers(); err != nil || s.Stickers().Len() != 0 {
		t.Fatalf("clear: %v", err)
	}
	s.Undo()
	if s.Stickers().Len() != 1 {
		t.Fatalf("undo clear restored %d stickers", s.Stickers().Len())
	}
}

func TestExportHasNoDecorations(t *testing.T) {
	s := newSession(t, 200, 200)
	addSquare(t, s)
	plain := s.Redraw(RenderOptions{})
	decorated := s.Redraw(RenderOptions{Decorations: true})
	if bytes.Equal(plain.Pix, decorated.Pix) {
		t.Fatalf("selected sticker should be decorated in the live view")
	}
	img, err := png.Decode(bytes.NewReader(exportBytes(t, s)))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if !bytes.Equal(imageio.ToRGBA(img).Pix, plain.Pix) {
		t.Fatalf("export differs from the undecorated frame")
	}
	if !bytes.Equal(plain.Pix, s.Redraw(RenderOptions{}).Pix) {
		t.Fatalf("redraw is not repeatable")
	}
	url, err := s.ExportDataURL()
	if err != nil || len(url) < 30 {
		t.Fatalf("data url = %q, %v", url, err)
	}
}

func TestCopyToClipboard(t *testing.T) {
	var copied image.Image
	tt := &toasts{}
	s := newSession(t, 20, 20, WithToaster(tt), WithClipboard(func(img image.Image) error {
		copied = img
		return nil
	}))
	if err := s.CopyToClipboard(); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied == nil || copied.Bounds().Dx() != 20 || len(tt.got) != 1 {
		t.Fatalf("copy did not deliver the frame: %v", tt.got)
	}
	s2 := newSession(t, 20, 20, WithToaster(tt), WithClipboard(func(image.Image) error { return errors.New("no display") }))
	if err := s2.CopyToClipboard(); err == nil {
		t.Fatalf("expected copy error")
	}
}

func TestViewportResizeRescalesStickers(t *testing.T) {
	s := newSession(t, 800, 600)
	addSquare(t, s)
	s.SetAvailable(400, 300)
	if s.CanvasSize() != image.Pt(400, 300) {
		t.Fatalf("canvas = %v", s.CanvasSize())
	}
	st := s.Stickers().All()[0]
	if st.X != 162.5 || st.W != 75 {
		t.Fatalf("sticker not rescaled: %v", st)
	}
	s.SetAvailable(2000, 2000)
	if s.CanvasSize() != image.Pt(800, 600) {
		t.Fatalf("canvas must not exceed the source: %v", s.CanvasSize())
	}
}

func TestNoImage(t *testing.T) {
	s := New()
	if err := s.Rotate(90); !errors.Is(err, ErrNoImage) {
		t.Fatalf("rotate: %v", err)
	}
	if _, err := s.AddStickerImage(solid(2, 2, blue), "x"); !errors.Is(err, ErrNoImage) {
		t.Fatalf("add: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Export(&buf); !errors.Is(err, ErrNoImage) {
		t.Fatalf("export: %v", err)
	}
	s.Press(f64.Vec2{1, 1})
	if !s.Redraw(RenderOptions{}).Bounds().Empty() {
		t.Fatalf("redraw without image should be empty")
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		got, err := ParseTool(tool.String())
		if err != nil || got != tool {
			t.Fatalf("ParseTool(%q) = %v, %v", tool, got, err)
		}
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStickerShadow(t *testing.T) {
	s := newSession(t, 800, 600)
	addSquare(t, s)
	sample := func() color.RGBA { return s.Redraw(RenderOptions{}).RGBAAt(478, 300) }
	if got := sample(); got != grey {
		t.Fatalf("pixel beside the sticker = %v before shadow", got)
	}
	if err := s.SetStickerShadow(true); err != nil {
		t.Fatalf("shadow: %v", err)
	}
	if got := sample(); got.R >= grey.R {
		t.Fatalf("expected shadow at (478,300), got %v", got)
	}
	if got := s.Redraw(RenderOptions{}).RGBAAt(400, 300); got != blue {
		t.Fatalf("sticker pixel = %v", got)
	}
	if label, ok := s.Undo(); !ok || label != "sticker shadow" {
		t.Fatalf("undo = %q,%v", label, ok)
	}
	if got := sample(); got != grey {
		t.Fatalf("undo left shadow: %v", got)
	}
	s.Stickers().Deselect()
	if err := s.SetStickerShadow(true); !errors.Is(err, ErrNoSticker) {
		t.Fatalf("expected ErrNoSticker, got %v", err)
	}
}

func TestResizeRotatedStickerKeepsOppositeCorner(t *testing.T) {
	s := newSession(t, 800, 600)
	addSquare(t, s)
	if err := s.SetStickerRotation(45); err != nil {
		t.Fatalf("rotate sticker: %v", err)
	}
	before := geom.Corners(s.Stickers().Selected().Box())
	br := before[2]
	s.Press(br)
	for _, dy := range []float64{10, 40, -30} {
		s.Drag(f64.Vec2{br[0], br[1] + dy})
		after := geom.Corners(s.Stickers().Selected().Box())
		if math.Abs(after[0][0]-before[0][0]) > 1e-6 || math.Abs(after[0][1]-before[0][1]) > 1e-6 {
			t.Fatalf("top-left corner moved from %v to %v after dy %v", before[0], after[0], dy)
		}
	}
	s.Release(f64.Vec2{br[0], br[1] + 40})
	st := s.Stickers().Selected()
	if st.W <= 150 || st.Rotation != 45 {
		t.Fatalf("unexpected sticker after resize: %v", st)
	}
	if labels := s.HistoryLabels(); labels[len(labels)-1] != "resize sticker" {
		t.Fatalf("labels = %v", labels)
	}
}

func TestFilterBakeMatchesPreview(t *testing.T) {
	s := newSession(t, 100, 100)
	s.SetTool(ToolDraw)
	s.Press(f64.Vec2{10, 10})
	s.Release(f64.Vec2{50, 10})
	s.SetTool(ToolFilters)
	s.SetAdjust(filter.Adjust{Brightness: 50})
	points := []image.Point{{30, 10}, {30, 50}}
	preview := s.Redraw(RenderOptions{})
	if got := preview.RGBAAt(30, 10); got == s.Brush() {
		t.Fatalf("preview left the stroke unfiltered: %v", got)
	}
	if err := s.BakeFilters(); err != nil {
		t.Fatalf("bake: %v", err)
	}
	baked := s.Redraw(RenderOptions{})
	for _, p := range points {
		if want, got := preview.RGBAAt(p.X, p.Y), baked.RGBAAt(p.X, p.Y); got != want {
			t.Fatalf("pixel %v: preview %v, baked %v", p, want, got)
		}
	}
}

func TestEraserKeepsCanvasCopy(t *testing.T) {
	s := newSession(t, 400, 400)
	s.SetAvailable(200, 200)
	s.Redraw(RenderOptions{})
	cached := s.scaled
	s.SetTool(ToolEraser)
	s.Press(f64.Vec2{50, 50})
	s.Drag(f64.Vec2{80, 50})
	if s.scaled != cached || !s.scaledFresh() {
		t.Fatalf("erasing invalidated the canvas copy")
	}
	if got := s.Redraw(RenderOptions{}).RGBAAt(65, 50); got.A != 0 {
		t.Fatalf("erased canvas pixel = %v", got)
	}
	if s.scaled != cached {
		t.Fatalf("redraw rescaled the source after erasing")
	}
	s.Release(f64.Vec2{80, 50})
	if got := s.Base().RGBAAt(130, 100); got.A != 0 {
		t.Fatalf("erased source pixel = %v", got)
	}
}
