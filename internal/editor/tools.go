package editor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/math/f64"

	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/paint"
)

// Tool is the active editing tool. Exactly one is active at a time.
type Tool int

const (
	ToolNone Tool = iota
	ToolCrop
	ToolDraw
	ToolEraser
	ToolText
	ToolShapes
	ToolFilters
	ToolBlur
	ToolColor
)

var toolNames = []string{"none", "crop", "draw", "eraser", "text", "shapes", "filters", "blur", "color"}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Tools lists every tool.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range out {
		out[i] = Tool(i)
	}
	return out
}

// ParseTool resolves a tool name.
func ParseTool(name string) (Tool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return ToolNone, fmt.Errorf("unknown tool %q", name)
}

// gestureTool handles press, drag and release for tools that own the
// pointer. end reports the history label and whether anything changed.
type gestureTool interface {
	begin(s *Session, p f64.Vec2)
	move(s *Session, p f64.Vec2)
	end(s *Session, p f64.Vec2) (label string, changed bool, err error)
	overlay(s *Session, dst *image.RGBA)
}

func newGestureTool(t Tool) gestureTool {
	switch t {
	case ToolCrop:
		return &cropTool{}
	case ToolDraw:
		return &strokeTool{}
	case ToolEraser:
		return &strokeTool{erase: true}
	case ToolShapes:
		return &shapeTool{}
	case ToolBlur:
		return &blurTool{}
	case ToolColor:
		return &colorTool{}
	}
	return nil
}

// SetTool activates t, discarding the transient state of the previous tool.
func (s *Session) SetTool(t Tool) {
	s.finishGesture()
	s.setTool(t)
}

func (s *Session) setTool(t Tool) {
	s.tool = t
	s.active = newGestureTool(t)
}

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetBrush sets the colour used by the draw, shape and text tools.
func (s *Session) SetBrush(c color.RGBA) { s.brush = c }

// Brush returns the brush colour.
func (s *Session) Brush() color.RGBA { return s.brush }

// SetBrushWidth sets the stroke width in canvas pixels.
func (s *Session) SetBrushWidth(w int) {
	if w > 0 {
		s.brushWidth = w
	}
}

// BrushWidth returns the stroke width.
func (s *Session) BrushWidth() int { return s.brushWidth }

// SetTextSize sets the point size of the text stamp in canvas pixels.
func (s *Session) SetTextSize(size float64) {
	if size > 0 {
		s.textSize = size
	}
}

// SetShape selects the shape stamped by the shapes tool.
func (s *Session) SetShape(sh paint.Shape, fill bool) { s.shape, s.shapeFill = sh, fill }

// SetBlurRadius sets the blur tool radius in canvas pixels.
func (s *Session) SetBlurRadius(r int) {
	if r > 0 {
		s.blurRadius = r
	}
}

// CropSelection returns the pending crop rectangle in canvas pixels.
func (s *Session) CropSelection() (geom.Rect, bool) {
	if c, ok := s.active.(*cropTool); ok && c.has {
		return c.rect, true
	}
	return geom.Rect{}, false
}

func pt(p f64.Vec2) (int, int) { return int(math.Round(p[0])), int(math.Round(p[1])) }

type cropTool struct {
	start    f64.Vec2
	rect     geom.Rect
	has      bool
	dragging bool
}

func (c *cropTool) begin(s *Session, p f64.Vec2) {
	c.start, c.dragging = p, true
	c.rect, c.has = geom.Rect{X: p[0], Y: p[1]}, false
}

func (c *cropTool) move(s *Session, p f64.Vec2) {
	if !c.dragging {
		return
	}
	c.rect = geom.RectFromPoints(c.start, p)
	c.has = !c.rect.Empty()
}

func (c *cropTool) end(s *Session, p f64.Vec2) (string, bool, error) {
	c.move(s, p)
	c.dragging = false
	return "", false, nil
}

func (c *cropTool) overlay(s *Session, dst *image.RGBA) {
	if !c.has {
		return
	}
	paint.DashedRect(dst, c.rect.Image(), 4, s.theme.DashLight, s.theme.DashDark)
}

// strokeTool paints freehand into the paint layer. The eraser also clears
// the base image underneath.
type strokeTool struct {
	erase  bool
	last   f64.Vec2
	active bool
}

func (t *strokeTool) begin(s *Session, p f64.Vec2) {
	t.last, t.active = p, true
	t.segment(s, p, p)
}

func (t *strokeTool) move(s *Session, p f64.Vec2) {
	if !t.active {
		return
	}
	t.segment(s, t.last, p)
	t.last = p
}

func (t *strokeTool) segment(s *Session, a, b f64.Vec2) {
	x0, y0 := pt(a)
	x1, y1 := pt(b)
	if !t.erase {
		paint.Line(s.layer, x0, y0, x1, y1, s.brush, s.brushWidth)
		s.changed = true
		return
	}
	paint.EraseLine(s.layer, x0, y0, x1, y1, s.brushWidth)
	fresh := s.scaledFresh()
	sa, sb := s.toSource(a), s.toSource(b)
	sx, _ := s.sourceScale()
	ax, ay := pt(sa)
	bx, by := pt(sb)
	paint.EraseLine(s.base, ax, ay, bx, by, max(1, int(math.Round(float64(s.brushWidth)*sx))))
	s.touchBase()
	if fresh {
		// Keep the canvas copy in step with the base.
		paint.EraseLine(s.scaled, x0, y0, x1, y1, s.brushWidth)
		s.scaledR = s.baseRev
	}
	s.changed = true
}

func (t *strokeTool) end(s *Session, p f64.Vec2) (string, bool, error) {
	t.move(s, p)
	t.active = false
	if t.erase {
		return "erase", s.changed, nil
	}
	return "draw", s.changed, nil
}

func (t *strokeTool) overlay(*Session, *image.RGBA) {}

type shapeTool struct {
	start, cur f64.Vec2
	active     bool
}

func (t *shapeTool) begin(s *Session, p f64.Vec2) { t.start, t.cur, t.active = p, p, true }

func (t *shapeTool) move(s *Session, p f64.Vec2) {
	if t.active {
		t.cur = p
	}
}

func (t *shapeTool) end(s *Session, p f64.Vec2) (string, bool, error) {
	if !t.active {
		return "", false, nil
	}
	t.cur, t.active = p, false
	if t.start == t.cur {
		return "", false, nil
	}
	if err := s.stampShape(s.shape, t.start, t.cur, s.shapeFill); err != nil {
		return "", false, err
	}
	return "shape", true, nil
}

func (t *shapeTool) overlay(s *Session, dst *image.RGBA) {
	if !t.active || t.start == t.cur {
		return
	}
	style := paint.ShapeStyle{Color: s.brush, Width: float64(s.brushWidth), Fill: s.shapeFill}
	if err := paint.StampShape(dst, s.shape, t.start, t.cur, style); err != nil {
		paint.DashedRect(dst, geom.RectFromPoints(t.start, t.cur).Image(), 4, s.theme.DashLight, s.theme.DashDark)
	}
}

type blurTool struct {
	start, cur f64.Vec2
	active     bool
}

func (t *blurTool) begin(s *Session, p f64.Vec2) { t.start, t.cur, t.active = p, p, true }

func (t *blurTool) move(s *Session, p f64.Vec2) {
	if t.active {
		t.cur = p
	}
}

func (t *blurTool) end(s *Session, p f64.Vec2) (string, bool, error) {
	if !t.active {
		return "", false, nil
	}
	t.cur, t.active = p, false
	r := geom.RectFromPoints(t.start, t.cur)
	if r.Empty() {
		return "", false, nil
	}
	s.blurRect(r)
	return "blur", true, nil
}

func (t *blurTool) overlay(s *Session, dst *image.RGBA) {
	if t.active {
		paint.DashedRect(dst, geom.RectFromPoints(t.start, t.cur).Image(), 4, s.theme.DashLight, s.theme.DashDark)
	}
}

// colorTool is an eyedropper over the composed frame.
type colorTool struct{}

func (colorTool) begin(s *Session, p f64.Vec2) {
	frame := s.compose(false)
	x, y := pt(p)
	if image.Pt(x, y).In(frame.Bounds()) {
		if c := frame.RGBAAt(x, y); c.A > 0 {
			a := int(c.A)
			s.brush = color.RGBA{R: uint8(int(c.R) * 255 / a), G: uint8(int(c.G) * 255 / a), B: uint8(int(c.B) * 255 / a), A: 255}
		}
	}
}

func (colorTool) move(*Session, f64.Vec2) {}

func (colorTool) end(*Session, f64.Vec2) (string, bool, error) { return "", false, nil }

func (colorTool) overlay(*Session, *image.RGBA) {}

// SetAdjust sets the live filter preview. It does not touch the base image.
func (s *Session) SetAdjust(a filter.Adjust) { s.adjust = a.Clamp() }

// Adjust returns the live filter preview.
func (s *Session) Adjust() filter.Adjust { return s.adjust }
