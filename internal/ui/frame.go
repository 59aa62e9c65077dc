package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/stickerpad/internal/editor"
	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/paint"
	"github.com/example/stickerpad/internal/theme"
)

// frameDropThreshold bounds how many in-flight paints in a row may be
// cancelled by newer ones before one is allowed to finish.
const frameDropThreshold = 10

// paintState is an immutable snapshot of everything a paint needs. It is
// built on the event goroutine and drawn on the paint goroutine.
type paintState struct {
	width, height int
	theme         *theme.Theme
	layout        chrome
	frame         *image.RGBA
	display       image.Rectangle
	tool          editor.Tool
	hoverTool     int
	hoverTray     int
	brush         color.RGBA
	brushWidth    int
	stickers      []image.Image
	status        string
	message       string
}

// painter owns the cached chrome widgets. It is only used from the paint
// goroutine.
type painter struct {
	tools    []*CacheButton
	tray     []*CacheButton
	backdrop *image.RGBA
	theme    *theme.Theme
}

func (p *painter) sync(st *paintState) {
	if p.theme != st.theme || len(p.tools) != len(st.layout.tools) {
		p.theme = st.theme
		p.tools = p.tools[:0]
		for _, t := range editor.Tools() {
			p.tools = append(p.tools, &CacheButton{Button: &labelButton{label: toolLabel(t), theme: st.theme}})
		}
		p.tray = nil
	}
	if len(p.tray) != len(st.stickers) {
		p.tray = p.tray[:0]
		for _, img := range st.stickers {
			p.tray = append(p.tray, &CacheButton{Button: &thumbButton{img: img, theme: st.theme}})
		}
	}
	for i, r := range st.layout.tools {
		p.tools[i].SetRect(r)
	}
	for i, r := range st.layout.tray {
		if i < len(p.tray) {
			p.tray[i].SetRect(r)
		}
	}
}

func (p *painter) render(dst *image.RGBA, st *paintState) {
	p.sync(st)
	t := st.theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(t.Background), image.Point{}, draw.Src)

	area := dst.SubImage(st.layout.area).(*image.RGBA)
	if st.frame != nil && !st.display.Empty() {
		p.drawBackdrop(area, st.display.Intersect(st.layout.area))
		xdraw.ApproxBiLinear.Scale(area, st.display, st.frame, st.frame.Bounds(), draw.Over, nil)
	}

	for i, b := range p.tools {
		state := StateDefault
		if editor.Tool(i) == st.tool {
			state = StatePressed
		} else if i == st.hoverTool {
			state = StateHover
		}
		b.Draw(dst, state)
	}
	for i, r := range st.layout.swatches {
		draw.Draw(dst, r, image.NewUniform(palette[i]), image.Point{}, draw.Src)
		if palette[i] == st.brush {
			paint.Rect(dst, r, t.SelectionOutline, 2)
		}
	}
	for i, r := range st.layout.widths {
		fill := t.Background
		if brushWidths[i] == st.brushWidth {
			fill = shade(fill, 50)
		}
		draw.Draw(dst, r, image.NewUniform(fill), image.Point{}, draw.Src)
		mid := r.Min.Y + r.Dy()/2
		paint.Line(dst, r.Min.X+6, mid, r.Max.X-6, mid, st.brush, brushWidths[i])
	}

	draw.Draw(dst, st.layout.trayBand, image.NewUniform(shade(t.Background, 10)), image.Point{}, draw.Src)
	for i, b := range p.tray {
		state := StateDefault
		if i == st.hoverTray {
			state = StateHover
		}
		b.Draw(dst, state)
	}

	draw.Draw(dst, st.layout.status, image.NewUniform(t.StatusBackground), image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(st.layout.status.Min.X+4, st.layout.status.Min.Y+14)}
	d.DrawString(st.status)

	if st.message != "" {
		drawToast(dst, st.layout.area, st.message, t)
	}
}

func (p *painter) drawBackdrop(dst *image.RGBA, r image.Rectangle) {
	if p.backdrop == nil || p.backdrop.Bounds() != r {
		p.backdrop = image.NewRGBA(r)
		filter.Checkerboard(p.backdrop, r, 8, p.theme.CheckerLight, p.theme.CheckerDark)
	}
	draw.Draw(dst, r, p.backdrop, r.Min, draw.Src)
}

func drawToast(dst *image.RGBA, area image.Rectangle, msg string, t *theme.Theme) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.ToastText), Face: basicfont.Face7x13}
	w := d.MeasureString(msg).Ceil()
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + 24
	box := image.Rect(x-8, y-16, x+w+8, y+6)
	draw.Draw(dst, box, image.NewUniform(t.ToastBackground), image.Point{}, draw.Over)
	d.Dot = fixed.P(x, y)
	d.DrawString(msg)
}

func toolLabel(t editor.Tool) string {
	if k, ok := toolKeys[t]; ok {
		return fmt.Sprintf("%c:%s", k, t)
	}
	return t.String()
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, p *painter, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	p.render(b.RGBA(), &st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
