package ui

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/colornames"

	"github.com/example/stickerpad/internal/editor"
)

const (
	toolbarWidth = 72
	statusHeight = 20
	trayHeight   = 56
	buttonHeight = 22
	swatchSize   = 14
	widthRowH    = 14
)

var palette = []color.RGBA{
	colornames.Red, colornames.Orange, colornames.Gold, colornames.Limegreen,
	colornames.Dodgerblue, colornames.Purple, colornames.Black, colornames.White,
}

var brushWidths = []int{2, 4, 8, 12}

// part identifies which piece of the chrome a point falls on.
type part int

const (
	partNone part = iota
	partCanvas
	partTool
	partSwatch
	partWidth
	partTray
	partStatus
)

// chrome holds the rectangles of every interactive area for one window
// size.
type chrome struct {
	area     image.Rectangle
	tools    []image.Rectangle
	swatches []image.Rectangle
	widths   []image.Rectangle
	tray     []image.Rectangle
	trayBand image.Rectangle
	status   image.Rectangle
}

func layoutChrome(width, height, stickers int) chrome {
	var c chrome
	bottom := max(height-statusHeight-trayHeight, 0)
	c.area = image.Rect(toolbarWidth, 0, max(width, toolbarWidth), bottom)
	c.trayBand = image.Rect(0, bottom, width, bottom+trayHeight)
	c.status = image.Rect(0, bottom+trayHeight, width, height)

	y := 0
	for range editor.Tools() {
		c.tools = append(c.tools, image.Rect(0, y, toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}
	y += 4
	cols := toolbarWidth / (swatchSize + 2)
	for i := range palette {
		x := 2 + (i%cols)*(swatchSize+2)
		row := y + (i/cols)*(swatchSize+2)
		c.swatches = append(c.swatches, image.Rect(x, row, x+swatchSize, row+swatchSize))
	}
	y += ((len(palette)+cols-1)/cols)*(swatchSize+2) + 4
	for range brushWidths {
		c.widths = append(c.widths, image.Rect(0, y, toolbarWidth, y+widthRowH))
		y += widthRowH
	}

	thumb := trayHeight - 8
	for i := 0; i < stickers; i++ {
		x := toolbarWidth + 4 + i*(thumb+4)
		c.tray = append(c.tray, image.Rect(x, bottom+4, x+thumb, bottom+4+thumb))
	}
	return c
}

func (c chrome) hit(p image.Point) (part, int) {
	find := func(rs []image.Rectangle) int {
		for i, r := range rs {
			if p.In(r) {
				return i
			}
		}
		return -1
	}
	switch {
	case p.In(c.area):
		return partCanvas, 0
	case p.In(c.status):
		return partStatus, 0
	case p.In(c.trayBand):
		if i := find(c.tray); i >= 0 {
			return partTray, i
		}
		return partNone, 0
	}
	if i := find(c.tools); i >= 0 {
		return partTool, i
	}
	if i := find(c.swatches); i >= 0 {
		return partSwatch, i
	}
	if i := find(c.widths); i >= 0 {
		return partWidth, i
	}
	return partNone, 0
}

// displayRect centres the canvas, scaled by zoom, inside area.
func displayRect(area image.Rectangle, canvas image.Point, zoom float64) image.Rectangle {
	w := int(math.Round(float64(canvas.X) * zoom))
	h := int(math.Round(float64(canvas.Y) * zoom))
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// initialSize picks a window size that shows src unscaled when it fits on
// a typical screen.
func initialSize(src image.Point) (int, int) {
	if src.X <= 0 || src.Y <= 0 {
		return 800 + toolbarWidth, 600 + statusHeight + trayHeight
	}
	return max(min(src.X, 1280), 480) + toolbarWidth, max(min(src.Y, 800), 360) + statusHeight + trayHeight
}
