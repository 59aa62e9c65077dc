// Package paint holds the raster primitives used for brush strokes, the
// shapes and text stamps and on-canvas decorations.
package paint

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/math/f64"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(img.Bounds()) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Line draws a line of the given thickness between two points.
func Line(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	bresenham(x0, y0, x1, y1, func(x, y int) { setThickPixel(img, x, y, thick, col) })
}

// EraseLine clears every pixel a brush of the given thickness passes over.
func EraseLine(img *image.RGBA, x0, y0, x1, y1 int, thick int) {
	Line(img, x0, y0, x1, y1, color.Transparent, thick)
}

// Rect outlines rect.
func Rect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	Line(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	Line(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	Line(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	Line(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// DashedRect outlines rect with alternating dashes of c1 and c2, the marching
// ants used for crop and blur selections.
func DashedRect(img *image.RGBA, rect image.Rectangle, dash int, c1, c2 color.Color) {
	if dash <= 0 {
		dash = 4
	}
	pts := []image.Point{rect.Min, {rect.Max.X, rect.Min.Y}, rect.Max, {rect.Min.X, rect.Max.Y}, rect.Min}
	n := 0
	for i := 0; i+1 < len(pts); i++ {
		bresenham(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, func(x, y int) {
			col := c1
			if (n/dash)%2 == 1 {
				col = c2
			}
			n++
			if image.Pt(x, y).In(img.Bounds()) {
				img.Set(x, y, col)
			}
		})
	}
}

// FillSquare fills a square of side size centred on c.
func FillSquare(img *image.RGBA, c f64.Vec2, size int, fill, border color.Color) {
	h := size / 2
	x, y := int(math.Round(c[0])), int(math.Round(c[1]))
	r := image.Rect(x-h, y-h, x-h+size, y-h+size).Intersect(img.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			col := fill
			if px == x-h || py == y-h || px == x-h+size-1 || py == y-h+size-1 {
				col = border
			}
			img.Set(px, py, col)
		}
	}
}

// Polygon outlines the closed polygon through pts.
func Polygon(img *image.RGBA, pts []f64.Vec2, col color.Color, thick int) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		Line(img, int(math.Round(a[0])), int(math.Round(a[1])), int(math.Round(b[0])), int(math.Round(b[1])), col, thick)
	}
}
