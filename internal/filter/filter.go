// Package filter implements the pixel passes used by the filters and blur
// tools.
package filter

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Adjust holds brightness, contrast and saturation offsets in the range
// -100 to 100. The zero value leaves pixels unchanged.
type Adjust struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// Neutral reports whether a leaves pixels unchanged.
func (a Adjust) Neutral() bool {
	return a.Brightness == 0 && a.Contrast == 0 && a.Saturation == 0
}

// Clamp limits every field to -100..100.
func (a Adjust) Clamp() Adjust {
	c := func(v float64) float64 { return math.Max(-100, math.Min(100, v)) }
	return Adjust{Brightness: c(a.Brightness), Contrast: c(a.Contrast), Saturation: c(a.Saturation)}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Apply runs a over every pixel of img in place. Alpha is preserved.
func Apply(img *image.RGBA, a Adjust) {
	if img == nil || a.Neutral() {
		return
	}
	a = a.Clamp()
	c := a.Contrast * 255 / 100
	factor := 259 * (c + 255) / (255 * (259 - c))
	sat := 1 + a.Saturation/100
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			al := row[i+3]
			if al == 0 {
				continue
			}
			r, g, bl := float64(row[i]), float64(row[i+1]), float64(row[i+2])
			if al != 255 {
				k := 255 / float64(al)
				r, g, bl = r*k, g*k, bl*k
			}
			r, g, bl = r+a.Brightness, g+a.Brightness, bl+a.Brightness
			r = factor*(r-128) + 128
			g = factor*(g-128) + 128
			bl = factor*(bl-128) + 128
			if sat != 1 {
				l := 0.299*r + 0.587*g + 0.114*bl
				r = l + (r-l)*sat
				g = l + (g-l)*sat
				bl = l + (bl-l)*sat
			}
			r8, g8, b8 := clamp8(r), clamp8(g), clamp8(bl)
			if al != 255 {
				k := float64(al) / 255
				r8, g8, b8 = clamp8(float64(r8)*k), clamp8(float64(g8)*k), clamp8(float64(b8)*k)
			}
			row[i], row[i+1], row[i+2] = r8, g8, b8
		}
	}
}

// BlurRect box blurs the part of img inside r with the given radius. Pixels
// outside r are left alone and do not contribute to the result.
func BlurRect(img *image.RGBA, r image.Rectangle, radius int) {
	if img == nil || radius <= 0 {
		return
	}
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	w, h := r.Dx(), r.Dy()
	tmp := make([]int, w*h*4)

	prefix := make([]int, (max(w, h)+1)*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(r.Min.X, r.Min.Y+y)
		for x := 0; x < w; x++ {
			for c := 0; c < 4; c++ {
				prefix[(x+1)*4+c] = prefix[x*4+c] + int(img.Pix[off+x*4+c])
			}
		}
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			n := x1 - x0 + 1
			for c := 0; c < 4; c++ {
				tmp[(y*w+x)*4+c] = (prefix[(x1+1)*4+c] - prefix[x0*4+c]) / n
			}
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			for c := 0; c < 4; c++ {
				prefix[(y+1)*4+c] = prefix[y*4+c] + tmp[(y*w+x)*4+c]
			}
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			n := y1 - y0 + 1
			off := img.PixOffset(r.Min.X+x, r.Min.Y+y)
			for c := 0; c < 4; c++ {
				img.Pix[off+c] = uint8((prefix[(y1+1)*4+c] - prefix[y0*4+c]) / n)
			}
		}
	}
}

// Checkerboard fills r of dst with alternating squares of size n, the usual
// backdrop for showing transparency.
func Checkerboard(dst draw.Image, r image.Rectangle, n int, light, dark color.Color) {
	if n <= 0 {
		n = 8
	}
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := r.Min.Y; y < r.Max.Y; y += n {
		for x := r.Min.X; x < r.Max.X; x += n {
			src := lu
			if ((x-r.Min.X)/n+(y-r.Min.Y)/n)%2 == 1 {
				src = du
			}
			cell := image.Rect(x, y, x+n, y+n).Intersect(r)
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}
