package filter

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ShadowOptions configures a drop shadow.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow is the shadow stickers get when it is switched on.
func DefaultShadow() ShadowOptions {
	return ShadowOptions{Radius: 6, Offset: image.Pt(5, 5), Opacity: 0.5}
}

// DropShadow draws layer over dst with a blurred copy of its alpha beneath
// it, shifted by opts.Offset. layer and dst share coordinates.
func DropShadow(dst, layer *image.RGBA, opts ShadowOptions) {
	lb := layer.Bounds()
	if lb.Empty() {
		return
	}
	if opts.Opacity > 0 {
		r := max(opts.Radius, 0)
		mask := image.NewAlpha(lb.Inset(-r))
		for y := lb.Min.Y; y < lb.Max.Y; y++ {
			src := layer.Pix[layer.PixOffset(lb.Min.X, y):]
			dstRow := mask.Pix[mask.PixOffset(lb.Min.X, y):]
			for x := 0; x < lb.Dx(); x++ {
				dstRow[x] = src[x*4+3]
			}
		}
		boxBlurAlpha(mask, r)
		a := uint8(math.Min(opts.Opacity, 1)*255 + 0.5)
		mb := mask.Bounds()
		draw.DrawMask(dst, mb.Add(opts.Offset), image.NewUniform(color.RGBA{A: a}), image.Point{}, mask, mb.Min, draw.Over)
	}
	draw.Draw(dst, lb, layer, lb.Min, draw.Over)
}

// boxBlurAlpha blurs m in place with a separable box of the given radius.
func boxBlurAlpha(m *image.Alpha, radius int) {
	if radius <= 0 {
		return
	}
	w, h := m.Bounds().Dx(), m.Bounds().Dy()
	line := make([]uint8, max(w, h))
	prefix := make([]int, max(w, h)+1)
	blur := func(n int, at func(i int) *uint8) {
		for i := 0; i < n; i++ {
			prefix[i+1] = prefix[i] + int(*at(i))
		}
		for i := 0; i < n; i++ {
			lo, hi := max(i-radius, 0), min(i+radius, n-1)
			line[i] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
		}
		for i := 0; i < n; i++ {
			*at(i) = line[i]
		}
	}
	for y := 0; y < h; y++ {
		row := y * m.Stride
		blur(w, func(i int) *uint8 { return &m.Pix[row+i] })
	}
	for x := 0; x < w; x++ {
		blur(h, func(i int) *uint8 { return &m.Pix[i*m.Stride+x] })
	}
}
