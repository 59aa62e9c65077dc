package filter

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestApplyBrightness(t *testing.T) {
	img := solid(4, 4, color.RGBA{100, 200, 250, 255})
	Apply(img, Adjust{Brightness: 20})
	got := img.RGBAAt(1, 1)
	want := color.RGBA{120, 220, 255, 255}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestApplyNeutralIsIdentity(t *testing.T) {
	img := solid(2, 2, color.RGBA{10, 20, 30, 255})
	before := append([]uint8(nil), img.Pix...)
	Apply(img, Adjust{})
	for i := range before {
		if img.Pix[i] != before[i] {
			t.Fatalf("neutral adjust changed pixel data")
		}
	}
}

func TestApplyPreservesAlpha(t *testing.T) {
	img := solid(2, 2, color.RGBA{50, 50, 50, 128})
	Apply(img, Adjust{Brightness: 40, Saturation: -100})
	got := img.RGBAAt(0, 0)
	if got.A != 128 {
		t.Fatalf("alpha changed to %d", got.A)
	}
	if got.R > got.A {
		t.Fatalf("result is not premultiplied: %v", got)
	}
	empty := solid(1, 1, color.RGBA{})
	Apply(empty, Adjust{Brightness: 100})
	if empty.RGBAAt(0, 0) != (color.RGBA{}) {
		t.Fatalf("transparent pixel was modified")
	}
}

func TestApplyDesaturate(t *testing.T) {
	img := solid(1, 1, color.RGBA{200, 40, 40, 255})
	Apply(img, Adjust{Saturation: -100})
	c := img.RGBAAt(0, 0)
	if c.R != c.G || c.G != c.B {
		t.Fatalf("expected grey, got %v", c)
	}
}

func TestBlurRectStaysInside(t *testing.T) {
	img := solid(10, 10, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(5, 5, color.RGBA{255, 255, 255, 255})
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	BlurRect(img, image.Rect(3, 3, 8, 8), 1)
	if c := img.RGBAAt(5, 5); c.R == 255 || c.R == 0 {
		t.Fatalf("centre was not blurred: %v", c)
	}
	if c := img.RGBAAt(4, 4); c.R == 0 {
		t.Fatalf("neighbour did not receive spill: %v", c)
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("pixel outside the rect changed: %v", c)
	}
}

func TestCheckerboard(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	light := color.RGBA{255, 255, 255, 255}
	dark := color.RGBA{200, 200, 200, 255}
	Checkerboard(img, img.Bounds(), 8, light, dark)
	if img.RGBAAt(0, 0) != light || img.RGBAAt(8, 0) != dark || img.RGBAAt(8, 8) != light {
		t.Fatalf("unexpected pattern")
	}
}

func TestDropShadowFallsBehindOffset(t *testing.T) {
	dst := solid(40, 40, color.RGBA{255, 255, 255, 255})
	layer := image.NewRGBA(image.Rect(10, 10, 20, 20))
	for i := 0; i < len(layer.Pix); i += 4 {
		layer.Pix[i], layer.Pix[i+3] = 255, 255
	}
	DropShadow(dst, layer, ShadowOptions{Radius: 2, Offset: image.Pt(6, 6), Opacity: 1})
	if got := dst.RGBAAt(15, 15); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("layer pixel = %v", got)
	}
	if got := dst.RGBAAt(23, 23); got.R >= 255 {
		t.Fatalf("expected shadow at (23,23), got %v", got)
	}
	if got := dst.RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("shadow leaked to (2,2): %v", got)
	}
}

func TestDropShadowWithoutOpacityOnlyDrawsLayer(t *testing.T) {
	dst := solid(20, 20, color.RGBA{255, 255, 255, 255})
	layer := image.NewRGBA(image.Rect(0, 0, 5, 5))
	DropShadow(dst, layer, ShadowOptions{Radius: 4, Offset: image.Pt(5, 5), Opacity: 0})
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if got := dst.RGBAAt(x, y); got != (color.RGBA{255, 255, 255, 255}) {
				t.Fatalf("pixel (%d,%d) changed to %v", x, y, got)
			}
		}
	}
}
