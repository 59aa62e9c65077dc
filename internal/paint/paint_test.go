package paint

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/math/f64"
)

var red = color.RGBA{255, 0, 0, 255}

func TestLineAndErase(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Line(img, 2, 10, 17, 10, red, 3)
	for _, x := range []int{2, 10, 17} {
		if img.RGBAAt(x, 10) != red || img.RGBAAt(x, 11) != red {
			t.Fatalf("stroke missing at x=%d", x)
		}
	}
	EraseLine(img, 0, 10, 19, 10, 5)
	if img.RGBAAt(10, 10) != (color.RGBA{}) || img.RGBAAt(10, 11) != (color.RGBA{}) {
		t.Fatalf("eraser left paint behind")
	}
}

func TestDashedRectAlternates(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	DashedRect(img, image.Rect(0, 0, 19, 19), 4, white, black)
	if img.RGBAAt(1, 0) != white || img.RGBAAt(5, 0) != black {
		t.Fatalf("unexpected dash colours %v %v", img.RGBAAt(1, 0), img.RGBAAt(5, 0))
	}
	if img.RGBAAt(10, 10) != (color.RGBA{}) {
		t.Fatalf("dashed rect filled the interior")
	}
}

func TestFillSquare(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	border := color.RGBA{0, 0, 255, 255}
	FillSquare(img, f64.Vec2{10, 10}, 8, red, border)
	if img.RGBAAt(10, 10) != red || img.RGBAAt(6, 6) != border {
		t.Fatalf("unexpected handle pixels")
	}
}

func TestDrawTextMarksPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 60))
	if err := DrawTextCentered(img, 100, 30, "SALE", red, 24); err != nil {
		t.Fatalf("draw text: %v", err)
	}
	w, h, base, err := MeasureText("SALE", 24)
	if err != nil || w <= 0 || h <= 0 || base <= 0 {
		t.Fatalf("measure = %d,%d,%d,%v", w, h, base, err)
	}
	painted := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Fatalf("no text pixels drawn")
	}
}

func TestStampShape(t *testing.T) {
	for _, sh := range Shapes() {
		img := image.NewRGBA(image.Rect(0, 0, 100, 100))
		err := StampShape(img, sh, f64.Vec2{10, 10}, f64.Vec2{90, 90}, ShapeStyle{Color: red, Width: 4, Fill: true})
		if err != nil {
			t.Fatalf("%s: %v", sh, err)
		}
		painted := 0
		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] != 0 {
				painted++
			}
		}
		if painted == 0 {
			t.Fatalf("%s: nothing drawn", sh)
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := StampShape(img, Shape("star"), f64.Vec2{}, f64.Vec2{5, 5}, ShapeStyle{}); err == nil {
		t.Fatalf("expected unknown shape error")
	}
	if _, err := ParseShape("ellipse"); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestStampRectFillCoversCentre(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	if err := StampShape(img, ShapeRect, f64.Vec2{40, 40}, f64.Vec2{10, 10}, ShapeStyle{Color: red, Fill: true}); err != nil {
		t.Fatalf("stamp: %v", err)
	}
	if img.RGBAAt(25, 25) != red {
		t.Fatalf("filled rect centre = %v", img.RGBAAt(25, 25))
	}
}
