package geom

import (
	"image"
	"math"
	"testing"

	"golang.org/x/image/math/f64"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestPointInRotatedRectCenterAlwaysInside(t *testing.T) {
	b := Box{X: 100, Y: 50, W: 80, H: 30}
	c := b.Center()
	for deg := 0.0; deg < 360; deg++ {
		b.Rotation = deg
		if !PointInRotatedRect(c[0], c[1], b) {
			t.Fatalf("centre outside box at rotation %v", deg)
		}
	}
}

func TestPointInRotatedRectRespectsRotation(t *testing.T) {
	b := Box{X: 0, Y: 0, W: 100, H: 10}
	// A point near the right end of the unrotated bar.
	if !PointInRotatedRect(95, 5, b) {
		t.Fatalf("expected point inside unrotated box")
	}
	b.Rotation = 90
	if PointInRotatedRect(95, 5, b) {
		t.Fatalf("expected point outside box rotated by 90 degrees")
	}
	// After rotating the bar stands upright around (50, 5).
	if !PointInRotatedRect(50, 50, b) {
		t.Fatalf("expected point inside rotated bar")
	}
}

func TestHandleAt(t *testing.T) {
	b := Box{X: 100, Y: 100, W: 50, H: 50}
	tests := []struct {
		x, y float64
		want Corner
		ok   bool
	}{
		{100, 100, TopLeft, true},
		{110, 90, TopLeft, true},
		{150, 100, TopRight, true},
		{100, 150, BottomLeft, true},
		{164, 164, BottomRight, true},
		{125, 125, 0, false},
		{170, 170, 0, false},
	}
	for _, tc := range tests {
		got, ok := HandleAt(tc.x, tc.y, b, DefaultHandleTolerance)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("HandleAt(%v,%v) = %v,%v want %v,%v", tc.x, tc.y, got, ok, tc.want, tc.ok)
		}
	}
}

func TestHandleAtFollowsRotation(t *testing.T) {
	b := Box{X: 0, Y: 0, W: 100, H: 100, Rotation: 90}
	// Rotating 90 degrees clockwise moves the top-left handle to the top-right
	// corner of the screen footprint.
	got, ok := HandleAt(100, 0, b, DefaultHandleTolerance)
	if !ok || got != TopLeft {
		t.Fatalf("got %v,%v want top-left", got, ok)
	}
}

func TestScreenToCanvasMouseAndTouchAgree(t *testing.T) {
	v := Viewport{Canvas: image.Pt(800, 600), Display: Rect{X: 10, Y: 20, W: 400, H: 300}}
	mouse := ScreenToCanvas(Pointer{X: 210, Y: 170}, v)
	touch := ScreenToCanvas(Pointer{Touches: []f64.Vec2{{210, 170}, {0, 0}}}, v)
	if mouse != touch {
		t.Fatalf("mouse %v != touch %v", mouse, touch)
	}
	if !near(mouse[0], 400) || !near(mouse[1], 300) {
		t.Fatalf("unexpected canvas point %v", mouse)
	}
	back := CanvasToDisplay(mouse, v)
	if !near(back[0], 210) || !near(back[1], 170) {
		t.Fatalf("round trip gave %v", back)
	}
}

func TestRectCanvasToSource(t *testing.T) {
	got := RectCanvasToSource(Rect{X: 100, Y: 100, W: 400, H: 400}, image.Pt(1000, 1000), image.Pt(2000, 2000))
	want := image.Rect(200, 200, 1000, 1000)
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
	clipped := RectCanvasToSource(Rect{X: 900, Y: 900, W: 400, H: 400}, image.Pt(1000, 1000), image.Pt(2000, 2000))
	if clipped != image.Rect(1800, 1800, 2000, 2000) {
		t.Fatalf("expected clipped rect, got %v", clipped)
	}
}

func TestFitSize(t *testing.T) {
	if got := FitSize(image.Pt(2000, 1000), image.Pt(1000, 1000)); got != image.Pt(1000, 500) {
		t.Fatalf("got %v", got)
	}
	if got := FitSize(image.Pt(400, 300), image.Pt(1000, 1000)); got != image.Pt(400, 300) {
		t.Fatalf("small images must not be upscaled, got %v", got)
	}
}

func TestStickerTransformMapsCorners(t *testing.T) {
	b := Box{X: 10, Y: 20, W: 60, H: 30, Rotation: 30}
	src := image.Rect(0, 0, 120, 60)
	m := StickerTransform(b, src)
	corners := Corners(b)
	pts := []f64.Vec2{{0, 0}, {120, 0}, {120, 60}, {0, 60}}
	for i, p := range pts {
		got := Apply(m, p)
		if !near(got[0], corners[i][0]) || !near(got[1], corners[i][1]) {
			t.Fatalf("corner %d: got %v want %v", i, got, corners[i])
		}
	}
	centre := Apply(m, f64.Vec2{60, 30})
	if c := b.Center(); !near(centre[0], c[0]) || !near(centre[1], c[1]) {
		t.Fatalf("centre mapped to %v want %v", centre, c)
	}
}

func TestRotateAboutKeepsDistance(t *testing.T) {
	c := f64.Vec2{100, 100}
	got := RotateAbout(f64.Vec2{110, 100}, c, 90)
	if !near(got[0], 100) || !near(got[1], 110) {
		t.Fatalf("90 degrees = %v, want [100 110]", got)
	}
	if got := RotateAbout(c, c, 37); got != c {
		t.Fatalf("centre moved to %v", got)
	}
}
