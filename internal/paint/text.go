package paint

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultTextSize is the point size used when none is configured.
const DefaultTextSize = 32

var (
	fontOnce sync.Once
	fontErr  error
	regular  *opentype.Font
	faces    sync.Map // map[float64]font.Face
)

func faceForSize(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultTextSize
	}
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	if f, ok := faces.Load(size); ok {
		return f.(font.Face), nil
	}
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face %v: %w", size, err)
	}
	faces.Store(size, face)
	return face, nil
}

// MeasureText returns the bounding box of text at size and the offset from
// its top to the baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	d := &font.Drawer{Face: face}
	width = d.MeasureString(text).Ceil()
	m := face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	return width, height, baseline, nil
}

// DrawText renders text with its top-left corner at (x, y).
func DrawText(img *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}

// DrawTextCentered renders text centred on (cx, cy).
func DrawTextCentered(img *image.RGBA, cx, cy int, text string, col color.Color, size float64) error {
	w, h, _, err := MeasureText(text, size)
	if err != nil {
		return err
	}
	return DrawText(img, cx-w/2, cy-h/2, text, col, size)
}
