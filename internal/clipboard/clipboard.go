// Package clipboard moves exported images and text to and from the system
// clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
)

type format int

const (
	formatText format = iota
	formatPNG
)

// ErrEmpty is returned when the clipboard holds nothing in the requested
// format.
var ErrEmpty = errors.New("clipboard is empty")

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return writeData(formatPNG, buf.Bytes())
}

// ReadImage decodes the image held by the clipboard.
func ReadImage() (image.Image, error) {
	data, err := readData(formatPNG)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image: %w", ErrEmpty)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode clipboard image: %w", err)
	}
	return img, nil
}

// WriteText writes text to the clipboard.
func WriteText(text string) error {
	return writeData(formatText, []byte(text))
}

// ReadText returns the UTF-8 text held by the clipboard.
func ReadText() (string, error) {
	data, err := readData(formatText)
	if err != nil {
		return "", err
	}
	if len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return "", fmt.Errorf("text: %w", ErrEmpty)
	}
	return string(data), nil
}
