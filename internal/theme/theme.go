// Package theme holds the colours used for editor decorations and the
// desktop window chrome.
package theme

import (
	"image/color"
	"reflect"
)

// Theme defines the colour palette for the editor.
type Theme struct {
	Name string

	// Window
	Background color.RGBA
	Foreground color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	ToastBackground  color.RGBA
	ToastText        color.RGBA

	// Sticker selection decorations
	SelectionOutline color.RGBA
	HandleFill       color.RGBA
	HandleBorder     color.RGBA

	// Crop and blur selection marching ants
	DashLight color.RGBA
	DashDark  color.RGBA

	// Canvas backdrop
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:             "default",
		Background:       color.RGBA{220, 220, 220, 255},
		Foreground:       color.RGBA{0, 0, 0, 255},
		StatusBackground: color.RGBA{200, 200, 200, 255},
		StatusText:       color.RGBA{0, 0, 0, 255},
		ToastBackground:  color.RGBA{40, 40, 40, 220},
		ToastText:        color.RGBA{255, 255, 255, 255},
		SelectionOutline: color.RGBA{0, 120, 215, 255},
		HandleFill:       color.RGBA{255, 255, 255, 255},
		HandleBorder:     color.RGBA{0, 120, 215, 255},
		DashLight:        color.RGBA{255, 255, 255, 255},
		DashDark:         color.RGBA{0, 0, 0, 255},
		CheckerLight:     color.RGBA{220, 220, 220, 255},
		CheckerDark:      color.RGBA{192, 192, 192, 255},
	}
}

// Field is one named colour of a theme.
type Field struct {
	Name  string
	Color color.RGBA
}

// Fields lists the colours of t in declaration order.
func (t *Theme) Fields() []Field {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out []Field
	for i := 0; i < typ.NumField(); i++ {
		if col, ok := val.Field(i).Interface().(color.RGBA); ok {
			out = append(out, Field{Name: typ.Field(i).Name, Color: col})
		}
	}
	return out
}
