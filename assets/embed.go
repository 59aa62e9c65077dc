// Package assets bundles the stock sticker images.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// Prefix is the path prefix that addresses a bundled sticker.
const Prefix = "stickers/"

//go:embed stickers/*.png
var embeddedStickers embed.FS

var (
	listOnce sync.Once
	listErr  error
	names    []string
)

func loadList() {
	entries, err := fs.ReadDir(embeddedStickers, "stickers")
	if err != nil {
		listErr = err
		return
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			names = append(names, Prefix+e.Name())
		}
	}
	sort.Strings(names)
}

// Stickers lists the bundled sticker paths, such as "stickers/sale.png".
func Stickers() []string {
	listOnce.Do(loadList)
	if listErr != nil {
		return nil
	}
	return append([]string(nil), names...)
}

// IsSticker reports whether name addresses a bundled sticker.
func IsSticker(name string) bool {
	return strings.HasPrefix(name, Prefix)
}

// Open returns a copy of the PNG bytes for a bundled sticker. Bare names
// like "sale" or "sale.png" are accepted too.
func Open(name string) ([]byte, error) {
	name = resolve(name)
	data, err := embeddedStickers.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("sticker %s not bundled: %w", name, err)
	}
	return append([]byte(nil), data...), nil
}

// Image decodes a bundled sticker.
func Image(name string) (image.Image, error) {
	data, err := Open(name)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

func resolve(name string) string {
	if !IsSticker(name) {
		name = Prefix + name
	}
	if path.Ext(name) == "" {
		name += ".png"
	}
	return name
}
