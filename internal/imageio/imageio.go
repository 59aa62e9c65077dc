// Package imageio loads images from the sources the editor accepts and
// encodes the exported result.
package imageio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/example/stickerpad/assets"
)

// Stage identifies where loading failed.
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageDecode Stage = "decode"
)

// LoadError reports a failure to obtain or decode an image.
type LoadError struct {
	Src   string
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, abbreviate(e.Src), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsStage reports whether err is a LoadError from stage.
func IsStage(err error, stage Stage) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Stage == stage
}

func abbreviate(src string) string {
	if strings.HasPrefix(src, "data:") && len(src) > 32 {
		return src[:32] + "..."
	}
	return src
}

// MaxFetchSize bounds how much a remote image may weigh.
const MaxFetchSize = 64 << 20

// Loader fetches and decodes images.
type Loader struct {
	Client *http.Client
}

// Load resolves src, which may be a data URL, an http(s) URL, a bundled
// sticker path or a file path, and decodes it.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, &LoadError{Src: src, Stage: StageFetch, Err: err}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{Src: src, Stage: StageDecode, Err: err}
	}
	return img, nil
}

// IsLocalPath reports whether src names a file on disk rather than a data
// URL, a web address or a bundled sticker.
func IsLocalPath(src string) bool {
	switch {
	case src == "", strings.HasPrefix(src, "data:"):
		return false
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return false
	case assets.IsSticker(src):
		return false
	}
	return true
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case src == "":
		return nil, errors.New("empty source")
	case strings.HasPrefix(src, "data:"):
		return DecodeDataURL(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetchHTTP(ctx, src)
	case assets.IsSticker(src):
		return assets.Open(src)
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(u.Path)
	default:
		return os.ReadFile(src)
	}
}

func (l *Loader) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFetchSize {
		return nil, fmt.Errorf("image larger than %d bytes", MaxFetchSize)
	}
	return data, nil
}

// DecodeDataURL returns the payload of a data URL.
func DecodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errors.New("malformed data URL")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data URL payload: %w", err)
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data URL payload: %w", err)
	}
	return []byte(text), nil
}

// FileDataURL reads a local file and returns it as a data URL, the form an
// uploaded file takes before it is handed to Load.
func FileDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNGDataURL encodes img as a base64 PNG data URL.
func PNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ToRGBA returns img as a zero-origin RGBA copy.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
