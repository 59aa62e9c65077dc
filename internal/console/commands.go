package console

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/math/f64"

	"github.com/example/stickerpad/assets"
	"github.com/example/stickerpad/internal/clipboard"
	"github.com/example/stickerpad/internal/editor"
	"github.com/example/stickerpad/internal/filter"
	"github.com/example/stickerpad/internal/geom"
	"github.com/example/stickerpad/internal/imageio"
	"github.com/example/stickerpad/internal/paint"
	"github.com/example/stickerpad/internal/theme"
)

type imageReader func() (image.Image, error)

var defaultClipboardReader imageReader = clipboard.ReadImage

type command struct {
	usage   string
	summary string
	run     func(c *Console, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"open":     {"<path|url|data-url>", "open a base image", (*Console).cmdOpen},
	"paste":    {"", "open the clipboard image as the base image", (*Console).cmdPaste},
	"viewport": {"<w> <h>", "set the space available to the canvas", (*Console).cmdViewport},
	"display":  {"<x> <y> <w> <h>", "set where the canvas is shown on screen", (*Console).cmdDisplay},
	"zoom":     {"<factor>", "set the display zoom", (*Console).cmdZoom},
	"tool":     {"<" + strings.Join(toolNames(), "|") + ">", "activate a tool", (*Console).cmdTool},
	"press":    {"<x> <y>", "press at a canvas point", (*Console).cmdPress},
	"move":     {"<x> <y>", "move the pointer to a canvas point", (*Console).cmdMove},
	"release":  {"<x> <y>", "release at a canvas point", (*Console).cmdRelease},
	"drag":     {"<x0> <y0> <x1> <y1> [steps]", "press, move and release in one go", (*Console).cmdDrag},
	"pointer":  {"<down|move|up> <x> <y>", "pointer event in screen coordinates", (*Console).cmdPointer},
	"sticker":  {"<add|dup|delete|clear|raise|lower|rotate|opacity|shadow|select|list> ...", "manage stickers", (*Console).cmdSticker},
	"stickers": {"", "list the bundled stickers", (*Console).cmdStickers},
	"crop":     {"[x y w h]", "crop to a rectangle or to the crop tool selection", (*Console).cmdCrop},
	"rotate":   {"<90|180|270>", "rotate the image clockwise", (*Console).cmdRotate},
	"flip":     {"<h|v>", "mirror the image", (*Console).cmdFlip},
	"text":     {"<text>", "stamp text in the middle of the image", (*Console).cmdText},
	"textsize": {"<size>", "set the text stamp size", (*Console).cmdTextSize},
	"shape":    {"<" + strings.Join(shapeNames(), "|") + "> <x0> <y0> <x1> <y1> [fill]", "stamp a shape", (*Console).cmdShape},
	"blur":     {"<x> <y> <w> <h> [radius]", "blur a rectangle", (*Console).cmdBlur},
	"adjust":   {"<brightness> <contrast> <saturation>", "set the live filter preview", (*Console).cmdAdjust},
	"bake":     {"", "apply the filter preview to the image", (*Console).cmdBake},
	"flatten":  {"", "merge the drawing layer into the image", (*Console).cmdFlatten},
	"color":    {"<name|#rrggbb>", "set the brush colour", (*Console).cmdColor},
	"width":    {"<px>", "set the brush width", (*Console).cmdWidth},
	"undo":     {"", "undo the last operation", (*Console).cmdUndo},
	"redo":     {"", "redo the last undone operation", (*Console).cmdRedo},
	"history":  {"", "list undoable operations", (*Console).cmdHistory},
	"export":   {"<file.png|->", "write the image as PNG, - prints a data URL", (*Console).cmdExport},
	"copy":     {"", "copy the image to the clipboard", (*Console).cmdCopy},
	"info":     {"", "show the session state", (*Console).cmdInfo},
}

func toolNames() []string {
	var out []string
	for _, t := range editor.Tools() {
		out = append(out, t.String())
	}
	return out
}

func shapeNames() []string {
	var out []string
	for _, s := range paint.Shapes() {
		out = append(out, string(s))
	}
	return out
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) < n {
		return nil, ErrUsage
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func ints(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, ErrUsage
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func point(args []string) (f64.Vec2, error) {
	v, err := floats(args, 2)
	if err != nil {
		return f64.Vec2{}, err
	}
	return f64.Vec2{v[0], v[1]}, nil
}

func (c *Console) cmdOpen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if c.confined && imageio.IsLocalPath(args[0]) {
		return fmt.Errorf("open %s: %w", args[0], ErrConfined)
	}
	if err := c.session.OpenSource(ctx, args[0]); err != nil {
		return err
	}
	size := c.session.SourceSize()
	c.printf("opened %dx%d\n", size.X, size.Y)
	return nil
}

func (c *Console) cmdPaste(_ context.Context, _ []string) error {
	img, err := c.readClipboard()
	if err != nil {
		return err
	}
	if err := c.session.Open(img); err != nil {
		return err
	}
	size := c.session.SourceSize()
	c.printf("opened %dx%d from clipboard\n", size.X, size.Y)
	return nil
}

func (c *Console) cmdViewport(_ context.Context, args []string) error {
	v, err := ints(args, 2)
	if err != nil {
		return err
	}
	c.session.SetAvailable(v[0], v[1])
	size := c.session.CanvasSize()
	c.printf("canvas %dx%d\n", size.X, size.Y)
	return nil
}

func (c *Console) cmdDisplay(_ context.Context, args []string) error {
	v, err := floats(args, 4)
	if err != nil {
		return err
	}
	c.session.SetDisplay(geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]})
	return nil
}

func (c *Console) cmdZoom(_ context.Context, args []string) error {
	v, err := floats(args, 1)
	if err != nil {
		return err
	}
	c.session.SetZoom(v[0])
	c.printf("zoom %.0f%%\n", c.session.Zoom()*100)
	return nil
}

func (c *Console) cmdTool(_ context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	t, err := editor.ParseTool(args[0])
	if err != nil {
		return err
	}
	c.session.SetTool(t)
	return nil
}

func (c *Console) cmdPress(_ context.Context, args []string) error {
	p, err := point(args)
	if err != nil {
		return err
	}
	c.session.Press(p)
	return nil
}

func (c *Console) cmdMove(_ context.Context, args []string) error {
	p, err := point(args)
	if err != nil {
		return err
	}
	c.session.Drag(p)
	return nil
}

func (c *Console) cmdRelease(_ context.Context, args []string) error {
	p, err := point(args)
	if err != nil {
		return err
	}
	c.session.Release(p)
	return nil
}

func (c *Console) cmdDrag(_ context.Context, args []string) error {
	v, err := floats(args, 4)
	if err != nil {
		return err
	}
	steps := 8
	if len(args) > 4 {
		n, err := strconv.Atoi(args[4])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid step count %q", args[4])
		}
		steps = n
	}
	from, to := f64.Vec2{v[0], v[1]}, f64.Vec2{v[2], v[3]}
	c.session.Press(from)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		c.session.Drag(f64.Vec2{from[0] + (to[0]-from[0])*t, from[1] + (to[1]-from[1])*t})
	}
	c.session.Release(to)
	return nil
}

func (c *Console) cmdPointer(_ context.Context, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	p, err := point(args[1:])
	if err != nil {
		return err
	}
	ev := geom.Pointer{X: p[0], Y: p[1]}
	switch strings.ToLower(args[0]) {
	case "down":
		c.session.PointerDown(ev)
	case "move":
		c.session.PointerMove(ev)
	case "up":
		c.session.PointerUp(ev)
	default:
		return ErrUsage
	}
	return nil
}

func (c *Console) cmdSticker(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	s := c.session
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "add":
		if len(rest) != 1 {
			return ErrUsage
		}
		if c.confined && imageio.IsLocalPath(rest[0]) {
			return fmt.Errorf("sticker %s: %w", rest[0], ErrConfined)
		}
		st, err := s.AddSticker(ctx, rest[0])
		if err != nil {
			return err
		}
		c.printf("added %s\n", st)
	case "dup", "duplicate":
		st, err := s.DuplicateSelected()
		if err != nil {
			return err
		}
		c.printf("added %s\n", st)
	case "delete":
		return s.DeleteSelected()
	case "clear":
		return s.ClearStickers()
	case "raise":
		return s.RaiseSelected(len(rest) > 0 && rest[0] == "top")
	case "lower":
		return s.LowerSelected(len(rest) > 0 && rest[0] == "bottom")
	case "rotate":
		v, err := floats(rest, 1)
		if err != nil {
			return err
		}
		return s.SetStickerRotation(v[0])
	case "opacity":
		v, err := floats(rest, 1)
		if err != nil {
			return err
		}
		return s.SetStickerOpacity(v[0])
	case "shadow":
		if len(rest) != 1 || (rest[0] != "on" && rest[0] != "off") {
			return ErrUsage
		}
		return s.SetStickerShadow(rest[0] == "on")
	case "select":
		v, err := ints(rest, 1)
		if err != nil {
			return err
		}
		return s.SelectSticker(v[0])
	case "list":
		for _, st := range s.Stickers().All() {
			mark := " "
			if st.Selected {
				mark = "*"
			}
			c.printf("%s %s\n", mark, st)
		}
	default:
		return ErrUsage
	}
	return nil
}

func (c *Console) cmdStickers(_ context.Context, _ []string) error {
	for _, name := range assets.Stickers() {
		c.printf("%s\n", name)
	}
	return nil
}

func (c *Console) cmdCrop(_ context.Context, args []string) error {
	if len(args) == 0 {
		return c.session.ApplyCrop()
	}
	v, err := floats(args, 4)
	if err != nil {
		return err
	}
	if err := c.session.Crop(geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}); err != nil {
		return err
	}
	size := c.session.SourceSize()
	c.printf("cropped to %dx%d\n", size.X, size.Y)
	return nil
}

func (c *Console) cmdRotate(_ context.Context, args []string) error {
	v, err := ints(args, 1)
	if err != nil {
		return err
	}
	return c.session.Rotate(v[0])
}

func (c *Console) cmdFlip(_ context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	switch strings.ToLower(args[0]) {
	case "h", "horizontal":
		return c.session.Flip(true)
	case "v", "vertical":
		return c.session.Flip(false)
	}
	return ErrUsage
}

func (c *Console) cmdText(_ context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	return c.session.StampText(strings.Join(args, " "))
}

func (c *Console) cmdTextSize(_ context.Context, args []string) error {
	v, err := floats(args, 1)
	if err != nil {
		return err
	}
	c.session.SetTextSize(v[0])
	return nil
}

func (c *Console) cmdShape(_ context.Context, args []string) error {
	if len(args) < 5 {
		return ErrUsage
	}
	sh, err := paint.ParseShape(args[0])
	if err != nil {
		return err
	}
	v, err := floats(args[1:], 4)
	if err != nil {
		return err
	}
	fill := len(args) > 5 && args[5] == "fill"
	return c.session.StampShape(sh, f64.Vec2{v[0], v[1]}, f64.Vec2{v[2], v[3]}, fill)
}

func (c *Console) cmdBlur(_ context.Context, args []string) error {
	v, err := floats(args, 4)
	if err != nil {
		return err
	}
	if len(args) > 4 {
		r, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("invalid radius %q", args[4])
		}
		c.session.SetBlurRadius(r)
	}
	return c.session.BlurRect(geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]})
}

func (c *Console) cmdAdjust(_ context.Context, args []string) error {
	v, err := floats(args, 3)
	if err != nil {
		return err
	}
	c.session.SetAdjust(filter.Adjust{Brightness: v[0], Contrast: v[1], Saturation: v[2]})
	a := c.session.Adjust()
	c.printf("brightness %.0f contrast %.0f saturation %.0f\n", a.Brightness, a.Contrast, a.Saturation)
	return nil
}

func (c *Console) cmdBake(_ context.Context, _ []string) error { return c.session.BakeFilters() }

func (c *Console) cmdFlatten(_ context.Context, _ []string) error { return c.session.Flatten() }

func (c *Console) cmdColor(_ context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	col, err := theme.ParseColor(args[0])
	if err != nil {
		return err
	}
	c.session.SetBrush(col)
	return nil
}

func (c *Console) cmdWidth(_ context.Context, args []string) error {
	v, err := ints(args, 1)
	if err != nil {
		return err
	}
	if v[0] < 1 {
		return fmt.Errorf("width must be positive")
	}
	c.session.SetBrushWidth(v[0])
	return nil
}

func (c *Console) cmdUndo(_ context.Context, _ []string) error {
	label, ok := c.session.Undo()
	if !ok {
		c.printf("nothing to undo\n")
		return nil
	}
	c.printf("undid %s\n", label)
	return nil
}

func (c *Console) cmdRedo(_ context.Context, _ []string) error {
	label, ok := c.session.Redo()
	if !ok {
		c.printf("nothing to redo\n")
		return nil
	}
	c.printf("redid %s\n", label)
	return nil
}

func (c *Console) cmdHistory(_ context.Context, _ []string) error {
	for i, label := range c.session.HistoryLabels() {
		c.printf("%d %s\n", i+1, label)
	}
	return nil
}

func (c *Console) cmdExport(_ context.Context, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if args[0] == "-" {
		url, err := c.session.ExportDataURL()
		if err != nil {
			return err
		}
		c.printf("%s\n", url)
		return nil
	}
	path := args[0]
	if !filepath.IsAbs(path) && c.saveDir != "" {
		path = filepath.Join(c.saveDir, path)
	}
	if c.confined && !within(c.saveDir, path) {
		return fmt.Errorf("export %s: %w", args[0], ErrConfined)
	}
	if err := c.writeExport(path); err != nil {
		return err
	}
	c.printf("saved %s\n", path)
	c.notifier.Save(path)
	return nil
}

// within reports whether path lies inside dir.
func within(dir, path string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func (c *Console) writeExport(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.session.Export(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (c *Console) cmdCopy(_ context.Context, _ []string) error {
	if err := c.session.CopyToClipboard(); err != nil {
		return err
	}
	c.printf("copied image to clipboard\n")
	return nil
}

func (c *Console) cmdInfo(_ context.Context, _ []string) error {
	c.printf("%s\n", c.session.Status())
	return nil
}
