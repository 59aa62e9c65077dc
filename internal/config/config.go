// Package config reads and writes the rc-style configuration file.
package config

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"

	"github.com/example/stickerpad/internal/theme"
)

// ThemeEnv names the environment variable that overrides the configured
// theme.
const ThemeEnv = "STICKERPAD_THEME"

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Errors bool
}

// Editor holds the tunable limits and tool defaults of the editor.
type Editor struct {
	MaxStickers     int
	MinStickerSize  float64
	HandleTolerance float64
	DuplicateOffset float64
	StickerScale    float64
	HistoryLimit    int
	BrushColor      color.RGBA
	BrushWidth      int
	TextSize        float64
}

// DefaultEditor returns the stock editor settings.
func DefaultEditor() Editor {
	return Editor{
		MaxStickers:     20,
		MinStickerSize:  20,
		HandleTolerance: 15,
		DuplicateOffset: 20,
		StickerScale:    0.25,
		HistoryLimit:    30,
		BrushColor:      color.RGBA{255, 0, 0, 255},
		BrushWidth:      4,
		TextSize:        32,
	}
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Editor  Editor
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Editor: DefaultEditor(),
		Notify: Notify{Errors: true},
		Themes: make(map[string]*theme.Theme),
	}
}

// ThemeName resolves the theme to use: flag, then environment, then the
// config file.
func (c *Config) ThemeName(flag string) string {
	if flag != "" {
		return flag
	}
	if v := strings.TrimSpace(os.Getenv(ThemeEnv)); v != "" {
		return v
	}
	return c.Theme
}

// ResolveTheme returns the named theme, preferring definitions from the
// config file over the theme loader.
func (c *Config) ResolveTheme(flag string, l *theme.Loader) (*theme.Theme, error) {
	name := c.ThemeName(flag)
	if t, ok := c.Themes[name]; ok {
		return t, nil
	}
	return l.Load(name)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	e := c.Editor
	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "max_stickers = %d\n", e.MaxStickers)
	fmt.Fprintf(&sb, "min_sticker_size = %g\n", e.MinStickerSize)
	fmt.Fprintf(&sb, "handle_tolerance = %g\n", e.HandleTolerance)
	fmt.Fprintf(&sb, "duplicate_offset = %g\n", e.DuplicateOffset)
	fmt.Fprintf(&sb, "sticker_scale = %g\n", e.StickerScale)
	fmt.Fprintf(&sb, "history_limit = %d\n", e.HistoryLimit)
	fmt.Fprintf(&sb, "brush_color = %s\n", theme.FormatColor(e.BrushColor))
	fmt.Fprintf(&sb, "brush_width = %d\n", e.BrushWidth)
	fmt.Fprintf(&sb, "text_size = %g\n", e.TextSize)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "errors = %v\n", c.Notify.Errors)
	sb.WriteString("\n")

	var names []string
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.FormatColor(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
