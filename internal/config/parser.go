package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/stickerpad/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		var key, value string
		var ok bool
		if key, value, ok = strings.Cut(line, "="); !ok {
			if key, value, ok = strings.Cut(line, ":"); !ok {
				continue
			}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case current != nil:
			err = current.Set(key, value)
		case section == "editor":
			err = setEditorField(&cfg.Editor, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "":
			setRootField(cfg, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d in [%s]: %w", lineNo, name, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
}

func setEditorField(e *Editor, key, value string) error {
	positiveInt := func(dst *int) error {
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid positive integer for key %s: %q", key, value)
		}
		*dst = v
		return nil
	}
	positiveFloat := func(dst *float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid positive number for key %s: %q", key, value)
		}
		*dst = v
		return nil
	}
	switch strings.ToLower(key) {
	case "max_stickers":
		return positiveInt(&e.MaxStickers)
	case "min_sticker_size":
		return positiveFloat(&e.MinStickerSize)
	case "handle_tolerance":
		return positiveFloat(&e.HandleTolerance)
	case "duplicate_offset":
		return positiveFloat(&e.DuplicateOffset)
	case "sticker_scale":
		if err := positiveFloat(&e.StickerScale); err != nil {
			return err
		}
		if e.StickerScale > 1 {
			return fmt.Errorf("sticker_scale must be at most 1")
		}
	case "history_limit":
		return positiveInt(&e.HistoryLimit)
	case "brush_color":
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		e.BrushColor = col
	case "brush_width":
		return positiveInt(&e.BrushWidth)
	case "text_size":
		return positiveFloat(&e.TextSize)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "errors":
		n.Errors = b
	}
	return nil
}
