package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/stickerpad/internal/config"
	"github.com/example/stickerpad/internal/editor"
	"github.com/example/stickerpad/internal/imageio"
	"github.com/example/stickerpad/internal/notify"
	"github.com/example/stickerpad/internal/sticker"
	"github.com/example/stickerpad/internal/theme"
)

var (
	version            = "dev"
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	saveAlerts  bool
	copyAlerts  bool
	errorAlerts bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	sub := *r
	sub.fs = nil
	sub.program = program
	return &sub
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("stickerpad", flag.ExitOnError),
		program:  "stickerpad",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.errorAlerts, "notify-errors", cfg.Notify.Errors, "show a desktop notification when an edit fails")
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventError, r.errorAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "run":
		cmd, err = parseRunCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "stickers":
		cmd, err = parseStickersCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) resolveTheme() *theme.Theme {
	name := r.config.ThemeName(r.themeName)
	t, err := r.config.ResolveTheme(r.themeName, theme.NewLoader())
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// newSession builds an editor session from the configuration. Toasts go to
// toaster when set and to the desktop notifier otherwise.
func (r *root) newSession(toaster editor.Toaster) *editor.Session {
	cfg := config.New()
	if r.config != nil {
		cfg = r.config
	}
	e := cfg.Editor
	if toaster == nil && r.notifier != nil {
		toaster = r.notifier
	}
	opts := []editor.Option{
		editor.WithLimits(sticker.Limits{
			Max:             e.MaxStickers,
			MinSize:         e.MinStickerSize,
			Scale:           e.StickerScale,
			DuplicateOffset: e.DuplicateOffset,
		}),
		editor.WithHandleTolerance(e.HandleTolerance),
		editor.WithHistoryLimit(e.HistoryLimit),
		editor.WithBrush(e.BrushColor, e.BrushWidth),
		editor.WithTextSize(e.TextSize),
		editor.WithTheme(r.activeTheme),
		editor.WithLoader(&imageio.Loader{}),
	}
	if toaster != nil {
		opts = append(opts, editor.WithToaster(toaster))
	}
	return editor.New(opts...)
}

func (r *root) saveDir() string {
	if r.config == nil {
		return ""
	}
	return r.config.SaveDir
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
