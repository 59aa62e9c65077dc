package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/example/stickerpad/internal/clipboard"
	"github.com/example/stickerpad/internal/ui"
)

var readClipboardFn = clipboard.ReadImage

// editCmd opens the desktop editor on a file, URL or the clipboard.
type editCmd struct {
	*root
	fs            *flag.FlagSet
	source        string
	output        string
	fromClipboard bool
	timeout       time.Duration
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r.subcommand("edit"), fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.output, "output", "", "file written by Ctrl+S (defaults to a timestamped file in save_dir)")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "open the image on the clipboard")
	fs.BoolVar(&e.fromClipboard, "from-clip", false, "open the image on the clipboard (alias)")
	fs.DurationVar(&e.timeout, "timeout", 30*time.Second, "time allowed to fetch a remote image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		e.source = fs.Arg(0)
	default:
		return nil, &UsageError{of: e}
	}
	if e.fromClipboard && e.source != "" {
		return nil, fmt.Errorf("-from-clipboard cannot be combined with an image argument")
	}
	return e, nil
}

func (e *editCmd) Run() error {
	toasts := ui.NewToasts(e.notifier)
	s := e.newSession(toasts)
	switch {
	case e.fromClipboard:
		img, err := readClipboardFn()
		if err != nil {
			return fmt.Errorf("failed to read clipboard image: %w", err)
		}
		if err := s.Open(img); err != nil {
			return err
		}
	case e.source != "":
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		if err := s.OpenSource(ctx, e.source); err != nil {
			return fmt.Errorf("failed to open %s: %w", e.source, err)
		}
	}
	opts := []ui.Option{
		ui.WithToasts(toasts),
		ui.WithNotifier(e.notifier),
		ui.WithSaveDir(e.saveDir()),
		ui.WithOutput(e.output),
		ui.WithTitle(windowTitle(e.source)),
	}
	ui.New(s, opts...).Run()
	return nil
}

func windowTitle(source string) string {
	if source == "" {
		return "stickerpad"
	}
	return "stickerpad - " + source
}

