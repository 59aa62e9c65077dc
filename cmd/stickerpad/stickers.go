package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/stickerpad/assets"
)

// stickersCmd lists the bundled stickers usable with "sticker add".
type stickersCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func (s *stickersCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseStickersCmd(args []string, r *root) (*stickersCmd, error) {
	fs := flag.NewFlagSet("stickers", flag.ExitOnError)
	s := &stickersCmd{root: r.subcommand("stickers"), fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(s)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *stickersCmd) Run() error {
	names := assets.Stickers()
	if len(names) == 0 {
		return fmt.Errorf("no bundled stickers found")
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(s.stdout, name); err != nil {
			return err
		}
	}
	return nil
}
