package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/stickerpad/internal/config"
)

type configCmd struct {
	*root
	fs     *flag.FlagSet
	stdout io.Writer
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r.subcommand("config"), fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}
	switch args[0] {
	case "print":
		_, err := fmt.Fprint(c.stdout, c.config.String())
		return err
	case "save":
		return c.runSave()
	case "path":
		path := config.NewLoader(version, configPathOverride).GetConfigPath()
		if path == "" {
			path = config.UserConfigPath()
		}
		_, err := fmt.Fprintln(c.stdout, path)
		return err
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave() error {
	loader := config.NewLoader(version, configPathOverride)
	path, err := loader.Save(c.config)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
