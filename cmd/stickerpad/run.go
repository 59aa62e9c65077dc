package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/example/stickerpad/internal/console"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// runCmd drives a headless session from -e commands, a script file or
// standard input.
type runCmd struct {
	*root
	fs     *flag.FlagSet
	execs  commandList
	script string
	open   string
	quiet  bool
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *runCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRunCmd(args []string, r *root) (*runCmd, error) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	c := &runCmd{root: r.subcommand("run"), fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(c)
	fs.Var(&c.execs, "e", "execute a command (may be specified multiple times)")
	fs.StringVar(&c.open, "open", "", "image to open before running commands")
	fs.BoolVar(&c.quiet, "q", false, "do not print a prompt when reading from standard input")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		c.script = fs.Arg(0)
	default:
		return nil, &UsageError{of: c}
	}
	if c.script != "" && len(c.execs) > 0 {
		return nil, fmt.Errorf("-e cannot be combined with a script file")
	}
	return c, nil
}

func (c *runCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	con := console.New(c.newSession(nil),
		console.WithNotifier(c.notifier),
		console.WithSaveDir(c.saveDir()),
		console.WithOutput(c.stdout, c.stderr),
	)
	if c.open != "" {
		if _, err := con.Execute(ctx, "open "+quoteArg(c.open)); err != nil {
			return err
		}
	}
	switch {
	case len(c.execs) > 0:
		return con.RunScript(ctx, c.execs)
	case c.script != "":
		data, err := os.ReadFile(c.script)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		return con.RunScript(ctx, strings.Split(string(data), "\n"))
	default:
		if !c.quiet {
			fmt.Fprintln(c.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
		}
		return con.Run(ctx, c.stdin, !c.quiet)
	}
}

// quoteArg protects spaces in s from the console's argument splitting.
func quoteArg(s string) string {
	if strings.ContainsRune(s, '"') || !strings.ContainsAny(s, " \t") {
		return s
	}
	return `"` + s + `"`
}
