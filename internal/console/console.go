// Package console interprets line commands against an editor session. The
// same interpreter backs the interactive prompt, scripted runs and bridge
// command messages.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/example/stickerpad/internal/editor"
	"github.com/example/stickerpad/internal/notify"
)

// ErrUsage marks a command called with the wrong arguments.
var ErrUsage = errors.New("usage")

// ErrConfined rejects a path a confined console may not touch.
var ErrConfined = errors.New("path not allowed")

// Option configures a Console.
type Option func(*Console)

// WithNotifier announces saves and copies through n.
func WithNotifier(n *notify.Notifier) Option { return func(c *Console) { c.notifier = n } }

// WithSaveDir resolves relative export paths against dir.
func WithSaveDir(dir string) Option { return func(c *Console) { c.saveDir = dir } }

// WithOutput sets where command output and errors go.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Console) { c.stdout, c.stderr = stdout, stderr }
}

// WithClipboardReader replaces the function used by paste.
func WithClipboardReader(fn imageReader) Option { return func(c *Console) { c.readClipboard = fn } }

// Console runs commands against one session.
type Console struct {
	session       *editor.Session
	notifier      *notify.Notifier
	saveDir       string
	stdout        io.Writer
	stderr        io.Writer
	readClipboard imageReader
	confined      bool
}

// New creates a console over s.
func New(s *editor.Session, opts ...Option) *Console {
	c := &Console{session: s, stdout: os.Stdout, stderr: os.Stderr, readClipboard: defaultClipboardReader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConfinePaths stops open from reading local files and keeps export
// inside the save directory.
func (c *Console) ConfinePaths() { c.confined = true }

// Session returns the session the console drives.
func (c *Console) Session() *editor.Session { return c.session }

// WithIO redirects output until the returned function is called.
func (c *Console) WithIO(stdout, stderr io.Writer) (restore func()) {
	prevOut, prevErr := c.stdout, c.stderr
	if stdout != nil {
		c.stdout = stdout
	}
	if stderr != nil {
		c.stderr = stderr
	}
	return func() { c.stdout, c.stderr = prevOut, prevErr }
}

// Execute runs one command line. done reports that the line asked to end
// the session.
func (c *Console) Execute(ctx context.Context, line string) (done bool, err error) {
	args := splitArgs(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false, nil
	}
	name := strings.ToLower(args[0])
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		return false, c.help()
	}
	cmd, ok := commands[name]
	if !ok {
		return false, fmt.Errorf("unknown command %q (try help)", name)
	}
	if err := cmd.run(c, ctx, args[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			return false, fmt.Errorf("%w: %s %s", ErrUsage, name, cmd.usage)
		}
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return false, nil
}

// Run reads commands from r until EOF or exit, printing errors and
// carrying on.
func (c *Console) Run(ctx context.Context, r io.Reader, prompt bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for {
		if prompt {
			fmt.Fprint(c.stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		done, err := c.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintln(c.stderr, err)
		}
		if done {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

// RunScript executes lines in order and stops at the first error.
func (c *Console) RunScript(ctx context.Context, lines []string) error {
	for i, line := range lines {
		done, err := c.Execute(ctx, line)
		if err != nil {
			return fmt.Errorf("command %d: %w", i+1, err)
		}
		if done {
			return nil
		}
	}
	return nil
}

func (c *Console) help() error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		if _, err := fmt.Fprintf(c.stdout, "  %-10s %-40s %s\n", name, cmd.usage, cmd.summary); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(c.stdout, "  exit       leave the session")
	return err
}

func (c *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(c.stdout, format, args...); err != nil {
		log.Printf("console output: %v", err)
	}
}

// splitArgs splits a line on whitespace, keeping double-quoted runs
// together.
func splitArgs(line string) []string {
	var (
		out    []string
		cur    strings.Builder
		quoted bool
		has    bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			has = true
		case !quoted && (r == ' ' || r == '\t'):
			if has {
				out = append(out, cur.String())
				cur.Reset()
				has = false
			}
		default:
			cur.WriteRune(r)
			has = true
		}
	}
	if has {
		out = append(out, cur.String())
	}
	return out
}
