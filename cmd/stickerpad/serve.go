package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/example/stickerpad/internal/bridge"
	"github.com/example/stickerpad/internal/console"
)

// serveCmd speaks the browser native-messaging protocol on standard input
// and output. The browser passes the caller origin as an argument, which is
// only logged.
type serveCmd struct {
	*root
	fs     *flag.FlagSet
	stdin  io.Reader
	stdout io.Writer
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r.subcommand("serve"), fs: fs, stdin: os.Stdin, stdout: os.Stdout}
	fs.Usage = usageFunc(s)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *serveCmd) Run() error {
	// Standard output carries framed messages only.
	log.SetOutput(os.Stderr)
	if s.fs.NArg() > 0 {
		log.Printf("serving native messages for %s", s.fs.Arg(0))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	con := console.New(s.newSession(nil),
		console.WithNotifier(s.notifier),
		console.WithSaveDir(s.saveDir()),
		console.WithOutput(io.Discard, io.Discard),
	)
	return bridge.Serve(ctx, s.stdin, s.stdout, bridge.NewSessionHandler(con))
}
