package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pairscore/internal/logger"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	opts := &options{}
	return &cli.Command{
		Name:      "pairscore",
		Usage:     "F1 metrics and sentence-pair decoding for model evaluation",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     opts.loggingFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			f1Cmd(opts),
			decodeCmd(opts),
			encodeIDsCmd(opts),
			versionCmd(opts),
		},
	}
}

// before loads the config file and installs the logger selected by the
// flags into the command context.
func (o *options) before(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return ctx, err
	}
	applyConfig(c, cfg, o)

	level := o.logLevel
	if o.debug {
		level = "debug"
	}
	log, err := logger.Setup(c.Root().ErrWriter, o.logFormat, level)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}
