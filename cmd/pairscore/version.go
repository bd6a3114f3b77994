package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pairscore/internal/version"
)

func versionCmd(opts *options) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Print version information",
		Flags:  opts.outputFlags(),
		Before: opts.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			return writeResult(cmd.Root().Writer, opts.format, "version", info, func(w io.Writer) error {
				_, _ = fmt.Fprintf(w, "version:    %s\n", info.Version)
				if info.Commit != "" {
					_, _ = fmt.Fprintf(w, "commit:     %s\n", info.Commit)
				}
				if info.BuildTime != "" {
					_, _ = fmt.Fprintf(w, "build time: %s\n", info.BuildTime)
				}
				return nil
			})
		},
	}
}
