package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pairscore/internal/logger"
	"github.com/samcharles93/pairscore/internal/pairdecode"
	"github.com/samcharles93/pairscore/internal/safetensors"
)

func encodeIDsCmd(opts *options) *cli.Command {
	var (
		ids      string
		outPath  string
		batchDim bool
	)

	return &cli.Command{
		Name:  "encode-ids",
		Usage: "Store token ids as an I64 safetensors tensor",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "ids",
				Usage:       "comma or space separated token ids",
				Destination: &ids,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output .safetensors path",
				Destination: &outPath,
			},
			&cli.BoolFlag{
				Name:        "batch-dim",
				Usage:       "store with a leading batch dimension ([1, n])",
				Destination: &batchDim,
			},
		}, opts.tensorFlags()...),
		Before: opts.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if outPath == "" {
				return errors.New("--out is required")
			}
			parsed, err := parseIDs(ids)
			if err != nil {
				return err
			}
			t := pairdecode.Vector(parsed)
			if batchDim {
				t.Shape = []int{1, len(parsed)}
			}
			if err := writeTensorFile(outPath, opts.tensorName, t); err != nil {
				return err
			}
			log.Info("wrote tensor", "path", outPath, "name", opts.tensorName, "shape", fmt.Sprint(t.Shape))
			return nil
		},
	}
}

func writeTensorFile(path, name string, t pairdecode.Tensor) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return safetensors.WriteInts(f, map[string]pairdecode.Tensor{name: t})
}
