package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pairscore/internal/logger"
	"github.com/samcharles93/pairscore/internal/pairdecode"
	"github.com/samcharles93/pairscore/internal/safetensors"
	"github.com/samcharles93/pairscore/internal/tokenizer"
)

func decodeCmd(opts *options) *cli.Command {
	var (
		ids          string
		encodingPath string
		tensorPath   string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "ids",
			Usage:       "comma or space separated token ids",
			Destination: &ids,
		},
		&cli.StringFlag{
			Name:        "encoding",
			Aliases:     []string{"e"},
			Usage:       "JSON file with an input_ids field",
			Destination: &encodingPath,
		},
		&cli.StringFlag{
			Name:        "tensor",
			Usage:       "safetensors file holding the id tensor",
			Destination: &tensorPath,
		},
	}
	flags = append(flags, opts.tokenizerFlags()...)
	flags = append(flags, opts.tensorFlags()...)
	flags = append(flags, opts.outputFlags()...)

	return &cli.Command{
		Name:   "decode",
		Usage:  "Decode an encoded sentence pair into its two cleaned segments",
		Flags:  flags,
		Before: opts.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			if opts.tokenizerJSON == "" {
				return errors.New("--tokenizer-json is required (flag or tokenizer_json in config)")
			}
			tok, err := tokenizer.LoadHF(opts.tokenizerJSON, opts.tokenizerConfig)
			if err != nil {
				return fmt.Errorf("load tokenizer: %w", err)
			}
			specials := tok.Specials()
			log.Debug("loaded tokenizer",
				"path", opts.tokenizerJSON,
				"model", tok.Model(),
				"vocab", tok.VocabSize(),
				"cls", specials.CLS,
				"sep", specials.SEP,
				"pad", specials.PAD,
			)

			in, err := readInput(ids, encodingPath, tensorPath, opts.tensorName)
			if err != nil {
				return err
			}
			pair, err := pairdecode.Decode(in, tok)
			if err != nil {
				return err
			}
			return writeResult(cmd.Root().Writer, opts.format, "decoded_pair", pair, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "first:  %s\nsecond: %s\n", pair.First, pair.Second)
				return err
			})
		},
	}
}

// readInput builds the decoder input from exactly one of the three
// sources.
func readInput(ids, encodingPath, tensorPath, tensorName string) (pairdecode.Input, error) {
	sources := 0
	for _, s := range []string{ids, encodingPath, tensorPath} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return nil, errors.New("exactly one of --ids, --encoding or --tensor is required")
	}

	switch {
	case ids != "":
		parsed, err := parseIDs(ids)
		if err != nil {
			return nil, err
		}
		return pairdecode.Vector(parsed), nil
	case encodingPath != "":
		raw, err := os.ReadFile(encodingPath)
		if err != nil {
			return nil, err
		}
		var enc pairdecode.List
		if err := json.Unmarshal(raw, &enc); err != nil {
			return nil, fmt.Errorf("parse encoding %s: %w", encodingPath, err)
		}
		return enc, nil
	default:
		f, err := safetensors.Open(tensorPath)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", tensorPath, err)
		}
		return f.Input(tensorName)
	}
}

func parseIDs(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '[' || r == ']'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid token id %q", f)
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, errors.New("no token ids given")
	}
	return out, nil
}
