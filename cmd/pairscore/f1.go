package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pairscore/internal/evalset"
	"github.com/samcharles93/pairscore/internal/logger"
	"github.com/samcharles93/pairscore/internal/metrics"
)

// classResult is the output of f1 --class.
type classResult struct {
	Class     evalset.Label `json:"class" yaml:"class"`
	TP        int           `json:"tp" yaml:"tp"`
	FP        int           `json:"fp" yaml:"fp"`
	FN        int           `json:"fn" yaml:"fn"`
	Recall    float64       `json:"recall" yaml:"recall"`
	Precision float64       `json:"precision" yaml:"precision"`
	F1        float64       `json:"f1" yaml:"f1"`
}

func f1Cmd(opts *options) *cli.Command {
	var (
		inputPath       string
		predictionsPath string
		truthPath       string
		class           string
	)

	return &cli.Command{
		Name:  "f1",
		Usage: "Score predictions against truth labels (per-class, macro and weighted F1)",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "file with both sequences ({\"predictions\":[...],\"truth\":[...]} or JSON Lines rows)",
				Destination: &inputPath,
			},
			&cli.StringFlag{
				Name:        "predictions",
				Aliases:     []string{"p"},
				Usage:       "file with predicted labels (JSON array or JSON Lines)",
				Destination: &predictionsPath,
			},
			&cli.StringFlag{
				Name:        "truth",
				Aliases:     []string{"t"},
				Usage:       "file with true labels (JSON array or JSON Lines)",
				Destination: &truthPath,
			},
			&cli.StringFlag{
				Name:        "class",
				Aliases:     []string{"c"},
				Usage:       "only score this class (JSON scalar; bare words are strings)",
				Destination: &class,
			},
		}, opts.outputFlags()...),
		Before: opts.before,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			set, err := loadSet(inputPath, predictionsPath, truthPath)
			if err != nil {
				return err
			}
			log.Debug("loaded labels", "predictions", len(set.Predictions), "truth", len(set.Truth))
			if len(set.Predictions) != len(set.Truth) {
				log.Warn("prediction and truth lengths differ; counts use the shared prefix and weighted F1 divides by the prediction count",
					"predictions", len(set.Predictions), "truth", len(set.Truth))
			}

			w := cmd.Root().Writer
			if cmd.IsSet("class") {
				target := evalset.ParseLabel(class)
				counts := metrics.Count(set.Predictions, set.Truth, target)
				res := classResult{
					Class:     target,
					TP:        counts.TP,
					FP:        counts.FP,
					FN:        counts.FN,
					Recall:    counts.Recall(),
					Precision: counts.Precision(),
					F1:        metrics.ClassF1(set.Predictions, set.Truth, target),
				}
				return writeResult(w, opts.format, "class_f1", res, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "class %s: f1=%.4f recall=%.4f precision=%.4f (tp=%d fp=%d fn=%d)\n",
						res.Class, res.F1, res.Recall, res.Precision, res.TP, res.FP, res.FN)
					return err
				})
			}

			report, err := metrics.Evaluate(set.Predictions, set.Truth)
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			log.Info("scored", "classes", len(report.Classes), "macro_f1", report.Macro, "weighted_f1", report.Weighted)
			return writeResult(w, opts.format, "f1_report", report, func(w io.Writer) error {
				return writeReportText(w, report)
			})
		},
	}
}

func loadSet(inputPath, predictionsPath, truthPath string) (evalset.Set, error) {
	if inputPath != "" {
		if predictionsPath != "" || truthPath != "" {
			return evalset.Set{}, errors.New("--input cannot be combined with --predictions/--truth")
		}
		return evalset.LoadPairs(inputPath)
	}
	if predictionsPath == "" || truthPath == "" {
		return evalset.Set{}, errors.New("either --input or both --predictions and --truth are required")
	}
	pred, err := evalset.LoadLabels(predictionsPath)
	if err != nil {
		return evalset.Set{}, err
	}
	truth, err := evalset.LoadLabels(truthPath)
	if err != nil {
		return evalset.Set{}, err
	}
	return evalset.Set{Predictions: pred, Truth: truth}, nil
}

func writeReportText(w io.Writer, report metrics.Report[evalset.Label]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CLASS\tTP\tFP\tFN\tRECALL\tPRECISION\tF1\tSUPPORT")
	for _, c := range report.Classes {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\t%d\n",
			c.Label, c.TP, c.FP, c.FN, c.Recall, c.Precision, c.F1, c.Support)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nmacro F1:    %.4f\nweighted F1: %.4f\n", report.Macro, report.Weighted)
	return err
}
