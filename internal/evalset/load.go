// Package evalset loads prediction and truth label sequences from JSON
// and JSON Lines files.
package evalset

import (
	"bytes"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Set is a pair of aligned label sequences.
type Set struct {
	Predictions []Label `json:"predictions"`
	Truth       []Label `json:"truth"`
}

// pairsObject is the single-document form. "labels" is accepted as an
// alias of "truth".
type pairsObject struct {
	Predictions *[]Label `json:"predictions"`
	Truth       *[]Label `json:"truth"`
	Labels      *[]Label `json:"labels"`
}

// pairRow is one line of the JSON Lines form.
type pairRow struct {
	Prediction *Label `json:"prediction"`
	Truth      *Label `json:"truth"`
}

func LoadLabels(path string) ([]Label, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	labels, err := ParseLabels(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}

func LoadPairs(path string) (Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Set{}, err
	}
	set, err := ParsePairs(raw)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseLabels accepts a JSON array of scalars or JSON Lines with one
// scalar per line. Blank lines are skipped.
func ParseLabels(data []byte) ([]Label, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var labels []Label
		if err := json.Unmarshal(trimmed, &labels); err != nil {
			return nil, fmt.Errorf("parse labels: %w", err)
		}
		return labels, nil
	}
	var labels []Label
	err := eachLine(trimmed, func(n int, line []byte) error {
		var l Label
		if err := json.Unmarshal(line, &l); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		labels = append(labels, l)
		return nil
	})
	return labels, err
}

// ParsePairs accepts either an object holding both sequences or JSON
// Lines of {"prediction": x, "truth": y} rows.
func ParsePairs(data []byte) (Set, error) {
	trimmed := bytes.TrimSpace(data)
	var obj pairsObject
	if err := json.Unmarshal(trimmed, &obj); err == nil && (obj.Predictions != nil || obj.Truth != nil || obj.Labels != nil) {
		return obj.set()
	}

	var set Set
	err := eachLine(trimmed, func(n int, line []byte) error {
		var row pairRow
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if row.Prediction == nil {
			return fmt.Errorf("line %d: %w: prediction", n, ErrMissingField)
		}
		if row.Truth == nil {
			return fmt.Errorf("line %d: %w: truth", n, ErrMissingField)
		}
		set.Predictions = append(set.Predictions, *row.Prediction)
		set.Truth = append(set.Truth, *row.Truth)
		return nil
	})
	return set, err
}

func (o pairsObject) set() (Set, error) {
	truth := o.Truth
	if truth == nil {
		truth = o.Labels
	}
	if o.Predictions == nil {
		return Set{}, fmt.Errorf("%w: predictions", ErrMissingField)
	}
	if truth == nil {
		return Set{}, fmt.Errorf("%w: truth", ErrMissingField)
	}
	return Set{Predictions: *o.Predictions, Truth: *truth}, nil
}

func eachLine(data []byte, fn func(n int, line []byte) error) error {
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := fn(i+1, line); err != nil {
			return err
		}
	}
	return nil
}
