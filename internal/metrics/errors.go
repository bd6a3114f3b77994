package metrics

import "errors"

var (
	ErrEmptyTruth       = errors.New("truth labels are empty")
	ErrEmptyPredictions = errors.New("predictions are empty")
)
