// Package metrics computes F1 classification scores from paired
// prediction and truth label sequences.
//
// Sequences are paired by position. When their lengths differ the
// confusion counts cover the shared prefix only, while class support is
// taken from the whole truth sequence.
package metrics

// Counts holds the confusion counts of a single target class.
//
// FP counts positions where the class is true but was not predicted and
// FN counts positions where it was predicted but is not true. Recall and
// precision are derived from those names, which mirrors both against the
// textbook convention; F1 is the same either way.
type Counts struct {
	TP int
	FP int
	FN int
}

// Count tallies tp, fp and fn for target over the paired positions of
// predictions and truth.
func Count[L comparable](predictions, truth []L, target L) Counts {
	n := min(len(predictions), len(truth))
	var c Counts
	for i := range n {
		predicted := predictions[i] == target
		actual := truth[i] == target
		switch {
		case predicted && actual:
			c.TP++
		case !predicted && actual:
			c.FP++
		case predicted && !actual:
			c.FN++
		}
	}
	return c
}

// Recall is tp/(tp+fn), or 0 when both are zero.
func (c Counts) Recall() float64 {
	if c.TP == 0 && c.FN == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FN)
}

// Precision is tp/(tp+fp), or 0 when both are zero.
func (c Counts) Precision() float64 {
	if c.TP == 0 && c.FP == 0 {
		return 0
	}
	return float64(c.TP) / float64(c.TP+c.FP)
}

// F1 is the harmonic mean of recall and precision, or 0 when both are zero.
func (c Counts) F1() float64 {
	recall, precision := c.Recall(), c.Precision()
	if recall == 0 && precision == 0 {
		return 0
	}
	return 2 * recall * precision / (recall + precision)
}

// ClassF1 returns the F1 score of target. It never fails and always lies
// in [0, 1].
func ClassF1[L comparable](predictions, truth []L, target L) float64 {
	return Count(predictions, truth, target).F1()
}

// MacroF1 is the unweighted mean of ClassF1 over the distinct labels of
// truth. Labels that only appear in predictions are not scored.
func MacroF1[L comparable](predictions, truth []L) (float64, error) {
	classes, _ := distinct(truth)
	if len(classes) == 0 {
		return 0, ErrEmptyTruth
	}
	var sum float64
	for _, c := range classes {
		sum += ClassF1(predictions, truth, c)
	}
	return sum / float64(len(classes)), nil
}

// WeightedF1 weights each truth class by its support and divides the sum
// by len(predictions). With unequal lengths this is not a normalized
// weighted mean; callers relying on that should pass equal lengths.
func WeightedF1[L comparable](predictions, truth []L) (float64, error) {
	if len(predictions) == 0 {
		return 0, ErrEmptyPredictions
	}
	classes, support := distinct(truth)
	var sum float64
	for _, c := range classes {
		sum += ClassF1(predictions, truth, c) * float64(support[c])
	}
	return sum / float64(len(predictions)), nil
}

// distinct returns the labels of truth in first-appearance order together
// with the number of times each occurs.
func distinct[L comparable](truth []L) ([]L, map[L]int) {
	support := make(map[L]int)
	var classes []L
	for _, l := range truth {
		if _, ok := support[l]; !ok {
			classes = append(classes, l)
		}
		support[l]++
	}
	return classes, support
}
