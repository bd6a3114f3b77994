package metrics

// ClassScore is the breakdown for one truth class.
type ClassScore[L comparable] struct {
	Label     L       `json:"label" yaml:"label"`
	TP        int     `json:"tp" yaml:"tp"`
	FP        int     `json:"fp" yaml:"fp"`
	FN        int     `json:"fn" yaml:"fn"`
	Recall    float64 `json:"recall" yaml:"recall"`
	Precision float64 `json:"precision" yaml:"precision"`
	F1        float64 `json:"f1" yaml:"f1"`
	Support   int     `json:"support" yaml:"support"`
}

// Report collects per-class scores and both averages for one evaluation.
type Report[L comparable] struct {
	Classes     []ClassScore[L] `json:"classes" yaml:"classes"`
	Macro       float64         `json:"macro_f1" yaml:"macro_f1"`
	Weighted    float64         `json:"weighted_f1" yaml:"weighted_f1"`
	Predictions int             `json:"predictions" yaml:"predictions"`
	Truth       int             `json:"truth" yaml:"truth"`
}

// Evaluate scores every truth class once and derives the macro and
// weighted averages from the same per-class values that MacroF1 and
// WeightedF1 would compute. Classes keep their first-appearance order in
// truth.
func Evaluate[L comparable](predictions, truth []L) (Report[L], error) {
	if len(truth) == 0 {
		return Report[L]{}, ErrEmptyTruth
	}
	if len(predictions) == 0 {
		return Report[L]{}, ErrEmptyPredictions
	}

	classes, support := distinct(truth)
	report := Report[L]{
		Classes:     make([]ClassScore[L], 0, len(classes)),
		Predictions: len(predictions),
		Truth:       len(truth),
	}
	var macro, weighted float64
	for _, c := range classes {
		counts := Count(predictions, truth, c)
		score := ClassScore[L]{
			Label:     c,
			TP:        counts.TP,
			FP:        counts.FP,
			FN:        counts.FN,
			Recall:    counts.Recall(),
			Precision: counts.Precision(),
			F1:        counts.F1(),
			Support:   support[c],
		}
		macro += score.F1
		weighted += score.F1 * float64(score.Support)
		report.Classes = append(report.Classes, score)
	}
	report.Macro = macro / float64(len(classes))
	report.Weighted = weighted / float64(len(predictions))
	return report, nil
}

// Class returns the score of label, if label occurs in truth.
func (r Report[L]) Class(label L) (ClassScore[L], bool) {
	for _, c := range r.Classes {
		if c.Label == label {
			return c, true
		}
	}
	return ClassScore[L]{}, false
}
