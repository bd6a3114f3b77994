package pairdecode

import "errors"

var (
	ErrMissingSeparator = errors.New("separator token not found in decoded text")
	ErrNotFlat          = errors.New("token tensor has more than one non-unit dimension")
	ErrShapeMismatch    = errors.New("token tensor shape does not match its data")
	ErrNilInput         = errors.New("nil token input")
)
