package evalset

import "errors"

var (
	ErrInvalidLabel = errors.New("label must be a string, number or bool")
	ErrMissingField = errors.New("missing field")
)
