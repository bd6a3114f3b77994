package safetensors

import "errors"

var (
	ErrTensorNotFound   = errors.New("tensor not found")
	ErrUnsupportedDType = errors.New("unsupported tensor dtype")
	ErrCorruptFile      = errors.New("corrupt safetensors file")
)
