package tokenizer

import "errors"

var (
	ErrUnsupportedModel   = errors.New("unsupported tokenizer model")
	ErrUnsupportedDecoder = errors.New("unsupported tokenizer decoder")
	ErrTokenOutOfRange    = errors.New("token id out of range")
)
