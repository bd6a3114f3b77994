// Package pairdecode turns an encoded sentence pair back into its two
// text segments.
//
// The decoded text is expected to look like
//
//	CLS first segment SEP second segment [SEP] [PAD ...]
//
// for whatever markers the tokenizer uses.
package pairdecode

import (
	"fmt"
	"strings"
)

// Tokenizer is the capability Decode needs from a tokenizer: vocabulary
// decoding and its three special marker strings.
type Tokenizer interface {
	Decode(ids []int) (string, error)
	ClsToken() string
	SepToken() string
	PadToken() string
}

// Pair is a decoded and cleaned sentence pair.
type Pair struct {
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// Decode decodes in with tok and splits the text on the first separator.
// Classification markers are removed everywhere. Further separators and
// padding are removed from the second segment only. Both segments are
// trimmed.
func Decode(in Input, tok Tokenizer) (Pair, error) {
	if in == nil {
		return Pair{}, ErrNilInput
	}
	ids, err := in.tokenIDs()
	if err != nil {
		return Pair{}, err
	}
	text, err := tok.Decode(ids)
	if err != nil {
		return Pair{}, fmt.Errorf("decode %d ids: %w", len(ids), err)
	}
	return Split(text, tok.ClsToken(), tok.SepToken(), tok.PadToken())
}

// Split applies the marker cleanup of Decode to already decoded text.
func Split(text, cls, sep, pad string) (Pair, error) {
	text = removeAll(text, cls)
	if sep == "" {
		return Pair{}, fmt.Errorf("%w: empty separator marker", ErrMissingSeparator)
	}
	first, second, ok := strings.Cut(text, sep)
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrMissingSeparator, sep)
	}
	second = removeAll(second, sep)
	second = removeAll(second, pad)
	return Pair{
		First:  strings.TrimSpace(first),
		Second: strings.TrimSpace(second),
	}, nil
}

func removeAll(s, marker string) string {
	if marker == "" {
		return s
	}
	return strings.ReplaceAll(s, marker, "")
}
