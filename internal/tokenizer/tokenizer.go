// Package tokenizer loads HuggingFace tokenizer.json files for decoding
// token ids back into text, keeping special tokens in the output.
package tokenizer

// SpecialTokens are the marker strings a pair encoding is built from.
type SpecialTokens struct {
	CLS string `json:"cls" yaml:"cls"`
	SEP string `json:"sep" yaml:"sep"`
	PAD string `json:"pad" yaml:"pad"`
}

// merge fills empty fields of s from o.
func (s SpecialTokens) merge(o SpecialTokens) SpecialTokens {
	if s.CLS == "" {
		s.CLS = o.CLS
	}
	if s.SEP == "" {
		s.SEP = o.SEP
	}
	if s.PAD == "" {
		s.PAD = o.PAD
	}
	return s
}
