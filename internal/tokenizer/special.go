package tokenizer

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// addedToken accepts both the plain string form and the AddedToken object
// form ({"content": "[CLS]", ...}) used in tokenizer_config.json.
type addedToken string

func (a *addedToken) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = addedToken(s)
		return nil
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("special token must be a string or object: %w", err)
	}
	*a = addedToken(obj.Content)
	return nil
}

type hfTokenizerConfig struct {
	CLS addedToken `json:"cls_token"`
	SEP addedToken `json:"sep_token"`
	PAD addedToken `json:"pad_token"`
}

func parseConfigMarkers(raw []byte) (SpecialTokens, error) {
	if len(raw) == 0 {
		return SpecialTokens{}, nil
	}
	var cfg hfTokenizerConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return SpecialTokens{}, fmt.Errorf("parse tokenizer config: %w", err)
	}
	return SpecialTokens{CLS: string(cfg.CLS), SEP: string(cfg.SEP), PAD: string(cfg.PAD)}, nil
}

type hfPostProcessor struct {
	Type       string            `json:"type"`
	CLS        []json.RawMessage `json:"cls"`
	SEP        []json.RawMessage `json:"sep"`
	Pair       []templatePiece   `json:"pair"`
	Processors []hfPostProcessor `json:"processors"`
}

type templatePiece struct {
	SpecialToken *struct {
		ID string `json:"id"`
	} `json:"SpecialToken"`
	Sequence *struct {
		ID string `json:"id"`
	} `json:"Sequence"`
}

// markers collects the markers tokenizer.json itself declares: cls/sep
// from the post-processor and pad from the padding section.
func (tj hfTokenizerJSON) markers() SpecialTokens {
	var s SpecialTokens
	if tj.PostProcessor != nil {
		s = tj.PostProcessor.markers()
	}
	if tj.Padding != nil {
		s.PAD = tj.Padding.PadToken
	}
	return s
}

func (p hfPostProcessor) markers() SpecialTokens {
	switch p.Type {
	case "BertProcessing", "RobertaProcessing":
		return SpecialTokens{CLS: firstString(p.CLS), SEP: firstString(p.SEP)}
	case "TemplateProcessing":
		return templateMarkers(p.Pair)
	case "Sequence":
		var s SpecialTokens
		for _, sub := range p.Processors {
			s = s.merge(sub.markers())
		}
		return s
	default:
		return SpecialTokens{}
	}
}

// templateMarkers reads a pair template such as
// [CLS] $A [SEP] $B [SEP]: the first special token before $A is the
// classification marker and the first one after it is the separator.
func templateMarkers(pieces []templatePiece) SpecialTokens {
	var s SpecialTokens
	seenA := false
	for _, p := range pieces {
		switch {
		case p.Sequence != nil:
			if p.Sequence.ID == "A" {
				seenA = true
			}
		case p.SpecialToken != nil && !seenA && s.CLS == "":
			s.CLS = p.SpecialToken.ID
		case p.SpecialToken != nil && seenA && s.SEP == "":
			s.SEP = p.SpecialToken.ID
		}
	}
	return s
}

// firstString returns the token of a ["[CLS]", 101] style pair.
func firstString(pair []json.RawMessage) string {
	if len(pair) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(pair[0], &s); err != nil {
		return ""
	}
	return s
}
