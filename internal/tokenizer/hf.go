package tokenizer

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

type decoderKind int

const (
	decodeWordPieceKind decoderKind = iota
	decodeByteLevelKind
	decodeMetaspaceKind
)

// HFTokenizer decodes ids with the vocabulary and decoder described by a
// HuggingFace tokenizer.json. Special (added) tokens are emitted as-is.
type HFTokenizer struct {
	model       string
	decoder     []string
	encoder     map[string]int
	special     map[int]bool
	kind        decoderKind
	prefix      string
	cleanup     bool
	stripFirst  bool
	byteDecoder map[rune]byte
	markers     SpecialTokens
}

type hfTokenizerJSON struct {
	Model struct {
		Type                    string         `json:"type"`
		Vocab                   map[string]int `json:"vocab"`
		UnkToken                string         `json:"unk_token"`
		ContinuingSubwordPrefix *string        `json:"continuing_subword_prefix"`
	} `json:"model"`
	Decoder       *hfDecoder       `json:"decoder"`
	PostProcessor *hfPostProcessor `json:"post_processor"`
	Padding       *struct {
		PadToken string `json:"pad_token"`
	} `json:"padding"`
	AddedTokens []struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
		Special bool   `json:"special"`
	} `json:"added_tokens"`
}

type hfDecoder struct {
	Type          string `json:"type"`
	Prefix        string `json:"prefix"`
	Cleanup       *bool  `json:"cleanup"`
	PrependScheme string `json:"prepend_scheme"`
	AddPrefix     *bool  `json:"add_prefix_space"`
}

// LoadHF reads tokenizer.json and, when tokConfig is not empty,
// tokenizer_config.json. A missing config file is not an error.
func LoadHF(tokJSON, tokConfig string) (*HFTokenizer, error) {
	data, err := os.ReadFile(tokJSON)
	if err != nil {
		return nil, err
	}
	var cfg []byte
	if tokConfig != "" {
		if raw, err := os.ReadFile(tokConfig); err == nil {
			cfg = raw
		}
	}
	return LoadHFBytes(data, cfg)
}

// LoadHFBytes parses the contents of tokenizer.json and an optional
// tokenizer_config.json.
func LoadHFBytes(tokJSON, tokConfig []byte) (*HFTokenizer, error) {
	var tj hfTokenizerJSON
	if err := json.Unmarshal(tokJSON, &tj); err != nil {
		return nil, fmt.Errorf("parse tokenizer json: %w", err)
	}

	model := tj.Model.Type
	var defaults SpecialTokens
	switch strings.ToUpper(model) {
	case "WORDPIECE":
		model = "WordPiece"
		defaults = SpecialTokens{CLS: "[CLS]", SEP: "[SEP]", PAD: "[PAD]"}
	case "BPE":
		model = "BPE"
		defaults = SpecialTokens{CLS: "<s>", SEP: "</s>", PAD: "<pad>"}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, tj.Model.Type)
	}

	maxID := -1
	for _, id := range tj.Model.Vocab {
		maxID = max(maxID, id)
	}
	for _, at := range tj.AddedTokens {
		maxID = max(maxID, at.ID)
	}
	if maxID < 0 {
		return nil, fmt.Errorf("tokenizer json has an empty vocabulary")
	}

	decoder := make([]string, maxID+1)
	encoder := make(map[string]int, maxID+1)
	for tok, id := range tj.Model.Vocab {
		if id < 0 {
			return nil, fmt.Errorf("token %q has negative id %d", tok, id)
		}
		decoder[id] = tok
		encoder[tok] = id
	}
	special := make(map[int]bool)
	for _, at := range tj.AddedTokens {
		if at.ID < 0 {
			return nil, fmt.Errorf("added token %q has negative id %d", at.Content, at.ID)
		}
		decoder[at.ID] = at.Content
		encoder[at.Content] = at.ID
		if at.Special {
			special[at.ID] = true
		}
	}

	tok := &HFTokenizer{
		model:   model,
		decoder: decoder,
		encoder: encoder,
		special: special,
	}
	if err := tok.configureDecoder(tj); err != nil {
		return nil, err
	}

	markers, err := parseConfigMarkers(tokConfig)
	if err != nil {
		return nil, err
	}
	markers = markers.merge(tj.markers())
	tok.markers = markers.merge(tok.knownOnly(defaults))
	return tok, nil
}

func (t *HFTokenizer) configureDecoder(tj hfTokenizerJSON) error {
	d := tj.Decoder
	if d == nil {
		// Fall back to the decoder the model family ships with.
		d = &hfDecoder{Type: "ByteLevel"}
		if t.model == "WordPiece" {
			d = &hfDecoder{Type: "WordPiece"}
			if p := tj.Model.ContinuingSubwordPrefix; p != nil {
				d.Prefix = *p
			}
		}
	}
	switch d.Type {
	case "WordPiece":
		t.kind = decodeWordPieceKind
		t.prefix = d.Prefix
		if t.prefix == "" {
			t.prefix = defaultWordPiecePrefix
		}
		t.cleanup = d.Cleanup == nil || *d.Cleanup
	case "ByteLevel":
		t.kind = decodeByteLevelKind
		t.byteDecoder = byteLevelDecoder()
	case "Metaspace":
		t.kind = decodeMetaspaceKind
		t.stripFirst = d.PrependScheme != "never"
		if d.AddPrefix != nil && !*d.AddPrefix {
			t.stripFirst = false
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDecoder, d.Type)
	}
	return nil
}

// knownOnly drops markers the vocabulary does not contain.
func (t *HFTokenizer) knownOnly(s SpecialTokens) SpecialTokens {
	keep := func(tok string) string {
		if _, ok := t.encoder[tok]; ok {
			return tok
		}
		return ""
	}
	return SpecialTokens{CLS: keep(s.CLS), SEP: keep(s.SEP), PAD: keep(s.PAD)}
}

// Decode maps ids to tokens and runs the configured decoder over them.
// Special tokens are kept in the output.
func (t *HFTokenizer) Decode(ids []int) (string, error) {
	tokens := make([]string, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(t.decoder) || t.decoder[id] == "" {
			return "", fmt.Errorf("%w: %d", ErrTokenOutOfRange, id)
		}
		tokens = append(tokens, t.decoder[id])
	}
	switch t.kind {
	case decodeWordPieceKind:
		return decodeWordPiece(tokens, t.prefix, t.cleanup), nil
	case decodeMetaspaceKind:
		return decodeMetaspace(tokens, t.stripFirst), nil
	default:
		return t.decodeByteLevel(ids, tokens), nil
	}
}

// decodeByteLevel decodes runs of ordinary tokens through the byte map and
// copies special tokens verbatim so their text is never reinterpreted.
func (t *HFTokenizer) decodeByteLevel(ids []int, tokens []string) string {
	var b strings.Builder
	start := 0
	for i, id := range ids {
		if !t.special[id] {
			continue
		}
		b.WriteString(decodeByteLevel(tokens[start:i], t.byteDecoder))
		b.WriteString(tokens[i])
		start = i + 1
	}
	b.WriteString(decodeByteLevel(tokens[start:], t.byteDecoder))
	return b.String()
}

func (t *HFTokenizer) ClsToken() string        { return t.markers.CLS }
func (t *HFTokenizer) SepToken() string        { return t.markers.SEP }
func (t *HFTokenizer) PadToken() string        { return t.markers.PAD }
func (t *HFTokenizer) Specials() SpecialTokens { return t.markers }
func (t *HFTokenizer) Model() string           { return t.model }
func (t *HFTokenizer) VocabSize() int          { return len(t.decoder) }

// TokenID returns the id of an exact vocabulary entry.
func (t *HFTokenizer) TokenID(token string) (int, bool) {
	id, ok := t.encoder[token]
	return id, ok
}

// TokenString returns the vocabulary entry for id, or "" when there is none.
func (t *HFTokenizer) TokenString(id int) string {
	if id < 0 || id >= len(t.decoder) {
		return ""
	}
	return t.decoder[id]
}

// IsSpecial reports whether id is an added token flagged as special.
func (t *HFTokenizer) IsSpecial(id int) bool {
	return t.special[id]
}
