package tokenizer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/pairscore/internal/pairdecode"
)

var _ pairdecode.Tokenizer = (*HFTokenizer)(nil)

const wordPieceJSON = `{
	"model": {
		"type": "WordPiece",
		"unk_token": "[UNK]",
		"continuing_subword_prefix": "##",
		"vocab": {"[PAD]":0,"[UNK]":1,"[CLS]":2,"[SEP]":3,"hello":4,"world":5,"good":6,"##bye":7,".":8}
	},
	"decoder": {"type": "WordPiece", "prefix": "##", "cleanup": true},
	"post_processor": {
		"type": "TemplateProcessing",
		"pair": [
			{"SpecialToken": {"id": "[CLS]", "type_id": 0}},
			{"Sequence": {"id": "A", "type_id": 0}},
			{"SpecialToken": {"id": "[SEP]", "type_id": 0}},
			{"Sequence": {"id": "B", "type_id": 1}},
			{"SpecialToken": {"id": "[SEP]", "type_id": 1}}
		]
	},
	"padding": null,
	"added_tokens": [
		{"id": 0, "content": "[PAD]", "special": true},
		{"id": 1, "content": "[UNK]", "special": true},
		{"id": 2, "content": "[CLS]", "special": true},
		{"id": 3, "content": "[SEP]", "special": true}
	]
}`

const byteLevelJSON = `{
	"model": {
		"type": "BPE",
		"vocab": {"<s>":0,"<pad>":1,"</s>":2,"Hello":3,"Ġworld":4,"Ġgood":5,"bye":6,"Ċ":7},
		"merges": []
	},
	"decoder": {"type": "ByteLevel", "add_prefix_space": false},
	"post_processor": {"type": "RobertaProcessing", "sep": ["</s>", 2], "cls": ["<s>", 0]},
	"padding": {"pad_token": "<pad>", "pad_id": 1},
	"added_tokens": [
		{"id": 0, "content": "<s>", "special": true},
		{"id": 1, "content": "<pad>", "special": true},
		{"id": 2, "content": "</s>", "special": true}
	]
}`

func TestWordPieceDecode(t *testing.T) {
	t.Parallel()

	tok, err := LoadHFBytes([]byte(wordPieceJSON), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok.Model() != "WordPiece" {
		t.Fatalf("unexpected model: %q", tok.Model())
	}
	got, err := tok.Decode([]int{2, 4, 5, 3, 6, 7, 8, 3, 0, 0})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "[CLS] hello world [SEP] goodbye. [SEP] [PAD] [PAD]"
	if got != want {
		t.Fatalf("decode: got %q want %q", got, want)
	}

	specials := tok.Specials()
	if specials != (SpecialTokens{CLS: "[CLS]", SEP: "[SEP]", PAD: "[PAD]"}) {
		t.Fatalf("unexpected specials: %+v", specials)
	}
}

func TestWordPieceDecodeJoinsContractions(t *testing.T) {
	t.Parallel()

	const contractionsJSON = `{
		"model": {
			"type": "WordPiece",
			"vocab": {"[PAD]":0,"[CLS]":1,"[SEP]":2,"i":3,"don":4,"'":5,"t":6,"know":7,",":8,"it":9,"s":10}
		},
		"decoder": {"type": "WordPiece", "prefix": "##", "cleanup": true}
	}`
	tok, err := LoadHFBytes([]byte(contractionsJSON), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := tok.Decode([]int{1, 3, 4, 5, 6, 7, 8, 9, 5, 10, 2})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "[CLS] i don't know, it's [SEP]"
	if got != want {
		t.Fatalf("decode: got %q want %q", got, want)
	}
}

func TestWordPiecePairDecode(t *testing.T) {
	t.Parallel()

	tok, err := LoadHFBytes([]byte(wordPieceJSON), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ids := []int{2, 4, 5, 3, 6, 7, 8, 3, 0, 0}
	pair, err := pairdecode.Decode(pairdecode.Tensor{Shape: []int{1, len(ids)}, Data: ids}, tok)
	if err != nil {
		t.Fatalf("pair decode: %v", err)
	}
	if pair.First != "hello world" || pair.Second != "goodbye." {
		t.Fatalf("unexpected pair: %+v", pair)
	}
}

func TestByteLevelDecode(t *testing.T) {
	t.Parallel()

	tok, err := LoadHFBytes([]byte(byteLevelJSON), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := tok.Decode([]int{0, 3, 4, 7, 2, 2, 5, 6, 2, 1, 1})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "<s>Hello world\n</s></s> goodbye</s><pad><pad>"
	if got != want {
		t.Fatalf("decode: got %q want %q", got, want)
	}

	pair, err := pairdecode.Decode(pairdecode.List{InputIDs: []int{0, 3, 4, 2, 2, 5, 6, 2, 1, 1}}, tok)
	if err != nil {
		t.Fatalf("pair decode: %v", err)
	}
	if pair.First != "Hello world" || pair.Second != "goodbye" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
	if id, ok := tok.TokenID("Ġworld"); !ok || id != 4 {
		t.Fatalf("TokenID: got %d %v", id, ok)
	}
	if !tok.IsSpecial(2) || tok.IsSpecial(3) {
		t.Fatalf("unexpected special flags")
	}
}

func TestMetaspaceDecode(t *testing.T) {
	t.Parallel()

	tokJSON := []byte(`{
		"model": {"type": "BPE", "vocab": {"<s>":0,"</s>":1,"<pad>":2,"▁hello":3,"▁world":4}},
		"decoder": {"type": "Metaspace", "replacement": "▁", "prepend_scheme": "always"},
		"added_tokens": [{"id": 0, "content": "<s>", "special": true}, {"id": 1, "content": "</s>", "special": true}]
	}`)
	tok, err := LoadHFBytes(tokJSON, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := tok.Decode([]int{3, 4})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("decode: got %q", got)
	}
	// Markers fall back to the BPE family defaults found in the vocabulary.
	if tok.Specials() != (SpecialTokens{CLS: "<s>", SEP: "</s>", PAD: "<pad>"}) {
		t.Fatalf("unexpected specials: %+v", tok.Specials())
	}
}

func TestConfigMarkersWin(t *testing.T) {
	t.Parallel()

	cfg := []byte(`{
		"cls_token": {"content": "[CLS]", "lstrip": false, "special": true},
		"sep_token": "[UNK]",
		"pad_token": null
	}`)
	tok, err := LoadHFBytes([]byte(wordPieceJSON), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok.ClsToken() != "[CLS]" || tok.SepToken() != "[UNK]" || tok.PadToken() != "[PAD]" {
		t.Fatalf("unexpected markers: %+v", tok.Specials())
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		json string
		want error
	}{
		{name: "word level", json: `{"model":{"type":"WordLevel","vocab":{"a":0}}}`, want: ErrUnsupportedModel},
		{name: "decoder", json: `{"model":{"type":"BPE","vocab":{"a":0}},"decoder":{"type":"Sequence"}}`, want: ErrUnsupportedDecoder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := LoadHFBytes([]byte(tt.json), nil); !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}
		})
	}

	if _, err := LoadHFBytes([]byte(`{"model":{"type":"BPE","vocab":{}}}`), nil); err == nil {
		t.Fatalf("expected empty vocabulary error")
	}
	if _, err := LoadHFBytes([]byte(`not json`), nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	t.Parallel()

	tok, err := LoadHFBytes([]byte(wordPieceJSON), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, id := range []int{-1, 99} {
		if _, err := tok.Decode([]int{2, id}); !errors.Is(err, ErrTokenOutOfRange) {
			t.Fatalf("id %d: got %v", id, err)
		}
	}
}

func TestLoadHFFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tokenizer.json")
	if err := os.WriteFile(path, []byte(byteLevelJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tok, err := LoadHF(path, filepath.Join(dir, "missing_config.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tok.VocabSize() != 8 {
		t.Fatalf("vocab size: got %d want 8", tok.VocabSize())
	}
	if tok.TokenString(3) != "Hello" || tok.TokenString(42) != "" {
		t.Fatalf("unexpected TokenString results")
	}
}
