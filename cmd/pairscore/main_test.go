package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

const testTokenizerJSON = `{
	"model": {
		"type": "WordPiece",
		"continuing_subword_prefix": "##",
		"vocab": {"[PAD]":0,"[UNK]":1,"[CLS]":2,"[SEP]":3,"hello":4,"world":5,"good":6,"##bye":7}
	},
	"decoder": {"type": "WordPiece", "prefix": "##", "cleanup": true},
	"post_processor": {"type": "BertProcessing", "sep": ["[SEP]", 3], "cls": ["[CLS]", 2]},
	"added_tokens": [
		{"id": 0, "content": "[PAD]", "special": true},
		{"id": 2, "content": "[CLS]", "special": true},
		{"id": 3, "content": "[SEP]", "special": true}
	]
}`

// isolate points the default config lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr)
	err := app.Run(context.Background(), append([]string{"pairscore"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestF1ReportJSON(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, filepath.Join(dir, "pairs.json"), `{"predictions": [0, 0, 1, 1], "truth": [0, 1, 1, 1]}`)

	out, _, err := run(t, "f1", "--input", input, "--format", "json")
	if err != nil {
		t.Fatalf("f1: %v", err)
	}
	var env struct {
		ID     string `json:"id"`
		Kind   string `json:"kind"`
		Result struct {
			Macro    float64 `json:"macro_f1"`
			Weighted float64 `json:"weighted_f1"`
			Classes  []struct {
				Label   any `json:"label"`
				Support int `json:"support"`
			} `json:"classes"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if env.Kind != "f1_report" || !strings.HasPrefix(env.ID, "f1_report_") {
		t.Fatalf("unexpected envelope: kind=%q id=%q", env.Kind, env.ID)
	}
	if math.Abs(env.Result.Macro-(2.0/3.0+0.8)/2) > 1e-9 {
		t.Fatalf("macro: got %v", env.Result.Macro)
	}
	if math.Abs(env.Result.Weighted-(2.0/3.0+2.4)/4) > 1e-9 {
		t.Fatalf("weighted: got %v", env.Result.Weighted)
	}
	if len(env.Result.Classes) != 2 || env.Result.Classes[1].Support != 3 {
		t.Fatalf("unexpected classes: %+v", env.Result.Classes)
	}
}

func TestF1SeparateFilesText(t *testing.T) {
	dir := isolate(t)
	pred := writeFile(t, filepath.Join(dir, "pred.jsonl"), "\"pos\"\n\"neg\"\n\"pos\"\n")
	truth := writeFile(t, filepath.Join(dir, "truth.json"), `["pos", "pos", "pos"]`)

	out, _, err := run(t, "f1", "-p", pred, "-t", truth)
	if err != nil {
		t.Fatalf("f1: %v", err)
	}
	for _, want := range []string{"CLASS", "pos", "macro F1:    0.8000", "weighted F1: 0.8000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	out, _, err = run(t, "f1", "-p", pred, "-t", truth, "--class", "neg")
	if err != nil {
		t.Fatalf("f1 --class: %v", err)
	}
	if !strings.Contains(out, "class neg: f1=0.0000") {
		t.Fatalf("unexpected class output: %s", out)
	}
}

func TestF1WarnsOnLengthMismatch(t *testing.T) {
	dir := isolate(t)
	pred := writeFile(t, filepath.Join(dir, "pred.json"), `[1, 2, 1]`)
	truth := writeFile(t, filepath.Join(dir, "truth.json"), `[1, 2]`)

	out, logs, err := run(t, "f1", "-p", pred, "-t", truth, "--class", "1", "--log-format", "text")
	if err != nil {
		t.Fatalf("f1: %v", err)
	}
	if !strings.Contains(logs, "lengths differ") {
		t.Fatalf("expected length warning in logs: %s", logs)
	}
	if !strings.Contains(out, "class 1: f1=1.0000") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestF1Errors(t *testing.T) {
	dir := isolate(t)
	empty := writeFile(t, filepath.Join(dir, "empty.json"), `{"predictions": [1], "truth": []}`)

	if _, _, err := run(t, "f1"); err == nil || !strings.Contains(err.Error(), "--input") {
		t.Fatalf("expected missing input error, got %v", err)
	}
	if _, _, err := run(t, "f1", "--input", empty); err == nil || !strings.Contains(err.Error(), "truth labels are empty") {
		t.Fatalf("expected empty truth error, got %v", err)
	}
	if _, _, err := run(t, "f1", "--input", empty, "--predictions", empty); err == nil {
		t.Fatalf("expected conflicting inputs error")
	}
}

func TestDecodeFromIDs(t *testing.T) {
	dir := isolate(t)
	tok := writeFile(t, filepath.Join(dir, "tokenizer.json"), testTokenizerJSON)

	out, _, err := run(t, "decode", "--tokenizer-json", tok, "--ids", "2,4,5,3,6,7,3,0,0")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "first:  hello world\nsecond: goodbye\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestDecodeFromEncodingYAML(t *testing.T) {
	dir := isolate(t)
	tok := writeFile(t, filepath.Join(dir, "tokenizer.json"), testTokenizerJSON)
	enc := writeFile(t, filepath.Join(dir, "enc.json"), `{"input_ids": [2, 6, 7, 3, 4, 3], "attention_mask": [1, 1, 1, 1, 1, 1]}`)

	out, _, err := run(t, "decode", "--tokenizer", tok, "--encoding", enc, "--format", "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{"kind: decoded_pair", "first: goodbye", "second: hello"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEncodeIDsThenDecodeTensor(t *testing.T) {
	dir := isolate(t)
	tok := writeFile(t, filepath.Join(dir, "tokenizer.json"), testTokenizerJSON)
	tensor := filepath.Join(dir, "example.safetensors")

	if _, _, err := run(t, "encode-ids", "--ids", "2 4 3 5 3 0", "--out", tensor, "--batch-dim"); err != nil {
		t.Fatalf("encode-ids: %v", err)
	}
	out, _, err := run(t, "decode", "--tokenizer-json", tok, "--tensor", tensor)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "first:  hello\nsecond: world\n" {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, _, err := run(t, "decode", "--tokenizer-json", tok, "--tensor", tensor, "--tensor-name", "token_type_ids"); err == nil {
		t.Fatalf("expected missing tensor error")
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := isolate(t)
	tok := writeFile(t, filepath.Join(dir, "tokenizer.json"), testTokenizerJSON)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no tokenizer", args: []string{"decode", "--ids", "1"}, want: "--tokenizer-json"},
		{name: "no source", args: []string{"decode", "--tokenizer-json", tok}, want: "exactly one"},
		{name: "two sources", args: []string{"decode", "--tokenizer-json", tok, "--ids", "1", "--tensor", "x"}, want: "exactly one"},
		{name: "bad id", args: []string{"decode", "--tokenizer-json", tok, "--ids", "2,x"}, want: "invalid token id"},
		{name: "no separator", args: []string{"decode", "--tokenizer-json", tok, "--ids", "2,4,5"}, want: "separator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestVersionJSON(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"kind": "version"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestParseIDs(t *testing.T) {
	t.Parallel()
	got, err := parseIDs("[101, 7592 2088,102]")
	if err != nil {
		t.Fatalf("parseIDs: %v", err)
	}
	want := []int{101, 7592, 2088, 102}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if _, err := parseIDs(" , "); err == nil {
		t.Fatalf("expected error for empty id list")
	}
}
