package main

import (
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/pairscore/internal/version"
)

// envelope wraps structured results so saved outputs can be told apart
// and traced back to the build that produced them.
type envelope struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      string    `json:"kind" yaml:"kind"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Version   string    `json:"version" yaml:"version"`
	Result    any       `json:"result" yaml:"result"`
}

func newEnvelope(kind string, result any) envelope {
	return envelope{
		ID:        kind + "_" + uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Version:   version.String(),
		Result:    result,
	}
}

// writeResult renders result in the requested format. text is used for
// the plain-text format.
func writeResult(w io.Writer, format, kind string, result any, text func(io.Writer) error) error {
	switch format {
	case "", "text":
		return text(w)
	case "json":
		b, err := json.MarshalIndent(newEnvelope(kind, result), "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newEnvelope(kind, result)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}
