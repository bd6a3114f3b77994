package evalset

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

type Kind uint8

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
)

// Label is a class value read from a file. Labels of different kinds
// never compare equal, so 1 and "1" are distinct classes.
type Label struct {
	kind Kind
	str  string
	num  float64
	flag bool
}

func StringLabel(s string) Label  { return Label{kind: KindString, str: s} }
func NumberLabel(n float64) Label { return Label{kind: KindNumber, num: n} }
func BoolLabel(b bool) Label      { return Label{kind: KindBool, flag: b} }

func (l Label) Kind() Kind { return l.kind }

func (l Label) String() string {
	switch l.kind {
	case KindNumber:
		return strconv.FormatFloat(l.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(l.flag)
	default:
		return l.str
	}
}

// Value returns the label as a plain Go value.
func (l Label) Value() any {
	switch l.kind {
	case KindNumber:
		return l.num
	case KindBool:
		return l.flag
	case KindString:
		return l.str
	default:
		return nil
	}
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value())
}

func (l *Label) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := labelFromValue(v)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Label) MarshalYAML() (any, error) {
	return l.Value(), nil
}

// ParseLabel reads a label typed on a command line. JSON scalars keep
// their kind (1 is a number, "1" quoted is a string); anything else is a
// plain string.
func ParseLabel(s string) Label {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		if l, err := labelFromValue(v); err == nil {
			return l
		}
	}
	return StringLabel(s)
}

func labelFromValue(v any) (Label, error) {
	switch x := v.(type) {
	case string:
		return StringLabel(x), nil
	case float64:
		return NumberLabel(x), nil
	case bool:
		return BoolLabel(x), nil
	default:
		return Label{}, fmt.Errorf("%w: got %T", ErrInvalidLabel, v)
	}
}
