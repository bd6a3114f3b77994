package pairdecode

import "fmt"

// Input is an encoded example holding two text segments. It is either a
// Tensor or a List.
type Input interface {
	tokenIDs() ([]int, error)
}

// Tensor is a row-major id buffer with its shape, as a model pipeline
// emits it (typically [1, seq_len]). It is squeezed before decoding, so
// every dimension except one must have size 1.
type Tensor struct {
	Shape []int
	Data  []int
}

// List is an encoding record exposing its input ids.
type List struct {
	InputIDs []int `json:"input_ids" yaml:"input_ids"`
}

// Vector wraps ids as a one-dimensional tensor.
func Vector(ids []int) Tensor {
	return Tensor{Shape: []int{len(ids)}, Data: ids}
}

func (t Tensor) tokenIDs() ([]int, error) {
	n := 1
	for _, d := range t.Shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrShapeMismatch, t.Shape)
		}
		n *= d
	}
	if n != len(t.Data) {
		return nil, fmt.Errorf("%w: shape %v holds %d ids, got %d", ErrShapeMismatch, t.Shape, n, len(t.Data))
	}
	if squeezed := t.Squeeze(); len(squeezed) > 1 {
		return nil, fmt.Errorf("%w: shape %v squeezes to %v", ErrNotFlat, t.Shape, squeezed)
	}
	return t.Data, nil
}

// Squeeze returns the shape with every unit dimension removed.
func (t Tensor) Squeeze() []int {
	out := make([]int, 0, len(t.Shape))
	for _, d := range t.Shape {
		if d != 1 {
			out = append(out, d)
		}
	}
	return out
}

func (l List) tokenIDs() ([]int, error) {
	return l.InputIDs, nil
}
