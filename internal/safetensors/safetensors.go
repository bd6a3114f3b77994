// Package safetensors reads and writes integer tensors stored in the
// safetensors format, such as the input_ids a pipeline dumps per example.
package safetensors

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/pairscore/internal/pairdecode"
)

type TensorInfo struct {
	DType string
	Shape []int
	Start int64
	End   int64
}

type File struct {
	Path      string
	DataStart int64
	Tensors   map[string]TensorInfo
}

type tensorHeader struct {
	DType       string  `json:"dtype"`
	Shape       []int   `json:"shape"`
	DataOffsets []int64 `json:"data_offsets"`
}

// maxHeaderLen bounds the JSON header so a corrupt length prefix cannot
// trigger a huge allocation.
const maxHeaderLen = 100 << 20

// elemSize is the width in bytes of the integer dtypes ReadTensorInts
// understands.
var elemSize = map[string]int{
	"I64": 8,
	"I32": 4,
	"I16": 2,
	"I8":  1,
	"U8":  1,
}

func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	headerLen, err := readU64(f)
	if err != nil {
		return nil, fmt.Errorf("read header length: %w", err)
	}
	if headerLen > maxHeaderLen {
		return nil, fmt.Errorf("%w: header length %d", ErrCorruptFile, headerLen)
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(f, headerBytes); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	delete(raw, "__metadata__")

	tensors := make(map[string]TensorInfo, len(raw))
	for name, msg := range raw {
		var th tensorHeader
		if err := json.Unmarshal(msg, &th); err != nil {
			return nil, fmt.Errorf("parse tensor %s: %w", name, err)
		}
		if len(th.DataOffsets) != 2 {
			return nil, fmt.Errorf("%w: tensor %s: invalid data_offsets", ErrCorruptFile, name)
		}
		tensors[name] = TensorInfo{
			DType: th.DType,
			Shape: th.Shape,
			Start: th.DataOffsets[0],
			End:   th.DataOffsets[1],
		}
	}
	return &File{
		Path:      path,
		DataStart: int64(8 + headerLen),
		Tensors:   tensors,
	}, nil
}

func (f *File) Tensor(name string) (TensorInfo, bool) {
	t, ok := f.Tensors[name]
	return t, ok
}

// Names returns the tensor names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Tensors))
	for name := range f.Tensors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (f *File) ReadTensor(name string) ([]byte, TensorInfo, error) {
	t, ok := f.Tensors[name]
	if !ok {
		return nil, TensorInfo{}, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}
	if t.Start < 0 || t.End < t.Start {
		return nil, TensorInfo{}, fmt.Errorf("%w: tensor %s: invalid offsets", ErrCorruptFile, name)
	}
	buf := make([]byte, t.End-t.Start)

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, TensorInfo{}, err
	}
	defer func() { _ = file.Close() }()

	if _, err := file.ReadAt(buf, f.DataStart+t.Start); err != nil {
		return nil, TensorInfo{}, fmt.Errorf("read tensor %s: %w", name, err)
	}
	return buf, t, nil
}

// ReadTensorInts reads an integer tensor and widens its values to int.
func (f *File) ReadTensorInts(name string) ([]int, TensorInfo, error) {
	raw, info, err := f.ReadTensor(name)
	if err != nil {
		return nil, TensorInfo{}, err
	}
	size, ok := elemSize[info.DType]
	if !ok {
		return nil, TensorInfo{}, fmt.Errorf("%w: tensor %s has dtype %s", ErrUnsupportedDType, name, info.DType)
	}
	n, err := numElements(info.Shape)
	if err != nil {
		return nil, TensorInfo{}, fmt.Errorf("tensor %s: %w", name, err)
	}
	if len(raw) != n*size {
		return nil, TensorInfo{}, fmt.Errorf("%w: tensor %s: %d bytes for %d %s values", ErrCorruptFile, name, len(raw), n, info.DType)
	}
	out := make([]int, n)
	for i := range n {
		b := raw[i*size:]
		switch info.DType {
		case "I64":
			out[i] = int(int64(binary.LittleEndian.Uint64(b)))
		case "I32":
			out[i] = int(int32(binary.LittleEndian.Uint32(b)))
		case "I16":
			out[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case "I8":
			out[i] = int(int8(b[0]))
		case "U8":
			out[i] = int(b[0])
		}
	}
	return out, info, nil
}

// Input reads an integer tensor as a decoder input, keeping its shape.
func (f *File) Input(name string) (pairdecode.Tensor, error) {
	ids, info, err := f.ReadTensorInts(name)
	if err != nil {
		return pairdecode.Tensor{}, err
	}
	return pairdecode.Tensor{Shape: slices.Clone(info.Shape), Data: ids}, nil
}

// WriteInts writes tensors as I64 in name order. The header is padded
// with spaces to an 8-byte boundary.
func WriteInts(w io.Writer, tensors map[string]pairdecode.Tensor) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	slices.Sort(names)

	header := make(map[string]tensorHeader, len(tensors))
	var offset int64
	for _, name := range names {
		t := tensors[name]
		n, err := numElements(t.Shape)
		if err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}
		if n != len(t.Data) {
			return fmt.Errorf("tensor %s: shape %v holds %d values, got %d", name, t.Shape, n, len(t.Data))
		}
		size := int64(n * elemSize["I64"])
		header[name] = tensorHeader{
			DType:       "I64",
			Shape:       shapeOrEmpty(t.Shape),
			DataOffsets: []int64{offset, offset + size},
		}
		offset += size
	}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if pad := len(headerBytes) % 8; pad != 0 {
		headerBytes = append(headerBytes, strings.Repeat(" ", 8-pad)...)
	}

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(headerBytes)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(headerBytes); err != nil {
		return err
	}
	buf := make([]byte, 0, offset)
	for _, name := range names {
		for _, v := range tensors[name].Data {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(v)))
		}
	}
	_, err = w.Write(buf)
	return err
}

// numElements multiplies out shape. An empty shape is a scalar.
func numElements(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("invalid dim %d", d)
		}
		if d > 0 && n > (int(^uint(0)>>1))/d {
			return 0, fmt.Errorf("tensor too large")
		}
		n *= d
	}
	return n, nil
}

func shapeOrEmpty(shape []int) []int {
	if shape == nil {
		return []int{}
	}
	return shape
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
