package matfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Number is the set of primitive value kinds an Array can hold.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Array is a flat sequence of primitive values.
//
// Values holds exactly one of []int8, []uint8, []int16, []uint16, []int32,
// []uint32, []int64, []uint64, []float32 or []float64, chosen by the tag's
// data type. Text types inside matrices decode as code units of their width.
type Array struct {
	base
	Values any
}

// Len returns the number of values.
func (a *Array) Len() int {
	switch v := a.Values.(type) {
	case []int8:
		return len(v)
	case []uint8:
		return len(v)
	case []int16:
		return len(v)
	case []uint16:
		return len(v)
	case []int32:
		return len(v)
	case []uint32:
		return len(v)
	case []int64:
		return len(v)
	case []uint64:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	}
	return 0
}

// Float64s returns a widened copy of the values.
func (a *Array) Float64s() []float64 {
	switch v := a.Values.(type) {
	case []int8:
		return widen(v)
	case []uint8:
		return widen(v)
	case []int16:
		return widen(v)
	case []uint16:
		return widen(v)
	case []int32:
		return widen(v)
	case []uint32:
		return widen(v)
	case []int64:
		return widen(v)
	case []uint64:
		return widen(v)
	case []float32:
		return widen(v)
	case []float64:
		return append([]float64(nil), v...)
	}
	return nil
}

// ValuesOf returns the values of a when they are stored as T.
func ValuesOf[T Number](a *Array) ([]T, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil array", ErrUnexpectedElementKind)
	}
	v, ok := a.Values.([]T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %v array read as %T", ErrUnexpectedElementKind, a.tag.Type, zero)
	}
	return v, nil
}

func widen[T Number](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// decodeArray materializes the payload p described by t.
func decodeArray(t Tag, p []byte, order binary.ByteOrder) (*Array, error) {
	w := t.Type.Width()
	if w == 0 {
		return nil, fmt.Errorf("%w: %v is not a primitive type", ErrUnexpectedElementKind, t.Type)
	}
	if int(t.Size)%w != 0 {
		return nil, fmt.Errorf("%w: %d bytes of %v is not a multiple of %d", ErrMalformedArray, t.Size, t.Type, w)
	}
	if len(p) < int(t.Size) {
		return nil, fmt.Errorf("%w: %v payload needs %d bytes, have %d", ErrTruncatedStream, t.Type, t.Size, len(p))
	}
	p = p[:t.Size]

	a := &Array{base: base{tag: t}}
	switch t.Type {
	case TypeInt8:
		a.Values = decodeValues(p, 1, func(b []byte) int8 { return int8(b[0]) })
	case TypeUint8, TypeUTF8:
		a.Values = append([]uint8(nil), p...)
	case TypeInt16:
		a.Values = decodeValues(p, 2, func(b []byte) int16 { return int16(order.Uint16(b)) })
	case TypeUint16, TypeUTF16:
		a.Values = decodeValues(p, 2, order.Uint16)
	case TypeInt32:
		a.Values = decodeValues(p, 4, func(b []byte) int32 { return int32(order.Uint32(b)) })
	case TypeUint32, TypeUTF32:
		a.Values = decodeValues(p, 4, order.Uint32)
	case TypeSingle:
		a.Values = decodeValues(p, 4, func(b []byte) float32 { return math.Float32frombits(order.Uint32(b)) })
	case TypeInt64:
		a.Values = decodeValues(p, 8, func(b []byte) int64 { return int64(order.Uint64(b)) })
	case TypeUint64:
		a.Values = decodeValues(p, 8, order.Uint64)
	case TypeDouble:
		a.Values = decodeValues(p, 8, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) })
	}
	return a, nil
}

func decodeValues[T Number](p []byte, width int, read func([]byte) T) []T {
	out := make([]T, len(p)/width)
	for i := range out {
		out[i] = read(p[i*width : (i+1)*width])
	}
	return out
}

// emptyArray is the payload of a matrix that stores no values.
func emptyArray(t DataType) *Array {
	a, _ := decodeArray(Tag{Type: t}, nil, binary.LittleEndian)
	return a
}

// int32s interprets an integer array as signed 32-bit values, as used by
// dimensions, sparse indices and the field-name length.
func int32s(a *Array) ([]int32, error) {
	switch v := a.Values.(type) {
	case []int32:
		return v, nil
	case []uint32:
		return narrow(v)
	case []int8:
		return narrow(v)
	case []uint8:
		return narrow(v)
	case []int16:
		return narrow(v)
	case []uint16:
		return narrow(v)
	case []int64:
		return narrow(v)
	case []uint64:
		return narrow(v)
	}
	return nil, fmt.Errorf("%w: %v where integers are required", ErrUnexpectedElementKind, a.tag.Type)
}

func narrow[T ~int8 | ~uint8 | ~int16 | ~uint16 | ~uint32 | ~int64 | ~uint64](v []T) ([]int32, error) {
	out := make([]int32, len(v))
	for i, x := range v {
		if int64(x) > math.MaxInt32 || int64(x) < math.MinInt32 || (x > 0 && uint64(x) > math.MaxInt32) {
			return nil, fmt.Errorf("%w: value %d overflows int32", ErrMalformedArray, x)
		}
		out[i] = int32(x)
	}
	return out, nil
}
