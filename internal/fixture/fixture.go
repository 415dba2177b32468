// Package fixture assembles level-5 MAT-file bytes for tests. It knows the
// wire layout but nothing about the decoder.
package fixture

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"
)

// Data type codes.
const (
	Int8       uint32 = 1
	Uint8      uint32 = 2
	Int16      uint32 = 3
	Uint16     uint32 = 4
	Int32      uint32 = 5
	Uint32     uint32 = 6
	Single     uint32 = 7
	Double     uint32 = 9
	Int64      uint32 = 12
	Uint64     uint32 = 13
	Matrix     uint32 = 14
	Compressed uint32 = 15
	UTF8       uint32 = 16
	UTF16      uint32 = 17
)

// Matrix class codes and attribute bits.
const (
	ClassCell   uint32 = 1
	ClassStruct uint32 = 2
	ClassObject uint32 = 3
	ClassChar   uint32 = 4
	ClassSparse uint32 = 5
	ClassDouble uint32 = 6
	ClassInt32  uint32 = 12

	FlagComplex uint32 = 0x001000
	FlagGlobal  uint32 = 0x002000
	FlagLogical uint32 = 0x004000
)

// Builder encodes elements in one byte order.
type Builder struct {
	Order binary.ByteOrder
}

func New(order binary.ByteOrder) *Builder {
	return &Builder{Order: order}
}

// Header returns a 128-byte header whose indicator matches the builder's
// order when the reader's native order is big-endian.
func (b *Builder) Header(text string) []byte {
	ind := "MI"
	if b.Order.Uint16([]byte{0, 1}) != 1 {
		ind = "IM"
	}
	return b.HeaderWith(text, ind, 0x0100)
}

// HeaderWith returns a header with an explicit indicator and version.
func (b *Builder) HeaderWith(text, indicator string, version uint16) []byte {
	h := bytes.Repeat([]byte{' '}, 128)
	copy(h[:116], text)
	for i := 116; i < 124; i++ {
		h[i] = 0
	}
	b.Order.PutUint16(h[124:126], version)
	copy(h[126:128], indicator)
	return h
}

// File concatenates a header and elements.
func File(header []byte, elems ...[]byte) []byte {
	return bytes.Join(append([][]byte{header}, elems...), nil)
}

// Element returns a regular 8-byte tag, the payload and its padding.
func (b *Builder) Element(dt uint32, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload)+7)
	b.Order.PutUint32(out[0:4], dt)
	b.Order.PutUint32(out[4:8], uint32(len(payload)))
	out = append(out, payload...)
	if pad := len(payload) % 8; pad != 0 {
		out = append(out, make([]byte, 8-pad)...)
	}
	return out
}

// Small returns a small element holding up to 4 payload bytes.
func (b *Builder) Small(dt uint32, payload []byte) []byte {
	out := make([]byte, 8)
	b.Order.PutUint32(out[0:4], uint32(len(payload))<<16|dt)
	copy(out[4:], payload)
	return out
}

// Auto returns a small element when the payload fits, a regular one
// otherwise.
func (b *Builder) Auto(dt uint32, payload []byte) []byte {
	if len(payload) > 0 && len(payload) <= 4 {
		return b.Small(dt, payload)
	}
	return b.Element(dt, payload)
}

func (b *Builder) Uint32s(v ...uint32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		b.Order.PutUint32(out[4*i:], x)
	}
	return out
}

func (b *Builder) Int32s(v ...int32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		b.Order.PutUint32(out[4*i:], uint32(x))
	}
	return out
}

func (b *Builder) Uint16s(v ...uint16) []byte {
	out := make([]byte, 2*len(v))
	for i, x := range v {
		b.Order.PutUint16(out[2*i:], x)
	}
	return out
}

func (b *Builder) Float64s(v ...float64) []byte {
	out := make([]byte, 8*len(v))
	for i, x := range v {
		b.Order.PutUint64(out[8*i:], math.Float64bits(x))
	}
	return out
}

// Flags returns the 16-byte array flags sub-element.
func (b *Builder) Flags(class, attrs, nzmax uint32) []byte {
	return b.Element(Uint32, b.Uint32s(class|attrs, nzmax))
}

func (b *Builder) Dims(d ...int32) []byte {
	return b.Element(Int32, b.Int32s(d...))
}

func (b *Builder) Name(s string) []byte {
	return b.Auto(Int8, []byte(s))
}

// Matrix wraps sub-elements in a miMATRIX tag.
func (b *Builder) Matrix(parts ...[]byte) []byte {
	return b.Element(Matrix, bytes.Join(parts, nil))
}

// DoubleMatrix encodes a numeric double matrix; im may be nil.
func (b *Builder) DoubleMatrix(name string, dims []int32, re, im []float64) []byte {
	attrs := uint32(0)
	if im != nil {
		attrs = FlagComplex
	}
	parts := [][]byte{b.Flags(ClassDouble, attrs, 0), b.Dims(dims...), b.Name(name), b.Element(Double, b.Float64s(re...))}
	if im != nil {
		parts = append(parts, b.Element(Double, b.Float64s(im...)))
	}
	return b.Matrix(parts...)
}

// CharMatrix encodes a 1xN char array stored as miUTF8.
func (b *Builder) CharMatrix(name, s string) []byte {
	return b.Matrix(b.Flags(ClassChar, 0, 0), b.Dims(1, int32(len(s))), b.Name(name), b.Auto(UTF8, []byte(s)))
}

// FieldNames returns the field-name length and table sub-elements.
func (b *Builder) FieldNames(width int32, names ...string) []byte {
	table := make([]byte, int(width)*len(names))
	for i, n := range names {
		copy(table[i*int(width):], n)
	}
	return append(b.Small(Int32, b.Int32s(width)), b.Element(Int8, table)...)
}

// Struct encodes a struct array; fields holds instances x names matrices.
func (b *Builder) Struct(name string, dims []int32, names []string, fields ...[]byte) []byte {
	parts := [][]byte{b.Flags(ClassStruct, 0, 0), b.Dims(dims...), b.Name(name), b.FieldNames(32, names...)}
	return b.Matrix(append(parts, fields...)...)
}

// Object encodes an object array of class className.
func (b *Builder) Object(name, className string, dims []int32, names []string, fields ...[]byte) []byte {
	parts := [][]byte{b.Flags(ClassObject, 0, 0), b.Dims(dims...), b.Name(name), b.Name(className), b.FieldNames(32, names...)}
	return b.Matrix(append(parts, fields...)...)
}

// Cell encodes a cell array of the given nested matrices.
func (b *Builder) Cell(name string, dims []int32, cells ...[]byte) []byte {
	parts := [][]byte{b.Flags(ClassCell, 0, 0), b.Dims(dims...), b.Name(name)}
	return b.Matrix(append(parts, cells...)...)
}

// Sparse encodes a real double sparse matrix.
func (b *Builder) Sparse(name string, rows, cols int32, ir, jc []int32, pr []float64) []byte {
	return b.Matrix(
		b.Flags(ClassSparse, 0, uint32(len(ir))),
		b.Dims(rows, cols),
		b.Name(name),
		b.Element(Int32, b.Int32s(ir...)),
		b.Element(Int32, b.Int32s(jc...)),
		b.Element(Double, b.Float64s(pr...)),
	)
}

// Deflate zlib-compresses p.
func Deflate(p []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(p)
	_ = zw.Close()
	return buf.Bytes()
}

// Compressed wraps inner, a complete element, in a miCOMPRESSED element.
func (b *Builder) Compressed(inner []byte) []byte {
	return b.Element(Compressed, Deflate(inner))
}
