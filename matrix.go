package matfile

import (
	"fmt"
	"math"
	"slices"
)

// Array flag bits. These are the positions observed in files this reader
// was built against; they differ from the published format description.
const (
	flagComplex uint32 = 0x001000
	flagGlobal  uint32 = 0x002000
	flagLogical uint32 = 0x004000
	flagClass   uint32 = 0xFF
)

// ArrayFlags is the fixed record at the start of every matrix element.
type ArrayFlags struct {
	Class   MatrixClass
	Complex bool
	Global  bool
	Logical bool
	NzMax   uint32
}

func parseArrayFlags(word0, word1 uint32) ArrayFlags {
	return ArrayFlags{
		Class:   MatrixClass(word0 & flagClass),
		Complex: word0&flagComplex != 0,
		Global:  word0&flagGlobal != 0,
		Logical: word0&flagLogical != 0,
		NzMax:   word1,
	}
}

// Bits packs the class and attribute flags into the first flags word.
func (f ArrayFlags) Bits() uint32 {
	w := uint32(f.Class)
	if f.Complex {
		w |= flagComplex
	}
	if f.Global {
		w |= flagGlobal
	}
	if f.Logical {
		w |= flagLogical
	}
	return w
}

// Matrix is a miMATRIX element. Data is one of *Numeric, *Sparse, *Cell,
// *Struct or *Object, selected by Flags.Class.
type Matrix struct {
	base
	Flags ArrayFlags
	Dims  []int32
	Name  string
	Data  MatrixData
}

// MatrixData is the class-specific payload of a Matrix.
type MatrixData interface {
	matrixData()
}

// Numeric holds dense numeric and char arrays in column-major order.
// Imag is nil unless the matrix is complex.
type Numeric struct {
	Real *Array
	Imag *Array
}

// Sparse holds a compressed-column sparse matrix.
type Sparse struct {
	RowIndex []int32
	ColIndex []int32
	Real     *Array
	Imag     *Array
}

// Cell holds one nested matrix per cell, in column-major order.
type Cell struct {
	Cells []*Matrix
}

// Struct holds the field-name table and, for every struct instance in
// column-major order, one nested matrix per field in field-name order.
type Struct struct {
	FieldNameLength int32
	FieldNames      []string
	Fields          []*Matrix
}

// Object is a struct carrying the name of its class.
type Object struct {
	ClassName string
	Struct
}

func (*Numeric) matrixData() {}
func (*Sparse) matrixData()  {}
func (*Cell) matrixData()    {}
func (*Struct) matrixData()  {}

// Class returns the matrix class.
func (m *Matrix) Class() MatrixClass { return m.Flags.Class }

// NumElements returns the product of the dimensions.
func (m *Matrix) NumElements() int {
	n, err := numel(m.Dims)
	if err != nil {
		return 0
	}
	return int(n)
}

// Chars returns the content of a char array. Only 8-bit payloads (miUTF8,
// miINT8, miUINT8) are supported. Payloads of 16- or 32-bit code units,
// including the miUINT16 layout MATLAB usually writes, report
// ErrUnsupportedText even when every unit is ASCII; read them through the
// Real array instead.
func (m *Matrix) Chars() (string, error) {
	num, ok := m.Data.(*Numeric)
	if !ok || m.Flags.Class != ClassChar {
		return "", fmt.Errorf("%w: %v matrix is not a char array", ErrUnexpectedElementKind, m.Flags.Class)
	}
	if num.Real == nil || num.Real.Len() == 0 {
		return "", nil
	}
	b, ok := num.Real.Values.([]uint8)
	if !ok {
		return "", fmt.Errorf("%w: char data stored as %v", ErrUnsupportedText, num.Real.tag.Type)
	}
	return string(b), nil
}

// numel multiplies dims, rejecting negative extents and overflow.
func numel(dims []int32) (int64, error) {
	n := int64(1)
	for _, d := range dims {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension %d", ErrMalformedArray, d)
		}
		if d == 0 {
			n = 0
			continue
		}
		if n > math.MaxInt64/int64(d) {
			return 0, fmt.Errorf("%w: dimensions %v overflow", ErrMalformedArray, dims)
		}
		n *= int64(d)
	}
	return n, nil
}

// parseMatrix assembles a matrix from the payload p of a miMATRIX element.
// The prefix is always flags, dimensions and name; the rest depends on the
// class.
func (d *decoder) parseMatrix(t Tag, p []byte, depth int) (*Matrix, error) {
	m := &Matrix{base: base{tag: t}}
	if len(p) == 0 {
		// Writers emit a bare tag for empty cells.
		m.Flags = ArrayFlags{Class: ClassDouble}
		m.Dims = []int32{0, 0}
		m.Data = &Numeric{Real: emptyArray(TypeDouble)}
		return m, nil
	}

	c := &cursor{b: p}
	flags, err := d.nextFlags(c)
	if err != nil {
		return nil, err
	}
	m.Flags = flags
	if m.Dims, err = d.nextInt32s(c); err != nil {
		return nil, fmt.Errorf("dimensions: %w", err)
	}
	if err := validateDims(m.Dims); err != nil {
		return nil, err
	}
	n, err := numel(m.Dims)
	if err != nil {
		return nil, err
	}
	if m.Name, err = d.nextName(c); err != nil {
		return nil, fmt.Errorf("array name: %w", err)
	}

	switch class := flags.Class; {
	case class.Numeric():
		m.Data, err = d.parseNumeric(c, flags, n)
	case class == ClassSparse:
		m.Data, err = d.parseSparse(c, flags, m.Dims)
	case class == ClassCell:
		m.Data, err = d.parseCell(c, n, depth)
	case class == ClassStruct:
		m.Data, err = d.parseStruct(c, n, depth)
	case class == ClassObject:
		m.Data, err = d.parseObject(c, n, depth)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMatrixClass, uint8(class))
	}
	if err != nil {
		return nil, fmt.Errorf("%v %q: %w", flags.Class, m.Name, err)
	}
	if c.remaining() >= tagSize {
		return nil, fmt.Errorf("%w: %v %q has %d bytes past its payload", ErrMalformedArray, flags.Class, m.Name, c.remaining())
	}
	return m, nil
}

func (d *decoder) nextFlags(c *cursor) (ArrayFlags, error) {
	t, p, err := d.next(c)
	if err != nil {
		return ArrayFlags{}, fmt.Errorf("array flags: %w", err)
	}
	if (t.Type != TypeUint32 && t.Type != TypeInt32) || t.Size != arrayFlagsSize-tagSize {
		return ArrayFlags{}, fmt.Errorf("%w: array flags stored as %d bytes of %v", ErrMalformedArray, t.Size, t.Type)
	}
	return parseArrayFlags(d.order.Uint32(p[0:4]), d.order.Uint32(p[4:8])), nil
}

func (d *decoder) parseNumeric(c *cursor, flags ArrayFlags, n int64) (*Numeric, error) {
	num := &Numeric{}
	var err error
	if num.Real, err = d.nextPart(c, flags.Class, "real part", n); err != nil {
		return nil, err
	}
	if flags.Complex {
		if num.Imag, err = d.nextPart(c, flags.Class, "imaginary part", n); err != nil {
			return nil, err
		}
	}
	return num, nil
}

// nextPart decodes a value array holding n values, allowing it to be absent
// when n is zero. Further counts in alt are also accepted.
func (d *decoder) nextPart(c *cursor, class MatrixClass, what string, n int64, alt ...int64) (*Array, error) {
	if c.remaining() == 0 {
		if n != 0 {
			return nil, fmt.Errorf("%w: missing %s", ErrTruncatedStream, what)
		}
		return emptyArray(class.storageType()), nil
	}
	a, err := d.nextArray(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	// UTF-8 char data is variable width.
	if class == ClassChar && a.tag.Type == TypeUTF8 {
		return a, nil
	}
	if got := int64(a.Len()); got != n && !slices.Contains(alt, got) {
		return nil, fmt.Errorf("%w: %s holds %d values, want %d", ErrMalformedArray, what, got, n)
	}
	return a, nil
}

func (d *decoder) parseSparse(c *cursor, flags ArrayFlags, dims []int32) (*Sparse, error) {
	sp := &Sparse{}
	var err error
	if sp.RowIndex, err = d.nextInt32s(c); err != nil {
		return nil, fmt.Errorf("row indices: %w", err)
	}
	if sp.ColIndex, err = d.nextInt32s(c); err != nil {
		return nil, fmt.Errorf("column indices: %w", err)
	}
	if err := validateSparse(flags, dims, sp); err != nil {
		return nil, err
	}
	nnz := int64(0)
	if len(sp.ColIndex) > 0 {
		nnz = int64(sp.ColIndex[len(sp.ColIndex)-1])
	}
	class := ClassDouble
	if flags.Logical {
		class = ClassUint8
	}
	// Writers store either nnz values or a full nzmax-sized buffer.
	var alt []int64
	if flags.NzMax != 0 {
		alt = append(alt, int64(flags.NzMax))
	}
	if sp.Real, err = d.nextPart(c, class, "real part", nnz, alt...); err != nil {
		return nil, err
	}
	if flags.Complex {
		if sp.Imag, err = d.nextPart(c, class, "imaginary part", nnz, alt...); err != nil {
			return nil, err
		}
	}
	return sp, nil
}

func (d *decoder) parseCell(c *cursor, n int64, depth int) (*Cell, error) {
	if err := d.checkNested(c, n); err != nil {
		return nil, err
	}
	cell := &Cell{Cells: make([]*Matrix, 0, n)}
	for i := int64(0); i < n; i++ {
		m, err := d.nextMatrix(c, depth+1)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cell.Cells = append(cell.Cells, m)
	}
	return cell, nil
}

func (d *decoder) parseStruct(c *cursor, n int64, depth int) (*Struct, error) {
	st := &Struct{}
	lengths, err := d.nextInt32s(c)
	if err != nil {
		return nil, fmt.Errorf("field name length: %w", err)
	}
	if len(lengths) != 1 {
		return nil, fmt.Errorf("%w: %d field name lengths", ErrMalformedArray, len(lengths))
	}
	st.FieldNameLength = lengths[0]
	t, table, err := d.next(c)
	if err != nil {
		return nil, fmt.Errorf("field names: %w", err)
	}
	if t.Type.Width() != 1 {
		return nil, fmt.Errorf("%w: field names stored as %v", ErrUnexpectedElementKind, t.Type)
	}
	if st.FieldNames, err = splitFieldNames(table, st.FieldNameLength); err != nil {
		return nil, err
	}

	total := n * int64(len(st.FieldNames))
	if err := d.checkNested(c, total); err != nil {
		return nil, err
	}
	st.Fields = make([]*Matrix, 0, total)
	for i := int64(0); i < n; i++ {
		for _, name := range st.FieldNames {
			m, err := d.nextMatrix(c, depth+1)
			if err != nil {
				return nil, fmt.Errorf("instance %d field %q: %w", i, name, err)
			}
			st.Fields = append(st.Fields, m)
		}
	}
	return st, nil
}

func (d *decoder) parseObject(c *cursor, n int64, depth int) (*Object, error) {
	className, err := d.nextName(c)
	if err != nil {
		return nil, fmt.Errorf("class name: %w", err)
	}
	st, err := d.parseStruct(c, n, depth)
	if err != nil {
		return nil, err
	}
	return &Object{ClassName: className, Struct: *st}, nil
}

// checkNested rejects a count of nested matrices that cannot fit in the
// bytes left, before anything is allocated for them.
func (d *decoder) checkNested(c *cursor, count int64) error {
	if count > int64(c.remaining()/tagSize) {
		return fmt.Errorf("%w: %d nested matrices in %d bytes", ErrTruncatedStream, count, c.remaining())
	}
	return nil
}
