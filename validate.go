package matfile

import (
	"bytes"
	"fmt"
)

func validateDims(dims []int32) error {
	if len(dims) == 0 {
		return fmt.Errorf("%w: matrix has no dimensions", ErrMalformedArray)
	}
	for i, d := range dims {
		if d < 0 {
			return fmt.Errorf("%w: dimension %d is %d", ErrMalformedArray, i, d)
		}
	}
	return nil
}

// validateSparse checks the compressed-column index arrays against the
// declared shape: one column pointer per column plus one, non-decreasing,
// and never past the row indices.
func validateSparse(flags ArrayFlags, dims []int32, sp *Sparse) error {
	if len(dims) != 2 {
		return fmt.Errorf("%w: sparse matrix with %d dimensions", ErrMalformedArray, len(dims))
	}
	if want := int(dims[1]) + 1; len(sp.ColIndex) != want {
		return fmt.Errorf("%w: %d column indices for %d columns", ErrMalformedArray, len(sp.ColIndex), dims[1])
	}
	prev := int32(0)
	for i, jc := range sp.ColIndex {
		if jc < prev {
			return fmt.Errorf("%w: column index %d decreases", ErrMalformedArray, i)
		}
		prev = jc
	}
	if flags.NzMax != 0 && uint64(len(sp.RowIndex)) > uint64(flags.NzMax) {
		return fmt.Errorf("%w: %d row indices exceed nzmax %d", ErrMalformedArray, len(sp.RowIndex), flags.NzMax)
	}
	if int(prev) > len(sp.RowIndex) {
		return fmt.Errorf("%w: %d non-zeros but %d row indices", ErrMalformedArray, prev, len(sp.RowIndex))
	}
	if flags.NzMax != 0 && uint64(prev) > uint64(flags.NzMax) {
		return fmt.Errorf("%w: %d non-zeros exceed nzmax %d", ErrMalformedArray, prev, flags.NzMax)
	}
	for i, ir := range sp.RowIndex[:prev] {
		if ir < 0 || ir >= dims[0] {
			return fmt.Errorf("%w: row index %d is %d for %d rows", ErrMalformedArray, i, ir, dims[0])
		}
	}
	return nil
}

// splitFieldNames cuts the fixed-width field-name table into names, each
// ending at its first NUL.
func splitFieldNames(table []byte, width int32) ([]string, error) {
	if len(table) == 0 {
		return nil, nil
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: field name length %d", ErrMalformedArray, width)
	}
	if len(table)%int(width) != 0 {
		return nil, fmt.Errorf("%w: %d-byte field name table for %d-byte names", ErrMalformedArray, len(table), width)
	}
	names := make([]string, 0, len(table)/int(width))
	seen := make(map[string]struct{}, cap(names))
	for off := 0; off < len(table); off += int(width) {
		field := table[off : off+int(width)]
		if i := bytes.IndexByte(field, 0); i >= 0 {
			field = field[:i]
		}
		name := string(field)
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: duplicate field name %q", ErrMalformedArray, name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
