package matfile

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHeader         = errors.New("matfile: invalid header")
	ErrInvalidTag            = errors.New("matfile: invalid tag")
	ErrInvalidMatrixClass    = errors.New("matfile: invalid matrix class")
	ErrMalformedArray        = errors.New("matfile: malformed array")
	ErrTruncatedStream       = errors.New("matfile: truncated stream")
	ErrDecompression         = errors.New("matfile: decompression failed")
	ErrUnexpectedElementKind = errors.New("matfile: unexpected element kind")
	ErrUnsupportedText       = errors.New("matfile: unsupported text encoding")
	ErrLimitExceeded         = errors.New("matfile: limit exceeded")
)

// ElementError reports a failure to decode the top-level element at Index,
// which starts at byte Offset of the file.
type ElementError struct {
	Index  int
	Offset int64
	Err    error
}

func (e *ElementError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("element %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

