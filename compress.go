package matfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Function variables for testing injection.
var (
	newZlibReader = func(r io.Reader) (io.ReadCloser, error) { return zlib.NewReader(r) }
	readAll       = io.ReadAll
)

// Compressed is a miCOMPRESSED element. Data holds the inflated bytes; the
// element they encode is decoded on the first call to Reparse.
type Compressed struct {
	base
	Data []byte

	dec    *decoder
	depth  int
	parsed Element
}

// Reparse decodes the element stored in the inflated buffer, starting at its
// first byte. The result is cached.
func (c *Compressed) Reparse() (Element, error) {
	if c.parsed != nil {
		return c.parsed, nil
	}
	if c.dec == nil {
		return nil, fmt.Errorf("%w: compressed element has no decode context", ErrUnexpectedElementKind)
	}
	e, _, err := c.dec.parseElement(c.Data, 0, c.depth+1)
	if err != nil {
		return nil, fmt.Errorf("reparse: %w", err)
	}
	c.dec.log.Debug("reparsed compressed element", "type", e.Tag().Type, "inflated", len(c.Data))
	c.parsed = e
	return e, nil
}

func (d *decoder) parseCompressed(t Tag, p []byte, depth int) (*Compressed, error) {
	out, err := inflate(p, d.limits.MaxDecompressedSize)
	if err != nil {
		return nil, err
	}
	return &Compressed{base: base{tag: t}, Data: out, dec: d, depth: depth}, nil
}

// inflate decompresses a zlib stream, growing the output until the stream
// ends. It refuses to produce more than maxOut bytes.
func inflate(p []byte, maxOut uint64) ([]byte, error) {
	zr, err := newZlibReader(bytes.NewReader(p))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	defer zr.Close()
	out, err := readAll(io.LimitReader(zr, int64(maxOut)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	if uint64(len(out)) > maxOut {
		return nil, fmt.Errorf("%w: inflated data exceeds %d bytes", ErrLimitExceeded, maxOut)
	}
	return out, nil
}
