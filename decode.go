package matfile

import (
	"encoding/binary"
	"fmt"

	"github.com/logicossoftware/go-matfile/internal/logger"
)

// decoder is the state shared by every decode step of one file: the byte
// order derived from the header, the limits and the logger. It is not
// modified once the header has been parsed.
type decoder struct {
	order  binary.ByteOrder
	limits Limits
	log    logger.Logger
}

// parseElement decodes the element whose tag starts at off in b and returns
// it with the offset just past its total size. depth counts the enclosing
// matrix and compressed elements.
func (d *decoder) parseElement(b []byte, off, depth int) (Element, int, error) {
	if depth > d.limits.MaxDepth {
		return nil, off, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, d.limits.MaxDepth)
	}
	if off < 0 || off > len(b) {
		return nil, off, fmt.Errorf("%w: offset %d outside %d-byte buffer", ErrTruncatedStream, off, len(b))
	}
	t, err := parseTag(b[off:], d.order)
	if err != nil {
		return nil, off, fmt.Errorf("%w at offset %d", err, off)
	}
	start := off + t.payloadOffset()
	end := start + int(t.Size)
	if end > len(b) || end < start {
		return nil, off, fmt.Errorf("%w: %v at offset %d needs %d bytes, have %d", ErrTruncatedStream, t.Type, off, t.Size, len(b)-start)
	}
	p := b[start:end]
	// The last element of a buffer may omit its padding.
	next := min(off+int(t.TotalSize()), len(b))

	var e Element
	switch {
	case t.Type == TypeCompressed:
		e, err = d.parseCompressed(t, p, depth)
	case t.Type == TypeMatrix:
		e, err = d.parseMatrix(t, p, depth)
	case t.Type.isText():
		e = &Text{base: base{tag: t}, Raw: append([]byte(nil), p...)}
	default:
		e, err = decodeArray(t, p, d.order)
	}
	if err != nil {
		return nil, off, err
	}
	return e, next, nil
}

// cursor walks the sub-elements of one matrix payload.
type cursor struct {
	b   []byte
	off int
}

func (c *cursor) remaining() int { return len(c.b) - c.off }

// next returns the tag and payload of the sub-element at the cursor and
// moves past it.
func (d *decoder) next(c *cursor) (Tag, []byte, error) {
	t, err := parseTag(c.b[c.off:], d.order)
	if err != nil {
		return Tag{}, nil, err
	}
	start := c.off + t.payloadOffset()
	end := start + int(t.Size)
	if end > len(c.b) || end < start {
		return Tag{}, nil, fmt.Errorf("%w: %v sub-element needs %d bytes, have %d", ErrTruncatedStream, t.Type, t.Size, len(c.b)-start)
	}
	c.off = min(c.off+int(t.TotalSize()), len(c.b))
	return t, c.b[start:end], nil
}

// nextArray decodes the sub-element at the cursor as a primitive array.
func (d *decoder) nextArray(c *cursor) (*Array, error) {
	t, p, err := d.next(c)
	if err != nil {
		return nil, err
	}
	return decodeArray(t, p, d.order)
}

// nextName decodes an 8-bit array sub-element as text.
func (d *decoder) nextName(c *cursor) (string, error) {
	t, p, err := d.next(c)
	if err != nil {
		return "", err
	}
	if t.Type.Width() != 1 {
		return "", fmt.Errorf("%w: name stored as %v", ErrUnexpectedElementKind, t.Type)
	}
	return string(p), nil
}

// nextInt32s decodes an integer sub-element as signed 32-bit values.
func (d *decoder) nextInt32s(c *cursor) ([]int32, error) {
	a, err := d.nextArray(c)
	if err != nil {
		return nil, err
	}
	return int32s(a)
}

// nextMatrix decodes a nested miMATRIX record at the cursor.
func (d *decoder) nextMatrix(c *cursor, depth int) (*Matrix, error) {
	e, next, err := d.parseElement(c.b, c.off, depth)
	if err != nil {
		return nil, err
	}
	m, ok := e.(*Matrix)
	if !ok {
		return nil, fmt.Errorf("%w: %v where a matrix is required", ErrUnexpectedElementKind, e.Tag().Type)
	}
	c.off = next
	return m, nil
}
