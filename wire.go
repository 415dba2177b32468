package matfile

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Tag is the header preceding every data element.
//
// A small element packs its size and type into the first four bytes and
// keeps up to four payload bytes in the second half of the same 8 bytes.
type Tag struct {
	Type  DataType
	Size  uint32
	Small bool
}

// padding returns the bytes needed to bring Size up to an 8-byte boundary.
func (t Tag) padding() uint32 {
	if t.Small || t.Size%8 == 0 {
		return 0
	}
	return 8 - t.Size%8
}

// TotalSize is the on-stream size of the element: the tag, the payload and
// the padding after it.
func (t Tag) TotalSize() int64 {
	if t.Small {
		return tagSize
	}
	return tagSize + int64(t.Size) + int64(t.padding())
}

// payloadOffset is the offset of the payload relative to the tag start.
func (t Tag) payloadOffset() int {
	if t.Small {
		return smallTagSize
	}
	return tagSize
}

// parseTag reads a tag from the start of b.
func parseTag(b []byte, order binary.ByteOrder) (Tag, error) {
	if len(b) < tagSize {
		return Tag{}, fmt.Errorf("%w: %d bytes left for an 8-byte tag", ErrTruncatedStream, len(b))
	}
	word := order.Uint32(b[0:4])
	var t Tag
	if upper := word >> 16; upper != 0 {
		t = Tag{Type: DataType(word & 0xFFFF), Size: upper, Small: true}
		if t.Size > 4 {
			return Tag{}, fmt.Errorf("%w: small element of %d bytes", ErrInvalidTag, t.Size)
		}
		if t.Type == TypeMatrix || t.Type == TypeCompressed {
			return Tag{}, fmt.Errorf("%w: small %v element", ErrInvalidTag, t.Type)
		}
	} else {
		t = Tag{Type: DataType(word), Size: order.Uint32(b[4:8])}
	}
	if !t.Type.Valid() {
		return Tag{}, fmt.Errorf("%w: data type %d", ErrInvalidTag, uint32(t.Type))
	}
	return t, nil
}

// Header is the fixed 128-byte block at the start of every level-5 file.
type Header struct {
	Text            string
	SubsysOffset    uint64
	Version         uint16
	EndianIndicator string
	EndianSwap      bool
}

// parseHeader decodes the fixed header. native is the byte order in which
// the indicator reads "MI"; the returned order applies to the rest of the
// file.
func parseHeader(b []byte, native binary.ByteOrder) (Header, binary.ByteOrder, error) {
	if len(b) < HeaderSize {
		return Header{}, nil, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(b))
	}
	var h Header
	h.EndianIndicator = string(b[126:128])
	switch h.EndianIndicator {
	case "MI":
	case "IM":
		h.EndianSwap = true
	default:
		return Header{}, nil, fmt.Errorf("%w: endian indicator %q", ErrInvalidHeader, h.EndianIndicator)
	}
	order := native
	if h.EndianSwap {
		order = swapped(native)
	}
	h.Text = strings.TrimRight(string(b[:headerTextSize]), " \x00")
	h.SubsysOffset = order.Uint64(b[116:124])
	h.Version = order.Uint16(b[124:126])
	return h, order, nil
}

// swapped returns the byte order opposite to o.
func swapped(o binary.ByteOrder) binary.ByteOrder {
	if isBigEndian(o) {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func isBigEndian(o binary.ByteOrder) bool {
	var b [2]byte
	o.PutUint16(b[:], 1)
	return b[1] == 1
}
