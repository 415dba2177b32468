package matfile

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/logicossoftware/go-matfile/internal/fixture"
)

func TestParseTag_SmallElement(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		b := make([]byte, 8)
		order.PutUint32(b[0:4], 4<<16|6)
		order.PutUint32(b[4:8], 0xDEADBEEF)

		tag, err := parseTag(b, order)
		if err != nil {
			t.Fatalf("%v: parseTag: %v", order, err)
		}
		want := Tag{Type: TypeUint32, Size: 4, Small: true}
		if tag != want {
			t.Fatalf("%v: got %+v, want %+v", order, tag, want)
		}
		if tag.TotalSize() != 8 {
			t.Fatalf("%v: total size %d, want 8", order, tag.TotalSize())
		}
		a, err := decodeArray(tag, b[tag.payloadOffset():], order)
		if err != nil {
			t.Fatal(err)
		}
		got, err := ValuesOf[uint32](a)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0] != 0xDEADBEEF {
			t.Fatalf("%v: values %x", order, got)
		}
	}
}

func TestParseTag_Regular(t *testing.T) {
	b := fixture.New(binary.LittleEndian).Element(fixture.Double, make([]byte, 24))
	tag, err := parseTag(b, binary.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if tag != (Tag{Type: TypeDouble, Size: 24}) {
		t.Fatalf("unexpected tag %+v", tag)
	}
}

func TestParseTag_Invalid(t *testing.T) {
	cases := []struct {
		name string
		word uint32
		size uint32
		want error
	}{
		{"zero type", 0, 8, ErrInvalidTag},
		{"reserved 8", 8, 8, ErrInvalidTag},
		{"reserved 11", 11, 8, ErrInvalidTag},
		{"unknown", 99, 8, ErrInvalidTag},
		{"small too long", 5<<16 | 2, 0, ErrInvalidTag},
		{"small unknown type", 2<<16 | 10, 0, ErrInvalidTag},
		{"small matrix", 4<<16 | 14, 0, ErrInvalidTag},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := make([]byte, 8)
			binary.LittleEndian.PutUint32(b[0:4], tc.word)
			binary.LittleEndian.PutUint32(b[4:8], tc.size)
			if _, err := parseTag(b, binary.LittleEndian); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := parseTag([]byte{1, 0, 0}, binary.LittleEndian); !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
}

func TestTagTotalSize(t *testing.T) {
	cases := []struct {
		tag  Tag
		want int64
	}{
		{Tag{Type: TypeInt8, Size: 0}, 8},
		{Tag{Type: TypeInt8, Size: 1}, 16},
		{Tag{Type: TypeInt8, Size: 8}, 16},
		{Tag{Type: TypeInt8, Size: 9}, 24},
		{Tag{Type: TypeDouble, Size: 24}, 32},
		{Tag{Type: TypeInt8, Size: 3, Small: true}, 8},
		{Tag{Type: TypeCompressed, Size: 13}, 24},
	}
	for _, tc := range cases {
		if got := tc.tag.TotalSize(); got != tc.want {
			t.Fatalf("%+v: total size %d, want %d", tc.tag, got, tc.want)
		}
	}
}

func TestParseHeader_EndianIndicator(t *testing.T) {
	b := fixture.New(binary.BigEndian)
	h, order, err := parseHeader(b.HeaderWith("MATLAB 5.0 MAT-file", "MI", 0x0100), binary.BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if h.EndianSwap || !isBigEndian(order) {
		t.Fatalf("MI: swap=%v big=%v", h.EndianSwap, isBigEndian(order))
	}
	if h.Text != "MATLAB 5.0 MAT-file" || h.Version != 0x0100 || h.EndianIndicator != "MI" {
		t.Fatalf("unexpected header %+v", h)
	}

	l := fixture.New(binary.LittleEndian)
	h, order, err = parseHeader(l.HeaderWith("x", "IM", 0x0100), binary.BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	if !h.EndianSwap || isBigEndian(order) {
		t.Fatalf("IM: swap=%v big=%v", h.EndianSwap, isBigEndian(order))
	}
	if h.Version != 0x0100 {
		t.Fatalf("version %#x read with swapped order", h.Version)
	}

	// Native little-endian: "IM" still swaps, now to big-endian.
	_, order, err = parseHeader(b.HeaderWith("x", "IM", 0x0100), binary.LittleEndian)
	if err != nil {
		t.Fatal(err)
	}
	if !isBigEndian(order) {
		t.Fatal("expected big-endian after swapping a little-endian native order")
	}
}

func TestParseHeader_Invalid(t *testing.T) {
	b := fixture.New(binary.BigEndian)
	if _, _, err := parseHeader(b.HeaderWith("x", "XX", 1), binary.BigEndian); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
	if _, _, err := parseHeader(make([]byte, 64), binary.BigEndian); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestSwapped(t *testing.T) {
	if !isBigEndian(swapped(binary.LittleEndian)) || isBigEndian(swapped(binary.BigEndian)) {
		t.Fatal("swapped must flip the order")
	}
	if isBigEndian(swapped(swapped(binary.LittleEndian))) {
		t.Fatal("swapping twice must restore the order")
	}
}

func TestDataTypeStrings(t *testing.T) {
	if TypeCompressed.String() != "miCOMPRESSED" || DataType(42).String() != "DataType(42)" {
		t.Fatal("unexpected data type names")
	}
	if ClassSparse.String() != "sparse" || MatrixClass(99).String() != "MatrixClass(99)" {
		t.Fatal("unexpected class names")
	}
	if !ClassChar.Numeric() || ClassCell.Numeric() || !ClassUint64.Numeric() {
		t.Fatal("unexpected Numeric classification")
	}
}
