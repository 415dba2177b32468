// Package dumpio wraps dump output in one of the supported compression
// formats and reads it back.
package dumpio

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var ErrUnknownCompression = errors.New("dumpio: unknown compression")

type Compression uint8

const (
	None Compression = iota
	ZIP
	ZSTD
	LZ4
	Brotli
)

// EntryName is the single entry written to ZIP output.
const EntryName = "dump.json"

// Function variables for testing injection.
var (
	newZstdWriter = func(w io.Writer) (*zstd.Encoder, error) { return zstd.NewWriter(w) }
	newZstdReader = func(r io.Reader) (*zstd.Decoder, error) { return zstd.NewReader(r) }
	zipCreate     = func(zw *zip.Writer, name string) (io.Writer, error) { return zw.Create(name) }
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case ZIP:
		return "zip"
	case ZSTD:
		return "zstd"
	case LZ4:
		return "lz4"
	case Brotli:
		return "br"
	}
	return "unknown"
}

// Ext is the file extension conventionally appended for c.
func (c Compression) Ext() string {
	switch c {
	case ZIP:
		return ".zip"
	case ZSTD:
		return ".zst"
	case LZ4:
		return ".lz4"
	case Brotli:
		return ".br"
	}
	return ""
}

// Parse maps a compression name to a Compression.
func Parse(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "zip":
		return ZIP, nil
	case "zstd", "zst":
		return ZSTD, nil
	case "lz4":
		return LZ4, nil
	case "br", "brotli":
		return Brotli, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

// NewWriter returns a writer compressing into w. Closing it flushes the
// compressed stream but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopCloser{w}, nil
	case ZIP:
		zw := zip.NewWriter(w)
		entry, err := zipCreate(zw, EntryName)
		if err != nil {
			_ = zw.Close()
			return nil, err
		}
		return &zipEntryWriter{Writer: entry, zw: zw}, nil
	case ZSTD:
		enc, err := newZstdWriter(w)
		if err != nil {
			return nil, err
		}
		return enc, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case Brotli:
		return brotli.NewWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
}

// NewReader returns a reader decompressing r. size is only used for ZIP,
// whose central directory sits at the end of the stream.
func NewReader(r io.ReaderAt, size int64, c Compression) (io.ReadCloser, error) {
	sr := io.NewSectionReader(r, 0, size)
	switch c {
	case None:
		return io.NopCloser(sr), nil
	case ZIP:
		zr, err := zip.NewReader(r, size)
		if err != nil {
			return nil, err
		}
		if len(zr.File) != 1 || zr.File[0].Name != EntryName {
			return nil, fmt.Errorf("dumpio: zip must contain exactly one %s entry", EntryName)
		}
		return zr.File[0].Open()
	case ZSTD:
		dec, err := newZstdReader(sr)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(sr)), nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(sr)), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type zipEntryWriter struct {
	io.Writer
	zw *zip.Writer
}

func (z *zipEntryWriter) Close() error { return z.zw.Close() }
