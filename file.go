package matfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// File is a level-5 MAT-file being decoded from a byte stream.
type File struct {
	Header   Header
	Elements []Element
	// Errors lists the top-level elements skipped under WithContinueOnError.
	Errors []*ElementError

	r       io.ReadSeeker
	closer  func() error
	cfg     readConfig
	dec     *decoder
	offsets []int64
}

// NewFile returns a File reading from r. Nothing is read until ParseHeader.
func NewFile(r io.ReadSeeker, opts ...ReadOption) *File {
	cfg := defaultReadConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return &File{r: r, cfg: cfg}
}

// Decode reads the header and every top-level element from r.
//
// On error the returned File holds the elements decoded before the failing
// one, and the error is an *ElementError for failures past the header.
func Decode(r io.ReadSeeker, opts ...ReadOption) (*File, error) {
	f := NewFile(r, opts...)
	if err := f.ParseHeader(); err != nil {
		return nil, err
	}
	if err := f.ParseDataElements(); err != nil {
		return f, err
	}
	return f, nil
}

// Open maps the file at path read-only and decodes it. If mmap is
// unavailable the file is read into memory. The returned File must be
// closed to release the mapping.
//
// As with Decode, a failure past the header returns the File holding the
// elements decoded before it along with the error; that File must still be
// closed.
func Open(path string, opts ...ReadOption) (*File, error) {
	osf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = osf.Close() }()

	stat, err := osf.Stat()
	if err != nil {
		return nil, err
	}
	size := stat.Size()
	if size < HeaderSize {
		return nil, fmt.Errorf("%w: file is %d bytes", ErrInvalidHeader, size)
	}
	if size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: file of %d bytes cannot be mapped", ErrLimitExceeded, size)
	}

	data, unmap, err := mapFile(osf, int(size))
	if err != nil {
		data = make([]byte, size)
		if _, err := io.ReadFull(osf, data); err != nil {
			return nil, err
		}
		unmap = nil
	}

	f := NewFile(bytes.NewReader(data), opts...)
	f.closer = unmap
	if err := f.ParseHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.ParseDataElements(); err != nil {
		return f, err
	}
	return f, nil
}

// Close releases the underlying mapping, if any. Elements decoded from the
// file stay valid: every payload is copied out of the mapping.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer()
	f.closer = nil
	return err
}

// ParseHeader reads the fixed 128-byte header and derives the byte order of
// the rest of the file from its endian indicator.
func (f *File) ParseHeader() error {
	if _, err := f.r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(f.r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
		}
		return err
	}
	h, order, err := parseHeader(buf[:], f.cfg.native)
	if err != nil {
		return err
	}
	f.Header = h
	f.dec = &decoder{order: order, limits: f.cfg.limits, log: f.cfg.log}
	f.cfg.log.Debug("parsed header", "text", h.Text, "version", h.Version, "indicator", h.EndianIndicator, "swap", h.EndianSwap)
	return nil
}

// ParseDataElements decodes the top-level elements from byte 128 to the end
// of the stream into Elements. The header is parsed first if needed.
func (f *File) ParseDataElements() error {
	if f.dec == nil {
		if err := f.ParseHeader(); err != nil {
			return err
		}
	}
	size, err := f.r.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	f.Elements, f.Errors, f.offsets = nil, nil, nil
	off := int64(HeaderSize)
	for index := 0; off < size; index++ {
		e, next, err := f.readElement(off, size)
		if err != nil {
			ee := &ElementError{Index: index, Offset: off, Err: err}
			if next < 0 || !f.cfg.continueOnError {
				return ee
			}
			f.cfg.log.Warn("skipping element", "index", index, "offset", off, "err", err)
			f.Errors = append(f.Errors, ee)
			off = next
			continue
		}
		f.cfg.log.Debug("decoded element", "index", index, "offset", off, "type", e.Tag().Type, "size", next-off)
		f.Elements = append(f.Elements, e)
		f.offsets = append(f.offsets, off)
		off = next
	}
	return nil
}

// readElement reads and decodes the element at off. next is the offset of
// the following element, or -1 when it cannot be determined.
func (f *File) readElement(off, size int64) (Element, int64, error) {
	if size-off < tagSize {
		return nil, -1, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedStream, size-off)
	}
	if _, err := f.r.Seek(off, io.SeekStart); err != nil {
		return nil, -1, err
	}
	var tb [tagSize]byte
	if _, err := io.ReadFull(f.r, tb[:]); err != nil {
		return nil, -1, fmt.Errorf("%w: %w", ErrTruncatedStream, err)
	}
	t, err := parseTag(tb[:], f.dec.order)
	if err != nil {
		return nil, -1, err
	}

	advance := t.TotalSize()
	if f.cfg.unpaddedCompressed && t.Type == TypeCompressed {
		advance = tagSize + int64(t.Size)
	}
	end := off + int64(t.payloadOffset()) + int64(t.Size)
	if t.Small {
		end = off + tagSize
	}
	if end > size {
		return nil, -1, fmt.Errorf("%w: %v of %d bytes at offset %d, stream ends at %d", ErrTruncatedStream, t.Type, t.Size, off, size)
	}
	// Padding after the last element may be missing.
	next := min(off+advance, size)
	if !t.Small && t.Size > f.cfg.limits.MaxElementSize {
		return nil, next, fmt.Errorf("%w: %v of %d bytes", ErrLimitExceeded, t.Type, t.Size)
	}

	buf := make([]byte, end-off)
	copy(buf, tb[:])
	if _, err := io.ReadFull(f.r, buf[tagSize:]); err != nil {
		return nil, -1, fmt.Errorf("%w: %w", ErrTruncatedStream, err)
	}
	e, _, err := f.dec.parseElement(buf, 0, 0)
	if err != nil {
		return nil, next, err
	}
	return e, next, nil
}
