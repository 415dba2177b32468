package matfile

// Limits bounds the memory a decode may allocate. Zero fields take the
// defaults.
type Limits struct {
	MaxElementSize      uint32 // payload bytes of one top-level element as stored in the file
	MaxDecompressedSize uint64 // bytes produced by inflating one compressed element
	MaxDepth            int    // nesting of matrices and compressed elements
}

func defaultLimits() Limits {
	return Limits{
		MaxElementSize:      2 << 30, // 2 GiB
		MaxDecompressedSize: 4 << 30, // 4 GiB
		MaxDepth:            64,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxElementSize == 0 {
		l.MaxElementSize = d.MaxElementSize
	}
	if l.MaxDecompressedSize == 0 {
		l.MaxDecompressedSize = d.MaxDecompressedSize
	}
	if l.MaxDepth == 0 {
		l.MaxDepth = d.MaxDepth
	}
	return l
}
