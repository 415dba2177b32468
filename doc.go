// Package matfile decodes MATLAB level-5 MAT-files.
//
// A level-5 MAT-file is a 128-byte descriptive header followed by a flat
// sequence of tagged data elements. Each element carries a data-type code and
// a byte count, and is padded to an 8-byte boundary. Elements are primitive
// numeric arrays, text, matrices (dense, sparse, cell, struct and object
// arrays, which nest further matrices), or zlib-compressed wrappers around
// another element.
//
// # File Format Overview
//
// The header holds up to 116 bytes of descriptive text, an 8-byte subsystem
// offset, a 2-byte version and a 2-byte endian indicator. The indicator reads
// "MI" when the file was written in the reader's native order and "IM" when
// every multi-byte value must be swapped. The native order defaults to
// big-endian, which decodes files from any writer; see [WithNativeOrder].
//
// A tag whose upper 16 bits are non-zero is a small element: the size and
// type share the first four bytes and up to four payload bytes follow in the
// same eight.
//
// # Basic Usage
//
// To decode a file in memory:
//
//	f, err := matfile.Decode(bytes.NewReader(data))
//	if err != nil {
//		return err
//	}
//	for _, e := range f.Elements {
//		e, err := matfile.Resolve(e) // inflate compressed elements
//		if err != nil {
//			return err
//		}
//		if m, ok := e.(*matfile.Matrix); ok {
//			fmt.Println(m.Name, m.Class(), m.Dims)
//		}
//	}
//
// To decode a file on disk through a read-only memory mapping:
//
//	f, err := matfile.Open("data.mat")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
// [File.ParseHeader] and [File.ParseDataElements] expose the two phases
// separately for callers that only need the header.
//
// # Security Considerations
//
// Element sizes, inflated sizes and nesting depth are bounded by [Limits].
// Counts read from the file are checked against the bytes actually present
// before anything is allocated for them.
package matfile
