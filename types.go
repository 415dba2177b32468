package matfile

import "fmt"

const (
	// HeaderSize is the size of the fixed descriptive header preceding the
	// first data element.
	HeaderSize = 128

	headerTextSize = 116
	tagSize        = 8
	smallTagSize   = 4
	arrayFlagsSize = 16
)

// DataType is the data-type code carried by every element tag.
type DataType uint32

const (
	TypeInvalid    DataType = 0
	TypeInt8       DataType = 1
	TypeUint8      DataType = 2
	TypeInt16      DataType = 3
	TypeUint16     DataType = 4
	TypeInt32      DataType = 5
	TypeUint32     DataType = 6
	TypeSingle     DataType = 7
	TypeDouble     DataType = 9
	TypeInt64      DataType = 12
	TypeUint64     DataType = 13
	TypeMatrix     DataType = 14
	TypeCompressed DataType = 15
	TypeUTF8       DataType = 16
	TypeUTF16      DataType = 17
	TypeUTF32      DataType = 18
)

// Valid reports whether t is a data-type code defined by the format.
// Codes 8, 10 and 11 are reserved.
func (t DataType) Valid() bool {
	switch t {
	case TypeInt8, TypeUint8, TypeInt16, TypeUint16, TypeInt32, TypeUint32,
		TypeSingle, TypeDouble, TypeInt64, TypeUint64,
		TypeMatrix, TypeCompressed, TypeUTF8, TypeUTF16, TypeUTF32:
		return true
	}
	return false
}

// Width returns the size in bytes of one value of t, or 0 for types that do
// not hold a flat sequence of values.
func (t DataType) Width() int {
	switch t {
	case TypeInt8, TypeUint8, TypeUTF8:
		return 1
	case TypeInt16, TypeUint16, TypeUTF16:
		return 2
	case TypeInt32, TypeUint32, TypeSingle, TypeUTF32:
		return 4
	case TypeInt64, TypeUint64, TypeDouble:
		return 8
	}
	return 0
}

func (t DataType) isText() bool {
	return t == TypeUTF8 || t == TypeUTF16 || t == TypeUTF32
}

func (t DataType) String() string {
	switch t {
	case TypeInt8:
		return "miINT8"
	case TypeUint8:
		return "miUINT8"
	case TypeInt16:
		return "miINT16"
	case TypeUint16:
		return "miUINT16"
	case TypeInt32:
		return "miINT32"
	case TypeUint32:
		return "miUINT32"
	case TypeSingle:
		return "miSINGLE"
	case TypeDouble:
		return "miDOUBLE"
	case TypeInt64:
		return "miINT64"
	case TypeUint64:
		return "miUINT64"
	case TypeMatrix:
		return "miMATRIX"
	case TypeCompressed:
		return "miCOMPRESSED"
	case TypeUTF8:
		return "miUTF8"
	case TypeUTF16:
		return "miUTF16"
	case TypeUTF32:
		return "miUTF32"
	}
	return fmt.Sprintf("DataType(%d)", uint32(t))
}

// MatrixClass selects the payload layout of a matrix element.
type MatrixClass uint8

const (
	ClassInvalid MatrixClass = 0
	ClassCell    MatrixClass = 1
	ClassStruct  MatrixClass = 2
	ClassObject  MatrixClass = 3
	ClassChar    MatrixClass = 4
	ClassSparse  MatrixClass = 5
	ClassDouble  MatrixClass = 6
	ClassSingle  MatrixClass = 7
	ClassInt8    MatrixClass = 8
	ClassUint8   MatrixClass = 9
	ClassInt16   MatrixClass = 10
	ClassUint16  MatrixClass = 11
	ClassInt32   MatrixClass = 12
	ClassUint32  MatrixClass = 13
	ClassInt64   MatrixClass = 14
	ClassUint64  MatrixClass = 15
)

// Numeric reports whether c stores a dense real/imaginary payload.
// Char arrays share the numeric layout.
func (c MatrixClass) Numeric() bool {
	return c == ClassChar || (c >= ClassDouble && c <= ClassUint64)
}

func (c MatrixClass) String() string {
	switch c {
	case ClassCell:
		return "cell"
	case ClassStruct:
		return "struct"
	case ClassObject:
		return "object"
	case ClassChar:
		return "char"
	case ClassSparse:
		return "sparse"
	case ClassDouble:
		return "double"
	case ClassSingle:
		return "single"
	case ClassInt8:
		return "int8"
	case ClassUint8:
		return "uint8"
	case ClassInt16:
		return "int16"
	case ClassUint16:
		return "uint16"
	case ClassInt32:
		return "int32"
	case ClassUint32:
		return "uint32"
	case ClassInt64:
		return "int64"
	case ClassUint64:
		return "uint64"
	}
	return fmt.Sprintf("MatrixClass(%d)", uint8(c))
}

// storageType is the data type a writer would use for an empty payload of
// class c.
func (c MatrixClass) storageType() DataType {
	switch c {
	case ClassChar:
		return TypeUint16
	case ClassSingle:
		return TypeSingle
	case ClassInt8:
		return TypeInt8
	case ClassUint8:
		return TypeUint8
	case ClassInt16:
		return TypeInt16
	case ClassUint16:
		return TypeUint16
	case ClassInt32:
		return TypeInt32
	case ClassUint32:
		return TypeUint32
	case ClassInt64:
		return TypeInt64
	case ClassUint64:
		return TypeUint64
	}
	return TypeDouble
}
