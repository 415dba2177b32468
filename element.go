package matfile

import "fmt"

// Element is a decoded data element. The concrete type is one of *Array,
// *Text, *Matrix or *Compressed.
type Element interface {
	Tag() Tag
	element()
}

type base struct {
	tag Tag
}

// Tag returns the tag the element was decoded from.
func (b base) Tag() Tag { return b.tag }

func (base) element() {}

// Text is a top-level miUTF8, miUTF16 or miUTF32 element.
//
// Only the raw bytes are kept: wide encodings are not decoded, so String is
// exact for UTF-8 (and ASCII) and a byte-for-byte reinterpretation otherwise.
type Text struct {
	base
	Raw []byte
}

func (t *Text) String() string { return string(t.Raw) }

// Decoded returns the text when its encoding is supported.
func (t *Text) Decoded() (string, error) {
	if t.tag.Type != TypeUTF8 {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedText, t.tag.Type)
	}
	return string(t.Raw), nil
}

// Resolve returns the element a compressed element expands to, following
// nested compressed elements. Other elements are returned unchanged.
func Resolve(e Element) (Element, error) {
	for {
		c, ok := e.(*Compressed)
		if !ok {
			return e, nil
		}
		inner, err := c.Reparse()
		if err != nil {
			return nil, err
		}
		e = inner
	}
}
