// Package view projects a decoded element tree onto plain structs that
// encode cleanly as JSON and print as an indented listing.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/logicossoftware/go-matfile"
)

// Options controls how much of the tree is projected.
type Options struct {
	// MaxValues caps the values copied per array; 0 copies none and a
	// negative value copies all.
	MaxValues int
	// Expand decodes compressed elements and projects their content.
	Expand bool
}

// Node is one element of the projected tree.
type Node struct {
	Kind  string `json:"kind"`
	Type  string `json:"type"`
	Size  uint32 `json:"size"`
	Small bool   `json:"small,omitempty"`

	Name      string   `json:"name,omitempty"`
	Class     string   `json:"class,omitempty"`
	Dims      []int32  `json:"dims,omitempty"`
	Complex   bool     `json:"complex,omitempty"`
	Global    bool     `json:"global,omitempty"`
	Logical   bool     `json:"logical,omitempty"`
	NzMax     uint32   `json:"nzmax,omitempty"`
	ClassName string   `json:"class_name,omitempty"`
	Fields    []string `json:"fields,omitempty"`
	RowIndex  []int32  `json:"row_index,omitempty"`
	ColIndex  []int32  `json:"col_index,omitempty"`

	Count  int    `json:"count,omitempty"`
	Values []any  `json:"values,omitempty"`
	Imag   []any  `json:"imag,omitempty"`
	Text   string `json:"text,omitempty"`

	Inflated int     `json:"inflated,omitempty"`
	Children []*Node `json:"children,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// File is the projection of a whole decoded file.
type File struct {
	Text            string   `json:"text"`
	SubsysOffset    uint64   `json:"subsys_offset"`
	Version         string   `json:"version"`
	EndianIndicator string   `json:"endian_indicator"`
	EndianSwap      bool     `json:"endian_swap"`
	Elements        []*Node  `json:"elements"`
	Errors          []string `json:"errors,omitempty"`
}

// FromFile projects f.
func FromFile(f *matfile.File, opts Options) *File {
	out := &File{
		Text:            f.Header.Text,
		SubsysOffset:    f.Header.SubsysOffset,
		Version:         fmt.Sprintf("0x%04x", f.Header.Version),
		EndianIndicator: f.Header.EndianIndicator,
		EndianSwap:      f.Header.EndianSwap,
		Elements:        make([]*Node, 0, len(f.Elements)),
	}
	for _, e := range f.Elements {
		out.Elements = append(out.Elements, Build(e, opts))
	}
	for _, err := range f.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}

// Build projects e and everything below it.
func Build(e matfile.Element, opts Options) *Node {
	t := e.Tag()
	n := &Node{Type: t.Type.String(), Size: t.Size, Small: t.Small}
	switch v := e.(type) {
	case *matfile.Array:
		n.Kind = "array"
		n.Count = v.Len()
		n.Values = values(v, opts.MaxValues)
	case *matfile.Text:
		n.Kind = "text"
		n.Text = v.String()
	case *matfile.Compressed:
		n.Kind = "compressed"
		n.Inflated = len(v.Data)
		if opts.Expand {
			inner, err := v.Reparse()
			if err != nil {
				n.Error = err.Error()
			} else {
				n.Children = []*Node{Build(inner, opts)}
			}
		}
	case *matfile.Matrix:
		n.Kind = "matrix"
		buildMatrix(n, v, opts)
	}
	return n
}

func buildMatrix(n *Node, m *matfile.Matrix, opts Options) {
	n.Name = m.Name
	n.Class = m.Flags.Class.String()
	n.Dims = m.Dims
	n.Complex = m.Flags.Complex
	n.Global = m.Flags.Global
	n.Logical = m.Flags.Logical
	n.NzMax = m.Flags.NzMax

	switch d := m.Data.(type) {
	case *matfile.Numeric:
		n.Count = d.Real.Len()
		if m.Flags.Class == matfile.ClassChar {
			if s, err := m.Chars(); err == nil {
				n.Text = s
				return
			}
		}
		n.Values = values(d.Real, opts.MaxValues)
		if d.Imag != nil {
			n.Imag = values(d.Imag, opts.MaxValues)
		}
	case *matfile.Sparse:
		n.RowIndex = d.RowIndex
		n.ColIndex = d.ColIndex
		n.Count = d.Real.Len()
		n.Values = values(d.Real, opts.MaxValues)
		if d.Imag != nil {
			n.Imag = values(d.Imag, opts.MaxValues)
		}
	case *matfile.Cell:
		n.Count = len(d.Cells)
		n.Children = children(d.Cells, opts)
	case *matfile.Struct:
		n.Fields = d.FieldNames
		n.Count = len(d.Fields)
		n.Children = children(d.Fields, opts)
	case *matfile.Object:
		n.ClassName = d.ClassName
		n.Fields = d.FieldNames
		n.Count = len(d.Fields)
		n.Children = children(d.Fields, opts)
	}
}

func children(ms []*matfile.Matrix, opts Options) []*Node {
	out := make([]*Node, 0, len(ms))
	for _, m := range ms {
		out = append(out, Build(m, opts))
	}
	return out
}

// values copies up to limit values of a. Non-finite floats become strings
// since JSON has no literal for them.
func values(a *matfile.Array, limit int) []any {
	if a == nil || limit == 0 {
		return nil
	}
	fs := a.Float64s()
	if limit > 0 && len(fs) > limit {
		fs = fs[:limit]
	}
	out := make([]any, len(fs))
	for i, f := range fs {
		switch {
		case math.IsNaN(f), math.IsInf(f, 0):
			out[i] = strconv.FormatFloat(f, 'g', -1, 64)
		default:
			out[i] = f
		}
	}
	return out
}

// Walk calls fn for n and every node below it, depth first.
func Walk(n *Node, fn func(depth int, n *Node)) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(int, *Node)) {
	fn(depth, n)
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Describe renders a one-line summary of n.
func Describe(n *Node) string {
	var b strings.Builder
	switch n.Kind {
	case "matrix":
		name := n.Name
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Fprintf(&b, "%s %s [%s]", name, n.Class, joinDims(n.Dims))
		if n.ClassName != "" {
			fmt.Fprintf(&b, " class=%s", n.ClassName)
		}
		if len(n.Fields) > 0 {
			fmt.Fprintf(&b, " fields=%s", strings.Join(n.Fields, ","))
		}
		if n.Complex {
			b.WriteString(" complex")
		}
		if n.Logical {
			b.WriteString(" logical")
		}
		if n.Global {
			b.WriteString(" global")
		}
		if n.Text != "" {
			fmt.Fprintf(&b, " %q", n.Text)
		}
	case "compressed":
		fmt.Fprintf(&b, "%s %d -> %d bytes", n.Type, n.Size, n.Inflated)
	case "text":
		fmt.Fprintf(&b, "%s %q", n.Type, n.Text)
	default:
		fmt.Fprintf(&b, "%s x%d", n.Type, n.Count)
	}
	if n.Error != "" {
		fmt.Fprintf(&b, " error=%q", n.Error)
	}
	return b.String()
}

func joinDims(dims []int32) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, "x")
}
