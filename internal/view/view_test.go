package view

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/logicossoftware/go-matfile"
	"github.com/logicossoftware/go-matfile/internal/fixture"
)

func decode(t *testing.T, elems ...[]byte) *matfile.File {
	t.Helper()
	b := fixture.New(binary.LittleEndian)
	f, err := matfile.Decode(bytes.NewReader(fixture.File(b.Header("view test"), elems...)), matfile.WithContinueOnError(true))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return f
}

func TestFromFile(t *testing.T) {
	b := fixture.New(binary.LittleEndian)
	f := decode(t,
		b.CharMatrix("greeting", "hi"),
		b.DoubleMatrix("x", []int32{1, 3}, []float64{1, math.NaN(), math.Inf(1)}, nil),
		b.Matrix(b.Flags(20, 0, 0), b.Dims(1, 1), b.Name("bad")),
	)
	v := FromFile(f, Options{MaxValues: -1})
	if v.Text != "view test" || v.EndianIndicator != "IM" || !v.EndianSwap || v.Version != "0x0100" {
		t.Fatalf("header %+v", v)
	}
	if len(v.Elements) != 2 || len(v.Errors) != 1 {
		t.Fatalf("elements %d errors %d", len(v.Elements), len(v.Errors))
	}
	if n := v.Elements[0]; n.Kind != "matrix" || n.Text != "hi" || n.Class != "char" {
		t.Fatalf("char node %+v", n)
	}
	x := v.Elements[1]
	if len(x.Values) != 3 || x.Values[0] != 1.0 || x.Values[1] != "NaN" || x.Values[2] != "+Inf" {
		t.Fatalf("values %v", x.Values)
	}

	// Non-finite values must not break JSON encoding.
	if _, err := json.Marshal(v); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
}

func TestBuild_MaxValues(t *testing.T) {
	b := fixture.New(binary.LittleEndian)
	f := decode(t, b.DoubleMatrix("x", []int32{1, 5}, []float64{1, 2, 3, 4, 5}, []float64{5, 4, 3, 2, 1}))
	cases := []struct {
		max  int
		want int
	}{{0, 0}, {2, 2}, {-1, 5}, {10, 5}}
	for _, tc := range cases {
		n := Build(f.Elements[0], Options{MaxValues: tc.max})
		if len(n.Values) != tc.want || len(n.Imag) != tc.want {
			t.Fatalf("MaxValues %d: got %d/%d values", tc.max, len(n.Values), len(n.Imag))
		}
		if n.Count != 5 || !n.Complex {
			t.Fatalf("MaxValues %d: node %+v", tc.max, n)
		}
	}
}

func TestBuild_ExpandCompressed(t *testing.T) {
	b := fixture.New(binary.LittleEndian)
	inner := b.Struct("s", []int32{1, 1}, []string{"a", "b"},
		b.CharMatrix("", "x"),
		b.Cell("", []int32{1, 1}, b.DoubleMatrix("", []int32{1, 1}, []float64{1}, nil)),
	)
	f := decode(t, b.Compressed(inner))

	n := Build(f.Elements[0], Options{})
	if n.Kind != "compressed" || n.Inflated != len(inner) || n.Children != nil {
		t.Fatalf("collapsed node %+v", n)
	}

	n = Build(f.Elements[0], Options{Expand: true})
	var kinds []string
	Walk(n, func(depth int, n *Node) {
		kinds = append(kinds, strings.Repeat(" ", depth)+n.Kind+":"+n.Class)
	})
	want := []string{"compressed:", " matrix:struct", "  matrix:char", "  matrix:cell", "   matrix:double"}
	if strings.Join(kinds, "|") != strings.Join(want, "|") {
		t.Fatalf("walk order %q", kinds)
	}
}

func TestBuild_ExpandError(t *testing.T) {
	b := fixture.New(binary.LittleEndian)
	f := decode(t, b.Compressed(make([]byte, 8)))
	n := Build(f.Elements[0], Options{Expand: true})
	if n.Error == "" || len(n.Children) != 0 {
		t.Fatalf("expected error node, got %+v", n)
	}
	if !strings.Contains(Describe(n), "error=") {
		t.Fatalf("Describe = %q", Describe(n))
	}
}

func TestBuild_SparseAndObject(t *testing.T) {
	b := fixture.New(binary.LittleEndian)
	f := decode(t,
		b.Sparse("sp", 2, 2, []int32{1}, []int32{0, 0, 1}, []float64{7}),
		b.Object("o", "Point", []int32{1, 1}, []string{"x"}, b.DoubleMatrix("", []int32{1, 1}, []float64{1}, nil)),
	)
	sp := Build(f.Elements[0], Options{MaxValues: -1})
	if sp.Class != "sparse" || len(sp.RowIndex) != 1 || len(sp.ColIndex) != 3 || sp.Values[0] != 7.0 {
		t.Fatalf("sparse node %+v", sp)
	}
	obj := Build(f.Elements[1], Options{})
	if obj.ClassName != "Point" || len(obj.Children) != 1 {
		t.Fatalf("object node %+v", obj)
	}
	if got := Describe(obj); got != "o object [1x1] class=Point fields=x" {
		t.Fatalf("Describe = %q", got)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		n    *Node
		want string
	}{
		{&Node{Kind: "matrix", Class: "double", Dims: []int32{2, 3}, Complex: true}, "<unnamed> double [2x3] complex"},
		{&Node{Kind: "matrix", Name: "s", Class: "char", Dims: []int32{1, 2}, Text: "ab"}, `s char [1x2] "ab"`},
		{&Node{Kind: "compressed", Type: "miCOMPRESSED", Size: 10, Inflated: 40}, "miCOMPRESSED 10 -> 40 bytes"},
		{&Node{Kind: "text", Type: "miUTF8", Text: "hi"}, `miUTF8 "hi"`},
		{&Node{Kind: "array", Type: "miDOUBLE", Count: 3}, "miDOUBLE x3"},
	}
	for _, tc := range cases {
		if got := Describe(tc.n); got != tc.want {
			t.Fatalf("Describe = %q, want %q", got, tc.want)
		}
	}
}
