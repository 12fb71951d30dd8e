package glnode_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glnode"
)

func TestBuilderLink(t *testing.T) {
	var bld glnode.Builder
	val := bld.NewValue("val", 2)
	disp := bld.NewDisplacement("disp")
	l := bld.Link(val, "Value", disp, "Height")
	if l == nil || l.From != val.Outputs[0] || l.To != disp.Input("Height") {
		t.Fatal("bad link")
	}
	if !disp.Input("Height").IsLinked() {
		t.Error("input not linked")
	}
	// Relinking replaces the previous link.
	val2 := bld.NewValue("val2", 3)
	bld.Link(val2, "Value", disp, "Height")
	if got := bld.Graph().Links(); len(got) != 1 || got[0].From.Node() != val2 {
		t.Errorf("link not replaced: %v", got)
	}
	if s := disp.Input("Height").String(); s != "disp.Height" {
		t.Errorf("unexpected socket string %q", s)
	}
	if bld.Err() != nil {
		t.Fatal(bld.Err())
	}
}

func TestBuilderSchemaErrors(t *testing.T) {
	bld := glnode.Builder{NoSchemaPanic: true}
	val := bld.NewValue("val", 2)
	disp := bld.NewDisplacement("disp")
	bld.Link(val, "Nope", disp, "Height")
	bld.Link(val, "Value", disp, "Nope")
	bld.Link(disp.Outputs[0].Node(), "Displacement", val, "Value")
	bld.SetVec(disp, "Height", ms3.Vec{X: 1})
	bld.SetValue(disp, "Scale", float32(math.NaN()))
	bld.NewValue("val", 1)
	err := bld.Err()
	if err == nil {
		t.Fatal("expected accumulated errors")
	}
	for _, want := range []string{`no output socket "Nope"`, `no input socket "Nope"`, "SetVec on VALUE socket", "non-finite", "duplicate"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %q", want, err)
		}
	}
}

func TestBuilderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	var bld glnode.Builder
	bld.NewTexImage("img", "")
}

func TestGraphValidate(t *testing.T) {
	var bld glnode.Builder
	a := bld.NewVectorMath("a", glnode.VectorMathAdd)
	b := bld.NewVectorMath("b", glnode.VectorMathAdd)
	c := bld.NewVectorMath("c", glnode.VectorMathAdd)
	bld.Link(a, "Vector", b, "Vector")
	bld.Link(b, "Vector", c, "Vector")
	bld.Link(a, "Vector", c, "Vector_001")
	g := bld.Graph()
	if err := g.Validate(); err != nil {
		t.Fatalf("diamond graph rejected: %s", err)
	}
	bld.Link(c, "Vector", a, "Vector")
	if err := g.Validate(); !errors.Is(err, glnode.ErrCyclicGraph) {
		t.Errorf("want cycle error, got %v", err)
	}
	if got := g.NodesOfKind(nil, glnode.KindVectorMath); len(got) != 3 {
		t.Errorf("want 3 vector math nodes, got %d", len(got))
	}
	if g.Node("b") != b {
		t.Error("node lookup failed")
	}
}

func TestNodeName(t *testing.T) {
	for _, test := range []struct {
		name, want string
	}{
		{name: "Bump", want: "Bump"},
		{name: "Image Texture.001", want: "Image_Texture_001"},
		{name: "3D", want: "_3D"},
		{name: "float", want: "_float"},
		{name: "gl_Position", want: "_gl_Position"},
		{name: "a__b", want: "a_x_xb"},
		{name: "a-", want: "a_x"},
		{name: "", want: "_x"},
	} {
		got := glnode.NodeName(test.name)
		if got != test.want {
			t.Errorf("NodeName(%q): want %q, got %q", test.name, test.want, got)
		}
		if strings.Contains(got, "__") {
			t.Errorf("NodeName(%q)=%q contains reserved double underscore", test.name, got)
		}
	}
}

func TestNodeNameCollision(t *testing.T) {
	bld := glnode.Builder{NoSchemaPanic: true}
	first := bld.NewMapping("Mapping.001", glnode.VectorPoint)
	bld.NewMapping("Mapping_001", glnode.VectorPoint)
	err := bld.Err()
	if err == nil || !strings.Contains(err.Error(), "collides") {
		t.Fatalf("want identifier collision error, got %v", err)
	}
	g := bld.Graph()
	if g.Node("Mapping_001") != nil || len(g.Nodes()) != 1 || g.Nodes()[0] != first {
		t.Errorf("colliding node added to graph: %v", g.Nodes())
	}
}

func TestCurveEvaluate(t *testing.T) {
	c := glnode.Curve{Points: []glnode.CurvePoint{{X: 0, Y: 0}, {X: 0.5, Y: 1}, {X: 1, Y: 0.5}}}
	for _, test := range []struct {
		x, want float32
	}{
		{x: -1, want: 0},
		{x: 0, want: 0},
		{x: 0.25, want: 0.5},
		{x: 0.5, want: 1},
		{x: 0.75, want: 0.75},
		{x: 1, want: 0.5},
		{x: 2, want: 0.5},
	} {
		got := c.Evaluate(test.x)
		if math32.Abs(got-test.want) > 1e-6 {
			t.Errorf("Evaluate(%v): want %v, got %v", test.x, test.want, got)
		}
	}
	if got := (glnode.Curve{Points: []glnode.CurvePoint{{Y: 0.3}}}).Evaluate(5); got != 0.3 {
		t.Errorf("single point curve: got %v", got)
	}
}

func TestCurveValidate(t *testing.T) {
	for _, c := range []glnode.Curve{
		{},
		{Points: []glnode.CurvePoint{{X: 1}, {X: 1}}},
		{Points: []glnode.CurvePoint{{X: 0}, {X: math32.NaN()}}},
	} {
		if err := c.Validate(); !errors.Is(err, glnode.ErrInvalidCurve) {
			t.Errorf("%v: want invalid curve error, got %v", c.Points, err)
		}
	}
	if err := glnode.IdentityCurveMapping().Curves[0].Validate(); err != nil {
		t.Error(err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range glnode.Kinds() {
		got, err := glnode.ParseKind(k.String())
		if err != nil {
			t.Fatal(err)
		} else if got != k {
			t.Errorf("ParseKind(%q): got %s", k.String(), got)
		}
	}
	if _, err := glnode.ParseKind("ShaderNodeBsdfPrincipled"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDefaultSockets(t *testing.T) {
	var bld glnode.Builder
	for _, k := range glnode.Kinds() {
		n := bld.NewNode(k, k.String())
		if len(n.Inputs)+len(n.Outputs) == 0 {
			t.Errorf("%s: no sockets", k)
		}
		for i, s := range n.Inputs {
			if s.Node() != n || s.Index() != i || s.IsOutput() {
				t.Errorf("%s: bad input socket %d", k, i)
			}
		}
		for i, s := range n.Outputs {
			if s.Node() != n || s.Index() != i || !s.IsOutput() {
				t.Errorf("%s: bad output socket %d", k, i)
			}
		}
	}
	if got := len(bld.Graph().Nodes()); got != len(glnode.Kinds()) {
		t.Errorf("want %d nodes, got %d", len(glnode.Kinds()), got)
	}
}
