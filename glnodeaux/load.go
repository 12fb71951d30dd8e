package glnodeaux

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
	"github.com/soypat/glnode/glparse"
	"gopkg.in/yaml.v3"
)

// Material is a node graph together with the sockets exported from it.
type Material struct {
	Name    string
	Graph   *glnode.Graph
	Targets []glparse.Target
}

// NeedsTessellation reports whether any target is translated in the tessellation evaluation stage.
func (m *Material) NeedsTessellation() bool {
	for _, t := range m.Targets {
		if t.Stage == glbuild.StageTessEval {
			return true
		}
	}
	return false
}

// GraphFile is the YAML representation of a material node graph.
type GraphFile struct {
	Name    string       `json:"name" yaml:"name"`
	Nodes   []NodeSpec   `json:"nodes" yaml:"nodes"`
	Links   []LinkSpec   `json:"links" yaml:"links"`
	Outputs []OutputSpec `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// NodeSpec describes a single node. Type is the Blender node idname such as
// "ShaderNodeBump". Only the parameter fields that apply to the kind are read.
type NodeSpec struct {
	Name   string            `json:"name" yaml:"name"`
	Type   string            `json:"type" yaml:"type"`
	Inputs map[string]Values `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// Value and color of input nodes.
	Value *float32 `json:"value,omitempty" yaml:"value,omitempty"`
	Color Values   `json:"color,omitempty" yaml:"color,omitempty"`
	// Normal is the stored direction of a normal node.
	Normal Values `json:"normal,omitempty" yaml:"normal,omitempty"`

	VectorType    string        `json:"vector_type,omitempty" yaml:"vector_type,omitempty"`
	Invert        bool          `json:"invert,omitempty" yaml:"invert,omitempty"`
	Op            string        `json:"op,omitempty" yaml:"op,omitempty"`
	Clamp         bool          `json:"clamp,omitempty" yaml:"clamp,omitempty"`
	Image         string        `json:"image,omitempty" yaml:"image,omitempty"`
	Closest       bool          `json:"closest,omitempty" yaml:"closest,omitempty"`
	Space         string        `json:"space,omitempty" yaml:"space,omitempty"`
	UVMap         string        `json:"uv_map,omitempty" yaml:"uv_map,omitempty"`
	TransformType string        `json:"transform_type,omitempty" yaml:"transform_type,omitempty"`
	ConvertFrom   string        `json:"convert_from,omitempty" yaml:"convert_from,omitempty"`
	ConvertTo     string        `json:"convert_to,omitempty" yaml:"convert_to,omitempty"`
	Curves        [][]PointSpec `json:"curves,omitempty" yaml:"curves,omitempty"`
}

// PointSpec is a curve control point.
type PointSpec struct {
	X      float32 `json:"x" yaml:"x"`
	Y      float32 `json:"y" yaml:"y"`
	Handle string  `json:"handle,omitempty" yaml:"handle,omitempty"`
}

// LinkSpec connects sockets given as "Node.Socket".
type LinkSpec struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// OutputSpec selects a socket to export to a stage.
type OutputSpec struct {
	Socket string `json:"socket" yaml:"socket"`
	Stage  string `json:"stage" yaml:"stage"`
	Assign string `json:"assign,omitempty" yaml:"assign,omitempty"`
}

// Values is a scalar or a 3 component vector. In YAML it is written as a
// number or as a list of three numbers.
type Values []float32

// UnmarshalYAML implements [yaml.Unmarshaler].
func (v *Values) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var f float32
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = Values{f}
	case yaml.SequenceNode:
		var fs []float32
		if err := node.Decode(&fs); err != nil {
			return err
		}
		if len(fs) != 3 {
			return fmt.Errorf("line %d: want 3 components, got %d", node.Line, len(fs))
		}
		*v = fs
	default:
		return fmt.Errorf("line %d: want number or list of 3 numbers", node.Line)
	}
	return nil
}

func (v Values) vec() (ms3.Vec, error) {
	if len(v) != 3 {
		return ms3.Vec{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return ms3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// LoadMaterials decodes all YAML documents of r as materials.
func LoadMaterials(r io.Reader) ([]*Material, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var materials []*Material
	for {
		var file GraphFile
		err := dec.Decode(&file)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding graph %d: %w", len(materials), err)
		}
		m, err := file.Material()
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	if len(materials) == 0 {
		return nil, errors.New("no materials in graph file")
	}
	return materials, nil
}

// LoadMaterial decodes a single material.
func LoadMaterial(r io.Reader) (*Material, error) {
	materials, err := LoadMaterials(r)
	if err != nil {
		return nil, err
	} else if len(materials) != 1 {
		return nil, fmt.Errorf("want one material, got %d", len(materials))
	}
	return materials[0], nil
}

// Material builds the graph described by the file. When no outputs are
// given, the linked Displacement input of each material output node is
// assigned to "vec3 disp" in the tessellation evaluation stage.
func (file *GraphFile) Material() (*Material, error) {
	if file.Name == "" {
		return nil, errors.New("material without name")
	}
	bld := glnode.Builder{NoSchemaPanic: true}
	bld.SetName(file.Name)
	for i := range file.Nodes {
		err := addNode(&bld, &file.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("material %q node %q: %w", file.Name, file.Nodes[i].Name, err)
		}
	}
	g := bld.Graph()
	for _, l := range file.Links {
		from, fromSocket, err := splitSocketRef(g, l.From)
		if err != nil {
			return nil, fmt.Errorf("material %q link source: %w", file.Name, err)
		}
		to, toSocket, err := splitSocketRef(g, l.To)
		if err != nil {
			return nil, fmt.Errorf("material %q link destination: %w", file.Name, err)
		}
		bld.Link(from, fromSocket, to, toSocket)
	}
	if err := bld.Err(); err != nil {
		return nil, fmt.Errorf("material %q: %w", file.Name, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("material %q: %w", file.Name, err)
	}

	m := &Material{Name: file.Name, Graph: g}
	for _, o := range file.Outputs {
		t, err := parseOutput(g, o)
		if err != nil {
			return nil, fmt.Errorf("material %q output %q: %w", file.Name, o.Socket, err)
		}
		m.Targets = append(m.Targets, t)
	}
	if len(file.Outputs) == 0 {
		for _, out := range g.NodesOfKind(nil, glnode.KindOutputMaterial) {
			if disp := out.Input("Displacement"); disp != nil && disp.IsLinked() {
				m.Targets = append(m.Targets, glparse.Target{Stage: glbuild.StageTessEval, Socket: disp, Assign: "vec3 disp"})
			}
		}
	}
	if len(m.Targets) == 0 {
		return nil, fmt.Errorf("material %q has no outputs", file.Name)
	}
	return m, nil
}

func parseOutput(g *glnode.Graph, o OutputSpec) (glparse.Target, error) {
	stage, err := glbuild.ParseStage(o.Stage)
	if err != nil {
		return glparse.Target{}, err
	}
	node, name, err := splitSocketRef(g, o.Socket)
	if err != nil {
		return glparse.Target{}, err
	}
	// Prefer outputs so that a node's result can be exported directly.
	s := node.Output(name)
	if s == nil {
		s = node.Input(name)
	}
	if s == nil {
		return glparse.Target{}, fmt.Errorf("node %q has no socket %q", node.Name, name)
	}
	return glparse.Target{Stage: stage, Socket: s, Assign: o.Assign}, nil
}

// splitSocketRef splits "Node.Socket" at the last dot. Node names may contain dots.
func splitSocketRef(g *glnode.Graph, ref string) (*glnode.Node, string, error) {
	i := strings.LastIndexByte(ref, '.')
	if i <= 0 || i == len(ref)-1 {
		return nil, "", fmt.Errorf("socket reference %q not of form Node.Socket", ref)
	}
	node := g.Node(ref[:i])
	if node == nil {
		return nil, "", fmt.Errorf("socket reference %q: no node %q", ref, ref[:i])
	}
	return node, ref[i+1:], nil
}

func addNode(bld *glnode.Builder, spec *NodeSpec) (err error) {
	kind, err := glnode.ParseKind(spec.Type)
	if err != nil {
		return err
	}
	n := bld.NewNode(kind, spec.Name)
	if n == nil {
		return bld.Err()
	}
	switch kind {
	case glnode.KindValue:
		if spec.Value != nil {
			n.Outputs[0].Value = *spec.Value
		}
	case glnode.KindRGB:
		if spec.Color != nil {
			n.Outputs[0].Vec, err = spec.Color.vec()
		}
	case glnode.KindNormal:
		if spec.Normal != nil {
			n.Outputs[0].Vec, err = spec.Normal.vec()
		}
	case glnode.KindBump:
		n.Params = &glnode.BumpParams{Invert: spec.Invert}
	case glnode.KindMapping:
		params := &glnode.MappingParams{}
		if spec.VectorType != "" {
			params.VectorType, err = glnode.ParseVectorType(spec.VectorType)
		}
		n.Params = params
	case glnode.KindNormalMap:
		params := &glnode.NormalMapParams{Space: glnode.SpaceTangent, UVMap: spec.UVMap}
		if spec.Space != "" {
			params.Space, err = glnode.ParseSpace(spec.Space)
		}
		n.Params = params
	case glnode.KindVectorTransform:
		params := n.Params.(*glnode.VectorTransformParams)
		err = errors.Join(
			parseOptional(&params.Type, spec.TransformType, glnode.ParseVectorType),
			parseOptional(&params.ConvertFrom, spec.ConvertFrom, glnode.ParseSpace),
			parseOptional(&params.ConvertTo, spec.ConvertTo, glnode.ParseSpace),
		)
	case glnode.KindMath:
		params := &glnode.MathParams{Clamp: spec.Clamp}
		err = parseOptional(&params.Op, spec.Op, glnode.ParseMathOp)
		n.Params = params
	case glnode.KindVectorMath:
		params := &glnode.VectorMathParams{}
		err = parseOptional(&params.Op, spec.Op, glnode.ParseVectorMathOp)
		n.Params = params
	case glnode.KindTexImage:
		n.Params = &glnode.TexImageParams{Image: spec.Image, Closest: spec.Closest}
	case glnode.KindVectorCurve:
		if len(spec.Curves) == 0 {
			break
		} else if len(spec.Curves) != 3 {
			return fmt.Errorf("want 3 curves, got %d", len(spec.Curves))
		}
		var cm glnode.CurveMapping
		for i, pts := range spec.Curves {
			for _, p := range pts {
				var h glnode.HandleType
				err = parseOptional(&h, p.Handle, glnode.ParseHandleType)
				if err != nil {
					return err
				}
				cm.Curves[i].Points = append(cm.Curves[i].Points, glnode.CurvePoint{X: p.X, Y: p.Y, Handle: h})
			}
		}
		n.Params = &cm
	}
	if err != nil {
		return err
	}
	for name, v := range spec.Inputs {
		if len(v) == 1 {
			bld.SetValue(n, name, v[0])
		} else {
			vec, _ := v.vec() // Length checked on decode.
			bld.SetVec(n, name, vec)
		}
	}
	return nil
}

func parseOptional[T any](dst *T, s string, parse func(string) (T, error)) error {
	if s == "" {
		return nil
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
