package glnode

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// ErrCyclicGraph is returned when the links of a graph form a cycle.
// Shader node graphs are expected to be acyclic.
var ErrCyclicGraph = errors.New("cyclic node graph")

// SocketType is the semantic type of a [Socket].
type SocketType uint8

const (
	SocketValue SocketType = iota // scalar float
	SocketVector
	SocketColor
	SocketShader
)

func (st SocketType) String() string {
	switch st {
	case SocketValue:
		return "VALUE"
	case SocketVector:
		return "VECTOR"
	case SocketColor:
		return "RGBA"
	case SocketShader:
		return "SHADER"
	}
	return fmt.Sprintf("SocketType(%d)", uint8(st))
}

// IsVec3 reports whether values of the socket type are represented as a vec3 in GLSL.
func (st SocketType) IsVec3() bool { return st == SocketVector || st == SocketColor }

// Socket is a typed connection point on a [Node]. Input sockets are either linked
// to exactly one output socket or use their default value.
type Socket struct {
	Name string
	Type SocketType
	// Value is the default value of scalar sockets.
	Value float32
	// Vec is the default value of vector and color sockets.
	Vec ms3.Vec

	node   *Node
	index  int
	output bool
	link   *Link
}

// Node returns the node owning the socket.
func (s *Socket) Node() *Node { return s.node }

// Index returns the position of the socket in its node's input or output list.
func (s *Socket) Index() int { return s.index }

// IsOutput reports whether s is an output socket.
func (s *Socket) IsOutput() bool { return s.output }

// IsLinked reports whether an input socket has a producing output socket.
// Output sockets are never linked in this sense.
func (s *Socket) IsLinked() bool { return s.link != nil }

// Link returns the incoming link of an input socket or nil.
func (s *Socket) Link() *Link { return s.link }

func (s *Socket) String() string {
	if s.node == nil {
		return s.Name
	}
	return s.node.Name + "." + s.Name
}

// Link is a directed edge from an output socket to an input socket.
type Link struct {
	From *Socket
	To   *Socket
}

// Node is a typed shader graph node.
type Node struct {
	// Name identifies the node inside its graph and namespaces generated GLSL variables.
	Name    string
	Kind    Kind
	Inputs  []*Socket
	Outputs []*Socket
	// Params holds kind-specific parameters, i.e: *MappingParams for KindMapping.
	// May be nil for kinds with no parameters.
	Params Params
}

// Input returns the first input socket with the given name or nil.
func (n *Node) Input(name string) *Socket { return findSocket(n.Inputs, name) }

// Output returns the first output socket with the given name or nil.
func (n *Node) Output(name string) *Socket { return findSocket(n.Outputs, name) }

func findSocket(sockets []*Socket, name string) *Socket {
	for _, s := range sockets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (n *Node) addSocket(output bool, name string, tp SocketType, value float32, vec ms3.Vec) *Socket {
	s := &Socket{Name: name, Type: tp, Value: value, Vec: vec, node: n, output: output}
	if output {
		s.index = len(n.Outputs)
		n.Outputs = append(n.Outputs, s)
	} else {
		s.index = len(n.Inputs)
		n.Inputs = append(n.Inputs, s)
	}
	return s
}

// Graph is a shader node graph. Nodes are owned by the graph and have unique
// names. Node names are also unique after conversion with [NodeName] since
// generated GLSL identifiers are prefixed by it.
type Graph struct {
	Name    string
	nodes   []*Node
	byName  map[string]*Node
	byIdent map[string]*Node
	links   []*Link
}

// Nodes returns the graph nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Links returns all links in the graph.
func (g *Graph) Links() []*Link { return g.links }

// Node returns the node with the given name or nil.
func (g *Graph) Node(name string) *Node {
	if g.byName == nil {
		return nil
	}
	return g.byName[name]
}

// NodesOfKind appends all nodes of kind k to dst and returns the result.
func (g *Graph) NodesOfKind(dst []*Node, k Kind) []*Node {
	for _, n := range g.nodes {
		if n.Kind == k {
			dst = append(dst, n)
		}
	}
	return dst
}

func (g *Graph) addNode(n *Node) error {
	if n.Name == "" {
		return errors.New("empty node name")
	}
	if g.byName == nil {
		g.byName = make(map[string]*Node)
		g.byIdent = make(map[string]*Node)
	}
	if _, exists := g.byName[n.Name]; exists {
		return fmt.Errorf("duplicate node name %q", n.Name)
	}
	ident := NodeName(n.Name)
	if other, exists := g.byIdent[ident]; exists {
		return fmt.Errorf("node name %q collides with %q as identifier %s", n.Name, other.Name, ident)
	}
	g.byName[n.Name] = n
	g.byIdent[ident] = n
	g.nodes = append(g.nodes, n)
	return nil
}

// link connects from to to. An already linked input socket has its link replaced.
func (g *Graph) link(from, to *Socket) (*Link, error) {
	switch {
	case from == nil || to == nil:
		return nil, errors.New("nil socket")
	case !from.output:
		return nil, fmt.Errorf("link source %s is not an output socket", from)
	case to.output:
		return nil, fmt.Errorf("link destination %s is not an input socket", to)
	case g.byName[from.node.Name] != from.node || g.byName[to.node.Name] != to.node:
		return nil, fmt.Errorf("link %s->%s references node not in graph", from, to)
	}
	if to.link != nil {
		for i, l := range g.links {
			if l == to.link {
				g.links = append(g.links[:i], g.links[i+1:]...)
				break
			}
		}
	}
	l := &Link{From: from, To: to}
	to.link = l
	g.links = append(g.links, l)
	return l, nil
}

// Validate checks the graph for cycles and invalid kind parameters.
func (g *Graph) Validate() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*Node]uint8, len(g.nodes))
	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch state[n] {
		case visiting:
			return fmt.Errorf("%w: node %q is its own ancestor", ErrCyclicGraph, n.Name)
		case done:
			return nil
		}
		state[n] = visiting
		for _, in := range n.Inputs {
			if in.link == nil {
				continue
			}
			if err := visit(in.link.From.node); err != nil {
				return err
			}
		}
		state[n] = done
		return nil
	}
	for _, n := range g.nodes {
		if err := visit(n); err != nil {
			return err
		}
		if n.Params != nil {
			if err := n.Params.validate(); err != nil {
				return fmt.Errorf("node %q: %w", n.Name, err)
			}
		}
	}
	return nil
}

// Builder wraps graph construction logic.
// Provides error handling strategies with panics or error accumulation during graph construction.
// The zero value is ready to use.
type Builder struct {
	// NoSchemaPanic makes the Builder accumulate schema errors, such as linking
	// a socket name that does not exist, instead of panicking. Accumulated errors
	// are returned by [Builder.Err].
	NoSchemaPanic bool
	graph         Graph
	accumErrs     []error
}

// Err returns all accumulated errors joined, or nil if there were none.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// Graph returns the graph built so far.
func (bld *Builder) Graph() *Graph { return &bld.graph }

// SetName sets the graph's name, usually the name of the material.
func (bld *Builder) SetName(name string) { bld.graph.Name = name }

func (bld *Builder) schemaErrorf(msg string, args ...any) {
	if !bld.NoSchemaPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// Link connects the output socket named output of from to the input socket named input of to.
func (bld *Builder) Link(from *Node, output string, to *Node, input string) *Link {
	if from == nil || to == nil {
		bld.schemaErrorf("nil node argument to Link")
		return nil
	}
	out := from.Output(output)
	if out == nil {
		bld.schemaErrorf("node %q has no output socket %q", from.Name, output)
		return nil
	}
	in := to.Input(input)
	if in == nil {
		bld.schemaErrorf("node %q has no input socket %q", to.Name, input)
		return nil
	}
	l, err := bld.graph.link(out, in)
	if err != nil {
		bld.schemaErrorf("%s", err)
		return nil
	}
	return l
}

// LinkSockets connects two sockets directly.
func (bld *Builder) LinkSockets(from, to *Socket) *Link {
	l, err := bld.graph.link(from, to)
	if err != nil {
		bld.schemaErrorf("%s", err)
		return nil
	}
	return l
}

// SetValue sets the default value of the scalar input socket named input.
func (bld *Builder) SetValue(n *Node, input string, v float32) {
	s := bld.input(n, input)
	if s == nil {
		return
	}
	if s.Type.IsVec3() {
		bld.schemaErrorf("SetValue on %s socket %s", s.Type, s)
		return
	}
	if !finite(v) {
		bld.schemaErrorf("non-finite default %v for %s", v, s)
		return
	}
	s.Value = v
}

// SetVec sets the default value of the vector or color input socket named input.
func (bld *Builder) SetVec(n *Node, input string, v ms3.Vec) {
	s := bld.input(n, input)
	if s == nil {
		return
	}
	if !s.Type.IsVec3() {
		bld.schemaErrorf("SetVec on %s socket %s", s.Type, s)
		return
	}
	if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
		bld.schemaErrorf("non-finite default %v for %s", v, s)
		return
	}
	s.Vec = v
}

func (bld *Builder) input(n *Node, name string) *Socket {
	if n == nil {
		bld.schemaErrorf("nil node")
		return nil
	}
	s := n.Input(name)
	if s == nil {
		bld.schemaErrorf("node %q has no input socket %q", n.Name, name)
	}
	return s
}

func (bld *Builder) newNode(name string, kind Kind, params Params) *Node {
	n := &Node{Name: name, Kind: kind, Params: params}
	if err := bld.graph.addNode(n); err != nil {
		bld.schemaErrorf("%s", err)
	}
	return n
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
