package glparse

import (
	"errors"
	"fmt"

	"github.com/soypat/glnode"
)

var (
	// ErrUnsupportedNodeKind is returned when no parser is registered for a linked node's kind.
	ErrUnsupportedNodeKind = errors.New("unsupported node kind")
	// ErrMissingSocket is returned when a parser expects a socket the node does not have.
	ErrMissingSocket = errors.New("missing required socket")
	// ErrCyclicGraph is returned when resolution revisits a node being resolved
	// or exceeds the maximum resolution depth.
	ErrCyclicGraph = glnode.ErrCyclicGraph
	// ErrNoExpression is returned when the result of a node that only emits
	// statements, such as a normal map in the fragment stage, is used as an input.
	ErrNoExpression = errors.New("node output has no expression value")
	// ErrSamplerConflict is returned when two different images map to the same sampler uniform name.
	ErrSamplerConflict = errors.New("sampler name conflict")
	// ErrInvalidCurve is returned for vector curve nodes with invalid control points.
	ErrInvalidCurve = glnode.ErrInvalidCurve
)

// NodeError reports the node where translation failed.
type NodeError struct {
	Node   string
	Kind   glnode.Kind
	Output int
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q (%s) output %d: %s", e.Node, e.Kind, e.Output, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

func wrapNodeErr(node *glnode.Node, out int, err error) error {
	var nerr *NodeError
	if errors.As(err, &nerr) {
		return err // Keep innermost node.
	}
	return &NodeError{Node: node.Name, Kind: node.Kind, Output: out, Err: err}
}

// requireInput returns the named input socket of node or an error wrapping [ErrMissingSocket].
func requireInput(node *glnode.Node, name string) (*glnode.Socket, error) {
	s := node.Input(name)
	if s == nil {
		return nil, fmt.Errorf("%w: input %q", ErrMissingSocket, name)
	}
	return s, nil
}

// inputAt returns the input socket at index i of node or an error wrapping [ErrMissingSocket].
func inputAt(node *glnode.Node, i int) (*glnode.Socket, error) {
	if i < 0 || i >= len(node.Inputs) {
		return nil, fmt.Errorf("%w: input index %d of %d inputs", ErrMissingSocket, i, len(node.Inputs))
	}
	return node.Inputs[i], nil
}

// outputAt returns the output socket at index i of node or an error wrapping [ErrMissingSocket].
func outputAt(node *glnode.Node, i int) (*glnode.Socket, error) {
	if i < 0 || i >= len(node.Outputs) {
		return nil, fmt.Errorf("%w: output index %d of %d outputs", ErrMissingSocket, i, len(node.Outputs))
	}
	return node.Outputs[i], nil
}
