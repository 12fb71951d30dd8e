package glparse

import (
	"fmt"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
)

// Parse returns the GLSL expression of output out of node by invoking the
// parser registered for the node's kind. Parsers may append statements to the
// active emission buffer. An empty expression with a nil error means the node
// only produced statements.
func (st *State) Parse(node *glnode.Node, out int) (string, error) {
	if node == nil {
		return "", fmt.Errorf("%w: nil node", ErrMissingSocket)
	}
	fn, ok := st.reg.Lookup(node.Kind)
	if !ok {
		return "", wrapNodeErr(node, out, fmt.Errorf("%w: %s", ErrUnsupportedNodeKind, node.Kind))
	}
	if _, inProgress := st.visiting[node]; inProgress {
		return "", wrapNodeErr(node, out, fmt.Errorf("%w: node reached from itself", ErrCyclicGraph))
	} else if st.depth >= st.cfg.MaxDepth {
		return "", wrapNodeErr(node, out, fmt.Errorf("%w: resolution depth exceeds %d", ErrCyclicGraph, st.cfg.MaxDepth))
	}
	st.visiting[node] = struct{}{}
	st.depth++
	expr, err := fn(st, node, out)
	st.depth--
	delete(st.visiting, node)
	if err != nil {
		return "", wrapNodeErr(node, out, err)
	}
	return expr, nil
}

// Resolve returns the expression of an input socket. Unlinked sockets resolve
// to the literal of their default value without side effects: scalars as a
// decimal float such as "2.0" and vectors and colors as "vec3(x, y, z)".
// Linked sockets resolve to the expression of the producing node output.
func (st *State) Resolve(in *glnode.Socket) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: nil socket", ErrMissingSocket)
	}
	if !in.IsLinked() {
		return Literal(in), nil
	}
	from := in.Link().From
	expr, err := st.Parse(from.Node(), from.Index())
	if err != nil {
		return "", err
	}
	if expr == "" {
		return "", fmt.Errorf("%w: %s used by %s", ErrNoExpression, from, in)
	}
	return expr, nil
}

// ResolveValue resolves in as a scalar. Vector and color producers are
// converted to the average of their components.
func (st *State) ResolveValue(in *glnode.Socket) (string, error) {
	expr, err := st.Resolve(in)
	if err != nil {
		return "", err
	}
	if sourceType(in).IsVec3() {
		e := paren(expr)
		return "((" + e + ".r + " + e + ".g + " + e + ".b) / 3.0)", nil
	}
	return expr, nil
}

// ResolveVector resolves in as a vec3. Scalar producers are splatted with vec3(v).
func (st *State) ResolveVector(in *glnode.Socket) (string, error) {
	expr, err := st.Resolve(in)
	if err != nil {
		return "", err
	}
	if !sourceType(in).IsVec3() {
		return "vec3(" + expr + ")", nil
	}
	return expr, nil
}

// Literal formats the default value of a socket.
func Literal(s *glnode.Socket) string {
	if s.Type.IsVec3() {
		return glbuild.FormatVec3(s.Vec)
	}
	return glbuild.FormatFloat(s.Value)
}

// sourceType returns the type of the socket that produces the value of in.
func sourceType(in *glnode.Socket) glnode.SocketType {
	if in.IsLinked() {
		return in.Link().From.Type
	}
	return in.Type
}

// paren wraps expr in parentheses unless it is an identifier, literal,
// swizzle, function call or already parenthesized, so that it binds tighter
// than any operator it is combined with.
func paren(expr string) string {
	if isAtomic(expr) {
		return expr
	}
	return "(" + expr + ")"
}

func isAtomic(expr string) bool {
	if expr == "" || expr[0] == '-' || expr[0] == '+' || expr[0] == '!' {
		return false
	}
	depth := 0
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
			if depth < 0 {
				return false
			}
		case depth > 0:
		case c == '_' || c == '.' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9':
		default:
			return false // Top level operator or space.
		}
	}
	return depth == 0
}
