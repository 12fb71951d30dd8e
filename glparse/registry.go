package glparse

import (
	"slices"

	"github.com/soypat/glnode"
)

// ParseFunc translates output out of node to a GLSL expression. It may
// resolve the node's inputs through st and append statements to the active
// emission buffer. Returning an empty expression and nil error indicates the
// node's effect is purely the emitted statements.
type ParseFunc func(st *State, node *glnode.Node, out int) (string, error)

// Registry maps node kinds to their parsers.
type Registry struct {
	parsers map[glnode.Kind]ParseFunc
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[glnode.Kind]ParseFunc)}
}

// DefaultRegistry returns a new Registry with parsers for all built-in node kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Vector nodes.
	r.Register(glnode.KindVectorCurve, parseVectorCurve)
	r.Register(glnode.KindBump, parseBump)
	r.Register(glnode.KindMapping, parseMapping)
	r.Register(glnode.KindNormal, parseNormal)
	r.Register(glnode.KindNormalMap, parseNormalMap)
	r.Register(glnode.KindVectorTransform, parseVectorTransform)
	r.Register(glnode.KindDisplacement, parseDisplacement)
	// Input nodes.
	r.Register(glnode.KindValue, parseValue)
	r.Register(glnode.KindRGB, parseRGB)
	r.Register(glnode.KindTexCoord, parseTexCoord)
	// Converter nodes.
	r.Register(glnode.KindMath, parseMath)
	r.Register(glnode.KindVectorMath, parseVectorMath)
	r.Register(glnode.KindCombineXYZ, parseCombineXYZ)
	r.Register(glnode.KindSeparateXYZ, parseSeparateXYZ)
	// Texture nodes.
	r.Register(glnode.KindTexNoise, parseTexNoise)
	r.Register(glnode.KindTexImage, parseTexImage)
	return r
}

// Register sets the parser of kind, replacing any previous parser. A nil fn removes the parser.
func (r *Registry) Register(kind glnode.Kind, fn ParseFunc) {
	if fn == nil {
		delete(r.parsers, kind)
		return
	}
	r.parsers[kind] = fn
}

// Lookup returns the parser registered for kind.
func (r *Registry) Lookup(kind glnode.Kind) (ParseFunc, bool) {
	fn, ok := r.parsers[kind]
	return fn, ok
}

// Kinds returns the registered node kinds in ascending order.
func (r *Registry) Kinds() []glnode.Kind {
	kinds := make([]glnode.Kind, 0, len(r.parsers))
	for k := range r.parsers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
