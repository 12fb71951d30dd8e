package glnode

import "strings"

// glslReserved holds GLSL keywords and builtin type names that may not be used as identifiers.
var glslReserved = map[string]struct{}{
	"attribute": {}, "const": {}, "uniform": {}, "varying": {}, "buffer": {}, "shared": {},
	"layout": {}, "centroid": {}, "flat": {}, "smooth": {}, "noperspective": {}, "patch": {}, "sample": {},
	"break": {}, "continue": {}, "do": {}, "for": {}, "while": {}, "switch": {}, "case": {}, "default": {},
	"if": {}, "else": {}, "subroutine": {}, "in": {}, "out": {}, "inout": {}, "invariant": {}, "precise": {},
	"discard": {}, "return": {}, "struct": {}, "true": {}, "false": {},
	"void": {}, "bool": {}, "int": {}, "uint": {}, "float": {}, "double": {},
	"vec2": {}, "vec3": {}, "vec4": {}, "ivec2": {}, "ivec3": {}, "ivec4": {},
	"bvec2": {}, "bvec3": {}, "bvec4": {}, "uvec2": {}, "uvec3": {}, "uvec4": {},
	"dvec2": {}, "dvec3": {}, "dvec4": {}, "mat2": {}, "mat3": {}, "mat4": {},
	"sampler2D": {}, "sampler3D": {}, "samplerCube": {}, "texture": {},
	"lowp": {}, "mediump": {}, "highp": {}, "precision": {},
}

// NodeName converts a node name into a GLSL identifier that is safe to use as
// a prefix of generated variable names.
//
// Characters outside [A-Za-z0-9_] become underscores. Names starting with a
// digit, reserved words and names with the reserved "gl_" prefix are prefixed
// with an underscore. Consecutive underscores are reserved in GLSL so names
// containing them have every underscore replaced with "_x". A trailing
// underscore is followed by an "x".
func NodeName(name string) string {
	if name == "" {
		return "_x"
	}
	var sb strings.Builder
	sb.Grow(len(name) + 1)
	if c := name[0]; c >= '0' && c <= '9' {
		sb.WriteByte('_')
	}
	for _, r := range name {
		isAlnum := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if isAlnum || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	s := sb.String()
	if _, reserved := glslReserved[s]; reserved || strings.HasPrefix(s, "gl_") {
		s = "_" + s
	}
	if strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "_", "_x")
	}
	if strings.HasSuffix(s, "_") {
		s += "x" // Generated names append "_suffix".
	}
	return s
}
