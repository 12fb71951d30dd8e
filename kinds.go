package glnode

import "fmt"

// Kind is the type tag of a shader node.
type Kind uint8

const (
	kindInvalid Kind = iota
	// Vector nodes.
	KindVectorCurve
	KindBump
	KindMapping
	KindNormal
	KindNormalMap
	KindVectorTransform
	KindDisplacement
	// Input nodes.
	KindValue
	KindRGB
	KindTexCoord
	// Converter nodes.
	KindMath
	KindVectorMath
	KindCombineXYZ
	KindSeparateXYZ
	// Texture nodes.
	KindTexNoise
	KindTexImage
	// Output nodes.
	KindOutputMaterial
	kindLast
)

var kindIdnames = [kindLast]string{
	kindInvalid:         "",
	KindVectorCurve:     "ShaderNodeVectorCurve",
	KindBump:            "ShaderNodeBump",
	KindMapping:         "ShaderNodeMapping",
	KindNormal:          "ShaderNodeNormal",
	KindNormalMap:       "ShaderNodeNormalMap",
	KindVectorTransform: "ShaderNodeVectorTransform",
	KindDisplacement:    "ShaderNodeDisplacement",
	KindValue:           "ShaderNodeValue",
	KindRGB:             "ShaderNodeRGB",
	KindTexCoord:        "ShaderNodeTexCoord",
	KindMath:            "ShaderNodeMath",
	KindVectorMath:      "ShaderNodeVectorMath",
	KindCombineXYZ:      "ShaderNodeCombineXYZ",
	KindSeparateXYZ:     "ShaderNodeSeparateXYZ",
	KindTexNoise:        "ShaderNodeTexNoise",
	KindTexImage:        "ShaderNodeTexImage",
	KindOutputMaterial:  "ShaderNodeOutputMaterial",
}

// String returns the Blender idname of the node kind, i.e: "ShaderNodeMapping".
func (k Kind) String() string {
	if k.IsValid() {
		return kindIdnames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsValid reports whether k is a known node kind.
func (k Kind) IsValid() bool { return k > kindInvalid && k < kindLast }

// Kinds returns all valid node kinds.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindLast-1)
	for k := kindInvalid + 1; k < kindLast; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind returns the Kind matching a Blender node idname.
func ParseKind(idname string) (Kind, error) {
	for k := kindInvalid + 1; k < kindLast; k++ {
		if kindIdnames[k] == idname {
			return k, nil
		}
	}
	return kindInvalid, fmt.Errorf("unknown node kind %q", idname)
}
