package glnode

import (
	"errors"
	"fmt"
)

// Params is the kind-specific parameter payload of a [Node]. The set of
// implementations is closed: *CurveMapping, *BumpParams, *MappingParams,
// *VectorTransformParams, *NormalMapParams, *MathParams, *VectorMathParams
// and *TexImageParams.
type Params interface {
	// ParamsKind returns the node kind the parameters belong to.
	ParamsKind() Kind
	validate() error
}

var (
	_ Params = (*CurveMapping)(nil)
	_ Params = (*BumpParams)(nil)
	_ Params = (*MappingParams)(nil)
	_ Params = (*VectorTransformParams)(nil)
	_ Params = (*NormalMapParams)(nil)
	_ Params = (*MathParams)(nil)
	_ Params = (*VectorMathParams)(nil)
	_ Params = (*TexImageParams)(nil)
)

// BumpParams are the parameters of a bump node.
type BumpParams struct {
	// Invert swaps which pair of directional height samples is positive.
	Invert bool
}

func (*BumpParams) ParamsKind() Kind { return KindBump }
func (*BumpParams) validate() error { return nil }

// VectorType selects how a vector is interpreted by mapping and vector transform nodes.
type VectorType uint8

const (
	VectorPoint VectorType = iota
	VectorTexture
	VectorVector
	VectorNormal
)

var vectorTypeNames = []string{"POINT", "TEXTURE", "VECTOR", "NORMAL"}

func (vt VectorType) String() string { return enumString(vectorTypeNames, vt) }

// ParseVectorType parses Blender's vector type enum identifiers such as "TEXTURE".
func ParseVectorType(s string) (VectorType, error) {
	return parseEnum[VectorType](vectorTypeNames, s, "vector type")
}

// MappingParams are the parameters of a mapping node.
type MappingParams struct {
	VectorType VectorType
}

func (*MappingParams) ParamsKind() Kind { return KindMapping }
func (mp *MappingParams) validate() error {
	if int(mp.VectorType) >= len(vectorTypeNames) {
		return fmt.Errorf("invalid mapping vector type %d", mp.VectorType)
	}
	return nil
}

// Space is a coordinate space used by vector transform and normal map nodes.
type Space uint8

const (
	SpaceWorld Space = iota
	SpaceObject
	SpaceCamera
	SpaceTangent
)

var spaceNames = []string{"WORLD", "OBJECT", "CAMERA", "TANGENT"}

func (s Space) String() string { return enumString(spaceNames, s) }

// ParseSpace parses Blender's space enum identifiers such as "OBJECT".
func ParseSpace(s string) (Space, error) {
	return parseEnum[Space](spaceNames, s, "space")
}

// VectorTransformParams are the parameters of a vector transform node.
// They are recorded but not applied during translation: the node is a pass-through.
type VectorTransformParams struct {
	Type        VectorType
	ConvertFrom Space
	ConvertTo   Space
}

func (*VectorTransformParams) ParamsKind() Kind { return KindVectorTransform }
func (vp *VectorTransformParams) validate() error {
	if vp.Type == VectorTexture {
		return errors.New("vector transform does not accept TEXTURE vector type")
	} else if vp.ConvertFrom == SpaceTangent || vp.ConvertTo == SpaceTangent {
		return errors.New("vector transform does not convert tangent space")
	}
	return nil
}

// NormalMapParams are the parameters of a normal map node.
type NormalMapParams struct {
	Space Space
	UVMap string
}

func (*NormalMapParams) ParamsKind() Kind { return KindNormalMap }
func (*NormalMapParams) validate() error { return nil }

// MathOp is the operation of a math node.
type MathOp uint8

const (
	MathAdd MathOp = iota
	MathSubtract
	MathMultiply
	MathDivide
	MathPower
	MathMinimum
	MathMaximum
	MathSine
	MathCosine
	MathAbsolute
	MathSqrt
)

var mathOpNames = []string{"ADD", "SUBTRACT", "MULTIPLY", "DIVIDE", "POWER", "MINIMUM", "MAXIMUM", "SINE", "COSINE", "ABSOLUTE", "SQRT"}

func (op MathOp) String() string { return enumString(mathOpNames, op) }

// IsUnary reports whether the operation uses only the first input.
func (op MathOp) IsUnary() bool { return op >= MathSine && op <= MathSqrt }

// ParseMathOp parses Blender's math operation identifiers such as "MULTIPLY".
func ParseMathOp(s string) (MathOp, error) {
	return parseEnum[MathOp](mathOpNames, s, "math operation")
}

// MathParams are the parameters of a math node.
type MathParams struct {
	Op MathOp
	// Clamp limits the result to the [0, 1] range.
	Clamp bool
}

func (*MathParams) ParamsKind() Kind { return KindMath }
func (mp *MathParams) validate() error {
	if int(mp.Op) >= len(mathOpNames) {
		return fmt.Errorf("invalid math operation %d", mp.Op)
	}
	return nil
}

// VectorMathOp is the operation of a vector math node.
type VectorMathOp uint8

const (
	VectorMathAdd VectorMathOp = iota
	VectorMathSubtract
	VectorMathMultiply
	VectorMathCross
	VectorMathNormalize
	VectorMathDot
	VectorMathLength
)

var vectorMathOpNames = []string{"ADD", "SUBTRACT", "MULTIPLY", "CROSS_PRODUCT", "NORMALIZE", "DOT_PRODUCT", "LENGTH"}

func (op VectorMathOp) String() string { return enumString(vectorMathOpNames, op) }

// IsScalar reports whether the result of the operation is a scalar, written to the Value output.
func (op VectorMathOp) IsScalar() bool { return op == VectorMathDot || op == VectorMathLength }

// ParseVectorMathOp parses Blender's vector math operation identifiers such as "CROSS_PRODUCT".
func ParseVectorMathOp(s string) (VectorMathOp, error) {
	return parseEnum[VectorMathOp](vectorMathOpNames, s, "vector math operation")
}

// VectorMathParams are the parameters of a vector math node.
type VectorMathParams struct {
	Op VectorMathOp
}

func (*VectorMathParams) ParamsKind() Kind { return KindVectorMath }
func (vp *VectorMathParams) validate() error {
	if int(vp.Op) >= len(vectorMathOpNames) {
		return fmt.Errorf("invalid vector math operation %d", vp.Op)
	}
	return nil
}

// TexImageParams are the parameters of an image texture node.
type TexImageParams struct {
	// Image is the image file name. The GLSL sampler name is derived from it.
	Image string
	// Closest disables filtering when sampling.
	Closest bool
}

func (*TexImageParams) ParamsKind() Kind { return KindTexImage }
func (tp *TexImageParams) validate() error {
	if tp.Image == "" {
		return errors.New("image texture without image")
	}
	return nil
}

func enumString[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%T(%d)", v, uint8(v))
}

func parseEnum[T ~uint8](names []string, s, what string) (T, error) {
	for i, name := range names {
		if name == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}
