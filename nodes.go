package glnode

import (
	"github.com/soypat/geometry/ms3"
)

// NewNode adds a node of the given kind with default sockets and default
// parameters to the graph. Prefer the kind specific constructors which take
// the node's parameters as arguments.
func (bld *Builder) NewNode(kind Kind, name string) *Node {
	if !kind.IsValid() {
		bld.schemaErrorf("invalid node kind %s for %q", kind, name)
		return nil
	}
	var params Params
	switch kind {
	case KindVectorCurve:
		params = IdentityCurveMapping()
	case KindBump:
		params = &BumpParams{}
	case KindMapping:
		params = &MappingParams{}
	case KindVectorTransform:
		params = &VectorTransformParams{Type: VectorVector, ConvertFrom: SpaceWorld, ConvertTo: SpaceObject}
	case KindNormalMap:
		params = &NormalMapParams{Space: SpaceTangent}
	case KindMath:
		params = &MathParams{}
	case KindVectorMath:
		params = &VectorMathParams{}
	case KindTexImage:
		params = &TexImageParams{}
	}
	n := bld.newNode(name, kind, params)
	addDefaultSockets(n)
	return n
}

// addDefaultSockets adds Blender's default sockets of the node kind.
func addDefaultSockets(n *Node) {
	var zero ms3.Vec
	in := func(name string, tp SocketType, v float32, vec ms3.Vec) { n.addSocket(false, name, tp, v, vec) }
	out := func(name string, tp SocketType) { n.addSocket(true, name, tp, 0, zero) }
	switch n.Kind {
	case KindVectorCurve:
		in("Fac", SocketValue, 1, zero)
		in("Vector", SocketVector, 0, zero)
		out("Vector", SocketVector)
	case KindBump:
		in("Strength", SocketValue, 1, zero)
		in("Distance", SocketValue, 1, zero)
		in("Height", SocketValue, 1, zero)
		in("Normal", SocketVector, 0, zero)
		out("Normal", SocketVector)
	case KindMapping:
		in("Vector", SocketVector, 0, zero)
		in("Location", SocketVector, 0, zero)
		in("Rotation", SocketVector, 0, zero)
		in("Scale", SocketVector, 0, ms3.Vec{X: 1, Y: 1, Z: 1})
		out("Vector", SocketVector)
	case KindNormal:
		in("Normal", SocketVector, 0, ms3.Vec{Z: 1})
		out("Normal", SocketVector)
		out("Dot", SocketValue)
		n.Outputs[0].Vec = ms3.Vec{Z: 1}
	case KindNormalMap:
		in("Strength", SocketValue, 1, zero)
		in("Color", SocketColor, 0, ms3.Vec{X: 0.5, Y: 0.5, Z: 1})
		out("Normal", SocketVector)
	case KindVectorTransform:
		in("Vector", SocketVector, 0, ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
		out("Vector", SocketVector)
	case KindDisplacement:
		in("Height", SocketValue, 0, zero)
		in("Midlevel", SocketValue, 0.5, zero)
		in("Scale", SocketValue, 1, zero)
		in("Normal", SocketVector, 0, zero)
		out("Displacement", SocketVector)
	case KindValue:
		out("Value", SocketValue)
	case KindRGB:
		out("Color", SocketColor)
	case KindTexCoord:
		out("Generated", SocketVector)
		out("Normal", SocketVector)
		out("UV", SocketVector)
		out("Object", SocketVector)
	case KindMath:
		in("Value", SocketValue, 0.5, zero)
		in("Value_001", SocketValue, 0.5, zero)
		out("Value", SocketValue)
	case KindVectorMath:
		in("Vector", SocketVector, 0, zero)
		in("Vector_001", SocketVector, 0, zero)
		out("Vector", SocketVector)
		out("Value", SocketValue)
	case KindCombineXYZ:
		in("X", SocketValue, 0, zero)
		in("Y", SocketValue, 0, zero)
		in("Z", SocketValue, 0, zero)
		out("Vector", SocketVector)
	case KindSeparateXYZ:
		in("Vector", SocketVector, 0, zero)
		out("X", SocketValue)
		out("Y", SocketValue)
		out("Z", SocketValue)
	case KindTexNoise:
		in("Vector", SocketVector, 0, zero)
		in("Scale", SocketValue, 5, zero)
		out("Fac", SocketValue)
		out("Color", SocketColor)
	case KindTexImage:
		in("Vector", SocketVector, 0, zero)
		out("Color", SocketColor)
		out("Alpha", SocketValue)
	case KindOutputMaterial:
		in("Surface", SocketShader, 0, zero)
		in("Volume", SocketShader, 0, zero)
		in("Displacement", SocketVector, 0, zero)
	}
}

// NewVectorCurve adds a vector curve node. A nil mapping uses [IdentityCurveMapping].
func (bld *Builder) NewVectorCurve(name string, mapping *CurveMapping) *Node {
	n := bld.NewNode(KindVectorCurve, name)
	if mapping != nil {
		if err := mapping.validate(); err != nil {
			bld.schemaErrorf("vector curve %q: %s", name, err)
		}
		n.Params = mapping
	}
	return n
}

// NewBump adds a bump node which perturbs a normal using a height input.
func (bld *Builder) NewBump(name string, invert bool) *Node {
	n := bld.NewNode(KindBump, name)
	n.Params = &BumpParams{Invert: invert}
	return n
}

// NewMapping adds a mapping node that transforms its Vector input by its Location, Rotation and Scale inputs.
func (bld *Builder) NewMapping(name string, vectorType VectorType) *Node {
	n := bld.NewNode(KindMapping, name)
	n.Params = &MappingParams{VectorType: vectorType}
	return n
}

// NewNormal adds a normal node whose Normal output is the argument normal.
func (bld *Builder) NewNormal(name string, normal ms3.Vec) *Node {
	n := bld.NewNode(KindNormal, name)
	n.Outputs[0].Vec = normal
	return n
}

// NewNormalMap adds a normal map node.
func (bld *Builder) NewNormalMap(name string, space Space, uvMap string) *Node {
	n := bld.NewNode(KindNormalMap, name)
	n.Params = &NormalMapParams{Space: space, UVMap: uvMap}
	return n
}

// NewVectorTransform adds a vector transform node.
func (bld *Builder) NewVectorTransform(name string, params VectorTransformParams) *Node {
	if err := params.validate(); err != nil {
		bld.schemaErrorf("vector transform %q: %s", name, err)
	}
	n := bld.NewNode(KindVectorTransform, name)
	n.Params = &params
	return n
}

// NewDisplacement adds a displacement node.
func (bld *Builder) NewDisplacement(name string) *Node {
	return bld.NewNode(KindDisplacement, name)
}

// NewValue adds a value input node.
func (bld *Builder) NewValue(name string, v float32) *Node {
	if !finite(v) {
		bld.schemaErrorf("value node %q: non-finite value %v", name, v)
	}
	n := bld.NewNode(KindValue, name)
	n.Outputs[0].Value = v
	return n
}

// NewRGB adds a color input node.
func (bld *Builder) NewRGB(name string, color ms3.Vec) *Node {
	n := bld.NewNode(KindRGB, name)
	n.Outputs[0].Vec = color
	return n
}

// NewTexCoord adds a texture coordinate input node.
func (bld *Builder) NewTexCoord(name string) *Node {
	return bld.NewNode(KindTexCoord, name)
}

// NewMath adds a scalar math node.
func (bld *Builder) NewMath(name string, op MathOp, clamp bool) *Node {
	n := bld.NewNode(KindMath, name)
	n.Params = &MathParams{Op: op, Clamp: clamp}
	return n
}

// NewVectorMath adds a vector math node.
func (bld *Builder) NewVectorMath(name string, op VectorMathOp) *Node {
	n := bld.NewNode(KindVectorMath, name)
	n.Params = &VectorMathParams{Op: op}
	return n
}

// NewCombineXYZ adds a node that combines three scalars into a vector.
func (bld *Builder) NewCombineXYZ(name string) *Node {
	return bld.NewNode(KindCombineXYZ, name)
}

// NewSeparateXYZ adds a node that splits a vector into its components.
func (bld *Builder) NewSeparateXYZ(name string) *Node {
	return bld.NewNode(KindSeparateXYZ, name)
}

// NewTexNoise adds a procedural noise texture node.
func (bld *Builder) NewTexNoise(name string) *Node {
	return bld.NewNode(KindTexNoise, name)
}

// NewTexImage adds an image texture node sampling image.
func (bld *Builder) NewTexImage(name, image string) *Node {
	if image == "" {
		bld.schemaErrorf("image texture %q: empty image", name)
	}
	n := bld.NewNode(KindTexImage, name)
	n.Params = &TexImageParams{Image: image}
	return n
}

// NewOutputMaterial adds a material output node.
func (bld *Builder) NewOutputMaterial(name string) *Node {
	return bld.NewNode(KindOutputMaterial, name)
}
