package glsllib

import (
	_ "embed"

	"github.com/soypat/glnode/glbuild"
)

//go:embed normals.glsl
var cotangentFrameSrc []byte

// CotangentFrame computes a tangent frame from screen-space derivatives for normal mapping
// when mesh tangents are not available:
//
//	mat3 cotangentFrame(const vec3 n, const vec3 p, const vec2 duv)
func CotangentFrame() glbuild.ShaderFunction {
	obj, _ := glbuild.MakeShaderFunction(cotangentFrameSrc)
	return obj
}

//go:embed noise.glsl
var noiseSrc []byte

// Noise3D is a value noise in the [0, 1) range used by noise texture nodes:
//
//	float tex_noise(vec3 p)
func Noise3D() glbuild.ShaderFunction {
	obj, _ := glbuild.MakeShaderFunction(noiseSrc)
	return obj
}
