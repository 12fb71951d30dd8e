package glparse

import (
	"fmt"
	"path"
	"strings"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild/glsllib"
)

// Directional offsets of bump height samples in texture coordinate space.
var bumpOffsets = [4]string{
	"vec3(-0.001, 0.0, 0.0)",
	"vec3(0.001, 0.0, 0.0)",
	"vec3(0.0, -0.001, 0.0)",
	"vec3(0.0, 0.001, 0.0)",
}

// Texel offsets of bump height samples of image textures.
var bumpTexelOffsets = [4]string{"ivec2(-2, 0)", "ivec2(2, 0)", "ivec2(0, -2)", "ivec2(0, 2)"}

// SamplerName returns the GLSL sampler uniform name of an image file.
func SamplerName(image string) string {
	base := path.Base(imagePath(image))
	return glnode.NodeName(strings.TrimSuffix(base, path.Ext(base)))
}

// imagePath returns image as a clean slash separated path.
func imagePath(image string) string {
	return path.Clean(strings.ReplaceAll(image, "\\", "/"))
}

func parseTexNoise(st *State, node *glnode.Node, out int) (string, error) {
	if out != 0 && out != 1 {
		return "", fmt.Errorf("%w: output index %d", ErrMissingSocket, out)
	}
	vecIn, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	scaleIn, err := requireInput(node, "Scale")
	if err != nil {
		return "", err
	}
	sh := st.Current()
	co := inTexCoordGen
	if vecIn.IsLinked() {
		co, err = st.ResolveVector(vecIn)
		if err != nil {
			return "", err
		}
	} else {
		sh.AddIn("vec3 " + inTexCoordGen)
	}
	scale, err := st.ResolveValue(scaleIn)
	if err != nil {
		return "", err
	}
	err = sh.AddFunction(glsllib.Noise3D())
	if err != nil {
		return "", err
	}
	p := paren(co) + " * " + paren(scale)
	if st.SampleBump() {
		res := glnode.NodeName(node.Name) + "_bump"
		for i, off := range bumpOffsets {
			v := fmt.Sprintf("%s_%d", res, i+1)
			_, err = sh.WriteDecl(v, fmt.Sprintf("float %s = tex_noise(%s + %s);", v, p, off))
			if err != nil {
				return "", err
			}
		}
		st.SetBumpSamples(res)
	}
	if out == 1 {
		return "vec3(tex_noise(" + p + "), tex_noise(" + p + " + vec3(33.0)), tex_noise(" + p + " + vec3(71.0)))", nil
	}
	return "tex_noise(" + p + ")", nil
}

func parseTexImage(st *State, node *glnode.Node, out int) (string, error) {
	if out != 0 && out != 1 {
		return "", fmt.Errorf("%w: output index %d", ErrMissingSocket, out)
	}
	params, _ := node.Params.(*glnode.TexImageParams)
	if params == nil || params.Image == "" {
		return "", fmt.Errorf("%w: image texture without image", ErrMissingSocket)
	}
	vecIn, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	sh := st.Current()
	uv := inTexCoord + ".xy"
	if vecIn.IsLinked() {
		v, err := st.ResolveVector(vecIn)
		if err != nil {
			return "", err
		}
		uv = paren(v) + ".xy"
	} else {
		sh.AddIn("vec2 " + inTexCoord)
	}
	sampler := SamplerName(params.Image)
	err = st.bindSampler(sampler, params.Image)
	if err != nil {
		return "", err
	}
	sh.AddUniform("sampler2D " + sampler)

	store := glnode.NodeName(node.Name) + "_store"
	if st.SampleBump() {
		for i, off := range bumpTexelOffsets {
			v := fmt.Sprintf("%s_%d", store, i+1)
			_, err = sh.WriteDecl(v, fmt.Sprintf("float %s = textureOffset(%s, %s, %s).r;", v, sampler, uv, off))
			if err != nil {
				return "", err
			}
		}
		st.SetBumpSamples(store)
	}
	decl := fmt.Sprintf("vec4 %s = texture(%s, %s);", store, sampler, uv)
	if params.Closest {
		decl = fmt.Sprintf("vec4 %s = texelFetch(%[2]s, ivec2(%[3]s * vec2(textureSize(%[2]s, 0))), 0);", store, sampler, uv)
	}
	_, err = sh.WriteDecl(store, decl)
	if err != nil {
		return "", err
	}
	if out == 1 {
		return store + ".a", nil
	}
	return store + ".rgb", nil
}
