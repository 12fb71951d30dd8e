package glparse

import (
	"fmt"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
)

func parseVectorCurve(st *State, node *glnode.Node, out int) (string, error) {
	facIn, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	vecIn, err := inputAt(node, 1)
	if err != nil {
		return "", err
	}
	fac, err := st.ResolveValue(facIn)
	if err != nil {
		return "", err
	}
	vec, err := st.ResolveVector(vecIn)
	if err != nil {
		return "", err
	}
	mapping, _ := node.Params.(*glnode.CurveMapping)
	if mapping == nil {
		mapping = glnode.IdentityCurveMapping()
	}
	name := glnode.NodeName(node.Name)
	v := paren(vec)
	var channels [3]string
	for i := range channels {
		channels[i], err = vectorCurve(st, fmt.Sprintf("%s%d", name, i), v+"."+"xyz"[i:i+1], mapping.Curves[i])
		if err != nil {
			return "", fmt.Errorf("curve %c: %w", "xyz"[i], err)
		}
	}
	return "(vec3(" + channels[0] + ", " + channels[1] + ", " + channels[2] + ") * " + paren(fac) + ")", nil
}

func parseBump(st *State, node *glnode.Node, out int) (string, error) {
	// Sampling mode is scoped to the height resolution of this call.
	st.sampleBump = false
	defer func() { st.sampleBump = false }()
	strengthIn, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	// Input 1 is Distance, which is not used.
	heightIn, err := inputAt(node, 2)
	if err != nil {
		return "", err
	}
	normalIn, err := inputAt(node, 3)
	if err != nil {
		return "", err
	}
	strength, err := st.ResolveValue(strengthIn)
	if err != nil {
		return "", err
	}

	st.sampleBump = true
	_, err = st.ResolveValue(heightIn)
	st.sampleBump = false
	res := st.sampleBumpRes
	st.sampleBumpRes = ""
	if err != nil {
		return "", err
	}

	nor := st.NormalVar()
	if normalIn.IsLinked() {
		nor, err = st.ResolveVector(normalIn)
		if err != nil {
			return "", err
		}
	}
	if res == "" {
		return nor, nil // Height is not a sampled texture, normal is unperturbed.
	}
	params, _ := node.Params.(*glnode.BumpParams)
	ext := [4]string{"2", "1", "4", "3"}
	if params != nil && params.Invert {
		ext = [4]string{"1", "2", "3", "4"}
	}
	// Intermediates belong to the bump node so bumps sharing a height texture
	// keep their own strength and direction.
	b := glnode.NodeName(node.Name)
	sh := st.Current()
	written, err := sh.WriteDecl(b+"_fh1", fmt.Sprintf("float %[1]s_fh1 = %[2]s_%[3]s - %[2]s_%[4]s; float %[1]s_fh2 = %[2]s_%[5]s - %[2]s_%[6]s;", b, res, ext[0], ext[1], ext[2], ext[3]))
	if err != nil {
		return "", err
	} else if written {
		sh.Writef("%[1]s_fh1 *= (%[2]s) * 3.0; %[1]s_fh2 *= (%[2]s) * 3.0;", b, strength)
		sh.Writef("vec3 %[1]s_a = normalize(vec3(2.0, 0.0, %[1]s_fh1));", b)
		sh.Writef("vec3 %[1]s_b = normalize(vec3(0.0, 2.0, %[1]s_fh2));", b)
	}
	return fmt.Sprintf("normalize(mat3(%[1]s_a, %[1]s_b, normalize(vec3(%[1]s_fh1, %[1]s_fh2, 2.0))) * %[2]s)", b, paren(nor)), nil
}

func parseMapping(st *State, node *glnode.Node, out int) (string, error) {
	vecIn, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	locIn, err := requireInput(node, "Location")
	if err != nil {
		return "", err
	}
	rotIn, err := requireInput(node, "Rotation")
	if err != nil {
		return "", err
	}
	scaleIn, err := requireInput(node, "Scale")
	if err != nil {
		return "", err
	}
	var exprs [4]string
	for i, in := range []*glnode.Socket{vecIn, locIn, rotIn, scaleIn} {
		exprs[i], err = st.ResolveVector(in)
		if err != nil {
			return "", err
		}
	}
	vec, location, rotation, scale := exprs[0], exprs[1], exprs[2], exprs[3]
	texture := false
	if params, ok := node.Params.(*glnode.MappingParams); ok {
		// POINT, VECTOR and NORMAL share the point operation order.
		texture = params.VectorType == glnode.VectorTexture
	}

	// Point and vector: scale, rotate, translate. Texture: translate, rotate, scale.
	scaleStep := func(e string) string {
		if !scaleIn.IsLinked() && scaleIn.Vec == (ms3.Vec{X: 1, Y: 1, Z: 1}) {
			return e
		} else if texture {
			return "(" + e + " / " + paren(scale) + ")"
		}
		return "(" + e + " * " + paren(scale) + ")"
	}
	translateStep := func(e string) string {
		if !locIn.IsLinked() && locIn.Vec == (ms3.Vec{}) {
			return e
		} else if texture {
			return "(" + e + " - " + paren(location) + ")"
		}
		return "(" + e + " + " + paren(location) + ")"
	}

	result := vec
	if texture {
		result = translateStep(result)
	} else {
		result = scaleStep(result)
	}
	if rotIn.IsLinked() || rotIn.Vec != (ms3.Vec{}) {
		name := glnode.NodeName(node.Name) + "_rotation"
		r := paren(rotation)
		angle := func(axis string) string {
			if texture {
				return r + "." + axis
			}
			return "-" + r + "." + axis // Points rotate opposite to texture coordinates.
		}
		sh := st.Current()
		ax, ay, az := angle("x"), angle("y"), angle("z")
		for _, decl := range [...][2]string{
			{name + "X", fmt.Sprintf("mat3 %sX = mat3(1.0, 0.0, 0.0, 0.0, cos(%[2]s), sin(%[2]s), 0.0, -sin(%[2]s), cos(%[2]s));", name, ax)},
			{name + "Y", fmt.Sprintf("mat3 %sY = mat3(cos(%[2]s), 0.0, -sin(%[2]s), 0.0, 1.0, 0.0, sin(%[2]s), 0.0, cos(%[2]s));", name, ay)},
			{name + "Z", fmt.Sprintf("mat3 %sZ = mat3(cos(%[2]s), sin(%[2]s), 0.0, -sin(%[2]s), cos(%[2]s), 0.0, 0.0, 0.0, 1.0);", name, az)},
		} {
			if _, err := sh.WriteDecl(decl[0], decl[1]); err != nil {
				return "", err
			}
		}
		// XYZ euler order.
		result = "(" + result + " * " + name + "X * " + name + "Y * " + name + "Z)"
	}
	if texture {
		result = scaleStep(result)
	} else {
		result = translateStep(result)
	}
	return result, nil
}

func parseNormal(st *State, node *glnode.Node, out int) (string, error) {
	stored, err := outputAt(node, 0)
	if err != nil {
		return "", err
	}
	normal := glbuild.FormatVec3(stored.Vec)
	switch out {
	case 0:
		return normal, nil
	case 1:
		norIn, err := inputAt(node, 0)
		if err != nil {
			return "", err
		}
		nor, err := st.ResolveVector(norIn)
		if err != nil {
			return "", err
		}
		return "dot(" + normal + ", " + nor + ")", nil
	}
	return "", fmt.Errorf("%w: output index %d", ErrMissingSocket, out)
}

func parseNormalMap(st *State, node *glnode.Node, out int) (string, error) {
	strengthIn, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	colorIn, err := inputAt(node, 1)
	if err != nil {
		return "", err
	}
	if st.IsTessEval() {
		// Geometry stage normals are not perturbed by color normal maps.
		return st.ResolveVector(colorIn)
	}
	return "", st.cfg.Perturber.PerturbNormal(st, node, colorIn, strengthIn)
}

func parseVectorTransform(st *State, node *glnode.Node, out int) (string, error) {
	// Conversion between spaces is not applied.
	in, err := inputAt(node, 0)
	if err != nil {
		return "", err
	}
	return st.ResolveVector(in)
}

func parseDisplacement(st *State, node *glnode.Node, out int) (string, error) {
	var exprs [4]string
	for i := range exprs {
		in, err := inputAt(node, i)
		if err != nil {
			return "", err
		}
		if i == 3 {
			exprs[i], err = st.ResolveVector(in)
		} else {
			exprs[i], err = st.ResolveValue(in)
		}
		if err != nil {
			return "", err
		}
	}
	// Midlevel and normal are resolved for their side effects only.
	height, scale := exprs[0], exprs[2]
	return "(vec3(" + height + ") * " + paren(scale) + ")", nil
}
