package glparse

import (
	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild/glsllib"
)

// NormalPerturber applies a color normal map to the normal variable of the
// fragment stage by emitting statements through st. color and strength are the
// normal map node's input sockets.
type NormalPerturber interface {
	PerturbNormal(st *State, node *glnode.Node, color, strength *glnode.Socket) error
}

// NormalPerturberFunc adapts a function to a [NormalPerturber].
type NormalPerturberFunc func(st *State, node *glnode.Node, color, strength *glnode.Socket) error

func (fn NormalPerturberFunc) PerturbNormal(st *State, node *glnode.Node, color, strength *glnode.Socket) error {
	return fn(st, node, color, strength)
}

// DefaultPerturber returns the perturber used when [Config.Perturber] is nil.
// With exportTangents the fragment stage receives a TBN matrix input,
// otherwise a cotangent frame is computed from screen space derivatives.
func DefaultPerturber(exportTangents bool) NormalPerturber {
	if exportTangents {
		return NormalPerturberFunc(perturbTangent)
	}
	return NormalPerturberFunc(perturbCotangent)
}

func perturbCotangent(st *State, node *glnode.Node, color, strength *glnode.Socket) error {
	name := glnode.NodeName(node.Name)
	sh := st.Current()
	if sh.IsDeclared(name + "_texn") {
		return nil // Already applied to the normal.
	}
	err := sh.AddFunction(glsllib.CotangentFrame())
	if err != nil {
		return err
	}
	texn, err := sampledNormal(st, name, color, strength)
	if err != nil {
		return err
	}
	sh.AddIn("vec3 vVec")
	sh.AddIn("vec2 texCoord")
	n := st.NormalVar()
	sh.Writef("%s.y = -%s.y;", texn, texn)
	sh.Writef("mat3 %s_TBN = cotangentFrame(%s, -vVec, texCoord);", name, n)
	sh.Writef("%s = normalize(%s_TBN * normalize(%s));", n, name, texn)
	return nil
}

func perturbTangent(st *State, node *glnode.Node, color, strength *glnode.Socket) error {
	name := glnode.NodeName(node.Name)
	sh := st.Current()
	if sh.IsDeclared(name + "_texn") {
		return nil
	}
	texn, err := sampledNormal(st, name, color, strength)
	if err != nil {
		return err
	}
	sh.AddIn("mat3 TBN")
	n := st.NormalVar()
	sh.Writef("%s = normalize(TBN * %s);", n, texn)
	return nil
}

// sampledNormal declares the tangent space normal decoded from color and scaled
// by strength. It returns the declared variable name.
func sampledNormal(st *State, name string, color, strength *glnode.Socket) (string, error) {
	col, err := st.ResolveVector(color)
	if err != nil {
		return "", err
	}
	s, err := st.ResolveValue(strength)
	if err != nil {
		return "", err
	}
	texn := name + "_texn"
	sh := st.Current()
	_, err = sh.WriteDecl(texn, "vec3 "+texn+" = "+paren(col)+" * 2.0 - 1.0;")
	if err != nil {
		return "", err
	}
	if s != "1.0" {
		sh.Writef("%s.xy *= %s;", texn, paren(s))
	}
	return texn, nil
}
