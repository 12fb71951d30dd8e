package glparse

import (
	"fmt"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
)

// Texture coordinate inputs declared by texture coordinate and texture nodes.
const (
	inTexCoord    = "texCoord"
	inTexCoordGen = "texCoordGen"
	inObjectPos   = "mposition"
)

func parseValue(st *State, node *glnode.Node, out int) (string, error) {
	o, err := outputAt(node, out)
	if err != nil {
		return "", err
	}
	return glbuild.FormatFloat(o.Value), nil
}

func parseRGB(st *State, node *glnode.Node, out int) (string, error) {
	o, err := outputAt(node, out)
	if err != nil {
		return "", err
	}
	return glbuild.FormatVec3(o.Vec), nil
}

func parseTexCoord(st *State, node *glnode.Node, out int) (string, error) {
	sh := st.Current()
	switch out {
	case 0: // Generated.
		sh.AddIn("vec3 " + inTexCoordGen)
		return inTexCoordGen, nil
	case 1: // Normal.
		return st.NormalVar(), nil
	case 2: // UV.
		sh.AddIn("vec2 " + inTexCoord)
		return "vec3(" + inTexCoord + ".xy, 0.0)", nil
	case 3: // Object.
		sh.AddIn("vec3 " + inObjectPos)
		return inObjectPos, nil
	}
	return "", fmt.Errorf("%w: output index %d", ErrMissingSocket, out)
}
