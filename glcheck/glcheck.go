// Package glcheck compiles generated shader stages with the OpenGL driver
// to catch GLSL errors the translator cannot detect. GPU functions require cgo.
package glcheck

import (
	"bytes"
	"errors"
	"strings"

	"github.com/soypat/glnode/glbuild"
)

// CombinedSource returns a combined "#shader" source of the fragment stage frag
// preceded by a vertex stage that writes a zero value to every input of frag.
func CombinedSource(frag *glbuild.Shader) ([]byte, error) {
	if frag == nil || frag.Stage() != glbuild.StageFragment {
		return nil, errors.New("CombinedSource requires fragment stage shader")
	}
	var buf bytes.Buffer
	buf.Write(appendPassthroughVertex(nil, frag.Ins()))
	_, err := glbuild.NewDefaultProgrammer().WriteShader(&buf, frag)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendPassthroughVertex(b []byte, ins []string) []byte {
	b = append(b, "#shader vertex\n"...)
	b = append(b, glbuild.VersionStr...)
	for _, in := range ins {
		b = append(b, "out "...)
		b = append(b, in...)
		b = append(b, ";\n"...)
	}
	b = append(b, "\nvoid main() {\n"...)
	for _, in := range ins {
		typ, name, ok := strings.Cut(in, " ")
		if !ok {
			continue
		}
		b = append(b, '\t')
		b = append(b, name...)
		b = append(b, " = "...)
		b = append(b, typ...)
		b = append(b, "(0.0);\n"...)
	}
	b = append(b, "\tgl_Position = vec4(0.0, 0.0, 0.0, 1.0);\n}\n"...)
	return b
}
