//go:build tinygo || !cgo

package glcheck

import (
	"errors"

	"github.com/soypat/glnode/glbuild"
)

var errNoCGO = errors.New("GPU shader compilation requires CGo and is not supported on TinyGo")

// Init1x1GLFW starts a 1x1 sized GLFW window so that shaders can be compiled.
func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

// CompileFragment compiles and links the fragment stage frag with a passthrough vertex stage.
func CompileFragment(frag *glbuild.Shader) error {
	return errNoCGO
}

// GLSLVersion returns the shading language version string reported by the driver.
func GLSLVersion() string { return "" }
