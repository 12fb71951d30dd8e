//go:build !tinygo && cgo

package glcheck

import (
	"bytes"
	"errors"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/glnode/glbuild"
)

// Init1x1GLFW starts a 1x1 sized GLFW window so that shaders can be compiled.
// It returns a termination function that should be called when done compiling.
// Must be called from the main thread.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "glcheck",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// CompileFragment compiles and links the fragment stage frag with a passthrough vertex stage.
// The returned error contains the driver's compile log and the fragment source.
func CompileFragment(frag *glbuild.Shader) error {
	src, err := CombinedSource(frag)
	if err != nil {
		return err
	}
	combinedSource, err := glgl.ParseCombined(bytes.NewReader(src))
	if err != nil {
		return err
	}
	prog, err := glgl.CompileProgram(combinedSource)
	if err != nil {
		return errors.New(string(combinedSource.Fragment) + "\n" + err.Error())
	}
	prog.Delete()
	return nil
}

// GLSLVersion returns the shading language version string reported by the driver.
func GLSLVersion() string {
	return gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
}
