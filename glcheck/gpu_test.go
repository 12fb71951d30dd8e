//go:build !tinygo && cgo

package glcheck_test

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
	"github.com/soypat/glnode/glcheck"
	"github.com/soypat/glnode/glparse"
)

// GL calls must be made from the main thread so GPU tests run from TestMain.
func TestMain(m *testing.M) {
	runtime.LockOSThread()
	var exit int
	err := testCompileGPU()
	if err != nil {
		exit = 1
		log.Println(err)
	}
	runtime.UnlockOSThread()
	os.Exit(m.Run() | exit)
}

func testCompileGPU() error {
	term, err := glcheck.Init1x1GLFW()
	if err != nil {
		log.Println("skipping GPU compile tests:", err)
		return nil
	}
	defer term()
	log.Println("GLFW", glfw.GetVersionString(), "GLSL", glcheck.GLSLVersion())

	var errs []error
	for _, tangents := range []bool{false, true} {
		var bld glnode.Builder
		coord := bld.NewTexCoord("coord")
		mapping := bld.NewMapping("map", glnode.VectorTexture)
		bld.SetVec(mapping, "Rotation", ms3.Vec{Z: 0.5})
		noise := bld.NewTexNoise("noise")
		bump := bld.NewBump("bump", false)
		img := bld.NewTexImage("img", "normal.png")
		nmap := bld.NewNormalMap("nmap", glnode.SpaceTangent, "")
		bld.SetValue(nmap, "Strength", 0.5)
		curve := bld.NewVectorCurve("curve", nil)
		bld.Link(coord, "UV", mapping, "Vector")
		bld.Link(mapping, "Vector", noise, "Vector")
		bld.Link(noise, "Fac", bump, "Height")
		bld.Link(mapping, "Vector", curve, "Vector")
		bld.Link(img, "Color", nmap, "Color")

		st := glparse.NewState(glparse.Config{ExportTangents: tangents})
		frag := st.Shader(glbuild.StageFragment)
		frag.AddIn("vec3 wnormal")
		frag.Write("vec3 n = normalize(wnormal);")
		_, err := st.Translate(
			glparse.Target{Stage: glbuild.StageFragment, Socket: nmap.Outputs[0]},
			glparse.Target{Stage: glbuild.StageFragment, Socket: bump.Outputs[0], Assign: "n"},
			glparse.Target{Stage: glbuild.StageFragment, Socket: curve.Outputs[0], Assign: "n"},
		)
		if err != nil {
			return err
		}
		err = glcheck.CompileFragment(frag)
		if err != nil {
			errs = append(errs, fmt.Errorf("tangents=%v: %w", tangents, err))
		}
	}
	return errors.Join(errs...)
}
