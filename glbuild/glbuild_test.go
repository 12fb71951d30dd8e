package glbuild_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glnode/glbuild"
	"github.com/soypat/glnode/glbuild/glsllib"
)

func TestAppendFloat(t *testing.T) {
	for _, test := range []struct {
		v    float32
		want string
	}{
		{v: 0, want: "0.0"},
		{v: 1, want: "1.0"},
		{v: 2, want: "2.0"},
		{v: 0.5, want: "0.5"},
		{v: -1.5, want: "-1.5"},
		{v: 0.1, want: "0.1"},
		{v: 1e-3, want: "0.001"},
		{v: 1234567, want: "1234567.0"},
	} {
		got := string(glbuild.AppendFloat(nil, test.v))
		if got != test.want {
			t.Errorf("AppendFloat(%v): want %q, got %q", test.v, test.want, got)
		}
	}
}

func TestAppendVec3(t *testing.T) {
	got := glbuild.FormatVec3(ms3.Vec{X: 0, Y: 0.5, Z: -1})
	const want = "vec3(0.0, 0.5, -1.0)"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestAppendFloatSliceDecl(t *testing.T) {
	got := string(glbuild.AppendFloatSliceDecl(nil, "c_ys", []float32{0, 0.25, 1}))
	const want = "float c_ys[3] = float[3](0.0, 0.25, 1.0);"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestShaderWriteDecl(t *testing.T) {
	sh := glbuild.NewShader(glbuild.StageFragment)
	if ok, err := sh.WriteDecl("a", "float a = 1.0;"); err != nil || !ok {
		t.Fatalf("first declaration not written: %v", err)
	}
	if ok, err := sh.WriteDecl("a", "float a = 1.0;"); err != nil || ok {
		t.Errorf("repeated declaration written=%v err=%v", ok, err)
	}
	if ok, err := sh.WriteDecl("a", "float a = 2.0;"); err == nil || ok {
		t.Error("conflicting declaration accepted")
	}
	sh.Write("a *= 2.0;")
	if sh.Len() != 2 {
		t.Fatalf("want 2 lines, got %d: %q", sh.Len(), sh.Lines())
	}
	if sh.Lines()[0] != "float a = 1.0;" || sh.Lines()[1] != "a *= 2.0;" {
		t.Errorf("emission order not preserved: %q", sh.Lines())
	}
}

func TestShaderFunctionDeduplication(t *testing.T) {
	sh := glbuild.NewShader(glbuild.StageFragment)
	noise := glsllib.Noise3D()
	if noise.Name() != "tex_noise" {
		t.Fatalf("want tex_noise function name, got %q", noise.Name())
	}
	for i := 0; i < 2; i++ {
		if err := sh.AddFunction(noise); err != nil {
			t.Fatal(err)
		}
	}
	if len(sh.Functions()) != 1 {
		t.Fatalf("want one function, got %d", len(sh.Functions()))
	}
	impostor, err := glbuild.MakeShaderFunction([]byte("float tex_noise(vec3 p) { return 0.0; }"))
	if err != nil {
		t.Fatal(err)
	}
	if err := sh.AddFunction(impostor); err == nil {
		t.Error("expected conflicting function error")
	}
}

func TestMakeShaderFunction(t *testing.T) {
	fn, err := glbuild.MakeShaderFunction([]byte("\n mat3 cotangentFrame(const vec3 n) {}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if fn.Name() != "cotangentFrame" {
		t.Errorf("got name %q", fn.Name())
	}
	_, err = glbuild.MakeShaderFunction([]byte("nofunction"))
	if err == nil {
		t.Error("expected error for source without function")
	}
}

func TestProgrammerWriteShader(t *testing.T) {
	sh := glbuild.NewShader(glbuild.StageFragment)
	sh.AddIn("vec3 wnormal")
	sh.AddIn("vec3 wnormal")
	sh.AddUniform("sampler2D albedo")
	if err := sh.AddFunction(glsllib.CotangentFrame()); err != nil {
		t.Fatal(err)
	}
	sh.Write("vec3 n = normalize(wnormal);")
	sh.Write("n = n * 2.0;")

	var buf bytes.Buffer
	prog := glbuild.NewDefaultProgrammer()
	n, err := prog.WriteShader(&buf, sh)
	if err != nil {
		t.Fatal(err)
	} else if n != buf.Len() {
		t.Fatal("written length mismatch")
	}
	src := buf.String()
	if !strings.HasPrefix(src, "#shader fragment\n"+glbuild.VersionStr) {
		t.Errorf("missing stage header:\n%s", src)
	}
	if strings.Count(src, "in vec3 wnormal;") != 1 {
		t.Errorf("want one input declaration:\n%s", src)
	}
	for _, want := range []string{"uniform sampler2D albedo;", "mat3 cotangentFrame(", "void main() {\n\tvec3 n = normalize(wnormal);\n\tn = n * 2.0;\n}"} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in:\n%s", want, src)
		}
	}
	// Programmer is reusable.
	buf.Reset()
	_, err = prog.WriteShader(&buf, sh)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != src {
		t.Error("second write differs from first")
	}
}

func TestParseStage(t *testing.T) {
	for _, name := range []string{"tese", "tess_evaluation"} {
		stage, err := glbuild.ParseStage(name)
		if err != nil {
			t.Fatal(err)
		} else if stage != glbuild.StageTessEval {
			t.Errorf("%q: got stage %s", name, stage)
		}
	}
	if _, err := glbuild.ParseStage("pixel"); err == nil {
		t.Error("expected error for unknown stage")
	}
}
