package glbuild

import (
	"fmt"
	"strings"
)

// Stage is a phase of the graphics pipeline with its own generated source.
type Stage uint8

const (
	StageVertex Stage = iota
	StageTessControl
	StageTessEval
	StageGeometry
	StageFragment
	stageLast
)

var stageNames = [stageLast]string{
	StageVertex:      "vertex",
	StageTessControl: "tess_control",
	StageTessEval:    "tess_evaluation",
	StageGeometry:    "geometry",
	StageFragment:    "fragment",
}

// String returns the stage name as used in the "#shader <stage>" directive.
func (s Stage) String() string {
	if s < stageLast {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// ParseStage parses a stage name. Short names "vert", "tesc", "tese", "geom" and "frag" are accepted.
func ParseStage(s string) (Stage, error) {
	switch s {
	case "vert":
		return StageVertex, nil
	case "tesc":
		return StageTessControl, nil
	case "tese":
		return StageTessEval, nil
	case "geom":
		return StageGeometry, nil
	case "frag":
		return StageFragment, nil
	}
	for i, name := range stageNames {
		if name == s {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shader stage %q", s)
}

// Shader is the emission buffer of a single shader stage. Statement lines are
// appended in the order they are produced and are never removed.
//
// Besides the main body a Shader records the stage inputs, uniforms and helper
// functions the statements depend on. These are de-duplicated.
type Shader struct {
	stage    Stage
	lines    []string
	declared map[string]string
	ins      []string
	uniforms []string
	funcs    []ShaderFunction
}

// NewShader returns an empty emission buffer for stage.
func NewShader(stage Stage) *Shader {
	return &Shader{stage: stage, declared: make(map[string]string)}
}

// Stage returns the shader's stage.
func (sh *Shader) Stage() Stage { return sh.stage }

// Write appends a statement line to the body.
func (sh *Shader) Write(line string) {
	sh.lines = append(sh.lines, line)
}

// Writef appends a formatted statement line to the body.
func (sh *Shader) Writef(format string, args ...any) {
	sh.lines = append(sh.lines, fmt.Sprintf(format, args...))
}

// WriteDecl appends line only if no declaration named name has been written
// to this shader. It reports whether the line was appended. Declaring name
// again with a different line is an error.
func (sh *Shader) WriteDecl(name, line string) (bool, error) {
	got, ok := sh.declared[name]
	if ok && got != line {
		return false, fmt.Errorf("%s shader: conflicting declarations of %q: %q and %q", sh.stage, name, got, line)
	} else if ok {
		return false, nil
	}
	sh.declared[name] = line
	sh.lines = append(sh.lines, line)
	return true, nil
}

// IsDeclared reports whether a declaration named name was written with [Shader.WriteDecl].
func (sh *Shader) IsDeclared(name string) bool {
	_, ok := sh.declared[name]
	return ok
}

// Lines returns the body statements. The returned slice must not be modified.
func (sh *Shader) Lines() []string { return sh.lines }

// Len returns the number of body statements.
func (sh *Shader) Len() int { return len(sh.lines) }

// AddIn declares a stage input such as "vec2 texCoord".
func (sh *Shader) AddIn(decl string) { sh.ins = appendUnique(sh.ins, decl) }

// AddUniform declares a uniform such as "sampler2D albedo".
func (sh *Shader) AddUniform(decl string) { sh.uniforms = appendUnique(sh.uniforms, decl) }

// Ins returns the declared stage inputs.
func (sh *Shader) Ins() []string { return sh.ins }

// Uniforms returns the declared uniforms.
func (sh *Shader) Uniforms() []string { return sh.uniforms }

// AddFunction adds a helper function the body depends on. Adding a function
// with the same name and source as an existing one is a no-op; same name with
// different source is an error.
func (sh *Shader) AddFunction(fn ShaderFunction) error {
	if err := fn.Validate(); err != nil {
		return err
	}
	for _, got := range sh.funcs {
		if got.Name() != fn.Name() {
			continue
		} else if got.Source() == fn.Source() {
			return nil
		}
		return fmt.Errorf("%s shader: conflicting definitions of function %q", sh.stage, fn.Name())
	}
	sh.funcs = append(sh.funcs, fn)
	return nil
}

// Functions returns the helper functions added to the shader.
func (sh *Shader) Functions() []ShaderFunction { return sh.funcs }

// AppendBody appends the body statements to b, one per line and indented by a tab.
func (sh *Shader) AppendBody(b []byte) []byte {
	for _, line := range sh.lines {
		b = append(b, '\t')
		b = append(b, line...)
		b = append(b, '\n')
	}
	return b
}

// String returns the body statements joined by newlines.
func (sh *Shader) String() string { return strings.Join(sh.lines, "\n") }

func appendUnique(dst []string, s string) []string {
	for _, got := range dst {
		if got == s {
			return dst
		}
	}
	return append(dst, s)
}
