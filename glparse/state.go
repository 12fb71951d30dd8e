package glparse

import (
	"fmt"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
)

const (
	defaultNormalVar = "n"
	defaultMaxDepth  = 256
)

// Config configures a translation. The zero value is a valid configuration
// for a fragment-only translation.
type Config struct {
	// Registry maps node kinds to parsers. If nil [DefaultRegistry] is used.
	Registry *Registry
	// Tessellation enables the tessellation evaluation stage.
	Tessellation bool
	// NormalVar is the name of the current normal variable in the fragment stage. Defaults to "n".
	NormalVar string
	// MaxDepth limits resolution recursion depth. Exceeding it is reported as [ErrCyclicGraph]. Defaults to 256.
	MaxDepth int
	// Perturber applies color based normal maps. If nil a default perturber
	// is selected according to ExportTangents.
	Perturber NormalPerturber
	// ExportTangents indicates meshes carry tangents so the fragment stage
	// receives a TBN matrix instead of computing a cotangent frame.
	ExportTangents bool
}

// State is the mutable context threaded through every parser call of a single
// material translation. A State must not be shared between translations.
type State struct {
	cfg    Config
	reg    *Registry
	frag   *glbuild.Shader
	tese   *glbuild.Shader
	cur    *glbuild.Shader
	stages []*glbuild.Shader

	sampleBump    bool
	sampleBumpRes string

	visiting map[*glnode.Node]struct{}
	depth    int
	// samplers maps sampler uniform names to the image they sample.
	samplers map[string]string
}

// NewState returns a State with a fragment stage emission buffer, and a
// tessellation evaluation buffer if cfg.Tessellation is set. The fragment
// stage is active.
func NewState(cfg Config) *State {
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.NormalVar == "" {
		cfg.NormalVar = defaultNormalVar
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = defaultMaxDepth
	}
	if cfg.Perturber == nil {
		cfg.Perturber = DefaultPerturber(cfg.ExportTangents)
	}
	st := &State{
		cfg:      cfg,
		reg:      cfg.Registry,
		frag:     glbuild.NewShader(glbuild.StageFragment),
		visiting: make(map[*glnode.Node]struct{}),
		samplers: make(map[string]string),
	}
	st.stages = append(st.stages, st.frag)
	if cfg.Tessellation {
		st.tese = glbuild.NewShader(glbuild.StageTessEval)
		st.stages = append(st.stages, st.tese)
	}
	st.cur = st.frag
	return st
}

// Config returns the configuration with defaults applied.
func (st *State) Config() Config { return st.cfg }

// Current returns the active emission buffer.
func (st *State) Current() *glbuild.Shader { return st.cur }

// Shader returns the emission buffer of stage or nil if the State has no such stage.
func (st *State) Shader(stage glbuild.Stage) *glbuild.Shader {
	for _, sh := range st.stages {
		if sh.Stage() == stage {
			return sh
		}
	}
	return nil
}

// Shaders returns all emission buffers of the translation.
func (st *State) Shaders() []*glbuild.Shader { return st.stages }

// SetStage makes the emission buffer of stage the active one.
func (st *State) SetStage(stage glbuild.Stage) error {
	sh := st.Shader(stage)
	if sh == nil {
		return fmt.Errorf("translation has no %s stage", stage)
	}
	st.cur = sh
	return nil
}

// IsTessEval reports whether the active buffer is the tessellation evaluation stage.
func (st *State) IsTessEval() bool { return st.tese != nil && st.cur == st.tese }

// Write appends a statement to the active emission buffer.
func (st *State) Write(line string) { st.cur.Write(line) }

// NormalVar returns the name of the current normal variable.
func (st *State) NormalVar() string { return st.cfg.NormalVar }

// SampleBump reports whether the value being resolved is the height input of
// a bump node. Texture parsers seeing this flag emit four directional height
// samples and report them with [State.SetBumpSamples].
func (st *State) SampleBump() bool { return st.sampleBump }

// SetBumpSamples records that directional samples named name_1 to name_4 were
// emitted for the bump node being resolved. Sampling mode ends.
func (st *State) SetBumpSamples(name string) {
	st.sampleBumpRes = name
	st.sampleBump = false
}

// BumpSamples returns the pending directional samples name or the empty string.
func (st *State) BumpSamples() string { return st.sampleBumpRes }

// bindSampler records that sampler samples image. Binding a sampler to two
// different images is an error.
func (st *State) bindSampler(sampler, image string) error {
	image = imagePath(image)
	if got, ok := st.samplers[sampler]; ok && got != image {
		return fmt.Errorf("%w: images %q and %q both map to sampler %s", ErrSamplerConflict, got, image, sampler)
	}
	st.samplers[sampler] = image
	return nil
}
