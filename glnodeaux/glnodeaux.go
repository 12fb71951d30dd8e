package glnodeaux

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
	"github.com/soypat/glnode/glparse"
)

// ExportConfig configures the export of a material's shader stages.
type ExportConfig struct {
	// Fragment receives the fragment stage source. Nil skips writing it.
	Fragment io.Writer
	// TessEval receives the tessellation evaluation stage source of materials
	// that export to that stage. Nil skips writing it.
	TessEval io.Writer
	// ExportTangents selects tangent based normal mapping.
	ExportTangents bool
	// Registry overrides the node parsers. If nil [glparse.DefaultRegistry] is used.
	Registry *glparse.Registry
	Silent   bool
}

// Export translates the material's targets and writes the resulting stages.
// The fragment stage starts by declaring the normal variable n from the
// interpolated world normal input.
func Export(m *Material, cfg ExportConfig) (err error) {
	if cfg.Fragment == nil && cfg.TessEval == nil {
		return errors.New("Export requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	st, err := translate(m, cfg, log)
	if err != nil {
		return err
	}
	return writeStages(st, m, cfg, log)
}

// Translate translates the material's targets without writing them. The
// returned State holds the emission buffer of every stage.
func Translate(m *Material, cfg ExportConfig) (*glparse.State, error) {
	return translate(m, cfg, func(args ...any) {})
}

func translate(m *Material, cfg ExportConfig, log func(args ...any)) (*glparse.State, error) {
	if m == nil || m.Graph == nil {
		return nil, errors.New("nil material")
	}
	watch := stopwatch()
	st := glparse.NewState(glparse.Config{
		Registry:       cfg.Registry,
		Tessellation:   m.NeedsTessellation(),
		ExportTangents: cfg.ExportTangents,
	})
	frag := st.Shader(glbuild.StageFragment)
	frag.AddIn("vec3 wnormal")
	frag.Write("vec3 " + st.NormalVar() + " = normalize(wnormal);")
	_, err := st.Translate(m.Targets...)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", m.Name, err)
	}
	log("translated", m.Name, "in", watch())
	return st, nil
}

func writeStages(st *glparse.State, m *Material, cfg ExportConfig, log func(args ...any)) error {
	prog := glbuild.NewDefaultProgrammer()
	for _, out := range []struct {
		w     io.Writer
		stage glbuild.Stage
	}{
		{w: cfg.Fragment, stage: glbuild.StageFragment},
		{w: cfg.TessEval, stage: glbuild.StageTessEval},
	} {
		sh := st.Shader(out.stage)
		if out.w == nil || sh == nil {
			continue
		}
		watch := stopwatch()
		n, err := prog.WriteShader(out.w, sh)
		if err != nil {
			return fmt.Errorf("writing %s stage of %q: %w", out.stage, m.Name, err)
		}
		filename := out.stage.String() + " GLSL"
		if fp, ok := out.w.(*os.File); ok {
			filename = fp.Name()
		}
		log("wrote", filename, n, "bytes in", watch())
	}
	return nil
}

// ExportAll exports each material to files in dir named after the material
// with "_frag.glsl" and "_tese.glsl" suffixes. A failing material does not
// stop the export of the rest and leaves no files. Materials whose file names
// collide with an earlier material fail. The returned error joins the errors
// of all failed materials.
func ExportAll(dir string, materials []*Material, cfg ExportConfig) error {
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	var errs []error
	exported := make(map[string]string)
	for _, m := range materials {
		base := glnode.NodeName(m.Name)
		var err error
		if other, ok := exported[base]; ok {
			err = fmt.Errorf("material %q: file name %s already used by material %q", m.Name, base, other)
		} else {
			exported[base] = m.Name
			err = exportFiles(filepath.Join(dir, base), m, cfg, log)
		}
		if err != nil {
			log("failed", m.Name+":", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// exportFiles writes the stages of m to files prefixed by base. Created files
// are removed if writing fails.
func exportFiles(base string, m *Material, cfg ExportConfig, log func(args ...any)) error {
	st, err := translate(m, cfg, log)
	if err != nil {
		return err
	}
	names := []string{base + "_frag.glsl"}
	if m.NeedsTessellation() {
		names = append(names, base+"_tese.glsl")
	}
	var created []string
	err = func() (err error) {
		files := make([]*os.File, len(names))
		for i, name := range names {
			files[i], err = os.Create(name)
			if err != nil {
				return err
			}
			created = append(created, name)
			fp := files[i]
			defer func() { err = errors.Join(err, fp.Close()) }()
		}
		cfg.Fragment = files[0]
		cfg.TessEval = nil
		if len(files) > 1 {
			cfg.TessEval = files[1]
		}
		return writeStages(st, m, cfg, log)
	}()
	if err != nil {
		for _, name := range created {
			os.Remove(name)
		}
	}
	return err
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
