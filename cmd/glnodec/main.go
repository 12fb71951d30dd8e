// Command glnodec translates shader node graphs described in YAML files to GLSL.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/soypat/glnode/glbuild"
	"github.com/soypat/glnode/glcheck"
	"github.com/soypat/glnode/glnodeaux"
	"github.com/soypat/glnode/glparse"
	"github.com/spf13/cobra"
)

func init() {
	// OpenGL contexts are bound to the main thread.
	runtime.LockOSThread()
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		log.Fatal(err)
	}
}

type buildFlags struct {
	outDir   string
	tangents bool
	silent   bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "glnodec",
		Short:         "Translate shader node graphs to GLSL",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	var flags buildFlags
	build := &cobra.Command{
		Use:   "build <graph.yaml>",
		Short: "Write the GLSL stages of every material in a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), args[0], flags)
		},
	}
	build.Flags().StringVarP(&flags.outDir, "out", "o", ".", "output directory of generated stages")
	build.Flags().BoolVar(&flags.tangents, "tangents", false, "meshes export tangents, normal maps use a TBN input")
	build.Flags().BoolVarP(&flags.silent, "silent", "s", false, "do not log progress")

	kinds := &cobra.Command{
		Use:   "kinds",
		Short: "List the supported node kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range glparse.DefaultRegistry().Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
		},
	}

	var checkTangents bool
	check := &cobra.Command{
		Use:   "check <graph.yaml>",
		Short: "Compile the fragment stage of every material with the GPU driver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args[0], checkTangents)
		},
	}
	check.Flags().BoolVar(&checkTangents, "tangents", false, "meshes export tangents, normal maps use a TBN input")

	root.AddCommand(build, kinds, check)
	return root
}

func loadFile(path string) ([]*glnodeaux.Material, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return glnodeaux.LoadMaterials(fp)
}

func runBuild(w io.Writer, path string, flags buildFlags) error {
	materials, err := loadFile(path)
	if err != nil {
		return err
	}
	err = os.MkdirAll(flags.outDir, 0o755)
	if err != nil {
		return err
	}
	cfg := glnodeaux.ExportConfig{ExportTangents: flags.tangents, Silent: flags.silent}
	err = glnodeaux.ExportAll(flags.outDir, materials, cfg)
	if flags.silent {
		return err
	}
	imageDir := os.DirFS(filepath.Dir(path))
	for _, m := range materials {
		textures, texErr := glnodeaux.TextureManifest(m.Graph, imageDir)
		for _, tex := range textures {
			fmt.Fprintf(w, "%s: sampler %s <- %s (%s %dx%d)\n", m.Name, tex.Sampler, tex.Image, tex.Format, tex.Width, tex.Height)
		}
		if texErr != nil {
			fmt.Fprintf(w, "%s: texture warning: %s\n", m.Name, texErr)
		}
	}
	return err
}

func runCheck(w io.Writer, path string, tangents bool) error {
	materials, err := loadFile(path)
	if err != nil {
		return err
	}
	terminate, err := glcheck.Init1x1GLFW()
	if err != nil {
		return err
	}
	defer terminate()
	fmt.Fprintln(w, "GLSL", glcheck.GLSLVersion())
	var errs []error
	for _, m := range materials {
		st, err := glnodeaux.Translate(m, glnodeaux.ExportConfig{ExportTangents: tangents})
		if err == nil {
			err = glcheck.CompileFragment(st.Shader(glbuild.StageFragment))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("material %q: %w", m.Name, err))
			continue
		}
		fmt.Fprintln(w, "ok", m.Name)
	}
	return errors.Join(errs...)
}
