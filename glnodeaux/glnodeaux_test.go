package glnodeaux_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glbuild"
	"github.com/soypat/glnode/glnodeaux"
	"github.com/soypat/glnode/glparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

const brickWall = `
name: Brick Wall
nodes:
  - name: coord
    type: ShaderNodeTexCoord
  - name: map
    type: ShaderNodeMapping
    vector_type: TEXTURE
    inputs:
      Scale: [2, 2, 2]
  - name: noise
    type: ShaderNodeTexNoise
    inputs:
      Scale: 8
  - name: bump
    type: ShaderNodeBump
    invert: true
  - name: height
    type: ShaderNodeValue
    value: 0.2
  - name: disp
    type: ShaderNodeDisplacement
  - name: out
    type: ShaderNodeOutputMaterial
links:
  - {from: coord.UV, to: map.Vector}
  - {from: map.Vector, to: noise.Vector}
  - {from: noise.Fac, to: bump.Height}
  - {from: height.Value, to: disp.Height}
  - {from: disp.Displacement, to: out.Displacement}
outputs:
  - {socket: bump.Normal, stage: frag, assign: n}
  - {socket: out.Displacement, stage: tese, assign: vec3 disp}
`

const broken = `
name: broken
nodes:
  - {name: rgb, type: ShaderNodeRGB, color: [0.5, 0.5, 1]}
  - {name: nmap, type: ShaderNodeNormalMap}
  - {name: bump, type: ShaderNodeBump}
links:
  - {from: rgb.Color, to: nmap.Color}
  - {from: nmap.Normal, to: bump.Normal}
outputs:
  - {socket: bump.Normal, stage: fragment, assign: n}
`

func TestLoadMaterial(t *testing.T) {
	m, err := glnodeaux.LoadMaterial(strings.NewReader(brickWall))
	require.NoError(t, err)
	assert.Equal(t, "Brick Wall", m.Name)
	assert.Len(t, m.Graph.Nodes(), 7)
	assert.Len(t, m.Graph.Links(), 5)
	require.Len(t, m.Targets, 2)
	assert.True(t, m.NeedsTessellation())
	assert.Equal(t, glbuild.StageFragment, m.Targets[0].Stage)
	assert.True(t, m.Targets[0].Socket.IsOutput(), "output socket preferred over input of same name")

	mapping := m.Graph.Node("map")
	require.NotNil(t, mapping)
	params, ok := mapping.Params.(*glnode.MappingParams)
	require.True(t, ok)
	assert.Equal(t, glnode.VectorTexture, params.VectorType)
	assert.Equal(t, float32(2), mapping.Input("Scale").Vec.Y)
	assert.Equal(t, float32(0.2), m.Graph.Node("height").Outputs[0].Value)
	assert.True(t, m.Graph.Node("bump").Params.(*glnode.BumpParams).Invert)
}

func TestLoadMaterialDefaultOutputs(t *testing.T) {
	const src = `
name: displaced
nodes:
  - {name: height, type: ShaderNodeValue, value: 1}
  - {name: disp, type: ShaderNodeDisplacement}
  - {name: Material Output.001, type: ShaderNodeOutputMaterial}
links:
  - {from: height.Value, to: disp.Height}
  - {from: disp.Displacement, to: Material Output.001.Displacement}
`
	m, err := glnodeaux.LoadMaterial(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Targets, 1)
	assert.Equal(t, glbuild.StageTessEval, m.Targets[0].Stage)
	assert.Equal(t, "vec3 disp", m.Targets[0].Assign)
}

func TestLoadMaterialErrors(t *testing.T) {
	for _, test := range []struct {
		desc, src, want string
	}{
		{desc: "unknown kind", want: "unknown node kind", src: `
name: a
nodes: [{name: x, type: ShaderNodeBsdfPrincipled}]`},
		{desc: "bad reference", want: "not of form Node.Socket", src: `
name: a
nodes: [{name: x, type: ShaderNodeValue}, {name: d, type: ShaderNodeDisplacement}]
links: [{from: x, to: d.Height}]`},
		{desc: "unknown socket", want: `no input socket "Heigth"`, src: `
name: a
nodes: [{name: x, type: ShaderNodeValue}, {name: d, type: ShaderNodeDisplacement}]
links: [{from: x.Value, to: d.Heigth}]`},
		{desc: "unknown field", want: "field colour not found", src: `
name: a
nodes: [{name: x, type: ShaderNodeRGB, colour: [1, 1, 1]}]`},
		{desc: "short vector", want: "want 3 components", src: `
name: a
nodes: [{name: m, type: ShaderNodeMapping, inputs: {Scale: [1, 2]}}]`},
		{desc: "cycle", want: "cyclic", src: `
name: a
nodes: [{name: x, type: ShaderNodeMath}, {name: y, type: ShaderNodeMath}]
links: [{from: x.Value, to: y.Value}, {from: y.Value, to: x.Value}]
outputs: [{socket: x.Value, stage: frag}]`},
		{desc: "no outputs", want: "no outputs", src: `
name: a
nodes: [{name: x, type: ShaderNodeValue}]`},
		{desc: "identifier collision", want: "collides", src: `
name: a
nodes: [{name: Mapping.001, type: ShaderNodeMapping}, {name: Mapping_001, type: ShaderNodeMapping}]`},
		{desc: "bad op", want: "unknown math operation", src: `
name: a
nodes: [{name: x, type: ShaderNodeMath, op: MODULO}]`},
	} {
		_, err := glnodeaux.LoadMaterial(strings.NewReader(test.src))
		if assert.Error(t, err, test.desc) {
			assert.Contains(t, err.Error(), test.want, test.desc)
		}
	}
}

func TestExport(t *testing.T) {
	m, err := glnodeaux.LoadMaterial(strings.NewReader(brickWall))
	require.NoError(t, err)
	var frag, tese bytes.Buffer
	err = glnodeaux.Export(m, glnodeaux.ExportConfig{Fragment: &frag, TessEval: &tese, Silent: true})
	require.NoError(t, err)

	fsrc := frag.String()
	assert.True(t, strings.HasPrefix(fsrc, "#shader fragment\n#version 430\n"))
	for _, want := range []string{
		"in vec3 wnormal;",
		"in vec2 texCoord;",
		"float tex_noise(vec3 p)",
		"\tvec3 n = normalize(wnormal);\n",
		"float bump_fh1 = noise_bump_1 - noise_bump_2;",
		"\tn = normalize(mat3(bump_a, bump_b,",
	} {
		assert.Contains(t, fsrc, want)
	}
	tsrc := tese.String()
	assert.True(t, strings.HasPrefix(tsrc, "#shader tess_evaluation\n"))
	assert.Contains(t, tsrc, "\tvec3 disp = (vec3(0.2) * 1.0);\n")

	err = glnodeaux.Export(m, glnodeaux.ExportConfig{})
	assert.Error(t, err, "export without writers")
}

func TestExportTangents(t *testing.T) {
	const src = `
name: mapped
nodes:
  - {name: tex, type: ShaderNodeTexImage, image: normal.png}
  - {name: nmap, type: ShaderNodeNormalMap, inputs: {Strength: 0.5}}
links:
  - {from: tex.Color, to: nmap.Color}
outputs:
  - {socket: nmap.Normal, stage: frag}
`
	m, err := glnodeaux.LoadMaterial(strings.NewReader(src))
	require.NoError(t, err)
	var frag bytes.Buffer
	err = glnodeaux.Export(m, glnodeaux.ExportConfig{Fragment: &frag, ExportTangents: true, Silent: true})
	require.NoError(t, err)
	assert.Contains(t, frag.String(), "in mat3 TBN;")
	assert.Contains(t, frag.String(), "uniform sampler2D normal;")
	assert.Contains(t, frag.String(), "nmap_texn.xy *= 0.5;")
	assert.Contains(t, frag.String(), "n = normalize(TBN * nmap_texn);")
}

func TestExportAll(t *testing.T) {
	materials, err := glnodeaux.LoadMaterials(strings.NewReader(broken + "\n---\n" + brickWall))
	require.NoError(t, err)
	require.Len(t, materials, 2)
	dir := t.TempDir()
	err = glnodeaux.ExportAll(dir, materials, glnodeaux.ExportConfig{Silent: true})
	require.ErrorIs(t, err, glparse.ErrNoExpression)
	assert.Contains(t, err.Error(), `"broken"`)

	_, statErr := os.Stat(filepath.Join(dir, "broken_frag.glsl"))
	assert.True(t, os.IsNotExist(statErr), "failed material left output")
	for _, name := range []string{"Brick_Wall_frag.glsl", "Brick_Wall_tese.glsl"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(b), "void main() {")
	}
}

func TestExportAllCleanup(t *testing.T) {
	m, err := glnodeaux.LoadMaterial(strings.NewReader(brickWall))
	require.NoError(t, err)
	dir := t.TempDir()
	// A directory in place of the tessellation stage file fails its creation.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Brick_Wall_tese.glsl"), 0o755))
	err = glnodeaux.ExportAll(dir, []*glnodeaux.Material{m}, glnodeaux.ExportConfig{Silent: true})
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "Brick_Wall_frag.glsl"))
	assert.True(t, os.IsNotExist(statErr), "partial export left fragment stage")
}

func TestExportAllNameCollision(t *testing.T) {
	const src = `
name: %s
nodes:
  - {name: height, type: ShaderNodeValue, value: 1}
  - {name: disp, type: ShaderNodeDisplacement}
  - {name: out, type: ShaderNodeOutputMaterial}
links:
  - {from: height.Value, to: disp.Height}
  - {from: disp.Displacement, to: out.Displacement}
`
	materials, err := glnodeaux.LoadMaterials(strings.NewReader(fmt.Sprintf(src, "rough stone") + "---\n" + fmt.Sprintf(src, "rough.stone")))
	require.NoError(t, err)
	require.Len(t, materials, 2)
	dir := t.TempDir()
	err = glnodeaux.ExportAll(dir, materials, glnodeaux.ExportConfig{Silent: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"rough.stone"`)
	b, err := os.ReadFile(filepath.Join(dir, "rough_stone_tese.glsl"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "vec3 disp = (vec3(1.0) * 1.0);")
}

func TestTextureManifest(t *testing.T) {
	var pngBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	require.NoError(t, bmp.Encode(&bmpBuf, image.NewGray(image.Rect(0, 0, 3, 3))))
	fsys := fstest.MapFS{
		"tex/albedo.png": {Data: pngBuf.Bytes()},
		"rough.bmp":      {Data: bmpBuf.Bytes()},
	}
	var bld glnode.Builder
	bld.NewTexImage("img1", `tex\albedo.png`)
	bld.NewTexImage("img2", `tex\albedo.png`)
	rough := bld.NewTexImage("img3", "rough.bmp")
	rough.Params.(*glnode.TexImageParams).Closest = true
	bld.NewTexImage("img4", "missing.png")

	textures, err := glnodeaux.TextureManifest(bld.Graph(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "img4")
	require.Len(t, textures, 2)

	assert.Equal(t, "albedo", textures[0].Sampler)
	assert.Equal(t, []string{"img1", "img2"}, textures[0].Nodes)
	assert.Equal(t, "png", textures[0].Format)
	assert.Equal(t, 4, textures[0].Width)
	assert.Equal(t, 2, textures[0].Height)

	assert.Equal(t, "bmp", textures[1].Format)
	assert.Equal(t, 3, textures[1].Width)
	assert.True(t, textures[1].Closest)
}
