package glnodeaux

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"

	"github.com/soypat/glnode"
	"github.com/soypat/glnode/glparse"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture is an image referenced by an image texture node of a graph.
type Texture struct {
	// Image is the file name as referenced by the node.
	Image string
	// Sampler is the name of the sampler uniform declared for the image.
	Sampler string
	// Nodes are the names of the image texture nodes sampling the image.
	Nodes []string
	// Format is the image format name as registered with the image package, i.e: "png".
	Format        string
	Width, Height int
	// Closest is set if any node samples the image without filtering.
	Closest bool
}

// TextureManifest lists the images sampled by the graph in node order.
// Image files are opened from fsys and only their headers are decoded.
// Backslash separated paths are accepted.
func TextureManifest(g *glnode.Graph, fsys fs.FS) ([]Texture, error) {
	var textures []Texture
	var errs []error
	bySampler := make(map[string]int)
	for _, n := range g.NodesOfKind(nil, glnode.KindTexImage) {
		params, _ := n.Params.(*glnode.TexImageParams)
		if params == nil || params.Image == "" {
			errs = append(errs, fmt.Errorf("node %q: image texture without image", n.Name))
			continue
		}
		sampler := glparse.SamplerName(params.Image)
		if i, ok := bySampler[sampler]; ok {
			tex := &textures[i]
			if tex.Image != params.Image {
				errs = append(errs, fmt.Errorf("node %q: images %q and %q share sampler %s", n.Name, tex.Image, params.Image, sampler))
				continue
			}
			tex.Nodes = append(tex.Nodes, n.Name)
			tex.Closest = tex.Closest || params.Closest
			continue
		}
		tex := Texture{Image: params.Image, Sampler: sampler, Nodes: []string{n.Name}, Closest: params.Closest}
		cfg, format, err := decodeConfig(fsys, params.Image)
		if err != nil {
			errs = append(errs, fmt.Errorf("node %q: %w", n.Name, err))
			continue
		}
		tex.Format = format
		tex.Width, tex.Height = cfg.Width, cfg.Height
		bySampler[sampler] = len(textures)
		textures = append(textures, tex)
	}
	return textures, errors.Join(errs...)
}

func decodeConfig(fsys fs.FS, name string) (image.Config, string, error) {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	fp, err := fsys.Open(strings.TrimPrefix(name, "/"))
	if err != nil {
		return image.Config{}, "", err
	}
	defer fp.Close()
	cfg, format, err := image.DecodeConfig(fp)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return cfg, format, nil
}
