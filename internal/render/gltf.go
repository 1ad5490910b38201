package render

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrInvalidModel is returned for data that is not glTF.
var ErrInvalidModel = errors.New("render: invalid glTF data")

const (
	glbMagic     = 0x46546c67 // "glTF"
	glbChunkJSON = 0x4e4f534a // "JSON"
	glbHeaderLen = 12

	maxModelBytes = 256 << 20
)

type gltfDoc struct {
	Scene  *int `json:"scene"`
	Scenes []struct {
		Nodes []int `json:"nodes"`
	} `json:"scenes"`
	Nodes []struct {
		Name     string `json:"name"`
		Mesh     *int   `json:"mesh"`
		Children []int  `json:"children"`
	} `json:"nodes"`
	Meshes []struct {
		Name       string `json:"name"`
		Primitives []struct {
			Material *int `json:"material"`
		} `json:"primitives"`
	} `json:"meshes"`
	Materials []struct {
		Name string `json:"name"`
		PBR  struct {
			BaseColorFactor []float64 `json:"baseColorFactor"`
		} `json:"pbrMetallicRoughness"`
	} `json:"materials"`
}

// Decode builds a Scene from binary (.glb) or JSON (.gltf) glTF. Only the
// node hierarchy and material base colours are read.
func Decode(data []byte) (*Scene, error) {
	raw := data
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic {
		var err error
		if raw, err = glbJSONChunk(data); err != nil {
			return nil, err
		}
	}

	var doc gltfDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	return doc.scene(), nil
}

func glbJSONChunk(data []byte) ([]byte, error) {
	if len(data) < glbHeaderLen+8 {
		return nil, fmt.Errorf("%w: truncated glb header", ErrInvalidModel)
	}
	n := binary.LittleEndian.Uint32(data[glbHeaderLen:])
	typ := binary.LittleEndian.Uint32(data[glbHeaderLen+4:])
	start := uint64(glbHeaderLen + 8)
	if typ != glbChunkJSON || start+uint64(n) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalidModel)
	}
	return bytes.TrimRight(data[start:start+uint64(n)], " \x00"), nil
}

func (d *gltfDoc) scene() *Scene {
	var roots []int
	switch {
	case len(d.Scenes) > 0:
		i := 0
		if d.Scene != nil && *d.Scene >= 0 && *d.Scene < len(d.Scenes) {
			i = *d.Scene
		}
		roots = d.Scenes[i].Nodes
	default:
		for i := range d.Nodes {
			roots = append(roots, i)
		}
	}

	seen := make(map[int]bool)
	var build func(i int) *Node
	build = func(i int) *Node {
		if i < 0 || i >= len(d.Nodes) || seen[i] {
			return nil
		}
		seen[i] = true
		src := d.Nodes[i]
		n := &Node{Name: src.Name, Mesh: d.mesh(src.Mesh)}
		for _, c := range src.Children {
			if child := build(c); child != nil {
				n.Children = append(n.Children, child)
			}
		}
		return n
	}

	s := &Scene{}
	for _, r := range roots {
		if n := build(r); n != nil {
			s.Roots = append(s.Roots, n)
		}
	}
	return s
}

func (d *gltfDoc) mesh(i *int) *Mesh {
	if i == nil || *i < 0 || *i >= len(d.Meshes) {
		return nil
	}
	src := d.Meshes[*i]
	m := &Mesh{Name: src.Name, Material: MeshMaterial{BaseColor: White, Roughness: 1}}
	if len(src.Primitives) == 0 || src.Primitives[0].Material == nil {
		return m
	}
	mi := *src.Primitives[0].Material
	if mi < 0 || mi >= len(d.Materials) {
		return m
	}
	mat := d.Materials[mi]
	m.Material.Name = mat.Name
	if f := mat.PBR.BaseColorFactor; len(f) >= 3 {
		m.Material.BaseColor = Color{R: f[0], G: f[1], B: f[2]}
	}
	return m
}

// HTTPLoader downloads models over HTTP.
type HTTPLoader struct {
	client *http.Client
}

var _ Loader = (*HTTPLoader)(nil)

// NewHTTPLoader returns a loader using c, or an instrumented default client
// when c is nil.
func NewHTTPLoader(c *http.Client) *HTTPLoader {
	if c == nil {
		c = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &HTTPLoader{client: c}
}

func (l *HTTPLoader) Load(ctx context.Context, url string) (*Scene, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch model: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxModelBytes))
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Decode(data)
}
