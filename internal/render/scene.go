package render

// MeshMaterial is the material state of one mesh. BaseColor comes from the
// asset and is never touched by Apply.
type MeshMaterial struct {
	Name      string
	BaseColor Color
	Metalness float64
	Roughness float64
	Wireframe bool
}

type Mesh struct {
	Name     string
	Material MeshMaterial
}

// Node is a scene graph node. Mesh is nil for pure transform nodes.
type Node struct {
	Name     string
	Mesh     *Mesh
	Children []*Node
}

// Scene is a loaded model.
type Scene struct {
	Roots []*Node
}

// Meshes calls fn for every mesh in depth-first order.
func (s *Scene) Meshes(fn func(*Mesh)) {
	if s == nil {
		return
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Mesh != nil {
			fn(n.Mesh)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range s.Roots {
		walk(r)
	}
}

// Apply sets the material tuple and wireframe flag on every mesh and returns
// how many meshes it touched. Values are absolute, so applying the same
// Params twice is a no-op.
func Apply(s *Scene, p Params) int {
	n := 0
	s.Meshes(func(m *Mesh) {
		m.Material.Metalness = p.Material.Metalness
		m.Material.Roughness = p.Material.Roughness
		m.Material.Wireframe = p.Wireframe
		n++
	})
	return n
}
