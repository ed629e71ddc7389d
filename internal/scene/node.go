package scene

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrReleased is returned when a geometry or material is released twice.
var ErrReleased = errors.New("resource already released")

// Geometry is a vertex set. The overlay core only needs its extent, so faces
// are not kept.
type Geometry struct {
	// Kind names where the geometry came from ("box", "sphere", "obj", ...).
	Kind string

	// Positions are the vertex positions in the owning node's local space.
	Positions []Vec3

	released bool
}

// NewGeometry returns a geometry over the given positions.
func NewGeometry(kind string, positions []Vec3) *Geometry {
	return &Geometry{Kind: kind, Positions: positions}
}

// Bounds returns the box around all positions. A geometry without positions
// has an empty box.
func (g *Geometry) Bounds() Box3 {
	b := EmptyBox()
	for _, p := range g.Positions {
		b = b.ExpandPoint(p)
	}
	return b
}

// Clone returns an independent copy that can be released on its own.
func (g *Geometry) Clone() *Geometry {
	positions := make([]Vec3, len(g.Positions))
	copy(positions, g.Positions)
	return &Geometry{Kind: g.Kind, Positions: positions}
}

// Released reports whether Release has been called.
func (g *Geometry) Released() bool {
	return g.released
}

// Release frees the geometry. Releasing twice returns ErrReleased.
func (g *Geometry) Release() error {
	if g.released {
		return fmt.Errorf("%s geometry: %w", g.Kind, ErrReleased)
	}
	g.released = true
	g.Positions = nil
	return nil
}

// Material describes how a mesh is shaded.
type Material struct {
	// Color is the diffuse colour as #RRGGBB.
	Color string `json:"color"`

	// Shininess is the specular exponent.
	Shininess float64 `json:"shininess"`

	released bool
}

// Clone returns an independent copy.
func (m *Material) Clone() *Material {
	return &Material{Color: m.Color, Shininess: m.Shininess}
}

// Released reports whether Release has been called.
func (m *Material) Released() bool {
	return m.released
}

// Release frees the material. Releasing twice returns ErrReleased.
func (m *Material) Release() error {
	if m.released {
		return fmt.Errorf("material %s: %w", m.Color, ErrReleased)
	}
	m.released = true
	return nil
}

// Mesh pairs a geometry with a material. Either may be nil.
type Mesh struct {
	Geometry *Geometry
	Material *Material
}

// Node is an element of the scene graph.
//
// The transform is applied as scale, then rotation, then translation,
// relative to the parent. Rotation is Euler angles in radians.
type Node struct {
	ID       uuid.UUID
	Name     string
	Position Vec3
	Rotation Vec3
	Scale    Vec3
	Mesh     *Mesh
	Children []*Node
}

// NewNode returns an empty node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		ID:    uuid.New(),
		Name:  name,
		Scale: One,
	}
}

// NewMeshNode returns a node carrying a single mesh.
func NewMeshNode(name string, g *Geometry, m *Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: g, Material: m}
	return n
}

// Add appends child to n's children.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

// Walk calls fn for n and every descendant, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Clone deep-copies the subtree rooted at n. Every node gets a new ID and
// every mesh its own geometry and material, so releasing the clone leaves
// the original intact.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:       uuid.New(),
		Name:     n.Name,
		Position: n.Position,
		Rotation: n.Rotation,
		Scale:    n.Scale,
	}
	if n.Mesh != nil {
		c.Mesh = &Mesh{}
		if n.Mesh.Geometry != nil {
			c.Mesh.Geometry = n.Mesh.Geometry.Clone()
		}
		if n.Mesh.Material != nil {
			c.Mesh.Material = n.Mesh.Material.Clone()
		}
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// LocalBounds returns the box around n's mesh and all descendants, in n's
// own coordinate space (n's transform not applied).
func (n *Node) LocalBounds() Box3 {
	b := EmptyBox()
	if n.Mesh != nil && n.Mesh.Geometry != nil {
		b = b.Union(n.Mesh.Geometry.Bounds())
	}
	for _, c := range n.Children {
		b = b.Union(c.BoundingBox())
	}
	return b
}

// BoundingBox returns the box around the subtree in the parent's coordinate
// space. Scale and translation are applied; rotation is ignored, which keeps
// the box stable while overlays spin.
func (n *Node) BoundingBox() Box3 {
	return n.LocalBounds().Transform(n.Scale, n.Position)
}

// VertexCount returns the number of positions in the subtree.
func (n *Node) VertexCount() int {
	count := 0
	n.Walk(func(x *Node) {
		if x.Mesh != nil && x.Mesh.Geometry != nil {
			count += len(x.Mesh.Geometry.Positions)
		}
	})
	return count
}

// Release releases every geometry and material in the subtree. All
// resources are visited even after a failure; the returned error joins every
// ErrReleased encountered.
func (n *Node) Release() error {
	var errs []error
	n.Walk(func(x *Node) {
		if x.Mesh == nil {
			return
		}
		if x.Mesh.Geometry != nil {
			if err := x.Mesh.Geometry.Release(); err != nil {
				errs = append(errs, err)
			}
		}
		if x.Mesh.Material != nil {
			if err := x.Mesh.Material.Release(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("release %s: %w", n.Name, errors.Join(errs...))
	}
	return nil
}
