package asset

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

func loadGLTF(path, name string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	root := scene.NewNode(name)
	for _, idx := range rootNodes(doc) {
		n, err := convertNode(doc, idx, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", name, err)
		}
		root.Add(n)
	}
	return root, nil
}

// rootNodes returns the top-level nodes of the default scene, or of the first
// scene when none is marked default. Documents without scenes expose every
// node that is nobody's child.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = int(*doc.Scene)
		}
		out := make([]int, 0, len(doc.Scenes[s].Nodes))
		for _, n := range doc.Scenes[s].Nodes {
			out = append(out, int(n))
		}
		return out
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var out []int
	for i := range doc.Nodes {
		if !child[i] {
			out = append(out, i)
		}
	}
	return out
}

const maxNodeDepth = 64

func convertNode(doc *gltf.Document, idx, depth int) (*scene.Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("node hierarchy deeper than %d", maxNodeDepth)
	}
	src := doc.Nodes[idx]

	name := src.Name
	if name == "" {
		name = fmt.Sprintf("node%d", idx)
	}
	n := scene.NewNode(name)
	n.Position, n.Scale = nodeTransform(src)

	if src.Mesh != nil {
		mi := int(*src.Mesh)
		if mi < 0 || mi >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %q: mesh index %d out of range", name, mi)
		}
		positions, err := meshExtent(doc, doc.Meshes[mi])
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", doc.Meshes[mi].Name, err)
		}
		n.Mesh = &scene.Mesh{
			Geometry: scene.NewGeometry("gltf", positions),
			Material: &scene.Material{Color: "#ffffff"},
		}
	}

	for _, c := range src.Children {
		child, err := convertNode(doc, int(c), depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// nodeTransform extracts translation and scale from a node. Rotation is
// dropped; overlays only need extents.
func nodeTransform(n *gltf.Node) (scene.Vec3, scene.Vec3) {
	m := n.Matrix
	if !isIdentity(m) && !isZero(m[:]) {
		pos := scene.Vec3{X: float64(m[12]), Y: float64(m[13]), Z: float64(m[14])}
		scale := scene.Vec3{
			X: math.Sqrt(float64(m[0]*m[0] + m[1]*m[1] + m[2]*m[2])),
			Y: math.Sqrt(float64(m[4]*m[4] + m[5]*m[5] + m[6]*m[6])),
			Z: math.Sqrt(float64(m[8]*m[8] + m[9]*m[9] + m[10]*m[10])),
		}
		return pos, scale
	}

	pos := scene.Vec3{X: float64(n.Translation[0]), Y: float64(n.Translation[1]), Z: float64(n.Translation[2])}
	scale := scene.One
	if s := n.Scale; !isZero(s[:]) {
		scale = scene.Vec3{X: float64(s[0]), Y: float64(s[1]), Z: float64(s[2])}
	}
	return pos, scale
}

func isIdentity(m [16]float32) bool {
	for i, v := range m {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if v != want {
			return false
		}
	}
	return true
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// meshExtent returns the corners of the POSITION box of every primitive. The
// accessor's declared min/max is used when present; otherwise the positions
// are read from the buffers.
func meshExtent(doc *gltf.Document, mesh *gltf.Mesh) ([]scene.Vec3, error) {
	var out []scene.Vec3
	for _, p := range mesh.Primitives {
		ai, ok := p.Attributes["POSITION"]
		if !ok {
			continue
		}
		idx := int(ai)
		if idx < 0 || idx >= len(doc.Accessors) {
			return nil, fmt.Errorf("accessor index %d out of range", idx)
		}
		acr := doc.Accessors[idx]

		if len(acr.Min) >= 3 && len(acr.Max) >= 3 {
			out = append(out,
				scene.Vec3{X: float64(acr.Min[0]), Y: float64(acr.Min[1]), Z: float64(acr.Min[2])},
				scene.Vec3{X: float64(acr.Max[0]), Y: float64(acr.Max[1]), Z: float64(acr.Max[2])},
			)
			continue
		}

		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}
		for _, v := range positions {
			out = append(out, scene.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
		}
	}
	return out, nil
}
