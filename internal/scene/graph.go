package scene

// Graph is the part of a renderer's scene the overlay layer writes to.
type Graph interface {
	// Add attaches a top-level node.
	Add(n *Node)

	// Remove detaches a top-level node and reports whether it was present.
	Remove(n *Node) bool
}

// Scene is an in-memory Graph that keeps top-level nodes in insertion order.
//
// A Scene is not safe for concurrent use.
type Scene struct {
	nodes []*Node
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add attaches n. Adding a node that is already present is a no-op.
func (s *Scene) Add(n *Node) {
	if n == nil || s.Contains(n) {
		return
	}
	s.nodes = append(s.nodes, n)
}

// Remove detaches n, preserving the order of the remaining nodes.
func (s *Scene) Remove(n *Node) bool {
	for i, x := range s.nodes {
		if x == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether n is attached.
func (s *Scene) Contains(n *Node) bool {
	for _, x := range s.nodes {
		if x == n {
			return true
		}
	}
	return false
}

// Nodes returns the attached nodes in insertion order. The slice is a copy.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Len returns the number of attached nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}
