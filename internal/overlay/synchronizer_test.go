package overlay

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

const eps = 1e-9

// fixedSource always returns the same value
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func newTestSynchronizer() (*Synchronizer, *scene.Scene) {
	g := scene.New()
	return NewSynchronizer(g, DefaultConfig(), rand.New(rand.NewSource(1)), nil), g
}

func testMarkers(n int) []detection.Marker {
	markers := make([]detection.Marker, n)
	for i := range markers {
		markers[i] = detection.Marker{
			X:      0.1 * float64(i+1),
			Y:      0.2,
			Width:  0.3,
			Height: 0.2,
			Score:  1 - 0.1*float64(i),
		}
	}
	return markers
}

// boxTemplate returns a template whose geometry spans size, centred on the
// origin
func boxTemplate(size scene.Vec3) *scene.Node {
	h := size.Scaled(0.5)
	g := scene.NewGeometry("test", []scene.Vec3{{X: -h.X, Y: -h.Y, Z: -h.Z}, h})
	root := scene.NewNode("model")
	root.Add(scene.NewMeshNode("body", g, &scene.Material{Color: "#ffffff"}))
	return root
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestSynchronizer_OneObjectPerMarker(t *testing.T) {
	s, g := newTestSynchronizer()

	for _, n := range []int{3, 1, 0, 2} {
		objs, err := s.Sync(testMarkers(n), Mode{Shape: scene.Cube})
		if err != nil {
			t.Fatalf("Sync(%d): %v", n, err)
		}
		if len(objs) != n {
			t.Errorf("Sync(%d): got %d objects", n, len(objs))
		}
		if g.Len() != n {
			t.Errorf("Sync(%d): graph has %d nodes", n, g.Len())
		}
		for i, obj := range objs {
			if obj.Index != i {
				t.Errorf("object %d has index %d", i, obj.Index)
			}
			if !g.Contains(obj.Node) {
				t.Errorf("object %d not in graph", i)
			}
		}
	}
}

func TestSynchronizer_ReleasesPrevious(t *testing.T) {
	s, g := newTestSynchronizer()

	first, err := s.Sync(testMarkers(3), Mode{Shape: scene.Sphere})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if _, err := s.Sync(testMarkers(2), Mode{Shape: scene.Sphere}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	for i, obj := range first {
		if g.Contains(obj.Node) {
			t.Errorf("old object %d still in graph", i)
		}
		if !obj.Node.Mesh.Geometry.Released() || !obj.Node.Mesh.Material.Released() {
			t.Errorf("old object %d resources not released", i)
		}
	}
}

func TestSynchronizer_Transforms(t *testing.T) {
	s, _ := newTestSynchronizer()
	markers := []detection.Marker{
		{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.5, Score: 1},
		{X: 0.5, Y: 0.5, Width: 0.2, Height: 0.4, Score: 0.8},
		{X: 0.9, Y: 0.0, Width: 0.1, Height: 0.1, Score: 0.5},
	}

	objs, err := s.Sync(markers, Mode{Shape: scene.Cube})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	tests := []struct {
		pos   scene.Vec3
		scale scene.Vec3
		speed float64
	}{
		{scene.Vec3{X: -4, Y: 4, Z: -5}, scene.Vec3{X: 2.5, Y: 2.5, Z: 1}, 0.02},
		{scene.Vec3{X: 0, Y: 0, Z: -5}, scene.Vec3{X: 1, Y: 2, Z: 1}, 0.03},
		{scene.Vec3{X: 4, Y: 5, Z: -5}, scene.Vec3{X: 0.5, Y: 0.5, Z: 1}, 0.04},
	}

	for i, tt := range tests {
		n := objs[i].Node
		if !approx(n.Position.X, tt.pos.X) || !approx(n.Position.Y, tt.pos.Y) || n.Position.Z != tt.pos.Z {
			t.Errorf("object %d position: got %+v, want %+v", i, n.Position, tt.pos)
		}
		if !approx(n.Scale.X, tt.scale.X) || !approx(n.Scale.Y, tt.scale.Y) || n.Scale.Z != 1 {
			t.Errorf("object %d scale: got %+v, want %+v", i, n.Scale, tt.scale)
		}
		if objs[i].BaseScale != n.Scale {
			t.Errorf("object %d base scale %+v differs from node scale %+v", i, objs[i].BaseScale, n.Scale)
		}
		if !approx(objs[i].RotationSpeed, tt.speed) {
			t.Errorf("object %d speed: got %v, want %v", i, objs[i].RotationSpeed, tt.speed)
		}
		if objs[i].Marker != markers[i] {
			t.Errorf("object %d marker: got %+v", i, objs[i].Marker)
		}
	}
}

func TestSynchronizer_PrimitiveShapeAndColor(t *testing.T) {
	g := scene.New()
	s := NewSynchronizer(g, DefaultConfig(), fixedSource(0), nil)

	kinds := map[scene.Shape]string{scene.Cube: "box", scene.Sphere: "sphere", scene.Pyramid: "cone"}
	want := imaging.OverlayColor(0, 0.7, 0.6).Hex()

	for shape, kind := range kinds {
		objs, err := s.Sync(testMarkers(1), Mode{Shape: shape})
		if err != nil {
			t.Fatalf("Sync: %v", err)
		}
		mesh := objs[0].Node.Mesh
		if mesh.Geometry.Kind != kind {
			t.Errorf("%v: geometry kind %q, want %q", shape, mesh.Geometry.Kind, kind)
		}
		if mesh.Material.Color != want || objs[0].Color != want {
			t.Errorf("%v: colour %q, want %q", shape, mesh.Material.Color, want)
		}
		if mesh.Material.Shininess != 100 {
			t.Errorf("%v: shininess %v, want 100", shape, mesh.Material.Shininess)
		}
	}
}

func TestSynchronizer_Template(t *testing.T) {
	s, g := newTestSynchronizer()
	tmpl := boxTemplate(scene.Vec3{X: 4, Y: 2, Z: 1})

	objs, err := s.Sync(testMarkers(2), Mode{Shape: scene.Cube, Template: tmpl})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(objs) != 2 || g.Len() != 2 {
		t.Fatalf("got %d objects, %d graph nodes", len(objs), g.Len())
	}

	for i, obj := range objs {
		pivot := obj.Node
		if len(pivot.Children) != 1 {
			t.Fatalf("pivot %d: got %d children, want 1", i, len(pivot.Children))
		}
		clone := pivot.Children[0]

		size := clone.BoundingBox().Size()
		if !approx(size.MaxComponent(), 2) {
			t.Errorf("clone %d max dimension: got %v, want 2", i, size.MaxComponent())
		}
		if !approx(size.X, 2) || !approx(size.Y, 1) || !approx(size.Z, 0.5) {
			t.Errorf("clone %d size: got %+v, want 2x1x0.5", i, size)
		}
		if pivot.Scale != obj.BaseScale {
			t.Errorf("pivot %d carries scale %+v, want marker scale %+v", i, pivot.Scale, obj.BaseScale)
		}
		if clone.Children[0].Mesh.Geometry == tmpl.Children[0].Mesh.Geometry {
			t.Errorf("clone %d shares geometry with the template", i)
		}
		if obj.Color != "" {
			t.Errorf("template object %d should have no colour, got %q", i, obj.Color)
		}
	}

	// replacing template overlays must not release the template itself
	if _, err := s.Sync(testMarkers(1), Mode{Template: tmpl}); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if tmpl.Children[0].Mesh.Geometry.Released() {
		t.Error("template geometry released by Sync")
	}
	if tmpl.Scale != scene.One {
		t.Errorf("template scale modified: %+v", tmpl.Scale)
	}
}

func TestSynchronizer_MalformedTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl *scene.Node
	}{
		{"no geometry", scene.NewNode("empty")},
		{"zero size", boxTemplate(scene.Vec3{})},
		{"non-finite", boxTemplate(scene.Vec3{X: math.Inf(1), Y: 1, Z: 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, g := newTestSynchronizer()
			prev, err := s.Sync(testMarkers(2), Mode{Shape: scene.Cube})
			if err != nil {
				t.Fatalf("Sync: %v", err)
			}

			objs, err := s.Sync(testMarkers(3), Mode{Template: tt.tmpl})
			if !errors.Is(err, ErrMalformedTemplate) {
				t.Fatalf("expected ErrMalformedTemplate, got %v", err)
			}
			if objs != nil {
				t.Errorf("expected no objects, got %d", len(objs))
			}

			if g.Len() != 2 || len(s.Objects()) != 2 {
				t.Errorf("previous overlays should be kept: graph %d, objects %d", g.Len(), len(s.Objects()))
			}
			for i, obj := range prev {
				if obj.Node.Mesh.Geometry.Released() {
					t.Errorf("previous object %d was released", i)
				}
			}
		})
	}
}

func TestSynchronizer_DoubleReleasePanics(t *testing.T) {
	s, _ := newTestSynchronizer()
	objs, err := s.Sync(testMarkers(1), Mode{Shape: scene.Cube})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if err := objs[0].Node.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected Sync to panic on double release")
		}
	}()
	s.Sync(nil, Mode{Shape: scene.Cube})
}

func TestCheckTemplate(t *testing.T) {
	if err := CheckTemplate(nil); !errors.Is(err, ErrMalformedTemplate) {
		t.Errorf("nil template: got %v", err)
	}
	if err := CheckTemplate(boxTemplate(scene.Vec3{X: 1, Y: 1, Z: 1})); err != nil {
		t.Errorf("unit template: %v", err)
	}
}
