package overlay

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

// Mode selects what each cycle's overlays are built from. A non-nil Template
// wins over Shape.
type Mode struct {
	Shape    scene.Shape
	Template *scene.Node
}

// Object is one live overlay and its animation state.
type Object struct {
	// Node is the top-level node attached to the graph. For templates it is
	// the pivot around the normalised clone.
	Node *scene.Node `json:"-"`

	// Index is the marker's rank in the cycle that created the object.
	Index int `json:"index"`

	// Marker is the detection the object was placed on.
	Marker detection.Marker `json:"marker"`

	// RotationSpeed is the per-tick X rotation in radians.
	RotationSpeed float64 `json:"rotation_speed"`

	// BaseScale is the scale the pulse animation oscillates around.
	BaseScale scene.Vec3 `json:"base_scale"`

	// Color is the primitive's hex colour; empty for templates.
	Color string `json:"color,omitempty"`
}

// Synchronizer keeps the overlay set in the graph equal to the latest
// markers. Each Sync is a full replacement: no identity is kept between
// cycles.
//
// A Synchronizer is not safe for concurrent use.
type Synchronizer struct {
	graph   scene.Graph
	cfg     Config
	factory *Factory
	log     *logrus.Entry

	objects []*Object
}

// NewSynchronizer returns a synchronizer writing to graph. Primitive hues are
// drawn from rng.
func NewSynchronizer(graph scene.Graph, cfg Config, rng imaging.RandomSource, log *logrus.Entry) *Synchronizer {
	return &Synchronizer{
		graph:   graph,
		cfg:     cfg,
		factory: NewFactory(cfg, rng),
		log:     log,
	}
}

// Config returns the synchronizer's mapping configuration.
func (s *Synchronizer) Config() Config {
	return s.cfg
}

// Objects returns the live overlays in marker order. The slice is a copy; the
// objects are shared.
func (s *Synchronizer) Objects() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Sync replaces every live overlay with one object per marker, in marker
// order, and returns the new set.
//
// A template that cannot be normalised is rejected with ErrMalformedTemplate
// before anything is removed, leaving the previous overlays in place.
// Failing to release a previous overlay's resources means it was released
// elsewhere, which is a programming error: Sync panics.
func (s *Synchronizer) Sync(markers []detection.Marker, mode Mode) ([]*Object, error) {
	if mode.Template != nil {
		if err := CheckTemplate(mode.Template); err != nil {
			return nil, err
		}
	}

	s.Clear()

	for i, m := range markers {
		obj, err := s.build(i, m, mode)
		if err != nil {
			// CheckTemplate passed, so FromTemplate cannot fail
			panic(fmt.Sprintf("overlay: build object %d: %v", i, err))
		}
		s.graph.Add(obj.Node)
		s.objects = append(s.objects, obj)
	}

	if s.log != nil && len(markers) > 0 {
		s.log.WithFields(logrus.Fields{
			"objects":  len(s.objects),
			"template": mode.Template != nil,
			"shape":    mode.Shape.String(),
		}).Trace("overlays synchronised")
	}
	return s.Objects(), nil
}

// Clear removes and releases every live overlay.
func (s *Synchronizer) Clear() {
	for _, obj := range s.objects {
		s.graph.Remove(obj.Node)
		if err := obj.Node.Release(); err != nil {
			panic(fmt.Sprintf("overlay: %v", err))
		}
	}
	s.objects = s.objects[:0]
}

func (s *Synchronizer) build(i int, m detection.Marker, mode Mode) (*Object, error) {
	obj := &Object{
		Index:         i,
		Marker:        m,
		RotationSpeed: s.cfg.RotationSpeed(i),
		BaseScale:     s.cfg.Scale(m),
	}

	if mode.Template != nil {
		pivot, err := s.factory.FromTemplate(mode.Template)
		if err != nil {
			return nil, err
		}
		obj.Node = pivot
	} else {
		obj.Node = s.factory.Primitive(mode.Shape)
		obj.Color = obj.Node.Mesh.Material.Color
	}

	obj.Node.Name = fmt.Sprintf("overlay-%d", i)
	obj.Node.Position = s.cfg.Position(m)
	obj.Node.Scale = obj.BaseScale
	return obj, nil
}
