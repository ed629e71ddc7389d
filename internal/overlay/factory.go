package overlay

import (
	"errors"
	"fmt"

	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

// ErrMalformedTemplate is returned for templates whose bounding box is empty,
// non-finite or of zero size, since they cannot be normalised.
var ErrMalformedTemplate = errors.New("malformed template")

// CheckTemplate reports whether tmpl can be normalised to a fixed size.
func CheckTemplate(tmpl *scene.Node) error {
	if tmpl == nil {
		return fmt.Errorf("%w: nil", ErrMalformedTemplate)
	}
	b := tmpl.BoundingBox()
	switch {
	case b.IsEmpty():
		return fmt.Errorf("%w: %q has no geometry", ErrMalformedTemplate, tmpl.Name)
	case !b.IsFinite():
		return fmt.Errorf("%w: %q has non-finite bounds", ErrMalformedTemplate, tmpl.Name)
	case !(b.MaxDimension() > 0):
		return fmt.Errorf("%w: %q has zero size", ErrMalformedTemplate, tmpl.Name)
	}
	return nil
}

// Factory builds overlay nodes.
type Factory struct {
	cfg Config
	rng imaging.RandomSource
}

// NewFactory returns a factory that picks primitive hues from rng.
func NewFactory(cfg Config, rng imaging.RandomSource) *Factory {
	return &Factory{cfg: cfg, rng: rng}
}

// Primitive returns a fresh mesh node for shape with a random hue at the
// configured saturation and lightness.
func (f *Factory) Primitive(shape scene.Shape) *scene.Node {
	c := imaging.RandomOverlayColor(f.rng, f.cfg.Saturation, f.cfg.Lightness)
	mat := &scene.Material{Color: c.Hex(), Shininess: f.cfg.Shininess}
	return scene.NewPrimitive(shape, mat)
}

// FromTemplate deep-clones tmpl, scales the clone so its largest bounding-box
// dimension equals TemplateSize and wraps it in a pivot node. Callers place
// the pivot; the clone's own scale holds the normalisation.
func (f *Factory) FromTemplate(tmpl *scene.Node) (*scene.Node, error) {
	if err := CheckTemplate(tmpl); err != nil {
		return nil, err
	}
	clone := tmpl.Clone()
	clone.Scale = clone.Scale.Scaled(f.cfg.TemplateSize / clone.BoundingBox().MaxDimension())

	pivot := scene.NewNode(tmpl.Name + "-pivot")
	pivot.Add(clone)
	return pivot, nil
}
