package overlay

import (
	"errors"
	"fmt"

	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

// ErrInvalidConfig is wrapped by every Config and AnimationConfig validation
// failure.
var ErrInvalidConfig = errors.New("invalid overlay config")

// Config maps normalised marker rectangles into world space and styles the
// objects placed on them.
type Config struct {
	// WorldScale is the world-space width spanned by the full frame.
	WorldScale float64 `yaml:"world_scale" json:"world_scale"`

	// Depth is the Z coordinate every overlay is placed at.
	Depth float64 `yaml:"depth" json:"depth"`

	// ScaleGain converts normalised marker width/height into X/Y scale.
	ScaleGain float64 `yaml:"scale_gain" json:"scale_gain"`

	// TemplateSize is the largest bounding-box dimension a template clone is
	// normalised to.
	TemplateSize float64 `yaml:"template_size" json:"template_size"`

	// RotationBase and RotationStep give the per-tick rotation speed of the
	// i-th overlay: RotationBase + i*RotationStep radians.
	RotationBase float64 `yaml:"rotation_base" json:"rotation_base"`
	RotationStep float64 `yaml:"rotation_step" json:"rotation_step"`

	// Saturation and Lightness (0-1) of primitive colours; the hue is random.
	Saturation float64 `yaml:"saturation" json:"saturation"`
	Lightness  float64 `yaml:"lightness" json:"lightness"`

	// Shininess is the specular exponent of primitive materials.
	Shininess float64 `yaml:"shininess" json:"shininess"`
}

// DefaultConfig returns the stock overlay mapping.
func DefaultConfig() Config {
	return Config{
		WorldScale:   10,
		Depth:        -5,
		ScaleGain:    5,
		TemplateSize: 2,
		RotationBase: 0.02,
		RotationStep: 0.01,
		Saturation:   0.7,
		Lightness:    0.6,
		Shininess:    100,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.WorldScale <= 0:
		return fmt.Errorf("%w: world_scale must be > 0, got %v", ErrInvalidConfig, c.WorldScale)
	case c.ScaleGain <= 0:
		return fmt.Errorf("%w: scale_gain must be > 0, got %v", ErrInvalidConfig, c.ScaleGain)
	case c.TemplateSize <= 0:
		return fmt.Errorf("%w: template_size must be > 0, got %v", ErrInvalidConfig, c.TemplateSize)
	case c.Saturation < 0 || c.Saturation > 1:
		return fmt.Errorf("%w: saturation must be in [0,1], got %v", ErrInvalidConfig, c.Saturation)
	case c.Lightness < 0 || c.Lightness > 1:
		return fmt.Errorf("%w: lightness must be in [0,1], got %v", ErrInvalidConfig, c.Lightness)
	case c.Shininess < 0:
		return fmt.Errorf("%w: shininess must be >= 0, got %v", ErrInvalidConfig, c.Shininess)
	}
	return nil
}

// Position maps a marker to its world position. The marker's top-left corner
// is used, with image Y flipped to world +Y up:
//
//	((x-0.5)*WorldScale, -(y-0.5)*WorldScale, Depth)
func (c Config) Position(m detection.Marker) scene.Vec3 {
	return scene.Vec3{
		X: (m.X - 0.5) * c.WorldScale,
		Y: -(m.Y - 0.5) * c.WorldScale,
		Z: c.Depth,
	}
}

// Scale maps a marker to its base scale: (w*ScaleGain, h*ScaleGain, 1).
func (c Config) Scale(m detection.Marker) scene.Vec3 {
	return scene.Vec3{
		X: m.Width * c.ScaleGain,
		Y: m.Height * c.ScaleGain,
		Z: 1,
	}
}

// RotationSpeed returns the per-tick rotation speed of the overlay at index i.
func (c Config) RotationSpeed(i int) float64 {
	return c.RotationBase + float64(i)*c.RotationStep
}

// AnimationConfig drives the per-frame spin and pulse.
type AnimationConfig struct {
	// SecondaryRatio scales the Y rotation relative to the X rotation.
	SecondaryRatio float64 `yaml:"secondary_ratio" json:"secondary_ratio"`

	// PulseAmplitude is the relative scale swing: scale = base*(1 ± amplitude).
	PulseAmplitude float64 `yaml:"pulse_amplitude" json:"pulse_amplitude"`

	// PulseRate is the angular rate of the pulse, in radians per
	// millisecond of wall-clock time.
	PulseRate float64 `yaml:"pulse_rate" json:"pulse_rate"`
}

// DefaultAnimationConfig returns the stock animation parameters.
func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		SecondaryRatio: 0.7,
		PulseAmplitude: 0.1,
		PulseRate:      0.005,
	}
}

// Validate reports the first out-of-range field.
func (c AnimationConfig) Validate() error {
	if c.PulseAmplitude < 0 || c.PulseAmplitude >= 1 {
		return fmt.Errorf("%w: pulse_amplitude must be in [0,1), got %v", ErrInvalidConfig, c.PulseAmplitude)
	}
	return nil
}
