package detection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("invalid detection config")

// Config holds the tunables of one detection cycle.
type Config struct {
	// EdgeThreshold is the Sobel gradient magnitude a pixel must exceed to be
	// marked as an edge (luminance units, 0-255 scale).
	EdgeThreshold float64 `yaml:"edge_threshold" json:"edge_threshold"`

	// Iterations is the number of random rectangles proposed per frame.
	Iterations int `yaml:"iterations" json:"iterations"`

	// MinSize and MaxSize bound candidate side lengths as fractions of
	// min(width, height).
	MinSize float64 `yaml:"min_size" json:"min_size"`
	MaxSize float64 `yaml:"max_size" json:"max_size"`

	// SampleStride is the spacing, in pixels, of perimeter samples.
	SampleStride int `yaml:"sample_stride" json:"sample_stride"`

	// MinScore is the lowest perimeter score a candidate may have and still
	// become a marker.
	MinScore float64 `yaml:"min_score" json:"min_score"`

	// MaxMarkers caps the number of markers reported per frame.
	MaxMarkers int `yaml:"max_markers" json:"max_markers"`
}

// DefaultConfig returns the stock detection tunables.
func DefaultConfig() Config {
	return Config{
		EdgeThreshold: 50,
		Iterations:    20,
		MinSize:       0.1,
		MaxSize:       0.8,
		SampleStride:  5,
		MinScore:      0.3,
		MaxMarkers:    3,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.EdgeThreshold < 0 || math.IsNaN(c.EdgeThreshold):
		return fmt.Errorf("%w: edge_threshold must be >= 0, got %v", ErrInvalidConfig, c.EdgeThreshold)
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalidConfig, c.Iterations)
	case !(c.MinSize > 0) || c.MinSize > 1:
		return fmt.Errorf("%w: min_size must be in (0,1], got %v", ErrInvalidConfig, c.MinSize)
	case !(c.MaxSize >= c.MinSize) || c.MaxSize > 1:
		return fmt.Errorf("%w: max_size must be in [min_size,1], got %v", ErrInvalidConfig, c.MaxSize)
	case c.SampleStride < 1:
		return fmt.Errorf("%w: sample_stride must be >= 1, got %d", ErrInvalidConfig, c.SampleStride)
	case !(c.MinScore >= 0) || c.MinScore > 1:
		return fmt.Errorf("%w: min_score must be in [0,1], got %v", ErrInvalidConfig, c.MinScore)
	case c.MaxMarkers < 0:
		return fmt.Errorf("%w: max_markers must be >= 0, got %d", ErrInvalidConfig, c.MaxMarkers)
	}
	return nil
}
