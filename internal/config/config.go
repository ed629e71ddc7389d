// Package config loads the YAML configuration of marker-mcp.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/marker-overlay-mcp/internal/capture"
	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
	"github.com/ironsheep/marker-overlay-mcp/internal/overlay"
	"github.com/ironsheep/marker-overlay-mcp/internal/session"
)

// LogLevelEnv overrides log_level when set.
const LogLevelEnv = "MARKER_MCP_LOG_LEVEL"

// Config is the complete marker-mcp configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text, json or empty for automatic

	// Seed fixes the detection proposals and overlay hues. Zero seeds from
	// the clock.
	Seed int64 `yaml:"seed"`

	Detection  detection.Config         `yaml:"detection"`
	Overlay    overlay.Config           `yaml:"overlay"`
	Animation  overlay.AnimationConfig  `yaml:"animation"`
	Preprocess imaging.PreprocessConfig `yaml:"preprocess"`
	Loop       session.LoopConfig       `yaml:"loop"`
	Source     SourceConfig             `yaml:"source"`
	Capture    capture.Config           `yaml:"capture"`
}

// SourceConfig selects where the session gets its frames.
type SourceConfig struct {
	// Path is an image file or a directory of images.
	Path string `yaml:"path"`

	// Camera opens the capture device instead of Path.
	Camera bool `yaml:"camera"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Detection: detection.DefaultConfig(),
		Overlay:   overlay.DefaultConfig(),
		Animation: overlay.DefaultAnimationConfig(),
		Loop:      session.DefaultLoopConfig(),
		Capture:   capture.DefaultConfig(),
	}
}

// Load reads a YAML configuration file over the defaults. Keys missing from
// the file keep their default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, applies the environment override and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if lvl := strings.TrimSpace(os.Getenv(LogLevelEnv)); lvl != "" {
		c.LogLevel = lvl
	}
}

// FromEnv returns the defaults with the environment override applied.
func FromEnv() (*Config, error) {
	return Parse(nil)
}

// Validate checks every section.
func Validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", cfg.LogFormat)
	}

	if err := cfg.Detection.Validate(); err != nil {
		return fmt.Errorf("detection: %w", err)
	}
	if err := cfg.Overlay.Validate(); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	if err := cfg.Animation.Validate(); err != nil {
		return fmt.Errorf("animation: %w", err)
	}
	if err := validatePreprocess(cfg.Preprocess); err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	if err := cfg.Loop.Validate(); err != nil {
		return fmt.Errorf("loop: %w", err)
	}
	if err := cfg.Capture.Validate(); err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	if cfg.Source.Camera && cfg.Source.Path != "" {
		return fmt.Errorf("source: path and camera are mutually exclusive")
	}
	return nil
}

func validatePreprocess(p imaging.PreprocessConfig) error {
	if p.MaxWidth < 0 {
		return fmt.Errorf("max_width must be >= 0, got %d", p.MaxWidth)
	}
	if p.BlurSigma < 0 {
		return fmt.Errorf("blur_sigma must be >= 0, got %v", p.BlurSigma)
	}
	if p.Contrast < -100 || p.Contrast > 100 {
		return fmt.Errorf("contrast must be in [-100,100], got %v", p.Contrast)
	}
	return nil
}
