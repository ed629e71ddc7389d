// Package capture reads live frames from a camera.
//
// Camera support needs OpenCV and is compiled only with the "gocv" build
// tag. Without it OpenCamera returns ErrUnavailable and the server works
// from still images.
package capture

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when camera capture is not compiled in or the
// device cannot be opened.
var ErrUnavailable = errors.New("camera capture unavailable")

// Config selects and sizes the capture device.
type Config struct {
	// Device is the OpenCV device index.
	Device int `yaml:"device" json:"device"`

	// Width and Height are the requested resolution. The device may pick the
	// closest mode it supports.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultConfig returns device 0 at 1280x720.
func DefaultConfig() Config {
	return Config{Device: 0, Width: 1280, Height: 720}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if c.Device < 0 {
		return fmt.Errorf("capture device must be >= 0, got %d", c.Device)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("capture resolution must be non-negative, got %dx%d", c.Width, c.Height)
	}
	return nil
}
