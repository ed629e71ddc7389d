//go:build !gocv

package capture

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
)

// Camera is a placeholder in builds without the "gocv" tag.
type Camera struct{}

// OpenCamera always returns ErrUnavailable in builds without the "gocv" tag.
func OpenCamera(ctx context.Context, cfg Config, pre *imaging.Preprocessor, log *logrus.Entry) (*Camera, error) {
	log.WithField("device", cfg.Device).Debug("built without gocv; camera capture disabled")
	return nil, ErrUnavailable
}

// Frame always returns ErrUnavailable.
func (c *Camera) Frame() (*imaging.Frame, error) {
	return nil, ErrUnavailable
}

// Close is a no-op.
func (c *Camera) Close() error {
	return nil
}
