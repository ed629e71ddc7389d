//go:build gocv

package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
)

// Camera grabs frames from an OpenCV device on its own goroutine and keeps
// only the most recent one.
type Camera struct {
	dev *gocv.VideoCapture
	pre *imaging.Preprocessor
	log *logrus.Entry

	mu     sync.Mutex
	latest *imaging.Frame
	seq    uint64
	err    error

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// OpenCamera opens the device and starts grabbing until ctx is cancelled or
// Close is called. Every frame goes through pre, which may be nil.
func OpenCamera(ctx context.Context, cfg Config, pre *imaging.Preprocessor, log *logrus.Entry) (*Camera, error) {
	dev, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrUnavailable, cfg.Device, err)
	}
	if !dev.IsOpened() {
		dev.Close()
		return nil, fmt.Errorf("%w: device %d did not open", ErrUnavailable, cfg.Device)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		dev.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		dev.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	c := &Camera{dev: dev, pre: pre, log: log, stop: make(chan struct{}), done: make(chan struct{})}
	go c.run(ctx)

	log.WithFields(logrus.Fields{
		"device": cfg.Device,
		"width":  dev.Get(gocv.VideoCaptureFrameWidth),
		"height": dev.Get(gocv.VideoCaptureFrameHeight),
	}).Info("Camera started")
	return c, nil
}

func (c *Camera) run(ctx context.Context) {
	defer close(c.done)

	bgr := gocv.NewMat()
	defer bgr.Close()
	rgba := gocv.NewMat()
	defer rgba.Close()

	misses := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		default:
		}

		if ok := c.dev.Read(&bgr); !ok || bgr.Empty() {
			misses++
			if misses%100 == 1 {
				c.log.WithField("misses", misses).Debug("camera returned no frame")
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		misses = 0

		gocv.CvtColor(bgr, &rgba, gocv.ColorBGRToRGBA)
		img, err := rgba.ToImage()
		if err != nil {
			c.mu.Lock()
			c.err = fmt.Errorf("convert camera frame: %w", err)
			c.mu.Unlock()
			continue
		}

		c.mu.Lock()
		c.seq++
		c.latest = c.pre.Frame(img, c.seq)
		c.err = nil
		c.mu.Unlock()
	}
}

// Frame returns the most recent frame, or nil before the first frame has
// arrived.
func (c *Camera) Frame() (*imaging.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.err
}

// Close stops the grab loop and releases the device.
func (c *Camera) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return c.dev.Close()
}
