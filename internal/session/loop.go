package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// LoopConfig sets the tick rates of Run.
type LoopConfig struct {
	// RenderHz is the animation rate.
	RenderHz float64 `yaml:"render_hz" json:"render_hz"`

	// DetectHz is the detection rate.
	DetectHz float64 `yaml:"detect_hz" json:"detect_hz"`

	// StatsInterval is how often counters are logged at debug level. Zero
	// disables stats logging.
	StatsInterval time.Duration `yaml:"stats_interval" json:"stats_interval"`
}

// DefaultLoopConfig renders at 60 Hz, detects at 30 Hz and logs stats every
// 5 seconds.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		RenderHz:      60,
		DetectHz:      30,
		StatsInterval: 5 * time.Second,
	}
}

// Validate reports the first out-of-range field.
func (c LoopConfig) Validate() error {
	if c.RenderHz <= 0 || c.RenderHz > 1000 {
		return fmt.Errorf("render_hz must be in (0,1000], got %v", c.RenderHz)
	}
	if c.DetectHz <= 0 || c.DetectHz > 1000 {
		return fmt.Errorf("detect_hz must be in (0,1000], got %v", c.DetectHz)
	}
	if c.StatsInterval < 0 {
		return fmt.Errorf("stats_interval must be >= 0, got %v", c.StatsInterval)
	}
	return nil
}

func period(hz float64) time.Duration {
	return time.Duration(float64(time.Second) / hz)
}

// Run drives the render and detection ticks until ctx is cancelled.
//
// Both ticks run on the calling goroutine, so a detection cycle always
// finishes before the next one starts. A slow cycle delays ticks rather than
// queueing them.
func (s *Session) Run(ctx context.Context, cfg LoopConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	render := time.NewTicker(period(cfg.RenderHz))
	defer render.Stop()
	detect := time.NewTicker(period(cfg.DetectHz))
	defer detect.Stop()

	var statsC <-chan time.Time
	if cfg.StatsInterval > 0 {
		stats := time.NewTicker(cfg.StatsInterval)
		defer stats.Stop()
		statsC = stats.C
	}

	s.log.WithFields(logrus.Fields{
		"render_hz": cfg.RenderHz,
		"detect_hz": cfg.DetectHz,
	}).Info("session loop started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("session loop stopped")
			return nil
		case <-render.C:
			s.RenderTick()
		case <-detect.C:
			s.DetectTick()
		case <-statsC:
			s.LogStats()
		}
	}
}
