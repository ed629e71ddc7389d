package overlay

import (
	"math"
	"time"
)

// Animator spins and pulses live overlays once per render frame. It never
// creates or destroys objects.
type Animator struct {
	cfg AnimationConfig
	now func() time.Time
}

// NewAnimator returns an animator reading wall-clock time from now. A nil now
// uses time.Now.
func NewAnimator(cfg AnimationConfig, now func() time.Time) *Animator {
	if now == nil {
		now = time.Now
	}
	return &Animator{cfg: cfg, now: now}
}

// Pulse returns the scale multiplier at t:
//
//	1 + PulseAmplitude*sin(unixMillis(t)*PulseRate)
func (a *Animator) Pulse(t time.Time) float64 {
	ms := float64(t.UnixMilli())
	return 1 + a.cfg.PulseAmplitude*math.Sin(ms*a.cfg.PulseRate)
}

// Tick advances every object by one frame at the current clock time and
// returns the pulse that was applied.
func (a *Animator) Tick(objects []*Object) float64 {
	return a.TickAt(a.now(), objects)
}

// TickAt advances every object by one frame as if the time were t. All
// objects share the same pulse.
func (a *Animator) TickAt(t time.Time, objects []*Object) float64 {
	pulse := a.Pulse(t)
	for _, obj := range objects {
		n := obj.Node
		n.Rotation.X += obj.RotationSpeed
		n.Rotation.Y += obj.RotationSpeed * a.cfg.SecondaryRatio
		n.Scale = obj.BaseScale.Scaled(pulse)
	}
	return pulse
}
