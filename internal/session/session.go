package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/marker-overlay-mcp/internal/asset"
	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/overlay"
	"github.com/ironsheep/marker-overlay-mcp/internal/scene"
)

// Options configures a Session. Zero-valued fields get defaults.
type Options struct {
	Detection detection.Config
	Overlay   overlay.Config
	Animation overlay.AnimationConfig

	// Seed fixes the random sequences for proposals and colours. Zero seeds
	// from the clock.
	Seed int64

	// Graph receives the overlays. Nil uses a fresh scene.Scene.
	Graph scene.Graph

	// Source supplies frames. It can also be attached later with SetSource.
	Source FrameSource

	// Sink receives status messages. Nil discards them.
	Sink StatusSink

	// Clock drives the pulse animation. Nil uses time.Now.
	Clock func() time.Time

	Log *logrus.Entry
}

// Stats counts what the detection tick has done since the session started.
type Stats struct {
	Cycles      uint64        `json:"cycles"`
	Skipped     uint64        `json:"skipped"`
	NotReady    uint64        `json:"not_ready"`
	Errors      uint64        `json:"errors"`
	Markers     uint64        `json:"markers"`
	RenderTicks uint64        `json:"render_ticks"`
	LastElapsed time.Duration `json:"last_elapsed_ns"`
}

// Session wires a frame source through detection into animated overlays and
// exposes the host controls.
//
// The detection and render ticks and every control method serialise on one
// mutex, so overlay replacement and animation never interleave.
type Session struct {
	mu sync.Mutex

	log      *logrus.Entry
	sink     StatusSink
	detector *detection.Detector
	sync     *overlay.Synchronizer
	animator *overlay.Animator
	graph    scene.Graph

	source      FrameSource
	sourceLabel string

	enabled      bool
	hidden       bool
	shape        scene.Shape
	template     *scene.Node
	templateName string
	useTemplate  bool

	last       *detection.Result
	lastCycle  uuid.UUID
	lastStatus *Status
	stats      Stats
}

// New builds a session. Detection starts enabled when opts.Source is set.
func New(opts Options) (*Session, error) {
	if opts.Detection == (detection.Config{}) {
		opts.Detection = detection.DefaultConfig()
	}
	if opts.Overlay == (overlay.Config{}) {
		opts.Overlay = overlay.DefaultConfig()
	}
	if opts.Animation == (overlay.AnimationConfig{}) {
		opts.Animation = overlay.DefaultAnimationConfig()
	}
	if err := opts.Overlay.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Animation.Validate(); err != nil {
		return nil, err
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Graph == nil {
		opts.Graph = scene.New()
	}
	if opts.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Log = logrus.NewEntry(l)
	}

	det, err := detection.NewDetector(opts.Detection, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return nil, err
	}

	s := &Session{
		log:      opts.Log,
		sink:     opts.Sink,
		detector: det,
		sync:     overlay.NewSynchronizer(opts.Graph, opts.Overlay, rand.New(rand.NewSource(opts.Seed+1)), opts.Log.WithField("component", "overlay")),
		animator: overlay.NewAnimator(opts.Animation, opts.Clock),
		graph:    opts.Graph,
		source:   opts.Source,
		enabled:  opts.Source != nil,
		shape:    scene.Cube,
	}
	if opts.Source != nil {
		s.sourceLabel = describeSource(opts.Source)
	}
	return s, nil
}

func describeSource(src FrameSource) string {
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}

// report must be called with s.mu held.
func (s *Session) report(sev Severity, format string, args ...any) {
	st := Status{Message: fmt.Sprintf(format, args...), Severity: sev, Time: time.Now()}
	s.lastStatus = &st
	if s.sink != nil {
		s.sink.Report(st)
	}
}

func (s *Session) mode() overlay.Mode {
	m := overlay.Mode{Shape: s.shape}
	if s.useTemplate && s.template != nil {
		m.Template = s.template
	}
	return m
}

// DetectTick runs one detection cycle: frame, markers, overlay replacement.
//
// It does nothing while detection is disabled or the host is hidden, and
// returns quietly when the source has no frame yet. Errors are reported to
// the status sink; the tick never fails.
func (s *Session) DetectTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.hidden || s.source == nil {
		s.stats.Skipped++
		return
	}

	f, err := s.source.Frame()
	if err != nil {
		s.stats.Errors++
		s.report(SeverityError, "Frame source error: %v", err)
		return
	}

	res, err := s.detector.Detect(f)
	if errors.Is(err, detection.ErrFrameNotReady) {
		s.stats.NotReady++
		return
	}
	if err != nil {
		s.stats.Errors++
		s.report(SeverityError, "Detection error: %v", err)
		return
	}

	cycle := uuid.New()
	if _, err := s.sync.Sync(res.Markers, s.mode()); err != nil {
		// keeps the previous overlays; drop back to primitives so the next
		// cycle succeeds
		s.stats.Errors++
		s.useTemplate = false
		s.report(SeverityError, "Error loading model: %v", err)
		return
	}

	s.last = res
	s.lastCycle = cycle
	s.stats.Cycles++
	s.stats.Markers += uint64(len(res.Markers))
	s.stats.LastElapsed = res.Elapsed

	s.log.WithFields(logrus.Fields{
		"cycle":    cycle.String(),
		"frame":    res.FrameSeq,
		"proposed": res.Proposed,
		"accepted": res.Accepted,
		"markers":  len(res.Markers),
	}).Trace("detection cycle")

	if n := len(res.Markers); n > 0 {
		s.report(SeveritySuccess, "Detected %d marker(s)", n)
	} else {
		s.report(SeverityInfo, "Scanning for markers...")
	}
}

// RenderTick advances the overlay animation to the session clock and returns
// the pulse factor applied. It runs regardless of the detection state.
func (s *Session) RenderTick() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.RenderTicks++
	return s.animator.Tick(s.sync.Objects())
}

// ToggleDetection flips the detection switch and returns the new state.
func (s *Session) ToggleDetection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDetection(!s.enabled)
	return s.enabled
}

// SetDetection turns detection on or off.
func (s *Session) SetDetection(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDetection(enabled)
}

func (s *Session) setDetection(enabled bool) {
	s.enabled = enabled
	if enabled {
		s.report(SeveritySuccess, "Detection enabled")
	} else {
		s.report(SeverityInfo, "Detection paused")
	}
}

// SetVisible pauses detection while the host is hidden and resumes it when
// shown. The detection switch is left untouched, so a user pause survives a
// hide/show cycle.
func (s *Session) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden == !visible {
		return
	}
	s.hidden = !visible
	s.log.WithField("visible", visible).Debug("visibility changed")
}

// CycleShape advances to the next primitive and returns it. In template mode
// the shape is left alone.
func (s *Session) CycleShape() scene.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.useTemplate && s.template != nil {
		s.report(SeveritySuccess, "Using custom model")
		return s.shape
	}
	s.shape = s.shape.Next()
	s.report(SeveritySuccess, "Changed to %s", s.shape)
	return s.shape
}

// ResetToDefault leaves template mode and goes back to cubes. A loaded
// template stays loaded.
func (s *Session) ResetToDefault() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useTemplate = false
	s.shape = scene.Cube
	s.report(SeveritySuccess, "Switched to default shapes")
}

// SetTemplate validates tmpl and switches to template mode. The previous
// template, if any, is released. On error the mode is unchanged.
func (s *Session) SetTemplate(tmpl *scene.Node, name string) error {
	if err := overlay.CheckTemplate(tmpl); err != nil {
		s.mu.Lock()
		s.report(SeverityError, "Error loading model: %v", err)
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.template != nil && s.template != tmpl {
		if err := s.template.Release(); err != nil {
			s.log.WithError(err).Warn("previous template was already released")
		}
	}
	s.template = tmpl
	s.templateName = name
	s.useTemplate = true
	s.report(SeveritySuccess, "Custom model loaded: %s", name)
	return nil
}

// LoadModel parses a model file in the background and switches to template
// mode when it succeeds. The returned channel yields the outcome once.
func (s *Session) LoadModel(path string) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	s.report(SeverityInfo, "Loading model...")
	s.mu.Unlock()

	go func() {
		defer close(done)

		node, err := asset.Load(path)
		if err != nil {
			s.mu.Lock()
			if errors.Is(err, asset.ErrUnsupportedFormat) {
				s.report(SeverityError, "Unsupported file format")
			} else {
				s.report(SeverityError, "Error loading model: %v", err)
			}
			s.mu.Unlock()
			s.log.WithError(err).WithField("path", path).Warn("model load failed")
			done <- err
			return
		}

		s.log.WithFields(logrus.Fields{
			"path":     path,
			"vertices": node.VertexCount(),
		}).Info("model loaded")
		done <- s.SetTemplate(node, node.Name)
	}()
	return done
}

// SetSource replaces the frame source and enables detection. The previous
// source is closed when it implements io.Closer.
func (s *Session) SetSource(src FrameSource, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.source.(io.Closer); ok && s.source != src {
		if err := c.Close(); err != nil {
			s.log.WithError(err).Warn("failed to close previous frame source")
		}
	}
	s.source = src
	if label == "" && src != nil {
		label = describeSource(src)
	}
	s.sourceLabel = label
	if src == nil {
		s.enabled = false
		return
	}
	s.enabled = true
	s.report(SeveritySuccess, "%s started", label)
}

// LogStats writes the counters at debug level.
func (s *Session) LogStats() {
	s.mu.Lock()
	st := s.stats
	objects := len(s.sync.Objects())
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"cycles":       st.Cycles,
		"skipped":      st.Skipped,
		"not_ready":    st.NotReady,
		"errors":       st.Errors,
		"markers":      st.Markers,
		"render_ticks": st.RenderTicks,
		"objects":      objects,
		"last_elapsed": st.LastElapsed.String(),
	}).Debug("session stats")
}

// Close removes and releases every overlay and the template, and closes the
// frame source when it implements io.Closer.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sync.Clear()
	if s.template != nil {
		if err := s.template.Release(); err != nil {
			s.log.WithError(err).Warn("template was already released")
		}
		s.template = nil
		s.useTemplate = false
	}
	if c, ok := s.source.(io.Closer); ok {
		s.source = nil
		return c.Close()
	}
	s.source = nil
	return nil
}
