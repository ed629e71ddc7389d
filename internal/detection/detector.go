package detection

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
)

// ErrFrameNotReady is returned for nil frames and frames with zero
// dimensions. Callers retry on the next tick.
var ErrFrameNotReady = errors.New("frame not ready")

// Result is the outcome of one detection cycle.
type Result struct {
	// Markers are this frame's detections, best first.
	Markers []Marker `json:"markers"`

	// Width and Height are the frame dimensions the markers are relative to.
	Width  int `json:"width"`
	Height int `json:"height"`

	// FrameSeq is the sequence number of the processed frame.
	FrameSeq uint64 `json:"frame_seq"`

	// Proposed is the number of candidates that fit inside the frame.
	Proposed int `json:"proposed"`

	// Accepted is the number of candidates that met MinScore (before the
	// MaxMarkers cap).
	Accepted int `json:"accepted"`

	// EdgePixels is the number of pixels marked in the edge mask.
	EdgePixels int `json:"edge_pixels"`

	// Elapsed is the wall-clock time the cycle took.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Detector runs the per-frame pipeline: edge extraction, random candidate
// proposal, perimeter scoring and top-K selection.
//
// A Detector reuses its buffers between frames and is not safe for
// concurrent use.
type Detector struct {
	cfg       Config
	extractor *EdgeExtractor
	generator *CandidateGenerator
	scorer    EdgeScorer
	selector  MarkerSelector

	rects      []Rect
	candidates []Candidate
}

// NewDetector validates cfg and builds a detector drawing proposals from rng.
// A nil rng is replaced by a time-seeded source.
func NewDetector(cfg Config, rng Source) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Detector{
		cfg:       cfg,
		extractor: NewEdgeExtractor(cfg.EdgeThreshold),
		generator: NewCandidateGenerator(cfg.Iterations, cfg.MinSize, cfg.MaxSize, rng),
		scorer:    EdgeScorer{Stride: cfg.SampleStride},
		selector:  MarkerSelector{MinScore: cfg.MinScore, MaxMarkers: cfg.MaxMarkers},
	}, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// EdgeMask returns the mask computed by the most recent Detect call. It is
// overwritten by the next call.
func (d *Detector) EdgeMask() *EdgeMask {
	return &d.extractor.mask
}

// Detect runs one full detection cycle on f.
//
// Returns ErrFrameNotReady (wrapped) when f is nil or has no pixels. With the
// same frame and the same random sequence the result is identical.
func (d *Detector) Detect(f *imaging.Frame) (*Result, error) {
	if !f.Ready() {
		if f == nil {
			return nil, ErrFrameNotReady
		}
		return nil, fmt.Errorf("%w: %dx%d", ErrFrameNotReady, f.Width, f.Height)
	}

	start := time.Now()
	mask := d.extractor.Extract(f)

	d.rects = d.generator.Propose(f.Width, f.Height, d.rects[:0])

	d.candidates = d.candidates[:0]
	accepted := 0
	for _, r := range d.rects {
		score := d.scorer.Score(mask, r)
		if score >= d.cfg.MinScore {
			accepted++
		}
		d.candidates = append(d.candidates, Candidate{Rect: r, Score: score})
	}

	markers := d.selector.Select(d.candidates, f.Width, f.Height)

	return &Result{
		Markers:    markers,
		Width:      f.Width,
		Height:     f.Height,
		FrameSeq:   f.Seq,
		Proposed:   len(d.rects),
		Accepted:   accepted,
		EdgePixels: mask.Count(),
		Elapsed:    time.Since(start),
	}, nil
}
