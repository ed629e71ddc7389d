package detection

import (
	"errors"
	"image/color"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
)

func newTestDetector(t *testing.T, rng Source) *Detector {
	t.Helper()
	d, err := NewDetector(DefaultConfig(), rng)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return d
}

func TestDetector_BlackFrame(t *testing.T) {
	d := newTestDetector(t, rand.New(rand.NewSource(1)))

	res, err := d.Detect(solidFrame(100, 100, color.RGBA{0, 0, 0, 255}))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(res.Markers) != 0 {
		t.Errorf("black frame: got %d markers, want 0", len(res.Markers))
	}
	if res.EdgePixels != 0 {
		t.Errorf("black frame: got %d edge pixels, want 0", res.EdgePixels)
	}
	if res.Accepted != 0 {
		t.Errorf("black frame: got %d accepted, want 0", res.Accepted)
	}
}

func TestDetector_AlignedProposal(t *testing.T) {
	// on a 100x100 frame minSide = 10 and maxSide = 80, so
	// x = y = (1/9)*90 = 10 and w = h = 10 + (4/7)*70 = 50
	src := &seqSource{
		vals:     []float64{1.0 / 9, 1.0 / 9, 4.0 / 7, 4.0 / 7},
		fallback: rand.New(rand.NewSource(2)),
	}
	d := newTestDetector(t, src)

	res, err := d.Detect(filledRectFrame(100, 100, 10, 10, 60, 60))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(res.Markers) == 0 {
		t.Fatal("expected the aligned proposal to be selected")
	}

	m := res.Markers[0]
	if m.Score != 1 {
		t.Errorf("score: got %v, want 1", m.Score)
	}
	if want := (Bounds{X1: 10, Y1: 10, X2: 60, Y2: 60}); m.Bounds != want {
		t.Errorf("bounds: got %+v, want %+v", m.Bounds, want)
	}
	for _, v := range []struct {
		name      string
		got, want float64
	}{
		{"x", m.X, 0.1},
		{"y", m.Y, 0.1},
		{"width", m.Width, 0.5},
		{"height", m.Height, 0.5},
	} {
		if math.Abs(v.got-v.want) > 1e-9 {
			t.Errorf("%s: got %v, want %v", v.name, v.got, v.want)
		}
	}

	if res.Width != 100 || res.Height != 100 {
		t.Errorf("result dimensions: got %dx%d", res.Width, res.Height)
	}
	if res.Proposed < 1 || res.Proposed > 20 {
		t.Errorf("proposed: got %d, want 1..20", res.Proposed)
	}
}

func TestDetector_Deterministic(t *testing.T) {
	// top quarter noise, the rest a filled rectangle
	noise := noiseFrame(160, 120, 9)
	frame := filledRectFrame(160, 120, 20, 20, 90, 80)
	copy(frame.Pix[:len(noise.Pix)/4], noise.Pix)

	a := newTestDetector(t, rand.New(rand.NewSource(77)))
	b := newTestDetector(t, rand.New(rand.NewSource(77)))

	for i := 0; i < 5; i++ {
		ra, err := a.Detect(frame)
		if err != nil {
			t.Fatalf("Detect a: %v", err)
		}
		rb, err := b.Detect(frame)
		if err != nil {
			t.Fatalf("Detect b: %v", err)
		}
		if !reflect.DeepEqual(ra.Markers, rb.Markers) {
			t.Errorf("cycle %d: markers differ:\n%+v\n%+v", i, ra.Markers, rb.Markers)
		}
	}
}

func TestDetector_Invariants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = 200
	d, err := NewDetector(cfg, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	for seed := int64(0); seed < 10; seed++ {
		res, err := d.Detect(noiseFrame(80, 60, seed))
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}
		if len(res.Markers) > cfg.MaxMarkers {
			t.Errorf("seed %d: %d markers exceeds cap", seed, len(res.Markers))
		}
		if res.Accepted > res.Proposed {
			t.Errorf("seed %d: accepted %d > proposed %d", seed, res.Accepted, res.Proposed)
		}
		for i, m := range res.Markers {
			if m.Score < cfg.MinScore || m.Score > 1 {
				t.Errorf("seed %d: marker %d score %v", seed, i, m.Score)
			}
			if i > 0 && m.Score > res.Markers[i-1].Score {
				t.Errorf("seed %d: markers not sorted at %d", seed, i)
			}
		}
	}
}

func TestDetector_FrameNotReady(t *testing.T) {
	d := newTestDetector(t, rand.New(rand.NewSource(1)))

	for _, f := range []*imaging.Frame{nil, {}, imaging.NewFrame(100, 0)} {
		res, err := d.Detect(f)
		if !errors.Is(err, ErrFrameNotReady) {
			t.Errorf("expected ErrFrameNotReady, got %v", err)
		}
		if res != nil {
			t.Errorf("expected nil result, got %+v", res)
		}
	}
}

func TestDetector_EdgeMask(t *testing.T) {
	d := newTestDetector(t, rand.New(rand.NewSource(1)))

	if _, err := d.Detect(filledRectFrame(50, 40, 5, 5, 30, 30)); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	m := d.EdgeMask()
	if m.Width != 50 || m.Height != 40 {
		t.Errorf("edge mask dimensions: got %dx%d", m.Width, m.Height)
	}
	if !m.At(5, 15) {
		t.Error("expected edge at rectangle boundary")
	}
}

func TestNewDetector_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleStride = 0

	if _, err := NewDetector(cfg, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewDetector_NilSource(t *testing.T) {
	d, err := NewDetector(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	if _, err := d.Detect(noiseFrame(40, 40, 1)); err != nil {
		t.Errorf("Detect: %v", err)
	}
	if d.Config() != DefaultConfig() {
		t.Errorf("Config: got %+v", d.Config())
	}
}
