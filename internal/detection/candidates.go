package detection

import "math"

// Rect is an axis-aligned rectangle in pixel space. Coordinates are
// fractional: proposals are drawn from a continuous distribution and only
// floored when the edge mask is sampled.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the integer pixel bounds covered by r (corners floored).
func (r Rect) Bounds() Bounds {
	return Bounds{
		X1: int(math.Floor(r.X)),
		Y1: int(math.Floor(r.Y)),
		X2: int(math.Floor(r.X + r.Width)),
		Y2: int(math.Floor(r.Y + r.Height)),
	}
}

// Source supplies uniformly distributed numbers in [0,1). *math/rand.Rand
// satisfies it; tests inject fixed sequences.
type Source interface {
	Float64() float64
}

// CandidateGenerator proposes random rectangles within size bounds.
//
// Proposals are purely stochastic: a fixed number of attempts is made per
// frame and attempts that do not fit inside the frame are dropped, so a frame
// may yield anywhere between zero and Iterations candidates.
type CandidateGenerator struct {
	// Iterations is the number of attempts per frame.
	Iterations int

	// MinSize and MaxSize are side-length bounds as fractions of
	// min(width, height).
	MinSize float64
	MaxSize float64

	rng Source
}

// NewCandidateGenerator returns a generator drawing from rng.
func NewCandidateGenerator(iterations int, minSize, maxSize float64, rng Source) *CandidateGenerator {
	return &CandidateGenerator{
		Iterations: iterations,
		MinSize:    minSize,
		MaxSize:    maxSize,
		rng:        rng,
	}
}

// Propose appends this frame's candidates for a width x height frame to dst
// and returns the extended slice.
//
// For each attempt four numbers are drawn, in order:
//
//	x      = r·(width  − minSide)
//	y      = r·(height − minSide)
//	w      = minSide + r·(maxSide − minSide)
//	h      = minSide + r·(maxSide − minSide)
//
// where minSide and maxSide are MinSize and MaxSize times min(width, height).
// The rectangle is kept only when it has positive size and lies strictly
// inside the frame (x+w < width, y+h < height), which keeps every floored
// perimeter coordinate a valid pixel index.
func (g *CandidateGenerator) Propose(width, height int, dst []Rect) []Rect {
	if width <= 0 || height <= 0 {
		return dst
	}

	fw, fh := float64(width), float64(height)
	side := math.Min(fw, fh)
	minSide := side * g.MinSize
	maxSide := side * g.MaxSize

	for i := 0; i < g.Iterations; i++ {
		x := g.rng.Float64() * (fw - minSide)
		y := g.rng.Float64() * (fh - minSide)
		w := minSide + g.rng.Float64()*(maxSide-minSide)
		h := minSide + g.rng.Float64()*(maxSide-minSide)

		if w <= 0 || h <= 0 || x < 0 || y < 0 {
			continue
		}
		if x+w < fw && y+h < fh {
			dst = append(dst, Rect{X: x, Y: y, Width: w, Height: h})
		}
	}
	return dst
}
