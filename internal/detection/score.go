package detection

import "math"

// EdgeScorer rates how well a rectangle's perimeter coincides with edges.
type EdgeScorer struct {
	// Stride is the spacing of perimeter samples in pixels. Values below 1
	// are treated as 1.
	Stride int
}

// Score samples the four sides of r on the mask and returns the fraction of
// samples that land on edge pixels.
//
// Top and bottom are sampled at rows ⌊y⌋ and ⌊y+h⌋ for x, x+stride, ... < x+w;
// left and right at columns ⌊x⌋ and ⌊x+w⌋ for y, y+stride, ... < y+h. Samples
// that fall outside the mask are counted as non-edge. Zero-area rectangles
// score 0. The result is always in [0,1].
func (s EdgeScorer) Score(m *EdgeMask, r Rect) float64 {
	if !(r.Width > 0) || !(r.Height > 0) {
		return 0
	}
	stride := float64(s.Stride)
	if stride < 1 {
		stride = 1
	}

	top := int(math.Floor(r.Y))
	bottom := int(math.Floor(r.Y + r.Height))
	left := int(math.Floor(r.X))
	right := int(math.Floor(r.X + r.Width))

	hits, samples := 0, 0
	for i := r.X; i < r.X+r.Width; i += stride {
		col := int(math.Floor(i))
		if m.At(col, top) {
			hits++
		}
		if m.At(col, bottom) {
			hits++
		}
		samples += 2
	}
	for j := r.Y; j < r.Y+r.Height; j += stride {
		row := int(math.Floor(j))
		if m.At(left, row) {
			hits++
		}
		if m.At(right, row) {
			hits++
		}
		samples += 2
	}

	if samples == 0 {
		return 0
	}
	return float64(hits) / float64(samples)
}
