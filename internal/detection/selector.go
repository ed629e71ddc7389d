package detection

import "sort"

// Candidate is a scored proposal from one detection cycle.
type Candidate struct {
	Rect  Rect
	Score float64
}

// Marker is a candidate that survived selection, normalised to the frame.
//
// X, Y, Width and Height are fractions of the frame width and height, so
// downstream consumers never depend on the capture resolution. Bounds keeps
// the floored pixel rectangle for debug surfaces.
type Marker struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Score  float64 `json:"score"`
	Bounds Bounds  `json:"pixel_bounds"`
}

// MarkerSelector filters and ranks candidates.
type MarkerSelector struct {
	// MinScore is the lowest score kept.
	MinScore float64

	// MaxMarkers caps the number of markers returned.
	MaxMarkers int
}

// Select keeps candidates scoring at least MinScore, orders them by score
// (highest first, ties in generation order) and returns up to MaxMarkers of
// them normalised to a width x height frame. The input slice is not modified.
func (s MarkerSelector) Select(candidates []Candidate, width, height int) []Marker {
	if width <= 0 || height <= 0 || s.MaxMarkers <= 0 {
		return []Marker{}
	}

	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= s.MinScore {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if len(kept) > s.MaxMarkers {
		kept = kept[:s.MaxMarkers]
	}

	fw, fh := float64(width), float64(height)
	markers := make([]Marker, len(kept))
	for i, c := range kept {
		markers[i] = Marker{
			X:      c.Rect.X / fw,
			Y:      c.Rect.Y / fh,
			Width:  c.Rect.Width / fw,
			Height: c.Rect.Height / fh,
			Score:  c.Score,
			Bounds: c.Rect.Bounds(),
		}
	}
	return markers
}
