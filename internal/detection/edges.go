package detection

import (
	"image"

	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
)

// EdgeMask is a binary per-pixel edge classification with the same
// dimensions as the frame it was extracted from.
type EdgeMask struct {
	Width  int
	Height int
	edges  []bool
}

// At reports whether (x, y) is an edge pixel. Coordinates outside the mask
// are never edges.
func (m *EdgeMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.edges[y*m.Width+x]
}

// Count returns the number of edge pixels.
func (m *EdgeMask) Count() int {
	n := 0
	for _, e := range m.edges[:m.Width*m.Height] {
		if e {
			n++
		}
	}
	return n
}

// Clone returns a copy that stays valid after the extractor is reused.
func (m *EdgeMask) Clone() *EdgeMask {
	edges := make([]bool, m.Width*m.Height)
	copy(edges, m.edges)
	return &EdgeMask{Width: m.Width, Height: m.Height, edges: edges}
}

// Image renders the mask as grayscale: edges are white (255), everything else
// black (0).
func (m *EdgeMask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, e := range m.edges[:m.Width*m.Height] {
		if e {
			img.Pix[i] = 255
		}
	}
	return img
}

// EdgeExtractor converts frames into edge masks with a 3x3 Sobel operator.
//
// The extractor owns its luminance plane and mask buffers and reuses them for
// every frame, growing them only when a larger frame arrives. The mask returned
// by Extract is therefore only valid until the next call; use Clone to keep it.
//
// An EdgeExtractor is not safe for concurrent use.
type EdgeExtractor struct {
	// Threshold is the gradient magnitude a pixel must exceed to be an edge.
	Threshold float64

	luma []float64
	mask EdgeMask
}

// NewEdgeExtractor returns an extractor with the given magnitude threshold.
func NewEdgeExtractor(threshold float64) *EdgeExtractor {
	return &EdgeExtractor{Threshold: threshold}
}

// Extract computes the edge mask of f.
//
// # Algorithm
//
//  1. Luminance: unweighted mean of R, G and B for every pixel (alpha ignored)
//
//  2. Gradient: Sobel kernels over the 8 neighbours of each interior pixel
//
//     Gx = [-1 0 1; -2 0 2; -1 0 1]    Gy = [-1 -2 -1; 0 0 0; 1 2 1]
//
//  3. Threshold: edge iff sqrt(Gx² + Gy²) > Threshold
//
// The 1-pixel border is never marked. Frames that are not ready produce an
// empty 0x0 mask.
func (e *EdgeExtractor) Extract(f *imaging.Frame) *EdgeMask {
	if !f.Ready() {
		e.mask.Width, e.mask.Height = 0, 0
		return &e.mask
	}

	w, h := f.Width, f.Height
	n := w * h
	if cap(e.luma) < n {
		e.luma = make([]float64, n)
		e.mask.edges = make([]bool, n)
	}
	luma := e.luma[:n]
	edges := e.mask.edges[:n]
	e.mask.Width, e.mask.Height = w, h

	pix := f.Pix
	for i := range luma {
		p := i * 4
		luma[i] = (float64(pix[p]) + float64(pix[p+1]) + float64(pix[p+2])) / 3
	}
	clear(edges)

	// compare squared magnitudes; the threshold is never negative
	t2 := e.Threshold * e.Threshold
	for y := 1; y < h-1; y++ {
		row := y * w
		for x := 1; x < w-1; x++ {
			i := row + x
			tl, t, tr := luma[i-w-1], luma[i-w], luma[i-w+1]
			l, r := luma[i-1], luma[i+1]
			bl, b, br := luma[i+w-1], luma[i+w], luma[i+w+1]

			gx := (tr + 2*r + br) - (tl + 2*l + bl)
			gy := (bl + 2*b + br) - (tl + 2*t + tr)
			edges[i] = gx*gx+gy*gy > t2
		}
	}
	return &e.mask
}

// EdgeMaskImage is a convenience for one-off debugging: it extracts the edge
// mask of f with the given threshold and renders it as grayscale.
func EdgeMaskImage(f *imaging.Frame, threshold float64) *image.Gray {
	return NewEdgeExtractor(threshold).Extract(f).Image()
}
