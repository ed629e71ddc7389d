package detection

// Bounds represents an axis-aligned bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() int {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Bounds) Height() int {
	return b.Y2 - b.Y1
}
