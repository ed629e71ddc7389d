package scene

import (
	"fmt"
	"math"
	"strings"
)

// Shape selects the primitive used for overlays when no template is loaded.
type Shape int

const (
	Cube Shape = iota
	Sphere
	Pyramid
)

var shapeNames = [...]string{"cube", "sphere", "pyramid"}

// Shapes lists every primitive in cycling order.
func Shapes() []Shape {
	return []Shape{Cube, Sphere, Pyramid}
}

// String returns the lower-case shape name.
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

// Next returns the shape after s, wrapping from Pyramid back to Cube.
func (s Shape) Next() Shape {
	return Shape((int(s) + 1) % len(shapeNames))
}

// ParseShape converts a shape name (case-insensitive) into a Shape.
func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(name, n) {
			return Shape(i), nil
		}
	}
	return Cube, fmt.Errorf("unknown shape %q (want cube, sphere or pyramid)", name)
}

// Primitive dimensions. Every primitive fits the unit cube centred on the
// origin.
const (
	primitiveRadius   = 0.5
	sphereSegments    = 16
	pyramidSegments   = 4
	primitiveSideSize = 1.0
)

// NewPrimitive returns a mesh node for shape with the given material:
// a 1x1x1 box, a sphere of radius 0.5 (16x16 segments) or a cone of radius 0.5
// and height 1 with 4 radial segments. Unknown shapes fall back to the box.
func NewPrimitive(shape Shape, mat *Material) *Node {
	var g *Geometry
	switch shape {
	case Sphere:
		g = NewGeometry("sphere", spherePositions(primitiveRadius, sphereSegments, sphereSegments))
	case Pyramid:
		g = NewGeometry("cone", conePositions(primitiveRadius, primitiveSideSize, pyramidSegments))
	default:
		shape = Cube
		g = NewGeometry("box", boxPositions(primitiveSideSize))
	}
	return NewMeshNode(shape.String(), g, mat)
}

func boxPositions(size float64) []Vec3 {
	h := size / 2
	out := make([]Vec3, 0, 8)
	for _, x := range []float64{-h, h} {
		for _, y := range []float64{-h, h} {
			for _, z := range []float64{-h, h} {
				out = append(out, Vec3{x, y, z})
			}
		}
	}
	return out
}

// spherePositions builds a UV sphere: rings from the north pole (+Y) to the
// south pole, each ring closing on its first vertex.
func spherePositions(radius float64, widthSegments, heightSegments int) []Vec3 {
	out := make([]Vec3, 0, (widthSegments+1)*(heightSegments+1))
	for iy := 0; iy <= heightSegments; iy++ {
		theta := float64(iy) / float64(heightSegments) * math.Pi
		for ix := 0; ix <= widthSegments; ix++ {
			phi := float64(ix) / float64(widthSegments) * 2 * math.Pi
			out = append(out, Vec3{
				X: -radius * math.Cos(phi) * math.Sin(theta),
				Y: radius * math.Cos(theta),
				Z: radius * math.Sin(phi) * math.Sin(theta),
			})
		}
	}
	return out
}

// conePositions builds a cone along +Y centred on the origin: the apex, the
// base ring and the base centre.
func conePositions(radius, height float64, radialSegments int) []Vec3 {
	half := height / 2
	out := make([]Vec3, 0, radialSegments+2)
	out = append(out, Vec3{0, half, 0})
	for i := 0; i < radialSegments; i++ {
		theta := float64(i) / float64(radialSegments) * 2 * math.Pi
		out = append(out, Vec3{
			X: radius * math.Sin(theta),
			Y: -half,
			Z: radius * math.Cos(theta),
		})
	}
	out = append(out, Vec3{0, -half, 0})
	return out
}
