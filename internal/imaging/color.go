package imaging

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S float64 `json:"s"` // Saturation: 0-1
	L float64 `json:"l"` // Lightness: 0-1
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#rrggbb"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// RandomSource is the subset of *math/rand.Rand used for colour picking.
type RandomSource interface {
	Float64() float64
}

// OverlayColor returns the colour with the given hue (degrees), saturation
// and lightness (both 0-1), clamped into the displayable RGB gamut.
// Hues outside [0,360) wrap around.
func OverlayColor(hue, saturation, lightness float64) colorful.Color {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	return colorful.Hsl(hue, saturation, lightness).Clamped()
}

// RandomOverlayColor picks a uniformly random hue from src at the given
// saturation and lightness.
func RandomOverlayColor(src RandomSource, saturation, lightness float64) colorful.Color {
	return OverlayColor(src.Float64()*360, saturation, lightness)
}

// DescribeColor reports c in hex, RGB and HSL form.
//
// The conversion round-trips through go-colorful's HSL model, so the hue of
// a grey (zero saturation) colour is reported as 0.
func DescribeColor(c colorful.Color) ColorResult {
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex: c.Hex(),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{H: h, S: s, L: l},
	}
}
