package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
)

// DefaultOutlineColor is used when Annotate receives an unparsable colour.
var DefaultOutlineColor = color.RGBA{0, 255, 0, 255}

// Annotate draws a 2-pixel outline around each box on a copy of img and
// labels it with its index (0-based) in the top-left corner.
//
// Boxes are clipped to the image; empty boxes are skipped. colorHex accepts
// "#RRGGBB" or "#RRGGBBAA"; invalid values fall back to DefaultOutlineColor.
func Annotate(img image.Image, boxes []image.Rectangle, colorHex string) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()

	outline, err := parseHexColor(colorHex)
	if err != nil {
		outline = DefaultOutlineColor
	}
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	for i, box := range boxes {
		box = box.Intersect(bounds)
		if box.Empty() {
			continue
		}
		drawOutline(out, box, 2, outline)
		drawLabel(out, box.Min.X+3, box.Min.Y+3, strconv.Itoa(i), labelColor, bgColor)
	}
	return out
}

// drawOutline strokes the inside of r with the given thickness.
func drawOutline(img draw.Image, r image.Rectangle, thickness int, c color.Color) {
	for t := 0; t < thickness; t++ {
		x1, y1 := r.Min.X+t, r.Min.Y+t
		x2, y2 := r.Max.X-1-t, r.Max.Y-1-t
		if x1 > x2 || y1 > y2 {
			return
		}
		for x := x1; x <= x2; x++ {
			img.Set(x, y1, c)
			img.Set(x, y2, c)
		}
		for y := y1; y <= y2; y++ {
			img.Set(x1, y, c)
			img.Set(x2, y, c)
		}
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a small digit label with a background box.
func drawLabel(img draw.Image, x, y int, text string, fg, bg color.RGBA) {
	// 3x5 pixel font, digits only
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 6

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if image.Pt(px, py).In(bounds) {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
