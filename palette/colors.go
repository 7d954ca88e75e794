package palette

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

func countColors(m image.Image) map[color.NRGBA]int {
	colors := make(map[color.NRGBA]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)]++
		}
	}
	return colors
}

// Count returns the number of distinct colors in m.
func Count(m image.Image) int {
	return len(countColors(m))
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Colors returns the distinct colors of m, ignoring alpha, ordered from
// darkest to brightest.
func Colors(m image.Image) []colorful.Color {
	seen := make(map[color.NRGBA]struct{})
	for c := range countColors(m) {
		c.A = 0xff
		seen[c] = struct{}{}
	}

	out := make([]colorful.Color, 0, len(seen))
	for c := range seen {
		out = append(out, colorful.Color{
			R: float64(c.R) / 0xff,
			G: float64(c.G) / 0xff,
			B: float64(c.B) / 0xff,
		})
	}

	slices.SortFunc(out, func(a, b colorful.Color) int {
		if c := cmp.Compare(luminance(a), luminance(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Hex(), b.Hex())
	})
	return out
}
