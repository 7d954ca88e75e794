/*
Package channel implements the per-pixel channel quantizers for each texture
color depth.

Every quantizer reduces the precision of the color channels to the number of
levels the hardware format can represent and scales the result back into the
0-255 range so images remain 8 bits per channel for further processing:

	16-bit  5:5:5:1  channels in steps of 8, binary alpha
	 8-bit  3:3:2    red and green in steps of 36, blue in steps of 85, opaque
	 4-bit  2:2:2    all channels in steps of 85, opaque
	32-bit  8:8:8:8  unchanged
*/
package channel

import (
	"image"
	"image/color"

	"github.com/bodgit/n64tex/format"
)

// Func quantizes a single pixel.
type Func func(color.NRGBA) color.NRGBA

// level returns floor(c / 255 * levels)
func level(c uint8, levels uint32) uint32 {
	return uint32(c) * levels / 0xff
}

func scale(c uint8, levels, step uint32) uint8 {
	return uint8(level(c, levels) * step)
}

// Quantize16 models 5:5:5:1 packing.
func Quantize16(c color.NRGBA) color.NRGBA {
	a := uint8(0)
	if c.A > 0x7f {
		a = 0xff
	}
	return color.NRGBA{
		R: scale(c.R, 31, 8),
		G: scale(c.G, 31, 8),
		B: scale(c.B, 31, 8),
		A: a,
	}
}

// Quantize8 models 3:3:2 packing; there is no alpha.
func Quantize8(c color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: scale(c.R, 7, 36),
		G: scale(c.G, 7, 36),
		B: scale(c.B, 3, 85),
		A: 0xff,
	}
}

// Quantize4 keeps two bits of each channel; there is no alpha.
func Quantize4(c color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: scale(c.R, 3, 85),
		G: scale(c.G, 3, 85),
		B: scale(c.B, 3, 85),
		A: 0xff,
	}
}

// Quantize32 returns c unchanged.
func Quantize32(c color.NRGBA) color.NRGBA {
	return c
}

// ForDepth returns the quantizer for d. Unknown depths get Quantize32.
func ForDepth(d format.Depth) Func {
	switch d {
	case format.Depth16:
		return Quantize16
	case format.Depth8:
		return Quantize8
	case format.Depth4:
		return Quantize4
	default:
		return Quantize32
	}
}

// Apply quantizes every pixel of m in place.
func Apply(m *image.NRGBA, q Func) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := m.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			s := m.Pix[i : i+4 : i+4]
			c := q(color.NRGBA{s[0], s[1], s[2], s[3]})
			s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
		}
	}
}
