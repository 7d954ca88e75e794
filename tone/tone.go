/*
Package tone implements the tonal adjustments applied to an image before it
is quantized: resizing to the texture dimensions, saturation, contrast and a
box blur.
*/
package tone

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Luma weights used for desaturation
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

const midGray = 128

// Options controls Apply. A factor of 1 leaves the image unchanged, as does
// a blur radius of zero.
type Options struct {
	Width      int
	Height     int
	Saturation float64
	Contrast   float64
	BlurRadius float64
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 0xff:
		return 0xff
	}
	return uint8(math.Floor(v + 0.5))
}

// Normalize returns a copy of m as non-premultiplied RGBA with its origin at
// (0, 0). Images without alpha become fully opaque.
func Normalize(m image.Image) *image.NRGBA {
	return imaging.Clone(m)
}

// Resize stretches m to exactly width by height using a Lanczos filter. The
// aspect ratio is not preserved.
func Resize(m image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(m, width, height, imaging.Lanczos)
}

// Saturate blends each pixel with its grayscale value. A factor of 0 yields
// grayscale, 1 the original colors.
func Saturate(m image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(m, func(c color.NRGBA) color.NRGBA {
		l := lumaR*float64(c.R) + lumaG*float64(c.G) + lumaB*float64(c.B)
		return color.NRGBA{
			R: clamp(l + factor*(float64(c.R)-l)),
			G: clamp(l + factor*(float64(c.G)-l)),
			B: clamp(l + factor*(float64(c.B)-l)),
			A: c.A,
		}
	})
}

// Contrast scales the distance of each channel from mid-gray by factor.
func Contrast(m image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(m, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp(midGray + factor*(float64(c.R)-midGray)),
			G: clamp(midGray + factor*(float64(c.G)-midGray)),
			B: clamp(midGray + factor*(float64(c.B)-midGray)),
			A: c.A,
		}
	})
}

// Apply runs the full tone pipeline over m in a fixed order: normalize,
// resize, saturation, contrast and blur.
func Apply(m image.Image, o Options) *image.NRGBA {
	dst := Resize(Normalize(m), o.Width, o.Height)

	if o.Saturation != 1 {
		dst = Saturate(dst, o.Saturation)
	}

	if o.Contrast != 1 {
		dst = Contrast(dst, o.Contrast)
	}

	if o.BlurRadius > 0 {
		dst = BoxBlur(dst, o.BlurRadius)
	}

	return dst
}
