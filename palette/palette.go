/*
Package palette implements the second stage of color reduction.

An image that has already been quantized per channel is clustered down to a
bounded number of representative colors and every pixel is remapped to one of
them, optionally diffusing the error to neighbouring pixels with the
Floyd-Steinberg kernel.

The reduction works on opaque RGB so any per-pixel alpha is lost; every pixel
of a reduced image is fully opaque.
*/
package palette

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// MaxColors is the largest palette Reduce will build.
const MaxColors = 256

var (
	errEmptyImage   = errors.New("palette: empty image")
	errEmptyPalette = errors.New("palette: clustering produced no colors")
	errNoColors     = errors.New("palette: color count must be positive")
)

// Outcome records whether Reduce actually reduced the image.
type Outcome int

const (
	// Reduced means the image was remapped onto a clustered palette
	Reduced Outcome = iota
	// Fallback means clustering failed and the image was returned as-is
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Reduced:
		return "reduced"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Options controls Reduce.
type Options struct {
	Colors int
	Dither bool
	Method Method
}

// opaque returns a copy of m with every alpha set to 0xff, the color channels
// are kept as they are.
func opaque(m *image.NRGBA) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := m.PixOffset(b.Min.X, y)
		j := dst.PixOffset(b.Min.X, y)
		copy(dst.Pix[j:j+b.Dx()*4], m.Pix[i:i+b.Dx()*4])
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[j+x*4+3] = 0xff
		}
	}
	return dst
}

// Reduce clusters m down to at most o.Colors colors and remaps every pixel.
//
// If clustering fails the returned image is m itself, the outcome is
// Fallback and the error describes why. Otherwise a new fully opaque image is
// returned with a Reduced outcome and a nil error.
func Reduce(m *image.NRGBA, o Options) (*image.NRGBA, Outcome, error) {
	b := m.Bounds()
	if b.Empty() {
		return m, Fallback, errEmptyImage
	}

	n := o.Colors
	switch {
	case n < 1:
		return m, Fallback, errNoColors
	case n > MaxColors:
		n = MaxColors
	}

	src := opaque(m)

	p, err := o.Method.Clusterer().Cluster(src, n)
	if err != nil {
		return m, Fallback, err
	}
	if len(p) == 0 {
		return m, Fallback, errEmptyPalette
	}

	pm := image.NewPaletted(b, p)
	if o.Dither {
		draw.FloydSteinberg.Draw(pm, b, src, b.Min)
	} else {
		draw.Draw(pm, b, src, b.Min, draw.Src)
	}

	// Resolve the palette once rather than per pixel
	lut := make([]color.NRGBA, len(p))
	for i, c := range p {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		nc.A = 0xff
		lut[i] = nc
	}

	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetNRGBA(x, y, lut[pm.ColorIndexAt(x, y)])
		}
	}

	return dst, Reduced, nil
}
