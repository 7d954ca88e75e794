package tone

import (
	"image"
	"math"
)

// boxKernel returns the tap weights for a box of the given radius over a line
// of n pixels. Taps within the integer part of the radius have weight 1, the
// two outermost taps carry the fractional remainder. A box wider than the line
// is folded to n taps either side, as everything further out samples an edge
// pixel anyway.
func boxKernel(radius float64, n int) []float64 {
	if radius > float64(n) {
		k := make([]float64, 2*n+1)
		for i := range k {
			k[i] = 1
		}
		k[0], k[len(k)-1] = radius-float64(n-1), radius-float64(n-1)
		return k
	}

	whole := int(math.Floor(radius))
	frac := radius - float64(whole)

	half := whole
	if frac > 0 {
		half++
	}

	k := make([]float64, 2*half+1)
	for i := range k {
		k[i] = 1
	}
	if frac > 0 {
		k[0], k[len(k)-1] = frac, frac
	}
	return k
}

func clampIndex(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}

// blurLine convolves n pixels starting at offset, each step pixels apart,
// from src into dst. Samples outside the line repeat the edge pixel.
func blurLine(dst, src []uint8, offset, step, n int, kernel []float64, norm float64) {
	r := len(kernel) / 2
	for i := 0; i < n; i++ {
		var acc [4]float64
		for k, w := range kernel {
			p := offset + clampIndex(i+k-r, n)*step
			acc[0] += w * float64(src[p+0])
			acc[1] += w * float64(src[p+1])
			acc[2] += w * float64(src[p+2])
			acc[3] += w * float64(src[p+3])
		}
		p := offset + i*step
		for c := range acc {
			dst[p+c] = clamp(acc[c] / norm)
		}
	}
}

// BoxBlur applies one horizontal and one vertical box pass of the given
// radius to every channel of m. Fractional radii weight the outermost taps.
func BoxBlur(m *image.NRGBA, radius float64) *image.NRGBA {
	b := m.Bounds()
	dst := Normalize(m)
	if radius <= 0 || b.Empty() {
		return dst
	}

	w, h := b.Dx(), b.Dy()
	norm := 2*radius + 1
	tmp := make([]uint8, len(dst.Pix))

	kernel := boxKernel(radius, w)
	for y := 0; y < h; y++ {
		blurLine(tmp, dst.Pix, y*dst.Stride, 4, w, kernel, norm)
	}

	kernel = boxKernel(radius, h)
	for x := 0; x < w; x++ {
		blurLine(dst.Pix, tmp, x*4, dst.Stride, h, kernel, norm)
	}

	return dst
}
