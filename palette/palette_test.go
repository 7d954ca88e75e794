package palette

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(w, h int, c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func gradient(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / (w - 1)), uint8(y * 255 / (h - 1)), 128, 255})
		}
	}
	return m
}

func assertOpaque(t *testing.T, m *image.NRGBA) {
	t.Helper()
	for i := 3; i < len(m.Pix); i += 4 {
		if !assert.Equal(t, uint8(0xff), m.Pix[i]) {
			return
		}
	}
}

func TestReduceFlat(t *testing.T) {
	c := color.NRGBA{252, 0, 0, 255}
	for _, dither := range []bool{false, true} {
		m, outcome, err := Reduce(flat(64, 64, c), Options{Colors: 256, Dither: dither})
		require.NoError(t, err)
		assert.Equal(t, Reduced, outcome)
		assert.Equal(t, 1, Count(m))
		assert.Equal(t, c, m.NRGBAAt(17, 42))
	}
}

func TestReduceGradient(t *testing.T) {
	src := gradient(32, 32)

	for _, colors := range []int{2, 4, 16} {
		plain, outcome, err := Reduce(src, Options{Colors: colors})
		require.NoError(t, err)
		assert.Equal(t, Reduced, outcome)
		assert.LessOrEqual(t, Count(plain), colors)
		assertOpaque(t, plain)

		dithered, outcome, err := Reduce(src, Options{Colors: colors, Dither: true})
		require.NoError(t, err)
		assert.Equal(t, Reduced, outcome)
		assert.LessOrEqual(t, Count(dithered), colors)
		assertOpaque(t, dithered)

		// Error diffusion changes which palette entry gets picked
		assert.NotEqual(t, plain.Pix, dithered.Pix)
	}
}

func TestReduceDeterministic(t *testing.T) {
	src := gradient(44, 44)
	a, _, err := Reduce(src, Options{Colors: 8, Dither: true})
	require.NoError(t, err)
	b, _, err := Reduce(src, Options{Colors: 8, Dither: true})
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestReduceDropsAlpha(t *testing.T) {
	src := flat(8, 8, color.NRGBA{248, 120, 0, 0})
	src.SetNRGBA(0, 0, color.NRGBA{0, 0, 248, 255})

	m, outcome, err := Reduce(src, Options{Colors: 16})
	require.NoError(t, err)
	assert.Equal(t, Reduced, outcome)
	assertOpaque(t, m)
	assert.Equal(t, color.NRGBA{248, 120, 0, 255}, m.NRGBAAt(4, 4))
	assert.Equal(t, color.NRGBA{0, 0, 248, 255}, m.NRGBAAt(0, 0))

	// The source keeps its alpha
	assert.Equal(t, uint8(0), src.NRGBAAt(4, 4).A)
}

func TestReduceFallback(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	m, outcome, err := Reduce(empty, Options{Colors: 16})
	assert.Equal(t, Fallback, outcome)
	assert.True(t, errors.Is(err, errEmptyImage))
	assert.Same(t, empty, m)

	src := gradient(4, 4)
	m, outcome, err = Reduce(src, Options{Colors: 0})
	assert.Equal(t, Fallback, outcome)
	assert.True(t, errors.Is(err, errNoColors))
	assert.Same(t, src, m)

	// k-means can't find more clusters than there are pixels
	m, outcome, err = Reduce(src, Options{Colors: 64, Method: KMeans})
	assert.Equal(t, Fallback, outcome)
	assert.Error(t, err)
	assert.Same(t, src, m)
}

func TestReduceKMeans(t *testing.T) {
	src := flat(8, 8, color.NRGBA{0, 0, 0, 255})
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	m, outcome, err := Reduce(src, Options{Colors: 2, Method: KMeans})
	require.NoError(t, err)
	assert.Equal(t, Reduced, outcome)
	assert.LessOrEqual(t, Count(m), 2)
	assertOpaque(t, m)
}

func TestParseMethod(t *testing.T) {
	tables := []struct {
		in   string
		want Method
	}{
		{"", MedianCut},
		{"median-cut", MedianCut},
		{"MedianCut", MedianCut},
		{"kmeans", KMeans},
		{"K-Means", KMeans},
	}

	for _, table := range tables {
		m, err := ParseMethod(table.in)
		require.NoError(t, err)
		assert.Equal(t, table.want, m)
	}

	_, err := ParseMethod("octree")
	assert.True(t, errors.Is(err, errUnknownMethod))

	assert.Equal(t, "median-cut", MedianCut.String())
	assert.Equal(t, "kmeans", KMeans.String())
}

func TestColors(t *testing.T) {
	m := flat(4, 1, color.NRGBA{255, 255, 255, 255})
	m.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 255})
	m.SetNRGBA(2, 0, color.NRGBA{255, 0, 0, 10})
	m.SetNRGBA(3, 0, color.NRGBA{255, 0, 0, 255})

	assert.Equal(t, 4, Count(m))

	colors := Colors(m)
	require.Len(t, colors, 3)
	assert.Equal(t, "#000000", colors[0].Hex())
	assert.Equal(t, "#ff0000", colors[1].Hex())
	assert.Equal(t, "#ffffff", colors[2].Hex())
}
