package channel

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/n64tex/format"
	"github.com/stretchr/testify/assert"
)

// every runs fn over a coarse grid of the RGBA space plus both extremes
func every(fn func(c color.NRGBA)) {
	values := []uint8{0, 1, 7, 8, 36, 84, 85, 86, 127, 128, 129, 170, 200, 247, 248, 254, 255}
	for _, r := range values {
		for _, g := range values {
			for _, b := range values {
				for _, a := range values {
					fn(color.NRGBA{r, g, b, a})
				}
			}
		}
	}
	for v := 0; v < 256; v++ {
		fn(color.NRGBA{uint8(v), uint8(v), uint8(v), uint8(v)})
	}
}

func TestQuantize16(t *testing.T) {
	every(func(c color.NRGBA) {
		q := Quantize16(c)
		assert.Zero(t, q.R%8)
		assert.Zero(t, q.G%8)
		assert.Zero(t, q.B%8)
		assert.LessOrEqual(t, q.R, uint8(248))
		assert.Contains(t, []uint8{0, 255}, q.A)
	})

	assert.Equal(t, uint8(255), Quantize16(color.NRGBA{A: 128}).A)
	assert.Equal(t, uint8(0), Quantize16(color.NRGBA{A: 127}).A)
	assert.Equal(t, color.NRGBA{248, 0, 120, 255}, Quantize16(color.NRGBA{255, 0, 128, 255}))
}

func TestQuantize8(t *testing.T) {
	every(func(c color.NRGBA) {
		q := Quantize8(c)
		assert.Zero(t, q.R%36)
		assert.Zero(t, q.G%36)
		assert.Zero(t, q.B%85)
		assert.Equal(t, uint8(255), q.A)
	})

	assert.Equal(t, color.NRGBA{252, 0, 0, 255}, Quantize8(color.NRGBA{255, 0, 0, 255}))
	assert.Equal(t, color.NRGBA{252, 252, 255, 255}, Quantize8(color.NRGBA{255, 255, 255, 0}))
}

func TestQuantize4(t *testing.T) {
	every(func(c color.NRGBA) {
		q := Quantize4(c)
		assert.Zero(t, q.R%85)
		assert.Zero(t, q.G%85)
		assert.Zero(t, q.B%85)
		assert.Equal(t, uint8(255), q.A)
	})

	assert.Equal(t, color.NRGBA{85, 170, 255, 255}, Quantize4(color.NRGBA{85, 170, 255, 10}))
	assert.Equal(t, color.NRGBA{0, 85, 170, 255}, Quantize4(color.NRGBA{84, 169, 254, 10}))
}

func TestQuantize32(t *testing.T) {
	every(func(c color.NRGBA) {
		assert.Equal(t, c, Quantize32(c))
	})
}

func TestIdempotent(t *testing.T) {
	for _, q := range []Func{Quantize4, Quantize32} {
		every(func(c color.NRGBA) {
			once := q(c)
			assert.Equal(t, once, q(once))
		})
	}
}

func TestRequantize(t *testing.T) {
	// The 5 and 3 bit scales top out below 255 so feeding a result back in
	// drops it another level
	tables := []struct {
		q    Func
		in   color.NRGBA
		want []color.NRGBA
	}{
		{
			q:  Quantize16,
			in: color.NRGBA{0, 0, 32, 0},
			want: []color.NRGBA{
				{0, 0, 24, 0},
				{0, 0, 16, 0},
			},
		},
		{
			q:  Quantize16,
			in: color.NRGBA{255, 255, 255, 255},
			want: []color.NRGBA{
				{248, 248, 248, 255},
				{240, 240, 240, 255},
			},
		},
		{
			q:  Quantize8,
			in: color.NRGBA{255, 255, 255, 255},
			want: []color.NRGBA{
				{252, 252, 255, 255},
				{216, 216, 255, 255},
			},
		},
	}

	for _, table := range tables {
		c := table.in
		for _, want := range table.want {
			c = table.q(c)
			assert.Equal(t, want, c)
		}
	}
}

func TestForDepth(t *testing.T) {
	c := color.NRGBA{200, 100, 50, 100}
	for _, f := range format.List() {
		q := ForDepth(f.Depth)
		switch f.Depth {
		case format.Depth16:
			assert.Equal(t, Quantize16(c), q(c))
		case format.Depth8:
			assert.Equal(t, Quantize8(c), q(c))
		case format.Depth4:
			assert.Equal(t, Quantize4(c), q(c))
		case format.Depth32:
			assert.Equal(t, c, q(c))
		}
	}
}

func TestApply(t *testing.T) {
	m := image.NewNRGBA(image.Rect(2, 3, 6, 5))
	for y := 3; y < 5; y++ {
		for x := 2; x < 6; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 40), uint8(y * 40), 255, uint8(x * 30)})
		}
	}
	want := image.NewNRGBA(m.Bounds())
	for y := 3; y < 5; y++ {
		for x := 2; x < 6; x++ {
			want.SetNRGBA(x, y, Quantize16(m.NRGBAAt(x, y)))
		}
	}

	Apply(m, Quantize16)
	assert.Equal(t, want.Pix, m.Pix)
}
