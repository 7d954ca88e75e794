package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects the clustering algorithm used to build the palette.
type Method int

// Supported clustering methods
const (
	MedianCut Method = iota
	KMeans
)

var errUnknownMethod = errors.New("palette: unknown method")

// ParseMethod returns the Method named by s.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "median-cut", "mediancut":
		return MedianCut, nil
	case "kmeans", "k-means":
		return KMeans, nil
	}
	return MedianCut, fmt.Errorf("%w: %q", errUnknownMethod, s)
}

func (m Method) String() string {
	switch m {
	case KMeans:
		return "kmeans"
	default:
		return "median-cut"
	}
}

// Clusterer picks up to n representative colors for an image.
type Clusterer interface {
	Cluster(m image.Image, n int) (color.Palette, error)
}

// Clusterer returns the implementation of m.
func (m Method) Clusterer() Clusterer {
	switch m {
	case KMeans:
		return kmeansClusterer{}
	default:
		return medianCutClusterer{}
	}
}

type medianCutClusterer struct{}

func (medianCutClusterer) Cluster(m image.Image, n int) (color.Palette, error) {
	q := quantize.MedianCutQuantizer{}
	return q.Quantize(make(color.Palette, 0, n), m), nil
}

// kmeansClusterer uses randomly seeded k-means so the palette isn't
// guaranteed to be identical between runs.
type kmeansClusterer struct{}

func (kmeansClusterer) Cluster(m image.Image, n int) (color.Palette, error) {
	b := m.Bounds()

	dataset := make(clusters.Observations, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R),
				float64(c.G),
				float64(c.B),
			})
		}
	}

	cc, err := kmeans.New().Partition(dataset, n)
	if err != nil {
		return nil, fmt.Errorf("palette: kmeans: %w", err)
	}

	p := make(color.Palette, 0, len(cc))
	seen := make(map[color.NRGBA]struct{}, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		nc := color.NRGBA{
			R: channel(c.Center[0]),
			G: channel(c.Center[1]),
			B: channel(c.Center[2]),
			A: 0xff,
		}
		if _, ok := seen[nc]; ok {
			continue
		}
		seen[nc] = struct{}{}
		p = append(p, nc)
	}
	return p, nil
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 0xff {
		return 0xff
	}
	return uint8(math.Floor(v + 0.5))
}
