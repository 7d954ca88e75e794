/*
Package format implements the catalog of Nintendo 64 texture profiles.

Each profile fixes the pixel dimensions of the texture, the nominal color
depth used when quantizing each channel and the number of alpha bits the
hardware format can carry. The catalog is fixed; there is no way to register
additional profiles.
*/
package format

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Depth is the nominal color depth of a texture profile in bits per pixel.
type Depth int

// Supported color depths
const (
	Depth4  Depth = 4
	Depth8  Depth = 8
	Depth16 Depth = 16
	Depth32 Depth = 32
)

const (
	maxDimension = 128
	maxColors    = 256
)

// ErrUnknownFormat is returned when a name doesn't match any profile.
var ErrUnknownFormat = errors.New("format: unknown format")

// Format describes a single texture profile.
type Format struct {
	Name        string
	Description string
	Width       int
	Height      int
	Depth       Depth
	AlphaBits   int
}

var formats = []Format{
	{
		Name:        "16-bit RGBA (44×44)",
		Description: "Most versatile N64 format",
		Width:       44,
		Height:      44,
		Depth:       Depth16,
		AlphaBits:   1,
	},
	{
		Name:        "8-bit Index (64×64)",
		Description: "Standard format for most textures",
		Width:       64,
		Height:      64,
		Depth:       Depth8,
		AlphaBits:   0,
	},
	{
		Name:        "32-bit RGBA (32×32)",
		Description: "Only for semi-transparent textures",
		Width:       32,
		Height:      32,
		Depth:       Depth32,
		AlphaBits:   8,
	},
	{
		Name:        "4-bit Index (64×128)",
		Description: "Maximum resolution with a limited palette",
		Width:       64,
		Height:      128,
		Depth:       Depth4,
		AlphaBits:   0,
	},
}

func init() {
	for _, f := range formats {
		if f.Width <= 0 || f.Height <= 0 || f.Width > maxDimension || f.Height > maxDimension {
			panic(fmt.Sprintf("format: %q has invalid dimensions %dx%d", f.Name, f.Width, f.Height))
		}
	}
}

// List returns every texture profile in catalog order.
func List() []Format {
	return append([]Format(nil), formats...)
}

// Lookup returns the profile matching name. The full name, the name without
// the size suffix ("8-bit Index") and the slug ("8bit") are all accepted.
func Lookup(name string) (Format, error) {
	name = strings.TrimSpace(name)
	for _, f := range formats {
		if name == f.Name || name == f.ShortName() || name == f.Slug() {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ShortName returns the name without the trailing size, e.g. "8-bit Index".
func (f Format) ShortName() string {
	if i := strings.Index(f.Name, " ("); i >= 0 {
		return f.Name[:i]
	}
	return f.Name
}

// Slug returns the leading token of the name lowercased with "-bit"
// contracted to "bit", e.g. "8bit".
func (f Format) Slug() string {
	token := f.Name
	if fields := strings.Fields(f.Name); len(fields) > 0 {
		token = fields[0]
	}
	return strings.ReplaceAll(strings.ToLower(token), "-bit", "bit")
}

// Size returns the fixed dimensions of the texture.
func (f Format) Size() image.Point {
	return image.Pt(f.Width, f.Height)
}

// MaxColors returns the number of colors the depth can address, capped to
// the 256 entries a palette can hold.
func (f Format) MaxColors() int {
	if f.Depth >= 8 {
		return maxColors
	}
	return 1 << uint(f.Depth)
}

func (f Format) String() string {
	return f.Name
}
