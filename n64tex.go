/*
Package n64tex is a library for converting images into textures that look
like they came from a Nintendo 64 cartridge.

Each image is stretched to the fixed size of a texture profile, has its
saturation and contrast adjusted, is blurred, is quantized per channel to the
color depth of the profile and is finally reduced to a bounded palette,
optionally with Floyd-Steinberg dithering.
*/
package n64tex

import (
	"io"
	"log"

	"github.com/bodgit/n64tex/format"
)

// Converter converts source images into textures. It is safe for concurrent
// use as long as the Manifest is.
type Converter struct {
	manifest *Manifest
	logger   *log.Logger
}

// New returns a Converter. manifest may be nil in which case conversions
// aren't recorded, a nil logger discards all output.
func New(manifest *Manifest, logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		manifest: manifest,
		logger:   logger,
	}
}

// ListFormats returns the supported texture profiles.
func ListFormats() []format.Format {
	return format.List()
}
