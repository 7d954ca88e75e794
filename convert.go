package n64tex

import (
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/n64tex/channel"
	"github.com/bodgit/n64tex/format"
	"github.com/bodgit/n64tex/palette"
	"github.com/bodgit/n64tex/tone"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	minColors = 2
	maxColors = palette.MaxColors

	outputExt = ".png"
)

// Parameters controls a conversion. The zero value is not valid, start from
// DefaultParameters.
type Parameters struct {
	Format     format.Format
	Saturation float64
	Contrast   float64
	BlurRadius float64
	Dither     bool
	Colors     int
	Method     palette.Method

	// KeepAlpha reattaches the quantized alpha after palette reduction,
	// which otherwise leaves every pixel opaque.
	KeepAlpha bool
}

// DefaultParameters returns the parameters for the named format with the
// default tone settings.
func DefaultParameters(name string) (Parameters, error) {
	f, err := format.Lookup(name)
	if err != nil {
		return Parameters{}, err
	}
	return Parameters{
		Format:     f,
		Saturation: 0.7,
		Contrast:   0.8,
		BlurRadius: 0.5,
		Dither:     true,
		Colors:     maxColors,
		Method:     palette.MedianCut,
	}, nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// Validate checks p refers to a catalog format and every value is in range.
func (p Parameters) Validate() error {
	f, err := format.Lookup(p.Format.Name)
	if err != nil {
		return err
	}
	if f != p.Format {
		return fmt.Errorf("%w: %q doesn't match the catalog", ErrUnknownFormat, p.Format.Name)
	}

	switch {
	case !unit(p.Saturation):
		return fmt.Errorf("%w: saturation %v not in [0, 1]", ErrInvalidParameters, p.Saturation)
	case !unit(p.Contrast):
		return fmt.Errorf("%w: contrast %v not in [0, 1]", ErrInvalidParameters, p.Contrast)
	case math.IsNaN(p.BlurRadius) || math.IsInf(p.BlurRadius, 0) || p.BlurRadius < 0:
		return fmt.Errorf("%w: blur radius %v must be zero or more", ErrInvalidParameters, p.BlurRadius)
	case p.Colors < minColors || p.Colors > maxColors:
		return fmt.Errorf("%w: color count %d not in [%d, %d]", ErrInvalidParameters, p.Colors, minColors, maxColors)
	case p.Method != palette.MedianCut && p.Method != palette.KMeans:
		return fmt.Errorf("%w: unknown method %d", ErrInvalidParameters, p.Method)
	}

	return nil
}

// Result is the outcome of converting a single source file. The conversion
// succeeded if Err is nil, in which case Image holds the texture, Output the
// file it was written to and Outcome whether palette reduction ran.
type Result struct {
	Source  string
	Output  string
	Image   *image.NRGBA
	Outcome palette.Outcome
	Err     error
}

// OutputName returns the filename used for the texture made from source.
func OutputName(source string, f format.Format, colors int) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_n64_%s_%dcolors%s", base, f.Slug(), colors, outputExt)
}

// decode reads an image from file, also returning the SHA-1 of the file.
func decode(file string) (image.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}

	// Decoders needn't consume trailing data
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, "", err
	}

	return m, fmt.Sprintf("%X", h.Sum(nil)), nil
}

// writeImage encodes m as PNG to a temporary file alongside file and renames
// it into place so a partially written texture is never visible.
func writeImage(file string, m image.Image) (err error) {
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = png.Encode(f, m); err != nil {
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), file)
}

// Process runs the conversion pipeline over m and returns the texture. p is
// assumed to be valid.
func (c *Converter) Process(m image.Image, p Parameters) (*image.NRGBA, palette.Outcome) {
	dst := tone.Apply(m, tone.Options{
		Width:      p.Format.Width,
		Height:     p.Format.Height,
		Saturation: p.Saturation,
		Contrast:   p.Contrast,
		BlurRadius: p.BlurRadius,
	})

	channel.Apply(dst, channel.ForDepth(p.Format.Depth))

	colors := p.Colors
	if limit := p.Format.MaxColors(); colors > limit {
		colors = limit
	}

	reduced, outcome, err := palette.Reduce(dst, palette.Options{
		Colors: colors,
		Dither: p.Dither,
		Method: p.Method,
	})
	if outcome == palette.Fallback {
		c.logger.Printf("Palette reduction skipped: %v\n", err)
		return dst, outcome
	}

	if p.KeepAlpha {
		for i := 3; i < len(reduced.Pix); i += 4 {
			reduced.Pix[i] = dst.Pix[i]
		}
	}

	return reduced, outcome
}

// Convert converts the image in source using p and writes the texture into
// outputDir. Any failure is recorded in the returned Result.
func (c *Converter) Convert(source string, p Parameters, outputDir string) Result {
	r := Result{
		Source: source,
	}

	if err := p.Validate(); err != nil {
		r.Err = err
		return r
	}

	m, sha, err := decode(source)
	if err != nil {
		r.Err = &DecodeError{Path: source, Err: err}
		c.logger.Println(r.Err)
		return r
	}

	r.Image, r.Outcome = c.Process(m, p)

	output := filepath.Join(outputDir, OutputName(source, p.Format, p.Colors))
	if err := writeImage(output, r.Image); err != nil {
		r.Err = &WriteError{Path: output, Err: err}
		c.logger.Println(r.Err)
		return r
	}
	r.Output = output

	c.logger.Printf("Converted \"%s\" to \"%s\"\n", source, output)

	if c.manifest != nil {
		if err := c.manifest.Record(sha, r, p); err != nil {
			c.logger.Printf("Unable to record \"%s\" in manifest: %v\n", source, err)
		}
	}

	return r
}
