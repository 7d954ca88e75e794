package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/bodgit/n64tex"
	"github.com/bodgit/n64tex/format"
	"github.com/bodgit/n64tex/palette"
	"github.com/urfave/cli/v2"
)

const defaultFormat = "8-bit Index (64×64)"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openManifest(c *cli.Context) (*n64tex.Manifest, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return n64tex.NewManifest(c.String("db"))
}

func parameters(c *cli.Context) (n64tex.Parameters, error) {
	p, err := n64tex.DefaultParameters(c.String("format"))
	if err != nil {
		return p, err
	}

	if p.Method, err = palette.ParseMethod(c.String("method")); err != nil {
		return p, err
	}

	p.Saturation = c.Float64("saturation")
	p.Contrast = c.Float64("contrast")
	p.BlurRadius = c.Float64("blur")
	p.Dither = c.Bool("dither")
	p.Colors = c.Int("colors")
	p.KeepAlpha = c.Bool("keep-alpha")

	return p, p.Validate()
}

func listFormats(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tDEPTH\tALPHA\tDESCRIPTION")
	for _, f := range n64tex.ListFormats() {
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%s\n", f.Name, f.Width, f.Height, f.Depth, f.AlphaBits, f.Description)
	}
	return w.Flush()
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	p, err := parameters(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	sources, err := n64tex.FindSources(ctx, c.Args().Slice())
	if err != nil {
		return cli.Exit(err, 1)
	}

	m, err := openManifest(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if m != nil {
		defer m.Close()
	}

	results, err := n64tex.New(m, newLogger(c)).ConvertBatch(ctx, sources, p, c.String("output"), c.Int("jobs"))
	if results == nil && err != nil {
		return cli.Exit(err, 1)
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", r.Source, r.Err)
			continue
		}
		if r.Outcome == palette.Fallback {
			fmt.Fprintf(c.App.ErrWriter, "%s: palette reduction skipped\n", r.Source)
		}
	}

	fmt.Fprintf(c.App.Writer, "Converted %d of %d textures to %s with %d colors\n", len(results)-failed, len(results), p.Format, p.Colors)

	if err != nil {
		return cli.Exit(err, 1)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d conversions failed", failed), 1)
	}

	return nil
}

func inspect(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	m, kind, err := image.Decode(f)
	if err != nil {
		return cli.Exit(err, 1)
	}

	colors := palette.Colors(m)
	fmt.Fprintf(c.App.Writer, "%s %dx%d, %d colors, %d counting alpha\n", kind, m.Bounds().Dx(), m.Bounds().Dy(), len(colors), palette.Count(m))
	for _, col := range colors {
		fmt.Fprintln(c.App.Writer, col.Hex())
	}

	return nil
}

func history(c *cli.Context) error {
	m, err := openManifest(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if m == nil {
		return cli.Exit("no database, use --db", 1)
	}
	defer m.Close()

	entries, err := m.History()
	if err != nil {
		return cli.Exit(err, 1)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSOURCE\tOUTPUT\tFORMAT\tCOLORS\tDITHER\tOUTCOME\tSHA1")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\t%s\t%s\n", e.Created.Format("2006-01-02 15:04:05"), e.Source, e.Output, e.Format, e.Colors, e.Dither, e.Outcome, e.SHA1)
	}
	return w.Flush()
}

func formatNames() string {
	var names []string
	for _, f := range format.List() {
		names = append(names, fmt.Sprintf("%q", f.ShortName()))
	}
	return strings.Join(names, ", ")
}

func main() {
	app := cli.NewApp()

	app.Name = "n64tex"
	app.Usage = "Nintendo 64 style texture converter"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"N64TEX_DB"},
			Usage:   "path to conversion history database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:   "formats",
			Usage:  "List texture formats",
			Action: listFormats,
		},
		{
			Name:      "convert",
			Usage:     "Convert images to textures",
			ArgsUsage: "FILE|DIRECTORY...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					EnvVars: []string{"N64TEX_FORMAT"},
					Value:   defaultFormat,
					Usage:   "texture format, one of " + formatNames(),
				},
				&cli.Float64Flag{
					Name:    "saturation",
					EnvVars: []string{"N64TEX_SATURATION"},
					Value:   0.7,
					Usage:   "saturation factor between 0 and 1",
				},
				&cli.Float64Flag{
					Name:    "contrast",
					EnvVars: []string{"N64TEX_CONTRAST"},
					Value:   0.8,
					Usage:   "contrast factor between 0 and 1",
				},
				&cli.Float64Flag{
					Name:    "blur",
					EnvVars: []string{"N64TEX_BLUR"},
					Value:   0.5,
					Usage:   "box blur radius in pixels",
				},
				&cli.BoolFlag{
					Name:    "dither",
					EnvVars: []string{"N64TEX_DITHER"},
					Value:   true,
					Usage:   "enable Floyd-Steinberg error diffusion",
				},
				&cli.IntFlag{
					Name:    "colors",
					Aliases: []string{"c"},
					EnvVars: []string{"N64TEX_COLORS"},
					Value:   256,
					Usage:   "number of colors in the final texture, 2 to 256",
				},
				&cli.StringFlag{
					Name:    "method",
					EnvVars: []string{"N64TEX_METHOD"},
					Value:   palette.MedianCut.String(),
					Usage:   "palette clustering method, median-cut or kmeans",
				},
				&cli.BoolFlag{
					Name:    "keep-alpha",
					EnvVars: []string{"N64TEX_KEEP_ALPHA"},
					Usage:   "keep the quantized alpha after palette reduction",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					EnvVars: []string{"N64TEX_OUTPUT"},
					Value:   cwd,
					Usage:   "output directory",
				},
				&cli.IntFlag{
					Name:    "jobs",
					Aliases: []string{"j"},
					EnvVars: []string{"N64TEX_JOBS"},
					Value:   runtime.NumCPU(),
					Usage:   "number of images converted concurrently",
				},
			},
			Action: convert,
		},
		{
			Name:      "inspect",
			Usage:     "Show the dimensions and colors of an image",
			ArgsUsage: "FILE",
			Action:    inspect,
		},
		{
			Name:   "history",
			Usage:  "Show conversions recorded in the database",
			Action: history,
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
