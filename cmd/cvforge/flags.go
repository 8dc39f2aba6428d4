package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing and argument count errors.
var ErrUsage = errors.New("usage error")

// cropUnset marks --x, --y and --size as not given; 0 is a valid offset.
const cropUnset = -1.0

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds output mode flags for debugging.
type outputFlags struct {
	html     bool // Output HTML alongside PDF
	htmlOnly bool // Output HTML only, skip PDF
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common     commonFlags
	output     string
	layout     string
	assetPath  string
	backend    string
	timeout    string
	workers    int
	width      int
	scale      float64
	outputMode outputFlags
}

// avatarFlags holds all flags for the avatar command.
type avatarFlags struct {
	common   commonFlags
	document string
	output   string
	x        float64
	y        float64
	size     float64
	viewport int
	maxEdge  int
	quality  int
}

// initFlags holds flags for the init command.
type initFlags struct {
	output string
	force  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	return fs
}

// parseFlags parses args and wraps failures in ErrUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseExportFlags parses export flags and returns the positional arguments.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", stderr)

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file (single input) or directory")
	fs.StringVarP(&f.layout, "layout", "l", "", "layout name (professional, modern, creative, or custom)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory holding custom layouts and styles")
	fs.StringVar(&f.backend, "backend", "", "browser driver: rod or chromedp")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-export timeout (e.g. 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.width, "width", 0, "page width in CSS pixels (0 = layout default)")
	fs.Float64Var(&f.scale, "scale", 0, "capture pixel ratio (0 = default)")
	fs.BoolVar(&f.outputMode.html, "html", false, "write the rendered HTML next to the PDF")
	fs.BoolVar(&f.outputMode.htmlOnly, "html-only", false, "write the rendered HTML and skip the PDF")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cvforge export <resume.yaml | dir> [flags]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseAvatarFlags parses avatar flags and returns the positional arguments.
func parseAvatarFlags(args []string, stderr io.Writer) (*avatarFlags, []string, error) {
	f := &avatarFlags{}
	fs := newFlagSet("avatar", stderr)

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.document, "document", "d", "", "resume file whose photo is replaced")
	fs.StringVarP(&f.output, "output", "o", "", "write the cropped JPEG to this path")
	fs.Float64Var(&f.x, "x", cropUnset, "crop left edge, in displayed pixels")
	fs.Float64Var(&f.y, "y", cropUnset, "crop top edge, in displayed pixels")
	fs.Float64Var(&f.size, "size", cropUnset, "crop edge length, in displayed pixels")
	fs.IntVar(&f.viewport, "viewport", 0, "square viewport the image is fitted to (0 = default)")
	fs.IntVar(&f.maxEdge, "max-edge", 0, "longest edge of the cropped photo (0 = default)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality 1-100 (0 = default)")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cvforge avatar <image> [flags]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInitFlags parses init flags and returns the positional arguments.
func parseInitFlags(args []string, stderr io.Writer) (*initFlags, []string, error) {
	f := &initFlags{}
	fs := newFlagSet("init", stderr)

	fs.StringVarP(&f.output, "output", "o", defaultInitPath, "where to write the sample resume")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing file")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cvforge init [flags]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
