// Package raster captures HTML as a full-page bitmap in headless Chrome.
//
// Two backends share the Rasterizer contract: RodRasterizer (go-rod, the
// default) and ChromedpRasterizer (chromedp). Both write the markup to a
// temporary file, load it in a page-width viewport at a device scale factor,
// and return a PNG screenshot of the whole document.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // register decoder
	"os"
	"time"
)

// Sentinel errors. ErrBrowserConnect, ErrPageCreate and ErrPageLoad all wrap
// ErrRenderCapture, so callers that only care about "capture failed" can
// match the latter.
var (
	ErrRenderCapture  = errors.New("render capture failed")
	ErrBrowserConnect = fmt.Errorf("%w: failed to connect to browser", ErrRenderCapture)
	ErrPageCreate     = fmt.Errorf("%w: failed to create browser page", ErrRenderCapture)
	ErrPageLoad       = fmt.Errorf("%w: failed to load page", ErrRenderCapture)
	ErrClosed         = errors.New("rasterizer is closed")
)

// Defaults match one A4 page width at 96 DPI, captured at 2x.
const (
	DefaultWidthPx  = 794
	DefaultHeightPx = 1123
	DefaultScale    = 2.0
	DefaultTimeout  = 30 * time.Second
)

// Backend names accepted by New.
const (
	BackendRod      = "rod"
	BackendChromedp = "chromedp"
)

// Rasterizer turns an HTML document into a bitmap.
type Rasterizer interface {
	Capture(ctx context.Context, html string, opts Options) (*Capture, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ Rasterizer = (*RodRasterizer)(nil)
	_ Rasterizer = (*ChromedpRasterizer)(nil)
)

// Options controls the capture viewport. Zero fields take the defaults.
type Options struct {
	WidthPx int     // CSS pixel width of the container
	Scale   float64 // device scale factor
}

func (o Options) withDefaults() Options {
	if o.WidthPx <= 0 {
		o.WidthPx = DefaultWidthPx
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return o
}

// Capture is a PNG screenshot and its size in device pixels.
type Capture struct {
	PNG    []byte
	Width  int
	Height int
}

// newCapture reads the pixel size from the PNG header.
func newCapture(png []byte) (*Capture, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("%w: reading screenshot: %v", ErrRenderCapture, err)
	}
	if format != "png" {
		return nil, fmt.Errorf("%w: screenshot is %s, want png", ErrRenderCapture, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty screenshot", ErrRenderCapture)
	}
	return &Capture{PNG: png, Width: cfg.Width, Height: cfg.Height}, nil
}

// New returns the rasterizer for backend ("" selects rod).
func New(backend string, timeout time.Duration) (Rasterizer, error) {
	switch backend {
	case "", BackendRod:
		return NewRodRasterizer(timeout), nil
	case BackendChromedp:
		return NewChromedpRasterizer(timeout), nil
	default:
		return nil, fmt.Errorf("unknown rasterizer backend %q (want %s or %s)", backend, BackendRod, BackendChromedp)
	}
}

// remaining returns the time left before ctx's deadline, or fallback.
func remaining(ctx context.Context, fallback time.Duration) (time.Duration, error) {
	if deadline, ok := ctx.Deadline(); ok {
		d := time.Until(deadline)
		if d <= 0 {
			return 0, context.DeadlineExceeded
		}
		return d, nil
	}
	return fallback, nil
}

// contextError marks a cancelled or timed-out capture as a capture failure.
// The context error stays matchable with errors.Is.
func contextError(err error) error {
	return fmt.Errorf("%w: %w", ErrRenderCapture, err)
}

// NoSandbox reports whether Chrome must run without its sandbox
// (CI and containerized environments).
func NoSandbox() bool {
	return os.Getenv("ROD_NO_SANDBOX") == "1" ||
		os.Getenv("CI") == "true" ||
		os.Getenv("ROD_BROWSER_BIN") != ""
}
