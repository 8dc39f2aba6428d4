package cvforge

import (
	"time"

	"github.com/alnah/go-cvforge/internal/raster"
)

// Rasterizer captures rendered HTML as a full-page bitmap. The rod and
// chromedp backends implement it; WithRasterizer accepts any other.
type Rasterizer = raster.Rasterizer

// Capture is a PNG screenshot and its pixel size.
type Capture = raster.Capture

// RasterOptions is the viewport a Rasterizer captures with.
type RasterOptions = raster.Options

// Backend names for WithBackend.
const (
	BackendRod      = raster.BackendRod
	BackendChromedp = raster.BackendChromedp
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds settings resolved by NewExporter.
type exporterConfig struct {
	timeout   time.Duration
	layout    string
	assetPath string
	backend   string
	scale     float64
}

// defaultTimeout bounds one browser capture when no timeout is set.
const defaultTimeout = raster.DefaultTimeout

// WithTimeout sets the browser capture timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cvforge: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithLayout sets the layout used when ExportOptions.Layout is empty.
func WithLayout(name string) Option {
	return func(e *Exporter) {
		e.cfg.layout = name
	}
}

// WithAssetPath adds a directory of custom layouts and styles. Names it
// does not provide fall back to the embedded assets.
func WithAssetPath(path string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = path
	}
}

// WithBackend selects the browser backend: BackendRod (default) or
// BackendChromedp. Ignored when WithRasterizer is also given.
func WithBackend(name string) Option {
	return func(e *Exporter) {
		e.cfg.backend = name
	}
}

// WithScale sets the device scale factor of the capture. Values <= 0 keep
// the default of 2.
func WithScale(scale float64) Option {
	return func(e *Exporter) {
		e.cfg.scale = scale
	}
}

// WithRasterizer supplies the rasterizer. The Exporter closes it on Close.
func WithRasterizer(r Rasterizer) Option {
	return func(e *Exporter) {
		e.rasterizer = r
	}
}

// WithNotifier sets where export notices go. The default discards them.
func WithNotifier(n Notifier) Option {
	return func(e *Exporter) {
		if n != nil {
			e.notifier = n
		}
	}
}
