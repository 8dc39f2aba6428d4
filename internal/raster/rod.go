package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-cvforge/internal/fileutil"
	"github.com/alnah/go-cvforge/internal/process"
)

// fileRenderer screenshots a local HTML file. Splitting it out of
// RodRasterizer lets tests run without a browser.
type fileRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts Options) ([]byte, error)
	Close() error
}

var _ fileRenderer = (*rodRenderer)(nil)

// rodRenderer drives Chrome through go-rod.
// Rod downloads Chromium on first run if none is found.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New().
		Set("allow-file-access-from-files").
		Set("hide-scrollbars")

	// Pre-installed browser (Docker/containerized environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if NoSandbox() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return nil
}

// Close releases the browser and kills its process tree.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderFromFile loads filePath in a page-width viewport and returns a
// full-page PNG screenshot.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout, err := remaining(ctx, r.timeout)
	if err != nil {
		return nil, contextError(err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(timeout)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.WidthPx,
		Height:            DefaultHeightPx,
		DeviceScaleFactor: opts.Scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	if err := page.Navigate("file://" + filePath); err != nil {
		return nil, loadError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, loadError(ctx, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	png, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, fmt.Errorf("%w: screenshot: %v", ErrRenderCapture, err)
	}
	return png, nil
}

// loadError prefers the caller's context error, so a timeout reads as one.
func loadError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return contextError(ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrPageLoad, err)
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

// RodRasterizer is the default Rasterizer. The browser is launched on the
// first Capture and reused until Close. A RodRasterizer serializes its
// captures; use one per goroutine for parallel work.
type RodRasterizer struct {
	mu       sync.Mutex
	renderer fileRenderer
	closed   bool
}

// NewRodRasterizer returns a RodRasterizer whose page loads time out after
// timeout unless the context sets an earlier deadline.
func NewRodRasterizer(timeout time.Duration) *RodRasterizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RodRasterizer{renderer: newRodRenderer(timeout)}
}

// Capture writes html to a temporary file, renders it and returns the PNG.
// The temporary file is removed on every path.
func (r *RodRasterizer) Capture(ctx context.Context, html string, opts Options) (*Capture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderCapture, err)
	}
	defer cleanup()

	png, err := r.renderer.RenderFromFile(ctx, tmpPath, opts.withDefaults())
	if err != nil {
		return nil, err
	}
	return newCapture(png)
}

// Close releases browser resources. Close is idempotent.
func (r *RodRasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.renderer.Close()
}
