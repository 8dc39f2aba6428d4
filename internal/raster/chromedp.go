package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/alnah/go-cvforge/internal/fileutil"
)

// ChromedpRasterizer implements Rasterizer with chromedp. The browser is
// started on the first Capture and each capture runs in its own tab.
// It is safe for concurrent use.
type ChromedpRasterizer struct {
	timeout time.Duration

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closed        bool
}

// NewChromedpRasterizer returns a ChromedpRasterizer with the given page
// load timeout.
func NewChromedpRasterizer(timeout time.Duration) *ChromedpRasterizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChromedpRasterizer{timeout: timeout}
}

func (c *ChromedpRasterizer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("allow-file-access-from-files", true),
	)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}
	if NoSandbox() {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return opts
}

// browser returns the shared browser context, starting Chrome if needed.
func (c *ChromedpRasterizer) browser() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.browserCtx != nil {
		return c.browserCtx, nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), c.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start eagerly so launch errors surface as connect errors.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.allocCancel = allocCancel
	c.browserCtx = browserCtx
	c.browserCancel = browserCancel
	return browserCtx, nil
}

// Capture renders html in a new tab and returns a full-page PNG.
func (c *ChromedpRasterizer) Capture(ctx context.Context, html string, opts Options) (*Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}
	opts = opts.withDefaults()

	browserCtx, err := c.browser()
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderCapture, err)
	}
	defer cleanup()

	abs, err := filepath.Abs(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving path: %v", ErrRenderCapture, err)
	}

	timeout, err := remaining(ctx, c.timeout)
	if err != nil {
		return nil, contextError(err)
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, timeout)
	defer timeoutCancel()

	// The tab context is rooted in the browser, not in ctx; propagate
	// cancellation by hand.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var buf []byte
	if err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(opts.WidthPx), DefaultHeightPx, chromedp.EmulateScale(opts.Scale)),
		chromedp.Navigate("file://"+abs),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, 100),
		emulation.ClearDeviceMetricsOverride(),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrPageLoad, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return newCapture(buf)
}

// Close stops the browser. Close is idempotent.
func (c *ChromedpRasterizer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.browserCancel != nil {
		c.browserCancel()
		c.allocCancel()
	}
	return nil
}
