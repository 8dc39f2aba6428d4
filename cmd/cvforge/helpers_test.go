package main

// Notes:
// - Test infrastructure shared by the command tests: a fake rasterizer so
//   exports never start Chrome, an Environment writing to buffers, and
//   fixture writers for resumes and images.

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/config"
)

// fakeRasterizer returns a solid capture of a fixed size.
type fakeRasterizer struct {
	mu     sync.Mutex
	width  int
	height int
	err    error
	calls  int
}

func (f *fakeRasterizer) Capture(_ context.Context, _ string, _ cvforge.RasterOptions) (*cvforge.Capture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &cvforge.Capture{
		PNG:    solidPNG(f.width, f.height),
		Width:  f.width,
		Height: f.height,
	}, nil
}

func (f *fakeRasterizer) Close() error { return nil }

func (f *fakeRasterizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// solidPNG encodes a w x h light-grey image.
func solidPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// testEnv returns an Environment with buffered output and a pool whose
// exporters use r instead of a browser.
func testEnv(r cvforge.Rasterizer) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Config: config.DefaultConfig(),
		NewPool: func(size int, opts ...cvforge.Option) Pool {
			return cvforge.NewExporterPool(size, append(opts, cvforge.WithRasterizer(r))...)
		},
	}
	return env, stdout, stderr
}

// writeResume saves doc under dir and returns its path.
func writeResume(t *testing.T, dir, name string, doc cvforge.Document) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := cvforge.SaveDocument(path, doc); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	return path
}

// writePNG writes a w x h PNG under dir and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, solidPNG(w, h), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
