package cvforge

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockRasterizer returns a fixed capture and records what it was given.
type mockRasterizer struct {
	mu       sync.Mutex
	width    int
	height   int
	err      error
	rawPNG   []byte // returned as-is with width x height when set
	panicMsg string
	calls    int
	lastHTML string
	lastOpts RasterOptions
	closed   int
}

func (m *mockRasterizer) Capture(_ context.Context, html string, opts RasterOptions) (*Capture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastHTML = html
	m.lastOpts = opts
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.width == 0 || m.height == 0 {
		return &Capture{}, nil
	}
	if m.rawPNG != nil {
		return &Capture{PNG: m.rawPNG, Width: m.width, Height: m.height}, nil
	}

	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for y := range m.height {
		for x := range m.width {
			img.Set(x, y, color.RGBA{R: 255, G: uint8(y % 256), B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &Capture{PNG: buf.Bytes(), Width: m.width, Height: m.height}, nil
}

func (m *mockRasterizer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

var _ Rasterizer = (*mockRasterizer)(nil)

func newTestExporter(t *testing.T, r Rasterizer, opts ...Option) (*Exporter, *recordingNotifier) {
	t.Helper()

	rec := &recordingNotifier{}
	exp, err := NewExporter(append([]Option{WithRasterizer(r), WithNotifier(rec)}, opts...)...)
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}
	t.Cleanup(func() { _ = exp.Close() })
	return exp, rec
}

func severities(notices []Notice) []Severity {
	out := make([]Severity, len(notices))
	for i, n := range notices {
		out[i] = n.Severity
	}
	return out
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		height    int
		wantPages int
	}{
		{name: "one page", height: 2000, wantPages: 1},
		{name: "short overflow stays on one page", height: 2300, wantPages: 1},
		{name: "two pages", height: 3000, wantPages: 2},
		{name: "three pages", height: 5400, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockRasterizer{width: 1588, height: tt.height}
			exp, rec := newTestExporter(t, mock)

			res, err := exp.Export(context.Background(), SampleDocument(), ExportOptions{})
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			if res.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d (height %.1fmm)", res.Pages, tt.wantPages, res.HeightMM)
			}
			if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
				t.Errorf("PDF starts with %q", res.PDF[:min(8, len(res.PDF))])
			}
			if got := bytes.Count(res.PDF, []byte("/Type /Page\n")); got != tt.wantPages {
				t.Errorf("PDF has %d pages, want %d", got, tt.wantPages)
			}
			if res.Filename != "CV-John-Doe.pdf" {
				t.Errorf("Filename = %q", res.Filename)
			}
			if !bytes.Contains(res.HTML, []byte("John")) {
				t.Error("HTML does not contain the resume")
			}

			got := severities(rec.all())
			if len(got) != 2 || got[0] != SeverityInfo || got[1] != SeveritySuccess {
				t.Errorf("notices = %v, want [info success]", got)
			}
		})
	}
}

func TestExporter_HeightMM(t *testing.T) {
	t.Parallel()

	mock := &mockRasterizer{width: 1000, height: 2000}
	exp, _ := newTestExporter(t, mock)

	res, err := exp.Export(context.Background(), SampleDocument(), ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.HeightMM != 420 {
		t.Errorf("HeightMM = %v, want 420", res.HeightMM)
	}
}

func TestExporter_HTMLOnly(t *testing.T) {
	t.Parallel()

	mock := &mockRasterizer{width: 10, height: 10}
	exp, _ := newTestExporter(t, mock)

	res, err := exp.Export(context.Background(), SampleDocument(), ExportOptions{HTMLOnly: true, Layout: "modern"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.PDF != nil || res.Pages != 0 {
		t.Errorf("HTMLOnly produced a PDF (%d pages)", res.Pages)
	}
	if mock.calls != 0 {
		t.Errorf("rasterizer called %d times", mock.calls)
	}
	if !bytes.Contains(res.HTML, []byte("<html")) {
		t.Error("HTML is not a document")
	}
}

func TestExporter_PassesViewport(t *testing.T) {
	t.Parallel()

	mock := &mockRasterizer{width: 100, height: 100}
	exp, _ := newTestExporter(t, mock, WithScale(3))

	if _, err := exp.Export(context.Background(), SampleDocument(), ExportOptions{WidthPx: 600}); err != nil {
		t.Fatal(err)
	}
	if mock.lastOpts.WidthPx != 600 || mock.lastOpts.Scale != 3 {
		t.Errorf("options = %+v, want width 600 scale 3", mock.lastOpts)
	}
	if !strings.Contains(mock.lastHTML, "--cv-width: 600px") {
		t.Error("container width not applied to the HTML")
	}
}

func TestExporter_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mock    *mockRasterizer
		opts    ExportOptions
		doc     Document
		wantErr error
	}{
		{
			name:    "capture failure",
			mock:    &mockRasterizer{err: ErrPageLoad},
			doc:     SampleDocument(),
			wantErr: ErrRenderCapture,
		},
		{
			name:    "empty capture",
			mock:    &mockRasterizer{width: 0, height: 0},
			doc:     SampleDocument(),
			wantErr: ErrRenderCapture,
		},
		{
			name:    "capture timeout",
			mock:    &mockRasterizer{err: context.DeadlineExceeded},
			doc:     SampleDocument(),
			wantErr: ErrRenderCapture,
		},
		{
			name:    "undecodable capture",
			mock:    &mockRasterizer{width: 800, height: 1200, rawPNG: []byte("not a png")},
			doc:     SampleDocument(),
			wantErr: ErrDocumentAssembly,
		},
		{
			name:    "unknown layout",
			mock:    &mockRasterizer{width: 10, height: 10},
			opts:    ExportOptions{Layout: "nope"},
			doc:     SampleDocument(),
			wantErr: ErrLayoutNotFound,
		},
		{
			name:    "invalid layout name",
			mock:    &mockRasterizer{width: 10, height: 10},
			opts:    ExportOptions{Layout: "../etc"},
			doc:     SampleDocument(),
			wantErr: ErrInvalidLayout,
		},
		{
			name:    "invalid document",
			mock:    &mockRasterizer{width: 10, height: 10},
			doc:     Document{Skills: []Skill{{Name: "Go", Level: 0}}},
			wantErr: ErrInvalidLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exp, rec := newTestExporter(t, tt.mock)

			res, err := exp.Export(context.Background(), tt.doc, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Export() error = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Error("Export() returned a result with an error")
			}

			n, ok := rec.last()
			if !ok || n.Severity != SeverityError || n.Title != "Download failed" {
				t.Errorf("last notice = %+v, want Download failed", n)
			}
		})
	}
}

func TestExporter_CaptureTimeoutKeepsCause(t *testing.T) {
	t.Parallel()

	exp, _ := newTestExporter(t, &mockRasterizer{err: context.DeadlineExceeded})

	_, err := exp.Export(context.Background(), SampleDocument(), ExportOptions{})
	if !errors.Is(err, ErrRenderCapture) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Export() error = %v, want ErrRenderCapture wrapping context.DeadlineExceeded", err)
	}
}

func TestExporter_RecoversPanic(t *testing.T) {
	t.Parallel()

	exp, rec := newTestExporter(t, &mockRasterizer{panicMsg: "boom"})

	_, err := exp.Export(context.Background(), SampleDocument(), ExportOptions{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Export() error = %v, want recovered panic", err)
	}
	if n, ok := rec.last(); !ok || n.Severity != SeverityError {
		t.Errorf("last notice = %+v, want an error", n)
	}
}

func TestExporter_Cancelled(t *testing.T) {
	t.Parallel()

	mock := &mockRasterizer{width: 10, height: 10}
	exp, _ := newTestExporter(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := exp.Export(ctx, SampleDocument(), ExportOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Export() error = %v, want context.Canceled", err)
	}
	if mock.calls != 0 {
		t.Error("rasterizer called after cancellation")
	}
}

func TestNewExporter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"unknown backend", []Option{WithBackend("webkit")}, ErrInvalidBackend},
		{"missing asset path", []Option{WithAssetPath(filepath.Join(os.TempDir(), "cvforge-does-not-exist"))}, ErrInvalidAssetPath},
		{"invalid layout", []Option{WithLayout("a/b")}, ErrInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewExporter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewExporter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewExporter_Backends(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{"", BackendRod, BackendChromedp} {
		exp, err := NewExporter(WithBackend(backend))
		if err != nil {
			t.Errorf("NewExporter(%q) error = %v", backend, err)
			continue
		}
		if err := exp.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}

func TestExporter_CustomLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	layoutDir := filepath.Join(dir, "layouts", "plain")
	if err := os.MkdirAll(layoutDir, 0o755); err != nil {
		t.Fatal(err)
	}
	tmpl := `<html><head><style>{{.CSS}}</style></head><body><h1>{{.FullName}}</h1></body></html>`
	if err := os.WriteFile(filepath.Join(layoutDir, "layout.html"), []byte(tmpl), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(layoutDir, "style.css"), []byte("h1 { color: red; }"), 0o600); err != nil {
		t.Fatal(err)
	}

	exp, _ := newTestExporter(t, &mockRasterizer{width: 10, height: 10},
		WithAssetPath(dir), WithLayout("plain"), WithTimeout(time.Minute))

	res, err := exp.Export(context.Background(), SampleDocument(), ExportOptions{HTMLOnly: true})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !bytes.Contains(res.HTML, []byte("<h1>John Doe</h1>")) || !bytes.Contains(res.HTML, []byte("color: red")) {
		t.Errorf("custom layout not used:\n%s", res.HTML)
	}

	names, err := exp.Layouts()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.Join(names, ","), "plain") {
		t.Errorf("Layouts() = %v, want plain listed", names)
	}
}

func TestExporter_Close(t *testing.T) {
	t.Parallel()

	mock := &mockRasterizer{}
	exp, err := NewExporter(WithRasterizer(mock))
	if err != nil {
		t.Fatal(err)
	}
	if err := exp.Close(); err != nil {
		t.Fatal(err)
	}
	if mock.closed != 1 {
		t.Errorf("rasterizer closed %d times, want 1", mock.closed)
	}
}
