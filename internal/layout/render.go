package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/alnah/go-cvforge/internal/assets"
)

// Sentinel errors.
var (
	// ErrLayoutNotFound is returned for an unknown layout name.
	ErrLayoutNotFound = assets.ErrLayoutNotFound
	// ErrTemplate wraps template parse and execution failures.
	ErrTemplate = errors.New("layout template failed")
)

// DefaultWidthPx is the container width: one A4 page at 96 DPI.
const DefaultWidthPx = 794

// Renderer renders resumes with layouts from an asset loader. Parsed
// layouts are cached by name. A Renderer is safe for concurrent use.
type Renderer struct {
	loader assets.AssetLoader
	md     *markdown

	mu    sync.Mutex
	cache map[string]*compiled
}

type compiled struct {
	tmpl *template.Template
	css  template.CSS
}

// page is the value layout templates execute against.
type page struct {
	*Resume
	CSS template.CSS
}

// NewRenderer returns a Renderer reading layouts from loader.
// A nil loader uses the embedded assets.
func NewRenderer(loader assets.AssetLoader) *Renderer {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &Renderer{
		loader: loader,
		md:     newMarkdown(),
		cache:  make(map[string]*compiled),
	}
}

// Layouts lists the layout names the loader knows about.
func (r *Renderer) Layouts() ([]string, error) {
	return r.loader.ListLayouts()
}

// Render executes the named layout for resume and returns a complete HTML
// document whose container is widthPx CSS pixels wide (0 means
// DefaultWidthPx). Rendering runs on its own goroutine so ctx can abandon
// it.
func (r *Renderer) Render(ctx context.Context, name string, resume *Resume, widthPx int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if resume == nil {
		resume = &Resume{}
	}
	if name == "" {
		name = assets.DefaultLayoutName
	}
	if widthPx <= 0 {
		widthPx = DefaultWidthPx
	}

	c, err := r.compile(name)
	if err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		css := template.CSS(fmt.Sprintf(":root { --cv-width: %dpx; }\n", widthPx)) + c.css
		if err := c.tmpl.Execute(&buf, page{Resume: resume, CSS: css}); err != nil {
			done <- result{err: fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// compile loads and parses a layout once.
func (r *Renderer) compile(name string) (*compiled, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache[name]; ok {
		return c, nil
	}

	l, err := r.loader.LoadLayout(name)
	if err != nil {
		return nil, err
	}
	base, err := r.loader.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return nil, err
	}
	code, err := highlightCSS()
	if err != nil {
		return nil, fmt.Errorf("%w: highlight styles: %v", ErrTemplate, err)
	}

	tmpl, err := template.New(name).Funcs(r.funcs()).Parse(l.Template)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}

	// #nosec G203 -- stylesheets come from embedded or user-owned asset files
	css := template.CSS(strings.Join([]string{base, code, l.Style}, "\n"))
	c := &compiled{tmpl: tmpl, css: css}
	r.cache[name] = c
	return c, nil
}
