package cvforge

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-cvforge/internal/assets"
	"github.com/alnah/go-cvforge/internal/layout"
	"github.com/alnah/go-cvforge/internal/paginate"
	"github.com/alnah/go-cvforge/internal/raster"
)

// ExportOptions tunes one export.
type ExportOptions struct {
	Layout   string // layout name; empty uses the exporter's layout
	WidthPx  int    // container width in CSS pixels; 0 is one A4 page width
	HTMLOnly bool   // stop after rendering, for debugging layouts
}

// ExportResult holds the rendered document and the PDF built from it.
type ExportResult struct {
	HTML     []byte
	PDF      []byte // nil when HTMLOnly was set
	Filename string // CV-{first}-{last}.pdf
	Pages    int
	HeightMM float64 // capture height once scaled to A4 width
}

// Exporter turns a Document into a paginated A4 PDF:
// the layout is rendered to HTML, captured as one tall bitmap, sliced into
// pages and assembled. Create with NewExporter and Close when done.
// Each Exporter owns one browser; use an ExporterPool for parallel batches.
type Exporter struct {
	cfg        exporterConfig
	renderer   *layout.Renderer
	rasterizer Rasterizer
	notifier   Notifier
}

// NewExporter creates an Exporter. The browser is started lazily on the
// first export.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg:      exporterConfig{timeout: defaultTimeout, layout: assets.DefaultLayoutName},
		notifier: NopNotifier{},
	}
	for _, opt := range opts {
		opt(e)
	}

	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if e.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = resolver
	}
	e.renderer = layout.NewRenderer(loader)

	if e.cfg.layout == "" {
		e.cfg.layout = assets.DefaultLayoutName
	}
	if err := assets.ValidateAssetName(e.cfg.layout); err != nil {
		return nil, err
	}

	if e.rasterizer == nil {
		r, err := raster.New(e.cfg.backend, e.cfg.timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, e.cfg.backend)
		}
		e.rasterizer = r
	}

	return e, nil
}

// Layouts lists the available layout names.
func (e *Exporter) Layouts() ([]string, error) {
	return e.renderer.Layouts()
}

// RenderHTML renders doc with the named layout (empty means the exporter's
// layout) without touching the browser.
func (e *Exporter) RenderHTML(ctx context.Context, doc Document, layoutName string, widthPx int) (string, error) {
	if layoutName == "" {
		layoutName = e.cfg.layout
	}
	return e.renderer.Render(ctx, layoutName, toResume(doc), widthPx)
}

// Export renders, captures and paginates doc. It notifies before starting
// and again on success or failure. No PDF is returned unless every page was
// assembled. Internal panics are recovered into errors.
func (e *Exporter) Export(ctx context.Context, doc Document, opts ExportOptions) (res *ExportResult, err error) {
	notify(e.notifier, "Preparing download...", "Your CV is being prepared for download.", SeverityInfo)

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("internal error: %v", r)
		}
		if err != nil {
			notify(e.notifier, "Download failed", "There was an error downloading your CV. Please try again.", SeverityError)
			return
		}
		notify(e.notifier, "Download successful!", "Your CV has been downloaded successfully.", SeveritySuccess)
	}()

	return e.export(ctx, doc, opts)
}

func (e *Exporter) export(ctx context.Context, doc Document, opts ExportOptions) (*ExportResult, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	html, err := e.RenderHTML(ctx, doc, opts.Layout, opts.WidthPx)
	if err != nil {
		return nil, fmt.Errorf("rendering layout: %w", err)
	}

	res := &ExportResult{
		HTML:     []byte(html),
		Filename: doc.ExportFilename(),
	}
	if opts.HTMLOnly {
		return res, nil
	}

	capture, err := e.rasterizer.Capture(ctx, html, raster.Options{
		WidthPx: opts.WidthPx,
		Scale:   e.cfg.scale,
	})
	if err != nil {
		if !errors.Is(err, ErrRenderCapture) {
			err = fmt.Errorf("%w: %w", ErrRenderCapture, err)
		}
		return nil, fmt.Errorf("capturing page: %w", err)
	}

	plan, err := paginate.Plan(capture.Width, capture.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderCapture, err)
	}

	pdf, err := paginate.Assemble(capture.PNG, plan)
	if err != nil {
		return nil, err
	}

	res.PDF = pdf
	res.Pages = plan.Pages()
	res.HeightMM = plan.ImageHeightMM
	return res, nil
}

// Close releases the browser.
func (e *Exporter) Close() error {
	if e.rasterizer != nil {
		return e.rasterizer.Close()
	}
	return nil
}

// toResume maps the document onto the view layouts execute against.
func toResume(doc Document) *layout.Resume {
	p := doc.Personal
	r := &layout.Resume{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Title:     p.Title,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		Summary:   p.Summary,
		Photo:     p.Photo,
	}
	for _, x := range doc.Experiences {
		r.Experiences = append(r.Experiences, layout.Experience{
			Company:     x.Company,
			Position:    x.Position,
			StartDate:   x.StartDate,
			EndDate:     x.EndDate,
			Description: x.Description,
			Current:     x.Current,
		})
	}
	for _, x := range doc.Education {
		r.Education = append(r.Education, layout.Education{
			Institution: x.Institution,
			Degree:      x.Degree,
			Field:       x.Field,
			StartDate:   x.StartDate,
			EndDate:     x.EndDate,
			Description: x.Description,
		})
	}
	for _, s := range doc.Skills {
		r.Skills = append(r.Skills, layout.Level{Name: s.Name, Level: s.Level})
	}
	for _, l := range doc.Languages {
		r.Languages = append(r.Languages, layout.Level{Name: l.Name, Level: l.Level})
	}
	return r
}
