// Package cvforge builds resumes: it holds the resume document, turns an
// uploaded photo into a square avatar, and exports the document as a
// paginated A4 PDF.
//
// # Quick Start
//
// Load a resume, export it, and close the exporter when done:
//
//	doc, err := cvforge.LoadDocument("resume.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp, err := cvforge.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	res, err := exp.Export(ctx, doc, cvforge.ExportOptions{Layout: "modern"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.PDF, 0o644)
//
// The result also carries the rendered HTML (res.HTML). Use
// ExportOptions.HTMLOnly to stop before the browser is involved.
//
// # Export Pipeline
//
//  1. The layout template renders the document into one page-wide HTML
//     container (Markdown fields through Goldmark).
//  2. Headless Chrome captures the whole container as one tall bitmap at
//     scale 2 (go-rod by default, chromedp with WithBackend).
//  3. The bitmap is scaled to A4 width and sliced into 297mm pages. A page
//     is added only while more than 10mm of content remains.
//  4. Every page draws the same image shifted up by its offset (gofpdf).
//
// # Editing
//
// An Editor owns the current Document. Every change goes through
// Editor.Apply with a partial Update; the helpers (AddSkill, SetAvatar...)
// are built on it:
//
//	ed, _ := cvforge.NewEditor(cvforge.SampleDocument())
//	ed.AddSkill(cvforge.Skill{Name: "Go", Level: 5})
//
// # Avatars
//
// A CropSession takes one upload through validation, decoding and an
// interactive square crop, then stores the encoded JPEG on the editor:
//
//	s := cvforge.NewCropSession(ed, cvforge.NewWriterNotifier(os.Stderr, false))
//	ready, err := s.Open(ctx, upload)
//	if err != nil {
//	    return err
//	}
//	if err := <-ready; err != nil {
//	    return err
//	}
//	s.SetRegion(region)
//	_, err = s.Commit(ctx)
//
// # Parallel Processing
//
// For batch exports, ExporterPool manages several browser instances:
//
//	pool := cvforge.NewExporterPool(cvforge.ResolvePoolSize(0))
//	defer pool.Close()
//
//	exp, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(exp)
//
// # Custom Layouts
//
// WithAssetPath adds a directory searched before the embedded assets:
//
//	assets/
//	├── styles/
//	│   └── base.css
//	└── layouts/
//	    └── compact/
//	        ├── layout.html
//	        └── style.css
//
// # Browser Requirements
//
// Export requires Chrome/Chromium. The go-rod backend downloads a managed
// Chromium on first run (~/.cache/rod/browser/). Use ROD_BROWSER_BIN to
// point at a custom binary; the sandbox is disabled when it is set or when
// CI=true.
package cvforge
