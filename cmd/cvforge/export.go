package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	flag "github.com/spf13/pflag"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/config"
	"github.com/alnah/go-cvforge/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ErrWriteOutput wraps failures to write a PDF or HTML file.
var ErrWriteOutput = errors.New("failed to write output")

// exportParams is the merged result of flags, environment and config.
type exportParams struct {
	layout       string
	assetPath    string
	backend      string
	timeout      time.Duration
	workers      int
	widthPx      int
	scale        float64
	outputDir    string
	explicitFile string
	html         bool
	htmlOnly     bool
	quiet        bool
	verbose      bool
}

// exportResult holds the outcome of a single export.
type exportResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Err        error
	Duration   time.Duration
}

// runExport renders one resume, or every resume under a directory, to PDF.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseExportFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: export takes exactly one resume file or directory", ErrUsage)
	}

	cfg, err := resolveConfig(f.common.config, env, env.Stderr)
	if err != nil {
		return err
	}
	params, err := mergeExportFlags(f, cfg)
	if err != nil {
		return err
	}

	files, err := discoverResumes(positional[0])
	if err != nil {
		return err
	}
	if params.explicitFile != "" && len(files) > 1 {
		return fmt.Errorf("%w: --output must be a directory when exporting %d resumes", ErrUsage, len(files))
	}
	jobs := planExports(files, params.outputDir, params.explicitFile)

	pool := env.NewPool(cvforge.ResolvePoolSize(params.workers), exporterOptions(params, env)...)
	defer func() { _ = pool.Close() }()

	if err := preflight(pool, params.layout); err != nil {
		return err
	}

	results := exportBatch(ctx, pool, jobs, params)
	printResults(env.Stdout, env.Stderr, results, params)
	return batchError(results)
}

// mergeExportFlags layers explicit flags over the resolved config.
func mergeExportFlags(f *exportFlags, base *config.Config) (*exportParams, error) {
	if err := validateWorkers(f.workers); err != nil {
		return nil, err
	}

	cfg := *base
	if f.layout != "" {
		cfg.Layout.Name = f.layout
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.backend != "" {
		cfg.Export.Backend = strings.ToLower(f.backend)
	}
	if f.timeout != "" {
		cfg.Export.Timeout = f.timeout
	}
	if f.workers > 0 {
		cfg.Export.Workers = f.workers
	}
	if f.width != 0 {
		cfg.Layout.WidthPx = f.width
	}
	if f.scale != 0 {
		cfg.Export.Scale = f.scale
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	p := &exportParams{
		layout:    cfg.Layout.Name,
		assetPath: cfg.Assets.BasePath,
		backend:   strings.ToLower(cfg.Export.Backend),
		timeout:   timeout,
		workers:   cfg.Export.Workers,
		widthPx:   cfg.Layout.WidthPx,
		scale:     cfg.Export.Scale,
		outputDir: cfg.Output.DefaultDir,
		html:      f.outputMode.html || cfg.Output.HTML,
		htmlOnly:  f.outputMode.htmlOnly,
		quiet:     f.common.quiet,
		verbose:   f.common.verbose,
	}

	if f.output != "" {
		ext := strings.ToLower(filepath.Ext(f.output))
		if ext == ".pdf" || (p.htmlOnly && ext == ".html") {
			p.explicitFile = f.output
		} else {
			p.outputDir = f.output
		}
	}

	return p, nil
}

// exporterOptions translates params into library options.
func exporterOptions(p *exportParams, env *Environment) []cvforge.Option {
	opts := []cvforge.Option{
		cvforge.WithTimeout(p.timeout),
		cvforge.WithBackend(p.backend),
	}
	if p.layout != "" {
		opts = append(opts, cvforge.WithLayout(p.layout))
	}
	if p.assetPath != "" {
		opts = append(opts, cvforge.WithAssetPath(p.assetPath))
	}
	if p.scale != 0 {
		opts = append(opts, cvforge.WithScale(p.scale))
	}
	if p.verbose {
		opts = append(opts, cvforge.WithNotifier(cvforge.NewWriterNotifier(env.Stderr, false)))
	}
	return opts
}

// preflight builds one exporter to surface option errors once, and checks
// that the requested layout exists before any resume is rendered.
func preflight(pool Pool, layoutName string) error {
	exp, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(exp)

	available, err := exp.Layouts()
	if err != nil {
		return err
	}
	if layoutName != "" && !slices.Contains(available, layoutName) {
		return fmt.Errorf("%w: %q%s", cvforge.ErrLayoutNotFound, layoutName, hints.ForLayoutNotFound(available))
	}
	return nil
}

// exportBatch processes jobs concurrently using the exporter pool.
// Results keep the order of jobs.
func exportBatch(ctx context.Context, pool Pool, jobs []exportJob, p *exportParams) []exportResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))

	results := make([]exportResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for i, job := range jobs {
		if job.Err != nil {
			results[i] = exportResult{InputPath: job.InputPath, Err: job.Err}
			continue
		}
		queue <- i
	}
	close(queue)

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire()
			if err != nil {
				for idx := range queue {
					results[idx] = exportResult{InputPath: jobs[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(exp)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = exportResult{InputPath: jobs[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = exportOne(ctx, exp, jobs[idx], p)
			}
		}()
	}

	wg.Wait()
	return results
}

// exportOne renders a single resume and writes its outputs.
func exportOne(ctx context.Context, exp *cvforge.Exporter, job exportJob, p *exportParams) exportResult {
	start := time.Now()
	result := exportResult{InputPath: job.InputPath, OutputPath: job.OutputPath}
	done := func(err error) exportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	res, err := exp.Export(ctx, job.Doc, cvforge.ExportOptions{
		WidthPx:  p.widthPx,
		HTMLOnly: p.htmlOnly,
	})
	if err != nil {
		return done(err)
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err))
	}

	if p.htmlOnly || p.html {
		htmlPath := job.OutputPath
		if !strings.EqualFold(filepath.Ext(htmlPath), ".html") {
			htmlPath = htmlOutputPath(job.OutputPath)
		}
		// #nosec G306 -- HTML files are meant to be readable
		if err := os.WriteFile(htmlPath, res.HTML, filePermissions); err != nil {
			return done(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
		if p.htmlOnly {
			result.OutputPath = htmlPath
			return done(nil)
		}
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(job.OutputPath, res.PDF, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}
	result.Pages = res.Pages
	return done(nil)
}

// printResults reports each export. A lone failure is left to the caller,
// which prints it with hints.
func printResults(stdout, stderr io.Writer, results []exportResult, p *exportParams) {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			if len(results) > 1 {
				fmt.Fprintf(stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}
		if p.quiet {
			continue
		}
		switch {
		case p.verbose && r.Pages > 0:
			fmt.Fprintf(stdout, "Created %s (%d pages, %v)\n", r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		case p.verbose:
			fmt.Fprintf(stdout, "Created %s (%v)\n", r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(stdout, "Created %s\n", r.OutputPath)
		}
	}

	if len(results) > 1 && !p.quiet {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
}

// batchError summarizes failures. The first failure stays in the chain so
// the exit code reflects its kind.
func batchError(results []exportResult) error {
	var first error
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			if first == nil {
				first = r.Err
			}
			failed++
		}
	}
	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return first
	default:
		return fmt.Errorf("%d of %d exports failed: %w", failed, len(results), first)
	}
}
