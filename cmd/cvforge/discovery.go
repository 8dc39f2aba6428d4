package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/config"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no resume files found")
	ErrInvalidExtension   = errors.New("resume must have .yaml or .yml extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// exportJob is one resume to export. Err is set when the resume could not
// be loaded; such jobs are reported but never reach an exporter.
type exportJob struct {
	InputPath  string
	OutputPath string
	Doc        cvforge.Document
	Err        error
}

// looksLikeResume reports whether s names a YAML resume file.
func looksLikeResume(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

// discoverResumes returns the resume files under inputPath, which is either
// a single .yaml/.yml file or a directory searched recursively. Hidden
// directories are skipped.
func discoverResumes(inputPath string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !looksLikeResume(inputPath) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, inputPath)
		}
		return []string{inputPath}, nil
	}

	var files []string
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if looksLikeResume(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, inputPath)
	}
	return files, nil
}

// planExports loads every resume and assigns it an output path.
// outputDir empty means next to the resume. explicitFile, when set, is the
// output path of a single-resume export.
func planExports(files []string, outputDir, explicitFile string) []exportJob {
	jobs := make([]exportJob, 0, len(files))
	used := make(map[string]bool, len(files))

	for _, path := range files {
		job := exportJob{InputPath: path}

		doc, err := cvforge.LoadDocument(path)
		if err != nil {
			job.Err = err
			jobs = append(jobs, job)
			continue
		}
		job.Doc = doc

		if explicitFile != "" && len(files) == 1 {
			job.OutputPath = explicitFile
		} else {
			dir := outputDir
			if dir == "" {
				dir = filepath.Dir(path)
			}
			job.OutputPath = uniquePath(filepath.Join(dir, doc.ExportFilename()), used)
		}
		used[strings.ToLower(job.OutputPath)] = true
		jobs = append(jobs, job)
	}

	return jobs
}

// uniquePath appends -2, -3, ... before the extension until the path is
// not in used. Comparison is case-insensitive so two resumes for the same
// person never overwrite each other on case-insensitive filesystems.
func uniquePath(path string, used map[string]bool) string {
	if !used[strings.ToLower(path)] {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := stem + "-" + strconv.Itoa(i) + ext
		if !used[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// htmlOutputPath converts a PDF output path to an HTML output path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
}

// validateWorkers checks the --workers flag value.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
