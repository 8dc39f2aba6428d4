package main

import (
	"errors"
	"os"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/config"
)

// Exit codes for the cvforge CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome or PDF assembly errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, cvforge.ErrRenderCapture) ||
		errors.Is(err, cvforge.ErrDocumentAssembly) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrFileExists) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRange) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, cvforge.ErrLayoutNotFound) ||
		errors.Is(err, cvforge.ErrInvalidLayout) ||
		errors.Is(err, cvforge.ErrInvalidBackend) ||
		errors.Is(err, cvforge.ErrInvalidAssetPath) ||
		errors.Is(err, cvforge.ErrEmptyDocument) ||
		errors.Is(err, cvforge.ErrDocumentFormat) ||
		errors.Is(err, cvforge.ErrInvalidLevel) ||
		errors.Is(err, cvforge.ErrDuplicateID) ||
		errors.Is(err, cvforge.ErrNotAnImage) ||
		errors.Is(err, cvforge.ErrFileTooLarge) ||
		errors.Is(err, cvforge.ErrUnsupportedFormat) ||
		errors.Is(err, cvforge.ErrNoDecoder) ||
		errors.Is(err, cvforge.ErrInvalidCropRegion) {
		return ExitUsage
	}

	return ExitGeneral
}
