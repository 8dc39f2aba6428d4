package cvforge

import (
	"errors"

	"github.com/alnah/go-cvforge/internal/assets"
	"github.com/alnah/go-cvforge/internal/avatar"
	"github.com/alnah/go-cvforge/internal/layout"
	"github.com/alnah/go-cvforge/internal/paginate"
	"github.com/alnah/go-cvforge/internal/raster"
)

// Image capture errors.
var (
	ErrNotAnImage        = avatar.ErrNotAnImage
	ErrFileTooLarge      = avatar.ErrFileTooLarge
	ErrUnsupportedFormat = avatar.ErrUnsupportedFormat
	ErrInvalidCropRegion = avatar.ErrInvalidCropRegion
	ErrImageProcessing   = avatar.ErrImageProcessing
	ErrNoDecoder         = avatar.ErrNoDecoder
)

// Export errors. ErrBrowserConnect, ErrPageCreate and ErrPageLoad all match
// ErrRenderCapture too.
var (
	ErrRenderCapture    = raster.ErrRenderCapture
	ErrBrowserConnect   = raster.ErrBrowserConnect
	ErrPageCreate       = raster.ErrPageCreate
	ErrPageLoad         = raster.ErrPageLoad
	ErrDocumentAssembly = paginate.ErrDocumentAssembly
	ErrLayoutNotFound   = layout.ErrLayoutNotFound
	ErrLayoutTemplate   = layout.ErrTemplate
	ErrInvalidLayout    = assets.ErrInvalidAssetName
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInvalidBackend   = errors.New("invalid rasterizer backend")
	ErrPoolClosed       = errors.New("exporter pool is closed")
)

// Crop session errors.
var (
	ErrSessionBusy   = errors.New("crop session is busy")
	ErrNotCropping   = errors.New("no image is being cropped")
	ErrCropCancelled = errors.New("crop cancelled")
)

// Document errors.
var (
	ErrInvalidLevel   = errors.New("level must be between 1 and 5")
	ErrDuplicateID    = errors.New("duplicate entry id")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrEmptyDocument  = errors.New("document is empty")
	ErrDocumentFormat = errors.New("invalid document file")
)
