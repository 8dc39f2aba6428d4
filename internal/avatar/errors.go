package avatar

import "errors"

// Sentinel errors. Callers match them with errors.Is.
var (
	ErrNotAnImage        = errors.New("file is not an image")
	ErrFileTooLarge      = errors.New("image exceeds maximum upload size")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrInvalidCropRegion = errors.New("invalid crop region")
	ErrImageProcessing   = errors.New("image processing failed")

	// ErrNoDecoder is wrapped together with ErrImageProcessing when a format
	// passes validation but cannot be decoded (HEIC, HEIF).
	ErrNoDecoder = errors.New("no decoder for image format")

	ErrInvalidDataURI = errors.New("invalid data URI")
)
