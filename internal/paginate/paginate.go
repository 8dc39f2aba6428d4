// Package paginate slices a tall page-width capture into A4 pages and
// assembles them into a PDF.
package paginate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register decoder
	"math"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry.
const (
	A4WidthMM     = 210.0
	A4HeightMM    = 297.0
	PxPerMM       = 96 / 25.4
	MinTrailingMM = 10.0
	RasterScale   = 2
)

// CaptureQuality is the JPEG quality used when embedding the capture.
const CaptureQuality = 100

var (
	// ErrEmptyCapture is returned when the capture has no area.
	ErrEmptyCapture = errors.New("capture has no area")
	// ErrDocumentAssembly wraps every PDF construction failure.
	ErrDocumentAssembly = errors.New("assembling PDF")
)

// PageWidthPx is the CSS pixel width of one A4 page at 96 DPI.
func PageWidthPx() int {
	return int(math.Round(A4WidthMM * PxPerMM))
}

// PageHeightPx is the CSS pixel height of one A4 page at 96 DPI.
func PageHeightPx() int {
	return int(math.Round(A4HeightMM * PxPerMM))
}

// Slice is one page: the capture is drawn OffsetMM above the page top.
type Slice struct {
	Index    int
	OffsetMM float64
}

// Layout is the page plan for a capture.
type Layout struct {
	CanvasWidth   int
	CanvasHeight  int
	ImageHeightMM float64
	Slices        []Slice
}

// Pages returns the number of planned pages.
func (l Layout) Pages() int {
	return len(l.Slices)
}

// Plan maps a canvas of canvasW x canvasH pixels onto A4 width and decides
// which pages to emit. The first page is always emitted; a further page is
// emitted only while more than MinTrailingMM of content remains below it.
func Plan(canvasW, canvasH int) (Layout, error) {
	if canvasW <= 0 || canvasH <= 0 {
		return Layout{}, fmt.Errorf("%w: %dx%d", ErrEmptyCapture, canvasW, canvasH)
	}

	heightMM := float64(canvasH) * A4WidthMM / float64(canvasW)
	n := CountPages(heightMM)

	slices := make([]Slice, n)
	for i := range slices {
		slices[i] = Slice{Index: i, OffsetMM: float64(i) * A4HeightMM}
	}

	return Layout{
		CanvasWidth:   canvasW,
		CanvasHeight:  canvasH,
		ImageHeightMM: heightMM,
		Slices:        slices,
	}, nil
}

// CountPages returns how many A4 pages a capture heightMM tall produces.
// Content within MinTrailingMM of the last page edge does not get a page.
func CountPages(heightMM float64) int {
	pages := 1
	for heightMM-float64(pages)*A4HeightMM > MinTrailingMM {
		pages++
	}
	return pages
}

// Assemble builds the PDF. capture is an encoded image (PNG or JPEG); it is
// re-encoded as JPEG once, registered once, and drawn on each page of
// layout at the page's negative offset so the page box clips it.
func Assemble(capture []byte, layout Layout) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, fmt.Errorf("%w: %v", ErrDocumentAssembly, r)
		}
	}()

	if len(layout.Slices) == 0 {
		return nil, fmt.Errorf("%w: no pages planned", ErrDocumentAssembly)
	}

	img, _, err := image.Decode(bytes.NewReader(capture))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding capture: %v", ErrDocumentAssembly, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %w", ErrDocumentAssembly, ErrEmptyCapture)
	}

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, img, &jpeg.Options{Quality: CaptureQuality}); err != nil {
		return nil, fmt.Errorf("%w: encoding capture: %v", ErrDocumentAssembly, err)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "JPG", AllowNegativePosition: true}
	doc.RegisterImageOptionsReader("capture", opts, &jpg)

	for _, s := range layout.Slices {
		doc.AddPage()
		doc.ImageOptions("capture", 0, -s.OffsetMM, A4WidthMM, layout.ImageHeightMM, false, opts, 0, "")
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentAssembly, err)
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentAssembly, err)
	}
	return out.Bytes(), nil
}
