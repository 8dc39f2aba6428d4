package avatar

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// gradient builds a w x h image whose colour varies along both axes so
// resampling bugs show up as wrong pixels, not just wrong sizes.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / max(1, w-1)), G: uint8(y * 255 / max(1, h-1)), B: 128, A: 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func uploadOf(name, mimeType string, data []byte) Upload {
	return Upload{Filename: name, MIMEType: mimeType, Size: int64(len(data)), Data: bytes.NewReader(data)}
}

// sourceOf wraps an in-memory image without going through Load.
func sourceOf(img image.Image) *Source {
	b := img.Bounds()
	return &Source{Image: img, Natural: Size{Width: float64(b.Dx()), Height: float64(b.Dy())}, MIMEType: "image/png"}
}
