package avatar

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestOutputSize - Longer edge capped, ratio kept
// ---------------------------------------------------------------------------

func TestOutputSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mapped       Size
		wantW, wantH int
	}{
		{name: "square over cap", mapped: Size{Width: 1000, Height: 1000}, wantW: 400, wantH: 400},
		{name: "landscape over cap", mapped: Size{Width: 1000, Height: 500}, wantW: 400, wantH: 200},
		{name: "portrait over cap", mapped: Size{Width: 500, Height: 1000}, wantW: 200, wantH: 400},
		{name: "under cap", mapped: Size{Width: 120, Height: 120}, wantW: 120, wantH: 120},
		{name: "exactly cap", mapped: Size{Width: 400, Height: 400}, wantW: 400, wantH: 400},
		{name: "fractional rounds", mapped: Size{Width: 99.6, Height: 99.4}, wantW: 100, wantH: 99},
		{name: "tiny clamps to one", mapped: Size{Width: 0.2, Height: 0.2}, wantW: 1, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h := OutputSize(tt.mapped, DefaultMaxEdge)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("OutputSize(%+v) = %dx%d, want %dx%d", tt.mapped, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestOutputSize_NeverExceedsCap(t *testing.T) {
	t.Parallel()

	for w := 1.0; w <= 3000; w += 137 {
		for h := 1.0; h <= 3000; h += 211 {
			ow, oh := OutputSize(Size{Width: w, Height: h}, DefaultMaxEdge)
			if ow > DefaultMaxEdge || oh > DefaultMaxEdge {
				t.Fatalf("OutputSize(%vx%v) = %dx%d exceeds %d", w, h, ow, oh, DefaultMaxEdge)
			}
			if ow < 1 || oh < 1 {
				t.Fatalf("OutputSize(%vx%v) = %dx%d, want positive", w, h, ow, oh)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// TestCrop - End to end
// ---------------------------------------------------------------------------

func TestCrop_ScalesDisplayedRegionToNatural(t *testing.T) {
	t.Parallel()

	data := encodeJPEG(t, gradient(2000, 1500))
	src, err := Load(context.Background(), uploadOf("big.jpg", "image/jpeg", data))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	displayed := FitDisplay(src.Natural, Size{Width: 400, Height: 400})
	if displayed != (Size{Width: 400, Height: 300}) {
		t.Fatalf("displayed = %+v, want 400x300", displayed)
	}

	region := CropRegion{Unit: UnitPixel, X: 100, Y: 50, Width: 200, Height: 200}
	enc, err := Crop(src, displayed, region, Options{})
	if err != nil {
		t.Fatalf("Crop() error: %v", err)
	}

	if enc.Width != 400 || enc.Height != 400 {
		t.Errorf("output = %dx%d, want 400x400", enc.Width, enc.Height)
	}
	if !strings.HasPrefix(enc.URI, "data:image/jpeg;base64,") {
		t.Errorf("URI prefix wrong: %q", enc.URI[:min(len(enc.URI), 30)])
	}
	if enc.String() != enc.URI {
		t.Error("String() should return the URI")
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(enc.Bytes))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 400 {
		t.Errorf("decoded output = %dx%d, want 400x400", cfg.Width, cfg.Height)
	}
}

func TestCrop_PicksTheRightPixels(t *testing.T) {
	t.Parallel()

	// Left half red, right half blue.
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 100 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	src := sourceOf(img)
	displayed := Size{Width: 100, Height: 50}

	tests := []struct {
		name    string
		region  CropRegion
		wantRed bool
	}{
		{name: "left", region: CropRegion{X: 5, Y: 5, Width: 40, Height: 40}, wantRed: true},
		{name: "right", region: CropRegion{X: 55, Y: 5, Width: 40, Height: 40}, wantRed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc, err := Crop(src, displayed, tt.region, Options{})
			if err != nil {
				t.Fatalf("Crop() error: %v", err)
			}
			out, err := jpeg.Decode(bytes.NewReader(enc.Bytes))
			if err != nil {
				t.Fatalf("decoding output: %v", err)
			}
			r, _, b, _ := out.At(enc.Width/2, enc.Height/2).RGBA()
			if isRed := r > b; isRed != tt.wantRed {
				t.Errorf("center pixel r=%d b=%d, wantRed=%v", r>>8, b>>8, tt.wantRed)
			}
		})
	}
}

func TestCrop_TransparencyBecomesWhite(t *testing.T) {
	t.Parallel()

	src := sourceOf(image.NewNRGBA(image.Rect(0, 0, 50, 50)))
	enc, err := Crop(src, Size{Width: 50, Height: 50}, CropRegion{Width: 50, Height: 50}, Options{})
	if err != nil {
		t.Fatalf("Crop() error: %v", err)
	}
	out, err := jpeg.Decode(bytes.NewReader(enc.Bytes))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	r, g, b, _ := out.At(25, 25).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("center pixel = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestCrop_Deterministic(t *testing.T) {
	t.Parallel()

	src := sourceOf(gradient(300, 200))
	displayed := Size{Width: 300, Height: 200}
	region := DefaultCropRegion(displayed)

	first, err := Crop(src, displayed, region, Options{})
	if err != nil {
		t.Fatalf("Crop() error: %v", err)
	}
	second, err := Crop(src, displayed, region, Options{})
	if err != nil {
		t.Fatalf("Crop() error: %v", err)
	}
	if first.URI != second.URI {
		t.Error("same input produced different output")
	}
}

func TestCrop_Errors(t *testing.T) {
	t.Parallel()

	src := sourceOf(gradient(100, 100))
	displayed := Size{Width: 100, Height: 100}

	tests := []struct {
		name      string
		src       *Source
		displayed Size
		region    CropRegion
		wantErr   error
	}{
		{name: "zero width", src: src, displayed: displayed, region: CropRegion{Width: 0, Height: 10}, wantErr: ErrInvalidCropRegion},
		{name: "zero height", src: src, displayed: displayed, region: CropRegion{Width: 10, Height: 0}, wantErr: ErrInvalidCropRegion},
		{name: "outside image", src: src, displayed: displayed, region: CropRegion{X: 500, Y: 500, Width: 10, Height: 10}, wantErr: ErrInvalidCropRegion},
		{name: "nil source", src: nil, displayed: displayed, region: CropRegion{Width: 10, Height: 10}, wantErr: ErrImageProcessing},
		{name: "no displayed size", src: src, displayed: Size{}, region: CropRegion{Width: 10, Height: 10}, wantErr: ErrImageProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Crop(tt.src, tt.displayed, tt.region, Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Crop() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCrop_CustomOptions(t *testing.T) {
	t.Parallel()

	src := sourceOf(gradient(1000, 1000))
	displayed := Size{Width: 1000, Height: 1000}
	enc, err := Crop(src, displayed, CropRegion{Width: 1000, Height: 500}, Options{MaxEdge: 100, Quality: 50})
	if err != nil {
		t.Fatalf("Crop() error: %v", err)
	}
	if enc.Width != 100 || enc.Height != 50 {
		t.Errorf("output = %dx%d, want 100x50", enc.Width, enc.Height)
	}
}

// ---------------------------------------------------------------------------
// TestDecodeDataURI
// ---------------------------------------------------------------------------

func TestDecodeDataURI(t *testing.T) {
	t.Parallel()

	mt, data, err := DecodeDataURI(dataURI("image/jpeg", []byte("abc")))
	if err != nil {
		t.Fatalf("DecodeDataURI() error: %v", err)
	}
	if mt != "image/jpeg" || string(data) != "abc" {
		t.Errorf("got (%q, %q)", mt, data)
	}

	for _, bad := range []string{
		"",
		"image/jpeg;base64,YWJj",
		"data:image/jpeg;base64",
		"data:image/jpeg,abc",
		"data:image/jpeg;base64,!!!",
	} {
		if _, _, err := DecodeDataURI(bad); !errors.Is(err, ErrInvalidDataURI) {
			t.Errorf("DecodeDataURI(%q) = %v, want ErrInvalidDataURI", bad, err)
		}
	}
}
