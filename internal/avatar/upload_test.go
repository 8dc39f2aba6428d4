package avatar

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestValidateUpload - Ordered validation rules
// ---------------------------------------------------------------------------

func TestValidateUpload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		upload  Upload
		wantErr error
	}{
		{name: "jpeg", upload: Upload{MIMEType: "image/jpeg", Size: 2 << 20}},
		{name: "png", upload: Upload{MIMEType: "image/png", Size: 1}},
		{name: "webp", upload: Upload{MIMEType: "image/webp", Size: 10}},
		{name: "heic", upload: Upload{MIMEType: "image/heic", Size: 10}},
		{name: "heif", upload: Upload{MIMEType: "image/heif", Size: 10}},
		{name: "exactly 5 MiB", upload: Upload{MIMEType: "image/png", Size: MaxUploadSize}},
		{name: "case and parameters ignored", upload: Upload{MIMEType: " Image/JPEG; q=0.9", Size: 10}},
		{name: "pdf", upload: Upload{MIMEType: "application/pdf", Size: 10}, wantErr: ErrNotAnImage},
		{name: "empty type", upload: Upload{MIMEType: "", Size: 10}, wantErr: ErrNotAnImage},
		{name: "text", upload: Upload{MIMEType: "text/plain", Size: 10}, wantErr: ErrNotAnImage},
		{name: "one byte over", upload: Upload{MIMEType: "image/png", Size: MaxUploadSize + 1}, wantErr: ErrFileTooLarge},
		{name: "gif", upload: Upload{MIMEType: "image/gif", Size: 10}, wantErr: ErrUnsupportedFormat},
		{name: "svg", upload: Upload{MIMEType: "image/svg+xml", Size: 10}, wantErr: ErrUnsupportedFormat},
		// Order matters: a huge non-image reports NotAnImage, a huge GIF reports FileTooLarge.
		{name: "huge non-image", upload: Upload{MIMEType: "video/mp4", Size: 50 << 20}, wantErr: ErrNotAnImage},
		{name: "huge gif", upload: Upload{MIMEType: "image/gif", Size: 50 << 20}, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateUpload(tt.upload)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateUpload() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpload_NonImagePrefixes(t *testing.T) {
	t.Parallel()

	for _, mt := range []string{"application/octet-stream", "audio/png", "imagex/png", "img/jpeg"} {
		if err := ValidateUpload(Upload{MIMEType: mt, Size: 1}); !errors.Is(err, ErrNotAnImage) {
			t.Errorf("ValidateUpload(%q) = %v, want ErrNotAnImage", mt, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestDetectMIMEType - Extension, then content
// ---------------------------------------------------------------------------

func TestDetectMIMEType(t *testing.T) {
	t.Parallel()

	pngHead := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	heicHead := []byte("\x00\x00\x00\x18ftypheic\x00\x00\x00\x00")
	mifHead := []byte("\x00\x00\x00\x18ftypmif1\x00\x00\x00\x00")

	tests := []struct {
		name     string
		filename string
		head     []byte
		want     string
	}{
		{name: "jpg extension", filename: "me.JPG", want: "image/jpeg"},
		{name: "jpeg extension", filename: "me.jpeg", want: "image/jpeg"},
		{name: "webp extension", filename: "me.webp", want: "image/webp"},
		{name: "heic extension", filename: "IMG_0001.HEIC", want: "image/heic"},
		{name: "no extension png bytes", filename: "photo", head: pngHead, want: "image/png"},
		{name: "no extension heic brand", filename: "photo", head: heicHead, want: "image/heic"},
		{name: "no extension heif brand", filename: "photo", head: mifHead, want: "image/heif"},
		{name: "nothing known", filename: "photo", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DetectMIMEType(tt.filename, tt.head); got != tt.want {
				t.Errorf("DetectMIMEType(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
