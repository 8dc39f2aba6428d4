package avatar

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"strings"

	_ "golang.org/x/image/webp" // register decoder
)

// Source is a decoded upload. Natural is captured once at load time so the
// crop math never has to look at the image again to learn its size.
type Source struct {
	Image    image.Image
	Natural  Size
	MIMEType string
	Format   string // decoder name reported by image.Decode
	data     []byte
}

// URI returns the original bytes as a displayable data URI.
func (s *Source) URI() string {
	return dataURI(s.MIMEType, s.data)
}

// Bytes returns the original upload bytes.
func (s *Source) Bytes() []byte {
	return s.data
}

// Load reads and decodes an upload. The decode runs on its own goroutine;
// if ctx ends first Load returns ctx.Err() and the late result is dropped.
// Load does not re-run ValidateUpload, but it refuses streams longer than
// MaxUploadSize whatever Size claimed.
func Load(ctx context.Context, u Upload) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u.Data == nil {
		return nil, fmt.Errorf("%w: upload has no data", ErrImageProcessing)
	}

	type result struct {
		src *Source
		err error
	}
	done := make(chan result, 1)

	go func() {
		src, err := decode(u)
		done <- result{src: src, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.src, r.err
	}
}

func decode(u Upload) (*Source, error) {
	data, err := io.ReadAll(io.LimitReader(u.Data, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", ErrImageProcessing, err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%w: stream longer than %d bytes", ErrFileTooLarge, MaxUploadSize)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %w: %s", ErrImageProcessing, ErrNoDecoder, normalizeMIME(u.MIMEType))
		}
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrImageProcessing, normalizeMIME(u.MIMEType), err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrImageProcessing)
	}

	mt := normalizeMIME(u.MIMEType)
	if mt == "" {
		mt = "image/" + format
	}

	return &Source{
		Image:    img,
		Natural:  Size{Width: float64(b.Dx()), Height: float64(b.Dy())},
		MIMEType: mt,
		Format:   format,
		data:     data,
	}, nil
}

// formatHeaders holds the leading bytes of each accepted format, enough for
// image.DecodeConfig to pick a registered decoder.
var formatHeaders = map[string]string{
	"image/jpeg": "\xff\xd8\xff\xe0",
	"image/png":  "\x89PNG\r\n\x1a\n",
	"image/webp": "RIFF\x00\x00\x00\x00WEBPVP8 ",
	"image/heic": "\x00\x00\x00\x18ftypheic",
	"image/heif": "\x00\x00\x00\x18ftypmif1",
}

// CanDecode reports whether this build has a decoder for mimeType.
func CanDecode(mimeType string) bool {
	header, ok := formatHeaders[normalizeMIME(mimeType)]
	if !ok {
		return false
	}
	_, _, err := image.DecodeConfig(strings.NewReader(header))
	return !errors.Is(err, image.ErrFormat)
}

func dataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
