package avatar

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

// Output defaults.
const (
	DefaultMaxEdge = 400
	DefaultQuality = 92
)

// Options tunes the encoded output. Zero fields take the defaults.
type Options struct {
	MaxEdge int // longest output edge in pixels
	Quality int // JPEG quality, 1-100
}

func (o Options) withDefaults() Options {
	if o.MaxEdge <= 0 {
		o.MaxEdge = DefaultMaxEdge
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	return o
}

// Encoded is the avatar produced by Crop.
type Encoded struct {
	URI    string // data:image/jpeg;base64,...
	Width  int
	Height int
	Bytes  []byte // raw JPEG
}

// String returns the data URI.
func (e *Encoded) String() string {
	return e.URI
}

// OutputSize caps the longer edge of mapped at maxEdge and scales the other
// edge by the same factor. Sizes already within the cap are only rounded.
// Both results are at least 1.
func OutputSize(mapped Size, maxEdge int) (width, height int) {
	w, h := mapped.Width, mapped.Height
	limit := float64(maxEdge)

	if w > h {
		if w > limit {
			h = h * limit / w
			w = limit
		}
	} else if h > limit {
		w = w * limit / h
		h = limit
	}

	return max(1, int(math.Round(w))), max(1, int(math.Round(h)))
}

// Crop cuts region (in displayed coordinates) out of src and encodes it.
//
// The region is scaled by natural/displayed on each axis, the output is sized
// with OutputSize, the source rectangle is resampled with Catmull-Rom over a
// white backdrop, and the result is encoded as JPEG.
func Crop(src *Source, displayed Size, region CropRegion, opts Options) (enc *Encoded, err error) {
	defer func() {
		if r := recover(); r != nil {
			enc, err = nil, fmt.Errorf("%w: %v", ErrImageProcessing, r)
		}
	}()

	opts = opts.withDefaults()

	if src == nil || src.Image == nil {
		return nil, fmt.Errorf("%w: no source image", ErrImageProcessing)
	}
	if displayed.Empty() {
		return nil, fmt.Errorf("%w: displayed size %vx%v", ErrImageProcessing, displayed.Width, displayed.Height)
	}

	px := region.ToPixels(displayed)
	if px.Empty() {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidCropRegion, px.Width, px.Height)
	}

	scaleX := src.Natural.Width / displayed.Width
	scaleY := src.Natural.Height / displayed.Height

	mappedX := px.X * scaleX
	mappedY := px.Y * scaleY
	mapped := Size{Width: px.Width * scaleX, Height: px.Height * scaleY}

	bounds := src.Image.Bounds()
	srcRect := image.Rect(
		int(math.Round(mappedX)),
		int(math.Round(mappedY)),
		int(math.Round(mappedX+mapped.Width)),
		int(math.Round(mappedY+mapped.Height)),
	).Add(bounds.Min).Intersect(bounds)
	if srcRect.Empty() {
		return nil, fmt.Errorf("%w: region lies outside the image", ErrInvalidCropRegion)
	}

	w, h := OutputSize(mapped, opts.MaxEdge)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src.Image, srcRect, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("%w: encoding JPEG: %v", ErrImageProcessing, err)
	}

	return &Encoded{
		URI:    dataURI("image/jpeg", buf.Bytes()),
		Width:  w,
		Height: h,
		Bytes:  buf.Bytes(),
	}, nil
}

// DecodeDataURI splits a base64 data URI into its MIME type and payload.
func DecodeDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}
	mimeType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}
