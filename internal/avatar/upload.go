package avatar

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest accepted upload (5 MiB).
const MaxUploadSize = 5 * 1024 * 1024

// AcceptedMIMETypes lists the upload formats, in the order shown to users.
var AcceptedMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/heic",
	"image/heif",
}

// Upload is a user-selected file: what a browser file input would report.
type Upload struct {
	Filename string
	MIMEType string
	Size     int64
	Data     io.Reader
}

// ValidateUpload checks an upload before anything is decoded.
// Rules run in order and the first failure wins:
// not image/* -> ErrNotAnImage, over MaxUploadSize -> ErrFileTooLarge,
// not an accepted type -> ErrUnsupportedFormat.
func ValidateUpload(u Upload) error {
	mt := normalizeMIME(u.MIMEType)

	if !strings.HasPrefix(mt, "image/") {
		return fmt.Errorf("%w: %q", ErrNotAnImage, u.MIMEType)
	}
	if u.Size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, u.Size, MaxUploadSize)
	}
	if !isAccepted(mt) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, u.MIMEType)
	}
	return nil
}

// normalizeMIME lowercases and strips parameters ("image/PNG; q=1" -> "image/png").
func normalizeMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func isAccepted(mt string) bool {
	for _, a := range AcceptedMIMETypes {
		if mt == a {
			return true
		}
	}
	return false
}

// extensionTypes covers formats that system MIME tables often miss.
var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// heifBrands maps ISO-BMFF major brands to their MIME type.
var heifBrands = map[string]string{
	"heic": "image/heic",
	"heix": "image/heic",
	"hevc": "image/heic",
	"hevx": "image/heic",
	"heim": "image/heic",
	"heis": "image/heic",
	"mif1": "image/heif",
	"msf1": "image/heif",
	"heif": "image/heif",
}

// DetectMIMEType reports the MIME type for a file the way a browser would:
// from the extension first, then from the leading bytes. Returns
// "application/octet-stream" when nothing matches.
func DetectMIMEType(filename string, head []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return normalizeMIME(mt)
		}
	}

	if len(head) >= 12 && bytes.Equal(head[4:8], []byte("ftyp")) {
		if mt, ok := heifBrands[string(head[8:12])]; ok {
			return mt
		}
	}
	if len(head) > 0 {
		return normalizeMIME(http.DetectContentType(head))
	}
	return "application/octet-stream"
}
