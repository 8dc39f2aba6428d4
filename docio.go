package cvforge

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// ParseDocument decodes a resume from YAML. Unknown fields are rejected so
// typos surface instead of silently dropping data. Missing IDs are filled.
func ParseDocument(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, ErrEmptyDocument
	}

	var doc Document
	if err := yamlutil.UnmarshalStrict(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDocumentFormat, err)
	}

	doc.normalize()
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// LoadDocument reads and parses a resume file.
func LoadDocument(path string) (Document, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided resume path
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	var doc Document
	if err := yamlutil.DecodeStrict(f, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrDocumentFormat, path, err)
	}

	doc.normalize()
	if err := doc.Validate(); err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// YAML encodes the document. Multi-line text uses literal blocks.
func (d Document) YAML() ([]byte, error) {
	return yamlutil.Marshal(d)
}

// SaveDocument writes doc to path as YAML.
func SaveDocument(path string, doc Document) error {
	data, err := doc.YAML()
	if err != nil {
		return err
	}
	// #nosec G306 -- resume files are meant to be user-readable
	return os.WriteFile(path, data, 0o644)
}
