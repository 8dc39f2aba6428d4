package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed layouts
var layouts embed.FS

// EmbeddedLoader loads assets from the embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a CSS style from embedded assets by name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// LoadLayout loads a layout from embedded assets by name.
func (e *EmbeddedLoader) LoadLayout(name string) (*Layout, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dir := path.Join("layouts", name)
	if _, err := fs.Stat(layouts, dir); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}

	tmpl, err := layouts.ReadFile(path.Join(dir, layoutTemplateFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteLayout, name, layoutTemplateFile)
	}
	style, err := layouts.ReadFile(path.Join(dir, layoutStyleFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteLayout, name, layoutStyleFile)
	}

	return &Layout{Name: name, Template: string(tmpl), Style: string(style)}, nil
}

// ListLayouts returns the embedded layout names, sorted.
func (e *EmbeddedLoader) ListLayouts() ([]string, error) {
	return listLayoutDirs(layouts, "layouts")
}

func listLayoutDirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && ValidateAssetName(e.Name()) == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
