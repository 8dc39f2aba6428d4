package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory on the filesystem.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks in base path so containment checks compare real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// LoadStyle loads a CSS style from {basePath}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	filePath := filepath.Join(f.basePath, "styles", name+".css")
	if err := f.verifyPathContainment(filePath); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	return string(content), nil
}

// LoadLayout loads {basePath}/layouts/{name}/layout.html and style.css.
// A directory with neither file does not count as a layout.
func (f *FilesystemLoader) LoadLayout(name string) (*Layout, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	dirPath := filepath.Join(f.basePath, "layouts", name)
	if err := f.verifyPathContainment(dirPath + string(filepath.Separator)); err != nil {
		return nil, err
	}

	tmpl, tmplErr := os.ReadFile(filepath.Join(dirPath, layoutTemplateFile)) // #nosec G304 -- path validated above
	style, styleErr := os.ReadFile(filepath.Join(dirPath, layoutStyleFile)) // #nosec G304 -- path validated above

	if os.IsNotExist(tmplErr) && os.IsNotExist(styleErr) {
		return nil, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	if tmplErr != nil && !os.IsNotExist(tmplErr) {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, layoutTemplateFile, tmplErr)
	}
	if styleErr != nil && !os.IsNotExist(styleErr) {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, layoutStyleFile, styleErr)
	}
	if os.IsNotExist(tmplErr) {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteLayout, name, layoutTemplateFile)
	}
	if os.IsNotExist(styleErr) {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteLayout, name, layoutStyleFile)
	}

	return &Layout{Name: name, Template: string(tmpl), Style: string(style)}, nil
}

// ListLayouts returns the directory names under {basePath}/layouts, sorted.
// Directories are listed whether or not they hold both layout files.
func (f *FilesystemLoader) ListLayouts() ([]string, error) {
	return listLayoutDirs(os.DirFS(f.basePath), "layouts")
}

// verifyPathContainment ensures the resolved file path is within basePath,
// following symlinks so a link cannot point outside it.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; the read fails later anyway.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	// Separator suffix blocks /base/path vs /base/pathevil.
	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}

	return nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
