// Package assets provides the CSS styles and HTML layouts used to render a
// resume. Assets can be loaded from embedded files or a custom directory.
package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a shared CSS file by name using the default embedded loader.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or dots.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadLayout loads a layout by name using the default embedded loader.
// Returns ErrLayoutNotFound if the layout does not exist.
// Returns ErrIncompleteLayout if layout.html or style.css is missing.
func LoadLayout(name string) (*Layout, error) {
	return defaultLoader.LoadLayout(name)
}

// ListLayouts returns the names of the embedded layouts, sorted.
func ListLayouts() ([]string, error) {
	return defaultLoader.ListLayouts()
}
