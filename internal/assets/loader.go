package assets

// AssetLoader defines the contract for loading styles and layouts.
type AssetLoader interface {
	// LoadStyle loads a shared CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadLayout loads a layout directory by name.
	// Returns ErrLayoutNotFound if the layout doesn't exist.
	// Returns ErrIncompleteLayout if one of its files is missing.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadLayout(name string) (*Layout, error)

	// ListLayouts returns the available layout names, sorted.
	ListLayouts() ([]string, error)
}
