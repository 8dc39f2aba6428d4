package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cvforge/internal/assets"
	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRange      = errors.New("field out of range")
	ErrInvalidValue    = errors.New("invalid field value")
)

// Field limits.
const (
	MaxPathLength    = 4096
	MaxBackendLength = 20
	MaxTimeoutLength = 20 // "30s", "2m30s"

	MinWidthPx  = 320
	MaxWidthPx  = 2400
	MinScale    = 0.5
	MaxScale    = 4
	MinViewport = 100
	MaxViewport = 2000
	MinMaxEdge  = 16
	MaxMaxEdge  = 4096
	MaxWorkers  = 32
)

// Defaults for a fresh configuration.
const (
	DefaultLayout   = assets.DefaultLayoutName
	DefaultBackend  = "rod"
	DefaultTimeout  = "30s"
	DefaultScale    = 2.0
	DefaultViewport = 400
	DefaultMaxEdge  = 400
	DefaultQuality  = 92
)

// Config holds the settings shared by every cvforge command.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Layout LayoutConfig `yaml:"layout"`
	Assets AssetsConfig `yaml:"assets"`
	Avatar AvatarConfig `yaml:"avatar"`
	Export ExportConfig `yaml:"export"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the resume file
	HTML       bool   `yaml:"html"`       // Also write the rendered HTML
}

// LayoutConfig selects the resume layout.
type LayoutConfig struct {
	Name    string `yaml:"name"`    // "professional", "modern", "creative" or a custom layout
	WidthPx int    `yaml:"widthPx"` // Container width in CSS px (0 = one A4 page)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// AvatarConfig tunes photo cropping.
type AvatarConfig struct {
	Viewport int `yaml:"viewport"` // Square area the photo is fitted into, px
	MaxEdge  int `yaml:"maxEdge"`  // Longest edge of the stored avatar, px
	Quality  int `yaml:"quality"`  // JPEG quality 1-100
}

// ExportConfig tunes the browser capture.
type ExportConfig struct {
	Backend string  `yaml:"backend"` // "rod" or "chromedp"
	Timeout string  `yaml:"timeout"` // Go duration, e.g. "45s"
	Workers int     `yaml:"workers"` // 0 = auto
	Scale   float64 `yaml:"scale"`   // Device scale factor (0 = 2)
}

// TimeoutDuration parses Export.Timeout. An empty value means the default.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	s := c.Export.Timeout
	if s == "" {
		s = DefaultTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: export.timeout: invalid duration %q", ErrInvalidValue, c.Export.Timeout)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: export.timeout must be positive, got %s", ErrFieldRange, d)
	}
	return d, nil
}

// Validate checks field lengths and ranges. Zero numeric values mean
// "use the default" and are always accepted.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if c.Layout.Name != "" {
		if err := assets.ValidateAssetName(c.Layout.Name); err != nil {
			return fmt.Errorf("layout.name: %w", err)
		}
	}
	if err := validateRange("layout.widthPx", c.Layout.WidthPx, MinWidthPx, MaxWidthPx); err != nil {
		return err
	}

	if err := validateRange("avatar.viewport", c.Avatar.Viewport, MinViewport, MaxViewport); err != nil {
		return err
	}
	if err := validateRange("avatar.maxEdge", c.Avatar.MaxEdge, MinMaxEdge, MaxMaxEdge); err != nil {
		return err
	}
	if err := validateRange("avatar.quality", c.Avatar.Quality, 1, 100); err != nil {
		return err
	}

	if err := validateFieldLength("export.backend", c.Export.Backend, MaxBackendLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Export.Backend) {
	case "", "rod", "chromedp":
		// valid
	default:
		return fmt.Errorf("%w: export.backend %q (must be rod or chromedp)", ErrInvalidValue, c.Export.Backend)
	}
	if err := validateFieldLength("export.timeout", c.Export.Timeout, MaxTimeoutLength); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.Export.Workers < 0 || c.Export.Workers > MaxWorkers {
		return fmt.Errorf("%w: export.workers must be between 0 and %d, got %d", ErrFieldRange, MaxWorkers, c.Export.Workers)
	}
	if c.Export.Scale != 0 && (c.Export.Scale < MinScale || c.Export.Scale > MaxScale) {
		return fmt.Errorf("%w: export.scale must be between %.1f and %.1f, got %.2f", ErrFieldRange, MinScale, float64(MaxScale), c.Export.Scale)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateRange accepts 0 (default) or a value within [lo, hi].
func validateRange(fieldName string, value, lo, hi int) error {
	if value == 0 {
		return nil
	}
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrFieldRange, fieldName, lo, hi, value)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{Name: DefaultLayout},
		Avatar: AvatarConfig{Viewport: DefaultViewport, MaxEdge: DefaultMaxEdge, Quality: DefaultQuality},
		Export: ExportConfig{Backend: DefaultBackend, Timeout: DefaultTimeout, Scale: DefaultScale},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-cvforge/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-cvforge", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
