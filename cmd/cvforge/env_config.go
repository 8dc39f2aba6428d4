package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-cvforge/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // CVFORGE_CONFIG: config file path
	Layout     string        // CVFORGE_LAYOUT: layout name
	Timeout    time.Duration // CVFORGE_TIMEOUT: per-export timeout
	OutputDir  string        // CVFORGE_OUTPUT_DIR: default output directory
	AssetPath  string        // CVFORGE_ASSET_PATH: custom layouts directory
	Backend    string        // CVFORGE_BACKEND: rod or chromedp
	Workers    int           // CVFORGE_WORKERS: parallel workers
}

// knownEnvVars lists valid CVFORGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CVFORGE_CONFIG":     true,
	"CVFORGE_LAYOUT":     true,
	"CVFORGE_TIMEOUT":    true,
	"CVFORGE_OUTPUT_DIR": true,
	"CVFORGE_ASSET_PATH": true,
	"CVFORGE_BACKEND":    true,
	"CVFORGE_WORKERS":    true,
	"CVFORGE_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("CVFORGE_CONFIG"),
		Layout:     os.Getenv("CVFORGE_LAYOUT"),
		OutputDir:  os.Getenv("CVFORGE_OUTPUT_DIR"),
		AssetPath:  os.Getenv("CVFORGE_ASSET_PATH"),
		Backend:    strings.ToLower(os.Getenv("CVFORGE_BACKEND")),
	}

	if timeout := os.Getenv("CVFORGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("CVFORGE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CVFORGE_* variables.
// Helps catch typos like CVFORGE_LAYOUTS instead of CVFORGE_LAYOUT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "CVFORGE_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Layout != "" {
		cfg.Layout.Name = env.Layout
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Backend != "" {
		cfg.Export.Backend = env.Backend
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Export.Workers = env.Workers
	}
}

// resolveConfig loads the config named by the flag (or CVFORGE_CONFIG),
// falling back to env.Config, then layers the environment on top.
// The result is a copy; env.Config is never modified.
func resolveConfig(flagPath string, env *Environment, stderr io.Writer) (*config.Config, error) {
	ec := loadEnvConfig()
	warnUnknownEnvVars(stderr)

	path := flagPath
	if path == "" {
		path = ec.ConfigPath
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		base := config.DefaultConfig()
		if env.Config != nil {
			copied := *env.Config
			base = &copied
		}
		cfg = base
	}

	applyEnvConfig(ec, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
