package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/assets"
)

// runLayouts prints the available layouts, one per line. The configured
// default is marked with "*".
func runLayouts(args []string, env *Environment) error {
	var common commonFlags
	var assetPath string

	fs := newFlagSet("layouts", env.Stderr)
	addCommonFlags(fs, &common)
	fs.StringVar(&assetPath, "asset-path", "", "directory holding custom layouts and styles")
	fs.Usage = func() {
		fmt.Fprintln(env.Stderr, "Usage: cvforge layouts [flags]")
		fmt.Fprintln(env.Stderr)
		fmt.Fprintln(env.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := parseFlags(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := resolveConfig(common.config, env, env.Stderr)
	if err != nil {
		return err
	}
	if assetPath == "" {
		assetPath = cfg.Assets.BasePath
	}

	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return fmt.Errorf("%w: %w", cvforge.ErrInvalidAssetPath, err)
	}
	names, err := resolver.ListLayouts()
	if err != nil {
		return err
	}

	for _, name := range names {
		marker := " "
		if name == cfg.Layout.Name {
			marker = "*"
		}
		fmt.Fprintf(env.Stdout, "%s %s\n", marker, name)
	}
	return nil
}
