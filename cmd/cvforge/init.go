package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	cvforge "github.com/alnah/go-cvforge"
)

// defaultInitPath is where init writes the sample resume.
const defaultInitPath = "resume.yaml"

// ErrFileExists is returned when init would overwrite a file without --force.
var ErrFileExists = errors.New("file already exists")

// runInit writes a sample resume to start editing from.
func runInit(args []string, env *Environment) error {
	f, positional, err := parseInitFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: init takes no arguments (use --output)", ErrUsage)
	}
	if !looksLikeResume(f.output) {
		return fmt.Errorf("%w: %s", ErrInvalidExtension, f.output)
	}

	if _, err := os.Stat(f.output); err == nil && !f.force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, f.output)
	}

	if err := cvforge.SaveDocument(f.output, cvforge.SampleDocument()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", f.output)
	return nil
}
