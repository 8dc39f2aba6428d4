package main

import (
	"io"
	"os"
	"time"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/config"
)

// Pool abstracts the exporter pool for testability.
type Pool interface {
	Acquire() (*cvforge.Exporter, error)
	Release(*cvforge.Exporter)
	Size() int
	Close() error
}

// Compile-time interface implementation check.
var _ Pool = (*cvforge.ExporterPool)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // Replaced by the loaded file, if any

	// NewPool builds the exporter pool for a batch.
	NewPool func(size int, opts ...cvforge.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
		NewPool: func(size int, opts ...cvforge.Option) Pool {
			return cvforge.NewExporterPool(size, opts...)
		},
	}
}
