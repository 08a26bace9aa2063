package main

import (
	"io"
	"os"
)

// Dependencies holds injectable dependencies for testability.
type Dependencies struct {
	Stdout io.Writer
	Stderr io.Writer
	Open   func(name string) (io.ReadCloser, error)
}

// DefaultDeps returns production dependencies.
func DefaultDeps() *Dependencies {
	return &Dependencies{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Open: func(name string) (io.ReadCloser, error) {
			return os.Open(name) // #nosec G304 -- source path is user-provided
		},
	}
}
