package main

import (
	"errors"
	"os"

	doxyprep "github.com/alnah/go-doxyprep"
	"github.com/alnah/go-doxyprep/internal/config"
)

// Exit codes for svgcleanlink.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful rewrite
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, arguments, or config
	ExitIO        = 3 // File not found, permission denied
	ExitMalformed = 4 // Diagram or index document cannot be parsed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Malformed documents (exit 4)
	if errors.Is(err, doxyprep.ErrParseDiagram) ||
		errors.Is(err, doxyprep.ErrNoDiagramRoot) ||
		errors.Is(err, doxyprep.ErrParseIndex) {
		return ExitMalformed
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, doxyprep.ErrReadDiagram) ||
		errors.Is(err, doxyprep.ErrWriteDiagram) ||
		errors.Is(err, doxyprep.ErrReadIndex) {
		return ExitIO
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrBatchOutput) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, doxyprep.ErrInvalidIndexFormat) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}
