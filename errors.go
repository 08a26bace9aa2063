package doxyprep

import "errors"

// Sentinel errors for library operations.
var (
	// Diagram errors.
	ErrParseDiagram  = errors.New("failed to parse diagram")
	ErrNoDiagramRoot = errors.New("diagram has no svg root element")
	ErrReadDiagram   = errors.New("failed to read diagram")
	ErrWriteDiagram  = errors.New("failed to write diagram")

	// Index errors.
	ErrParseIndex         = errors.New("failed to parse index document")
	ErrReadIndex          = errors.New("failed to read index document")
	ErrEmptyIndexPath     = errors.New("index document path cannot be empty")
	ErrInvalidIndexFormat = errors.New("invalid index format")

	// Annotation stripper errors.
	ErrReadSource  = errors.New("failed to read source")
	ErrWriteOutput = errors.New("failed to write output")
	ErrEmptyMarker = errors.New("annotation marker cannot be empty")
)
