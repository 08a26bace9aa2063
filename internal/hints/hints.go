// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config with a path, or creating a config in ~/.config/go-doxyprep/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-doxyprep") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMalformedDiagram returns hints for diagram parse errors.
func ForMalformedDiagram() string {
	return format("input must be an SVG file as written by dot (check DOT_IMAGE_FORMAT=svg)")
}

// ForMalformedIndex returns hints for index document parse errors.
// Suggests the lenient parser when the strict one failed.
func ForMalformedIndex(indexFormat string) string {
	if strings.EqualFold(indexFormat, "html") {
		return ""
	}
	return format("index is not well-formed XHTML; try --index-format html")
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForBatchOutput returns hints when a directory input is paired with a file output.
func ForBatchOutput() string {
	return format("a directory input needs a directory output (use the same path to rewrite in place)")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
