package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: svgcleanlink [flags] <input> <output> [index]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Clean doxygen SVG diagrams and link function labels to their pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input     SVG file, or directory of SVG files")
	fmt.Fprintln(w, "  output    Output SVG file, or directory for directory input")
	fmt.Fprintln(w, "  index     Functions index page (empty or omitted = no links)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for directory input (0 = auto)")
	fmt.Fprintln(w, "      --index-format <s>    Index format: xhtml, html")
	fmt.Fprintln(w, "      --link-prefix <s>     Prefix of linked function names (default: AL_)")
	fmt.Fprintln(w, "      --font-marker <s>     Removed from font-family (default: \" embedded\")")
	fmt.Fprintln(w, "      --target <s>          Hyperlink target (default: _top)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file statistics")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w, "      --version             Show version information")
}
