package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds the svgcleanlink flags.
type cliFlags struct {
	config      string
	workers     int
	indexFormat string
	linkPrefix  string
	fontMarker  string
	target      string
	quiet       bool
	verbose     bool
	help        bool
	version     bool
}

// parseFlags parses command-line flags and returns the positional args.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("svgcleanlink", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for directory input (0 = auto)")
	fs.StringVar(&f.indexFormat, "index-format", "", "index document format: xhtml, html")
	fs.StringVar(&f.linkPrefix, "link-prefix", "", "prefix of linked function names")
	fs.StringVar(&f.fontMarker, "font-marker", "", "substring removed from font-family")
	fs.StringVar(&f.target, "target", "", "hyperlink target browsing context")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file statistics")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.BoolVar(&f.version, "version", false, "show version")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	// Quiet wins over verbose
	if f.quiet {
		f.verbose = false
	}

	return f, fs.Args(), nil
}
