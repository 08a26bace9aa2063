package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	doxyprep "github.com/alnah/go-doxyprep"
	"github.com/alnah/go-doxyprep/internal/config"
	"github.com/alnah/go-doxyprep/internal/hints"
)

// Exit codes for doxyfilter.
const (
	ExitSuccess = 0 // Source filtered, or no input given
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or config
	ExitIO      = 3 // Source unreadable, output unwritable
)

// noInputMessage is printed to stdout when no source path is given.
const noInputMessage = "No input file"

// cliFlags holds the doxyfilter flags.
type cliFlags struct {
	config  string
	help    bool
	version bool
}

// parseFlags parses command-line flags and returns the positional args.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("doxyfilter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")
	fs.BoolVar(&f.version, "version", false, "show version")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doxyfilter [flags] <input>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Strip AL_INTROSPECT and __AL_ALIGNED__ annotations and print the result.")
	fmt.Fprintln(w, "Use as a doxygen INPUT_FILTER.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "  -h, --help            Show this help")
	fmt.Fprintln(w, "      --version         Show version information")
}

// runMain runs the filter and returns the process exit code.
func runMain(args []string, deps *Dependencies) int {
	flags, positional, err := parseFlags(args, deps.Stderr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "%v\nRun 'doxyfilter --help' for usage.\n", err)
		return ExitUsage
	}

	if flags.help {
		printUsage(deps.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(deps.Stdout, "doxyfilter %s\n", Version)
		return ExitSuccess
	}

	if len(positional) == 0 {
		fmt.Fprintln(deps.Stdout, noInputMessage)
		return ExitSuccess
	}

	if err := run(positional[0], flags, deps); err != nil {
		msg := err.Error()
		if errors.Is(err, config.ErrConfigNotFound) {
			msg += hints.ForConfigNotFound(config.SearchPaths(flags.config))
		}
		fmt.Fprintln(deps.Stderr, msg)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run streams the filtered source to stdout.
func run(path string, flags *cliFlags, deps *Dependencies) error {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	stripper, err := doxyprep.NewStripper(
		doxyprep.WithIntrospectMarker(cfg.Filter.IntrospectMarker),
		doxyprep.WithAlignedMarker(cfg.Filter.AlignedMarker),
	)
	if err != nil {
		return err
	}

	src, err := deps.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", doxyprep.ErrReadSource, err)
	}
	defer func() { _ = src.Close() }()

	if err := stripper.Strip(src, deps.Stdout); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// exitCodeFor returns the appropriate exit code for an error.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, doxyprep.ErrReadSource) ||
		errors.Is(err, doxyprep.ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, doxyprep.ErrEmptyMarker) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}
