package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/automaxprocs/maxprocs"

	doxyprep "github.com/alnah/go-doxyprep"
	"github.com/alnah/go-doxyprep/internal/config"
	"github.com/alnah/go-doxyprep/internal/fileutil"
	"github.com/alnah/go-doxyprep/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid arguments")
	ErrBatchOutput        = errors.New("directory input requires a directory output")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// maxWorkers bounds the batch worker pool.
const maxWorkers = 64

// runParams holds the resolved positional arguments.
type runParams struct {
	inputPath  string
	outputPath string
	indexPath  *string // nil skips link resolution
}

// runMain runs the command and returns the process exit code.
func runMain(ctx context.Context, args []string, deps *Dependencies) int {
	flags, positional, err := parseFlags(args, deps.Stderr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "%v\nRun 'svgcleanlink --help' for usage.\n", err)
		return ExitUsage
	}

	if flags.help {
		printUsage(deps.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(deps.Stdout, "svgcleanlink %s\n", Version)
		return ExitSuccess
	}

	if err := run(ctx, positional, flags, deps); err != nil {
		fmt.Fprintln(deps.Stderr, err.Error()+hintFor(err, flags))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run resolves configuration, builds the link table once and rewrites one
// diagram or a directory of diagrams.
func run(ctx context.Context, positional []string, flags *cliFlags, deps *Dependencies) error {
	params, err := parseArgs(positional)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	format, err := doxyprep.ParseIndexFormat(cfg.Diagram.IndexFormat)
	if err != nil {
		return err
	}

	var links *doxyprep.LinkTable
	if params.indexPath != nil {
		links, err = doxyprep.LoadLinkTable(*params.indexPath,
			doxyprep.WithLinkPrefix(cfg.Diagram.LinkPrefix),
			doxyprep.WithIndexFormat(format),
		)
		if err != nil {
			return err
		}
		if flags.verbose {
			fmt.Fprintf(deps.Stderr, "Loaded %d links from %s\n", links.Len(), *params.indexPath)
		}
	}

	rw := doxyprep.NewRewriter(
		doxyprep.WithLinkTable(links),
		doxyprep.WithFontMarker(cfg.Diagram.FontMarker),
		doxyprep.WithLinkTarget(cfg.Diagram.LinkTarget),
	)

	if fileutil.IsDir(params.inputPath) {
		workers, err := resolveWorkers(flags, cfg, deps)
		if err != nil {
			return err
		}
		return runBatch(ctx, rw, params, workers, flags, deps)
	}

	result := rewriteFile(rw, FileToRewrite{InputPath: params.inputPath, OutputPath: params.outputPath}, deps.Now)
	if result.Err != nil {
		return result.Err
	}
	if flags.verbose {
		printResult(deps, result)
	}
	return nil
}

// parseArgs maps the positional arguments. An empty or missing index
// argument leaves indexPath nil.
func parseArgs(positional []string) (*runParams, error) {
	if len(positional) < 2 || len(positional) > 3 {
		return nil, fmt.Errorf("%w: expected <input> <output> [index], got %d arguments", ErrUsage, len(positional))
	}

	params := &runParams{inputPath: positional[0], outputPath: positional[1]}
	if len(positional) == 3 && positional[2] != "" {
		index := positional[2]
		params.indexPath = &index
	}
	return params, nil
}

// loadConfig loads the config file if one was given and merges CLI flags
// into it (CLI wins).
func loadConfig(flags *cliFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flags.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags overrides config values with explicitly set flags.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.indexFormat != "" {
		cfg.Diagram.IndexFormat = flags.indexFormat
	}
	if flags.linkPrefix != "" {
		cfg.Diagram.LinkPrefix = flags.linkPrefix
	}
	if flags.fontMarker != "" {
		cfg.Diagram.FontMarker = flags.fontMarker
	}
	if flags.target != "" {
		cfg.Diagram.LinkTarget = flags.target
	}
	if flags.workers != 0 {
		cfg.Diagram.Workers = flags.workers
	}
}

// resolveWorkers returns the batch pool size. Zero means one worker per
// available CPU, as reported after adjusting GOMAXPROCS to the container quota.
func resolveWorkers(flags *cliFlags, cfg *config.Config, deps *Dependencies) (int, error) {
	n := cfg.Diagram.Workers
	if n < 0 || n > maxWorkers {
		return 0, fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	if n > 0 {
		return n, nil
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		if flags.verbose {
			fmt.Fprintf(deps.Stderr, format+"\n", args...)
		}
	}))
	return runtime.GOMAXPROCS(0), nil
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, flags *cliFlags) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(flags.config))
	case errors.Is(err, doxyprep.ErrParseIndex):
		return hints.ForMalformedIndex(flags.indexFormat)
	case errors.Is(err, doxyprep.ErrParseDiagram), errors.Is(err, doxyprep.ErrNoDiagramRoot):
		return hints.ForMalformedDiagram()
	case errors.Is(err, doxyprep.ErrWriteDiagram):
		return hints.ForOutputDirectory()
	case errors.Is(err, ErrBatchOutput):
		return hints.ForBatchOutput()
	}
	return ""
}
