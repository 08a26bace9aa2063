package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	doxyprep "github.com/alnah/go-doxyprep"
	"github.com/alnah/go-doxyprep/internal/fileutil"
)

// FileToRewrite represents a single diagram to process.
type FileToRewrite struct {
	InputPath  string
	OutputPath string
}

// RewriteResult holds the outcome of a single rewrite.
type RewriteResult struct {
	InputPath  string
	OutputPath string
	Stats      doxyprep.Stats
	Err        error
	Duration   time.Duration
}

// runBatch rewrites every diagram below the input directory.
func runBatch(ctx context.Context, rw *doxyprep.Rewriter, params *runParams, workers int, flags *cliFlags, deps *Dependencies) error {
	files, err := discoverDiagrams(params.inputPath, params.outputPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if flags.verbose {
			fmt.Fprintf(deps.Stderr, "No SVG files found in %s\n", params.inputPath)
		}
		return nil
	}

	if flags.verbose {
		fmt.Fprintf(deps.Stderr, "Rewriting %d diagrams with %d workers\n", len(files), workers)
	}

	results := rewriteBatch(ctx, rw, files, workers, deps.Now)

	var total doxyprep.Stats
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		total.Add(r.Stats)
		if flags.verbose {
			printResult(deps, r)
		}
	}

	if flags.verbose {
		fmt.Fprintf(deps.Stderr, "Done: %d rewritten, %d failed, %d links added\n",
			len(results)-len(errs), len(errs), total.LinksAdded)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d diagrams failed:\n%w", len(errs), len(results), errors.Join(errs...))
	}
	return nil
}

// discoverDiagrams pairs every SVG below inputDir with its path under
// outputDir, mirroring the directory structure.
func discoverDiagrams(inputDir, outputDir string) ([]FileToRewrite, error) {
	if fileutil.FileExists(outputDir) {
		return nil, fmt.Errorf("%w: %s is a file", ErrBatchOutput, outputDir)
	}

	paths, err := fileutil.FindFiles(inputDir, "svg")
	if err != nil {
		return nil, fmt.Errorf("discovering diagrams: %w", err)
	}

	files := make([]FileToRewrite, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(inputDir, p)
		if err != nil {
			return nil, fmt.Errorf("discovering diagrams: %w", err)
		}
		files = append(files, FileToRewrite{
			InputPath:  p,
			OutputPath: filepath.Join(outputDir, rel),
		})
	}
	return files, nil
}

// rewriteBatch processes files concurrently with a bounded worker pool.
// The Rewriter and its link table are shared read-only by all workers.
// Results are returned in input order.
func rewriteBatch(ctx context.Context, rw *doxyprep.Rewriter, files []FileToRewrite, workers int, now func() time.Time) []RewriteResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]RewriteResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RewriteResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%s: %w", files[idx].InputPath, ctx.Err()),
					}
					continue
				}
				results[idx] = rewriteFile(rw, files[idx], now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// rewriteFile processes a single diagram and returns the result.
func rewriteFile(rw *doxyprep.Rewriter, f FileToRewrite, now func() time.Time) RewriteResult {
	start := now()
	stats, err := rw.RewriteFile(f.InputPath, f.OutputPath)
	return RewriteResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
		Stats:      stats,
		Err:        err,
		Duration:   now().Sub(start),
	}
}

// printResult prints per-file statistics.
func printResult(deps *Dependencies, r RewriteResult) {
	fmt.Fprintf(deps.Stderr, "%s -> %s (%d defs, %d fonts, %d spans, %d links) in %v\n",
		r.InputPath, r.OutputPath,
		r.Stats.DefsRemoved, r.Stats.FontsFixed, r.Stats.SpansCollapsed, r.Stats.LinksAdded,
		r.Duration.Round(time.Millisecond))
}
