package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hayeah/treetxt/ignore"
	"github.com/hayeah/treetxt/internal/export"
	"github.com/hayeah/treetxt/internal/metrics"
)

// resolveRoot turns the positional root argument into an absolute directory
// path, defaulting to the current directory.
func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access %s: %w", abs, err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}

	return abs, nil
}

// newRules builds the traversal exclusion rules for root.
func newRules(root string, noGitignore bool) (*ignore.Rules, error) {
	if noGitignore {
		return ignore.None(root), nil
	}
	return ignore.NewRules(root)
}

// newCounter picks the token counter. Falls back to the simple estimator when
// tiktoken's model data is unavailable.
func newCounter(estimator string) metrics.Counter {
	switch estimator {
	case "tiktoken":
		c, err := metrics.NewTiktokenCounter("gpt-3.5-turbo")
		if err != nil {
			return &metrics.SimpleCounter{}
		}
		return c
	default:
		return &metrics.SimpleCounter{}
	}
}

// validateOutputPath checks the output location the way a user would expect:
// a missing parent directory is an error, an existing file only a warning.
func validateOutputPath(path string, logger *slog.Logger) error {
	parent := filepath.Dir(path)
	if parent != "" && parent != "." {
		fi, err := os.Stat(parent)
		if err != nil {
			return fmt.Errorf("output directory does not exist: %s", parent)
		}
		if !fi.IsDir() {
			return fmt.Errorf("output parent path is not a directory: %s", parent)
		}
	}

	if _, err := os.Stat(path); err == nil {
		logger.Warn("output file already exists and will be overwritten", "path", path)
	}
	return nil
}

// generateArtifact writes the export for files to outputPath and prints the
// token breakdown.
func generateArtifact(baseDir string, files []string, opts export.Options, outputPath, estimator string, logger *slog.Logger) error {
	if err := validateOutputPath(outputPath, logger); err != nil {
		return err
	}

	report := metrics.NewReport(newCounter(estimator), runtime.NumCPU())
	gen := export.NewGenerator(baseDir, report, logger)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer f.Close()

	if err := gen.Generate(f, files, opts); err != nil {
		return fmt.Errorf("failed to generate output file %s: %w", outputPath, err)
	}

	report.Wait()
	printTokenBreakdown(report, 0, '█')

	fmt.Printf("Generated %s (%d files)\n", outputPath, len(files))
	return nil
}
