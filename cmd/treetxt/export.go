package main

import (
	"log/slog"

	"github.com/hayeah/treetxt/internal/export"
)

// ExportCmd defines the command-line arguments for the export subcommand
type ExportCmd struct {
	Profile        string `arg:"-c,--profile,required" help:"TOML export profile"`
	Output         string `arg:"-o,--output" help:"output file (default: codebase.txt)"`
	TokenEstimator string `arg:"--token-estimator" help:"token counter: simple or tiktoken"`
	Root           string `arg:"positional" help:"base directory (default: current directory)"`
}

// ExportRunner encapsulates the state and behavior for the export subcommand
type ExportRunner struct {
	Args     ExportCmd
	RootPath string
	Logger   *slog.Logger
}

// NewExportRunner creates and initializes a new ExportRunner
func NewExportRunner(cmd ExportCmd, logger *slog.Logger) (*ExportRunner, error) {
	root, err := resolveRoot(cmd.Root)
	if err != nil {
		return nil, err
	}
	return &ExportRunner{
		Args:     cmd,
		RootPath: root,
		Logger:   logger,
	}, nil
}

// Run executes the export subcommand: batch generation from a TOML profile.
func (r *ExportRunner) Run() error {
	files, opts, err := export.LoadProfile(r.Args.Profile, r.RootPath, r.Logger)
	if err != nil {
		return err
	}

	output := r.Args.Output
	if output == "" {
		output = "codebase.txt"
	}

	return generateArtifact(r.RootPath, files, opts, output, r.Args.TokenEstimator, r.Logger)
}
