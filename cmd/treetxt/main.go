package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Pick   *PickCmd   `arg:"subcommand:pick" help:"Interactively select files and generate the export"`
	Export *ExportCmd `arg:"subcommand:export" help:"Generate the export from a TOML profile"`
	Ls     *LsCmd     `arg:"subcommand:ls" help:"List the exportable files under a directory"`
}

// Runner encapsulates the state and behavior for the CLI
type Runner struct {
	Args   Args
	Logger *slog.Logger
}

// NewRunner creates and initializes a new Runner
func NewRunner(args Args, logger *slog.Logger) *Runner {
	return &Runner{
		Args:   args,
		Logger: logger,
	}
}

// Run dispatches to the appropriate subcommand
func (r *Runner) Run() error {
	switch {
	case r.Args.Pick != nil:
		pickRunner, err := NewPickRunner(*r.Args.Pick, r.Logger)
		if err != nil {
			return err
		}
		return pickRunner.Run()
	case r.Args.Export != nil:
		exportRunner, err := NewExportRunner(*r.Args.Export, r.Logger)
		if err != nil {
			return err
		}
		return exportRunner.Run()
	case r.Args.Ls != nil:
		lsRunner, err := NewLsRunner(*r.Args.Ls, r.Logger)
		if err != nil {
			return err
		}
		return lsRunner.Run()
	default:
		return fmt.Errorf("no subcommand specified, use 'pick', 'export', or 'ls'")
	}
}

// main is our entrypoint: parse args and run the application
func main() {
	var args Args
	arg.MustParse(&args)

	// Running with no subcommand means interactive selection in the
	// current directory.
	if args.Pick == nil && args.Export == nil && args.Ls == nil {
		args.Pick = &PickCmd{}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	runner := NewRunner(args, logger)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
