package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hayeah/treetxt/internal/export"
	"github.com/hayeah/treetxt/internal/selector"
	"github.com/hayeah/treetxt/internal/state"
	"github.com/hayeah/treetxt/internal/tree"
)

// PickCmd defines the command-line arguments for the pick subcommand
type PickCmd struct {
	Output         string `arg:"-o,--output" help:"output file (default: codebase.txt)"`
	LineNumbers    bool   `arg:"-l,--line-numbers" help:"include line numbers in file contents"`
	NoTree         bool   `arg:"--no-tree" help:"skip directory tree generation"`
	NoContent      bool   `arg:"--no-content" help:"only show the file list, not contents"`
	Hidden         bool   `arg:"--hidden" help:"start with hidden files shown"`
	NoGitignore    bool   `arg:"--no-gitignore" help:"do not apply gitignore rules"`
	NoState        bool   `arg:"--no-state" help:"do not load or save the per-project selection"`
	TokenEstimator string `arg:"--token-estimator" help:"token counter: simple or tiktoken"`
	Root           string `arg:"positional" help:"directory to browse (default: current directory)"`
}

// PickRunner encapsulates the state and behavior for the pick subcommand
type PickRunner struct {
	Args     PickCmd
	RootPath string
	Logger   *slog.Logger
}

// NewPickRunner creates and initializes a new PickRunner
func NewPickRunner(cmd PickCmd, logger *slog.Logger) (*PickRunner, error) {
	root, err := resolveRoot(cmd.Root)
	if err != nil {
		return nil, err
	}
	return &PickRunner{
		Args:     cmd,
		RootPath: root,
		Logger:   logger,
	}, nil
}

// Run executes the pick subcommand: interactive selection, state persistence,
// then artifact generation.
func (r *PickRunner) Run() error {
	rules, err := newRules(r.RootPath, r.Args.NoGitignore)
	if err != nil {
		return err
	}

	t := tree.New(r.RootPath, rules, r.Logger)

	ctl, err := selector.NewController(t)
	if err != nil {
		return err
	}
	if r.Args.Hidden {
		if err := ctl.ToggleHidden(); err != nil {
			return err
		}
	}

	store := r.openStore()
	if store != nil {
		defer store.Close()
	}

	projectKey := state.ProjectKey(r.RootPath)
	if store != nil {
		r.seedPriorSelection(ctl, store, projectKey)
	}

	files, outcome, err := selector.Run(ctl)
	if err != nil {
		return fmt.Errorf("file selection failed: %w", err)
	}

	if outcome != selector.OutcomeConfirmed {
		fmt.Fprintln(os.Stderr, "Selection cancelled, nothing exported.")
		return nil
	}

	if len(files) == 0 {
		return fmt.Errorf("no files were selected for export")
	}

	if store != nil {
		if err := store.Save(projectKey, files); err != nil {
			r.Logger.Warn("failed to save selection for next time", "error", err)
		}
	}

	opts := export.DefaultOptions()
	opts.IncludeTree = !r.Args.NoTree
	opts.IncludeContents = !r.Args.NoContent
	opts.LineNumbers = r.Args.LineNumbers

	output := r.Args.Output
	if output == "" {
		output = "codebase.txt"
	}

	return generateArtifact(r.RootPath, files, opts, output, r.Args.TokenEstimator, r.Logger)
}

// openStore opens the per-project selection store. Any failure here is
// non-fatal; selection memory is a convenience, not a requirement.
func (r *PickRunner) openStore() *state.Store {
	if r.Args.NoState {
		return nil
	}

	path, err := state.DefaultPath()
	if err != nil {
		r.Logger.Warn("selection state disabled", "error", err)
		return nil
	}

	store, err := state.Open(path, r.Logger)
	if err != nil {
		r.Logger.Warn("selection state disabled", "error", err)
		return nil
	}
	return store
}

// seedPriorSelection restores the last saved selection, dropping paths that
// no longer exist on disk.
func (r *PickRunner) seedPriorSelection(ctl *selector.Controller, store *state.Store, projectKey string) {
	prior, err := store.Load(projectKey)
	if err != nil {
		r.Logger.Warn("failed to load prior selection", "error", err)
		return
	}

	var live []string
	for _, p := range prior {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			live = append(live, p)
		}
	}

	if len(live) == 0 {
		return
	}
	if err := ctl.Seed(live); err != nil {
		r.Logger.Warn("failed to restore prior selection", "error", err)
	}
}
