package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/hayeah/treetxt/internal/tree"
)

// LsCmd defines the command-line arguments for the ls subcommand
type LsCmd struct {
	Hidden      bool   `arg:"--hidden" help:"include hidden files"`
	NoGitignore bool   `arg:"--no-gitignore" help:"do not apply gitignore rules"`
	Root        string `arg:"positional" help:"directory to list (default: current directory)"`
}

// LsRunner encapsulates the state and behavior for the ls subcommand
type LsRunner struct {
	Args     LsCmd
	RootPath string
	Logger   *slog.Logger
}

// NewLsRunner creates and initializes a new LsRunner
func NewLsRunner(cmd LsCmd, logger *slog.Logger) (*LsRunner, error) {
	root, err := resolveRoot(cmd.Root)
	if err != nil {
		return nil, err
	}
	return &LsRunner{
		Args:     cmd,
		RootPath: root,
		Logger:   logger,
	}, nil
}

// Run executes the ls subcommand, printing every exportable file relative to
// the root.
func (r *LsRunner) Run() error {
	rules, err := newRules(r.RootPath, r.Args.NoGitignore)
	if err != nil {
		return err
	}

	t := tree.New(r.RootPath, rules, r.Logger)
	files := t.FilesUnder(r.RootPath, r.Args.Hidden)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(r.RootPath, f)
		if err != nil {
			rel = f
		}
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
