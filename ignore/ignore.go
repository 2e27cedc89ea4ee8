package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Rules decides which paths are excluded from traversal, based on the
// .gitignore files found under a root directory. The .git directory itself is
// always excluded.
type Rules struct {
	matcher  gitignore.Matcher
	rootPath string
}

// NewRules reads the gitignore patterns under rootPath and returns the
// matching rules for it.
func NewRules(rootPath string) (*Rules, error) {
	fs := osfs.New(rootPath)
	patterns, err := gitignore.ReadPatterns(fs, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Rules{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: rootPath,
	}, nil
}

// None returns rules that exclude nothing except the .git directory.
func None(rootPath string) *Rules {
	return &Rules{rootPath: rootPath}
}

// Excluded reports whether the given absolute path should be skipped.
func (r *Rules) Excluded(path string, isDir bool) (bool, error) {
	if isDir && filepath.Base(path) == ".git" {
		return true, nil
	}

	if r.matcher == nil {
		return false, nil
	}

	relPath, err := filepath.Rel(r.rootPath, path)
	if err != nil {
		return false, err
	}

	// The root itself is never excluded.
	if relPath == "." {
		return false, nil
	}

	parts := strings.Split(relPath, string(os.PathSeparator))
	return r.matcher.Match(parts, isDir), nil
}
