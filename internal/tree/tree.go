package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hayeah/treetxt/ignore"
	"github.com/hayeah/treetxt/internal/set"
)

// ErrRootMissing indicates that the base directory disappeared, for example
// because another process deleted it mid-session.
var ErrRootMissing = errors.New("base directory no longer exists")

// Node is one visible row of the tree. Nodes are never mutated in place; the
// whole list is a pure projection of (filesystem, expanded set, selection set,
// show-hidden flag) and is rebuilt on every refresh.
type Node struct {
	Path     string // absolute path
	Name     string // base name component
	IsDir    bool
	Depth    int  // 0 for direct children of the root
	Expanded bool // directories only
	Selected bool // files only
}

// Membership reports whether a path belongs to a set. Both the expanded set
// and the selection set satisfy it.
type Membership interface {
	Contains(path string) bool
}

// Tree materializes directory listings rooted at Root. It holds no state
// across refreshes; every Materialize call is a fresh, authoritative read of
// the filesystem.
type Tree struct {
	Root   string
	Rules  *ignore.Rules
	Logger *slog.Logger
}

// New creates a Tree for the given root directory.
func New(root string, rules *ignore.Rules, logger *slog.Logger) *Tree {
	return &Tree{
		Root:   root,
		Rules:  rules,
		Logger: logger,
	}
}

// Materialize walks the tree depth-first in pre-order and returns the flat,
// ordered row list: each directory's entries are sorted directories-first and
// then bytewise by name, and expanded directories are recursed into
// immediately so child rows land directly beneath their parent. There is no
// separate flatten pass.
//
// A missing root fails with ErrRootMissing and an unreadable root fails the
// whole call. An unreadable nested directory is logged and skipped so the
// rest of the traversal still produces rows.
func (t *Tree) Materialize(expanded, selected Membership, showHidden bool) ([]Node, error) {
	if _, err := os.Stat(t.Root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootMissing, t.Root)
		}
		return nil, fmt.Errorf("cannot access base directory: %w", err)
	}

	visited := set.NewSet[string]()
	t.markVisited(visited, t.Root)

	var nodes []Node
	if err := t.appendRows(&nodes, t.Root, 0, expanded, selected, showHidden, visited); err != nil {
		return nil, err
	}
	return nodes, nil
}

// FilesUnder returns every file reachable under dir, regardless of which
// directories are currently expanded. The hidden-file and gitignore filters
// are the same ones Materialize applies, so a directory toggle selects
// exactly the files the user could reach by expanding it.
func (t *Tree) FilesUnder(dir string, showHidden bool) []string {
	visited := set.NewSet[string]()
	t.markVisited(visited, dir)

	var files []string
	t.collectFiles(&files, dir, showHidden, visited)
	return files
}

type dirEntry struct {
	name  string
	path  string
	isDir bool
}

// listEntries reads dir and applies the hidden-file and gitignore filters,
// returning entries sorted directories-first, then bytewise by name. This
// ordering must be stable across refreshes so the cursor does not appear to
// jump when nothing the user did should move it.
func (t *Tree) listEntries(dir string, showHidden bool) ([]dirEntry, error) {
	raw, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []dirEntry
	for _, e := range raw {
		name := e.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)
		isDir := e.IsDir()
		if !isDir && e.Type()&os.ModeSymlink != 0 {
			// Follow one level, so a symlink to a directory browses as one.
			if fi, err := os.Stat(path); err == nil {
				isDir = fi.IsDir()
			}
		}

		excluded, err := t.Rules.Excluded(path, isDir)
		if err != nil {
			t.Logger.Warn("cannot apply ignore rules, keeping entry", "path", path, "error", err)
		} else if excluded {
			continue
		}

		entries = append(entries, dirEntry{name: name, path: path, isDir: isDir})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return entries[i].name < entries[j].name
	})

	return entries, nil
}

func (t *Tree) appendRows(nodes *[]Node, dir string, depth int, expanded, selected Membership, showHidden bool, visited *set.Set[string]) error {
	entries, err := t.listEntries(dir, showHidden)
	if err != nil {
		if depth == 0 {
			return fmt.Errorf("cannot read directory %s: %w", dir, err)
		}
		t.Logger.Warn("skipping unreadable directory", "path", dir, "error", err)
		return nil
	}

	for _, e := range entries {
		node := Node{
			Path:  e.path,
			Name:  e.name,
			IsDir: e.isDir,
			Depth: depth,
		}
		if e.isDir {
			node.Expanded = expanded.Contains(e.path)
		} else {
			node.Selected = selected.Contains(e.path)
		}
		*nodes = append(*nodes, node)

		if node.Expanded {
			if !t.enterDir(visited, e.path) {
				continue
			}
			if err := t.appendRows(nodes, e.path, depth+1, expanded, selected, showHidden, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tree) collectFiles(files *[]string, dir string, showHidden bool, visited *set.Set[string]) {
	entries, err := t.listEntries(dir, showHidden)
	if err != nil {
		t.Logger.Warn("skipping unreadable directory", "path", dir, "error", err)
		return
	}

	for _, e := range entries {
		if e.isDir {
			if t.enterDir(visited, e.path) {
				t.collectFiles(files, e.path, showHidden, visited)
			}
			continue
		}
		*files = append(*files, e.path)
	}
}

// enterDir records dir in the visited set, keyed by its symlink-resolved
// path, and reports whether the traversal should descend into it. A
// directory seen twice means a symlink loop; it is skipped instead of
// recursing forever.
func (t *Tree) enterDir(visited *set.Set[string], dir string) bool {
	canonical := t.canonical(dir)
	if visited.Contains(canonical) {
		t.Logger.Warn("symlink cycle detected, skipping", "path", dir)
		return false
	}
	visited.Add(canonical)
	return true
}

func (t *Tree) markVisited(visited *set.Set[string], dir string) {
	visited.Add(t.canonical(dir))
}

func (t *Tree) canonical(dir string) string {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved
	}
	return dir
}
