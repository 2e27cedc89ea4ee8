package selection

import (
	"sort"

	"github.com/hayeah/treetxt/internal/set"
)

// Set is the set of file paths the user has marked for export. Only files are
// ever members; marking a directory is expressed by the caller as a group
// toggle over the files it contains.
type Set struct {
	paths *set.Set[string]
}

// New creates an empty selection set.
func New() *Set {
	return &Set{paths: set.NewSet[string]()}
}

// ToggleFile inserts path if absent, removes it if present.
func (s *Set) ToggleFile(path string) {
	if s.paths.Contains(path) {
		s.paths.Remove(path)
	} else {
		s.paths.Add(path)
	}
}

// ToggleGroup toggles a group of file paths as a unit. If every path in the
// group is already selected, the whole group is deselected; otherwise the
// whole group is selected. This makes a repeated directory toggle symmetric
// rather than additive-only.
func (s *Set) ToggleGroup(paths []string) {
	if len(paths) == 0 {
		return
	}

	allSelected := true
	for _, p := range paths {
		if !s.paths.Contains(p) {
			allSelected = false
			break
		}
	}

	if allSelected {
		for _, p := range paths {
			s.paths.Remove(p)
		}
	} else {
		s.paths.AddValues(paths)
	}
}

// AddAll inserts every path in paths.
func (s *Set) AddAll(paths []string) {
	s.paths.AddValues(paths)
}

// Replace discards the current selection and selects exactly paths.
func (s *Set) Replace(paths []string) {
	s.paths.Clear()
	s.paths.AddValues(paths)
}

// Clear empties the set.
func (s *Set) Clear() {
	s.paths.Clear()
}

// Contains reports whether path is selected.
func (s *Set) Contains(path string) bool {
	return s.paths.Contains(path)
}

// Len returns the number of selected files.
func (s *Set) Len() int {
	return s.paths.Len()
}

// Paths returns the selected file paths sorted lexicographically.
func (s *Set) Paths() []string {
	paths := s.paths.Values()
	sort.Strings(paths)
	return paths
}
