package selector

import (
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/treetxt/internal/selection"
	"github.com/hayeah/treetxt/internal/set"
	"github.com/hayeah/treetxt/internal/tree"
)

// Outcome indicates how the selection session ended.
type Outcome int

const (
	OutcomeNone      Outcome = iota // still browsing
	OutcomeConfirmed                // user accepted the current selection
	OutcomeCancelled                // user aborted; selection is a best-effort partial result
)

// Controller is the selection state machine. It owns the cursor, the
// show-hidden flag, the expanded set and the selection set, and re-derives
// the visible row list after every command. It knows nothing about the
// terminal; the bubbletea model in ui.go translates key events into these
// commands.
type Controller struct {
	tree     *tree.Tree
	expanded *set.Set[string]
	selected *selection.Set

	rows    []tree.Node // full projection for the current expand state
	visible []tree.Node // rows narrowed by the search term; == rows when term is empty

	cursor     int
	showHidden bool
	searchTerm string
	outcome    Outcome
}

// NewController creates a Controller with only the root expanded and performs
// the initial refresh.
func NewController(t *tree.Tree) (*Controller, error) {
	c := &Controller{
		tree:     t,
		expanded: set.NewSet[string](),
		selected: selection.New(),
	}
	// The root is always expanded; it has no row of its own to collapse.
	c.expanded.Add(t.Root)

	if err := c.Refresh(); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh re-materializes the tree, re-applies the search filter, and clamps
// the cursor back into range. Every state mutation goes through here so the
// row list is always a fresh read of the filesystem.
func (c *Controller) Refresh() error {
	rows, err := c.tree.Materialize(c.expanded, c.selected, c.showHidden)
	if err != nil {
		return err
	}
	c.rows = rows
	c.applyFilter()
	return nil
}

// applyFilter narrows rows by the fuzzy search term, preserving tree order.
func (c *Controller) applyFilter() {
	if c.searchTerm == "" {
		c.visible = c.rows
		c.clampCursor()
		return
	}

	paths := make([]string, len(c.rows))
	for i, row := range c.rows {
		paths[i] = row.Path
	}

	matched := set.NewSet[int]()
	for _, m := range fuzzy.Find(c.searchTerm, paths) {
		matched.Add(m.Index)
	}

	visible := make([]tree.Node, 0, matched.Len())
	for i, row := range c.rows {
		if matched.Contains(i) {
			visible = append(visible, row)
		}
	}
	c.visible = visible
	c.clampCursor()
}

func (c *Controller) clampCursor() {
	if len(c.visible) == 0 {
		c.cursor = 0
		return
	}
	if c.cursor > len(c.visible)-1 {
		c.cursor = len(c.visible) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// MoveUp moves the cursor one row up. No wrap-around.
func (c *Controller) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown moves the cursor one row down. No wrap-around.
func (c *Controller) MoveDown() {
	if c.cursor < len(c.visible)-1 {
		c.cursor++
	}
}

// CursorRow returns the row under the cursor, if any.
func (c *Controller) CursorRow() (tree.Node, bool) {
	if len(c.visible) == 0 {
		return tree.Node{}, false
	}
	return c.visible[c.cursor], true
}

// Expand opens the directory under the cursor. No-op on files and on
// already-expanded directories.
func (c *Controller) Expand() error {
	row, ok := c.CursorRow()
	if !ok || !row.IsDir || row.Expanded {
		return nil
	}
	c.expanded.Add(row.Path)
	return c.Refresh()
}

// Collapse closes the directory under the cursor. Its children simply stop
// being materialized; nothing else is removed from the expanded set.
func (c *Controller) Collapse() error {
	row, ok := c.CursorRow()
	if !ok || !row.IsDir || !row.Expanded {
		return nil
	}
	c.expanded.Remove(row.Path)
	return c.Refresh()
}

// ToggleSelect toggles the file under the cursor, or, for a directory,
// toggles every file under its true subtree as one symmetric group.
func (c *Controller) ToggleSelect() error {
	row, ok := c.CursorRow()
	if !ok {
		return nil
	}
	if row.IsDir {
		c.selected.ToggleGroup(c.tree.FilesUnder(row.Path, c.showHidden))
	} else {
		c.selected.ToggleFile(row.Path)
	}
	return c.Refresh()
}

// SelectAllVisible selects every file row currently visible.
func (c *Controller) SelectAllVisible() error {
	var paths []string
	for _, row := range c.visible {
		if !row.IsDir {
			paths = append(paths, row.Path)
		}
	}
	c.selected.AddAll(paths)
	return c.Refresh()
}

// DeselectAll clears the selection set unconditionally.
func (c *Controller) DeselectAll() error {
	c.selected.Clear()
	return c.Refresh()
}

// ToggleHidden flips dotfile visibility and refreshes.
func (c *Controller) ToggleHidden() error {
	c.showHidden = !c.showHidden
	return c.Refresh()
}

// SetSearch updates the fuzzy search term and re-derives the visible rows.
func (c *Controller) SetSearch(term string) {
	if term == c.searchTerm {
		return
	}
	c.searchTerm = term
	c.applyFilter()
}

// Seed replaces the selection with a previously saved one.
func (c *Controller) Seed(paths []string) error {
	c.selected.Replace(paths)
	return c.Refresh()
}

// Confirm ends the session accepting the current selection, empty or not;
// validating non-emptiness is the caller's concern.
func (c *Controller) Confirm() {
	c.outcome = OutcomeConfirmed
}

// Cancel ends the session without accepting.
func (c *Controller) Cancel() {
	c.outcome = OutcomeCancelled
}

// Rows returns the visible rows, ordered and index-addressable by Cursor.
func (c *Controller) Rows() []tree.Node { return c.visible }

// Cursor returns the index of the cursor row within Rows.
func (c *Controller) Cursor() int { return c.cursor }

// ShowHidden reports whether dotfiles are currently visible.
func (c *Controller) ShowHidden() bool { return c.showHidden }

// Outcome reports how the session ended, or OutcomeNone while browsing.
func (c *Controller) Outcome() Outcome { return c.outcome }

// SelectedCount returns the number of selected files.
func (c *Controller) SelectedCount() int { return c.selected.Len() }

// SelectedPaths returns the selected file paths sorted lexicographically.
func (c *Controller) SelectedPaths() []string { return c.selected.Paths() }
