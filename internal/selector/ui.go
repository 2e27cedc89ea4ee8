package selector

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hayeah/treetxt/internal/tree"
)

var (
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model wrapping a Controller. The event loop is
// strictly single-threaded: one key event is fully applied, the rows are
// re-derived, and the frame is redrawn before the next event is read.
type Model struct {
	ctl *Controller

	textInput textinput.Model
	viewport  viewport.Model
	ready     bool

	// A refresh failure (for example the root vanishing mid-session) ends
	// the loop; bubbletea restores the terminal on the way out.
	err error
}

// NewModel creates the interactive selector UI around ctl.
func NewModel(ctl *Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	return Model{
		ctl:       ctl,
		textInput: ti,
		viewport:  viewport.New(0, 0), // sized on the first WindowSizeMsg
	}
}

// Run drives the interaction loop to completion and returns the final
// selection along with how the session ended.
func Run(ctl *Controller) ([]string, Outcome, error) {
	// TUI goes to stderr so the generated artifact can be piped from stdout.
	p := tea.NewProgram(NewModel(ctl), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return nil, OutcomeCancelled, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return nil, OutcomeCancelled, fmt.Errorf("could not get final model state")
	}
	if m.err != nil {
		return nil, OutcomeCancelled, m.err
	}

	return ctl.SelectedPaths(), ctl.Outcome(), nil
}

// Init is the first function called by bubbletea.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

// Update applies one input event to the controller and schedules a redraw.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ctl.Outcome() != OutcomeNone || m.err != nil {
		return m, tea.Quit
	}

	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.textInput.View()) + 1
		footerHeight := 2
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.viewport.YPosition = headerHeight

		if !m.ready {
			m.updateViewportContent()
			m.ready = true
		}

	case tea.KeyMsg:
		switch msg.String() {

		case "ctrl+c", "esc":
			m.ctl.Cancel()
			return m, tea.Quit

		case "enter":
			m.ctl.Confirm()
			return m, tea.Quit

		case "up":
			m.ctl.MoveUp()
			m.updateViewportContent()
			m.ensureCursorVisible()
			return m, nil

		case "down":
			m.ctl.MoveDown()
			m.updateViewportContent()
			m.ensureCursorVisible()
			return m, nil

		case " ":
			return m.command(m.ctl.ToggleSelect)

		case "right":
			return m.command(m.ctl.Expand)

		case "left":
			return m.command(m.ctl.Collapse)

		case "ctrl+a":
			return m.command(m.ctl.SelectAllVisible)

		case "ctrl+d":
			return m.command(m.ctl.DeselectAll)

		case "ctrl+h":
			return m.command(m.ctl.ToggleHidden)

		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil

		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil

		case "home":
			for m.ctl.Cursor() > 0 {
				m.ctl.MoveUp()
			}
			m.viewport.GotoTop()
			m.updateViewportContent()
			return m, nil

		case "end":
			for m.ctl.Cursor() < len(m.ctl.Rows())-1 {
				m.ctl.MoveDown()
			}
			m.viewport.GotoBottom()
			m.updateViewportContent()
			return m, nil
		}
	}

	// Everything else feeds the filter input.
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	m.ctl.SetSearch(m.textInput.Value())
	m.updateViewportContent()
	m.ensureCursorVisible()

	// Key events stop here. The viewport's default key map binds plain
	// letters (j/k/f/b/u/d), which would scroll the list while the user is
	// typing filter text.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// command runs a controller command that may refresh the tree, recording a
// fatal refresh error.
func (m Model) command(fn func() error) (tea.Model, tea.Cmd) {
	if err := fn(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.updateViewportContent()
	m.ensureCursorVisible()
	return m, nil
}

// View renders the filter input, the scrollable row list, and a status footer.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.textInput.View() + "\n"

	hidden := "off"
	if m.ctl.ShowHidden() {
		hidden = "on"
	}
	statusLine := fmt.Sprintf(
		"%s — %d rows, %d selected, hidden %s",
		m.ctl.tree.Root, len(m.ctl.Rows()), m.ctl.SelectedCount(), hidden,
	)
	usageHint := faintStyle.Render(
		"(↑/↓ move, Space select, →/← expand/collapse, Ctrl+A all, Ctrl+D none, Ctrl+H hidden, Enter confirm, Esc abort)",
	)
	footer := fmt.Sprintf("\n%s\n%s", statusLine, usageHint)

	return header + m.viewport.View() + footer
}

// updateViewportContent rebuilds the viewport from the current rows. Rendering
// never mutates controller state.
func (m *Model) updateViewportContent() {
	var sb strings.Builder

	rows := m.ctl.Rows()
	for i, row := range rows {
		cursor := " "
		if i == m.ctl.Cursor() {
			cursor = ">"
		}

		indent := strings.Repeat("  ", row.Depth)

		var label string
		switch {
		case row.IsDir && row.Expanded:
			label = dirStyle.Render("▾ " + row.Name + "/")
		case row.IsDir:
			label = dirStyle.Render("▸ " + row.Name + "/")
		case row.Selected:
			label = selectedStyle.Render("✓ " + row.Name)
		default:
			label = "  " + row.Name
		}

		line := fmt.Sprintf("%s %s%s", cursor, indent, label)
		if i == m.ctl.Cursor() {
			line = cursorStyle.Render(fmt.Sprintf("%s %s%s", cursor, indent, m.plainLabel(row)))
		}

		sb.WriteString(line + "\n")
	}

	if len(rows) == 0 {
		sb.WriteString(faintStyle.Render("(no entries)") + "\n")
	}

	m.viewport.SetContent(sb.String())
}

// plainLabel renders a row without per-row colors, for the cursor line where
// the cursor style wins.
func (m *Model) plainLabel(row tree.Node) string {
	switch {
	case row.IsDir && row.Expanded:
		return "▾ " + row.Name + "/"
	case row.IsDir:
		return "▸ " + row.Name + "/"
	case row.Selected:
		return "✓ " + row.Name
	default:
		return "  " + row.Name
	}
}

// ensureCursorVisible scrolls the viewport so the cursor line stays on screen.
func (m *Model) ensureCursorVisible() {
	cursorLine := m.ctl.Cursor()

	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1

	if cursorLine < top {
		m.viewport.SetYOffset(cursorLine)
	} else if cursorLine > bottom {
		m.viewport.SetYOffset(cursorLine - m.viewport.Height + 1)
	}
}
