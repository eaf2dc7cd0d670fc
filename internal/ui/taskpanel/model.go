// Package taskpanel shows the task list with search, check and delete.
package taskpanel

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/countdown/internal/keys"
	"github.com/nhle/countdown/internal/tasklist"
	"github.com/nhle/countdown/internal/theme"
)

// NewTaskRequestMsg asks the parent to open the task form.
type NewTaskRequestMsg struct{}

// Model is the task panel.
type Model struct {
	list        list.Model
	tasks       *tasklist.List
	keys        *keys.KeyMap
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a task panel over tasks.
func New(tasks *tasklist.List, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, TaskDelegate{}, width, max(height-2, 0))
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "filter tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	m := Model{
		list:        l,
		tasks:       tasks,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
	m.Reload()
	return m
}

// Reload rebuilds the visible items from the task list using the
// current filter query.
func (m *Model) Reload() tea.Cmd {
	var items []list.Item
	for task := range m.tasks.Filter(m.query) {
		items = append(items, TaskItem{Task: task})
	}
	if items == nil {
		items = []list.Item{}
	}
	return m.list.SetItems(items)
}

// Query returns the active filter.
func (m Model) Query() string {
	return m.query
}

// SetQuery replaces the filter and reloads.
func (m *Model) SetQuery(q string) tea.Cmd {
	m.query = q
	m.searchInput.SetValue(q)
	return m.Reload()
}

// Searching reports whether the search input owns the keyboard.
func (m Model) Searching() bool {
	return m.searchMode
}

// Selected returns the task under the cursor.
func (m Model) Selected() (TaskItem, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	return item, ok
}

// Update handles messages for the task panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys filters live while the user types. Enter keeps the
// query, esc clears it.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		return m, m.SetQuery("")
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != m.query {
		m.query = v
		return m, tea.Batch(cmd, m.Reload())
	}
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NewTask):
		return m, func() tea.Msg { return NewTaskRequestMsg{} }

	case key.Matches(msg, m.keys.ToggleTask):
		if item, ok := m.Selected(); ok {
			m.tasks.Toggle(item.Task.ID)
			return m, m.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteTask):
		if item, ok := m.Selected(); ok {
			m.tasks.Remove(item.Task.ID)
			return m, m.Reload()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the task panel.
func (m Model) View() string {
	var body string
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	} else {
		body = m.list.View()
	}

	if m.searchMode || m.query != "" {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		body = lipgloss.JoinVertical(lipgloss.Left, searchBar, body)
	}
	return body
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching tasks.")
	}
	return style.Render("No tasks yet.\n\nPress n to add one.")
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-2, 0))
	m.searchInput.Width = width - 4
}
