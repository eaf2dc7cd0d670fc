// Package historyview lists the countdown runs of the current session.
package historyview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/store"
	"github.com/nhle/countdown/internal/theme"
)

const loadTimeout = 2 * time.Second

// HistoryLoadedMsg carries the runs read from the store.
type HistoryLoadedMsg struct {
	Runs  []model.Run
	Stats store.RunStats
	Err   error
}

// Model is the history view.
type Model struct {
	store    store.Store
	limit    int
	viewport viewport.Model
	runs     []model.Run
	stats    store.RunStats
	err      error
	loaded   bool
	now      func() time.Time
	width    int
	height   int
}

// New creates a history view showing at most limit runs.
func New(s store.Store, limit, width, height int) Model {
	return Model{
		store:    s,
		limit:    limit,
		viewport: viewport.New(width, max(height-2, 0)),
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// Load returns a command that reads the runs and their stats.
func (m Model) Load() tea.Cmd {
	s := m.store
	limit := m.limit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		runs, err := s.GetRuns(ctx, limit)
		if err != nil {
			return HistoryLoadedMsg{Err: fmt.Errorf("loading runs: %w", err)}
		}
		stats, err := s.GetRunStats(ctx)
		if err != nil {
			return HistoryLoadedMsg{Err: fmt.Errorf("loading run stats: %w", err)}
		}
		return HistoryLoadedMsg{Runs: runs, Stats: stats}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(HistoryLoadedMsg); ok {
		m.loaded = true
		m.runs = msg.Runs
		m.stats = msg.Stats
		m.err = msg.Err
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the history view.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Session History")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", m.viewport.View())
}

func (m Model) renderContent() string {
	if m.err != nil {
		return theme.OverdueStyle.Render(m.err.Error())
	}
	if !m.loaded {
		return theme.HelpStyle.Render("Loading...")
	}
	if len(m.runs) == 0 {
		return theme.HelpStyle.Render("No runs yet. Start the timer with s.")
	}

	var b strings.Builder
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")

	now := m.now()
	for _, r := range m.runs {
		b.WriteString(m.renderRun(r, now))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStats() string {
	s := m.stats
	counted := model.DurationFromSeconds(s.CountedSeconds)
	return theme.HelpStyle.Render(fmt.Sprintf(
		"%s: %d finished, %d stopped, %d reset, %d running. Counted %s.",
		english.Plural(s.Total, "run", ""),
		s.Finished, s.Stopped, s.Reset, s.Running, counted,
	))
}

func (m Model) renderRun(r model.Run, now time.Time) string {
	outcome := theme.OutcomeStyle(string(r.Outcome)).Render(fmt.Sprintf("%-8s", r.Outcome))
	started := humanize.RelTime(r.StartedAt, now, "ago", "from now")
	return fmt.Sprintf("%s %s → %s  started %s",
		outcome, r.Target, r.Remaining, started)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 0)
}
