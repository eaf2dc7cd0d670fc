// Package app wires the timer panel, the task panel and the overlay views
// into the root Bubble Tea model.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"go.uber.org/zap"

	"github.com/nhle/countdown/internal/keys"
	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/store"
	"github.com/nhle/countdown/internal/tasklist"
	"github.com/nhle/countdown/internal/timer"
	"github.com/nhle/countdown/internal/ui"
	"github.com/nhle/countdown/internal/ui/command"
	helpview "github.com/nhle/countdown/internal/ui/help"
	"github.com/nhle/countdown/internal/ui/historyview"
	"github.com/nhle/countdown/internal/ui/taskform"
	"github.com/nhle/countdown/internal/ui/taskpanel"
	"github.com/nhle/countdown/internal/ui/timerview"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewMain ViewState = iota
	ViewHelp
	ViewCommand
	ViewTaskForm
	ViewHistory
)

// Deps are the long-lived components the UI drives.
type Deps struct {
	Engine *timer.Engine
	Tasks  *tasklist.List
	Store  store.Store
	Config *model.AppConfig
	Logger *zap.Logger
}

// Model is the root Bubble Tea model that manages view routing and
// layout.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	engine       *timer.Engine
	tasks        *tasklist.List
	cfg          *model.AppConfig
	logger       *zap.Logger
	keys         *keys.KeyMap
	timerView    timerview.Model
	taskPanel    taskpanel.Model
	taskForm     taskform.Model
	historyView  historyview.Model
	helpView     helpview.Model
	commandView  command.Model
	statusMsg    string
	ready        bool
}

// New creates the root model. It subscribes the timer panel to the
// engine, so call it once per engine.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	cfg := d.Config
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		currentView: ViewMain,
		engine:      d.Engine,
		tasks:       d.Tasks,
		cfg:         cfg,
		logger:      logger,
		keys:        k,
		timerView:   timerview.New(d.Engine, k, 80, 9),
		taskPanel:   taskpanel.New(d.Tasks, k, 80, 13),
		taskForm:    taskform.New(80, 24),
		historyView: historyview.New(d.Store, cfg.History.Limit, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
	}
}

// Init starts the engine event pump.
func (m Model) Init() tea.Cmd {
	return m.timerView.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.timerView.SetSize(w, m.layout.TimerHeight())
		m.taskPanel.SetSize(w, m.layout.TaskHeight())
		m.taskForm.SetSize(w, h)
		m.historyView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m.updateActiveView(msg)

	case timerview.EventMsg:
		// The pump must keep running whatever view is on screen.
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd

	case timerview.FinishedMsg:
		m.statusMsg = fmt.Sprintf("Time's up (%s)", msg.Duration)
		m.logger.Info("finished notification shown")
		return m, nil

	case taskpanel.NewTaskRequestMsg:
		return m, m.openTaskForm()

	case taskform.TaskSubmittedMsg:
		m.currentView = ViewMain
		return m, m.addTask(msg)

	case taskform.TaskFormCancelMsg:
		m.currentView = ViewMain
		return m, nil

	case historyview.HistoryLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("loading history failed", zap.Error(msg.Err))
		}
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.currentView == ViewMain && (m.timerView.Editing() || m.taskPanel.Searching()) {
			return m.updateActiveView(msg)
		}
		if m.currentView == ViewTaskForm {
			if key.Matches(msg, m.keys.Back) {
				m.currentView = ViewMain
				return m, nil
			}
			return m.updateActiveView(msg)
		}
		m.statusMsg = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewMain {
				return m, m.quit()
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()

		case key.Matches(msg, m.keys.Back):
			if m.currentView != ViewMain {
				m.currentView = ViewMain
				return m, nil
			}
			m.timerView.ClearAlert()
			return m, nil

		case key.Matches(msg, m.keys.History):
			if m.currentView == ViewMain {
				return m, m.openHistory()
			}
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewMain:
		if km, ok := msg.(tea.KeyMsg); ok && m.isTimerKey(km) {
			m.timerView, cmd = m.timerView.Update(msg)
			return m, cmd
		}
		m.taskPanel, cmd = m.taskPanel.Update(msg)
	case ViewHelp:
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	}

	return m, cmd
}

// isTimerKey reports whether a main-view key belongs to the timer panel.
func (m Model) isTimerKey(msg tea.KeyMsg) bool {
	if m.timerView.Editing() {
		return true
	}
	if m.taskPanel.Searching() {
		return false
	}
	return key.Matches(msg, m.keys.Start, m.keys.Stop, m.keys.Reset, m.keys.Edit)
}

func (m *Model) openTaskForm() tea.Cmd {
	m.previousView = ViewMain
	m.currentView = ViewTaskForm
	return m.taskForm.StartCreate(m.engine.Current(), m.cfg.Tasks.AttachTimerDefault)
}

func (m *Model) openHistory() tea.Cmd {
	m.previousView = ViewMain
	m.currentView = ViewHistory
	return m.historyView.Load()
}

// quit stops a running countdown so the open run is recorded, then exits.
func (m *Model) quit() tea.Cmd {
	m.engine.Stop()
	return tea.Quit
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Countdown", m.headerStatus())
	statusBar := m.layout.RenderStatusBar(m.keyHints())
	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewMain:
		return lipgloss.JoinVertical(lipgloss.Left, m.timerView.View(), m.taskPanel.View())
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewHistory:
		return m.historyView.View()
	default:
		return ""
	}
}

func (m Model) headerStatus() string {
	return fmt.Sprintf("%s | %s", m.engine.State(), english.Plural(m.tasks.Len(), "task", ""))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewMain {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewTaskForm:
		return "enter next | esc cancel"
	case ViewHistory:
		return "j/k scroll | esc back"
	default:
		if m.timerView.Editing() {
			return "tab next field | enter apply | esc cancel"
		}
		if q := m.taskPanel.Query(); q != "" {
			return fmt.Sprintf("filter %q | / edit | : clear", q)
		}
		return "s start | p stop | R reset | e edit | n new | / search | h history | ? help | q quit"
	}
}
