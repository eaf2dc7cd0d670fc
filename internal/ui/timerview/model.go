// Package timerview renders the countdown panel and forwards timer keys
// and field edits to the engine.
package timerview

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/countdown/internal/keys"
	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/theme"
	"github.com/nhle/countdown/internal/timer"
)

// eventBuffer bounds how many engine events can wait for the UI. Events
// beyond it are dropped; the panel re-reads the engine on every event.
const eventBuffer = 64

// eventPump carries engine events to the UI. push never blocks, because it runs
// inside the engine's delivery loop, possibly on the Bubble Tea goroutine.
// A Finished event that does not fit is counted and reported with the next
// event the UI receives. A dropped event always leaves a full channel, so
// such a next event exists.
type eventPump struct {
	events       chan timer.Event
	missedFinish atomic.Int32
}

func (p *eventPump) push(ev timer.Event) {
	select {
	case p.events <- ev:
	default:
		if ev.Kind == timer.EventFinished {
			p.missedFinish.Add(1)
		}
	}
}

// EventMsg carries an engine event into the Bubble Tea update loop.
type EventMsg struct {
	Event timer.Event
}

// FinishedMsg is emitted once for every countdown that reaches zero.
type FinishedMsg struct {
	Duration model.Duration
}

// Model is the timer panel.
type Model struct {
	engine  *timer.Engine
	keys    *keys.KeyMap
	pump    *eventPump
	bell    io.Writer
	inputs  []textinput.Model
	focus   int
	editing bool
	current model.Duration
	state   timer.RunState
	alert   string
	status  string
	width   int
	height  int
}

// New creates the timer panel and subscribes it to the engine. Call it
// once per engine; every call registers another observer.
func New(e *timer.Engine, k *keys.KeyMap, width, height int) Model {
	p := &eventPump{events: make(chan timer.Event, eventBuffer)}
	e.Observe(p.push)

	inputs := make([]textinput.Model, len(model.Fields))
	for i, f := range model.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 2
		ti.Width = 3
		ti.Placeholder = "00"
		ti.Validate = digitsOnly(f)
		inputs[i] = ti
	}

	m := Model{
		engine: e,
		keys:   k,
		pump:   p,
		bell:   os.Stderr,
		inputs: inputs,
		width:  width,
		height: height,
	}
	m.sync()
	return m
}

// Init starts listening for engine events.
func (m Model) Init() tea.Cmd {
	return m.WaitForEvent()
}

// WaitForEvent returns a command that blocks until the engine publishes
// the next event.
func (m Model) WaitForEvent() tea.Cmd {
	ch := m.pump.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}

// SetBell redirects the terminal bell, mostly for tests.
func (m *Model) SetBell(w io.Writer) {
	m.bell = w
}

// Update handles engine events and timer keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m.handleEvent(msg.Event)

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKeys(msg)
		}
		return m.handleKeys(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleEvent(ev timer.Event) (Model, tea.Cmd) {
	m.sync()
	cmds := []tea.Cmd{m.WaitForEvent()}

	switch ev.Kind {
	case timer.EventFinished:
		cmds = append(cmds, m.finish(ev.Duration))
	case timer.EventStarted:
		m.alert = ""
		if m.editing {
			m.stopEditing()
		}
	}

	for n := m.pump.missedFinish.Swap(0); n > 0; n-- {
		cmds = append(cmds, m.finish(model.Duration{}))
	}
	return m, tea.Batch(cmds...)
}

// finish shows the banner and rings the bell for one completed countdown.
func (m *Model) finish(d model.Duration) tea.Cmd {
	m.alert = "Time's up"
	m.ring()
	return func() tea.Msg { return FinishedMsg{Duration: d} }
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Start):
		if !m.engine.Start() {
			m.status = "already running"
		} else {
			m.status = ""
		}
	case key.Matches(msg, m.keys.Stop):
		if !m.engine.Stop() {
			m.status = "not running"
		} else {
			m.status = ""
		}
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
		m.alert = ""
		m.status = ""
	case key.Matches(msg, m.keys.Edit):
		if m.engine.State() == timer.Running {
			m.status = "stop the timer to edit"
			return m, nil
		}
		m.sync()
		return m, m.startEditing()
	}
	m.sync()
	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stopEditing()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		m.commit(m.focus)
		m.stopEditing()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.commit(m.focus)
		return m, m.moveFocus(1)

	case key.Matches(msg, m.keys.PrevField):
		m.commit(m.focus)
		return m, m.moveFocus(-1)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// commit sends one field to the engine. A rejected value is replaced by
// whatever the engine holds.
func (m *Model) commit(i int) {
	f := model.Fields[i]
	d, ok := m.engine.SetField(f.String(), m.inputs[i].Value())
	if !ok {
		m.status = fmt.Sprintf("%s unchanged", f)
	} else {
		m.status = ""
	}
	m.current = d
	m.state = m.engine.State()
	m.inputs[i].SetValue(fmt.Sprintf("%02d", d.Get(f)))
}

func (m *Model) startEditing() tea.Cmd {
	m.editing = true
	m.alert = ""
	m.focus = 0
	m.loadInputs()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m.inputs[m.focus].Focus()
}

func (m *Model) stopEditing() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m *Model) loadInputs() {
	for i, f := range model.Fields {
		m.inputs[i].SetValue(fmt.Sprintf("%02d", m.current.Get(f)))
		m.inputs[i].CursorEnd()
	}
}

// sync copies the engine snapshot into the panel.
func (m *Model) sync() {
	m.current = m.engine.Current()
	m.state = m.engine.State()
	if !m.editing {
		m.loadInputs()
	}
}

func (m Model) ring() {
	if m.bell != nil {
		fmt.Fprint(m.bell, "\a")
	}
}

// Editing reports whether the field inputs own the keyboard.
func (m Model) Editing() bool {
	return m.editing
}

// Alert returns the finished banner text, empty when none is showing.
func (m Model) Alert() string {
	return m.alert
}

// ClearAlert dismisses the finished banner.
func (m *Model) ClearAlert() {
	m.alert = ""
}

// Status returns feedback about the last ignored operation.
func (m Model) Status() string {
	return m.status
}

// View renders the timer panel.
func (m Model) View() string {
	var digits string
	if m.editing {
		parts := make([]string, len(m.inputs))
		for i, in := range m.inputs {
			style := theme.DigitsStyle
			if i == m.focus {
				style = theme.ActiveFieldStyle
			}
			parts[i] = style.Render(in.View())
		}
		sep := theme.DigitsStyle.Render(":")
		digits = lipgloss.JoinHorizontal(lipgloss.Center,
			parts[0], sep, parts[1], sep, parts[2])
	} else {
		digits = theme.DigitsStyle.Render(m.current.String())
	}

	state := theme.StateStyle(m.state.String()).Render(m.state.String())
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Center, digits, " ", state)}

	if m.alert != "" {
		lines = append(lines, theme.AlertStyle.Render(m.alert))
	}
	if m.status != "" {
		lines = append(lines, theme.HelpStyle.Render(m.status))
	}
	if m.editing {
		lines = append(lines, theme.HelpStyle.Render("tab: next field  enter: apply  esc: cancel"))
	}

	panel := theme.PanelStyle
	if m.editing {
		panel = theme.FocusedPanelStyle
	}
	return panel.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// digitsOnly flags non-numeric input in a field box. The engine stays the
// authority on what is accepted.
func digitsOnly(f model.Field) func(string) error {
	return func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("%s must be a number", f)
			}
		}
		return nil
	}
}
