package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/ui/command"
)

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	m.logger.Debug("command", zap.String("name", c.Name), zap.String("arg", c.Arg))

	switch c.Name {
	case "start":
		if !m.engine.Start() {
			m.statusMsg = "already running"
		}
	case "stop":
		if !m.engine.Stop() {
			m.statusMsg = "not running"
		}
	case "reset":
		m.engine.Reset()
	case "set":
		d, err := model.ParseDuration(c.Arg)
		if err != nil {
			m.statusMsg = err.Error()
			return nil
		}
		if !m.engine.SetDuration(d) {
			m.statusMsg = "stop the timer to edit"
		}
	case "new", "task":
		return m.openTaskForm()
	case "filter":
		return m.taskPanel.SetQuery(c.Arg)
	case "clear":
		return m.taskPanel.SetQuery("")
	case "history":
		return m.openHistory()
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
	case "quit", "q":
		return m.quit()
	default:
		m.statusMsg = fmt.Sprintf("unknown command %q", c.Name)
	}
	return nil
}
