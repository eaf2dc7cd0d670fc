package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/ui/taskform"
)

// addTask commits a submitted form. The timer snapshot is read from the
// engine now, not when the form opened.
func (m *Model) addTask(msg taskform.TaskSubmittedMsg) tea.Cmd {
	var captured *model.Duration
	if msg.AttachTimer {
		d := m.engine.Current()
		captured = &d
	}

	task, ok := m.tasks.Add(msg.Content, msg.Due, msg.Description, captured)
	if !ok {
		m.statusMsg = "task not added"
		m.logger.Debug("task rejected", zap.String("due", msg.Due))
		return nil
	}

	m.logger.Debug("task added",
		zap.Int("id", task.ID),
		zap.Bool("timer", task.HasTimer()),
	)
	return m.taskPanel.Reload()
}
