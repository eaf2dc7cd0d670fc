package taskpanel

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the task content.
func (i TaskItem) FilterValue() string { return i.Task.Content }

// TaskDelegate renders one task per line.
type TaskDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderLine(ti.Task, index == m.Index()))
}

func (d TaskDelegate) renderLine(task model.Task, selected bool) string {
	prefix := "[ ]"
	if task.Checked {
		prefix = "[x]"
	}

	timerBadge := ""
	if task.HasTimer() {
		timerBadge = theme.TimerBadgeStyle.Render(" ⏱ " + task.CapturedTimer.String())
	}

	due := ""
	if task.Due != nil {
		due = theme.DueDateStyle.Render(" " + task.Due.Format("Jan 02"))
	}

	overdue := ""
	now := time.Now
	if d.now != nil {
		now = d.now
	}
	if task.IsOverdue(now()) {
		overdue = theme.OverdueStyle.Render(" OVERDUE")
	}

	line := fmt.Sprintf("%s %s%s%s%s", prefix, task.Content, timerBadge, due, overdue)
	if task.Checked {
		line = theme.DimmedStyle.Render(line)
	}

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}
