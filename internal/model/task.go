package model

import "time"

// DueDateLayout is the accepted format for task due dates.
const DueDateLayout = "2006-01-02"

// Task is a single entry of the in-memory task list.
type Task struct {
	// ID is unique for the lifetime of the list and never reused.
	ID int `json:"id"`

	// Content is the task text; it is never blank.
	Content string `json:"content"`

	// Due is an optional calendar date.
	Due *time.Time `json:"due,omitempty"`

	// Description holds optional free-form details.
	Description string `json:"description"`

	// Checked marks the task as done.
	Checked bool `json:"checked"`

	// CapturedTimer is a snapshot of the timer value taken when the
	// task was created. Later timer edits do not affect it.
	CapturedTimer *Duration `json:"captured_timer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasTimer reports whether a timer snapshot is attached.
func (t Task) HasTimer() bool {
	return t.CapturedTimer != nil
}

// IsOverdue reports whether an unchecked task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Due == nil || t.Checked {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.Due.Before(today)
}
