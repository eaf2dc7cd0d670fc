// Package tasklist keeps the session's ordered, in-memory task records.
package tasklist

import (
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/nhle/countdown/internal/model"
)

// List is an insertion-ordered collection of tasks. Ids come from a
// monotonic counter and are never reused, even after removals.
type List struct {
	mu     sync.RWMutex
	tasks  []model.Task
	nextID int
	now    func() time.Time
}

// New creates an empty list.
func New() *List {
	return &List{nextID: 1, now: time.Now}
}

// ParseDue parses an optional due date. An empty string yields nil.
func ParseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DueDateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, use YYYY-MM-DD: %w", s, err)
	}
	return &t, nil
}

// Add appends a task. Blank content or a malformed due date leaves the
// list unchanged and returns false. The timer snapshot is copied.
func (l *List) Add(content, due, description string, captured *model.Duration) (model.Task, bool) {
	if strings.TrimSpace(content) == "" {
		return model.Task{}, false
	}
	dueDate, err := ParseDue(due)
	if err != nil {
		return model.Task{}, false
	}

	var snapshot *model.Duration
	if captured != nil {
		d := *captured
		snapshot = &d
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	task := model.Task{
		ID:            l.nextID,
		Content:       content,
		Due:           dueDate,
		Description:   description,
		CapturedTimer: snapshot,
		CreatedAt:     l.now(),
	}
	l.nextID++
	l.tasks = append(l.tasks, task)

	return copyTask(task), true
}

// Toggle flips Checked on the task with the given id.
func (l *List) Toggle(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.tasks[i].Checked = !l.tasks[i].Checked
	return true
}

// Remove deletes the task with the given id.
func (l *List) Remove(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return true
}

// Get returns a copy of the task with the given id.
func (l *List) Get(id int) (model.Task, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return copyTask(l.tasks[i]), true
}

// Len returns the number of tasks.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tasks)
}

// All returns copies of every task in insertion order.
func (l *List) All() []model.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Task, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = copyTask(t)
	}
	return out
}

// Filter yields tasks whose content contains query (case-sensitive) in
// insertion order. The sequence is lazy and may be ranged over any
// number of times; each pass sees the list as it is at that moment.
func (l *List) Filter(query string) iter.Seq[model.Task] {
	return func(yield func(model.Task) bool) {
		for _, t := range l.All() {
			if !strings.Contains(t.Content, query) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Collect drains a task sequence into a slice.
func Collect(seq iter.Seq[model.Task]) []model.Task {
	var out []model.Task
	for t := range seq {
		out = append(out, t)
	}
	return out
}

func (l *List) indexOf(id int) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// copyTask detaches pointer fields so callers cannot mutate stored state.
func copyTask(t model.Task) model.Task {
	if t.Due != nil {
		d := *t.Due
		t.Due = &d
	}
	if t.CapturedTimer != nil {
		c := *t.CapturedTimer
		t.CapturedTimer = &c
	}
	return t
}
