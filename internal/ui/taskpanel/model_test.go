package taskpanel

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/countdown/internal/keys"
	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/tasklist"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newPanel(t *testing.T, contents ...string) (Model, *tasklist.List) {
	t.Helper()
	tasks := tasklist.New()
	for _, c := range contents {
		if _, ok := tasks.Add(c, "", "", nil); !ok {
			t.Fatalf("Add(%q) failed", c)
		}
	}
	return New(tasks, keys.DefaultKeyMap(), 60, 20), tasks
}

func visible(m Model) []string {
	var out []string
	for _, it := range m.list.Items() {
		out = append(out, it.(TaskItem).Task.Content)
	}
	return out
}

func TestToggleAndDeleteSelected(t *testing.T) {
	m, tasks := newPanel(t, "write report", "call bob")

	m, _ = m.Update(runes("x"))
	first, _ := tasks.Get(1)
	if !first.Checked {
		t.Error("expected first task to be checked")
	}

	m, _ = m.Update(runes("x"))
	first, _ = tasks.Get(1)
	if first.Checked {
		t.Error("expected second toggle to uncheck")
	}

	m, _ = m.Update(runes("d"))
	if tasks.Len() != 1 {
		t.Fatalf("Len = %d after delete, want 1", tasks.Len())
	}
	if got := visible(m); len(got) != 1 || got[0] != "call bob" {
		t.Errorf("visible = %v, want [call bob]", got)
	}
}

func TestDeleteOnEmptyListIsNoop(t *testing.T) {
	m, tasks := newPanel(t)

	m, _ = m.Update(runes("d"))
	m, _ = m.Update(runes("x"))
	if tasks.Len() != 0 {
		t.Errorf("Len = %d, want 0", tasks.Len())
	}
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("expected empty-state text")
	}
}

func TestSearchFiltersLive(t *testing.T) {
	m, _ := newPanel(t, "apple", "berry", "avocado")

	m, _ = m.Update(runes("/"))
	if !m.Searching() {
		t.Fatal("expected search mode after /")
	}
	m, _ = m.Update(runes("a"))
	m, _ = m.Update(runes("p"))

	if got := visible(m); len(got) != 1 || got[0] != "apple" {
		t.Errorf("visible for %q = %v, want [apple]", m.Query(), got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	got := visible(m)
	if len(got) != 2 || got[0] != "apple" || got[1] != "avocado" {
		t.Errorf("visible for %q = %v, want [apple avocado]", m.Query(), got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Searching() || m.Query() != "a" {
		t.Errorf("after enter: searching=%v query=%q", m.Searching(), m.Query())
	}

	m, _ = m.Update(runes("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.Query() != "" || len(visible(m)) != 3 {
		t.Errorf("esc should clear the filter, got query %q and %v", m.Query(), visible(m))
	}
}

func TestNewTaskKeyRequestsForm(t *testing.T) {
	m, _ := newPanel(t)

	_, cmd := m.Update(runes("n"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(NewTaskRequestMsg); !ok {
		t.Error("expected NewTaskRequestMsg")
	}
}

func TestRenderLine(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := model.NewDuration(0, 25, 0)
	d := TaskDelegate{now: func() time.Time { return now }}

	tests := []struct {
		name    string
		task    model.Task
		want    []string
		exclude []string
	}{
		{
			name:    "plain",
			task:    model.Task{Content: "read"},
			want:    []string{"[ ]", "read"},
			exclude: []string{"OVERDUE", "⏱"},
		},
		{
			name: "timer and overdue",
			task: model.Task{Content: "ship", Due: &past, CapturedTimer: &snap},
			want: []string{"ship", "00:25:00", "Mar 01", "OVERDUE"},
		},
		{
			name:    "checked is never overdue",
			task:    model.Task{Content: "done", Due: &past, Checked: true},
			want:    []string{"[x]"},
			exclude: []string{"OVERDUE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := d.renderLine(tt.task, false)
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Errorf("line %q missing %q", line, w)
				}
			}
			for _, x := range tt.exclude {
				if strings.Contains(line, x) {
					t.Errorf("line %q should not contain %q", line, x)
				}
			}
		})
	}
}
