package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want CommandMsg
	}{
		{"start", CommandMsg{Name: "start"}},
		{"  STOP  ", CommandMsg{Name: "stop"}},
		{"set 00:25:00", CommandMsg{Name: "set", Arg: "00:25:00"}},
		{"filter  buy milk ", CommandMsg{Name: "filter", Arg: "buy milk"}},
		{"", CommandMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := Parse(tt.line); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(60, 10)
	for _, r := range "reset" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	if got, ok := cmd().(CommandMsg); !ok || got.Name != "reset" {
		t.Errorf("got %#v, want reset", cmd())
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestEnterOnBlankDoesNothing(t *testing.T) {
	m := New(60, 10)
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("expected no command for a blank line")
	}
}
