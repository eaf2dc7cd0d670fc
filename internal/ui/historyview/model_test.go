package historyview

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/testutil"
)

func TestLoadRendersRunsAndStats(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	run, err := s.CreateRun(ctx, model.Run{
		Target:    model.NewDuration(0, 25, 0),
		StartedAt: start,
	})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := s.FinishRun(ctx, run.ID, model.Duration{}, model.OutcomeFinished, start.Add(25*time.Minute)); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	m := New(s, 10, 100, 20)
	m.now = func() time.Time { return start.Add(time.Hour) }

	m, _ = m.Update(m.Load()())
	out := m.renderContent()

	for _, want := range []string{"1 run", "1 finished", "00:25:00", "finished", "1 hour ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}

func TestEmptyHistory(t *testing.T) {
	s := testutil.NewTestStore(t)

	m := New(s, 10, 80, 20)
	if !strings.Contains(m.renderContent(), "Loading") {
		t.Error("expected loading text before the first load")
	}

	m, _ = m.Update(m.Load()())
	if !strings.Contains(m.renderContent(), "No runs yet") {
		t.Errorf("unexpected content: %s", m.renderContent())
	}
}

func TestLoadErrorIsShown(t *testing.T) {
	m := New(nil, 10, 80, 20)
	m, _ = m.Update(HistoryLoadedMsg{Err: context.DeadlineExceeded})

	if !strings.Contains(m.renderContent(), "deadline exceeded") {
		t.Errorf("expected error text, got %s", m.renderContent())
	}
}
