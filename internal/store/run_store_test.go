package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/store"
	"github.com/nhle/countdown/internal/testutil"
)

func TestCreateAndFinishRun(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	run, err := s.CreateRun(ctx, model.Run{
		Target:    model.NewDuration(0, 25, 0),
		StartedAt: started,
	})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("CreateRun should assign an ID")
	}
	if run.Outcome != model.OutcomeRunning {
		t.Errorf("Outcome = %q", run.Outcome)
	}

	ended := started.Add(10 * time.Minute)
	err = s.FinishRun(ctx, run.ID, model.NewDuration(0, 15, 0), model.OutcomeStopped, ended)
	if err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Outcome != model.OutcomeStopped {
		t.Errorf("Outcome = %q, want stopped", got.Outcome)
	}
	if got.Remaining != model.NewDuration(0, 15, 0) {
		t.Errorf("Remaining = %v", got.Remaining)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(ended) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, ended)
	}
	if got.Elapsed() != 600 {
		t.Errorf("Elapsed = %d, want 600", got.Elapsed())
	}
}

func TestFinishRunTwiceFails(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.Run{Target: model.NewDuration(0, 0, 5)})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.FinishRun(ctx, run.ID, model.Duration{}, model.OutcomeFinished, time.Now()); err != nil {
		t.Fatal(err)
	}

	err = s.FinishRun(ctx, run.ID, model.Duration{}, model.OutcomeReset, time.Now())
	if !errors.Is(err, store.ErrRunNotOpen) {
		t.Errorf("err = %v, want ErrRunNotOpen", err)
	}

	err = s.FinishRun(ctx, "missing", model.Duration{}, model.OutcomeReset, time.Now())
	if !errors.Is(err, store.ErrRunNotOpen) {
		t.Errorf("err = %v, want ErrRunNotOpen", err)
	}
}

func TestFinishRunRejectsRunningOutcome(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run, _ := s.CreateRun(ctx, model.Run{Target: model.NewDuration(0, 0, 5)})
	if err := s.FinishRun(ctx, run.ID, model.Duration{}, model.OutcomeRunning, time.Now()); err == nil {
		t.Error("expected error for running outcome")
	}
}

func TestGetRunsNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.CreateRun(ctx, model.Run{
			Target:    model.NewDuration(0, i+1, 0),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.GetRuns(ctx, 2)
	if err != nil {
		t.Fatalf("GetRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}
	if runs[0].Target != model.NewDuration(0, 3, 0) {
		t.Errorf("first run target = %v, want newest", runs[0].Target)
	}

	all, err := s.GetRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestRunPreservesUnclampedValues(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, model.Run{Target: model.NewDuration(0, 99, 0)})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Target != model.NewDuration(0, 99, 0) {
		t.Errorf("Target = %v", got.Target)
	}
}

func TestGetRunStats(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	finish := func(target, remaining model.Duration, outcome model.Outcome) {
		t.Helper()
		run, err := s.CreateRun(ctx, model.Run{Target: target})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.FinishRun(ctx, run.ID, remaining, outcome, time.Now()); err != nil {
			t.Fatal(err)
		}
	}

	finish(model.NewDuration(0, 1, 0), model.Duration{}, model.OutcomeFinished)
	finish(model.NewDuration(0, 1, 0), model.NewDuration(0, 0, 30), model.OutcomeStopped)
	finish(model.NewDuration(0, 0, 10), model.NewDuration(0, 0, 10), model.OutcomeReset)
	if _, err := s.CreateRun(ctx, model.Run{Target: model.NewDuration(0, 0, 5)}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetRunStats(ctx)
	if err != nil {
		t.Fatalf("GetRunStats: %v", err)
	}
	if stats.Total != 4 || stats.Finished != 1 || stats.Stopped != 1 || stats.Reset != 1 || stats.Running != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.CountedSeconds != 90 {
		t.Errorf("CountedSeconds = %d, want 90", stats.CountedSeconds)
	}
}
