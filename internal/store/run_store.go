package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/countdown/internal/model"
)

// ErrRunNotOpen is returned when closing a run that does not exist or has
// already ended.
var ErrRunNotOpen = errors.New("run not found or already closed")

// runRow mirrors the runs table.
type runRow struct {
	ID               string       `db:"id"`
	Target           string       `db:"target"`
	TargetSeconds    int          `db:"target_seconds"`
	Remaining        string       `db:"remaining"`
	RemainingSeconds int          `db:"remaining_seconds"`
	Outcome          string       `db:"outcome"`
	StartedAt        time.Time    `db:"started_at"`
	EndedAt          sql.NullTime `db:"ended_at"`
}

func (r runRow) toModel() (model.Run, error) {
	target, err := model.ParseDuration(r.Target)
	if err != nil {
		return model.Run{}, fmt.Errorf("parsing target of run %s: %w", r.ID, err)
	}
	remaining, err := model.ParseDuration(r.Remaining)
	if err != nil {
		return model.Run{}, fmt.Errorf("parsing remaining of run %s: %w", r.ID, err)
	}

	run := model.Run{
		ID:        r.ID,
		Target:    target,
		Remaining: remaining,
		Outcome:   model.Outcome(r.Outcome),
		StartedAt: r.StartedAt,
	}
	if r.EndedAt.Valid {
		t := r.EndedAt.Time
		run.EndedAt = &t
	}
	return run, nil
}

// CreateRun inserts an open run. If the run has no ID, a new UUID is
// generated; a zero StartedAt is set to now.
func (s *SQLiteStore) CreateRun(ctx context.Context, run model.Run) (model.Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Remaining = run.Target
	run.Outcome = model.OutcomeRunning
	run.EndedAt = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, target, target_seconds, remaining, remaining_seconds,
			outcome, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Target.String(), run.Target.TotalSeconds(),
		run.Remaining.String(), run.Remaining.TotalSeconds(),
		string(run.Outcome), run.StartedAt.UTC(),
	)
	if err != nil {
		return model.Run{}, fmt.Errorf("creating run: %w", err)
	}

	return run, nil
}

// FinishRun closes an open run with its final value and outcome.
func (s *SQLiteStore) FinishRun(
	ctx context.Context,
	id string,
	remaining model.Duration,
	outcome model.Outcome,
	endedAt time.Time,
) error {
	if outcome == model.OutcomeRunning {
		return fmt.Errorf("closing run %s: outcome must not be %q", id, outcome)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET remaining = ?, remaining_seconds = ?, outcome = ?, ended_at = ?
		WHERE id = ? AND outcome = 'running'`,
		remaining.String(), remaining.TotalSeconds(),
		string(outcome), endedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("closing run %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("closing run %s: %w", id, ErrRunNotOpen)
	}
	return nil
}

// GetRun retrieves a single run by its ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	var row runRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting run %s: %w", id, err)
	}

	run, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRuns returns the most recent runs first. A non-positive limit
// returns every run.
func (s *SQLiteStore) GetRuns(ctx context.Context, limit int) ([]model.Run, error) {
	query := "SELECT * FROM runs ORDER BY started_at DESC, rowid DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	runs := make([]model.Run, 0, len(rows))
	for _, r := range rows {
		run, err := r.toModel()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetRunStats aggregates run counts per outcome and the time counted.
func (s *SQLiteStore) GetRunStats(ctx context.Context) (RunStats, error) {
	var rows []struct {
		Outcome string `db:"outcome"`
		Count   int    `db:"count"`
		Counted int    `db:"counted"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT outcome,
			COUNT(*) AS count,
			COALESCE(SUM(MAX(target_seconds - remaining_seconds, 0)), 0) AS counted
		FROM runs
		GROUP BY outcome`)
	if err != nil {
		return RunStats{}, fmt.Errorf("querying run stats: %w", err)
	}

	var stats RunStats
	for _, r := range rows {
		stats.Total += r.Count
		stats.CountedSeconds += r.Counted
		switch model.Outcome(r.Outcome) {
		case model.OutcomeFinished:
			stats.Finished = r.Count
		case model.OutcomeStopped:
			stats.Stopped = r.Count
		case model.OutcomeReset:
			stats.Reset = r.Count
		case model.OutcomeRunning:
			stats.Running = r.Count
		}
	}
	return stats, nil
}
