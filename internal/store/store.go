package store

import (
	"context"
	"time"

	"github.com/nhle/countdown/internal/model"
)

// RunStats aggregates the session history.
type RunStats struct {
	Total    int
	Finished int
	Stopped  int
	Reset    int
	Running  int

	// CountedSeconds is the total time counted down across all runs.
	CountedSeconds int
}

// Store defines the persistence interface for countdown runs.
type Store interface {
	CreateRun(ctx context.Context, run model.Run) (model.Run, error)
	FinishRun(
		ctx context.Context,
		id string,
		remaining model.Duration,
		outcome model.Outcome,
		endedAt time.Time,
	) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	GetRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetRunStats(ctx context.Context) (RunStats, error)
}
