// Package history records countdown runs into the session store.
package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/store"
	"github.com/nhle/countdown/internal/timer"
)

// writeTimeout bounds a single store write.
const writeTimeout = 2 * time.Second

// Recorder turns engine events into run rows. Each Start opens a run and
// the next Stop, Reset or Finish closes it. Store failures are logged and
// never propagate back into the engine.
type Recorder struct {
	store  store.Store
	logger *zap.Logger

	mu            sync.Mutex
	openID        string
	lastRemaining model.Duration
}

// NewRecorder creates a recorder writing to s.
func NewRecorder(s store.Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: s, logger: logger}
}

// Attach subscribes the recorder to an engine.
func (r *Recorder) Attach(e *timer.Engine) {
	e.Observe(r.Handle)
}

// OpenRunID returns the ID of the run in progress, if any.
func (r *Recorder) OpenRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openID
}

// Handle processes a single engine event.
func (r *Recorder) Handle(ev timer.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case timer.EventStarted:
		if r.openID != "" {
			r.closeLocked(r.lastRemaining, model.OutcomeStopped, ev.At)
		}
		r.openLocked(ev)
	case timer.EventTicked:
		r.lastRemaining = ev.Duration
	case timer.EventStopped:
		r.closeLocked(ev.Duration, model.OutcomeStopped, ev.At)
	case timer.EventFinished:
		r.closeLocked(ev.Duration, model.OutcomeFinished, ev.At)
	case timer.EventReset:
		// The event carries the zeroed value; keep what was left.
		r.closeLocked(r.lastRemaining, model.OutcomeReset, ev.At)
	}
}

func (r *Recorder) openLocked(ev timer.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	run, err := r.store.CreateRun(ctx, model.Run{
		Target:    ev.Duration,
		StartedAt: ev.At,
	})
	if err != nil {
		r.logger.Warn("failed to record run start", zap.Error(err))
		return
	}
	r.openID = run.ID
	r.lastRemaining = ev.Duration
}

func (r *Recorder) closeLocked(remaining model.Duration, outcome model.Outcome, at time.Time) {
	if r.openID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := r.store.FinishRun(ctx, r.openID, remaining, outcome, at); err != nil {
		r.logger.Warn("failed to record run end",
			zap.String("run_id", r.openID),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	}
	r.openID = ""
}
