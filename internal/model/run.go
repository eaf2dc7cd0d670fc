package model

import "time"

// Outcome describes how a countdown run ended.
type Outcome string

const (
	OutcomeRunning  Outcome = "running"
	OutcomeStopped  Outcome = "stopped"
	OutcomeReset    Outcome = "reset"
	OutcomeFinished Outcome = "finished"
)

// Run is one start-to-end span of the countdown, recorded for the
// session history.
type Run struct {
	ID        string     `json:"id" db:"id"`
	Target    Duration   `json:"target" db:"-"`
	Remaining Duration   `json:"remaining" db:"-"`
	Outcome   Outcome    `json:"outcome" db:"outcome"`
	StartedAt time.Time  `json:"started_at" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`
}

// Elapsed returns the number of seconds counted down during the run.
func (r Run) Elapsed() int {
	n := r.Target.TotalSeconds() - r.Remaining.TotalSeconds()
	if n < 0 {
		return 0
	}
	return n
}
