// Package timertest provides a manually driven scheduler for tests.
package timertest

import (
	"sync"
	"time"

	"github.com/nhle/countdown/internal/timer"
)

// Scheduler records schedules and fires them only when told to.
type Scheduler struct {
	mu        sync.Mutex
	schedules []*Schedule
}

// Schedule is a single registration made through Scheduler.Every.
type Schedule struct {
	Interval time.Duration

	mu        sync.Mutex
	fn        func()
	cancelled bool
}

// New returns an empty manual scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Every records the callback and returns its handle.
func (s *Scheduler) Every(interval time.Duration, fn func()) timer.Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	sch := &Schedule{Interval: interval, fn: fn}
	s.schedules = append(s.schedules, sch)
	return sch
}

// Cancel marks the schedule inactive.
func (sch *Schedule) Cancel() {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	sch.cancelled = true
}

// Cancelled reports whether Cancel has been called.
func (sch *Schedule) Cancelled() bool {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	return sch.cancelled
}

// Fire simulates one interval elapsing: every active schedule runs once.
// It returns the number of callbacks invoked.
func (s *Scheduler) Fire() int {
	fired := 0
	for _, sch := range s.snapshot() {
		if sch.Cancelled() {
			continue
		}
		sch.fn()
		fired++
	}
	return fired
}

// FireN calls Fire n times and returns the total number of callbacks.
func (s *Scheduler) FireN(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += s.Fire()
	}
	return total
}

// FireStale invokes every cancelled callback, as a ticker that lost
// the race with Cancel would.
func (s *Scheduler) FireStale() {
	for _, sch := range s.snapshot() {
		if sch.Cancelled() {
			sch.fn()
		}
	}
}

// Installed returns how many schedules were ever created.
func (s *Scheduler) Installed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.schedules)
}

// Active returns how many schedules have not been cancelled.
func (s *Scheduler) Active() int {
	n := 0
	for _, sch := range s.snapshot() {
		if !sch.Cancelled() {
			n++
		}
	}
	return n
}

func (s *Scheduler) snapshot() []*Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Schedule, len(s.schedules))
	copy(out, s.schedules)
	return out
}
