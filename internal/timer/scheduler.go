package timer

import (
	"sync"
	"time"
)

// Schedule is a recurring callback registration.
type Schedule interface {
	// Cancel stops future firings. It must not block waiting for an
	// in-flight callback to return.
	Cancel()
}

// Scheduler installs recurring callbacks. Implementations must never run
// two callbacks of the same schedule concurrently.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Schedule
}

// ClockScheduler fires callbacks from a time.Ticker goroutine.
type ClockScheduler struct{}

// NewClockScheduler returns the wall-clock scheduler.
func NewClockScheduler() ClockScheduler {
	return ClockScheduler{}
}

// Every starts a goroutine that calls fn once per interval until the
// returned Schedule is cancelled.
func (ClockScheduler) Every(interval time.Duration, fn func()) Schedule {
	s := &tickerSchedule{stopCh: make(chan struct{})}
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				// A cancel may race with the tick; prefer the cancel.
				select {
				case <-s.stopCh:
					return
				default:
				}
				fn()
			}
		}
	}()

	return s
}

type tickerSchedule struct {
	stopCh chan struct{}
	once   sync.Once
}

func (s *tickerSchedule) Cancel() {
	s.once.Do(func() { close(s.stopCh) })
}
