package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestClockSchedulerFiresUntilCancelled(t *testing.T) {
	var count atomic.Int32

	s := NewClockScheduler().Every(2*time.Millisecond, func() { count.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for count.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler never fired")
		}
		time.Sleep(time.Millisecond)
	}

	s.Cancel()
	s.Cancel() // idempotent

	// Allow a callback already in flight to finish.
	time.Sleep(10 * time.Millisecond)
	after := count.Load()
	time.Sleep(20 * time.Millisecond)

	if got := count.Load(); got != after {
		t.Errorf("fired %d times after cancel", got-after)
	}
}

func TestRunStateString(t *testing.T) {
	tests := map[RunState]string{
		Idle:     "idle",
		Running:  "running",
		Stopped:  "stopped",
		Finished: "finished",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
