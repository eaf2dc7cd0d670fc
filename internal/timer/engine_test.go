package timer_test

import (
	"testing"
	"time"

	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/timer"
	"github.com/nhle/countdown/internal/timer/timertest"
)

func newEngine(t *testing.T, d model.Duration, opts ...timer.Option) (*timer.Engine, *timertest.Scheduler) {
	t.Helper()
	sched := timertest.New()
	opts = append([]timer.Option{timer.WithScheduler(sched), timer.WithInitial(d)}, opts...)
	e := timer.New(opts...)
	t.Cleanup(e.Close)
	return e, sched
}

func TestTickBorrowing(t *testing.T) {
	tests := []struct {
		name string
		from model.Duration
		want model.Duration
	}{
		{"seconds", model.NewDuration(0, 0, 10), model.NewDuration(0, 0, 9)},
		{"minute boundary", model.NewDuration(0, 1, 0), model.NewDuration(0, 0, 59)},
		{"hour boundary", model.NewDuration(1, 0, 0), model.NewDuration(0, 59, 59)},
		{"mixed", model.NewDuration(2, 30, 0), model.NewDuration(2, 29, 59)},
		{"unclamped seconds", model.NewDuration(0, 0, 99), model.NewDuration(0, 0, 98)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sched := newEngine(t, tt.from)
			e.Start()
			sched.Fire()

			got := e.Current()
			if got != tt.want {
				t.Errorf("after one tick: got %v, want %v", got, tt.want)
			}
			if got.TotalSeconds() != tt.from.TotalSeconds()-1 {
				t.Errorf("total seconds decreased by %d, want 1",
					tt.from.TotalSeconds()-got.TotalSeconds())
			}
			if e.State() != timer.Running {
				t.Errorf("state = %v, want running", e.State())
			}
		})
	}
}

func TestTickAtZeroFinishesWithoutDecrement(t *testing.T) {
	e, sched := newEngine(t, model.Duration{})

	finished := 0
	e.OnFinished(func(model.Duration) { finished++ })

	if !e.Start() {
		t.Fatal("Start should apply from idle")
	}
	sched.Fire()

	if finished != 1 {
		t.Fatalf("finished callback fired %d times, want 1", finished)
	}
	if e.State() != timer.Finished {
		t.Errorf("state = %v, want finished", e.State())
	}
	if !e.Current().IsZero() {
		t.Errorf("duration = %v, want 00:00:00", e.Current())
	}
	if sched.Active() != 0 {
		t.Errorf("active schedules = %d, want 0", sched.Active())
	}
}

func TestCountdownFromThreeSeconds(t *testing.T) {
	e, sched := newEngine(t, model.NewDuration(0, 0, 3))

	finished := 0
	e.OnFinished(func(model.Duration) { finished++ })
	e.Start()

	// Three ticks consume the value, the fourth detects zero.
	for i := 0; i < 3; i++ {
		sched.Fire()
		if finished != 0 {
			t.Fatalf("finished after %d ticks", i+1)
		}
	}
	if !e.Current().IsZero() {
		t.Fatalf("after 3 ticks: %v", e.Current())
	}

	sched.Fire()
	if finished != 1 {
		t.Fatalf("finished = %d, want 1", finished)
	}

	// The schedule is gone; nothing fires any more.
	if n := sched.FireN(3); n != 0 {
		t.Errorf("%d ticks fired after finish", n)
	}
	if finished != 1 {
		t.Errorf("finished = %d after extra firings, want 1", finished)
	}
}

func TestStartIsGuarded(t *testing.T) {
	e, sched := newEngine(t, model.NewDuration(0, 0, 10))

	if !e.Start() {
		t.Fatal("first Start should apply")
	}
	if e.Start() {
		t.Fatal("second Start should be ignored")
	}
	if sched.Installed() != 1 {
		t.Fatalf("installed schedules = %d, want 1", sched.Installed())
	}

	if n := sched.FireN(2); n != 2 {
		t.Errorf("callbacks = %d, want 2", n)
	}
	if got := e.Current(); got != model.NewDuration(0, 0, 8) {
		t.Errorf("after two firings: %v, want 00:00:08", got)
	}
}

func TestStop(t *testing.T) {
	e, sched := newEngine(t, model.NewDuration(0, 0, 10))

	if e.Stop() {
		t.Error("Stop from idle should be ignored")
	}

	e.Start()
	sched.Fire()
	if !e.Stop() {
		t.Fatal("Stop while running should apply")
	}
	if e.State() != timer.Stopped {
		t.Errorf("state = %v, want stopped", e.State())
	}
	if sched.Active() != 0 {
		t.Errorf("active schedules = %d", sched.Active())
	}

	// A ticker that lost the race with Stop must not change anything.
	sched.FireStale()
	if got := e.Current(); got != model.NewDuration(0, 0, 9) {
		t.Errorf("stale tick applied: %v", got)
	}

	if !e.Start() {
		t.Fatal("Start from stopped should apply")
	}
	sched.Fire()
	if got := e.Current(); got != model.NewDuration(0, 0, 8) {
		t.Errorf("resumed countdown = %v", got)
	}
}

func TestResetFromAnyState(t *testing.T) {
	setups := map[string]func(e *timer.Engine, s *timertest.Scheduler){
		"idle":    func(*timer.Engine, *timertest.Scheduler) {},
		"running": func(e *timer.Engine, _ *timertest.Scheduler) { e.Start() },
		"stopped": func(e *timer.Engine, _ *timertest.Scheduler) { e.Start(); e.Stop() },
		"finished": func(e *timer.Engine, s *timertest.Scheduler) {
			e.SetDuration(model.Duration{})
			e.Start()
			s.Fire()
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			e, sched := newEngine(t, model.NewDuration(1, 2, 3))
			setup(e, sched)

			if !e.Reset() {
				t.Fatal("Reset should always apply")
			}
			if e.State() != timer.Idle {
				t.Errorf("state = %v, want idle", e.State())
			}
			if !e.Current().IsZero() {
				t.Errorf("duration = %v, want zero", e.Current())
			}
			if sched.Active() != 0 {
				t.Errorf("active schedules = %d", sched.Active())
			}
			sched.FireStale()
			if !e.Current().IsZero() {
				t.Errorf("stale tick applied after reset: %v", e.Current())
			}
		})
	}
}

func TestSetFieldWhileRunningIsRejected(t *testing.T) {
	e, _ := newEngine(t, model.NewDuration(0, 5, 0))
	e.Start()

	for _, name := range []string{"hours", "minutes", "seconds", "bogus"} {
		for _, raw := range []string{"0", "7", "59", "x"} {
			got, ok := e.SetField(name, raw)
			if ok {
				t.Errorf("SetField(%q, %q) applied while running", name, raw)
			}
			if got != model.NewDuration(0, 5, 0) {
				t.Errorf("SetField(%q, %q) changed value to %v", name, raw, got)
			}
		}
	}
}

func TestSetField(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		raw    string
		clamp  bool
		want   model.Duration
		wantOK bool
	}{
		{"hours", "hours", "2", true, model.NewDuration(2, 0, 0), true},
		{"trimmed", "minutes", " 15 ", true, model.NewDuration(0, 15, 0), true},
		{"clamped", "seconds", "99", true, model.NewDuration(0, 0, 59), true},
		{"unclamped", "minutes", "99", false, model.NewDuration(0, 99, 0), true},
		{"unknown field", "days", "1", true, model.Duration{}, false},
		{"not integer", "hours", "abc", true, model.Duration{}, false},
		{"trailing garbage", "hours", "12abc", true, model.Duration{}, false},
		{"empty", "hours", "", true, model.Duration{}, false},
		{"negative", "seconds", "-1", true, model.Duration{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(t, model.Duration{}, timer.WithClampOnEdit(tt.clamp))
			got, ok := e.SetField(tt.field, tt.raw)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if e.Current() != tt.want {
				t.Errorf("Current = %v, want %v", e.Current(), tt.want)
			}
		})
	}
}

func TestEditAfterFinishReturnsToIdle(t *testing.T) {
	e, sched := newEngine(t, model.Duration{})
	e.Start()
	sched.Fire()
	if e.State() != timer.Finished {
		t.Fatalf("state = %v", e.State())
	}

	if _, ok := e.SetField("seconds", "5"); !ok {
		t.Fatal("edit after finish should apply")
	}
	if e.State() != timer.Idle {
		t.Errorf("state = %v, want idle", e.State())
	}
}

func TestFinishedFiresOncePerCountdown(t *testing.T) {
	e, sched := newEngine(t, model.NewDuration(0, 0, 1))

	finished := 0
	e.OnFinished(func(model.Duration) { finished++ })

	e.Start()
	sched.FireN(5)
	e.SetField("seconds", "1")
	e.Start()
	sched.FireN(5)

	if finished != 2 {
		t.Errorf("finished = %d, want 2", finished)
	}
	if sched.Installed() != 2 {
		t.Errorf("installed = %d, want 2", sched.Installed())
	}
}

func TestManualTick(t *testing.T) {
	e, _ := newEngine(t, model.NewDuration(0, 0, 1))

	if res := e.Tick(); res != timer.TickIgnored {
		t.Errorf("tick while idle = %v, want ignored", res)
	}
	e.Start()
	if res := e.Tick(); res != timer.TickDecremented {
		t.Errorf("first tick = %v", res)
	}
	if res := e.Tick(); res != timer.TickFinished {
		t.Errorf("second tick = %v", res)
	}
	if res := e.Tick(); res != timer.TickIgnored {
		t.Errorf("tick after finish = %v", res)
	}
}

func TestEventsAreOrdered(t *testing.T) {
	e, sched := newEngine(t, model.NewDuration(0, 0, 1))

	var kinds []timer.EventKind
	e.Observe(func(ev timer.Event) { kinds = append(kinds, ev.Kind) })

	e.Start()
	sched.FireN(2)
	e.Reset()

	want := []timer.EventKind{
		timer.EventStarted,
		timer.EventTicked,
		timer.EventFinished,
		timer.EventReset,
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestObserverMayCallBack(t *testing.T) {
	e, sched := newEngine(t, model.NewDuration(0, 0, 1))

	// Restart automatically from the finished observer.
	restarted := false
	e.OnFinished(func(model.Duration) {
		if !restarted {
			restarted = true
			e.SetField("seconds", "2")
			e.Start()
		}
	})

	e.Start()
	sched.FireN(2)

	if e.State() != timer.Running {
		t.Fatalf("state = %v, want running", e.State())
	}
	if e.Current() != model.NewDuration(0, 0, 2) {
		t.Errorf("duration = %v", e.Current())
	}
	if sched.Active() != 1 {
		t.Errorf("active schedules = %d, want 1", sched.Active())
	}
}

func TestEngineWithClockScheduler(t *testing.T) {
	e := timer.New(
		timer.WithInterval(5*time.Millisecond),
		timer.WithInitial(model.NewDuration(0, 0, 2)),
	)
	defer e.Close()

	done := make(chan model.Duration, 4)
	e.OnFinished(func(d model.Duration) { done <- d })
	e.Start()

	select {
	case d := <-done:
		if !d.IsZero() {
			t.Errorf("finished with %v", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not finish")
	}

	time.Sleep(30 * time.Millisecond)
	if len(done) != 0 {
		t.Errorf("finished fired %d extra times", len(done))
	}
	if e.State() != timer.Finished {
		t.Errorf("state = %v", e.State())
	}
}

func TestEventsCarryClockTime(t *testing.T) {
	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	now := base
	e, sched := newEngine(t, model.NewDuration(0, 0, 2),
		timer.WithClock(func() time.Time { return now }))

	var stamps []time.Time
	e.Observe(func(ev timer.Event) { stamps = append(stamps, ev.At) })

	e.Start()
	now = base.Add(time.Second)
	sched.Fire()

	if len(stamps) != 2 {
		t.Fatalf("got %d events, want 2", len(stamps))
	}
	if !stamps[0].Equal(base) || !stamps[1].Equal(base.Add(time.Second)) {
		t.Errorf("event times = %v, want %v and %v", stamps, base, base.Add(time.Second))
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		name string
		opt  time.Duration
		want time.Duration
	}{
		{"configured", 250 * time.Millisecond, 250 * time.Millisecond},
		{"zero keeps default", 0, time.Second},
		{"negative keeps default", -time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := timertest.New()
			e := timer.New(timer.WithScheduler(sched), timer.WithInterval(tt.opt))
			defer e.Close()

			if got := e.Interval(); got != tt.want {
				t.Errorf("Interval() = %v, want %v", got, tt.want)
			}

			e.Start()
			if sched.Installed() != 1 {
				t.Fatalf("installed %d schedules, want 1", sched.Installed())
			}
		})
	}
}
