// Package timer implements the countdown engine: an hours/minutes/seconds
// value decremented once per interval by a single recurring schedule.
package timer

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/countdown/internal/model"
)

// RunState is the lifecycle state of the engine.
type RunState int

const (
	Idle RunState = iota
	Running
	Stopped
	Finished
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// TickResult reports what a single tick did.
type TickResult int

const (
	TickIgnored TickResult = iota
	TickDecremented
	TickFinished
)

// EventKind identifies an engine event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventTicked
	EventStopped
	EventReset
	EventFinished
	EventEdited
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTicked:
		return "ticked"
	case EventStopped:
		return "stopped"
	case EventReset:
		return "reset"
	case EventFinished:
		return "finished"
	case EventEdited:
		return "edited"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after every applied transition.
type Event struct {
	Kind     EventKind
	Duration model.Duration
	State    RunState
	At       time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithInterval sets the tick period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithClampOnEdit controls whether edited fields are forced into their
// nominal range. When false, out-of-range values are stored as typed.
func WithClampOnEdit(clamp bool) Option {
	return func(e *Engine) { e.clampOnEdit = clamp }
}

// WithInitial sets the starting value.
func WithInitial(d model.Duration) Option {
	return func(e *Engine) { e.duration = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine owns one countdown value and its run state. At most one schedule
// exists at any time, and it exists iff the state is Running.
//
// All methods are safe for concurrent use. Observers run outside the state
// lock, in transition order, and may call back into the engine.
type Engine struct {
	mu          sync.Mutex
	duration    model.Duration
	state       RunState
	schedule    Schedule
	generation  uint64
	scheduler   Scheduler
	interval    time.Duration
	clampOnEdit bool
	logger      *zap.Logger
	now         func() time.Time

	qmu       sync.Mutex
	queue     []Event
	draining  bool
	observers []func(Event)
}

// New creates an Idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		scheduler:   NewClockScheduler(),
		interval:    time.Second,
		clampOnEdit: true,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Observe registers fn for every event.
func (e *Engine) Observe(fn func(Event)) {
	e.qmu.Lock()
	defer e.qmu.Unlock()
	e.observers = append(e.observers, fn)
}

// OnFinished registers fn to run exactly once per completed countdown.
func (e *Engine) OnFinished(fn func(model.Duration)) {
	e.Observe(func(ev Event) {
		if ev.Kind == EventFinished {
			fn(ev.Duration)
		}
	})
}

// Current returns a snapshot of the countdown value.
func (e *Engine) Current() model.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// State returns the current run state.
func (e *Engine) State() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Interval returns the tick period.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// Start begins counting down. It returns false without side effects when
// the engine is already Running.
func (e *Engine) Start() bool {
	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		e.logger.Debug("start ignored", zap.String("reason", "already running"))
		return false
	}

	e.generation++
	gen := e.generation
	e.state = Running
	e.schedule = e.scheduler.Every(e.interval, func() { e.tickFrom(gen) })
	e.enqueue(EventStarted)
	d := e.duration
	e.mu.Unlock()

	e.logger.Info("timer started", zap.Stringer("remaining", d))
	e.drain()
	return true
}

// Stop pauses a running countdown, keeping the remaining value. It returns
// false when the engine is not Running. No tick is applied after Stop
// returns.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	if e.state != Running {
		e.mu.Unlock()
		e.logger.Debug("stop ignored", zap.String("reason", "not running"))
		return false
	}

	e.cancelLocked()
	e.state = Stopped
	e.enqueue(EventStopped)
	d := e.duration
	e.mu.Unlock()

	e.logger.Info("timer stopped", zap.Stringer("remaining", d))
	e.drain()
	return true
}

// Reset cancels any schedule and returns to Idle with a zero value.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	e.cancelLocked()
	e.state = Idle
	e.duration = model.Duration{}
	e.enqueue(EventReset)
	e.mu.Unlock()

	e.logger.Info("timer reset")
	e.drain()
	return true
}

// Tick applies one decrement step. The scheduler calls it once per
// interval; hosts that drive time themselves may call it directly.
func (e *Engine) Tick() TickResult {
	e.mu.Lock()
	res := e.tickLocked()
	e.mu.Unlock()

	e.drain()
	return res
}

// tickFrom is the schedule callback. Ticks from a cancelled schedule
// are dropped.
func (e *Engine) tickFrom(gen uint64) {
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	res := e.tickLocked()
	e.mu.Unlock()

	if res == TickFinished {
		e.logger.Info("timer finished")
	}
	e.drain()
}

func (e *Engine) tickLocked() TickResult {
	if e.state != Running {
		return TickIgnored
	}

	d := e.duration
	switch {
	case d.Seconds > 0:
		d.Seconds--
	case d.Minutes > 0:
		d.Minutes--
		d.Seconds = 59
	case d.Hours > 0:
		d.Hours--
		d.Minutes = 59
		d.Seconds = 59
	default:
		// The tick that finds zero only terminates; it never decrements.
		e.cancelLocked()
		e.state = Finished
		e.enqueue(EventFinished)
		return TickFinished
	}

	e.duration = d
	e.enqueue(EventTicked)
	return TickDecremented
}

// SetField applies a field-edit event. It returns the unchanged value and
// false when the field name is unknown, the raw value is not a
// non-negative integer, or the engine is Running. raw must be an integer
// in full: "12abc" is rejected rather than read as 12.
//
// Values above a field's nominal maximum are clamped to it unless the
// engine was built with WithClampOnEdit(false), in which case they are
// stored as typed. Clamping is on by default.
func (e *Engine) SetField(name, raw string) (model.Duration, bool) {
	f, ok := model.ParseField(name)
	if !ok {
		e.logger.Debug("edit ignored", zap.String("field", name), zap.String("reason", "unknown field"))
		return e.Current(), false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		e.logger.Debug("edit ignored", zap.String("field", name), zap.String("reason", "not an integer"))
		return e.Current(), false
	}
	return e.Set(f, v)
}

// Set stores v into field f under the same guards as SetField.
func (e *Engine) Set(f model.Field, v int) (model.Duration, bool) {
	if f < model.FieldHours || f > model.FieldSeconds {
		return e.Current(), false
	}

	e.mu.Lock()
	if e.state == Running || v < 0 {
		d := e.duration
		e.mu.Unlock()
		return d, false
	}

	if e.clampOnEdit && v > f.Max() {
		v = f.Max()
	}
	e.duration = e.duration.With(f, v)
	e.editedLocked()
	d := e.duration
	e.mu.Unlock()

	e.drain()
	return d, true
}

// SetDuration replaces the whole value under the same guards as Set.
func (e *Engine) SetDuration(d model.Duration) bool {
	if d.Hours < 0 || d.Minutes < 0 || d.Seconds < 0 {
		return false
	}

	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return false
	}
	if e.clampOnEdit {
		d = d.Clamp()
	}
	e.duration = d
	e.editedLocked()
	e.mu.Unlock()

	e.drain()
	return true
}

// editedLocked leaves Finished once the user edits the value again.
func (e *Engine) editedLocked() {
	if e.state == Finished {
		e.state = Idle
	}
	e.enqueue(EventEdited)
}

// Close releases the schedule at the end of a session.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	if e.state == Running {
		e.state = Stopped
	}
}

// cancelLocked drops the schedule and invalidates its pending ticks.
func (e *Engine) cancelLocked() {
	if e.schedule != nil {
		e.schedule.Cancel()
		e.schedule = nil
	}
	e.generation++
}

// enqueue records an event while e.mu is held so queue order matches
// transition order.
func (e *Engine) enqueue(kind EventKind) {
	ev := Event{
		Kind:     kind,
		Duration: e.duration,
		State:    e.state,
		At:       e.now(),
	}
	e.qmu.Lock()
	e.queue = append(e.queue, ev)
	e.qmu.Unlock()
}

// drain delivers queued events. Only one caller delivers at a time;
// events queued by observers are picked up by the active loop.
func (e *Engine) drain() {
	e.qmu.Lock()
	if e.draining {
		e.qmu.Unlock()
		return
	}
	e.draining = true

	for len(e.queue) > 0 {
		ev := e.queue[0]
		e.queue = e.queue[1:]
		observers := e.observers
		e.qmu.Unlock()

		for _, fn := range observers {
			fn(ev)
		}

		e.qmu.Lock()
	}

	e.draining = false
	e.qmu.Unlock()
}
