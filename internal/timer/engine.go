// Package timer implements the pomodoro countdown state machine.
//
// The engine never schedules anything itself. Whoever owns it calls Tick
// once per elapsed second and uses Generation as a cancellation token: the
// generation changes on every transition into or out of the running state,
// so a tick scheduled under an older generation must be dropped.
package timer

import (
	"github.com/xvierd/focusflow/internal/domain"
)

// Durations holds the interval lengths in seconds and the long break cadence.
type Durations struct {
	Work                  int
	ShortBreak            int
	LongBreak             int
	CyclesBeforeLongBreak int
}

// DurationsFrom converts settings (minutes) to engine durations (seconds).
func DurationsFrom(s domain.AppSettings) Durations {
	return Durations{
		Work:                  s.Seconds(domain.ModeWork),
		ShortBreak:            s.Seconds(domain.ModeShortBreak),
		LongBreak:             s.Seconds(domain.ModeLongBreak),
		CyclesBeforeLongBreak: s.CyclesBeforeLongBreak,
	}
}

// Of returns the configured length of mode.
func (d Durations) Of(mode domain.TimerMode) int {
	switch mode {
	case domain.ModeShortBreak:
		return d.ShortBreak
	case domain.ModeLongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

// Engine is a countdown over work, short break and long break intervals.
// It is not safe for concurrent use; the UI loop owns it.
type Engine struct {
	durations  Durations
	state      domain.TimerState
	generation uint64

	onComplete []func(finished domain.TimerMode)
	onTick     []func(remaining int)
	onChange   []func(domain.TimerState)
}

// New creates an inactive engine at the start of a work interval.
func New(d Durations) *Engine {
	e := &Engine{durations: d}
	e.state = e.fresh()
	return e
}

func (e *Engine) fresh() domain.TimerState {
	return domain.TimerState{
		RemainingSeconds: e.durations.Work,
		Mode:             domain.ModeWork,
	}
}

// OnComplete registers fn to run when an interval finishes.
func (e *Engine) OnComplete(fn func(finished domain.TimerMode)) {
	e.onComplete = append(e.onComplete, fn)
}

// OnTick registers fn to run after every effective tick.
func (e *Engine) OnTick(fn func(remaining int)) {
	e.onTick = append(e.onTick, fn)
}

// OnChange registers fn to run after every mutation, ticks included.
func (e *Engine) OnChange(fn func(domain.TimerState)) {
	e.onChange = append(e.onChange, fn)
}

// State returns a snapshot of the current state.
func (e *Engine) State() domain.TimerState {
	return e.state
}

// Durations returns the configured interval lengths.
func (e *Engine) Durations() Durations {
	return e.durations
}

// Generation identifies the current run. It changes whenever the engine
// starts, stops running, or is restored.
func (e *Engine) Generation() uint64 {
	return e.generation
}

// Running reports whether Tick would advance the countdown.
func (e *Engine) Running() bool {
	return e.state.Running()
}

// Start begins or continues the countdown without resetting remaining time.
func (e *Engine) Start() {
	if e.state.Running() {
		return
	}
	if e.state.IsPaused {
		e.state.IsPaused = false
	} else {
		e.state.IsActive = true
		e.state.IsPaused = false
	}
	e.transition()
}

// Pause halts the countdown. No-op unless active.
func (e *Engine) Pause() {
	if !e.state.IsActive || e.state.IsPaused {
		return
	}
	e.state.IsPaused = true
	e.transition()
}

// Resume clears the pause flag. No-op unless active.
func (e *Engine) Resume() {
	if !e.state.IsActive || !e.state.IsPaused {
		return
	}
	e.state.IsPaused = false
	e.transition()
}

// Stop deactivates the timer and rewinds the current interval. Mode and
// cycle count are left alone.
func (e *Engine) Stop() {
	e.state.IsActive = false
	e.state.IsPaused = false
	e.state.RemainingSeconds = e.durations.Of(e.state.Mode)
	e.transition()
}

// Reset returns to an inactive work interval with no completed cycles.
func (e *Engine) Reset() {
	e.state = e.fresh()
	e.transition()
}

// SwitchMode jumps to target and stops the timer.
func (e *Engine) SwitchMode(target domain.TimerMode) {
	e.state.Mode = target
	e.state.RemainingSeconds = e.durations.Of(target)
	e.state.IsActive = false
	e.state.IsPaused = false
	e.transition()
}

// Restore replaces the state, typically with one loaded from storage.
// Unknown modes fall back to work and remaining time is clamped to the
// interval length.
func (e *Engine) Restore(s domain.TimerState) {
	switch s.Mode {
	case domain.ModeWork, domain.ModeShortBreak, domain.ModeLongBreak:
	default:
		s.Mode = domain.ModeWork
	}
	full := e.durations.Of(s.Mode)
	if s.RemainingSeconds <= 0 || s.RemainingSeconds > full {
		s.RemainingSeconds = full
	}
	if s.CyclesCompleted < 0 {
		s.CyclesCompleted = 0
	}
	if !s.IsActive {
		s.IsPaused = false
	}
	e.state = s
	e.transition()
}

// SetDurations applies new interval lengths. An inactive engine is rewound
// to the new length of its current mode; a running interval keeps its
// remaining time, clamped to the new length.
func (e *Engine) SetDurations(d Durations) {
	e.durations = d
	full := d.Of(e.state.Mode)
	if !e.state.IsActive || e.state.RemainingSeconds > full {
		e.state.RemainingSeconds = full
	}
	e.changed()
}

// Tick advances the countdown by one second. It does nothing unless the
// timer is active and not paused.
func (e *Engine) Tick() {
	if !e.state.Running() {
		return
	}

	e.state.RemainingSeconds--
	if e.state.RemainingSeconds <= 0 {
		e.complete()
	}

	for _, fn := range e.onTick {
		fn(e.state.RemainingSeconds)
	}
	e.changed()
}

// complete finishes the current interval and stops on the next one.
func (e *Engine) complete() {
	finished := e.state.Mode
	next := domain.ModeWork

	if finished == domain.ModeWork {
		e.state.CyclesCompleted++
		next = domain.ModeShortBreak
		n := e.durations.CyclesBeforeLongBreak
		if n > 0 && e.state.CyclesCompleted%n == 0 {
			next = domain.ModeLongBreak
		}
	}

	e.state.Mode = next
	e.state.RemainingSeconds = e.durations.Of(next)
	e.state.IsActive = false
	e.state.IsPaused = false
	e.generation++

	for _, fn := range e.onComplete {
		fn(finished)
	}
}

// Progress returns the elapsed share of the interval in [0, 100].
func (e *Engine) Progress() float64 {
	full := e.durations.Of(e.state.Mode)
	if full <= 0 {
		return 0
	}
	p := 100 * float64(full-e.state.RemainingSeconds) / float64(full)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func (e *Engine) transition() {
	e.generation++
	e.changed()
}

func (e *Engine) changed() {
	for _, fn := range e.onChange {
		fn(e.state)
	}
}
