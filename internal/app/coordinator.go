package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/insights"
	"github.com/xvierd/focusflow/internal/persist"
	"github.com/xvierd/focusflow/internal/ports"
	"github.com/xvierd/focusflow/internal/services"
	"github.com/xvierd/focusflow/internal/stats"
	"github.com/xvierd/focusflow/internal/timer"
)

// Deps are the collaborators a Coordinator needs. Only Store is required.
type Deps struct {
	Store    ports.KeyValueStore
	Notifier ports.Notifier
	Audio    ports.AudioPlayer
	Git      ports.GitDetector
	WorkDir  string

	// SoundPath resolves a catalogue sound to something Audio can load.
	SoundPath func(domain.Sound) string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Coordinator owns the application state and mediates between the timer
// engine, the session store, storage and the UI. All methods are safe to
// call from multiple goroutines; the UI loop and the MCP server share one.
type Coordinator struct {
	mu    sync.Mutex
	state State

	engine     *timer.Engine
	meditation *timer.Countdown
	medType    domain.MeditationType
	medMinutes int

	sessions   *services.SessionStore
	settings   *persist.Value[domain.AppSettings]
	timerValue *persist.Value[domain.TimerState]
	weeklyGoal *persist.Value[int]

	store     ports.KeyValueStore
	notifier  ports.Notifier
	audio     ports.AudioPlayer
	soundPath func(domain.Sound) string
	clock     func() time.Time

	// ctx is used for persistence triggered from engine callbacks.
	ctx context.Context
	// external suppresses write-back while applying another instance's
	// changes.
	external  bool
	listeners []func(State)
}

// Ensure Coordinator implements ports.StateProvider.
var _ ports.StateProvider = (*Coordinator)(nil)

// New creates a coordinator with default state. Call Bootstrap to load
// persisted data.
func New(d Deps) *Coordinator {
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}

	c := &Coordinator{
		state:     InitialState(),
		sessions:  services.NewSessionStore(d.Store),
		store:     d.Store,
		notifier:  d.Notifier,
		audio:     d.Audio,
		soundPath: d.SoundPath,
		clock:     clock,
		ctx:       context.Background(),
	}
	c.sessions.SetClock(clock)
	if d.Git != nil {
		c.sessions.SetGitDetector(d.Git, d.WorkDir)
	}

	c.settings = persist.NewValue(d.Store, persist.KeySettings, domain.DefaultSettings)
	// Zero marks the goal key as unset so the settings document stays in
	// charge.
	c.weeklyGoal = persist.NewValue(d.Store, persist.KeyWeeklyGoal, func() int { return 0 })
	c.timerValue = persist.NewValue(d.Store, persist.KeyTimer, func() domain.TimerState {
		return domain.NewTimerState(c.state.Settings)
	})

	c.engine = timer.New(timer.DurationsFrom(c.state.Settings))
	c.engine.OnChange(c.onTimerChange)
	c.engine.OnComplete(c.onIntervalComplete)

	c.meditation = timer.NewCountdown(c.onMeditationComplete)

	return c
}

// Bootstrap loads settings, sessions and timer state from storage. A timer
// that was running when the last process exited comes back paused.
func (c *Coordinator) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx

	settings := c.settings.Load(ctx)
	if err := settings.Validate(); err != nil {
		slog.Warn("persisted settings are invalid, using defaults", "error", err)
		settings = domain.DefaultSettings()
	}
	// The dedicated goal key wins when it holds a usable value.
	if goal := c.weeklyGoal.Load(ctx); goal > 0 {
		settings.WeeklyGoal = goal
	}
	sessions := c.sessions.Load(ctx)

	// The timer default depends on the loaded settings.
	c.state.Settings = settings
	t := c.timerValue.Load(ctx)
	if t.IsActive {
		t.IsPaused = true
	}

	c.external = true
	c.engine.SetDurations(timer.DurationsFrom(settings))
	c.engine.Restore(t)
	c.external = false
	restored := c.engine.State()

	_ = c.reduce(LoadPersistedState{Settings: &settings, Sessions: sessions, Timer: &restored})
	if err := c.reduce(SetSelectedSound{ID: settings.BackgroundSound}); err != nil {
		slog.Warn("ignoring unknown background sound", "error", err)
	}
	c.recompute()
	snapshot := c.state
	c.mu.Unlock()

	slog.Info("state loaded", "sessions", len(sessions), "mode", restored.Mode, "active", restored.IsActive)
	c.notify(snapshot)
}

// Watch applies writes made by other instances until ctx is cancelled.
func (c *Coordinator) Watch(ctx context.Context) {
	c.store.Subscribe(ctx, c.applyExternal)
}

// OnChange registers fn to be called with a snapshot after every change.
// fn must not call back into the coordinator synchronously.
func (c *Coordinator) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns a snapshot of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies cmd and performs its side effects.
func (c *Coordinator) Dispatch(ctx context.Context, cmd Command) error {
	c.mu.Lock()
	err := c.dispatchLocked(ctx, cmd)
	snapshot := c.state
	c.mu.Unlock()

	if err == nil {
		c.notify(snapshot)
	}
	return err
}

func (c *Coordinator) dispatchLocked(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case SetTimerState:
		// The engine is the source of truth; onTimerChange reduces.
		c.engine.Restore(cmd.Timer)
		return nil

	case ResetTimer:
		c.engine.Reset()
		return nil

	case AddSession:
		if err := cmd.Record.Validate(); err != nil {
			return err
		}
		stored := c.sessions.Append(ctx, cmd.Record)
		if err := c.reduce(AddSession{Record: stored}); err != nil {
			return err
		}
		c.recompute()
		return nil

	case UpdateSettings:
		if err := c.reduce(cmd); err != nil {
			return fmt.Errorf("settings rejected: %w", err)
		}
		c.settings.Save(ctx, c.state.Settings)
		c.weeklyGoal.Save(ctx, c.state.Settings.WeeklyGoal)
		c.engine.SetDurations(timer.DurationsFrom(c.state.Settings))
		c.recompute()
		return nil

	case LoadPersistedState:
		if err := c.reduce(cmd); err != nil {
			return err
		}
		if cmd.Sessions != nil {
			c.sessions.Replace(cmd.Sessions)
		}
		if cmd.Settings != nil {
			c.engine.SetDurations(timer.DurationsFrom(c.state.Settings))
		}
		if cmd.Timer != nil {
			prev := c.external
			c.external = true
			c.engine.Restore(*cmd.Timer)
			c.external = prev
		}
		c.recompute()
		return nil

	default:
		return c.reduce(cmd)
	}
}

// reduce replaces the state with Reduce's result.
func (c *Coordinator) reduce(cmd Command) error {
	next, err := Reduce(c.state, cmd)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Recompute rebuilds stats and insights from the session list.
func (c *Coordinator) Recompute() {
	c.mu.Lock()
	c.recompute()
	snapshot := c.state
	c.mu.Unlock()
	c.notify(snapshot)
}

func (c *Coordinator) recompute() {
	now := c.clock()
	s, err := stats.Compute(c.state.Sessions, c.state.Settings.WeeklyGoal, now)
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		return
	}
	_ = c.reduce(UpdateStats{Stats: s, Insights: insights.Generate(s, now)})
}

func (c *Coordinator) notify(s State) {
	c.mu.Lock()
	listeners := c.listeners
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// applyExternal handles a write from another instance. Keys this
// coordinator does not own are ignored. Nothing is written back.
func (c *Coordinator) applyExternal(change ports.Change) {
	c.mu.Lock()

	var cmd LoadPersistedState
	switch change.Key {
	case c.settings.Key():
		s, ok := c.settings.Decode(change.Value)
		if !ok {
			c.mu.Unlock()
			return
		}
		cmd.Settings = &s

	case c.weeklyGoal.Key():
		goal, ok := c.weeklyGoal.Decode(change.Value)
		if !ok || goal <= 0 || goal == c.state.Settings.WeeklyGoal {
			c.mu.Unlock()
			return
		}
		s := c.state.Settings.Clone()
		s.WeeklyGoal = goal
		cmd.Settings = &s

	case c.sessions.Key():
		records, ok := c.sessions.Decode(change.Value)
		if !ok {
			c.mu.Unlock()
			return
		}
		cmd.Sessions = records

	case c.timerValue.Key():
		// A locally running timer wins; otherwise mirror the other
		// instance without ticking it here.
		if c.engine.Running() {
			c.mu.Unlock()
			return
		}
		t, ok := c.timerValue.Decode(change.Value)
		if !ok {
			c.mu.Unlock()
			return
		}
		if t.IsActive {
			t.IsPaused = true
		}
		cmd.Timer = &t

	default:
		c.mu.Unlock()
		return
	}

	c.external = true
	err := c.dispatchLocked(c.ctx, cmd)
	c.external = false
	snapshot := c.state
	c.mu.Unlock()

	if err != nil {
		slog.Warn("ignoring external update", "key", change.Key, "error", err)
		return
	}
	slog.Debug("applied external update", "key", change.Key)
	c.notify(snapshot)
}

// onTimerChange mirrors the engine into state and persists it.
func (c *Coordinator) onTimerChange(t domain.TimerState) {
	c.state.Timer = t
	if !c.external {
		c.timerValue.Save(c.ctx, t)
	}
}

// onIntervalComplete logs finished work intervals and alerts the user.
func (c *Coordinator) onIntervalComplete(finished domain.TimerMode) {
	slog.Info("interval complete", "mode", finished, "cycles", c.engine.State().CyclesCompleted)

	if finished == domain.ModeWork {
		record := c.sessions.LogPomodoro(c.ctx, c.state.Settings.PomodoroLength)
		if err := c.reduce(AddSession{Record: record}); err != nil {
			slog.Error("failed to add session to state", "error", err)
		}
		c.recompute()
	}

	c.alert(domain.CompletionNotification(finished))
}

func (c *Coordinator) alert(n domain.Notification) {
	if c.notifier == nil {
		return
	}
	if c.state.Settings.Notifications && c.notifier.RequestPermission() {
		if err := c.notifier.Show(n.Title, n.Body, ""); err != nil {
			slog.Warn("failed to show notification", "error", err)
		}
	}
	if c.state.Settings.SoundEnabled {
		if err := c.notifier.Beep(); err != nil {
			slog.Debug("failed to play completion sound", "error", err)
		}
	}
}
