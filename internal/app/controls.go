package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/insights"
	"github.com/xvierd/focusflow/internal/stats"
)

// TimerTick is a handle on the current tick chain.
type TimerTick struct {
	Generation uint64
	Running    bool
}

// timerOp runs op against the engine and notifies listeners.
func (c *Coordinator) timerOp(op func()) TimerTick {
	c.mu.Lock()
	op()
	tick := TimerTick{Generation: c.engine.Generation(), Running: c.engine.Running()}
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
	return tick
}

// StartTimer starts or continues the pomodoro timer.
func (c *Coordinator) StartTimer() TimerTick { return c.timerOp(c.engine.Start) }

// PauseTimer pauses a running timer.
func (c *Coordinator) PauseTimer() TimerTick { return c.timerOp(c.engine.Pause) }

// ResumeTimer resumes a paused timer.
func (c *Coordinator) ResumeTimer() TimerTick { return c.timerOp(c.engine.Resume) }

// ToggleTimer starts a stopped or paused timer and pauses a running one.
func (c *Coordinator) ToggleTimer() TimerTick {
	return c.timerOp(func() {
		if c.engine.Running() {
			c.engine.Pause()
		} else {
			c.engine.Start()
		}
	})
}

// StopTimer stops the timer and rewinds the current interval.
func (c *Coordinator) StopTimer() TimerTick { return c.timerOp(c.engine.Stop) }

// SwitchMode jumps to mode and stops the timer.
func (c *Coordinator) SwitchMode(mode domain.TimerMode) TimerTick {
	return c.timerOp(func() { c.engine.SwitchMode(mode) })
}

// TimerGeneration returns the engine's current tick chain handle.
func (c *Coordinator) TimerGeneration() TimerTick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TimerTick{Generation: c.engine.Generation(), Running: c.engine.Running()}
}

// Tick advances the timer if gen is still current. It returns false when
// the tick chain should end.
func (c *Coordinator) Tick(gen uint64) bool {
	c.mu.Lock()
	if gen != c.engine.Generation() || !c.engine.Running() {
		c.mu.Unlock()
		return false
	}
	c.engine.Tick()
	alive := gen == c.engine.Generation() && c.engine.Running()
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
	return alive
}

// TimerProgress returns the elapsed share of the interval in [0, 100].
func (c *Coordinator) TimerProgress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Progress()
}

// MeditationStatus describes the meditation countdown.
type MeditationStatus struct {
	Type       domain.MeditationType
	Minutes    int
	Remaining  int
	Active     bool
	Paused     bool
	Progress   float64
	Generation uint64
}

// StartMeditation begins a guided meditation of minutes.
func (c *Coordinator) StartMeditation(minutes int, kind domain.MeditationType) (MeditationStatus, error) {
	if minutes <= 0 {
		return MeditationStatus{}, fmt.Errorf("%w: meditation must last at least a minute", domain.ErrInvalidDuration)
	}
	if _, ok := domain.FindMeditationType(kind); !ok {
		return MeditationStatus{}, fmt.Errorf("%w: %q", domain.ErrUnknownMeditation, kind)
	}

	c.mu.Lock()
	c.medType = kind
	c.medMinutes = minutes
	c.meditation.Begin(minutes * 60)
	status := c.meditationStatus()
	c.mu.Unlock()

	slog.Info("meditation started", "type", kind, "minutes", minutes)
	return status, nil
}

// ToggleMeditation pauses or resumes the meditation countdown.
func (c *Coordinator) ToggleMeditation() MeditationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.meditation.Paused() {
		c.meditation.Resume()
	} else {
		c.meditation.Pause()
	}
	return c.meditationStatus()
}

// CancelMeditation abandons the meditation without logging it.
func (c *Coordinator) CancelMeditation() MeditationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meditation.Cancel()
	return c.meditationStatus()
}

// TickMeditation advances the meditation if gen is still current.
func (c *Coordinator) TickMeditation(gen uint64) bool {
	c.mu.Lock()
	if gen != c.meditation.Generation() || !c.meditation.Running() {
		c.mu.Unlock()
		return false
	}
	c.meditation.Tick()
	alive := gen == c.meditation.Generation() && c.meditation.Running()
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
	return alive
}

// Meditation returns the meditation countdown status.
func (c *Coordinator) Meditation() MeditationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meditationStatus()
}

func (c *Coordinator) meditationStatus() MeditationStatus {
	return MeditationStatus{
		Type:       c.medType,
		Minutes:    c.medMinutes,
		Remaining:  c.meditation.Remaining(),
		Active:     c.meditation.Active(),
		Paused:     c.meditation.Paused(),
		Progress:   c.meditation.Progress(),
		Generation: c.meditation.Generation(),
	}
}

// onMeditationComplete runs inside TickMeditation with the lock held.
func (c *Coordinator) onMeditationComplete() {
	record := c.sessions.LogMeditation(c.ctx, c.medMinutes, c.medType)
	if err := c.reduce(AddSession{Record: record}); err != nil {
		slog.Error("failed to add meditation to state", "error", err)
	}
	c.recompute()
	c.alert(domain.MeditationCompleteNotification)
}

// PlaySound loads and loops a catalogue sound. Audio failures leave the
// state as not playing and are returned for display only.
func (c *Coordinator) PlaySound(ctx context.Context, id string) error {
	sound, ok := domain.FindSound(id)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSound, id)
	}
	if err := c.Dispatch(ctx, SetSelectedSound{ID: &id}); err != nil {
		return err
	}
	if c.audio == nil || c.soundPath == nil {
		return c.Dispatch(ctx, SetPlaying{Playing: false})
	}

	if err := c.audio.Load(c.soundPath(sound)); err != nil {
		slog.Warn("failed to load sound", "sound", id, "error", err)
		_ = c.Dispatch(ctx, SetPlaying{Playing: false})
		return err
	}
	if err := c.audio.Play(true); err != nil {
		slog.Warn("failed to play sound", "sound", id, "error", err)
		_ = c.Dispatch(ctx, SetPlaying{Playing: false})
		return err
	}
	return c.Dispatch(ctx, SetPlaying{Playing: true})
}

// ToggleSound pauses a playing sound or replays the selected one.
func (c *Coordinator) ToggleSound(ctx context.Context) error {
	s := c.State()
	if s.IsPlaying {
		c.StopSound(ctx)
		return nil
	}
	if s.SelectedSound == nil {
		return nil
	}
	return c.PlaySound(ctx, *s.SelectedSound)
}

// StopSound pauses ambient audio.
func (c *Coordinator) StopSound(ctx context.Context) {
	if c.audio != nil {
		c.audio.Pause()
	}
	_ = c.Dispatch(ctx, SetPlaying{Playing: false})
}

// SetVolume forwards the level to the audio player.
func (c *Coordinator) SetVolume(v float64) {
	if c.audio != nil {
		c.audio.SetVolume(v)
	}
}

// Stats returns the current statistics.
func (c *Coordinator) Stats(context.Context) (domain.UserStats, error) {
	s := c.State()
	return stats.Compute(s.Sessions, s.Settings.WeeklyGoal, c.clock())
}

// Insights returns the insights for the current statistics.
func (c *Coordinator) Insights(ctx context.Context) ([]domain.Insight, error) {
	s, err := c.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return insights.Generate(s, c.clock()), nil
}

// Series returns the weekly and monthly chart series.
func (c *Coordinator) Series() (weekly, monthly []domain.ChartBucket) {
	s := c.State()
	now := c.clock()
	return stats.WeeklySeries(s.Sessions, now), stats.MonthlySeries(s.Sessions, now)
}

// Sessions returns the session log, oldest first.
func (c *Coordinator) Sessions(context.Context) []domain.SessionRecord {
	return c.sessions.All()
}

// LogSession appends a manually entered session.
func (c *Coordinator) LogSession(ctx context.Context, record domain.SessionRecord) (domain.SessionRecord, error) {
	if err := record.Validate(); err != nil {
		return domain.SessionRecord{}, err
	}

	c.mu.Lock()
	stored := c.sessions.Append(ctx, record)
	err := c.reduce(AddSession{Record: stored})
	c.recompute()
	snapshot := c.state
	c.mu.Unlock()

	if err != nil {
		return domain.SessionRecord{}, err
	}
	c.notify(snapshot)
	return stored, nil
}

// Settings returns the active settings.
func (c *Coordinator) Settings(context.Context) domain.AppSettings {
	return c.State().Settings.Clone()
}

// UpdateSettings validates and persists new settings. Invalid settings are
// rejected and the previous ones kept.
func (c *Coordinator) UpdateSettings(ctx context.Context, settings domain.AppSettings) error {
	return c.Dispatch(ctx, UpdateSettings{Settings: settings})
}
