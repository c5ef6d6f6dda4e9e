package app

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focusflow/internal/adapters/storage"
	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/persist"
	"github.com/xvierd/focusflow/internal/ports"
)

var fixedNow = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	mu      sync.Mutex
	allowed bool
	shown   []string
	beeps   int
}

func (f *fakeNotifier) RequestPermission() bool { return f.allowed }

func (f *fakeNotifier) Show(title, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = append(f.shown, title)
	return nil
}

func (f *fakeNotifier) Beep() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beeps++
	return nil
}

type fakeAudio struct {
	loaded  string
	playing bool
	loadErr error
}

func (f *fakeAudio) Load(ref string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = ref
	return nil
}
func (f *fakeAudio) Play(bool) error   { f.playing = true; return nil }
func (f *fakeAudio) Pause()            { f.playing = false }
func (f *fakeAudio) SetVolume(float64) {}
func (f *fakeAudio) Playing() bool     { return f.playing }
func (f *fakeAudio) Close() error      { return nil }

type stubGit struct{ branch string }

func (s stubGit) Detect(context.Context, string) (*ports.GitInfo, error) {
	return &ports.GitInfo{Branch: s.branch}, nil
}

func newMemoryStore(t *testing.T) ports.KeyValueStore {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newCoordinator(t *testing.T, store ports.KeyValueStore, n *fakeNotifier) *Coordinator {
	t.Helper()
	d := Deps{Store: store, Clock: func() time.Time { return fixedNow }}
	if n != nil {
		d.Notifier = n
	}
	c := New(d)
	c.Bootstrap(context.Background())
	return c
}

func shortSettings() domain.AppSettings {
	s := domain.DefaultSettings()
	s.PomodoroLength = 1
	s.ShortBreakLength = 1
	s.LongBreakLength = 2
	s.CyclesBeforeLongBreak = 2
	return s
}

// runInterval ticks the current interval to completion.
func runInterval(t *testing.T, c *Coordinator) {
	t.Helper()
	tick := c.StartTimer()
	require.True(t, tick.Running)
	for i := 0; i < 3*60*60; i++ {
		if !c.Tick(tick.Generation) {
			return
		}
	}
	t.Fatal("interval never completed")
}

func TestCoordinator_BootstrapDefaults(t *testing.T) {
	c := newCoordinator(t, newMemoryStore(t), nil)

	s := c.State()
	assert.Equal(t, domain.DefaultSettings(), s.Settings)
	assert.Equal(t, domain.NewTimerState(s.Settings), s.Timer)
	assert.Empty(t, s.Sessions)
	assert.Equal(t, 10, s.Stats.WeeklyGoal)
}

func TestCoordinator_UpdateSettingsPersists(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	c := newCoordinator(t, store, nil)

	settings := shortSettings()
	settings.WeeklyGoal = 15
	require.NoError(t, c.UpdateSettings(ctx, settings))

	raw, ok, err := store.Get(ctx, persist.KeySettings)
	require.NoError(t, err)
	require.True(t, ok)
	want, _ := json.Marshal(settings)
	assert.JSONEq(t, string(want), string(raw))

	goal, ok, _ := store.Get(ctx, persist.KeyWeeklyGoal)
	require.True(t, ok)
	assert.Equal(t, "15", string(goal))

	// The idle timer picks up the new work length.
	assert.Equal(t, 60, c.State().Timer.RemainingSeconds)

	reopened := newCoordinator(t, store, nil)
	assert.Equal(t, settings, reopened.State().Settings)
}

func TestCoordinator_UpdateSettingsRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	c := newCoordinator(t, store, nil)

	bad := domain.DefaultSettings()
	bad.PomodoroLength = 121

	err := c.UpdateSettings(ctx, bad)
	assert.True(t, errors.Is(err, domain.ErrInvalidDuration))
	assert.Equal(t, domain.DefaultSettings(), c.State().Settings)

	_, ok, _ := store.Get(ctx, persist.KeySettings)
	assert.False(t, ok, "rejected settings must not be persisted")
}

func TestCoordinator_InvalidPersistedSettingsFallBack(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	require.NoError(t, store.Set(ctx, persist.KeySettings, []byte(`{"pomodoroLength":0}`)))

	c := newCoordinator(t, store, nil)
	assert.Equal(t, domain.DefaultSettings(), c.State().Settings)
}

func TestCoordinator_BootstrapReadsWeeklyGoalKey(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		goal     string
		want     int
	}{
		{"goal key only", "", "7", 7},
		{"goal key overrides settings", `{"weeklyGoal":12}`, "5", 5},
		{"zero goal ignored", `{"weeklyGoal":12}`, "0", 12},
		{"corrupt goal ignored", `{"weeklyGoal":12}`, `"many"`, 12},
		{"no goal key", `{"weeklyGoal":12}`, "", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newMemoryStore(t)
			if tt.settings != "" {
				require.NoError(t, store.Set(ctx, persist.KeySettings, []byte(tt.settings)))
			}
			if tt.goal != "" {
				require.NoError(t, store.Set(ctx, persist.KeyWeeklyGoal, []byte(tt.goal)))
			}

			c := newCoordinator(t, store, nil)
			s := c.State()
			assert.Equal(t, tt.want, s.Settings.WeeklyGoal)
			assert.Equal(t, tt.want, s.Stats.WeeklyGoal)
		})
	}
}

func TestCoordinator_WorkCompletionLogsSession(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	n := &fakeNotifier{allowed: true}
	c := New(Deps{Store: store, Notifier: n, Git: stubGit{branch: "main"}, Clock: func() time.Time { return fixedNow }})
	c.Bootstrap(ctx)
	require.NoError(t, c.UpdateSettings(ctx, shortSettings()))

	runInterval(t, c)

	s := c.State()
	require.Len(t, s.Sessions, 1)
	rec := s.Sessions[0]
	assert.Equal(t, domain.KindPomodoro, rec.Kind)
	assert.Equal(t, 1, rec.DurationMinutes)
	assert.True(t, rec.Completed)
	assert.Equal(t, "main", rec.GitBranch)

	assert.Equal(t, domain.ModeShortBreak, s.Timer.Mode)
	assert.False(t, s.Timer.IsActive, "the timer stops after each interval")
	assert.Equal(t, 1, s.Timer.CyclesCompleted)
	assert.Equal(t, 1, s.Stats.TotalSessions)
	assert.Equal(t, 1, s.Stats.SessionsToday)

	assert.Equal(t, []string{domain.WorkCompleteNotification.Title}, n.shown)
	assert.Equal(t, 1, n.beeps)

	var persisted []domain.SessionRecord
	raw, ok, _ := store.Get(ctx, persist.KeySessions)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Len(t, persisted, 1)
}

func TestCoordinator_BreakCompletionLogsNothing(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, newMemoryStore(t), nil)
	require.NoError(t, c.UpdateSettings(ctx, shortSettings()))

	c.SwitchMode(domain.ModeShortBreak)
	runInterval(t, c)

	s := c.State()
	assert.Empty(t, s.Sessions)
	assert.Equal(t, domain.ModeWork, s.Timer.Mode)
}

func TestCoordinator_LongBreakAfterCycles(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, newMemoryStore(t), nil)
	require.NoError(t, c.UpdateSettings(ctx, shortSettings()))

	runInterval(t, c) // work
	runInterval(t, c) // short break
	runInterval(t, c) // work

	s := c.State()
	assert.Equal(t, domain.ModeLongBreak, s.Timer.Mode)
	assert.Equal(t, 2, s.Timer.CyclesCompleted)
	assert.Len(t, s.Sessions, 2)
}

func TestCoordinator_NotificationsRespectSettings(t *testing.T) {
	ctx := context.Background()
	n := &fakeNotifier{allowed: true}
	c := newCoordinator(t, newMemoryStore(t), n)

	settings := shortSettings()
	settings.Notifications = false
	settings.SoundEnabled = false
	require.NoError(t, c.UpdateSettings(ctx, settings))

	runInterval(t, c)
	assert.Empty(t, n.shown)
	assert.Zero(t, n.beeps)
}

func TestCoordinator_StaleTickIsDropped(t *testing.T) {
	c := newCoordinator(t, newMemoryStore(t), nil)

	first := c.StartTimer()
	c.PauseTimer()
	second := c.ResumeTimer()
	require.NotEqual(t, first.Generation, second.Generation)

	before := c.State().Timer.RemainingSeconds
	assert.False(t, c.Tick(first.Generation))
	assert.Equal(t, before, c.State().Timer.RemainingSeconds)

	assert.True(t, c.Tick(second.Generation))
	assert.Equal(t, before-1, c.State().Timer.RemainingSeconds)
}

func TestCoordinator_BootstrapRestoresActiveTimerPaused(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	running := domain.TimerState{Mode: domain.ModeWork, RemainingSeconds: 600, IsActive: true, CyclesCompleted: 3}
	raw, _ := json.Marshal(running)
	require.NoError(t, store.Set(ctx, persist.KeyTimer, raw))

	c := newCoordinator(t, store, nil)
	got := c.State().Timer
	assert.Equal(t, 600, got.RemainingSeconds)
	assert.True(t, got.IsActive)
	assert.True(t, got.IsPaused)
	assert.Equal(t, 3, got.CyclesCompleted)
	assert.False(t, c.TimerGeneration().Running)

	tick := c.ToggleTimer()
	assert.True(t, tick.Running)
	assert.Equal(t, 600, c.State().Timer.RemainingSeconds)
}

func TestCoordinator_TimerChangesArePersisted(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	c := newCoordinator(t, store, nil)

	c.SwitchMode(domain.ModeLongBreak)

	raw, ok, _ := store.Get(ctx, persist.KeyTimer)
	require.True(t, ok)
	var got domain.TimerState
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, domain.ModeLongBreak, got.Mode)
	assert.Equal(t, 15*60, got.RemainingSeconds)
}

func TestCoordinator_ApplyExternal(t *testing.T) {
	ctx := context.Background()

	t.Run("settings", func(t *testing.T) {
		c := newCoordinator(t, newMemoryStore(t), nil)
		settings := shortSettings()
		raw, _ := json.Marshal(settings)
		c.applyExternal(ports.Change{Key: persist.KeySettings, Value: raw})
		assert.Equal(t, settings, c.State().Settings)
	})

	t.Run("invalid settings ignored", func(t *testing.T) {
		c := newCoordinator(t, newMemoryStore(t), nil)
		c.applyExternal(ports.Change{Key: persist.KeySettings, Value: []byte(`{"weeklyGoal":0}`)})
		assert.Equal(t, domain.DefaultSettings(), c.State().Settings)
	})

	t.Run("weekly goal", func(t *testing.T) {
		c := newCoordinator(t, newMemoryStore(t), nil)
		c.applyExternal(ports.Change{Key: persist.KeyWeeklyGoal, Value: []byte("20")})
		assert.Equal(t, 20, c.State().Settings.WeeklyGoal)
		assert.Equal(t, 20, c.State().Stats.WeeklyGoal)
	})

	t.Run("sessions", func(t *testing.T) {
		c := newCoordinator(t, newMemoryStore(t), nil)
		records := []domain.SessionRecord{{ID: "x", Timestamp: fixedNow, Kind: domain.KindMeditation, DurationMinutes: 10, Completed: true}}
		raw, _ := json.Marshal(records)
		c.applyExternal(ports.Change{Key: persist.KeySessions, Value: raw})
		assert.Len(t, c.State().Sessions, 1)
		assert.Equal(t, 10, c.State().Stats.TotalMeditationTime)
		assert.Len(t, c.Sessions(ctx), 1)
	})

	t.Run("timer mirrored paused when idle", func(t *testing.T) {
		store := newMemoryStore(t)
		c := newCoordinator(t, store, nil)
		raw, _ := json.Marshal(domain.TimerState{Mode: domain.ModeWork, RemainingSeconds: 300, IsActive: true})
		c.applyExternal(ports.Change{Key: persist.KeyTimer, Value: raw})

		got := c.State().Timer
		assert.Equal(t, 300, got.RemainingSeconds)
		assert.True(t, got.IsPaused)

		// Mirrored state is not written back.
		_, ok, _ := store.Get(ctx, persist.KeyTimer)
		assert.False(t, ok)
	})

	t.Run("timer ignored while running", func(t *testing.T) {
		c := newCoordinator(t, newMemoryStore(t), nil)
		c.StartTimer()
		raw, _ := json.Marshal(domain.TimerState{Mode: domain.ModeLongBreak, RemainingSeconds: 5})
		c.applyExternal(ports.Change{Key: persist.KeyTimer, Value: raw})
		assert.Equal(t, domain.ModeWork, c.State().Timer.Mode)
		assert.True(t, c.State().Timer.Running())
	})

	t.Run("unknown key", func(t *testing.T) {
		c := newCoordinator(t, newMemoryStore(t), nil)
		before := c.State()
		c.applyExternal(ports.Change{Key: "other_app", Value: []byte("1")})
		assert.Equal(t, before, c.State())
	})
}

func TestCoordinator_WatchAcrossInstances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "focusflow.db")
	open := func() ports.KeyValueStore {
		s, err := storage.New(path, storage.WithPollInterval(10*time.Millisecond))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	a := newCoordinator(t, open(), nil)
	b := newCoordinator(t, open(), nil)

	updated := make(chan State, 8)
	b.OnChange(func(s State) {
		select {
		case updated <- s:
		default:
		}
	})
	b.Watch(ctx)

	settings := domain.DefaultSettings()
	settings.WeeklyGoal = 25
	require.NoError(t, a.UpdateSettings(ctx, settings))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-updated:
			if s.Settings.WeeklyGoal == 25 {
				return
			}
		case <-deadline:
			t.Fatal("second instance never saw the settings change")
		}
	}
}

func TestCoordinator_Meditation(t *testing.T) {
	ctx := context.Background()
	n := &fakeNotifier{allowed: true}
	c := newCoordinator(t, newMemoryStore(t), n)

	_, err := c.StartMeditation(0, domain.MeditationBreathing)
	assert.True(t, errors.Is(err, domain.ErrInvalidDuration))
	_, err = c.StartMeditation(5, "yoga")
	assert.True(t, errors.Is(err, domain.ErrUnknownMeditation))

	status, err := c.StartMeditation(1, domain.MeditationBodyScan)
	require.NoError(t, err)
	assert.Equal(t, 60, status.Remaining)

	paused := c.ToggleMeditation()
	assert.True(t, paused.Paused)
	assert.False(t, c.TickMeditation(status.Generation))
	resumed := c.ToggleMeditation()
	require.False(t, resumed.Paused)

	for c.TickMeditation(resumed.Generation) {
	}

	s := c.State()
	require.Len(t, s.Sessions, 1)
	assert.Equal(t, domain.KindMeditation, s.Sessions[0].Kind)
	assert.Equal(t, domain.MeditationBodyScan, s.Sessions[0].MeditationType)
	assert.Equal(t, 1, s.Stats.TotalMeditationTime)
	assert.Contains(t, n.shown, domain.MeditationCompleteNotification.Title)
	assert.Len(t, c.Sessions(ctx), 1)
}

func TestCoordinator_CancelMeditationLogsNothing(t *testing.T) {
	c := newCoordinator(t, newMemoryStore(t), nil)
	status, err := c.StartMeditation(5, domain.MeditationMindfulness)
	require.NoError(t, err)

	c.CancelMeditation()
	assert.False(t, c.TickMeditation(status.Generation))
	assert.False(t, c.Meditation().Active)
	assert.Empty(t, c.State().Sessions)
}

func TestCoordinator_LogSession(t *testing.T) {
	ctx := context.Background()
	c := newCoordinator(t, newMemoryStore(t), nil)

	mood := 6
	_, err := c.LogSession(ctx, domain.SessionRecord{Kind: domain.KindPomodoro, DurationMinutes: 25, Mood: &mood})
	assert.True(t, errors.Is(err, domain.ErrInvalidMood))

	rec, err := c.LogSession(ctx, domain.SessionRecord{Kind: domain.KindPomodoro, DurationMinutes: 25, Completed: true})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.True(t, rec.Timestamp.Equal(fixedNow))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, stats.TotalFocusTime)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestCoordinator_Sounds(t *testing.T) {
	ctx := context.Background()
	audio := &fakeAudio{}
	c := New(Deps{
		Store:     newMemoryStore(t),
		Audio:     audio,
		SoundPath: func(s domain.Sound) string { return "/sounds/" + s.File },
		Clock:     func() time.Time { return fixedNow },
	})
	c.Bootstrap(ctx)

	assert.True(t, errors.Is(c.PlaySound(ctx, "vacuum"), domain.ErrUnknownSound))

	require.NoError(t, c.PlaySound(ctx, "rain"))
	assert.Equal(t, "/sounds/rain.mp3", audio.loaded)
	s := c.State()
	require.NotNil(t, s.SelectedSound)
	assert.Equal(t, "rain", *s.SelectedSound)
	assert.True(t, s.IsPlaying)

	require.NoError(t, c.ToggleSound(ctx))
	assert.False(t, c.State().IsPlaying)
	assert.False(t, audio.playing)

	audio.loadErr = errors.New("no device")
	assert.Error(t, c.PlaySound(ctx, "ocean"))
	assert.False(t, c.State().IsPlaying)
	assert.Equal(t, "ocean", *c.State().SelectedSound)
}
