package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/focusflow/internal/adapters/storage"
	"github.com/xvierd/focusflow/internal/app"
	"github.com/xvierd/focusflow/internal/config"
	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/ports"
)

const pollInterval = 20 * time.Millisecond

// openStore opens a store of the given backend at path and closes it when
// the test ends.
func openStore(t *testing.T, backend, path string) ports.KeyValueStore {
	t.Helper()

	store, err := storage.Open(backend, path, pollInterval)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// startInstance wires a coordinator the way the CLI does, minus audio and
// notifications.
func startInstance(t *testing.T, store ports.KeyValueStore) *app.Coordinator {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := app.New(app.Deps{Store: store})
	c.Bootstrap(ctx)
	c.Watch(ctx)
	return c
}

// TestPersistenceAcrossRestarts checks that settings, sessions and timer
// state survive closing and reopening the store on both backends.
func TestPersistenceAcrossRestarts(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendBolt} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "focusflow."+backend)

			store, err := storage.Open(backend, path, pollInterval)
			require.NoError(t, err)

			first := app.New(app.Deps{Store: store})
			first.Bootstrap(ctx)

			settings := first.Settings(ctx)
			settings.PomodoroLength = 40
			settings.WeeklyGoal = 15
			require.NoError(t, first.UpdateSettings(ctx, settings))

			_, err = first.LogSession(ctx, domain.NewSessionRecord(domain.KindPomodoro, 40, true))
			require.NoError(t, err)
			_, err = first.LogSession(ctx, domain.NewSessionRecord(domain.KindMeditation, 10, true))
			require.NoError(t, err)

			tick := first.StartTimer()
			require.True(t, tick.Running)
			require.True(t, first.Tick(tick.Generation))
			require.NoError(t, store.Close())

			reopened, err := storage.Open(backend, path, pollInterval)
			require.NoError(t, err)
			t.Cleanup(func() { _ = reopened.Close() })

			second := app.New(app.Deps{Store: reopened})
			second.Bootstrap(ctx)
			state := second.State()

			assert.Equal(t, 40, state.Settings.PomodoroLength)
			assert.Equal(t, 15, state.Settings.WeeklyGoal)
			assert.Len(t, state.Sessions, 2)
			assert.Equal(t, 40, state.Stats.TotalFocusTime)
			assert.Equal(t, 10, state.Stats.TotalMeditationTime)

			// A timer that was running comes back paused where it stopped.
			assert.True(t, state.Timer.IsActive)
			assert.True(t, state.Timer.IsPaused)
			assert.Equal(t, 40*60-1, state.Timer.RemainingSeconds)
		})
	}
}

// TestInstancesStayInSync runs two instances against one SQLite file and
// checks each sees the other's writes.
func TestInstancesStayInSync(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	a := startInstance(t, openStore(t, config.BackendSQLite, path))
	b := startInstance(t, openStore(t, config.BackendSQLite, path))

	settings := a.Settings(ctx)
	settings.ShortBreakLength = 7
	settings.Theme = domain.ThemeDark
	require.NoError(t, a.UpdateSettings(ctx, settings))

	assert.Eventually(t, func() bool {
		s := b.Settings(ctx)
		return s.ShortBreakLength == 7 && s.Theme == domain.ThemeDark
	}, 2*time.Second, pollInterval)

	_, err := b.LogSession(ctx, domain.NewSessionRecord(domain.KindPomodoro, 25, true))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(a.Sessions(ctx)) == 1 && a.State().Stats.TotalSessions == 1
	}, 2*time.Second, pollInterval)

	// Timer state from another instance is mirrored paused, never ticked.
	tick := a.StartTimer()
	require.True(t, a.Tick(tick.Generation))

	assert.Eventually(t, func() bool {
		t := b.State().Timer
		return t.IsActive && t.IsPaused
	}, 2*time.Second, pollInterval)
	assert.False(t, b.TimerGeneration().Running)
}

// TestInvalidSettingsRejected checks a rejected update is not persisted.
func TestInvalidSettingsRejected(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "focusflow.db")
	store := openStore(t, config.BackendSQLite, path)

	c := startInstance(t, store)
	bad := c.Settings(ctx)
	bad.PomodoroLength = domain.MaxDurationMinutes + 1
	require.Error(t, c.UpdateSettings(ctx, bad))
	assert.Equal(t, domain.DefaultSettings().PomodoroLength, c.Settings(ctx).PomodoroLength)

	fresh := app.New(app.Deps{Store: store})
	fresh.Bootstrap(ctx)
	assert.Equal(t, domain.DefaultSettings().PomodoroLength, fresh.Settings(ctx).PomodoroLength)
}
