package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xvierd/focusflow/internal/adapters/storage"
	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/persist"
	"github.com/xvierd/focusflow/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.KeyValueStore, func()) {
	t.Helper()
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { _ = store.Close() }
}

type stubGit struct {
	info *ports.GitInfo
	err  error
}

func (g stubGit) Detect(context.Context, string) (*ports.GitInfo, error) {
	return g.info, g.err
}

func TestSessionStore_AppendFillsIDAndTimestamp(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	now := time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC)
	sessions := NewSessionStore(store)
	sessions.SetClock(func() time.Time { return now })

	got := sessions.Append(context.Background(), domain.SessionRecord{
		Kind:            domain.KindPomodoro,
		DurationMinutes: 25,
		Completed:       true,
	})

	if got.ID == "" {
		t.Error("Append() did not assign an id")
	}
	if !got.Timestamp.Equal(now) {
		t.Errorf("Append() timestamp = %v, want %v", got.Timestamp, now)
	}
}

func TestSessionStore_AppendKeepsSuppliedFields(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	at := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)
	sessions := NewSessionStore(store)
	got := sessions.Append(context.Background(), domain.SessionRecord{
		ID:              "session_custom",
		Timestamp:       at,
		Kind:            domain.KindMeditation,
		DurationMinutes: 10,
	})

	if got.ID != "session_custom" || !got.Timestamp.Equal(at) {
		t.Errorf("Append() = %+v, want supplied id and timestamp", got)
	}
}

func TestSessionStore_OrderAndPersistence(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	sessions := NewSessionStore(store)

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		sessions.Append(ctx, domain.SessionRecord{
			Timestamp:       base.Add(time.Duration(i) * time.Hour),
			Kind:            domain.KindPomodoro,
			DurationMinutes: 25 + i,
			Completed:       true,
		})
	}

	all := sessions.All()
	if len(all) != 3 {
		t.Fatalf("All() len = %d, want 3", len(all))
	}
	for i, r := range all {
		if r.DurationMinutes != 25+i {
			t.Errorf("All()[%d].DurationMinutes = %d, want %d", i, r.DurationMinutes, 25+i)
		}
	}

	reloaded := NewSessionStore(store).Load(ctx)
	if diff := cmp.Diff(all, reloaded); diff != "" {
		t.Errorf("reloaded log mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionStore_AllReturnsCopy(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	sessions := NewSessionStore(store)
	sessions.Append(context.Background(), domain.SessionRecord{Kind: domain.KindPomodoro, DurationMinutes: 25})

	all := sessions.All()
	all[0].DurationMinutes = 999

	if sessions.All()[0].DurationMinutes != 25 {
		t.Error("All() exposed internal slice")
	}
}

func TestSessionStore_LoadCorruptData(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Set(ctx, persist.KeySessions, []byte(`{"oops":`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got := NewSessionStore(store).Load(ctx)
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty log", got)
	}
}

func TestSessionStore_JSONRoundTrip(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	mood := 4
	records := []domain.SessionRecord{
		{
			ID:              "session_1704067200000_ab12cd34",
			Timestamp:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Kind:            domain.KindPomodoro,
			DurationMinutes: 25,
			Completed:       true,
			Mood:            &mood,
			Notes:           "deep work",
			GitBranch:       "main",
		},
		{
			ID:              "session_1704070800000_ef56ab78",
			Timestamp:       time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			Kind:            domain.KindMeditation,
			DurationMinutes: 10,
			Completed:       false,
			MeditationType:  domain.MeditationBreathing,
		},
	}

	sessions := NewSessionStore(store)
	for _, r := range records {
		sessions.Append(ctx, r)
	}

	raw, _, err := store.Get(ctx, persist.KeySessions)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want, _ := json.Marshal(records)
	if string(raw) != string(want) {
		t.Errorf("persisted JSON = %s, want %s", raw, want)
	}

	reloaded := NewSessionStore(store).Load(ctx)
	again, _ := json.Marshal(reloaded)
	if string(again) != string(want) {
		t.Errorf("reloaded JSON = %s, want %s", again, want)
	}
}

func TestSessionStore_LogPomodoroWithGit(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("branch attached", func(t *testing.T) {
		sessions := NewSessionStore(store)
		sessions.SetGitDetector(stubGit{info: &ports.GitInfo{Branch: "feature/x"}}, ".")
		r := sessions.LogPomodoro(ctx, 25)
		if r.GitBranch != "feature/x" {
			t.Errorf("GitBranch = %q, want feature/x", r.GitBranch)
		}
		if !r.Completed || r.Kind != domain.KindPomodoro || r.DurationMinutes != 25 {
			t.Errorf("LogPomodoro() = %+v", r)
		}
	})

	t.Run("detector error ignored", func(t *testing.T) {
		sessions := NewSessionStore(store)
		sessions.SetGitDetector(stubGit{err: errors.New("not a repo")}, ".")
		r := sessions.LogPomodoro(ctx, 25)
		if r.GitBranch != "" {
			t.Errorf("GitBranch = %q, want empty", r.GitBranch)
		}
	})
}

func TestSessionStore_LogMeditation(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	r := NewSessionStore(store).LogMeditation(context.Background(), 15, domain.MeditationBodyScan)
	if r.Kind != domain.KindMeditation || r.MeditationType != domain.MeditationBodyScan || r.DurationMinutes != 15 {
		t.Errorf("LogMeditation() = %+v", r)
	}
}
