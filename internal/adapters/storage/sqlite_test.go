package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/xvierd/focusflow/internal/ports"
)

func TestNewMemory(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if store == nil {
		t.Error("NewMemory() returned nil store")
	}
}

func TestSQLiteStore_GetSet(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := store.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok || v != nil {
			t.Errorf("Get() = %q, %v, want nil, false", v, ok)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := store.Set(ctx, "focusflow_weekly_goal", []byte("12")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, ok, err := store.Get(ctx, "focusflow_weekly_goal")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !ok || string(v) != "12" {
			t.Errorf("Get() = %q, %v, want 12, true", v, ok)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		_ = store.Set(ctx, "k", []byte(`{"a":1}`))
		_ = store.Set(ctx, "k", []byte(`{"a":2}`))
		v, _, _ := store.Get(ctx, "k")
		if string(v) != `{"a":2}` {
			t.Errorf("Get() = %s, want {\"a\":2}", v)
		}
	})
}

func TestSQLiteStore_SubscribeDeliversExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusflow.db")

	a, err := New(path, WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	b, err := New(path, WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New() second instance error = %v", err)
	}
	defer func() { _ = b.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []ports.Change
	)
	done := make(chan struct{})
	a.Subscribe(ctx, func(c ports.Change) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c)
		if c.Key == "external" {
			close(done)
		}
	})

	if err := a.Set(ctx, "own", []byte("1")); err != nil {
		t.Fatalf("Set() own error = %v", err)
	}
	if err := b.Set(ctx, "external", []byte("2")); err != nil {
		t.Fatalf("Set() external error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("external write was not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, c := range got {
		if c.Key == "own" {
			t.Errorf("Subscribe() delivered own write %q", c.Key)
		}
	}
	if string(got[len(got)-1].Value) != "2" {
		t.Errorf("external value = %s, want 2", got[len(got)-1].Value)
	}
}

func TestSQLiteStore_SubscribeStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusflow.db")

	a, err := New(path, WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = a.Close() }()
	b, err := New(path, WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = b.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan string, 10)
	a.Subscribe(ctx, func(c ports.Change) { calls <- c.Key })
	cancel()

	// Give the poller a chance to observe the cancellation.
	time.Sleep(50 * time.Millisecond)
	_ = b.Set(context.Background(), "late", []byte("x"))
	time.Sleep(50 * time.Millisecond)

	select {
	case k := <-calls:
		t.Errorf("received %q after cancel", k)
	default:
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", filepath.Join(t.TempDir(), "x.db"), 0)
	if err == nil {
		t.Error("Open() error = nil, want error for unknown backend")
	}
}
