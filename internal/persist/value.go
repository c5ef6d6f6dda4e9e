// Package persist binds typed values to keys in a ports.KeyValueStore.
// Storage problems never reach the caller: reads fall back to the default
// and writes are logged and dropped.
package persist

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/xvierd/focusflow/internal/ports"
)

// Value is a JSON document of type T stored under a single key.
type Value[T any] struct {
	store ports.KeyValueStore
	key   string
	def   func() T
}

// NewValue binds key to store. def builds the fallback used when the key is
// missing or unreadable; it is called on every fallback so the caller never
// shares mutable state between loads.
func NewValue[T any](store ports.KeyValueStore, key string, def func() T) *Value[T] {
	return &Value[T]{store: store, key: key, def: def}
}

// Key returns the bound key.
func (v *Value[T]) Key() string {
	return v.key
}

// Load reads the stored value. Missing data yields the default silently;
// corrupt data or a store error yields the default and a log entry.
func (v *Value[T]) Load(ctx context.Context) T {
	raw, ok, err := v.store.Get(ctx, v.key)
	if err != nil {
		slog.Warn("failed to read persisted value, using default", "key", v.key, "error", err)
		return v.def()
	}
	if !ok {
		return v.def()
	}

	out, err := v.decode(raw)
	if err != nil {
		slog.Warn("corrupt persisted value, using default", "key", v.key, "error", err)
		return v.def()
	}
	return out
}

// Save writes val. Failures are logged; the caller keeps its in-memory copy.
func (v *Value[T]) Save(ctx context.Context, val T) {
	raw, err := json.Marshal(val)
	if err != nil {
		slog.Error("failed to encode value", "key", v.key, "error", err)
		return
	}
	if err := v.store.Set(ctx, v.key, raw); err != nil {
		slog.Warn("failed to persist value", "key", v.key, "error", err)
	}
}

// Decode parses raw the same way Load does, without touching the store.
func (v *Value[T]) Decode(raw []byte) (T, bool) {
	out, err := v.decode(raw)
	if err != nil {
		slog.Warn("corrupt persisted value, using default", "key", v.key, "error", err)
		return v.def(), false
	}
	return out, true
}

// decode unmarshals over a fresh default so absent fields keep their
// default values.
func (v *Value[T]) decode(raw []byte) (T, error) {
	out := v.def()
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
