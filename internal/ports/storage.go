// Package ports defines the interfaces (driven and driving ports)
// for the FocusFlow application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import "context"

// Change is a write to the store made by another instance.
type Change struct {
	Key   string
	Value []byte
}

// KeyValueStore persists JSON documents under string keys.
// This is a driven port (implemented by adapters).
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Subscribe calls fn for every write made outside this instance until
	// ctx is cancelled. fn runs on a goroutine owned by the store.
	Subscribe(ctx context.Context, fn func(Change))

	// Close releases the underlying resources.
	Close() error
}
