package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xvierd/focusflow/internal/ports"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Open creates the store for the named backend, creating the parent
// directory when needed.
func Open(backend, path string, pollInterval time.Duration) (ports.KeyValueStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	switch backend {
	case BackendSQLite, "":
		return New(path, WithPollInterval(pollInterval))
	case BackendBolt:
		return NewBolt(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
