// Package storage provides SQLite and bbolt implementations of the
// key-value store port.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xvierd/focusflow/internal/ports"
	_ "modernc.org/sqlite"
)

// DefaultPollInterval is how often Subscribe looks for external writes.
const DefaultPollInterval = time.Second

// sqliteStore implements ports.KeyValueStore using SQLite.
// Every write stamps a monotonically increasing version and the id of the
// writing instance so other processes can pick up changes by polling.
type sqliteStore struct {
	db           *sql.DB
	instanceID   string
	pollInterval time.Duration
}

// Ensure sqliteStore implements ports.KeyValueStore.
var _ ports.KeyValueStore = (*sqliteStore)(nil)

// Option configures a SQLite store.
type Option func(*sqliteStore)

// WithPollInterval sets how often Subscribe polls for external writes.
func WithPollInterval(d time.Duration) Option {
	return func(s *sqliteStore) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// New creates a new SQLite store instance.
func New(dbPath string, opts ...Option) (ports.KeyValueStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each :memory: connection is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// WAL lets a second instance read while another writes.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &sqliteStore{
		db:           db,
		instanceID:   uuid.New().String(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// NewMemory creates a new in-memory SQLite store for testing.
func NewMemory() (ports.KeyValueStore, error) {
	return New(":memory:")
}

// Migrate creates the database schema.
func (s *sqliteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		writer TEXT NOT NULL,
		version INTEGER NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_kv_version ON kv(version);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Get returns the value stored under key.
func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value stored under key.
func (s *sqliteStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, writer, version, updated_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(version), 0) + 1 FROM kv), ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			writer = excluded.writer,
			version = excluded.version,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, value, s.instanceID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Subscribe polls for rows written by other instances and calls fn for
// each one in version order.
func (s *sqliteStore) Subscribe(ctx context.Context, fn func(ports.Change)) {
	last, err := s.currentVersion(ctx)
	if err != nil {
		slog.Warn("failed to read store version, watching from start", "error", err)
	}

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				changes, version, err := s.changesSince(ctx, last)
				if err != nil {
					if ctx.Err() == nil {
						slog.Warn("failed to poll store for changes", "error", err)
					}
					continue
				}
				last = version
				for _, c := range changes {
					fn(c)
				}
			}
		}
	}()
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) currentVersion(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM kv`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read version: %w", err)
	}
	return version, nil
}

// changesSince returns external writes newer than version and the highest
// version seen, including this instance's own writes.
func (s *sqliteStore) changesSince(ctx context.Context, version int64) ([]ports.Change, int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, writer, version FROM kv WHERE version > ? ORDER BY version`, version)
	if err != nil {
		return nil, version, fmt.Errorf("failed to query changes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var changes []ports.Change
	for rows.Next() {
		var (
			c      ports.Change
			writer string
			v      int64
		)
		if err := rows.Scan(&c.Key, &c.Value, &writer, &v); err != nil {
			return nil, version, fmt.Errorf("failed to scan change: %w", err)
		}
		if v > version {
			version = v
		}
		if writer != s.instanceID {
			changes = append(changes, c)
		}
	}

	return changes, version, rows.Err()
}
