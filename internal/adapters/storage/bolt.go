package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/focusflow/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// ErrStoreLocked is returned when another process holds the bolt file.
var ErrStoreLocked = errors.New("store is locked by another focusflow process")

var kvBucket = []byte("focusflow")

// boltStore implements ports.KeyValueStore on a single bbolt bucket.
// bbolt takes an exclusive file lock, so no other instance can write
// while it is open and Subscribe never delivers anything.
type boltStore struct {
	conn *bolt.DB
}

// Ensure boltStore implements ports.KeyValueStore.
var _ ports.KeyValueStore = (*boltStore)(nil)

// NewBolt opens or creates a bbolt database at path.
func NewBolt(path string) (ports.KeyValueStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, ErrStoreLocked
		}
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &boltStore{conn: db}, nil
}

// Get returns a copy of the value stored under key.
func (s *boltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.conn.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(kvBucket).Get([]byte(key))
		if v != nil {
			// v is only valid for the life of the transaction.
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, value != nil, nil
}

// Set overwrites the value stored under key.
func (s *boltStore) Set(_ context.Context, key string, value []byte) error {
	err := s.conn.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Subscribe is a no-op: the file lock rules out external writers.
func (s *boltStore) Subscribe(context.Context, func(ports.Change)) {}

// Close closes the db connection to release the file lock.
func (s *boltStore) Close() error {
	return s.conn.Close()
}
