// Package services contains the use cases that sit between the domain and
// the adapters.
package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/persist"
	"github.com/xvierd/focusflow/internal/ports"
)

// SessionStore is the append-only session log. Every append persists the
// whole list; storage failures are logged and the in-memory log is kept.
type SessionStore struct {
	mu      sync.RWMutex
	value   *persist.Value[[]domain.SessionRecord]
	records []domain.SessionRecord
	git     ports.GitDetector
	workDir string
	clock   func() time.Time
}

// NewSessionStore creates a session store on top of store. It starts empty;
// call Load to read the persisted log.
func NewSessionStore(store ports.KeyValueStore) *SessionStore {
	return &SessionStore{
		value: persist.NewValue(store, persist.KeySessions, func() []domain.SessionRecord {
			return []domain.SessionRecord{}
		}),
		clock: time.Now,
	}
}

// SetGitDetector enables tagging focus sessions with the branch checked out
// in workDir.
func (s *SessionStore) SetGitDetector(git ports.GitDetector, workDir string) {
	s.git = git
	s.workDir = workDir
}

// SetClock overrides the time source used for new records.
func (s *SessionStore) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Key returns the store key holding the log.
func (s *SessionStore) Key() string {
	return s.value.Key()
}

// Load replaces the in-memory log with the persisted one.
func (s *SessionStore) Load(ctx context.Context) []domain.SessionRecord {
	records := s.value.Load(ctx)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	return s.All()
}

// Replace swaps in a log received from another instance without writing it
// back.
func (s *SessionStore) Replace(records []domain.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = slices.Clone(records)
}

// Decode parses a raw external update of the log.
func (s *SessionStore) Decode(raw []byte) ([]domain.SessionRecord, bool) {
	return s.value.Decode(raw)
}

// Append adds record, filling in the id and timestamp when missing, and
// persists the log immediately. It returns the stored record.
func (s *SessionStore) Append(ctx context.Context, record domain.SessionRecord) domain.SessionRecord {
	if record.Timestamp.IsZero() {
		record.Timestamp = s.clock().Round(0)
	}
	if record.ID == "" {
		record.ID = domain.NewSessionID(record.Timestamp)
	}

	s.mu.Lock()
	s.records = append(s.records, record)
	snapshot := slices.Clone(s.records)
	s.mu.Unlock()

	s.value.Save(ctx, snapshot)
	slog.Debug("session logged", "id", record.ID, "kind", record.Kind, "minutes", record.DurationMinutes)

	return record
}

// All returns the log in insertion order, oldest first.
func (s *SessionStore) All() []domain.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// LogPomodoro records a completed focus interval, tagged with the current
// git branch when a detector is configured.
func (s *SessionStore) LogPomodoro(ctx context.Context, minutes int) domain.SessionRecord {
	record := domain.SessionRecord{
		Kind:            domain.KindPomodoro,
		DurationMinutes: minutes,
		Completed:       true,
	}

	if s.git != nil {
		info, err := s.git.Detect(ctx, s.workDir)
		if err == nil && info != nil {
			record.GitBranch = info.Branch
		}
	}

	return s.Append(ctx, record)
}

// LogMeditation records a completed meditation.
func (s *SessionStore) LogMeditation(ctx context.Context, minutes int, kind domain.MeditationType) domain.SessionRecord {
	return s.Append(ctx, domain.SessionRecord{
		Kind:            domain.KindMeditation,
		DurationMinutes: minutes,
		Completed:       true,
		MeditationType:  kind,
	})
}
