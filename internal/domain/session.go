package domain

import (
	"fmt"
	"time"
)

// SessionKind is the activity a session record describes.
type SessionKind string

const (
	KindPomodoro   SessionKind = "pomodoro"
	KindMeditation SessionKind = "meditation"
)

// ParseSessionKind validates a session kind name.
func ParseSessionKind(s string) (SessionKind, error) {
	switch k := SessionKind(s); k {
	case KindPomodoro, KindMeditation:
		return k, nil
	case "focus", "work":
		return KindPomodoro, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// SessionRecord is one logged focus or meditation session.
// Records are immutable once appended.
type SessionRecord struct {
	ID              string         `json:"id"`
	Timestamp       time.Time      `json:"date"`
	Kind            SessionKind    `json:"type"`
	DurationMinutes int            `json:"duration"`
	Completed       bool           `json:"completed"`
	Mood            *int           `json:"mood,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	MeditationType  MeditationType `json:"meditationType,omitempty"`
	GitBranch       string         `json:"gitBranch,omitempty"`
}

// NewSessionRecord creates a record stamped with the current time.
func NewSessionRecord(kind SessionKind, minutes int, completed bool) SessionRecord {
	now := time.Now().Round(0)
	return SessionRecord{
		ID:              NewSessionID(now),
		Timestamp:       now,
		Kind:            kind,
		DurationMinutes: minutes,
		Completed:       completed,
	}
}

// Validate checks the fields a caller supplies. Kind aliases accepted by
// ParseSessionKind are rejected here; callers normalize first.
func (r SessionRecord) Validate() error {
	if r.Kind != KindPomodoro && r.Kind != KindMeditation {
		return fmt.Errorf("%w: %q", ErrInvalidKind, r.Kind)
	}
	if r.DurationMinutes <= 0 {
		return fmt.Errorf("%w: session duration must be positive, got %d", ErrInvalidDuration, r.DurationMinutes)
	}
	if r.Mood != nil && (*r.Mood < 1 || *r.Mood > 5) {
		return fmt.Errorf("%w: got %d", ErrInvalidMood, *r.Mood)
	}
	if r.MeditationType != "" {
		if _, ok := FindMeditationType(r.MeditationType); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMeditation, r.MeditationType)
		}
	}
	return nil
}

// IsFocus returns true for pomodoro records.
func (r SessionRecord) IsFocus() bool {
	return r.Kind == KindPomodoro
}

// IsMeditation returns true for meditation records.
func (r SessionRecord) IsMeditation() bool {
	return r.Kind == KindMeditation
}
