package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewSessionRecord(t *testing.T) {
	r := NewSessionRecord(KindPomodoro, 25, true)

	if !strings.HasPrefix(r.ID, "session_") {
		t.Errorf("ID = %q, want session_ prefix", r.ID)
	}
	if r.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
	if r.Kind != KindPomodoro {
		t.Errorf("Kind = %v, want %v", r.Kind, KindPomodoro)
	}
	if r.DurationMinutes != 25 {
		t.Errorf("DurationMinutes = %v, want %v", r.DurationMinutes, 25)
	}
	if !r.Completed {
		t.Error("Completed = false, want true")
	}
}

func TestNewSessionID_Unique(t *testing.T) {
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID(now)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestSessionRecord_Validate(t *testing.T) {
	mood := func(v int) *int { return &v }

	tests := []struct {
		name    string
		record  SessionRecord
		wantErr error
	}{
		{"valid pomodoro", SessionRecord{Kind: KindPomodoro, DurationMinutes: 25}, nil},
		{"valid meditation", SessionRecord{Kind: KindMeditation, DurationMinutes: 10, MeditationType: MeditationBodyScan}, nil},
		{"bad kind", SessionRecord{Kind: "nap", DurationMinutes: 10}, ErrInvalidKind},
		{"focus alias not normalized", SessionRecord{Kind: "focus", DurationMinutes: 25}, ErrInvalidKind},
		{"work alias not normalized", SessionRecord{Kind: "work", DurationMinutes: 25}, ErrInvalidKind},
		{"zero duration", SessionRecord{Kind: KindPomodoro}, ErrInvalidDuration},
		{"mood too high", SessionRecord{Kind: KindPomodoro, DurationMinutes: 5, Mood: mood(6)}, ErrInvalidMood},
		{"mood in range", SessionRecord{Kind: KindPomodoro, DurationMinutes: 5, Mood: mood(3)}, nil},
		{"unknown meditation", SessionRecord{Kind: KindMeditation, DurationMinutes: 5, MeditationType: "yoga"}, ErrUnknownMeditation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTimerMode(t *testing.T) {
	tests := []struct {
		in   string
		want TimerMode
	}{
		{"work", ModeWork},
		{"shortBreak", ModeShortBreak},
		{"short", ModeShortBreak},
		{"long_break", ModeLongBreak},
	}
	for _, tt := range tests {
		got, err := ParseTimerMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseTimerMode(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseTimerMode("nap"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("ParseTimerMode(nap) error = %v, want %v", err, ErrInvalidMode)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{25 * 60, "25:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestMotivationalMessage(t *testing.T) {
	for _, mode := range TimerModes {
		if msg := MotivationalMessage(mode, 7); msg == "" {
			t.Errorf("MotivationalMessage(%v) is empty", mode)
		}
	}
	if MotivationalMessage(ModeWork, -1) == "" {
		t.Error("MotivationalMessage with negative seed is empty")
	}
}

func TestCatalogLookups(t *testing.T) {
	if len(Sounds) != 8 {
		t.Errorf("len(Sounds) = %d, want 8", len(Sounds))
	}
	if _, ok := FindSound("piano"); !ok {
		t.Error("FindSound(piano) not found")
	}
	if _, err := ParseMeditationType("Mindfulness"); err != nil {
		t.Errorf("ParseMeditationType(Mindfulness) error = %v", err)
	}
	if _, err := ParseView("stats"); err != nil {
		t.Errorf("ParseView(stats) error = %v", err)
	}
	if _, err := ParseView("home"); !errors.Is(err, ErrInvalidView) {
		t.Errorf("ParseView(home) error = %v, want %v", err, ErrInvalidView)
	}
}
