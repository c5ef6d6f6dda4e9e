package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.PomodoroLength != 25 {
		t.Errorf("PomodoroLength = %v, want %v", s.PomodoroLength, 25)
	}
	if s.ShortBreakLength != 5 {
		t.Errorf("ShortBreakLength = %v, want %v", s.ShortBreakLength, 5)
	}
	if s.LongBreakLength != 15 {
		t.Errorf("LongBreakLength = %v, want %v", s.LongBreakLength, 15)
	}
	if s.CyclesBeforeLongBreak != 4 {
		t.Errorf("CyclesBeforeLongBreak = %v, want %v", s.CyclesBeforeLongBreak, 4)
	}
	if s.WeeklyGoal != 10 {
		t.Errorf("WeeklyGoal = %v, want %v", s.WeeklyGoal, 10)
	}
	if s.Theme != ThemeAuto {
		t.Errorf("Theme = %v, want %v", s.Theme, ThemeAuto)
	}
	if s.BackgroundSound != nil {
		t.Errorf("BackgroundSound = %v, want nil", *s.BackgroundSound)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestAppSettings_Validate(t *testing.T) {
	unknown := "vacuum"
	rain := "rain"

	tests := []struct {
		name    string
		mutate  func(*AppSettings)
		wantErr error
	}{
		{"defaults", func(*AppSettings) {}, nil},
		{"zero pomodoro", func(s *AppSettings) { s.PomodoroLength = 0 }, ErrInvalidDuration},
		{"negative short break", func(s *AppSettings) { s.ShortBreakLength = -5 }, ErrInvalidDuration},
		{"long break over max", func(s *AppSettings) { s.LongBreakLength = 121 }, ErrInvalidDuration},
		{"max duration", func(s *AppSettings) { s.PomodoroLength = 120 }, nil},
		{"zero cycles", func(s *AppSettings) { s.CyclesBeforeLongBreak = 0 }, ErrInvalidCycles},
		{"zero weekly goal", func(s *AppSettings) { s.WeeklyGoal = 0 }, ErrInvalidWeeklyGoal},
		{"negative weekly goal", func(s *AppSettings) { s.WeeklyGoal = -1 }, ErrInvalidWeeklyGoal},
		{"bad theme", func(s *AppSettings) { s.Theme = "neon" }, ErrInvalidTheme},
		{"unknown sound", func(s *AppSettings) { s.BackgroundSound = &unknown }, ErrUnknownSound},
		{"known sound", func(s *AppSettings) { s.BackgroundSound = &rain }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppSettings_Seconds(t *testing.T) {
	s := DefaultSettings()

	tests := []struct {
		mode TimerMode
		want int
	}{
		{ModeWork, 25 * 60},
		{ModeShortBreak, 5 * 60},
		{ModeLongBreak, 15 * 60},
	}

	for _, tt := range tests {
		if got := s.Seconds(tt.mode); got != tt.want {
			t.Errorf("Seconds(%v) = %v, want %v", tt.mode, got, tt.want)
		}
		if got := s.Duration(tt.mode); got != time.Duration(tt.want)*time.Second {
			t.Errorf("Duration(%v) = %v", tt.mode, got)
		}
	}
}

func TestAppSettings_Clone(t *testing.T) {
	sound := "ocean"
	s := DefaultSettings()
	s.BackgroundSound = &sound

	c := s.Clone()
	*c.BackgroundSound = "fire"

	if *s.BackgroundSound != "ocean" {
		t.Errorf("Clone() shares BackgroundSound with original")
	}
}

func TestParseTheme(t *testing.T) {
	if got, err := ParseTheme("Dark"); err != nil || got != ThemeDark {
		t.Errorf("ParseTheme(Dark) = %v, %v", got, err)
	}
	if _, err := ParseTheme("sepia"); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("ParseTheme(sepia) error = %v, want %v", err, ErrInvalidTheme)
	}
}
