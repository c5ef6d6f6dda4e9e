package domain

import (
	"fmt"
	"strings"
	"time"
)

// Theme is the preferred color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// MaxDurationMinutes is the longest interval a setting may hold.
const MaxDurationMinutes = 120

// AppSettings holds the user-facing preferences. Durations are in minutes.
type AppSettings struct {
	PomodoroLength        int     `json:"pomodoroLength"`
	ShortBreakLength      int     `json:"shortBreakLength"`
	LongBreakLength       int     `json:"longBreakLength"`
	CyclesBeforeLongBreak int     `json:"cyclesBeforeLongBreak"`
	Notifications         bool    `json:"notifications"`
	SoundEnabled          bool    `json:"soundEnabled"`
	BackgroundSound       *string `json:"backgroundSound"`
	Theme                 Theme   `json:"theme"`
	WeeklyGoal            int     `json:"weeklyGoal"`
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() AppSettings {
	return AppSettings{
		PomodoroLength:        25,
		ShortBreakLength:      5,
		LongBreakLength:       15,
		CyclesBeforeLongBreak: 4,
		Notifications:         true,
		SoundEnabled:          true,
		Theme:                 ThemeAuto,
		WeeklyGoal:            10,
	}
}

// Validate checks every field and returns the first problem found.
func (s AppSettings) Validate() error {
	durations := []struct {
		name    string
		minutes int
	}{
		{"pomodoro length", s.PomodoroLength},
		{"short break length", s.ShortBreakLength},
		{"long break length", s.LongBreakLength},
	}
	for _, d := range durations {
		if !IsValidDuration(d.minutes) {
			return fmt.Errorf("%w: %s must be between 1 and %d minutes, got %d",
				ErrInvalidDuration, d.name, MaxDurationMinutes, d.minutes)
		}
	}
	if s.CyclesBeforeLongBreak <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCycles, s.CyclesBeforeLongBreak)
	}
	if s.WeeklyGoal <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeeklyGoal, s.WeeklyGoal)
	}
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		return err
	}
	if s.BackgroundSound != nil {
		if _, ok := FindSound(*s.BackgroundSound); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSound, *s.BackgroundSound)
		}
	}
	return nil
}

// IsValidDuration reports whether minutes is an acceptable interval length.
func IsValidDuration(minutes int) bool {
	return minutes > 0 && minutes <= MaxDurationMinutes
}

// Minutes returns the configured length of a timer mode.
func (s AppSettings) Minutes(mode TimerMode) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakLength
	case ModeLongBreak:
		return s.LongBreakLength
	default:
		return s.PomodoroLength
	}
}

// Seconds returns the configured length of a timer mode in seconds.
func (s AppSettings) Seconds(mode TimerMode) int {
	return s.Minutes(mode) * 60
}

// Duration returns the configured length of a timer mode.
func (s AppSettings) Duration(mode TimerMode) time.Duration {
	return time.Duration(s.Minutes(mode)) * time.Minute
}

// Clone returns a copy that shares no pointers with s.
func (s AppSettings) Clone() AppSettings {
	if s.BackgroundSound != nil {
		id := *s.BackgroundSound
		s.BackgroundSound = &id
	}
	return s
}
