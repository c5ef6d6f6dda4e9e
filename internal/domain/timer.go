package domain

import (
	"fmt"
	"strings"
)

// TimerMode identifies the interval the timer is counting down.
type TimerMode string

const (
	ModeWork       TimerMode = "work"
	ModeShortBreak TimerMode = "shortBreak"
	ModeLongBreak  TimerMode = "longBreak"
)

// TimerModes lists the modes in display order.
var TimerModes = []TimerMode{ModeWork, ModeShortBreak, ModeLongBreak}

// IsBreak returns true for either break mode.
func (m TimerMode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// Label returns a human-readable name for the mode.
func (m TimerMode) Label() string {
	switch m {
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Focus"
	}
}

// ParseTimerMode accepts the canonical mode names plus a few shorthands.
func ParseTimerMode(s string) (TimerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work", "focus", "pomodoro":
		return ModeWork, nil
	case "shortbreak", "short_break", "short":
		return ModeShortBreak, nil
	case "longbreak", "long_break", "long":
		return ModeLongBreak, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// TimerState is the persisted snapshot of the countdown.
// IsPaused is only meaningful while IsActive is true.
type TimerState struct {
	RemainingSeconds int       `json:"remainingSeconds"`
	IsActive         bool      `json:"isActive"`
	IsPaused         bool      `json:"isPaused"`
	Mode             TimerMode `json:"mode"`
	CyclesCompleted  int       `json:"cycles"`
}

// NewTimerState returns an inactive work timer sized from the settings.
func NewTimerState(s AppSettings) TimerState {
	return TimerState{
		RemainingSeconds: s.Seconds(ModeWork),
		Mode:             ModeWork,
	}
}

// Running reports whether the countdown should advance.
func (s TimerState) Running() bool {
	return s.IsActive && !s.IsPaused
}

// Clock formats the remaining time as MM:SS.
func (s TimerState) Clock() string {
	return FormatClock(s.RemainingSeconds)
}

// FormatClock formats a number of seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
