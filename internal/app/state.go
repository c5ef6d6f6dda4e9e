// Package app holds the application state container and the closed set of
// commands that mutate it.
package app

import (
	"fmt"
	"slices"

	"github.com/xvierd/focusflow/internal/domain"
)

// State is everything the UI renders. Slices in a State are never mutated
// in place; a command that changes one builds a new slice.
type State struct {
	Timer         domain.TimerState
	Sessions      []domain.SessionRecord
	Stats         domain.UserStats
	Insights      []domain.Insight
	Settings      domain.AppSettings
	SelectedSound *string
	IsPlaying     bool
	View          domain.View
}

// InitialState is the state before anything has been loaded.
func InitialState() State {
	settings := domain.DefaultSettings()
	return State{
		Timer:    domain.NewTimerState(settings),
		Sessions: []domain.SessionRecord{},
		Stats:    domain.UserStats{WeeklyGoal: settings.WeeklyGoal},
		Settings: settings,
		View:     domain.ViewTimer,
	}
}

// Command is one of the state actions below.
type Command interface {
	command()
}

// SetTimerState replaces the timer snapshot.
type SetTimerState struct {
	Timer domain.TimerState
}

// AddSession appends a record to the session list.
type AddSession struct {
	Record domain.SessionRecord
}

// UpdateStats replaces the derived statistics and insights.
type UpdateStats struct {
	Stats    domain.UserStats
	Insights []domain.Insight
}

// UpdateSettings replaces the settings after validating them.
type UpdateSettings struct {
	Settings domain.AppSettings
}

// SetSelectedSound picks the ambient sound; nil clears it.
type SetSelectedSound struct {
	ID *string
}

// SetPlaying records whether ambient audio is playing.
type SetPlaying struct {
	Playing bool
}

// SetView switches the visible screen.
type SetView struct {
	View domain.View
}

// ResetTimer returns the timer to a fresh work interval.
type ResetTimer struct{}

// LoadPersistedState applies values read from storage. Nil fields are left
// untouched.
type LoadPersistedState struct {
	Settings *domain.AppSettings
	Sessions []domain.SessionRecord
	Timer    *domain.TimerState
}

func (SetTimerState) command()      {}
func (AddSession) command()         {}
func (UpdateStats) command()        {}
func (UpdateSettings) command()     {}
func (SetSelectedSound) command()   {}
func (SetPlaying) command()         {}
func (SetView) command()            {}
func (ResetTimer) command()         {}
func (LoadPersistedState) command() {}

// Reduce applies cmd to s and returns the new state. On error the original
// state is returned unchanged.
func Reduce(s State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case SetTimerState:
		s.Timer = c.Timer

	case AddSession:
		if err := c.Record.Validate(); err != nil {
			return s, err
		}
		sessions := make([]domain.SessionRecord, len(s.Sessions), len(s.Sessions)+1)
		copy(sessions, s.Sessions)
		s.Sessions = append(sessions, c.Record)

	case UpdateStats:
		s.Stats = c.Stats
		s.Insights = slices.Clone(c.Insights)

	case UpdateSettings:
		if err := c.Settings.Validate(); err != nil {
			return s, err
		}
		s.Settings = c.Settings.Clone()

	case SetSelectedSound:
		if c.ID != nil {
			if _, ok := domain.FindSound(*c.ID); !ok {
				return s, fmt.Errorf("%w: %q", domain.ErrUnknownSound, *c.ID)
			}
			id := *c.ID
			s.SelectedSound = &id
		} else {
			s.SelectedSound = nil
		}

	case SetPlaying:
		s.IsPlaying = c.Playing

	case SetView:
		if _, err := domain.ParseView(string(c.View)); err != nil {
			return s, err
		}
		s.View = c.View

	case ResetTimer:
		s.Timer = domain.NewTimerState(s.Settings)

	case LoadPersistedState:
		if c.Settings != nil {
			if err := c.Settings.Validate(); err != nil {
				return s, err
			}
			s.Settings = c.Settings.Clone()
		}
		if c.Sessions != nil {
			s.Sessions = slices.Clone(c.Sessions)
		}
		if c.Timer != nil {
			s.Timer = *c.Timer
		}

	default:
		return s, fmt.Errorf("unknown command %T", cmd)
	}

	return s, nil
}
