package tui

import (
	"fmt"

	"github.com/xvierd/focusflow/internal/domain"
)

// settingField is one editable row in the settings view.
type settingField struct {
	label  string
	value  func(domain.AppSettings) string
	adjust func(s *domain.AppSettings, delta int)
}

var settingFields = []settingField{
	minutesField("Focus length", func(s *domain.AppSettings) *int { return &s.PomodoroLength }),
	minutesField("Short break", func(s *domain.AppSettings) *int { return &s.ShortBreakLength }),
	minutesField("Long break", func(s *domain.AppSettings) *int { return &s.LongBreakLength }),
	countField("Cycles before long break", func(s *domain.AppSettings) *int { return &s.CyclesBeforeLongBreak }),
	countField("Weekly goal", func(s *domain.AppSettings) *int { return &s.WeeklyGoal }),
	boolField("Notifications", func(s *domain.AppSettings) *bool { return &s.Notifications }),
	boolField("Completion sound", func(s *domain.AppSettings) *bool { return &s.SoundEnabled }),
	{
		label: "Background sound",
		value: func(s domain.AppSettings) string {
			if s.BackgroundSound == nil {
				return "none"
			}
			if sound, ok := domain.FindSound(*s.BackgroundSound); ok {
				return sound.Icon + " " + sound.Name
			}
			return *s.BackgroundSound
		},
		adjust: cycleBackgroundSound,
	},
	{
		label: "Theme",
		value: func(s domain.AppSettings) string { return string(s.Theme) },
		adjust: func(s *domain.AppSettings, delta int) {
			themes := []domain.Theme{domain.ThemeAuto, domain.ThemeLight, domain.ThemeDark}
			idx := 0
			for i, t := range themes {
				if t == s.Theme {
					idx = i
				}
			}
			s.Theme = themes[(idx+delta+len(themes))%len(themes)]
		},
	},
}

func minutesField(label string, field func(*domain.AppSettings) *int) settingField {
	return settingField{
		label: label,
		value: func(s domain.AppSettings) string { return fmt.Sprintf("%d min", *field(&s)) },
		adjust: func(s *domain.AppSettings, delta int) {
			*field(s) = max(0, *field(s)+delta)
		},
	}
}

func countField(label string, field func(*domain.AppSettings) *int) settingField {
	return settingField{
		label: label,
		value: func(s domain.AppSettings) string { return fmt.Sprintf("%d", *field(&s)) },
		adjust: func(s *domain.AppSettings, delta int) {
			*field(s) = max(0, *field(s)+delta)
		},
	}
}

func boolField(label string, field func(*domain.AppSettings) *bool) settingField {
	return settingField{
		label: label,
		value: func(s domain.AppSettings) string {
			if *field(&s) {
				return "on"
			}
			return "off"
		},
		adjust: func(s *domain.AppSettings, _ int) {
			*field(s) = !*field(s)
		},
	}
}

// cycleBackgroundSound steps through "none" followed by the catalogue.
func cycleBackgroundSound(s *domain.AppSettings, delta int) {
	ids := make([]*string, 0, len(domain.Sounds)+1)
	ids = append(ids, nil)
	idx := 0
	for i := range domain.Sounds {
		id := domain.Sounds[i].ID
		if s.BackgroundSound != nil && *s.BackgroundSound == id {
			idx = i + 1
		}
		ids = append(ids, &id)
	}
	s.BackgroundSound = ids[(idx+delta+len(ids))%len(ids)]
}
