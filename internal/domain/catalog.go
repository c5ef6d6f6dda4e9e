package domain

import (
	"fmt"
	"strings"
)

// SoundCategory groups ambient sounds in the picker.
type SoundCategory string

const (
	CategoryNature       SoundCategory = "nature"
	CategoryAmbient      SoundCategory = "ambient"
	CategoryRain         SoundCategory = "rain"
	CategoryInstrumental SoundCategory = "instrumental"
)

// Sound is an ambient track that can be looped behind a session.
type Sound struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Icon     string        `json:"icon"`
	File     string        `json:"file"`
	Category SoundCategory `json:"category"`
}

// Sounds is the ambient sound catalogue.
var Sounds = []Sound{
	{ID: "rain", Name: "Rain", Icon: "🌧️", File: "rain.mp3", Category: CategoryRain},
	{ID: "forest", Name: "Forest", Icon: "🌲", File: "forest.mp3", Category: CategoryNature},
	{ID: "ocean", Name: "Ocean", Icon: "🌊", File: "ocean.mp3", Category: CategoryNature},
	{ID: "fire", Name: "Fireplace", Icon: "🔥", File: "fire.mp3", Category: CategoryAmbient},
	{ID: "coffee", Name: "Coffee Shop", Icon: "☕", File: "coffee-shop.mp3", Category: CategoryAmbient},
	{ID: "birds", Name: "Birds", Icon: "🐦", File: "birds.mp3", Category: CategoryNature},
	{ID: "wind", Name: "Wind", Icon: "💨", File: "wind.mp3", Category: CategoryNature},
	{ID: "piano", Name: "Piano", Icon: "🎹", File: "piano.mp3", Category: CategoryInstrumental},
}

// FindSound looks a sound up by id.
func FindSound(id string) (Sound, bool) {
	for _, s := range Sounds {
		if s.ID == id {
			return s, true
		}
	}
	return Sound{}, false
}

// MeditationType is a guided meditation style.
type MeditationType string

const (
	MeditationBreathing   MeditationType = "breathing"
	MeditationMindfulness MeditationType = "mindfulness"
	MeditationBodyScan    MeditationType = "body-scan"
)

// MeditationStyle describes a meditation type for display.
type MeditationStyle struct {
	Type        MeditationType
	Name        string
	Icon        string
	Description string
}

// MeditationStyles lists the guided meditation types.
var MeditationStyles = []MeditationStyle{
	{MeditationBreathing, "Breathing", "🫁", "Focus on your breath to relax"},
	{MeditationMindfulness, "Mindfulness", "🧘", "Be present in the current moment"},
	{MeditationBodyScan, "Body Scan", "🎯", "Relax each part of your body"},
}

// MeditationDurations are the selectable meditation lengths in minutes.
var MeditationDurations = []int{5, 10, 15, 20, 30}

// FindMeditationType looks a meditation style up by type.
func FindMeditationType(t MeditationType) (MeditationStyle, bool) {
	for _, m := range MeditationStyles {
		if m.Type == t {
			return m, true
		}
	}
	return MeditationStyle{}, false
}

// ParseMeditationType validates a meditation type name.
func ParseMeditationType(s string) (MeditationType, error) {
	t := MeditationType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := FindMeditationType(t); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMeditation, s)
	}
	return t, nil
}

// View is the screen the application is showing.
type View string

const (
	ViewTimer      View = "timer"
	ViewMeditation View = "meditation"
	ViewStats      View = "stats"
	ViewSounds     View = "sounds"
	ViewSettings   View = "settings"
)

// Views lists the screens in navigation order.
var Views = []View{ViewTimer, ViewMeditation, ViewStats, ViewSounds, ViewSettings}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
}
