package domain

import "time"

// UserStats is derived from the session log and never stored.
type UserStats struct {
	TotalSessions       int `json:"totalSessions"`
	TotalFocusTime      int `json:"totalFocusTime"`
	TotalMeditationTime int `json:"totalMeditationTime"`
	CurrentStreak       int `json:"currentStreak"`
	LongestStreak       int `json:"longestStreak"`
	SessionsToday       int `json:"sessionsToday"`
	AvgSessionLength    int `json:"avgSessionLength"`
	WeeklyGoal          int `json:"weeklyGoal"`

	// WeeklyProgress is an unrounded percentage capped at 100.
	WeeklyProgress float64 `json:"weeklyProgress"`
}

// ChartBucket aggregates completed sessions over one chart period.
// Hours fields are only filled for monthly buckets.
type ChartBucket struct {
	Label             string    `json:"label"`
	Start             time.Time `json:"start"`
	Sessions          int       `json:"sessions"`
	FocusMinutes      int       `json:"focusMinutes"`
	MeditationMinutes int       `json:"meditationMinutes"`
	FocusHours        int       `json:"focusHours,omitempty"`
	MeditationHours   int       `json:"meditationHours,omitempty"`
}

// InsightCategory classifies an insight.
type InsightCategory string

const (
	InsightAchievement  InsightCategory = "achievement"
	InsightProductivity InsightCategory = "productivity"
	InsightWellness     InsightCategory = "wellness"
)

// Insight is a human-readable observation about the user's stats.
type Insight struct {
	ID          string          `json:"id"`
	Category    InsightCategory `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	GeneratedAt time.Time       `json:"date"`
}

// NewInsight creates an insight with a fresh id.
func NewInsight(category InsightCategory, title, description string, now time.Time) Insight {
	return Insight{
		ID:          generateID(),
		Category:    category,
		Title:       title,
		Description: description,
		GeneratedAt: now,
	}
}
