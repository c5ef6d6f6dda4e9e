// Package insights turns statistics into short observations for the user.
package insights

import (
	"fmt"
	"math"
	"time"

	"github.com/xvierd/focusflow/internal/domain"
)

// Thresholds used by Generate.
const (
	StreakAchievementDays = 7
	NearGoalPercent       = 75
	MeditationRatioFloor  = 0.2
	MinSessionsForBalance = 10
)

// Generate evaluates every rule in order and returns all that apply.
func Generate(s domain.UserStats, now time.Time) []domain.Insight {
	var out []domain.Insight

	if s.CurrentStreak >= StreakAchievementDays {
		out = append(out, domain.NewInsight(domain.InsightAchievement,
			"🔥 Amazing Streak!",
			fmt.Sprintf("You've kept a streak of %d consecutive days!", s.CurrentStreak),
			now))
	}

	if s.WeeklyProgress >= 100 {
		out = append(out, domain.NewInsight(domain.InsightAchievement,
			"🎯 Weekly Goal Reached!",
			"Congratulations! You completed your weekly session goal.",
			now))
	} else if s.WeeklyProgress >= NearGoalPercent {
		out = append(out, domain.NewInsight(domain.InsightProductivity,
			"📈 Almost There!",
			fmt.Sprintf("You're %d sessions away from your weekly goal.", SessionsRemaining(s)),
			now))
	}

	if total := s.TotalFocusTime + s.TotalMeditationTime; total > 0 {
		ratio := float64(s.TotalMeditationTime) / float64(total)
		if ratio < MeditationRatioFloor && s.TotalSessions > MinSessionsForBalance {
			out = append(out, domain.NewInsight(domain.InsightWellness,
				"🧘 How About Meditating?",
				"Adding more meditation sessions can improve your focus and well-being.",
				now))
		}
	}

	if s.SessionsToday == 0 && s.CurrentStreak > 0 {
		out = append(out, domain.NewInsight(domain.InsightProductivity,
			"⏰ Time to Focus!",
			"You haven't done a session today yet. Why not start now?",
			now))
	}

	return out
}

// progressEpsilon absorbs float error when a percentage is turned back
// into a session count.
const progressEpsilon = 1e-9

// SessionsRemaining is ceil(goal - progress% of goal).
func SessionsRemaining(s domain.UserStats) int {
	done := s.WeeklyProgress / 100 * float64(s.WeeklyGoal)
	return max(0, int(math.Ceil(float64(s.WeeklyGoal)-done-progressEpsilon)))
}
