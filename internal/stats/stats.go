// Package stats derives summary statistics and chart series from the
// session log. Every function here is pure: the result depends only on the
// arguments, and nothing is cached between calls.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xvierd/focusflow/internal/domain"
)

// MaxStreakLookback bounds how many days the current streak walk inspects.
const MaxStreakLookback = 3650

// Compute derives UserStats from sessions as of now. Calendar windows use
// now's location.
func Compute(sessions []domain.SessionRecord, weeklyGoal int, now time.Time) (domain.UserStats, error) {
	if weeklyGoal <= 0 {
		return domain.UserStats{}, fmt.Errorf("%w: got %d", domain.ErrInvalidWeeklyGoal, weeklyGoal)
	}

	loc := now.Location()
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := StartOfWeek(now)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var (
		s        domain.UserStats
		thisWeek int
		days     = make(map[time.Time]bool)
	)
	s.WeeklyGoal = weeklyGoal

	for _, r := range sessions {
		if !r.Completed {
			continue
		}

		s.TotalSessions++
		switch {
		case r.IsFocus():
			s.TotalFocusTime += r.DurationMinutes
		case r.IsMeditation():
			s.TotalMeditationTime += r.DurationMinutes
		}

		at := r.Timestamp.In(loc)
		if inWindow(at, today, tomorrow) {
			s.SessionsToday++
		}
		if inWindow(at, weekStart, weekEnd) {
			thisWeek++
		}
		days[StartOfDay(at)] = true
	}

	if s.TotalSessions > 0 {
		total := 0
		for _, r := range sessions {
			if r.Completed {
				total += r.DurationMinutes
			}
		}
		s.AvgSessionLength = int(math.Round(float64(total) / float64(s.TotalSessions)))
	}

	s.WeeklyProgress = min(100, 100*float64(thisWeek)/float64(weeklyGoal))
	s.CurrentStreak = currentStreak(days, today)
	s.LongestStreak = longestStreak(days)

	return s, nil
}

// currentStreak counts consecutive qualifying days ending today.
func currentStreak(days map[time.Time]bool, today time.Time) int {
	streak := 0
	day := today
	for i := 0; i < MaxStreakLookback; i++ {
		if !days[day] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak scans the sorted distinct dates for the longest run of
// consecutive calendar days.
func longestStreak(days map[time.Time]bool) int {
	if len(days) == 0 {
		return 0
	}

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].AddDate(0, 0, 1).Equal(dates[i]) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// StartOfDay returns midnight at the start of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of t's ISO week.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return StartOfDay(t).AddDate(0, 0, -(weekday - 1))
}

// StartOfMonth returns 00:00 on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
