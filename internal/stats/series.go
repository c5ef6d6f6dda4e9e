package stats

import (
	"math"
	"time"

	"github.com/xvierd/focusflow/internal/domain"
)

// WeeklySeries returns seven buckets, Monday through Sunday of now's ISO
// week, each covering a single day.
func WeeklySeries(sessions []domain.SessionRecord, now time.Time) []domain.ChartBucket {
	start := StartOfWeek(now)
	buckets := make([]domain.ChartBucket, 7)
	for i := range buckets {
		day := start.AddDate(0, 0, i)
		buckets[i] = domain.ChartBucket{Label: day.Format("Mon"), Start: day}
	}

	fill(buckets, sessions, now.Location(), func(b domain.ChartBucket) time.Time {
		return b.Start.AddDate(0, 0, 1)
	})
	return buckets
}

// MonthlySeries returns six buckets: the five months before now's month
// and the current month, oldest first. Hours are rounded from minutes.
func MonthlySeries(sessions []domain.SessionRecord, now time.Time) []domain.ChartBucket {
	current := StartOfMonth(now)
	buckets := make([]domain.ChartBucket, 6)
	for i := range buckets {
		month := current.AddDate(0, i-5, 0)
		buckets[i] = domain.ChartBucket{Label: month.Format("Jan"), Start: month}
	}

	fill(buckets, sessions, now.Location(), func(b domain.ChartBucket) time.Time {
		return b.Start.AddDate(0, 1, 0)
	})
	for i := range buckets {
		buckets[i].FocusHours = minutesToHours(buckets[i].FocusMinutes)
		buckets[i].MeditationHours = minutesToHours(buckets[i].MeditationMinutes)
	}
	return buckets
}

// fill adds every completed session to the bucket whose window contains it.
func fill(buckets []domain.ChartBucket, sessions []domain.SessionRecord, loc *time.Location, end func(domain.ChartBucket) time.Time) {
	for _, r := range sessions {
		if !r.Completed {
			continue
		}
		at := r.Timestamp.In(loc)
		for i := range buckets {
			b := &buckets[i]
			if !inWindow(at, b.Start, end(*b)) {
				continue
			}
			b.Sessions++
			switch {
			case r.IsFocus():
				b.FocusMinutes += r.DurationMinutes
			case r.IsMeditation():
				b.MeditationMinutes += r.DurationMinutes
			}
			break
		}
	}
}

func minutesToHours(minutes int) int {
	return int(math.Round(float64(minutes) / 60))
}
