package analytics

import (
	"time"

	"github.com/2beens/fittrack/internal/fitness"
)

// Streak returns the number of consecutive calendar days with at least one
// workout, walking backward from the most recent workout day. A streak whose
// most recent day is neither today nor yesterday (relative to now, in now's
// timezone) has lapsed and is 0. Workouts with malformed dates are skipped.
func Streak(workouts []fitness.Workout, now time.Time) int {
	loc := now.Location()
	days := make(map[string]struct{}, len(workouts))
	var mostRecent time.Time
	for _, w := range workouts {
		day, ok := w.Day(loc)
		if !ok {
			continue
		}
		days[day.Format(fitness.DateLayout)] = struct{}{}
		if day.After(mostRecent) {
			mostRecent = day
		}
	}

	if len(days) == 0 {
		return 0
	}

	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if !mostRecent.Equal(today) && !mostRecent.Equal(yesterday) {
		return 0
	}

	streak := 0
	for day := mostRecent; ; day = day.AddDate(0, 0, -1) {
		if _, ok := days[day.Format(fitness.DateLayout)]; !ok {
			break
		}
		streak++
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
