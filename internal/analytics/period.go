package analytics

import (
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/fitness"
)

// Scope selects which workouts feed the weekday buckets.
type Scope string

const (
	// ScopeAll buckets every workout by its weekday, whatever week it is in.
	ScopeAll Scope = "all"
	// ScopeWeek buckets only the workouts of the Monday to Sunday week containing now.
	ScopeWeek Scope = "week"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeWeek:
		return ScopeWeek, nil
	default:
		return "", fmt.Errorf("unknown scope: %s", s)
	}
}

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type DayBucket struct {
	Day      string `json:"day"`
	Minutes  int    `json:"minutes"`
	Calories int    `json:"calories"`
}

// BucketIndex maps a weekday onto a Monday first slot: Sunday is 6, Monday 0.
func BucketIndex(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// WeekdayBuckets sums minutes and calories per weekday over all workouts.
// Workouts from different weeks share a slot.
func WeekdayBuckets(workouts []fitness.Workout) []DayBucket {
	buckets := emptyBuckets()
	for _, w := range workouts {
		day, ok := w.Day(time.UTC)
		if !ok {
			continue
		}
		addToBucket(buckets, day.Weekday(), w)
	}
	return buckets
}

// CurrentWeekBuckets sums minutes and calories per weekday, counting only
// workouts dated inside the Monday to Sunday week that contains now.
func CurrentWeekBuckets(workouts []fitness.Workout, now time.Time) []DayBucket {
	weekStart, weekEnd := WeekBounds(now)
	buckets := emptyBuckets()
	for _, w := range workouts {
		day, ok := w.Day(now.Location())
		if !ok {
			continue
		}
		if day.Before(weekStart) || !day.Before(weekEnd) {
			continue
		}
		addToBucket(buckets, day.Weekday(), w)
	}
	return buckets
}

// WeekBounds returns midnight of the Monday starting now's week, and midnight
// of the following Monday.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	today := startOfDay(now)
	start := today.AddDate(0, 0, -BucketIndex(today.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

func emptyBuckets() []DayBucket {
	buckets := make([]DayBucket, len(weekdayLabels))
	for i, label := range weekdayLabels {
		buckets[i].Day = label
	}
	return buckets
}

func addToBucket(buckets []DayBucket, wd time.Weekday, w fitness.Workout) {
	b := &buckets[BucketIndex(wd)]
	b.Minutes += w.Minutes()
	b.Calories += w.CaloriesBurned()
}
