package analytics

import "time"

// Clock provides "now" for the streak and weekly window calculations.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock in the local timezone.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t. Used in tests and for reproducible reports.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time {
		return t
	})
}
