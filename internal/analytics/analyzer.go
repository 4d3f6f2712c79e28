package analytics

import (
	"time"

	"github.com/2beens/fittrack/internal/fitness"
)

// Analyzer binds the pure aggregation functions to a clock.
// It holds no state besides the clock, so one instance can be shared freely.
type Analyzer struct {
	clock Clock
}

func NewAnalyzer(clock Clock) *Analyzer {
	if clock == nil {
		clock = SystemClock
	}
	return &Analyzer{
		clock: clock,
	}
}

func (a *Analyzer) Now() time.Time {
	return a.clock.Now()
}

func (a *Analyzer) Streak(workouts []fitness.Workout) int {
	return Streak(workouts, a.clock.Now())
}

func (a *Analyzer) Summary(workouts []fitness.Workout, profile *fitness.Profile) Summary {
	return Summarize(workouts, WeeklyGoal(profile), a.clock.Now())
}

func (a *Analyzer) Buckets(workouts []fitness.Workout, scope Scope) []DayBucket {
	if scope == ScopeWeek {
		return CurrentWeekBuckets(workouts, a.clock.Now())
	}
	return WeekdayBuckets(workouts)
}

func (a *Analyzer) Health(profile *fitness.Profile) Health {
	return HealthFor(profile)
}
