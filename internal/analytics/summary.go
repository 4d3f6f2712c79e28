package analytics

import (
	"math"
	"time"

	"github.com/2beens/fittrack/internal/fitness"
)

const DefaultWeeklyGoal = 3

type Level string

const (
	LevelBronze   Level = "Bronze"
	LevelSilver   Level = "Silver"
	LevelGold     Level = "Gold"
	LevelPlatinum Level = "Platinum"
	LevelElite    Level = "Elite"
)

func (l Level) String() string {
	return string(l)
}

// tiers are ordered highest first; min is an inclusive lower bound
var tiers = []struct {
	level Level
	min   int
}{
	{LevelElite, 50},
	{LevelPlatinum, 30},
	{LevelGold, 15},
	{LevelSilver, 5},
	{LevelBronze, 0},
}

// LevelFor classifies a user by lifetime workout count.
func LevelFor(totalWorkouts int) Level {
	for _, t := range tiers {
		if totalWorkouts >= t.min {
			return t.level
		}
	}
	return LevelBronze
}

type LevelProgress struct {
	Next      Level `json:"next"`
	Remaining int   `json:"remaining"`
}

// NextLevel returns the tier above the current one and how many workouts are
// still missing to reach it. Elite has no next tier.
func NextLevel(totalWorkouts int) (LevelProgress, bool) {
	var next *LevelProgress
	for _, t := range tiers {
		if totalWorkouts >= t.min {
			break
		}
		next = &LevelProgress{
			Next:      t.level,
			Remaining: t.min - totalWorkouts,
		}
	}
	if next == nil {
		return LevelProgress{}, false
	}
	return *next, true
}

func TotalMinutes(workouts []fitness.Workout) int {
	total := 0
	for _, w := range workouts {
		total += w.Minutes()
	}
	return total
}

func TotalCalories(workouts []fitness.Workout) int {
	total := 0
	for _, w := range workouts {
		total += w.CaloriesBurned()
	}
	return total
}

// WorkoutsThisWeek counts workouts dated on or after now minus 7 days.
// Dates are read as local midnight in now's timezone.
func WorkoutsThisWeek(workouts []fitness.Workout, now time.Time) int {
	cutoff := now.AddDate(0, 0, -7)
	count := 0
	for _, w := range workouts {
		day, ok := w.Day(now.Location())
		if !ok {
			continue
		}
		if !day.Before(cutoff) {
			count++
		}
	}
	return count
}

// WeeklyGoal returns the profile goal, or DefaultWeeklyGoal when it is unset.
func WeeklyGoal(profile *fitness.Profile) int {
	if profile == nil {
		return DefaultWeeklyGoal
	}
	if goal := profile.WeeklyWorkoutGoal.Int(); goal > 0 {
		return goal
	}
	return DefaultWeeklyGoal
}

// GoalPercent is done/goal as a rounded percentage, capped at 100.
func GoalPercent(done, goal int) int {
	if goal <= 0 {
		goal = DefaultWeeklyGoal
	}
	p := int(math.Round(float64(done) / float64(goal) * 100))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

type Summary struct {
	TotalWorkouts    int            `json:"totalWorkouts"`
	TotalMinutes     int            `json:"totalMinutes"`
	TotalCalories    int            `json:"totalCalories"`
	WorkoutsThisWeek int            `json:"workoutsThisWeek"`
	WeeklyGoal       int            `json:"weeklyGoal"`
	GoalPercent      int            `json:"goalPercent"`
	Streak           int            `json:"streak"`
	Level            Level          `json:"level"`
	NextLevel        *LevelProgress `json:"nextLevel,omitempty"`
}

func Summarize(workouts []fitness.Workout, weeklyGoal int, now time.Time) Summary {
	if weeklyGoal <= 0 {
		weeklyGoal = DefaultWeeklyGoal
	}

	thisWeek := WorkoutsThisWeek(workouts, now)
	s := Summary{
		TotalWorkouts:    len(workouts),
		TotalMinutes:     TotalMinutes(workouts),
		TotalCalories:    TotalCalories(workouts),
		WorkoutsThisWeek: thisWeek,
		WeeklyGoal:       weeklyGoal,
		GoalPercent:      GoalPercent(thisWeek, weeklyGoal),
		Streak:           Streak(workouts, now),
		Level:            LevelFor(len(workouts)),
	}
	if next, ok := NextLevel(len(workouts)); ok {
		s.NextLevel = &next
	}
	return s
}
