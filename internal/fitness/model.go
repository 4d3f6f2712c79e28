package fitness

import (
	"encoding/json"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Exercise struct {
	Name   string `json:"name" toml:"name"`
	Sets   Number `json:"sets" toml:"sets"`
	Reps   Number `json:"reps" toml:"reps"`
	Weight Number `json:"weight" toml:"weight"`
}

// Workout is a single logged workout, as returned by the backend.
type Workout struct {
	ID        string     `json:"_id"`
	Title     string     `json:"title"`
	Date      string     `json:"date"`
	Duration  Number     `json:"duration"`
	Calories  Number     `json:"calories"`
	Exercises []Exercise `json:"exercises"`
}

// UnmarshalJSON accepts both the "_id" key used by the backend and a plain "id".
func (w *Workout) UnmarshalJSON(data []byte) error {
	type plain Workout
	var aux struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*w = Workout(aux.plain)
	if w.ID == "" {
		w.ID = aux.AltID
	}
	return nil
}

// Minutes is the integer part of the duration, never negative.
func (w Workout) Minutes() int {
	if m := w.Duration.Int(); m > 0 {
		return m
	}
	return 0
}

// CaloriesBurned is the integer part of the calories, never negative.
func (w Workout) CaloriesBurned() int {
	if c := w.Calories.Int(); c > 0 {
		return c
	}
	return 0
}

// Day returns the calendar day of the workout as midnight in loc.
// Accepts "YYYY-MM-DD" and RFC3339 timestamps (the date part is used as written).
func (w Workout) Day(loc *time.Location) (time.Time, bool) {
	return ParseDay(w.Date, loc)
}

func ParseDay(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(DateLayout) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	datePart := raw[:len(DateLayout)]
	if len(raw) > len(DateLayout) {
		if _, err := time.Parse(time.RFC3339Nano, raw); err != nil {
			return time.Time{}, false
		}
	}

	d, err := time.ParseInLocation(DateLayout, datePart, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Profile is the authenticated user's profile. An empty Token means logged out.
type Profile struct {
	ID                  string   `json:"_id,omitempty" toml:"id"`
	Name                string   `json:"name" toml:"name"`
	Email               string   `json:"email" toml:"email"`
	Age                 Number   `json:"age" toml:"age"`
	Height              Number   `json:"height" toml:"height"`
	Weight              Number   `json:"weight" toml:"weight"`
	Gender              string   `json:"gender" toml:"gender"`
	Environment         string   `json:"environment,omitempty" toml:"environment"`
	DietaryPreference   string   `json:"dietaryPreference,omitempty" toml:"dietary_preference"`
	WeeklyWorkoutGoal   Number   `json:"weeklyWorkoutGoal" toml:"weekly_workout_goal"`
	FitnessGoals        []string `json:"fitnessGoals" toml:"fitness_goals"`
	HealthConditions    []string `json:"healthConditions" toml:"health_conditions"`
	ExercisePreferences []string `json:"exercisePreferences" toml:"exercise_preferences"`
	Token               string   `json:"token,omitempty" toml:"token"`
}

func (p *Profile) LoggedIn() bool {
	return p != nil && p.Token != ""
}

// NeedsOnboarding is true until the user has set at least one fitness goal.
func (p *Profile) NeedsOnboarding() bool {
	return p == nil || len(p.FitnessGoals) == 0
}

// FirstName returns the first word of the name, or "User" when there is none.
func (p *Profile) FirstName() string {
	if p == nil {
		return "User"
	}
	if fields := strings.Fields(p.Name); len(fields) > 0 {
		return fields[0]
	}
	return "User"
}
