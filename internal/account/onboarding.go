package account

import (
	"encoding/json"
	"strings"

	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"
)

const (
	defaultGender            = "Prefer not to say"
	defaultEnvironment       = "home"
	defaultDietaryPreference = "No Restrictions"
	defaultWeeklyGoal        = 3
	minWeeklyGoal            = 1
	maxWeeklyGoal            = 7
)

// List decodes either a JSON array or a single comma separated string.
// Items are trimmed and empty ones dropped.
type List []string

func (l *List) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*l = SplitList(asString)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = cleanList(items)
	return nil
}

// SplitList splits a comma separated answer like "lose weight, , run 5k".
func SplitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

// OnboardingForm holds the questionnaire answers.
type OnboardingForm struct {
	Age                 fitness.Number `json:"age"`
	Height              fitness.Number `json:"height"`
	Weight              fitness.Number `json:"weight"`
	Gender              string         `json:"gender"`
	Environment         string         `json:"environment"`
	DietaryPreference   string         `json:"dietaryPreference"`
	WeeklyWorkoutGoal   fitness.Number `json:"weeklyWorkoutGoal"`
	FitnessGoals        List           `json:"fitnessGoals"`
	HealthConditions    List           `json:"healthConditions"`
	ExercisePreferences List           `json:"exercisePreferences"`
}

// ProfileUpdate fills the defaults in and clamps the weekly goal to 1..7.
func (f OnboardingForm) ProfileUpdate() backend.ProfileUpdate {
	goal := f.WeeklyWorkoutGoal.Int()
	switch {
	case goal == 0:
		goal = defaultWeeklyGoal
	case goal < minWeeklyGoal:
		goal = minWeeklyGoal
	case goal > maxWeeklyGoal:
		goal = maxWeeklyGoal
	}

	return backend.ProfileUpdate{
		Age:                 f.Age,
		Height:              f.Height,
		Weight:              f.Weight,
		Gender:              orDefault(f.Gender, defaultGender),
		Environment:         orDefault(f.Environment, defaultEnvironment),
		DietaryPreference:   orDefault(f.DietaryPreference, defaultDietaryPreference),
		WeeklyWorkoutGoal:   goal,
		FitnessGoals:        cleanList(f.FitnessGoals),
		HealthConditions:    cleanList(f.HealthConditions),
		ExercisePreferences: cleanList(f.ExercisePreferences),
	}
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}
