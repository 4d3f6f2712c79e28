package workouts

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"
)

var ErrInvalidWorkout = errors.New("invalid workout")

// Form is a workout as entered by the user, before validation.
type Form struct {
	Title     string             `json:"title"`
	Date      string             `json:"date"`
	Duration  fitness.Number     `json:"duration"` // minutes
	Exercises []fitness.Exercise `json:"exercises"`
}

// Rand is satisfied by *rand.Rand from math/rand and math/rand/v2.
type Rand interface {
	Float64() float64
}

// EstimateCalories is a rough guess of calories burned: five per minute plus
// a random bonus below 50.
func EstimateCalories(minutes int, r Rand) int {
	if minutes < 0 {
		minutes = 0
	}
	return int(math.Floor(float64(minutes)*5 + r.Float64()*50))
}

// Build validates the form and turns it into a backend create payload.
// An empty date means today, in now's timezone.
func (f Form) Build(now time.Time, r Rand) (backend.NewWorkout, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return backend.NewWorkout{}, fmt.Errorf("%w: title is required", ErrInvalidWorkout)
	}

	minutes := f.Duration.Int()
	if minutes <= 0 {
		return backend.NewWorkout{}, fmt.Errorf("%w: duration must be a positive number of minutes", ErrInvalidWorkout)
	}

	date := strings.TrimSpace(f.Date)
	if date == "" {
		date = now.Format(fitness.DateLayout)
	} else if _, ok := fitness.ParseDay(date, now.Location()); !ok {
		return backend.NewWorkout{}, fmt.Errorf("%w: bad date %q", ErrInvalidWorkout, f.Date)
	}

	exercises := make([]fitness.Exercise, 0, len(f.Exercises))
	for _, e := range f.Exercises {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		exercises = append(exercises, e)
	}

	return backend.NewWorkout{
		Title:     title,
		Date:      date,
		Duration:  fmt.Sprintf("%d min", minutes),
		Calories:  EstimateCalories(minutes, r),
		Exercises: exercises,
	}, nil
}
