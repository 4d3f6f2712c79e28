package activity

import (
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/fitness"
)

// EventType can be one of:
//   - workout_logged
//   - workout_deleted
//   - user_logged_in
//   - user_signed_up
//   - profile_updated
type EventType string

const (
	EventTypeWorkoutLogged  EventType = "workout_logged"
	EventTypeWorkoutDeleted EventType = "workout_deleted"
	EventTypeUserLoggedIn   EventType = "user_logged_in"
	EventTypeUserSignedUp   EventType = "user_signed_up"
	EventTypeProfileUpdated EventType = "profile_updated"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeWorkoutLogged,
		EventTypeWorkoutDeleted,
		EventTypeUserLoggedIn,
		EventTypeUserSignedUp,
		EventTypeProfileUpdated:
		return true
	default:
		return false
	}
}

// Event is a single user action, stored in fittrack_event.
type Event struct {
	ID        int               `json:"id"`
	Type      EventType         `json:"type"`
	UserEmail string            `json:"userEmail"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

func NewWorkoutLoggedEvent(userEmail string, w fitness.Workout, ts time.Time) Event {
	return Event{
		Type:      EventTypeWorkoutLogged,
		UserEmail: userEmail,
		Timestamp: ts,
		Data: map[string]string{
			"workoutId": w.ID,
			"title":     w.Title,
			"date":      w.Date,
			"minutes":   strconv.Itoa(w.Minutes()),
			"calories":  strconv.Itoa(w.CaloriesBurned()),
			"exercises": strconv.Itoa(len(w.Exercises)),
		},
	}
}

func NewWorkoutDeletedEvent(userEmail, workoutID string, ts time.Time) Event {
	return Event{
		Type:      EventTypeWorkoutDeleted,
		UserEmail: userEmail,
		Timestamp: ts,
		Data: map[string]string{
			"workoutId": workoutID,
		},
	}
}

func NewUserLoggedInEvent(userEmail string, ts time.Time) Event {
	return Event{
		Type:      EventTypeUserLoggedIn,
		UserEmail: userEmail,
		Timestamp: ts,
		Data:      map[string]string{},
	}
}

func NewUserSignedUpEvent(userEmail, name string, ts time.Time) Event {
	return Event{
		Type:      EventTypeUserSignedUp,
		UserEmail: userEmail,
		Timestamp: ts,
		Data: map[string]string{
			"name": name,
		},
	}
}

func NewProfileUpdatedEvent(p *fitness.Profile, ts time.Time) Event {
	e := Event{
		Type:      EventTypeProfileUpdated,
		Timestamp: ts,
		Data:      map[string]string{},
	}
	if p == nil {
		return e
	}
	e.UserEmail = p.Email
	e.Data["weeklyWorkoutGoal"] = strconv.Itoa(p.WeeklyWorkoutGoal.Int())
	e.Data["fitnessGoals"] = strings.Join(p.FitnessGoals, ",")
	e.Data["environment"] = p.Environment
	return e
}
