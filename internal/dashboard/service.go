package dashboard

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/2beens/fittrack/internal/activity"
	"github.com/2beens/fittrack/internal/analytics"
	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=dashboard_test

const recentWorkoutsCount = 5

type workoutStore interface {
	List(ctx context.Context, token string) ([]fitness.Workout, error)
	Add(ctx context.Context, token string, workout backend.NewWorkout) (*fitness.Workout, error)
	Delete(ctx context.Context, token, id string) error
}

// Dashboard is the landing view of a logged in user.
type Dashboard struct {
	FirstName      string            `json:"firstName"`
	BMI            *float64          `json:"bmi"`
	BMR            int               `json:"bmr"`
	BMRRaw         float64           `json:"bmrRaw"`
	TotalWorkouts  int               `json:"totalWorkouts"`
	TotalCalories  int               `json:"totalCalories"`
	TotalMinutes   int               `json:"totalMinutes"`
	Streak         int               `json:"streak"`
	RecentWorkouts []fitness.Workout `json:"recentWorkouts"`
}

type ProfileStats struct {
	analytics.Summary
	Scope    analytics.Scope       `json:"scope"`
	Weekdays []analytics.DayBucket `json:"weekdays"`
}

type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64()
}

type Service struct {
	store          workoutStore
	analyzer       *analytics.Analyzer
	recorder       activity.Recorder
	metricsManager *metrics.Manager
	rand           workouts.Rand
}

func NewService(
	store workoutStore,
	analyzer *analytics.Analyzer,
	recorder activity.Recorder,
	metricsManager *metrics.Manager,
) *Service {
	if analyzer == nil {
		analyzer = analytics.NewAnalyzer(analytics.SystemClock)
	}
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &Service{
		store:          store,
		analyzer:       analyzer,
		recorder:       recorder,
		metricsManager: metricsManager,
		rand:           globalRand{},
	}
}

// WithRand replaces the calorie estimate randomness, used by tests.
func (s *Service) WithRand(r workouts.Rand) *Service {
	s.rand = r
	return s
}

func (s *Service) Dashboard(ctx context.Context, sess *session.Session) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.get")
	defer tracing.EndSpan(span, &err)

	list, err := s.Workouts(ctx, sess)
	if err != nil {
		return nil, err
	}

	health := s.analyzer.Health(sess.Profile)
	recent := list
	if len(recent) > recentWorkoutsCount {
		recent = recent[:recentWorkoutsCount]
	}

	return &Dashboard{
		FirstName:      sess.Profile.FirstName(),
		BMI:            health.BMI,
		BMR:            health.BMRRounded,
		BMRRaw:         health.BMR,
		TotalWorkouts:  len(list),
		TotalCalories:  analytics.TotalCalories(list),
		TotalMinutes:   analytics.TotalMinutes(list),
		Streak:         s.analyzer.Streak(list),
		RecentWorkouts: recent,
	}, nil
}

func (s *Service) ProfileStats(ctx context.Context, sess *session.Session, scope analytics.Scope) (_ *ProfileStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.stats")
	defer tracing.EndSpan(span, &err)

	list, err := s.Workouts(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &ProfileStats{
		Summary:  s.analyzer.Summary(list, sess.Profile),
		Scope:    scope,
		Weekdays: s.analyzer.Buckets(list, scope),
	}, nil
}

func (s *Service) Workouts(ctx context.Context, sess *session.Session) ([]fitness.Workout, error) {
	token := sess.Token()
	if token == "" {
		return nil, backend.ErrUnauthorized
	}

	list, err := s.store.List(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return list, nil
}

// LogWorkout validates the form, estimates calories and stores the workout.
func (s *Service) LogWorkout(ctx context.Context, sess *session.Session, form workouts.Form) (_ *fitness.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.log-workout")
	defer tracing.EndSpan(span, &err)

	token := sess.Token()
	if token == "" {
		return nil, backend.ErrUnauthorized
	}

	newWorkout, err := form.Build(s.analyzer.Now(), s.rand)
	if err != nil {
		return nil, err
	}

	added, err := s.store.Add(ctx, token, newWorkout)
	if err != nil {
		return nil, fmt.Errorf("add workout: %w", err)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutsLogged.Inc()
	}

	s.recorder.Record(ctx, activity.NewWorkoutLoggedEvent(sess.Profile.Email, *added, s.analyzer.Now()))
	return added, nil
}

func (s *Service) DeleteWorkout(ctx context.Context, sess *session.Session, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.delete-workout")
	defer tracing.EndSpan(span, &err)

	token := sess.Token()
	if token == "" {
		return backend.ErrUnauthorized
	}
	if id == "" {
		return fmt.Errorf("%w: missing workout id", workouts.ErrInvalidWorkout)
	}

	if err := s.store.Delete(ctx, token, id); err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutsDeleted.Inc()
	}

	s.recorder.Record(ctx, activity.NewWorkoutDeletedEvent(sess.Profile.Email, id, s.analyzer.Now()))
	return nil
}
