package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/activity"
	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=account_test

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidForm        = errors.New("invalid form")
)

type accountBackend interface {
	Login(ctx context.Context, email, password string) (*fitness.Profile, error)
	Signup(ctx context.Context, req backend.SignupRequest) (*fitness.Profile, error)
	UpdateProfile(ctx context.Context, token string, update backend.ProfileUpdate) (*fitness.Profile, error)
	Me(ctx context.Context, token string) (*fitness.Profile, error)
}

type workoutCache interface {
	Invalidate(token string)
}

type Service struct {
	backend        accountBackend
	sessions       session.Store
	workouts       workoutCache
	recorder       activity.Recorder
	metricsManager *metrics.Manager
	// overridable for tests
	Now func() time.Time
}

func NewService(
	backend accountBackend,
	sessions session.Store,
	workouts workoutCache,
	recorder activity.Recorder,
	metricsManager *metrics.Manager,
) *Service {
	if recorder == nil {
		recorder = activity.NopRecorder{}
	}
	return &Service{
		backend:        backend,
		sessions:       sessions,
		workouts:       workouts,
		recorder:       recorder,
		metricsManager: metricsManager,
		Now:            time.Now,
	}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupForm struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Age      fitness.Number `json:"age"`
	Height   fitness.Number `json:"height"`
	Weight   fitness.Number `json:"weight"`
}

func (s *Service) Login(ctx context.Context, creds Credentials) (_ *session.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.login")
	defer tracing.EndSpan(span, &err)

	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidForm)
	}

	profile, err := s.backend.Login(ctx, email, creds.Password)
	if err != nil {
		s.countLogin("failed")
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("backend login: %w", err)
	}
	s.countLogin("ok")

	sess, err := s.startSession(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.NewUserLoggedInEvent(profile.Email, s.Now()))
	return sess, nil
}

func (s *Service) Signup(ctx context.Context, form SignupForm) (_ *session.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.signup")
	defer tracing.EndSpan(span, &err)

	name := strings.TrimSpace(form.Name)
	email := strings.TrimSpace(form.Email)
	if name == "" || email == "" || form.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidForm)
	}

	profile, err := s.backend.Signup(ctx, backend.SignupRequest{
		Name:     name,
		Email:    email,
		Password: form.Password,
		Age:      form.Age,
		Height:   form.Height,
		Weight:   form.Weight,
	})
	if err != nil {
		return nil, fmt.Errorf("backend signup: %w", err)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterSignups.Inc()
	}

	sess, err := s.startSession(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.NewUserSignedUpEvent(profile.Email, profile.Name, s.Now()))
	return sess, nil
}

// Logout drops the session and everything cached for its token.
func (s *Service) Logout(ctx context.Context, sess *session.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.logout")
	defer tracing.EndSpan(span, &err)

	if sess == nil {
		return nil
	}
	if token := sess.Token(); token != "" {
		s.workouts.Invalidate(token)
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	sess.Profile = nil
	return nil
}

// Refresh reloads the profile from the backend, keeping the token.
func (s *Service) Refresh(ctx context.Context, sess *session.Session) (_ *session.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.refresh")
	defer tracing.EndSpan(span, &err)

	token := sess.Token()
	if token == "" {
		return nil, backend.ErrUnauthorized
	}

	profile, err := s.backend.Me(ctx, token)
	if err != nil {
		s.dropIfUnauthorized(ctx, sess, err)
		return nil, fmt.Errorf("backend me: %w", err)
	}

	return s.replaceProfile(ctx, sess, profile, token)
}

// Onboard submits the questionnaire and stores the updated profile.
func (s *Service) Onboard(ctx context.Context, sess *session.Session, form OnboardingForm) (_ *session.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.account.onboard")
	defer tracing.EndSpan(span, &err)

	token := sess.Token()
	if token == "" {
		return nil, backend.ErrUnauthorized
	}

	profile, err := s.backend.UpdateProfile(ctx, token, form.ProfileUpdate())
	if err != nil {
		s.dropIfUnauthorized(ctx, sess, err)
		return nil, fmt.Errorf("backend update profile: %w", err)
	}

	updated, err := s.replaceProfile(ctx, sess, profile, token)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, activity.NewProfileUpdatedEvent(updated.Profile, s.Now()))
	return updated, nil
}

func (s *Service) startSession(ctx context.Context, profile *fitness.Profile) (*session.Session, error) {
	if !profile.LoggedIn() {
		return nil, errors.New("backend returned no token")
	}

	sess, err := session.New(profile, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *Service) replaceProfile(ctx context.Context, sess *session.Session, profile *fitness.Profile, token string) (*session.Session, error) {
	profile.Token = token
	if profile.Email == "" && sess.Profile != nil {
		profile.Email = sess.Profile.Email
	}
	sess.Profile = profile
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// a rejected token means the session is useless, remove it
func (s *Service) dropIfUnauthorized(ctx context.Context, sess *session.Session, err error) {
	if !errors.Is(err, backend.ErrUnauthorized) {
		return
	}
	log.Debugf("backend rejected token of session %s, dropping it", sess.ID)
	if delErr := s.Logout(ctx, sess); delErr != nil {
		log.Errorf("drop unauthorized session %s: %s", sess.ID, delErr)
	}
}

func (s *Service) countLogin(result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterLogins.WithLabelValues(result).Inc()
	}
}
