package activity

import (
	"context"
	"fmt"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=activity_test

type repo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

// Recorder records user activity. Recording never fails the caller's
// operation, errors are only logged.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) {}

type Service struct {
	repo           repo
	metricsManager *metrics.Manager
}

func NewService(repo repo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (s *Service) Add(ctx context.Context, event Event) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.activity.add")
	defer tracing.EndSpan(span, &err)

	if !event.Type.IsValid() {
		return 0, fmt.Errorf("invalid event type: %s", event.Type)
	}

	added, err := s.repo.Add(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("add %s event: %w", event.Type, err)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterActivityEvents.WithLabelValues(event.Type.String()).Inc()
	}
	return added.ID, nil
}

func (s *Service) Record(ctx context.Context, event Event) {
	if _, err := s.Add(ctx, event); err != nil {
		log.Errorf("record activity [%s] for %s: %s", event.Type, event.UserEmail, err)
	}
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.activity.list")
	defer tracing.EndSpan(span, &err)

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Service) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.activity.count")
	defer tracing.EndSpan(span, &err)

	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
