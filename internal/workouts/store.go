package workouts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=workouts_test

const (
	megabyte         = 1024 * 1024
	defaultCacheSize = 32 * megabyte
	defaultCacheTTL  = 10 * time.Minute
)

// Source is where workouts are actually persisted (the fitness backend).
type Source interface {
	ListWorkouts(ctx context.Context, token string) ([]fitness.Workout, error)
	AddWorkout(ctx context.Context, token string, workout backend.NewWorkout) (*fitness.Workout, error)
	DeleteWorkout(ctx context.Context, token, id string) error
}

// Store holds each user's workout list, newest first, in an in-process cache.
// The cached list is mutated locally after successful writes, so a logged
// workout shows up without refetching the whole list.
type Store struct {
	source         Source
	cache          *freecache.Cache
	cacheTTL       time.Duration
	metricsManager *metrics.Manager

	// serializes read-modify-write of cached lists and guards fetches
	mu      sync.Mutex
	fetches map[string]*fetchState
}

// fetchState tracks in-flight List fetches for one token. Writes bump gen,
// and a fetch that started before the bump must not be cached.
type fetchState struct {
	gen      uint64
	inFlight int
}

func NewStore(source Source, cacheSizeMB int, cacheTTL time.Duration, metricsManager *metrics.Manager) *Store {
	cacheSize := cacheSizeMB * megabyte
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Store{
		source:         source,
		cache:          freecache.NewCache(cacheSize),
		cacheTTL:       cacheTTL,
		metricsManager: metricsManager,
		fetches:        map[string]*fetchState{},
	}
}

// List returns the user's workouts, from cache when present.
func (s *Store) List(ctx context.Context, token string) (_ []fitness.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutStore.list")
	defer tracing.EndSpan(span, &err)

	if cached, ok := s.cached(token); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		s.countCache("hit")
		return cached, nil
	}
	s.countCache("miss")

	key := string(cacheKey(token))
	s.mu.Lock()
	state, ok := s.fetches[key]
	if !ok {
		state = &fetchState{}
		s.fetches[key] = state
	}
	state.inFlight++
	startGen := state.gen
	s.mu.Unlock()

	list, err := s.source.ListWorkouts(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	state.inFlight--
	if state.inFlight == 0 {
		delete(s.fetches, key)
	}
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	if state.gen == startGen {
		s.store(token, list)
	} else {
		span.SetAttributes(attribute.Bool("stale_fetch", true))
	}
	return list, nil
}

// Add creates the workout in the backend and prepends it to the cached list.
func (s *Store) Add(ctx context.Context, token string, workout backend.NewWorkout) (_ *fitness.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutStore.add")
	defer tracing.EndSpan(span, &err)

	created, err := s.source.AddWorkout(ctx, token, workout)
	if err != nil {
		return nil, fmt.Errorf("add workout: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpGeneration(token)
	if list, ok := s.cached(token); ok {
		updated := make([]fitness.Workout, 0, len(list)+1)
		updated = append(updated, *created)
		updated = append(updated, list...)
		s.store(token, updated)
	}

	return created, nil
}

// Delete removes the workout in the backend, then from the cached list.
func (s *Store) Delete(ctx context.Context, token, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workoutStore.delete")
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.String("workout_id", id))

	if err := s.source.DeleteWorkout(ctx, token, id); err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpGeneration(token)
	if list, ok := s.cached(token); ok {
		kept := make([]fitness.Workout, 0, len(list))
		for _, w := range list {
			if w.ID != id {
				kept = append(kept, w)
			}
		}
		s.store(token, kept)
	}

	return nil
}

// Invalidate drops the cached list, e.g. on logout.
func (s *Store) Invalidate(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bumpGeneration(token)
	s.cache.Del(cacheKey(token))
}

// bumpGeneration marks fetches in flight for token as stale. Callers hold s.mu.
func (s *Store) bumpGeneration(token string) {
	if state, ok := s.fetches[string(cacheKey(token))]; ok {
		state.gen++
	}
}

func (s *Store) cached(token string) ([]fitness.Workout, bool) {
	listBytes, err := s.cache.Get(cacheKey(token))
	if err != nil {
		return nil, false
	}

	var list []fitness.Workout
	if err := json.Unmarshal(listBytes, &list); err != nil {
		log.Errorf("failed to unmarshal cached workouts: %s", err)
		return nil, false
	}
	return list, true
}

func (s *Store) store(token string, list []fitness.Workout) {
	if list == nil {
		list = []fitness.Workout{}
	}
	listBytes, err := json.Marshal(list)
	if err != nil {
		log.Errorf("failed to marshal workouts for cache: %s", err)
		return
	}
	key := cacheKey(token)
	if err := s.cache.Set(key, listBytes, int(s.cacheTTL.Seconds())); err != nil {
		// an older list may still be cached, drop it so reads go to the source
		s.cache.Del(key)
		log.Warnf("failed to cache workouts: %s", err)
	}
}

func (s *Store) countCache(result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutCache.WithLabelValues(result).Inc()
	}
}

// tokens are secrets, keep only their hash around
func cacheKey(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte("workouts::" + hex.EncodeToString(sum[:]))
}
