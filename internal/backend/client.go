package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Client talks to the fitness backend REST API. It keeps no per-user state,
// every authenticated call takes the user's token.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	metricsManager *metrics.Manager
}

// NewHTTPClient returns an http client with otel instrumented transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func NewClient(baseURL string, httpClient *http.Client, metricsManager *metrics.Manager) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     httpClient,
		metricsManager: metricsManager,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Age      fitness.Number `json:"age"`
	Height   fitness.Number `json:"height"`
	Weight   fitness.Number `json:"weight"`
}

// ProfileUpdate carries the onboarding questionnaire answers.
type ProfileUpdate struct {
	Age                 fitness.Number `json:"age"`
	Height              fitness.Number `json:"height"`
	Weight              fitness.Number `json:"weight"`
	Gender              string         `json:"gender"`
	Environment         string         `json:"environment"`
	DietaryPreference   string         `json:"dietaryPreference"`
	WeeklyWorkoutGoal   int            `json:"weeklyWorkoutGoal"`
	FitnessGoals        []string       `json:"fitnessGoals"`
	HealthConditions    []string       `json:"healthConditions"`
	ExercisePreferences []string       `json:"exercisePreferences"`
}

// NewWorkout is the create payload. Duration goes over the wire as "N min".
type NewWorkout struct {
	Title     string             `json:"title"`
	Date      string             `json:"date"`
	Duration  string             `json:"duration"`
	Calories  int                `json:"calories"`
	Exercises []fitness.Exercise `json:"exercises"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*fitness.Profile, error) {
	profile := &fitness.Profile{}
	if err := c.do(ctx, "login", http.MethodPost, "/api/users/login", "", loginRequest{
		Email:    email,
		Password: password,
	}, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*fitness.Profile, error) {
	profile := &fitness.Profile{}
	if err := c.do(ctx, "signup", http.MethodPost, "/api/users", "", req, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile returns the updated profile as the backend sees it. The
// backend does not echo the token back, callers keep their own.
func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*fitness.Profile, error) {
	profile := &fitness.Profile{}
	if err := c.do(ctx, "update_profile", http.MethodPut, "/api/users/profile", token, update, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) Me(ctx context.Context, token string) (*fitness.Profile, error) {
	profile := &fitness.Profile{}
	if err := c.do(ctx, "me", http.MethodGet, "/api/users/me", token, nil, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) ListWorkouts(ctx context.Context, token string) ([]fitness.Workout, error) {
	var workouts []fitness.Workout
	if err := c.do(ctx, "list_workouts", http.MethodGet, "/api/workouts", token, nil, &workouts); err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []fitness.Workout{}
	}
	return workouts, nil
}

func (c *Client) AddWorkout(ctx context.Context, token string, workout NewWorkout) (*fitness.Workout, error) {
	created := &fitness.Workout{}
	if err := c.do(ctx, "add_workout", http.MethodPost, "/api/workouts", token, workout, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, token, id string) error {
	return c.do(ctx, "delete_workout", http.MethodDelete, "/api/workouts/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) do(
	ctx context.Context,
	endpoint, method, path, token string,
	reqBody, out any,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "backend."+endpoint)
	defer tracing.EndSpan(span, &err)
	span.SetAttributes(attribute.String("http.method", method), attribute.String("path", path))

	statusCode := 0
	start := time.Now()
	defer func() {
		if c.metricsManager == nil {
			return
		}
		c.metricsManager.HistogramBackendCallDuration.
			WithLabelValues(endpoint, strconv.Itoa(statusCode)).
			Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if reqBody != nil {
		reqBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, respBytes)
		log.Debugf("backend %s %s -> %d: %s", method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		if !json.Valid(respBytes) {
			return serverError(resp.StatusCode, respBytes)
		}
		return fmt.Errorf("unmarshal %s response: %w", endpoint, err)
	}
	return nil
}
