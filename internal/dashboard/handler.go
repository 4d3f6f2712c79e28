package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fittrack/internal/analytics"
	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/workouts"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=dashboard_test

type service interface {
	Dashboard(ctx context.Context, sess *session.Session) (*Dashboard, error)
	ProfileStats(ctx context.Context, sess *session.Session, scope analytics.Scope) (*ProfileStats, error)
	Workouts(ctx context.Context, sess *session.Session) ([]fitness.Workout, error)
	LogWorkout(ctx context.Context, sess *session.Session, form workouts.Form) (*fitness.Workout, error)
	DeleteWorkout(ctx context.Context, sess *session.Session, id string) error
}

type WorkoutsListResponse struct {
	Workouts []fitness.Workout `json:"workouts"`
	Total    int               `json:"total"`
}

type DeleteWorkoutResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.get")
	defer span.End()

	sess, ok := loggedIn(w, r)
	if !ok {
		return
	}

	view, err := handler.service.Dashboard(ctx, sess)
	if err != nil {
		log.Errorf("get dashboard, session %s: %s", sess.ID, err)
		writeError(w, err, "failed to load dashboard")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleProfileStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.stats")
	defer span.End()

	sess, ok := loggedIn(w, r)
	if !ok {
		return
	}

	scope, err := analytics.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := handler.service.ProfileStats(ctx, sess, scope)
	if err != nil {
		log.Errorf("get profile stats, session %s: %s", sess.ID, err)
		writeError(w, err, "failed to load profile stats")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, stats)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	sess, ok := loggedIn(w, r)
	if !ok {
		return
	}

	list, err := handler.service.Workouts(ctx, sess)
	if err != nil {
		log.Errorf("list workouts, session %s: %s", sess.ID, err)
		writeError(w, err, "failed to list workouts")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, WorkoutsListResponse{
		Workouts: list,
		Total:    len(list),
	})
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	sess, ok := loggedIn(w, r)
	if !ok {
		return
	}

	var form workouts.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Errorf("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	added, err := handler.service.LogWorkout(ctx, sess, form)
	if err != nil {
		log.Errorf("failed to add workout [%s]: %s", form.Title, err)
		writeError(w, err, "failed to add workout")
		return
	}

	log.Debugf("new workout added: [%s] %s", added.ID, added.Title)
	pkg.WriteJSON(w, http.StatusCreated, added)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	sess, ok := loggedIn(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, workout id empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.DeleteWorkout(ctx, sess, id); err != nil {
		log.Errorf("failed to delete workout %s: %s", id, err)
		writeError(w, err, "failed to delete workout")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, DeleteWorkoutResponse{DeletedID: id})
}

func loggedIn(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.LoggedIn() {
		http.Error(w, "no session", http.StatusUnauthorized)
		return nil, false
	}
	return sess, true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, workouts.ErrInvalidWorkout) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if status, msg, ok := backend.HTTPStatus(err); ok {
		http.Error(w, msg, status)
		return
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		http.Error(w, "session expired", http.StatusUnauthorized)
		return
	}
	http.Error(w, fallback, http.StatusInternalServerError)
}
