package activity

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=activity_test

const (
	maxPageSize = 100
	// keeps (page-1)*size a valid postgres OFFSET
	maxPage = math.MaxInt32 / maxPageSize
)

type service interface {
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

type ListResponse struct {
	Events []*Event `json:"events"`
	Total  int      `json:"total"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleList returns a page of the caller's own events, newest first.
// Optional query params: type, from, to (RFC3339).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.activity.list")
	defer span.End()

	sess, ok := session.FromContext(ctx)
	if !ok || sess.Profile == nil {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle list activity, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle list activity, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if page > maxPage {
		http.Error(w, "invalid page (too large)", http.StatusBadRequest)
		return
	}
	if size < 1 || size > maxPageSize {
		http.Error(w, "invalid size (has to be between 1 and 100)", http.StatusBadRequest)
		return
	}

	email := sess.Profile.Email
	params := EventParams{
		UserEmail: &email,
	}

	query := r.URL.Query()
	if typeStr := query.Get("type"); typeStr != "" {
		eventType := EventType(typeStr)
		if !eventType.IsValid() {
			http.Error(w, "invalid event type", http.StatusBadRequest)
			return
		}
		params.Type = &eventType
	}
	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			http.Error(w, "invalid from timestamp", http.StatusBadRequest)
			return
		}
		params.From = &from
	}
	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			http.Error(w, "invalid to timestamp", http.StatusBadRequest)
			return
		}
		params.To = &to
	}

	events, err := h.service.List(ctx, ListParams{
		EventParams: params,
		Page:        page,
		Size:        size,
	})
	if err != nil {
		log.Errorf("list activity for %s: %s", email, err)
		http.Error(w, "failed to get activity", http.StatusInternalServerError)
		return
	}

	total, err := h.service.Count(ctx, params)
	if err != nil {
		log.Errorf("count activity for %s: %s", email, err)
		http.Error(w, "failed to get activity", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Events: events,
		Total:  total,
	})
}
