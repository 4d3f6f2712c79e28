package guard

import (
	"net/http"

	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"go.opentelemetry.io/otel/attribute"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.nav.resolve")
	defer span.End()

	requested := r.URL.Query().Get("path")
	sess, _ := session.FromContext(ctx)

	d := Resolve(requested, sess)
	span.SetAttributes(
		attribute.String("requested", requested),
		attribute.String("resolved", d.Path),
	)

	pkg.WriteJSON(w, http.StatusOK, d)
}
