package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionLoader interface {
	Load(ctx context.Context, id string) (*session.Session, error)
}

type AuthMiddlewareHandler struct {
	sessions     sessionLoader
	allowedPaths map[string]bool
	optionalAuth map[string]bool
}

func NewAuthMiddlewareHandler(sessions sessionLoader) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		allowedPaths: map[string]bool{
			"/":            true,
			"/auth/login":  true,
			"/auth/signup": true,
			"/version":     true,
		},
		// a session is attached when present, but not required
		optionalAuth: map[string]bool{
			"/nav/resolve": true,
		},
	}
}

// BearerToken extracts the session id from "Authorization: Bearer <id>".
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions || h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			optional := h.optionalAuth[r.URL.Path]
			sessionID := BearerToken(r)
			if sessionID == "" {
				if optional {
					span.SetStatus(codes.Ok, "anonymous")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "missing session", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			sess, err := h.sessions.Load(ctx, sessionID)
			switch {
			case errors.Is(err, session.ErrNotFound):
				if optional {
					span.SetStatus(codes.Ok, "anonymous")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[invalid session] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "invalid session", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "session-not-found")
				return
			case err != nil:
				log.Errorf("[failed session load] => %s: %s", r.URL.Path, err)
				http.Error(w, "session lookup failed", http.StatusInternalServerError)
				span.SetStatus(codes.Error, "session-load-err")
				span.RecordError(err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}
