package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/internal/guard"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=account_test

type service interface {
	Login(ctx context.Context, creds Credentials) (*session.Session, error)
	Signup(ctx context.Context, form SignupForm) (*session.Session, error)
	Logout(ctx context.Context, sess *session.Session) error
	Refresh(ctx context.Context, sess *session.Session) (*session.Session, error)
	Onboard(ctx context.Context, sess *session.Session, form OnboardingForm) (*session.Session, error)
}

// SessionResponse is returned on login and signup. SessionID goes into the
// Authorization header of later requests.
type SessionResponse struct {
	SessionID       string           `json:"sessionId"`
	Profile         *fitness.Profile `json:"profile"`
	NeedsOnboarding bool             `json:"needsOnboarding"`
	Next            string           `json:"next"`
}

type ProfileResponse struct {
	Profile         *fitness.Profile `json:"profile"`
	NeedsOnboarding bool             `json:"needsOnboarding"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		http.Error(w, "invalid login request", http.StatusBadRequest)
		return
	}

	sess, err := h.service.Login(ctx, creds)
	if err != nil {
		log.Debugf("login %s: %s", creds.Email, err)
		writeError(w, err, "login failed")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.signup")
	defer span.End()

	var form SignupForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Tracef("signup, unmarshal json params: %s", err)
		http.Error(w, "invalid signup request", http.StatusBadRequest)
		return
	}

	sess, err := h.service.Signup(ctx, form)
	if err != nil {
		log.Debugf("signup %s: %s", form.Email, err)
		writeError(w, err, "signup failed")
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	sess, ok := session.FromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	if err := h.service.Logout(ctx, sess); err != nil {
		log.Errorf("logout session %s: %s", sess.ID, err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "logged out")
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.me.get")
	defer span.End()

	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.LoggedIn() {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, newProfileResponse(sess))
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.me.refresh")
	defer span.End()

	sess, ok := session.FromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	refreshed, err := h.service.Refresh(ctx, sess)
	if err != nil {
		log.Errorf("refresh profile, session %s: %s", sess.ID, err)
		writeError(w, err, "refresh profile failed")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, newProfileResponse(refreshed))
}

func (h *Handler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.me.onboarding")
	defer span.End()

	sess, ok := session.FromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	var form OnboardingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		log.Tracef("onboarding, unmarshal json params: %s", err)
		http.Error(w, "invalid onboarding form", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Onboard(ctx, sess, form)
	if err != nil {
		log.Errorf("onboarding, session %s: %s", sess.ID, err)
		writeError(w, err, "profile update failed")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, newProfileResponse(updated))
}

func newSessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		SessionID:       sess.ID,
		Profile:         publicProfile(sess.Profile),
		NeedsOnboarding: sess.Profile.NeedsOnboarding(),
		Next:            guard.Resolve(guard.PathRoot, sess).Path,
	}
}

func newProfileResponse(sess *session.Session) ProfileResponse {
	return ProfileResponse{
		Profile:         publicProfile(sess.Profile),
		NeedsOnboarding: sess.Profile.NeedsOnboarding(),
	}
}

// the backend token never leaves the BFF
func publicProfile(p *fitness.Profile) *fitness.Profile {
	if p == nil {
		return nil
	}
	public := *p
	public.Token = ""
	return &public
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidForm):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidCredentials):
		if _, msg, ok := backend.HTTPStatus(err); ok {
			http.Error(w, msg, http.StatusUnauthorized)
			return
		}
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
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
