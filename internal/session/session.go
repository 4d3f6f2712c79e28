package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/pkg"
)

const idLength = 35

var ErrNotFound = errors.New("session not found")

// Session ties a client to a logged in user. The backend token lives in the
// profile; Profile is nil for a session that has been logged out.
type Session struct {
	ID        string           `json:"id" toml:"id"`
	Profile   *fitness.Profile `json:"profile" toml:"profile"`
	CreatedAt time.Time        `json:"createdAt" toml:"created_at"`
}

// New creates a session with a fresh random id.
func New(profile *fitness.Profile, createdAt time.Time) (*Session, error) {
	id, err := pkg.GenerateRandomString(idLength)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	return &Session{
		ID:        id,
		Profile:   profile,
		CreatedAt: createdAt,
	}, nil
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.Profile.LoggedIn()
}

// Token is the backend token, empty when logged out.
func (s *Session) Token() string {
	if !s.LoggedIn() {
		return ""
	}
	return s.Profile.Token
}

// Store persists sessions between requests (service) or runs (CLI).
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
