package utils

import (
	"context"
	"time"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
)

type contextKey string

const ContextSessionKey contextKey = "session"

// SessionData is what the session middleware hands to downstream handlers.
type SessionData struct {
	Identity  models.Identity
	TokenID   string
	ExpiresAt time.Time

	// Set when the middleware re-issued the token on this request.
	SupersededID        string
	SupersededExpiresAt time.Time
}

func WithSession(ctx context.Context, s SessionData) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

func SessionFromContext(ctx context.Context) (SessionData, bool) {
	s, ok := ctx.Value(ContextSessionKey).(SessionData)
	return s, ok
}

func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return models.Identity{}, false
	}
	return s.Identity, true
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok || s.Identity.ID == "" {
		return "", false
	}
	return s.Identity.ID, true
}
