// Package session provides server-managed authentication state: an opaque
// session record keyed by a cookie, stored in Redis, and a Resolver that
// turns an inbound request into an authenticated user.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated user session. It stores only identity
// pointers, never credential state.
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session for the given user, valid for ttl.
func New(userID uuid.UUID, ttl time.Duration) Session {
	now := time.Now()
	return Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Store defines how sessions are persisted. A missing session is (nil, nil),
// not an error; stores never distinguish "expired" from "absent".
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
