package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of security event
type EventType string

const (
	// EventAuthDenied is emitted when the gate denies a protected request
	EventAuthDenied EventType = "auth_denied"
	// EventLoginSucceeded is emitted after a successful login
	EventLoginSucceeded EventType = "login_succeeded"
	// EventLoginFailed is emitted after a failed login attempt
	EventLoginFailed EventType = "login_failed"
	// EventTokenIssued is emitted when a signed token is minted
	EventTokenIssued EventType = "token_issued"
)

// Event is a security audit event published for offline analysis
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	Path      string    `json:"path,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates an audit event
func NewEvent(eventType EventType) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		CreatedAt: time.Now(),
	}
}

// EventQueue is the interface for publishing audit events. Publishing is
// best-effort: auth decisions never block on the queue.
type EventQueue interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
