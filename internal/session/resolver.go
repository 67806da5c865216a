package session

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/polyglotta/polyglotta-api/internal/models"
)

// UserLookup is the slice of the user repository the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Resolver resolves a request to an authenticated identity. An anonymous
// visitor is the ordinary case and resolves to (nil, nil), never an error;
// errors are reserved for store or lookup faults.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) (*models.User, error)
}

// CookieResolver resolves identity from the session cookie: cookie value →
// session store → user lookup.
type CookieResolver struct {
	store Store
	users UserLookup
}

// NewCookieResolver creates a cookie-based session resolver.
func NewCookieResolver(store Store, users UserLookup) *CookieResolver {
	return &CookieResolver{store: store, users: users}
}

// Resolve returns the authenticated user for the request, or (nil, nil) when
// no valid session is present.
func (cr *CookieResolver) Resolve(ctx context.Context, r *http.Request) (*models.User, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	sess, err := cr.store.Get(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	// The store's TTL should have evicted expired sessions already; this
	// guards against clock skew between store and process.
	if !time.Now().Before(sess.ExpiresAt) {
		return nil, nil
	}

	user, err := cr.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		// Session outlived the account; treat as anonymous.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
