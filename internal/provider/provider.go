// Package provider abstracts the identity provider that owns credential
// verification. The rest of the service only ever sees the Provider
// interface; swapping in an external OAuth/OIDC provider touches nothing
// but process wiring.
package provider

import (
	"context"
	"errors"

	"github.com/polyglotta/polyglotta-api/internal/models"
)

// ErrInvalidCredentials indicates the supplied credentials do not match any account
var ErrInvalidCredentials = errors.New("provider: invalid credentials")

// Credentials carries a login attempt
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Provider verifies credentials and returns the account they belong to.
type Provider interface {
	Authenticate(ctx context.Context, creds Credentials) (*models.User, error)
}
