package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/polyglotta/polyglotta-api/internal/database"
	"github.com/polyglotta/polyglotta-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Local verifies credentials against bcrypt hashes stored alongside users.
type Local struct {
	users database.UserRepositoryInterface
}

// NewLocal creates a database-backed identity provider.
func NewLocal(users database.UserRepositoryInterface) *Local {
	return &Local{users: users}
}

// Authenticate verifies the credentials. Unknown accounts and wrong passwords
// both return ErrInvalidCredentials so callers cannot enumerate accounts.
func (l *Local) Authenticate(ctx context.Context, creds Credentials) (*models.User, error) {
	user, err := l.users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("provider: failed to look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("provider: failed to hash password: %w", err)
	}
	return string(hash), nil
}
