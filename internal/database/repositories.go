package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/polyglotta/polyglotta-api/internal/models"
)

// UserRepositoryInterface defines the interface for user repository operations.
// This interface enables better testability by allowing mock implementations.
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// ProgressRepositoryInterface defines the interface for progress repository operations
type ProgressRepositoryInterface interface {
	GetByUserAndLanguage(ctx context.Context, userID uuid.UUID, language string) (*models.Progress, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Progress, error)
	Upsert(ctx context.Context, p *models.Progress) error
}

// Ensure concrete types implement the interfaces
var (
	_ UserRepositoryInterface     = (*UserRepository)(nil)
	_ ProgressRepositoryInterface = (*ProgressRepository)(nil)
)
