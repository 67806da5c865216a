package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/polyglotta/polyglotta-api/internal/models"
)

// ProgressRepository handles progress database operations
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetByUserAndLanguage retrieves the progress record for one target language.
// Callers distinguish "no progress yet" via errors.Is(err, sql.ErrNoRows).
func (r *ProgressRepository) GetByUserAndLanguage(ctx context.Context, userID uuid.UUID, language string) (*models.Progress, error) {
	query := `
		SELECT id, user_id, language, level, sessions_completed, minutes_studied, last_studied_at, created_at, updated_at
		FROM progress
		WHERE user_id = $1 AND language = $2
	`

	p := &models.Progress{}
	err := r.db.QueryRowContext(ctx, query, userID, language).Scan(
		&p.ID,
		&p.UserID,
		&p.Language,
		&p.Level,
		&p.SessionsCompleted,
		&p.MinutesStudied,
		&p.LastStudiedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("progress not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	return p, nil
}

// ListByUser retrieves all progress records for a user
func (r *ProgressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Progress, error) {
	query := `
		SELECT id, user_id, language, level, sessions_completed, minutes_studied, last_studied_at, created_at, updated_at
		FROM progress
		WHERE user_id = $1
		ORDER BY language
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	var result []*models.Progress
	for rows.Next() {
		p := &models.Progress{}
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Language,
			&p.Level,
			&p.SessionsCompleted,
			&p.MinutesStudied,
			&p.LastStudiedAt,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read progress rows: %w", err)
	}

	return result, nil
}

// Upsert inserts or updates the progress record for (user, language)
func (r *ProgressRepository) Upsert(ctx context.Context, p *models.Progress) error {
	query := `
		INSERT INTO progress (id, user_id, language, level, sessions_completed, minutes_studied, last_studied_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, language) DO UPDATE
		SET level = EXCLUDED.level,
			sessions_completed = progress.sessions_completed + EXCLUDED.sessions_completed,
			minutes_studied = progress.minutes_studied + EXCLUDED.minutes_studied,
			last_studied_at = EXCLUDED.last_studied_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id, sessions_completed, minutes_studied, created_at, updated_at
	`

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	if p.LastStudiedAt.IsZero() {
		p.LastStudiedAt = now
	}

	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.UserID,
		p.Language,
		p.Level,
		p.SessionsCompleted,
		p.MinutesStudied,
		p.LastStudiedAt,
		now,
	).Scan(&p.ID, &p.SessionsCompleted, &p.MinutesStudied, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}

	return nil
}
