package models

import (
	"time"

	"github.com/google/uuid"
)

// CEFRLevel represents a CEFR proficiency level
type CEFRLevel string

const (
	CEFRLevelA1 CEFRLevel = "A1"
	CEFRLevelA2 CEFRLevel = "A2"
	CEFRLevelB1 CEFRLevel = "B1"
	CEFRLevelB2 CEFRLevel = "B2"
	CEFRLevelC1 CEFRLevel = "C1"
	CEFRLevelC2 CEFRLevel = "C2"
)

// Progress represents a learner's progress in a single target language
type Progress struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Language          string    `json:"language"`
	Level             CEFRLevel `json:"level"`
	SessionsCompleted int       `json:"sessions_completed"`
	MinutesStudied    int       `json:"minutes_studied"`
	LastStudiedAt     time.Time `json:"last_studied_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
