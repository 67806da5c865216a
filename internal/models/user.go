package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a learner in the system
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	NativeLanguage  string    `json:"native_language"`
	TargetLanguages []string  `json:"target_languages"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Claims projects the user into a token claim set
func (u *User) Claims() *Claims {
	return &Claims{
		UserID:          u.ID.String(),
		Email:           u.Email,
		Name:            u.Name,
		NativeLanguage:  u.NativeLanguage,
		TargetLanguages: u.TargetLanguages,
	}
}
