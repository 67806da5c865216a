package models

import "time"

// Claims represents the attributes of an authenticated principal as carried
// inside a signed token
type Claims struct {
	UserID          string    `json:"sub"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	NativeLanguage  string    `json:"native_language"`
	TargetLanguages []string  `json:"target_languages"`
	IssuedAt        time.Time `json:"issued_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// Complete reports whether the core identity fields are all present.
// A claim set missing any of id, email or name is treated as no identity.
func (c *Claims) Complete() bool {
	return c.UserID != "" && c.Email != "" && c.Name != ""
}
