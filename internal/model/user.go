package model

import "time"

// User represents an account on the collection-manager path. Each user owns
// their remote items; there are no roles.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// UserSettings is the per-user preferences document, stored as a single blob
// and replaced wholesale on save.
type UserSettings struct {
	Theme         string `json:"theme"`
	Currency      string `json:"currency"`
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
	LogoURL       string `json:"logo_url,omitempty"`
}

// DefaultUserSettings returns the settings applied before a user saves any.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Theme:         "system",
		Currency:      "USD",
		Language:      "en",
		Notifications: true,
	}
}
