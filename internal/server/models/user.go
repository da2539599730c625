package models

import "time"

// User is an account record in the credential store. APIKey is generated at
// signup and never changes; IsLoggedIn carries the single-active-session
// flag. Accounts are soft-deleted by clearing IsActive.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	APIKey       string
	IsActive     bool
	IsLoggedIn   bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	LastLogin    *time.Time
}
