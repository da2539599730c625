// Package users declares the credential-store contract for user accounts.
package users

import (
	"context"

	"github.com/avasilyev/notekeep/internal/server/models"
)

type Repository interface {
	// Create persists a new account and fills in its generated id and
	// creation time. A duplicate email or api key yields
	// common.ErrDuplicateAccount.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByKey(ctx context.Context, apiKey string) (*models.User, error)

	// UpdateProfile overwrites the account's email and password hash and
	// stamps updated_at.
	UpdateProfile(ctx context.Context, id, email, passwordHash string) error

	// MarkLoggedIn atomically flips is_logged_in from false to true and
	// stamps last_login, in a single conditional update. It returns false
	// when the flag was already set, which keeps the single-session
	// invariant race-free under concurrent logins.
	MarkLoggedIn(ctx context.Context, id string) (bool, error)

	// MarkLoggedOut clears is_logged_in unconditionally.
	MarkLoggedOut(ctx context.Context, id string) error

	// Deactivate soft-deletes the account. Accounts are never hard-deleted.
	Deactivate(ctx context.Context, id string) error
}
