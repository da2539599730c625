// Package services contains the server-side business logic of the
// access-control core: the session manager and profile operations
// (UserService), the request authorizer (Authorizer), and the note
// ownership and sharing rules (NoteService).
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avasilyev/notekeep/internal/common"
	"github.com/avasilyev/notekeep/internal/server/auth"
	"github.com/avasilyev/notekeep/internal/server/models"
	"github.com/avasilyev/notekeep/internal/server/repositories/repomanager"
)

// UserService handles signup, login, logout, and profile operations,
// enforcing the single-active-session invariant.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	tokens *auth.TokenService
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService) *UserService {
	return &UserService{db: db, repos: m, tokens: tokens}
}

// SignUp creates an account with a hashed password and a fresh API key.
// The duplicate check covers inactive accounts too: a soft-deleted email
// stays taken.
func (s *UserService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repos.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateAccount
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		APIKey:       key,
		IsActive:     true,
		IsLoggedIn:   false,
	}
	return repo.Create(ctx, user)
}

// Login verifies the presented key, then the credentials, and finally flips
// the session flag with a single conditional update before handing out the
// token it issued.
func (s *UserService) Login(ctx context.Context, email, password, presentedKey string) (string, error) {
	repo := s.repos.Users(s.db)

	// The key gate runs before the email path, so a bad key cannot be used
	// to probe which emails exist.
	if _, err := repo.GetByKey(ctx, presentedKey); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", err
	}
	if !user.IsActive || !auth.VerifyPassword(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", common.ErrInternal
	}

	ok, err := repo.MarkLoggedIn(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", common.ErrAlreadyLoggedIn
	}

	return token, nil
}

// Logout clears the session flag and moves the token into the revocation
// ledger. Token errors from verification propagate as-is.
func (s *UserService) Logout(ctx context.Context, token, presentedKey string) error {
	repo := s.repos.Users(s.db)

	if _, err := repo.GetByKey(ctx, presentedKey); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return err
	}

	subjectID, _, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return err
	}

	if err := repo.MarkLoggedOut(ctx, subjectID); err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, token, subjectID)
}

// Profile returns the subject's account record. Deactivated accounts read
// as not found.
func (s *UserService) Profile(ctx context.Context, subjectID string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrNotFound
	}
	return user, nil
}

// UpdateProfile changes the subject's email and/or password. Empty
// arguments leave the current value in place. Only the owning identity
// reaches this path; the authorizer resolved subjectID beforehand.
func (s *UserService) UpdateProfile(ctx context.Context, subjectID, email, password string) error {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByID(ctx, subjectID)
	if err != nil {
		return err
	}

	if email != "" && email != user.Email {
		other, err := repo.GetByEmail(ctx, email)
		if err == nil && other.ID != user.ID {
			return common.ErrDuplicateAccount
		}
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		user.Email = email
	}

	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	return repo.UpdateProfile(ctx, user.ID, user.Email, user.PasswordHash)
}

// Deactivate soft-deletes the subject's account.
func (s *UserService) Deactivate(ctx context.Context, subjectID string) error {
	return s.repos.Users(s.db).Deactivate(ctx, subjectID)
}
