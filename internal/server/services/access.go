package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avasilyev/notekeep/internal/common"
	"github.com/avasilyev/notekeep/internal/server/auth"
	"github.com/avasilyev/notekeep/internal/server/repositories/repomanager"
)

// Authorizer is the single authorization entry point for protected
// operations. It combines token verification, the key-to-identity binding,
// and the account's session state into one decision. Possession of a valid
// token alone, or a valid key alone, is never sufficient.
type Authorizer struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	tokens *auth.TokenService
}

func NewAuthorizer(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService) *Authorizer {
	return &Authorizer{db: db, repos: m, tokens: tokens}
}

// Authorize returns the authenticated subject id. It is read-only: no
// session or revocation state is cached or mutated, so a revocation is
// visible to the very next call.
func (a *Authorizer) Authorize(ctx context.Context, token, presentedKey string) (string, error) {
	subjectID, _, err := a.tokens.Verify(ctx, token)
	if err != nil {
		return "", err
	}

	keyUser, err := a.repos.Users(a.db).GetByKey(ctx, presentedKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}

	// The key must belong to exactly the account named by the token, not
	// merely be some valid key.
	if keyUser.ID != subjectID {
		return "", common.ErrKeyIdentityMismatch
	}

	if !keyUser.IsActive || !keyUser.IsLoggedIn {
		return "", common.ErrUnauthorized
	}

	return subjectID, nil
}
