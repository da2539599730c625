// Package auth implements the credential primitives of the access-control
// core: password hashing, API key generation, and the session token service.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/avasilyev/notekeep/internal/common"
	"github.com/avasilyev/notekeep/internal/server/repositories/revocations"
)

// Claims extends the registered claims with the account email. Subject
// carries the account id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService issues and verifies signed session tokens and records
// revocations. Verification always consults the ledger before looking at
// the signature, so a revoked token fails closed even when unexpired.
type TokenService struct {
	secret      []byte
	validity    time.Duration
	revocations revocations.Repository
}

func NewTokenService(secret []byte, validity time.Duration, r revocations.Repository) *TokenService {
	return &TokenService{secret: secret, validity: validity, revocations: r}
}

// Issue signs a token binding the subject id and email with an absolute
// expiry. The random token id keeps two logins in the same instant from
// producing byte-identical tokens, which matters because revocation is
// keyed on the exact token value. Issue has no side effects.
func (s *TokenService) Issue(subjectID, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		Email: email,
	})
	return token.SignedString(s.secret)
}

// Verify returns the subject id and email carried by a valid token.
// Failure order: revoked, expired, malformed (bad signature, unparseable,
// or missing subject).
func (s *TokenService) Verify(ctx context.Context, tokenString string) (string, string, error) {
	revoked, err := s.revocations.Exists(ctx, tokenString)
	if err != nil {
		return "", "", err
	}
	if revoked {
		return "", "", common.ErrTokenRevoked
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", common.ErrTokenExpired
		}
		return "", "", common.ErrTokenMalformed
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", common.ErrTokenMalformed
	}

	return claims.Subject, claims.Email, nil
}

// Revoke appends the exact token value to the ledger. Revoking an already
// revoked token is a no-op.
func (s *TokenService) Revoke(ctx context.Context, tokenString, subjectID string) error {
	return s.revocations.Add(ctx, tokenString, subjectID)
}
