// Package revocations declares the repository contract for the revocation
// ledger: an append-only record of session tokens that must be rejected
// regardless of their remaining validity window.
package revocations

import "context"

type Repository interface {
	// Add records a revoked token for the given account. Adding a token
	// that is already in the ledger is a no-op, not an error.
	Add(ctx context.Context, token string, userID string) error

	// Exists reports whether the exact token value is in the ledger.
	Exists(ctx context.Context, token string) (bool, error)
}
