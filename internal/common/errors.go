// Package common defines the sentinel errors shared across notekeep
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Credential and key errors.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrKeyIdentityMismatch = errors.New("api key does not belong to token subject")

	// Token lifecycle errors. A revoked token stays revoked even if its
	// expiry has not elapsed.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrTokenMalformed = errors.New("token malformed")

	// Session and account errors.
	ErrAlreadyLoggedIn  = errors.New("already logged in")
	ErrDuplicateAccount = errors.New("account already exists")

	// Resource errors. ErrNotFound also covers "exists but not yours" for
	// write and delete paths, so existence is not leaked.
	ErrNotFound            = errors.New("not found")
	ErrAlreadyShared       = errors.New("note already shared with this account")
	ErrNotSharedWithTarget = errors.New("note is not shared with this account")
	ErrTargetNotFound      = errors.New("target account not found")

	// Store errors. Transient and retryable by the caller.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
