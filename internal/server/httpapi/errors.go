package httpapi

import (
	"errors"
	"net/http"

	"github.com/avasilyev/notekeep/internal/common"
)

// statusFromError translates the service error taxonomy into HTTP statuses.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrKeyIdentityMismatch),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked),
		errors.Is(err, common.ErrTokenMalformed):
		return http.StatusUnauthorized

	case errors.Is(err, common.ErrAlreadyLoggedIn),
		errors.Is(err, common.ErrAlreadyShared),
		errors.Is(err, common.ErrNotSharedWithTarget),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest

	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusConflict

	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrTargetNotFound):
		return http.StatusNotFound

	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
