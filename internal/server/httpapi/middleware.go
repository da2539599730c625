package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const subjectKey ctxKey = iota

// apiKeyHeader carries the account's static API key on every request.
const apiKeyHeader = "X-Api-Key"

func subjectFrom(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

// requestTimeout caps every request, store round-trips included, with the
// configured deadline.
func (rt *Router) requestTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), rt.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate resolves the bearer token and API key into a subject id and
// stores it on the request context. Both credentials are required on every
// protected request.
func (rt *Router) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		key := r.Header.Get(apiKeyHeader)

		subjectID, err := rt.authz.Authorize(r.Context(), token, key)
		if err != nil {
			rt.error(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subjectID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
