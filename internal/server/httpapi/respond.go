package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/avasilyev/notekeep/internal/common"
)

func (rt *Router) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rt.log.Error(r.Context(), "encoding response", "error", err)
	}
}

// error maps a service error onto its HTTP status and a stable error body.
// Unclassified errors are logged and reported as a bare 500; their text
// never reaches the client.
func (rt *Router) error(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		rt.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = common.ErrInternal.Error()
	}
	if errors.Is(err, common.ErrStoreUnavailable) {
		rt.log.Warn(r.Context(), "store unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = common.ErrStoreUnavailable.Error()
	}

	rt.respond(w, r, status, errorResponse{Error: msg})
}

type errorResponse struct {
	Error string `json:"error"`
}
