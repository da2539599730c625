package httpapi

import (
	"fmt"
	"net/http"
	"strings"
)

type searchResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []noteResponse `json:"results"`
}

// handleSearchNotes runs a full-text query over the subject's readable
// notes. A blank query is rejected at the boundary, before it reaches the
// store.
func (rt *Router) handleSearchNotes(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		rt.error(w, r, fmt.Errorf("%w: query parameter q is required", errBadRequest))
		return
	}

	notes, err := rt.notes.Search(r.Context(), subjectFrom(r.Context()), query)
	if err != nil {
		rt.error(w, r, err)
		return
	}

	rt.respond(w, r, http.StatusOK, searchResponse{
		Query:   query,
		Count:   len(notes),
		Results: toNoteResponses(notes),
	})
}
