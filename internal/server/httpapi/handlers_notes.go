package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avasilyev/notekeep/internal/server/models"
	"github.com/avasilyev/notekeep/internal/server/services"
)

type noteResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Shared    []string   `json:"shared"`
}

func toNoteResponse(n *models.Note) noteResponse {
	shared := n.Shared
	if shared == nil {
		shared = []string{}
	}
	return noteResponse{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
		Shared:    shared,
	}
}

func toNoteResponses(notes []*models.Note) []noteResponse {
	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out
}

func (rt *Router) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decode(r, &req); err != nil {
		rt.error(w, r, err)
		return
	}

	note, err := rt.notes.Create(r.Context(), subjectFrom(r.Context()), services.NoteDraft{Title: req.Title, Content: req.Content})
	if err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusCreated, toNoteResponse(note))
}

func (rt *Router) handleCreateNotesBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkNotesRequest
	if err := decode(r, &req); err != nil {
		rt.error(w, r, err)
		return
	}

	drafts := make([]services.NoteDraft, 0, len(req.Notes))
	for _, n := range req.Notes {
		drafts = append(drafts, services.NoteDraft{Title: n.Title, Content: n.Content})
	}

	notes, err := rt.notes.CreateBatch(r.Context(), subjectFrom(r.Context()), drafts)
	if err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusCreated, toNoteResponses(notes))
}

func (rt *Router) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := rt.notes.List(r.Context(), subjectFrom(r.Context()))
	if err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, toNoteResponses(notes))
}

func (rt *Router) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := rt.notes.Get(r.Context(), subjectFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, toNoteResponse(note))
}

func (rt *Router) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteUpdateRequest
	if err := decode(r, &req); err != nil {
		rt.error(w, r, err)
		return
	}

	note, err := rt.notes.Update(r.Context(), subjectFrom(r.Context()), chi.URLParam(r, "id"),
		services.NoteDraft{Title: req.Title, Content: req.Content})
	if err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, toNoteResponse(note))
}

func (rt *Router) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := rt.notes.Delete(r.Context(), subjectFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, map[string]string{"message": "note deleted"})
}

func (rt *Router) handleShareNote(w http.ResponseWriter, r *http.Request) {
	noteID, targetID := chi.URLParam(r, "id"), chi.URLParam(r, "userID")
	if err := rt.notes.Share(r.Context(), subjectFrom(r.Context()), noteID, targetID); err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, map[string]string{"message": "note shared"})
}

func (rt *Router) handleUnshareNote(w http.ResponseWriter, r *http.Request) {
	noteID, targetID := chi.URLParam(r, "id"), chi.URLParam(r, "userID")
	if err := rt.notes.Unshare(r.Context(), subjectFrom(r.Context()), noteID, targetID); err != nil {
		rt.error(w, r, err)
		return
	}
	rt.respond(w, r, http.StatusOK, map[string]string{"message": "note unshared"})
}
