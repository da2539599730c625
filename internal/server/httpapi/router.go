// Package httpapi exposes the access-control core over HTTP: the public
// signup/login/logout endpoints and the protected note and profile
// operations behind the dual-credential middleware.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avasilyev/notekeep/internal/logging"
	"github.com/avasilyev/notekeep/internal/server/models"
	"github.com/avasilyev/notekeep/internal/server/services"
)

// UserService is the slice of the user service the handlers need.
type UserService interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password, presentedKey string) (string, error)
	Logout(ctx context.Context, token, presentedKey string) error
	Profile(ctx context.Context, subjectID string) (*models.User, error)
	UpdateProfile(ctx context.Context, subjectID, email, password string) error
	Deactivate(ctx context.Context, subjectID string) error
}

// NoteService is the slice of the note service the handlers need.
type NoteService interface {
	Create(ctx context.Context, ownerID string, draft services.NoteDraft) (*models.Note, error)
	CreateBatch(ctx context.Context, ownerID string, drafts []services.NoteDraft) ([]*models.Note, error)
	Get(ctx context.Context, subjectID, noteID string) (*models.Note, error)
	List(ctx context.Context, subjectID string) ([]*models.Note, error)
	Update(ctx context.Context, subjectID, noteID string, draft services.NoteDraft) (*models.Note, error)
	Delete(ctx context.Context, subjectID, noteID string) error
	Share(ctx context.Context, subjectID, noteID, targetID string) error
	Unshare(ctx context.Context, subjectID, noteID, targetID string) error
	Search(ctx context.Context, subjectID, query string) ([]*models.Note, error)
}

// Authorizer resolves the two request credentials into a subject id.
type Authorizer interface {
	Authorize(ctx context.Context, token, presentedKey string) (string, error)
}

type Router struct {
	users   UserService
	notes   NoteService
	authz   Authorizer
	log     logging.Logger
	timeout time.Duration
}

func NewRouter(users UserService, notes NoteService, authz Authorizer, log logging.Logger, timeout time.Duration) *Router {
	return &Router{users: users, notes: notes, authz: authz, log: log, timeout: timeout}
}

// Handler builds the route tree. Everything under /api requires both the
// bearer token and the account's API key.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(rt.requestTimeout)

	r.Post("/signup", rt.handleSignUp)
	r.Post("/login", rt.handleLogin)
	r.Post("/logout", rt.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(rt.authenticate)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", rt.handleProfile)
			r.Put("/", rt.handleUpdateProfile)
			r.Delete("/", rt.handleDeactivate)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", rt.handleCreateNote)
			r.Get("/", rt.handleListNotes)
			r.Post("/bulk", rt.handleCreateNotesBulk)
			r.Get("/{id}", rt.handleGetNote)
			r.Put("/{id}", rt.handleUpdateNote)
			r.Delete("/{id}", rt.handleDeleteNote)
			r.Post("/share/{id}/{userID}", rt.handleShareNote)
			r.Post("/unshare/{id}/{userID}", rt.handleUnshareNote)
		})

		r.Get("/search", rt.handleSearchNotes)
	})

	return r
}
