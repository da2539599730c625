// Package notes declares the record-store contract for notes and their
// share sets.
package notes

import (
	"context"

	"github.com/avasilyev/notekeep/internal/server/models"
)

type Repository interface {
	// Create persists a new note and fills in its generated id and
	// creation time.
	Create(ctx context.Context, note *models.Note) (*models.Note, error)

	// GetByID returns the note with its share set loaded, or
	// common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Note, error)

	// ListForUser returns the union of notes owned by userID and notes
	// shared with userID, newest first.
	ListForUser(ctx context.Context, userID string) ([]*models.Note, error)

	// Update overwrites title and content and stamps updated_at.
	Update(ctx context.Context, note *models.Note) error

	// Delete removes the note and, via cascade, its share rows.
	Delete(ctx context.Context, id string) error

	// AddShare grants userID read access. A duplicate grant yields
	// common.ErrAlreadyShared.
	AddShare(ctx context.Context, noteID, userID string) error

	// RemoveShare revokes a grant; the bool reports whether a grant
	// actually existed.
	RemoveShare(ctx context.Context, noteID, userID string) (bool, error)

	// Search runs a full-text query over title and content, scoped to
	// notes userID owns or is shared on, most relevant first.
	Search(ctx context.Context, userID, query string) ([]*models.Note, error)
}
