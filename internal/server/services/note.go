package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avasilyev/notekeep/internal/common"
	"github.com/avasilyev/notekeep/internal/dbx"
	"github.com/avasilyev/notekeep/internal/server/models"
	"github.com/avasilyev/notekeep/internal/server/repositories/repomanager"
)

// NoteDraft is the caller-supplied part of a new note.
type NoteDraft struct {
	Title   string
	Content string
}

// NoteService applies the ownership and sharing rules to notes. Reads are
// allowed for the owner and shared accounts; writes, deletes, and share
// management only for the owner. Write-path failures for non-owners read
// as not-found so note existence is never leaked.
type NoteService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repos: m}
}

func (s *NoteService) Create(ctx context.Context, ownerID string, draft NoteDraft) (*models.Note, error) {
	note := &models.Note{
		OwnerID: ownerID,
		Title:   draft.Title,
		Content: draft.Content,
		Shared:  []string{},
	}
	return s.repos.Notes(s.db).Create(ctx, note)
}

// CreateBatch persists several notes in one transaction: either all drafts
// become notes or none do.
func (s *NoteService) CreateBatch(ctx context.Context, ownerID string, drafts []NoteDraft) ([]*models.Note, error) {
	created := make([]*models.Note, 0, len(drafts))

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Notes(tx)
		for _, draft := range drafts {
			note := &models.Note{
				OwnerID: ownerID,
				Title:   draft.Title,
				Content: draft.Content,
				Shared:  []string{},
			}
			note, err := repo.Create(ctx, note)
			if err != nil {
				return err
			}
			created = append(created, note)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns a note readable by the subject: its owner or anyone in its
// share set. Anything else is not found.
func (s *NoteService) Get(ctx context.Context, subjectID, noteID string) (*models.Note, error) {
	note, err := s.repos.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != subjectID && !sharedWith(note, subjectID) {
		return nil, common.ErrNotFound
	}
	return note, nil
}

// List returns the union of notes the subject owns and notes shared with
// the subject, newest first.
func (s *NoteService) List(ctx context.Context, subjectID string) ([]*models.Note, error) {
	return s.repos.Notes(s.db).ListForUser(ctx, subjectID)
}

// Update overwrites title and/or content. Empty fields keep their current
// value; only the owner may update.
func (s *NoteService) Update(ctx context.Context, subjectID, noteID string, draft NoteDraft) (*models.Note, error) {
	repo := s.repos.Notes(s.db)

	note, err := s.ownedNote(ctx, subjectID, noteID)
	if err != nil {
		return nil, err
	}

	if draft.Title != "" {
		note.Title = draft.Title
	}
	if draft.Content != "" {
		note.Content = draft.Content
	}

	if err := repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes an owned note.
func (s *NoteService) Delete(ctx context.Context, subjectID, noteID string) error {
	if _, err := s.ownedNote(ctx, subjectID, noteID); err != nil {
		return err
	}
	return s.repos.Notes(s.db).Delete(ctx, noteID)
}

// Share grants targetID read access to an owned note. The target must be
// an existing active account; sharing with the owner, or twice with the
// same target, reports the note as already shared.
func (s *NoteService) Share(ctx context.Context, subjectID, noteID, targetID string) error {
	note, err := s.ownedNote(ctx, subjectID, noteID)
	if err != nil {
		return err
	}
	if targetID == note.OwnerID {
		return common.ErrAlreadyShared
	}
	if err := s.requireAccount(ctx, targetID); err != nil {
		return err
	}
	return s.repos.Notes(s.db).AddShare(ctx, noteID, targetID)
}

// Unshare revokes a grant on an owned note.
func (s *NoteService) Unshare(ctx context.Context, subjectID, noteID, targetID string) error {
	if _, err := s.ownedNote(ctx, subjectID, noteID); err != nil {
		return err
	}
	if err := s.requireAccount(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.repos.Notes(s.db).RemoveShare(ctx, noteID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return common.ErrNotSharedWithTarget
	}
	return nil
}

// Search runs a full-text query over the notes the subject can read.
func (s *NoteService) Search(ctx context.Context, subjectID, query string) ([]*models.Note, error) {
	return s.repos.Notes(s.db).Search(ctx, subjectID, query)
}

// ownedNote loads a note for a write-path operation. A note owned by
// someone else reads as not found, deliberately indistinguishable from a
// missing note.
func (s *NoteService) ownedNote(ctx context.Context, subjectID, noteID string) (*models.Note, error) {
	note, err := s.repos.Notes(s.db).GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != subjectID {
		return nil, common.ErrNotFound
	}
	return note, nil
}

func (s *NoteService) requireAccount(ctx context.Context, userID string) error {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrTargetNotFound
		}
		return err
	}
	if !user.IsActive {
		return common.ErrTargetNotFound
	}
	return nil
}

func sharedWith(note *models.Note, subjectID string) bool {
	for _, id := range note.Shared {
		if id == subjectID {
			return true
		}
	}
	return false
}
