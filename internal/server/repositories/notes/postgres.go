package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avasilyev/notekeep/internal/common"
	"github.com/avasilyev/notekeep/internal/dbx"
	"github.com/avasilyev/notekeep/internal/server/models"
)

const pgUniqueViolation = "23505"

const noteColumns = `id, owner_id, title, content, created_at, updated_at`

// visibleTo scopes a query to notes the user owns or is shared on.
const visibleTo = `(n.owner_id = $1 OR EXISTS (
		SELECT 1 FROM note_shares s WHERE s.note_id = n.id AND s.user_id = $1))`

// PostgresRepository implements note storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `
		INSERT INTO notes (id, owner_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`
	note.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		note.ID, note.OwnerID, note.Title, note.Content).Scan(&note.CreatedAt)
	if err != nil {
		return nil, dbx.StoreError(err)
	}

	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID, &note.OwnerID, &note.Title, &note.Content,
		&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, dbx.StoreError(err)
	}

	if err := r.loadShares(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*models.Note, error) {
	query := `
		SELECT ` + noteColumns + ` FROM notes n
		WHERE ` + visibleTo + `
		ORDER BY n.created_at DESC
	`
	return r.queryNotes(ctx, query, userID)
}

func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes SET title = $2, content = $3, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, note.ID, note.Title, note.Content)
	if err != nil {
		return dbx.StoreError(err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM notes
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.StoreError(err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) AddShare(ctx context.Context, noteID, userID string) error {
	query := `
		INSERT INTO note_shares (note_id, user_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, noteID, userID); err != nil {
		// The (note_id, user_id) primary key enforces at-most-once.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrAlreadyShared
		}
		return dbx.StoreError(err)
	}
	return nil
}

func (r *PostgresRepository) RemoveShare(ctx context.Context, noteID, userID string) (bool, error) {
	query := `
		DELETE FROM note_shares
		WHERE note_id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, noteID, userID)
	if err != nil {
		return false, dbx.StoreError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Search(ctx context.Context, userID, query string) ([]*models.Note, error) {
	stmt := `
		SELECT ` + noteColumns + ` FROM notes n
		WHERE ` + visibleTo + `
		  AND to_tsvector('english', n.title || ' ' || n.content) @@ websearch_to_tsquery('english', $2)
		ORDER BY ts_rank(to_tsvector('english', n.title || ' ' || n.content),
		                 websearch_to_tsquery('english', $2)) DESC
	`
	return r.queryNotes(ctx, stmt, userID, query)
}

func (r *PostgresRepository) queryNotes(ctx context.Context, query string, args ...any) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.StoreError(err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		note := &models.Note{}
		if err := rows.Scan(
			&note.ID, &note.OwnerID, &note.Title, &note.Content,
			&note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, dbx.StoreError(err)
		}
		result = append(result, note)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.StoreError(err)
	}

	for _, note := range result {
		if err := r.loadShares(ctx, note); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *PostgresRepository) loadShares(ctx context.Context, note *models.Note) error {
	query := `
		SELECT user_id FROM note_shares
		WHERE note_id = $1
		ORDER BY user_id
	`
	rows, err := r.db.QueryContext(ctx, query, note.ID)
	if err != nil {
		return dbx.StoreError(err)
	}
	defer rows.Close()

	note.Shared = []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return dbx.StoreError(err)
		}
		note.Shared = append(note.Shared, userID)
	}
	if err := rows.Err(); err != nil {
		return dbx.StoreError(err)
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
