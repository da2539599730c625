package revocations

import (
	"context"

	"github.com/avasilyev/notekeep/internal/dbx"
)

// PostgresRepository implements the revocation ledger over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add appends a ledger entry. ON CONFLICT DO NOTHING makes repeated
// revocation of the same token idempotent.
func (r *PostgresRepository) Add(ctx context.Context, token string, userID string) error {
	query := `
		INSERT INTO revoked_tokens (token, user_id, revoked_at)
		VALUES ($1, $2, now())
		ON CONFLICT (token) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, token, userID); err != nil {
		return dbx.StoreError(err)
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, token string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&exists); err != nil {
		return false, dbx.StoreError(err)
	}
	return exists, nil
}
