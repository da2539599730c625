package users

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

// pgUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pgUniqueViolation = "23505"

const userColumns = `id, email, password_hash, api_key, is_active, is_logged_in, created_at, updated_at, last_login`

// PostgresRepository implements the account store over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, api_key, is_active, is_logged_in, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING created_at
	`
	user.ID = uuid.NewString()

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.APIKey, user.IsActive, user.IsLoggedIn).
		Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, dbx.StoreError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *PostgresRepository) GetByKey(ctx context.Context, apiKey string) (*models.User, error) {
	return r.getWhere(ctx, "api_key = $1", apiKey)
}

func (r *PostgresRepository) getWhere(ctx context.Context, cond string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + cond

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.APIKey,
		&user.IsActive, &user.IsLoggedIn,
		&user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, dbx.StoreError(err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, email, passwordHash string) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrDuplicateAccount
		}
		return dbx.StoreError(err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) MarkLoggedIn(ctx context.Context, id string) (bool, error) {
	// Single conditional update: the flag flips only if currently clear.
	// Concurrent logins race on this statement, and exactly one wins.
	query := `
		UPDATE users SET is_logged_in = true, last_login = now()
		WHERE id = $1 AND is_logged_in = false
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, dbx.StoreError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) MarkLoggedOut(ctx context.Context, id string) error {
	query := `
		UPDATE users SET is_logged_in = false
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.StoreError(err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE users SET is_active = false, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.StoreError(err)
	}
	return requireOneRow(res)
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
