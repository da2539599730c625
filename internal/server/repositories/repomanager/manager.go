package repomanager

import (
	"context"
	"database/sql"

	"github.com/avasilyev/notekeep/internal/dbx"
	"github.com/avasilyev/notekeep/internal/server/repositories/notes"
	"github.com/avasilyev/notekeep/internal/server/repositories/revocations"
	"github.com/avasilyev/notekeep/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run the same repository code inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
	Revocations(db dbx.DBTX) revocations.Repository
}
