package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ideapool/internal/dbx"
	"github.com/dmitrijs2005/ideapool/internal/server/repositories/ideas"
	"github.com/dmitrijs2005/ideapool/internal/server/repositories/users"
)

// RepositoryManager vends SQL-backed repositories bound to either the pool
// or a transaction, so services can run several of them in one dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Ideas(db dbx.DBTX) ideas.Repository
}
