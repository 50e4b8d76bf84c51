package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/karmaboard/internal/dbx"
	"github.com/dmitrijs2005/karmaboard/internal/server/repositories/tables"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Tables(db dbx.DBTX) tables.Store
}
