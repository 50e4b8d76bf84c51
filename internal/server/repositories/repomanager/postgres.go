// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// vending table stores and running database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/karmaboard/internal/dbx"
	"github.com/dmitrijs2005/karmaboard/internal/server/migrations"
	"github.com/dmitrijs2005/karmaboard/internal/server/repositories/tables"
)

// PostgresRepositoryManager vends PostgreSQL-backed stores and exposes a
// schema migration hook.
type PostgresRepositoryManager struct{}

// Tables returns a tables.Store bound to the provided DBTX.
func (m *PostgresRepositoryManager) Tables(db dbx.DBTX) tables.Store {
	return tables.NewPostgresStore(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
