package tables

import (
	"context"

	"github.com/dmitrijs2005/karmaboard/internal/server/models"
)

// Store is the table-oriented persistence API used by the sync and read
// paths. Callers pass table and column names; SQL stays inside the store.
type Store interface {
	Upsert(ctx context.Context, table string, rows []models.Record, conflictKey string) error
	Insert(ctx context.Context, table string, rows []models.Record) error
	Select(ctx context.Context, table string, columns []string, orderBy ...Order) ([]models.Record, error)
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }
