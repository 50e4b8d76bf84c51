// Package tables provides a PostgreSQL-backed Store that writes and reads
// rows as column maps.
package tables

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrijs2005/karmaboard/internal/dbx"
	"github.com/dmitrijs2005/karmaboard/internal/server/models"
)

// maxParams is the PostgreSQL limit on bind parameters per statement.
var maxParams = 65535

const dateLayout = "2006-01-02"

// PostgresStore implements Store over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresStore struct {
	db dbx.DBTX
}

// NewPostgresStore constructs a store bound to the given DBTX.
func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Upsert inserts rows and, on a conflictKey collision, overwrites every other
// column from the incoming row. Rows missing a column write NULL there.
func (s *PostgresStore) Upsert(ctx context.Context, table string, rows []models.Record, conflictKey string) error {
	if len(rows) == 0 {
		return nil
	}
	cols := columnsOf(rows)
	if !slices.Contains(cols, conflictKey) {
		return fmt.Errorf("conflict key %q is not among the columns of %s", conflictKey, table)
	}

	var set []string
	for _, c := range cols {
		if c != conflictKey {
			set = append(set, quote(c)+" = EXCLUDED."+quote(c))
		}
	}
	suffix := " ON CONFLICT (" + quote(conflictKey) + ") DO NOTHING"
	if len(set) > 0 {
		suffix = " ON CONFLICT (" + quote(conflictKey) + ") DO UPDATE SET " + strings.Join(set, ", ")
	}

	return s.insert(ctx, table, cols, rows, suffix)
}

// Insert appends rows to table.
func (s *PostgresStore) Insert(ctx context.Context, table string, rows []models.Record) error {
	if len(rows) == 0 {
		return nil
	}
	return s.insert(ctx, table, columnsOf(rows), rows, "")
}

func (s *PostgresStore) insert(ctx context.Context, table string, cols []string, rows []models.Record, suffix string) error {
	if len(cols) == 0 {
		return fmt.Errorf("no columns to write into %s", table)
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	head := "INSERT INTO " + quote(table) + " (" + strings.Join(quoted, ", ") + ") VALUES "

	perStmt := max(maxParams/len(cols), 1)
	for chunk := range slices.Chunk(rows, perStmt) {
		var sb strings.Builder
		sb.WriteString(head)
		args := make([]any, 0, len(chunk)*len(cols))
		for i, r := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('(')
			for j, c := range cols {
				if j > 0 {
					sb.WriteString(", ")
				}
				args = append(args, r[c])
				sb.WriteString("$" + strconv.Itoa(len(args)))
			}
			sb.WriteByte(')')
		}
		sb.WriteString(suffix)

		if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

// Select reads columns from table (every column when none are given). Text
// comes back as string, integers as int64 and dates as "YYYY-MM-DD".
func (s *PostgresStore) Select(ctx context.Context, table string, columns []string, orderBy ...Order) ([]models.Record, error) {
	list := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = quote(c)
		}
		list = strings.Join(quoted, ", ")
	}

	query := "SELECT " + list + " FROM " + quote(table)
	if len(orderBy) > 0 {
		terms := make([]string, len(orderBy))
		for i, o := range orderBy {
			terms[i] = quote(o.Column)
			if o.Desc {
				terms[i] += " DESC NULLS LAST"
			}
		}
		query += " ORDER BY " + strings.Join(terms, ", ")
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var result []models.Record
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		rec := make(models.Record, len(names))
		for i, n := range names {
			rec[n] = fromDriver(vals[i])
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func columnsOf(rows []models.Record) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func fromDriver(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case time.Time:
		if x.Equal(x.Truncate(24 * time.Hour)) {
			return x.UTC().Format(dateLayout)
		}
		return x.Format(time.RFC3339)
	default:
		return v
	}
}
