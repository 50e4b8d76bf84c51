// Package dbx holds the small database abstractions shared by the stores:
// DBTX, satisfied by both *sql.DB and *sql.Tx, and helpers that decide whether
// a sequence of writes runs inside one transaction or directly on the pool.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the stores.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with the transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "INSERT ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// Runner executes fn against some handle. It lets callers choose between
// all-or-nothing and step-by-step persistence without changing their code.
type Runner func(ctx context.Context, fn func(ctx context.Context, h DBTX) error) error

// Sequential runs fn directly on db. Each statement commits on its own, so a
// failure part-way leaves the earlier statements in place.
func Sequential(db DBTX) Runner {
	return func(ctx context.Context, fn func(ctx context.Context, h DBTX) error) error {
		return fn(ctx, db)
	}
}

// Transactional runs fn inside WithTx.
func Transactional(db *sql.DB, opts *sql.TxOptions) Runner {
	return func(ctx context.Context, fn func(ctx context.Context, h DBTX) error) error {
		return WithTx(ctx, db, opts, fn)
	}
}
