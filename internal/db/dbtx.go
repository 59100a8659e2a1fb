package db

import (
	"context"
	"database/sql"
)

// DBTX is what every store needs: the query surface shared by *sql.DB and
// *sql.Tx. Stores built on a *sql.Tx take part in the caller's unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
