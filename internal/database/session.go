package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of database/sql shared by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sessionKey struct{}

// Acquire reserves a dedicated connection from the pool for the lifetime of one request.
// The returned release func must be called on every exit path; it is safe to call more than once.
func Acquire(ctx context.Context, db *sql.DB) (context.Context, func(), error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return ctx, func() {}, err
	}
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		_ = conn.Close()
	}
	return context.WithValue(ctx, sessionKey{}, conn), release, nil
}

// SessionFromContext returns the connection attached by Acquire, if any.
func SessionFromContext(ctx context.Context) (*sql.Conn, bool) {
	conn, ok := ctx.Value(sessionKey{}).(*sql.Conn)
	return conn, ok && conn != nil
}

// QuerierFromContext prefers the request session and falls back to the pool.
func QuerierFromContext(ctx context.Context, fallback *sql.DB) Querier {
	if conn, ok := SessionFromContext(ctx); ok {
		return conn
	}
	return fallback
}

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
// When constraint is non-empty only that constraint matches.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
