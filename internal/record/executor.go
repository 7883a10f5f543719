package record

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Executor is the execution context every record operation runs on.
//
// Pass the pool (*sqlx.DB) to let each statement borrow a connection and
// auto-commit.  Pass a *sqlx.Tx to join a caller-owned unit of work; records
// never commit, roll back, or close it.  database.Conn, a dedicated pooled
// connection, works too.
type Executor interface {
	DriverName() string
	Rebind(query string) string
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

var (
	_ Executor = (*sqlx.DB)(nil)
	_ Executor = (*sqlx.Tx)(nil)
)

// Model is the uniform contract of an entity record.  T is the record's own
// pointer type so GetByID can return the receiver for chaining.
type Model[T any] interface {
	ID() int64
	Insert(ctx context.Context, ex Executor) error
	GetByID(ctx context.Context, ex Executor, lock bool) (T, error)
	Update(ctx context.Context, ex Executor) error
	Delete(ctx context.Context, ex Executor) error
}
