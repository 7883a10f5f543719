package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a transaction on db.  It commits when fn returns nil
// and rolls back otherwise, including when fn panics.  There is no retry;
// the first error is returned as is.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
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
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()
	return fn(tx)
}

// Conn is one dedicated pooled connection.  It remembers the driver name so
// it can serve as a record executor.
type Conn struct {
	*sqlx.Conn
	driverName string
}

func (c *Conn) DriverName() string { return c.driverName }

// WithConn borrows one dedicated connection from db for fn and returns it
// to the pool on every exit path.
func WithConn(ctx context.Context, db *sqlx.DB, fn func(conn *Conn) error) error {
	conn, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(&Conn{Conn: conn, driverName: db.DriverName()})
}
