// Package database centralises sqlx connection helpers.  It is the
// connection provider for entity records: callers open one pool at boot and
// hand it (or a transaction begun on it) to record operations.
//
// Supported drivers:
//
//	mysql     – go-sql-driver/mysql, also MariaDB.
//	postgres  – jackc/pgx through its database/sql adapter.
//	sqlite    – modernc.org/sqlite, pure Go, used by tests and demos.
//
// Public entry points:
//
//	Open(ctx, driver, dsn)                     – conservative pool sizes.
//	OpenWithOptions(ctx, driver, dsn, opts)    – fine-grained control.
//	WithTx(ctx, db, fn)                        – caller-owned unit of work.
//	WithConn(ctx, db, fn)                      – one dedicated connection.
//
// Both Open helpers Ping the database before returning so callers can fail
// fast during bootstrap.  Callers should Close() the returned *sqlx.DB when
// no longer needed.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Options tunes one pool.  Retries and RetryBackoff apply to the bootstrap
// ping only; record operations are never retried.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

// DefaultOptions returns 15 max open, 5 idle, a 30-minute connection
// lifetime, and no ping retries.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Open returns a pinged *sqlx.DB with DefaultOptions.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, driver, dsn, DefaultOptions())
}

// OpenWithOptions opens and pings a pool for driver (mysql, postgres, or
// sqlite).
func OpenWithOptions(ctx context.Context, driver, dsn string, opts Options) (*sqlx.DB, error) {
	name, dsn, err := driverDSN(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	// Each :memory: connection is its own empty database.
	if name == "sqlite" && strings.Contains(dsn, ":memory:") {
		opts.MaxOpenConns = 1
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := ping(ctx, db, opts); err != nil {
		db.Close()
		return nil, err
	}
	zap.S().Debugw("database online", "driver", name, "max_open", opts.MaxOpenConns)
	return db, nil
}

// driverDSN maps a configured driver to its database/sql name and adjusts
// the DSN where the driver needs it.
//
// MySQL reports changed rows, not matched rows, unless clientFoundRows is
// set.  Without it an UPDATE that rewrites identical values would look like
// a vanished row.
//
// SQLite has no row locks.  Every transaction begins IMMEDIATE so it holds
// the write lock from BEGIN, and busy_timeout makes a second BEGIN wait for
// it instead of failing with SQLITE_BUSY.  Values already in the DSN win.
func driverDSN(driver, dsn string) (string, string, error) {
	switch driver {
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ClientFoundRows = true
		cfg.ParseTime = true
		return "mysql", cfg.FormatDSN(), nil
	case "postgres", "pgx":
		return "pgx", dsn, nil
	case "sqlite":
		return "sqlite", sqliteDSN(dsn), nil
	}
	return "", "", fmt.Errorf("unsupported database driver %q", driver)
}

// SQLiteBusyTimeout bounds how long a transaction waits for another
// transaction's write lock.
const SQLiteBusyTimeout = 5 * time.Second

func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_txlock=") {
		dsn += sep + "_txlock=immediate"
		sep = "&"
	}
	if !strings.Contains(dsn, "busy_timeout") {
		dsn += fmt.Sprintf("%s_pragma=busy_timeout(%d)", sep, SQLiteBusyTimeout.Milliseconds())
	}
	return dsn
}

func ping(ctx context.Context, db *sqlx.DB, opts Options) error {
	var err error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		zap.S().Warnw("database ping failed", "attempt", attempt+1, "err", err)
		if attempt == opts.Retries {
			break
		}
		t := time.NewTimer(opts.RetryBackoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("ping database: %w", ctx.Err())
		case <-t.C:
		}
	}
	return fmt.Errorf("ping database: %w", err)
}
