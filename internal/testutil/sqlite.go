package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/yanizio/stockroom/internal/database"
)

// SQLite opens a private in-memory database with the product table applied.
// The pool is pinned to one connection because every new :memory:
// connection would otherwise see an empty database.
func SQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ddl, err := ProductDDL("sqlite")
	if err != nil {
		t.Fatalf("product DDL: %v", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("apply product DDL: %v", err)
	}
	return db
}

// SQLiteFile opens a file-backed database through database.Open, so the
// pool has several connections and the production DSN settings apply.
func SQLiteFile(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockroom.db")
	db, err := database.Open(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite file: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ddl, err := ProductDDL("sqlite")
	if err != nil {
		t.Fatalf("product DDL: %v", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("apply product DDL: %v", err)
	}
	return db
}
