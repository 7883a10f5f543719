//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/stockroom/internal/database"
)

// SetupTestDB connects to the database named by TEST_DATABASE_DRIVER
// (mysql or postgres, default mysql) and TEST_DATABASE_DSN and applies the
// product DDL.  It skips the test when TEST_DATABASE_DSN is not set.
// Every caller shares the same table; isolate by inserting fresh rows.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping integration test")
	}
	driver := os.Getenv("TEST_DATABASE_DRIVER")
	if driver == "" {
		driver = "mysql"
	}

	opts := database.DefaultOptions()
	opts.MaxOpenConns = 4
	db, err := database.OpenWithOptions(context.Background(), driver, dsn, opts)
	if err != nil {
		t.Fatalf("connect to test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ddl, err := ProductDDL(driver)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("apply product DDL: %v", err)
	}
	return db
}
