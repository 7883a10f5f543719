// Package testutil provides schema and database helpers for tests.  It is
// test tooling only; the application never creates or migrates tables.
package testutil

import "fmt"

// productDDL is the reference product table per dialect.
var productDDL = map[string]string{
	"mysql": `CREATE TABLE IF NOT EXISTS product (
	    id            INT AUTO_INCREMENT PRIMARY KEY,
	    gtin_code     BIGINT        NULL,
	    qty_in_stock  INT           NOT NULL,
	    name          VARCHAR(255)  NOT NULL,
	    description   TEXT          NULL
	) ENGINE=InnoDB`,
	"postgres": `CREATE TABLE IF NOT EXISTS product (
	    id            BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	    gtin_code     BIGINT        NULL,
	    qty_in_stock  INTEGER       NOT NULL,
	    name          VARCHAR(255)  NOT NULL,
	    description   TEXT          NULL
	)`,
	"sqlite": `CREATE TABLE IF NOT EXISTS product (
	    id            INTEGER PRIMARY KEY AUTOINCREMENT,
	    gtin_code     INTEGER NULL,
	    qty_in_stock  INTEGER NOT NULL,
	    name          TEXT    NOT NULL,
	    description   TEXT    NULL
	)`,
}

// ProductDDL returns the CREATE TABLE statement for dialect.
func ProductDDL(dialect string) (string, error) {
	ddl, ok := productDDL[dialect]
	if !ok {
		return "", fmt.Errorf("no product DDL for dialect %q", dialect)
	}
	return ddl, nil
}
