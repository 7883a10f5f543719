package record

import "fmt"

// Dialect captures the few places where supported engines disagree.
type Dialect struct {
	Name string

	// LockClause is appended to a by-id SELECT to take an exclusive row
	// lock until the enclosing transaction ends.  Empty when the engine has
	// no row locks; SQLite instead serializes whole transactions, which
	// database.Open arranges with BEGIN IMMEDIATE.
	LockClause string

	// Returning is true when the engine hands back the generated identity
	// from the INSERT itself instead of through sql.Result.LastInsertId.
	Returning bool
}

var (
	MySQL    = Dialect{Name: "mysql", LockClause: "FOR UPDATE"}
	Postgres = Dialect{Name: "postgres", LockClause: "FOR UPDATE", Returning: true}
	SQLite   = Dialect{Name: "sqlite"}
)

// DialectFor maps a database/sql driver name to its Dialect.
func DialectFor(driverName string) (Dialect, error) {
	switch driverName {
	case "mysql":
		return MySQL, nil
	case "pgx", "postgres":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported driver %q", driverName)
}
