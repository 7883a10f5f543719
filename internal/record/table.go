// internal/record/table.go
//
// Table description, command builder, and the shared CRUD protocol.
//
// Context
// -------
// An entity record describes its table once (`Table`) and delegates the
// mechanics of each operation here:
//
//	Insert  – check id == 0, INSERT value columns, return generated id.
//	Fetch   – check id > 0, SELECT by id (optionally FOR UPDATE), scan by
//	          column name into the caller's row struct.
//	Update  – check id > 0, UPDATE value columns, require one matched row.
//	Delete  – check id > 0, DELETE by id, require one matched row.
//
// Statements are built with `?` placeholders and passed through the
// executor's Rebind, so Postgres sees `$1…$n` without a second builder.
//
// Notes
// -----
//   - The SELECT names every column.  Row data is mapped by name through
//     `db:` tags, so schema column order does not matter.
//   - Value arguments are bound in Columns order; a nil pointer binds NULL.
//   - Oxford commas, two spaces after periods.
package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Table names an entity's table, its identity column, and its value columns
// in binding order.
type Table struct {
	Entity   string
	Name     string
	Identity string
	Columns  []string
}

/*──────────────────────────── command builder ─────────────────────────────*/

// InsertSQL names only the value columns; the identity is generated.
func (t Table) InsertSQL(d Dialect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(t.Columns, ", "), placeholders(len(t.Columns)))
	if d.Returning {
		b.WriteString(" RETURNING " + t.Identity)
	}
	return b.String()
}

func (t Table) SelectByIDSQL(d Dialect, lock bool) string {
	cols := append([]string{t.Identity}, t.Columns...)
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		strings.Join(cols, ", "), t.Name, t.Identity)
	if lock && d.LockClause != "" {
		q += " " + d.LockClause
	}
	return q
}

func (t Table) UpdateSQL() string {
	set := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		set[i] = c + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		t.Name, strings.Join(set, ", "), t.Identity)
}

func (t Table) DeleteSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.Name, t.Identity)
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

/*──────────────────────────── CRUD protocol ───────────────────────────────*/

// Insert writes a new row and returns its generated identity.  id is the
// record's current identity and must be 0.
func (t Table) Insert(ctx context.Context, ex Executor, id int64, values ...any) (int64, error) {
	const op = "insert"
	if id != 0 {
		return 0, invalidState(t.Entity, op, id, "cannot insert: identity already assigned")
	}
	if err := t.checkArity(op, id, values); err != nil {
		return 0, err
	}
	d, err := DialectFor(ex.DriverName())
	if err != nil {
		return 0, storage(t.Entity, op, id, err)
	}

	q := ex.Rebind(t.InsertSQL(d))
	if d.Returning {
		var newID int64
		if err := ex.GetContext(ctx, &newID, q, values...); err != nil {
			return 0, storage(t.Entity, op, id, err)
		}
		return newID, nil
	}

	res, err := ex.ExecContext(ctx, q, values...)
	if err != nil {
		return 0, storage(t.Entity, op, id, err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, storage(t.Entity, op, id, err)
	}
	if newID <= 0 {
		return 0, storage(t.Entity, op, id, fmt.Errorf("driver returned identity %d", newID))
	}
	return newID, nil
}

// Fetch loads the row with the given id into dest, a pointer to a struct
// whose `db:` tags cover the identity and every value column.  When lock is
// true the row stays exclusively locked until the enclosing transaction
// ends; outside a transaction the lock is released with the statement.
func (t Table) Fetch(ctx context.Context, ex Executor, id int64, lock bool, dest any) error {
	const op = "get"
	if id <= 0 {
		return invalidState(t.Entity, op, id, "cannot load: identity not assigned")
	}
	d, err := DialectFor(ex.DriverName())
	if err != nil {
		return storage(t.Entity, op, id, err)
	}

	err = ex.GetContext(ctx, dest, ex.Rebind(t.SelectByIDSQL(d, lock)), id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return notFound(t.Entity, op, id)
	case err != nil:
		return storage(t.Entity, op, id, err)
	}
	return nil
}

// Update rewrites every value column of row id.
func (t Table) Update(ctx context.Context, ex Executor, id int64, values ...any) error {
	const op = "update"
	if id <= 0 {
		return invalidState(t.Entity, op, id, "cannot update: identity not assigned")
	}
	if err := t.checkArity(op, id, values); err != nil {
		return err
	}
	args := append(append(make([]any, 0, len(values)+1), values...), id)
	return t.execOne(ctx, ex, op, id, t.UpdateSQL(), args...)
}

// Delete removes row id.  Deleting the same id twice fails the second time.
func (t Table) Delete(ctx context.Context, ex Executor, id int64) error {
	const op = "delete"
	if id <= 0 {
		return invalidState(t.Entity, op, id, "cannot delete: identity not assigned")
	}
	return t.execOne(ctx, ex, op, id, t.DeleteSQL(), id)
}

// execOne runs a keyed write and maps zero affected rows to ErrNotFound.
func (t Table) execOne(ctx context.Context, ex Executor, op string, id int64, q string, args ...any) error {
	res, err := ex.ExecContext(ctx, ex.Rebind(q), args...)
	if err != nil {
		return storage(t.Entity, op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage(t.Entity, op, id, fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return notFound(t.Entity, op, id)
	}
	return nil
}

func (t Table) checkArity(op string, id int64, values []any) error {
	if len(values) != len(t.Columns) {
		return invalidState(t.Entity, op, id,
			fmt.Sprintf("got %d values for %d columns", len(values), len(t.Columns)))
	}
	return nil
}
