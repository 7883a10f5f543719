package record

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var widgets = Table{
	Entity:   "widget",
	Name:     "widget",
	Identity: "id",
	Columns:  []string{"label", "size"},
}

type widgetRow struct {
	ID    int64   `db:"id"`
	Label *string `db:"label"`
	Size  int     `db:"size"`
}

func newMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, driver), mock
}

func TestBuilder(t *testing.T) {
	assert.Equal(t, "INSERT INTO widget (label, size) VALUES (?, ?)", widgets.InsertSQL(MySQL))
	assert.Equal(t, "INSERT INTO widget (label, size) VALUES (?, ?) RETURNING id", widgets.InsertSQL(Postgres))
	assert.Equal(t, "SELECT id, label, size FROM widget WHERE id = ?", widgets.SelectByIDSQL(MySQL, false))
	assert.Equal(t, "SELECT id, label, size FROM widget WHERE id = ? FOR UPDATE", widgets.SelectByIDSQL(MySQL, true))
	assert.Equal(t, "SELECT id, label, size FROM widget WHERE id = ?", widgets.SelectByIDSQL(SQLite, true))
	assert.Equal(t, "UPDATE widget SET label = ?, size = ? WHERE id = ?", widgets.UpdateSQL())
	assert.Equal(t, "DELETE FROM widget WHERE id = ?", widgets.DeleteSQL())
}

func TestDialectFor(t *testing.T) {
	for name, want := range map[string]Dialect{
		"mysql":   MySQL,
		"pgx":     Postgres,
		"sqlite":  SQLite,
		"sqlite3": SQLite,
	} {
		got, err := DialectFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	for _, name := range []string{"oracle", "nrmysql", "cloudsqlpostgres"} {
		_, err := DialectFor(name)
		assert.Error(t, err, name)
	}
}

func TestInsert_MySQLUsesLastInsertID(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO widget (label, size) VALUES (?, ?)")).
		WithArgs(nil, 3).
		WillReturnResult(sqlmock.NewResult(42, 1))

	var label *string
	id, err := widgets.Insert(context.Background(), db, 0, label, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_PostgresUsesReturning(t *testing.T) {
	db, mock := newMock(t, "pgx")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO widget (label, size) VALUES ($1, $2) RETURNING id")).
		WithArgs("bolt", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	id, err := widgets.Insert(context.Background(), db, 0, "bolt", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_RejectsAssignedIdentity(t *testing.T) {
	db, mock := newMock(t, "mysql")

	_, err := widgets.Insert(context.Background(), db, 5, "bolt", 1)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Contains(t, err.Error(), "identity already assigned")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_ArityMismatch(t *testing.T) {
	db, _ := newMock(t, "mysql")
	_, err := widgets.Insert(context.Background(), db, 0, "bolt")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestInsert_UnknownDriver(t *testing.T) {
	db, _ := newMock(t, "sqlmock")
	_, err := widgets.Insert(context.Background(), db, 0, "bolt", 1)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestFetch(t *testing.T) {
	t.Run("found maps by column name", func(t *testing.T) {
		db, mock := newMock(t, "mysql")
		// Columns deliberately out of table order.
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, size FROM widget WHERE id = ?")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"size", "id", "label"}).AddRow(4, int64(7), nil))

		var row widgetRow
		require.NoError(t, widgets.Fetch(context.Background(), db, 7, false, &row))
		assert.Equal(t, int64(7), row.ID)
		assert.Equal(t, 4, row.Size)
		assert.Nil(t, row.Label)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock on postgres", func(t *testing.T) {
		db, mock := newMock(t, "pgx")
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, size FROM widget WHERE id = $1 FOR UPDATE")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "label", "size"}).AddRow(int64(7), "x", 1))

		var row widgetRow
		require.NoError(t, widgets.Fetch(context.Background(), db, 7, true, &row))
		require.NotNil(t, row.Label)
		assert.Equal(t, "x", *row.Label)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMock(t, "mysql")
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, label, size FROM widget WHERE id = ?")).
			WithArgs(int64(9999)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "label", "size"}))

		var row widgetRow
		err := widgets.Fetch(context.Background(), db, 9999, false, &row)
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "widget get id#9999: not found: no database entry for Id#9999", err.Error())
	})

	t.Run("zero id", func(t *testing.T) {
		db, mock := newMock(t, "mysql")
		var row widgetRow
		err := widgets.Fetch(context.Background(), db, 0, false, &row)
		require.ErrorIs(t, err, ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdate(t *testing.T) {
	q := regexp.QuoteMeta("UPDATE widget SET label = ?, size = ? WHERE id = ?")

	t.Run("one row", func(t *testing.T) {
		db, mock := newMock(t, "mysql")
		mock.ExpectExec(q).WithArgs("nut", 2, int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, widgets.Update(context.Background(), db, 3, "nut", 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("vanished row", func(t *testing.T) {
		db, mock := newMock(t, "mysql")
		mock.ExpectExec(q).WithArgs("nut", 2, int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))
		err := widgets.Update(context.Background(), db, 3, "nut", 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("zero id", func(t *testing.T) {
		db, mock := newMock(t, "mysql")
		err := widgets.Update(context.Background(), db, 0, "nut", 2)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	db, mock := newMock(t, "pgx")
	q := regexp.QuoteMeta("DELETE FROM widget WHERE id = $1")
	mock.ExpectExec(q).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, widgets.Delete(context.Background(), db, 3))
	assert.ErrorIs(t, widgets.Delete(context.Background(), db, 3), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorageFailureKeepsDriverError(t *testing.T) {
	db, mock := newMock(t, "mysql")
	driverErr := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM widget WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnError(driverErr)

	err := widgets.Delete(context.Background(), db, 3)
	require.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, ErrNotFound)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "delete", rerr.Op)
	assert.Equal(t, int64(3), rerr.ID)
}

func TestExecutorJoinsTransaction(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM widget WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), &sql.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, widgets.Delete(context.Background(), tx, 3))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
