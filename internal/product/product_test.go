// internal/product/product_test.go
//
// Statement-level tests for the Product record using sqlmock.
//
// Context
// -------
// These tests pin the exact SQL each operation sends, the argument order,
// and the NULL binding of optional fields.  Round-trip behaviour against a
// real engine lives in product_sqlite_test.go.
//
// Run: go test ./internal/product -v

package product

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/stockroom/internal/record"
)

const (
	insertSQL = `INSERT INTO product (gtin_code, qty_in_stock, name, description) VALUES (?, ?, ?, ?)`
	selectSQL = `SELECT id, gtin_code, qty_in_stock, name, description FROM product WHERE id = ?`
	updateSQL = `UPDATE product SET gtin_code = ?, qty_in_stock = ?, name = ?, description = ? WHERE id = ?`
	deleteSQL = `DELETE FROM product WHERE id = ?`
)

var columns = []string{"id", "gtin_code", "qty_in_stock", "name", "description"}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsert_BindsNullForUnsetFields(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WithArgs(nil, 5, "Widget", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := New("Widget", 5)
	if err := p.Insert(context.Background(), db); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if p.ID() != 1 {
		t.Fatalf("ID = %d, want 1", p.ID())
	}
	expectMet(t, mock)
}

func TestInsert_BindsSetFields(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WithArgs(int64(4006381333931), 12, "Gizmo", "blue").
		WillReturnResult(sqlmock.NewResult(8, 1))

	p := New("Gizmo", 12, WithGTIN(4006381333931), WithDescription("blue"))
	if err := p.Insert(context.Background(), db); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if p.ID() != 8 {
		t.Fatalf("ID = %d, want 8", p.ID())
	}
	expectMet(t, mock)
}

func TestInsert_AssignedIdentityIsInvalidState(t *testing.T) {
	db, mock := newMock(t)

	err := Ref(3).Insert(context.Background(), db)
	if !errors.Is(err, record.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	expectMet(t, mock)
}

func TestGetByID_OverwritesFields(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), nil, 3, "Sprocket", "steel"))

	p := New("stale", 99, WithGTIN(1))
	p.id = 7
	got, err := p.GetByID(context.Background(), db, false)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != p {
		t.Fatal("GetByID must return its receiver")
	}
	if p.GtinCode != nil || p.QtyInStock != 3 || p.Name != "Sprocket" || p.Desc() != "steel" {
		t.Fatalf("unexpected product: %+v", p)
	}
	expectMet(t, mock)
}

func TestGetForUpdate_AddsLockClause(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectSQL + " FOR UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(7), int64(42), 3, "Sprocket", nil))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	p, err := GetForUpdate(context.Background(), tx, 7)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if p.GTIN() != 42 || p.Description != nil {
		t.Fatalf("unexpected product: %+v", p)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	expectMet(t, mock)
}

func TestGet_MissingRowIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
		WithArgs(int64(9999)).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := Get(context.Background(), db, 9999)
	if !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	expectMet(t, mock)
}

func TestUpdate_VanishedRowIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(updateSQL)).
		WithArgs(nil, 1, "Widget", nil, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := New("Widget", 1)
	p.id = 4
	if err := p.Update(context.Background(), db); !errors.Is(err, record.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	expectMet(t, mock)
}

func TestDelete_KeepsIdentity(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := Ref(4)
	if err := p.Delete(context.Background(), db); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if p.ID() != 4 {
		t.Fatalf("ID = %d after delete, want 4", p.ID())
	}
	expectMet(t, mock)
}

func TestUnassignedIdentityNeverHitsDatabase(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()
	p := New("Widget", 1)

	if _, err := p.GetByID(ctx, db, false); !errors.Is(err, record.ErrInvalidState) {
		t.Errorf("GetByID err = %v", err)
	}
	if err := p.Update(ctx, db); !errors.Is(err, record.ErrInvalidState) {
		t.Errorf("Update err = %v", err)
	}
	if err := p.Delete(ctx, db); !errors.Is(err, record.ErrInvalidState) {
		t.Errorf("Delete err = %v", err)
	}
	expectMet(t, mock)
}
