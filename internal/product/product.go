// internal/product/product.go
//
// Product entity record.
//
// Context
// -------
// A *Product mirrors one row of the `product` table and persists itself:
//
//	p := product.New("Widget", 5, product.WithGTIN(4006381333931))
//	err := p.Insert(ctx, db)              // p.ID() now > 0
//	p.QtyInStock--
//	err = p.Update(ctx, db)
//
// Every operation takes a record.Executor.  Pass the pool for a one-shot
// auto-committed statement, or a *sqlx.Tx to join a unit of work the caller
// commits.  The record never commits, rolls back, or closes anything.
//
// Read-modify-write under a row lock:
//
//	err := database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
//	    p, err := product.GetForUpdate(ctx, tx, id)
//	    if err != nil {
//	        return err
//	    }
//	    p.QtyInStock -= n
//	    return p.Update(ctx, tx)
//	})
//
// Schema reference
//
//	CREATE TABLE product (
//	    id            INT AUTO_INCREMENT PRIMARY KEY,
//	    gtin_code     BIGINT        NULL,
//	    qty_in_stock  INT           NOT NULL,
//	    name          VARCHAR(255)  NOT NULL,
//	    description   TEXT          NULL
//	);
//
// Notes
// -----
//   - Nullable columns are pointer fields.  nil binds NULL and NULL reads
//     back as nil; a GTIN of 0 or an empty description is stored as is.
//   - The identity is unexported.  Only Insert and Ref assign it.
//   - Oxford commas, two spaces after periods.
package product

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/stockroom/internal/metrics"
	"github.com/yanizio/stockroom/internal/record"
)

// Table describes the product table.  Columns are in binding order.
var Table = record.Table{
	Entity:   "product",
	Name:     "product",
	Identity: "id",
	Columns:  []string{"gtin_code", "qty_in_stock", "name", "description"},
}

var _ record.Model[*Product] = (*Product)(nil)

// Product is one row of the product table.
type Product struct {
	id int64

	GtinCode    *int64
	QtyInStock  int
	Name        string
	Description *string
}

// row is the scan target; columns bind by `db:` tag, not by position.
type row struct {
	ID          int64   `db:"id"`
	GtinCode    *int64  `db:"gtin_code"`
	QtyInStock  int     `db:"qty_in_stock"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
}

/*──────────────────────────── constructors ────────────────────────────────*/

// Option sets an optional field on a new Product.
type Option func(*Product)

func WithGTIN(code int64) Option {
	return func(p *Product) { p.GtinCode = &code }
}

func WithDescription(desc string) Option {
	return func(p *Product) { p.Description = &desc }
}

// New returns an unsaved Product (ID() == 0).
func New(name string, qtyInStock int, opts ...Option) *Product {
	p := &Product{Name: name, QtyInStock: qtyInStock}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Ref returns a lookup handle carrying only the identity.  Call GetByID to
// fill the rest.
func Ref(id int64) *Product {
	return &Product{id: id}
}

// Get loads product id using the given executor.
func Get(ctx context.Context, ex record.Executor, id int64) (*Product, error) {
	return Ref(id).GetByID(ctx, ex, false)
}

// GetForUpdate loads product id and holds an exclusive row lock until tx
// ends.  A second transaction asking for the same row blocks meanwhile.
func GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*Product, error) {
	return Ref(id).GetByID(ctx, tx, true)
}

/*──────────────────────────── accessors ───────────────────────────────────*/

// ID returns the database identity, 0 when the product was never persisted.
func (p *Product) ID() int64 { return p.id }

// GTIN returns the GTIN code, or 0 when unset.
func (p *Product) GTIN() int64 {
	if p.GtinCode == nil {
		return 0
	}
	return *p.GtinCode
}

// Desc returns the description, or "" when unset.
func (p *Product) Desc() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

/*──────────────────────────── CRUD ────────────────────────────────────────*/

// Insert writes p as a new row and assigns the generated identity.  It fails
// with record.ErrInvalidState, without touching the database, when p already
// has an identity.
func (p *Product) Insert(ctx context.Context, ex record.Executor) (err error) {
	defer observe("insert", time.Now(), &err)

	id, err := Table.Insert(ctx, ex, p.id, p.values()...)
	if err != nil {
		return err
	}
	p.id = id
	return nil
}

// GetByID overwrites every field of p from its row and returns p.  With
// lock set the row stays exclusively locked until the enclosing transaction
// ends.
func (p *Product) GetByID(ctx context.Context, ex record.Executor, lock bool) (_ *Product, err error) {
	defer observe("get", time.Now(), &err)

	var r row
	if err := Table.Fetch(ctx, ex, p.id, lock, &r); err != nil {
		return nil, err
	}
	p.GtinCode = r.GtinCode
	p.QtyInStock = r.QtyInStock
	p.Name = r.Name
	p.Description = r.Description
	return p, nil
}

// Update writes every value column of p.  It fails with record.ErrNotFound
// when the row no longer exists.
func (p *Product) Update(ctx context.Context, ex record.Executor) (err error) {
	defer observe("update", time.Now(), &err)
	return Table.Update(ctx, ex, p.id, p.values()...)
}

// Delete removes p's row.  p keeps its identity afterwards; discard it.
func (p *Product) Delete(ctx context.Context, ex record.Executor) (err error) {
	defer observe("delete", time.Now(), &err)
	return Table.Delete(ctx, ex, p.id)
}

// values lists the value columns in Table.Columns order.
func (p *Product) values() []any {
	return []any{p.GtinCode, p.QtyInStock, p.Name, p.Description}
}

func observe(op string, start time.Time, err *error) {
	metrics.ObserveRecordOp(Table.Entity, op, start, *err)
}
