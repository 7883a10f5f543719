// internal/record/errors.go
//
// Typed failures for record operations.
//
// Context
// -------
// Every record operation fails with exactly one of three kinds:
//
//   - ErrInvalidState   – an identity precondition was violated.  Always a
//     programmer error, raised before any statement is sent.
//   - ErrNotFound       – the row the operation needed is absent.
//   - ErrStorage        – the driver, the connection, or a constraint failed.
//
// Callers branch with errors.Is(err, record.ErrNotFound).  Storage failures
// keep the driver error reachable through errors.As, so a *mysql.MySQLError
// or *pgconn.PgError is never hidden behind the wrapper.
//
// Notes
// -----
//   - Nothing here logs.  Logging is the caller's call.
//   - Oxford commas, two spaces after periods.
package record

import (
	"errors"
	"fmt"
)

// Kind sentinels.  Match with errors.Is.
var (
	ErrInvalidState = errors.New("invalid state")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
)

// Error describes one failed record operation.
type Error struct {
	Kind   error  // one of ErrInvalidState, ErrNotFound, ErrStorage
	Entity string // e.g. "product"
	Op     string // insert, get, update, delete
	ID     int64
	Msg    string
	Err    error // underlying driver error, StorageFailure only
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s %s id#%d: %v", e.Entity, e.Op, e.ID, e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is reports whether target is this error's kind sentinel.
func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

/*──────────────────────────── constructors ────────────────────────────────*/

func invalidState(entity, op string, id int64, msg string) error {
	return &Error{Kind: ErrInvalidState, Entity: entity, Op: op, ID: id, Msg: msg}
}

func notFound(entity, op string, id int64) error {
	return &Error{
		Kind:   ErrNotFound,
		Entity: entity,
		Op:     op,
		ID:     id,
		Msg:    fmt.Sprintf("no database entry for Id#%d", id),
	}
}

func storage(entity, op string, id int64, err error) error {
	return &Error{Kind: ErrStorage, Entity: entity, Op: op, ID: id, Err: err}
}
