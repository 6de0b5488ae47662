package testsupport

import (
	"errors"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
)

// ErrInjected is returned by statements failed through FailWrites.
var ErrInjected = errors.New("injected write failure")

// Write kinds accepted by FailWrites.
const (
	OpCreate = "create"
	OpDelete = "delete"
)

// FailWrites makes every op statement against table fail with ErrInjected
// until the returned func is called. The hook runs before gorm executes the
// statement, so earlier writes in the same transaction have already happened.
func FailWrites(t testing.TB, db *gorm.DB, op, table string) (stop func()) {
	t.Helper()
	var armed atomic.Bool
	armed.Store(true)
	hook := func(tx *gorm.DB) {
		if armed.Load() && tx.Statement.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	}

	name := "testsupport:fail_" + op + "_" + table
	var err error
	switch op {
	case OpCreate:
		err = db.Callback().Create().Before("gorm:create").Register(name, hook)
	case OpDelete:
		err = db.Callback().Delete().Before("gorm:delete").Register(name, hook)
	default:
		t.Fatalf("FailWrites: unsupported op %q", op)
	}
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return func() { armed.Store(false) }
}
