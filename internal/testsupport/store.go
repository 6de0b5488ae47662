// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/repository/gormstore"
)

// NewStore opens a private in-memory SQLite database with foreign keys
// enforced, migrates it and returns a store over it.
func NewStore(t testing.TB) *gormstore.Store {
	t.Helper()
	return gormstore.NewStore(NewDB(t))
}

// NewDB is NewStore without the repository wrapper. It goes through the same
// gormstore.Open path as the server, which pins SQLite to one connection so
// the in-memory database survives.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	conn, err := gormstore.Open(config.DatabaseConfig{Driver: gormstore.DialectSQLite, DSN: ":memory:"}, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = gormstore.Close(conn) })

	if err := gormstore.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
