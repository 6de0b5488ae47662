// Package gormstore implements the repository interfaces on gorm, for
// PostgreSQL and SQLite.
package gormstore

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"alcyxob/workout-tracker/internal/repository"
)

// Store implements repository.Store. The zero value is not usable; build one
// with NewStore.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a connected gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle, mostly for migrations and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{db: s.db}
}

func (s *Store) Exercises() repository.ExerciseRepository {
	return &exerciseRepository{db: s.db}
}

func (s *Store) Templates() repository.TemplateRepository {
	return &templateRepository{db: s.db}
}

func (s *Store) Workouts() repository.WorkoutRepository {
	return &workoutRepository{db: s.db}
}

// WithinTx runs fn in a transaction. Nested calls become savepoints.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// inTx runs fn on a transaction bound to ctx; multi-statement repository
// methods use it so they stay atomic even when called outside WithinTx.
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func pageOf(q *gorm.DB, page repository.Page) *gorm.DB {
	if page.Skip > 0 {
		q = q.Offset(page.Skip)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	return q
}
