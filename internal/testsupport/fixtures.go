package testsupport

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// CreateUser inserts an active user with a placeholder password hash.
func CreateUser(t testing.TB, store repository.Store, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		PasswordHash: "x",
		FullName:     username,
		IsActive:     true,
	}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreateExercise inserts an active weight-based catalog entry.
func CreateExercise(t testing.TB, store repository.Store, name string) *domain.Exercise {
	t.Helper()
	exercise := &domain.Exercise{
		Name:        name,
		Type:        domain.ExerciseTypeWeightBased,
		MuscleGroup: "chest",
		IsActive:    true,
	}
	if err := store.Exercises().Create(context.Background(), exercise); err != nil {
		t.Fatalf("create exercise %s: %v", name, err)
	}
	return exercise
}

// CountRows returns the number of rows in table matching where.
func CountRows(t testing.TB, db *gorm.DB, table, where string, args ...any) int64 {
	t.Helper()
	var count int64
	q := db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
