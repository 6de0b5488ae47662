package gormstore

import (
	"fmt"

	"gorm.io/gorm"

	"alcyxob/workout-tracker/internal/domain"
)

// Models lists every persisted entity, parents before children.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Exercise{},
		&domain.WorkoutTemplate{},
		&domain.TemplateExercise{},
		&domain.Workout{},
		&domain.WorkoutExercise{},
		&domain.ExerciseSet{},
	}
}

// Migrate creates or updates the schema, including foreign key constraints.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite, DialectPostgres:
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}
	if errMigrate := conn.AutoMigrate(Models()...); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return nil
}
