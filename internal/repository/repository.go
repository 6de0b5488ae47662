package repository

import (
	"context"
	"time"

	"alcyxob/workout-tracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrDuplicate    = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Skip  int
	Limit int
}

// Store is the transactional entity store. Repositories obtained from the Store
// passed to fn share one transaction; returning an error from fn rolls every
// write back.
type Store interface {
	Users() UserRepository
	Exercises() ExerciseRepository
	Templates() TemplateRepository
	Workouts() WorkoutRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, page Page) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// DeleteCascade removes the user together with every workout and template
	// the user owns, children first.
	DeleteCascade(ctx context.Context, id uint) error
}

// ExerciseFilter narrows catalog listings.
type ExerciseFilter struct {
	ActiveOnly  bool
	MuscleGroup string
	Page        Page
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id uint) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context, filter ExerciseFilter) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id uint) error
	// IsReferenced reports whether any template or workout row points at the
	// exercise.
	IsReferenced(ctx context.Context, id uint) (bool, error)
}

// TemplateRepository defines the interface for interacting with workout
// templates. Reads return exercises ordered by order index with their catalog
// entries loaded.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) error
	GetByID(ctx context.Context, id uint) (*domain.WorkoutTemplate, error)
	ListVisible(ctx context.Context, userID uint, page Page) ([]domain.WorkoutTemplate, error)
	ListAll(ctx context.Context, page Page) ([]domain.WorkoutTemplate, error)
	UpdateHeader(ctx context.Context, template *domain.WorkoutTemplate) error
	ReplaceExercises(ctx context.Context, templateID uint, exercises []domain.TemplateExercise) error
	AddExercise(ctx context.Context, exercise *domain.TemplateExercise) error
	RemoveExercise(ctx context.Context, templateID, templateExerciseID uint) error
	// Delete removes the template rows and detaches workouts created from it.
	Delete(ctx context.Context, id uint) error
}

// WorkoutRepository defines the interface for interacting with workout data.
// Full reads return exercises ordered by order index and sets ordered by set
// number.
type WorkoutRepository interface {
	// Create inserts the workout and any nested exercises and sets.
	Create(ctx context.Context, workout *domain.Workout) error
	GetByID(ctx context.Context, id uint) (*domain.Workout, error)
	GetOpenByUser(ctx context.Context, userID uint) (*domain.Workout, error)
	ListByUser(ctx context.Context, userID uint, page Page) ([]domain.Workout, error)
	ListCompletedByUser(ctx context.Context, userID uint, page Page) ([]domain.Workout, error)
	UpdateHeader(ctx context.Context, workout *domain.Workout) error
	// MarkCompleted sets completed_at on an open workout. It fails with
	// ErrUpdateFailed when the workout is already completed.
	MarkCompleted(ctx context.Context, id uint, at time.Time) error
	DeleteCascade(ctx context.Context, id uint) error

	AddExercise(ctx context.Context, exercise *domain.WorkoutExercise) error
	GetExercise(ctx context.Context, workoutID, workoutExerciseID uint) (*domain.WorkoutExercise, error)
	UpdateExerciseNotes(ctx context.Context, workoutExerciseID uint, notes string) error
	DeleteExercise(ctx context.Context, workoutID, workoutExerciseID uint) error

	AddSet(ctx context.Context, set *domain.ExerciseSet) error
	GetSet(ctx context.Context, workoutExerciseID, setID uint) (*domain.ExerciseSet, error)
	UpdateSet(ctx context.Context, set *domain.ExerciseSet) error
	DeleteSet(ctx context.Context, workoutExerciseID, setID uint) error

	Progression(ctx context.Context, userID, exerciseID uint, limit int) ([]domain.ProgressionEntry, error)
}
