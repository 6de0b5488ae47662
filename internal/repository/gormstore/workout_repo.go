package gormstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// workoutRepository implements repository.WorkoutRepository.
type workoutRepository struct {
	db *gorm.DB
}

func orderedSets(db *gorm.DB) *gorm.DB {
	return db.Order("set_number ASC").Order("id ASC")
}

func withWorkoutGraph(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC").Order("id ASC")
		}).
		Preload("Exercises.Exercise").
		Preload("Exercises.Sets", orderedSets)
}

// Create inserts the workout header, then each exercise, then its sets.
func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if errCreate := tx.Omit(clause.Associations).Create(workout).Error; errCreate != nil {
			return fmt.Errorf("insert workout: %w", errCreate)
		}
		for i := range workout.Exercises {
			workout.Exercises[i].WorkoutID = workout.ID
			if errInsert := insertWorkoutExercise(tx, &workout.Exercises[i]); errInsert != nil {
				return errInsert
			}
		}
		return nil
	})
}

func insertWorkoutExercise(tx *gorm.DB, exercise *domain.WorkoutExercise) error {
	exercise.ID = 0
	if errCreate := tx.Omit(clause.Associations).Create(exercise).Error; errCreate != nil {
		return fmt.Errorf("insert workout exercise: %w", errCreate)
	}
	if len(exercise.Sets) == 0 {
		return nil
	}
	for i := range exercise.Sets {
		exercise.Sets[i].ID = 0
		exercise.Sets[i].WorkoutExerciseID = exercise.ID
	}
	if errCreate := tx.Create(&exercise.Sets).Error; errCreate != nil {
		return fmt.Errorf("insert exercise sets: %w", errCreate)
	}
	return nil
}

func (r *workoutRepository) GetByID(ctx context.Context, id uint) (*domain.Workout, error) {
	var workout domain.Workout
	if err := withWorkoutGraph(r.db.WithContext(ctx)).First(&workout, id).Error; err != nil {
		return nil, translate(err)
	}
	return &workout, nil
}

func (r *workoutRepository) GetOpenByUser(ctx context.Context, userID uint) (*domain.Workout, error) {
	var workout domain.Workout
	err := withWorkoutGraph(r.db.WithContext(ctx)).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Order("started_at DESC").
		First(&workout).Error
	if err != nil {
		return nil, translate(err)
	}
	return &workout, nil
}

func (r *workoutRepository) ListByUser(ctx context.Context, userID uint, page repository.Page) ([]domain.Workout, error) {
	var workouts []domain.Workout
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").Order("id DESC")
	if err := withWorkoutGraph(pageOf(q, page)).Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *workoutRepository) ListCompletedByUser(ctx context.Context, userID uint, page repository.Page) ([]domain.Workout, error) {
	var workouts []domain.Workout
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").Order("id DESC")
	if err := withWorkoutGraph(pageOf(q, page)).Find(&workouts).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

// UpdateHeader writes name and notes only; completion goes through
// MarkCompleted.
func (r *workoutRepository) UpdateHeader(ctx context.Context, workout *domain.Workout) error {
	workout.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Workout{ID: workout.ID}).
		Select("name", "notes", "updated_at").
		Updates(workout)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkCompleted sets completed_at if the workout is still open. It returns
// repository.ErrUpdateFailed when the workout was already completed.
func (r *workoutRepository) MarkCompleted(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Workout{}).
		Where("id = ? AND completed_at IS NULL", id).
		Updates(map[string]any{"completed_at": at, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *workoutRepository) DeleteCascade(ctx context.Context, id uint) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var workout domain.Workout
		if errFind := tx.Select("id").First(&workout, id).Error; errFind != nil {
			return translate(errFind)
		}
		return purgeWorkouts(tx, []uint{id})
	})
}

// AddExercise inserts the exercise and any sets it carries.
func (r *workoutRepository) AddExercise(ctx context.Context, exercise *domain.WorkoutExercise) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		return insertWorkoutExercise(tx, exercise)
	})
}

// GetExercise only finds the row when it belongs to the given workout.
func (r *workoutRepository) GetExercise(ctx context.Context, workoutID, workoutExerciseID uint) (*domain.WorkoutExercise, error) {
	var exercise domain.WorkoutExercise
	err := r.db.WithContext(ctx).
		Preload("Exercise").
		Preload("Sets", orderedSets).
		Where("id = ? AND workout_id = ?", workoutExerciseID, workoutID).
		First(&exercise).Error
	if err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

func (r *workoutRepository) UpdateExerciseNotes(ctx context.Context, workoutExerciseID uint, notes string) error {
	res := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{ID: workoutExerciseID}).Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutRepository) DeleteExercise(ctx context.Context, workoutID, workoutExerciseID uint) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var exercise domain.WorkoutExercise
		if errFind := tx.Select("id").
			Where("id = ? AND workout_id = ?", workoutExerciseID, workoutID).
			First(&exercise).Error; errFind != nil {
			return translate(errFind)
		}
		if errSets := purgeSets(tx, []uint{workoutExerciseID}); errSets != nil {
			return errSets
		}
		return tx.Delete(&domain.WorkoutExercise{}, workoutExerciseID).Error
	})
}

func (r *workoutRepository) AddSet(ctx context.Context, set *domain.ExerciseSet) error {
	return r.db.WithContext(ctx).Create(set).Error
}

// GetSet only finds the set when it belongs to the given workout exercise.
func (r *workoutRepository) GetSet(ctx context.Context, workoutExerciseID, setID uint) (*domain.ExerciseSet, error) {
	var set domain.ExerciseSet
	err := r.db.WithContext(ctx).
		Where("id = ? AND workout_exercise_id = ?", setID, workoutExerciseID).
		First(&set).Error
	if err != nil {
		return nil, translate(err)
	}
	return &set, nil
}

func (r *workoutRepository) UpdateSet(ctx context.Context, set *domain.ExerciseSet) error {
	res := r.db.WithContext(ctx).Model(&domain.ExerciseSet{ID: set.ID}).
		Select("set_number", "reps", "weight", "duration", "rest_duration", "completed").
		Updates(set)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *workoutRepository) DeleteSet(ctx context.Context, workoutExerciseID, setID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND workout_exercise_id = ?", setID, workoutExerciseID).
		Delete(&domain.ExerciseSet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type progressionRow struct {
	ID        uint
	WorkoutID uint
	StartedAt time.Time
}

// Progression lists the user's completed performances of an exercise, newest
// start first, each with its sets.
func (r *workoutRepository) Progression(ctx context.Context, userID, exerciseID uint, limit int) ([]domain.ProgressionEntry, error) {
	var rows []progressionRow
	q := r.db.WithContext(ctx).
		Table("workout_exercises").
		Select("workout_exercises.id, workout_exercises.workout_id, workouts.started_at").
		Joins("JOIN workouts ON workouts.id = workout_exercises.workout_id").
		Where("workouts.user_id = ? AND workout_exercises.exercise_id = ? AND workouts.completed_at IS NOT NULL", userID, exerciseID).
		Order("workouts.started_at DESC").
		Order("workout_exercises.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("progression: %w", err)
	}
	if len(rows) == 0 {
		return []domain.ProgressionEntry{}, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var sets []domain.ExerciseSet
	if err := orderedSets(r.db.WithContext(ctx).Where("workout_exercise_id IN ?", ids)).
		Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("progression sets: %w", err)
	}
	byExercise := make(map[uint][]domain.ProgressionSet, len(rows))
	for _, set := range sets {
		byExercise[set.WorkoutExerciseID] = append(byExercise[set.WorkoutExerciseID], domain.ProgressionSet{
			SetNumber: set.SetNumber,
			Reps:      set.Reps,
			Weight:    set.Weight,
			Duration:  set.Duration,
			Completed: set.Completed,
		})
	}

	entries := make([]domain.ProgressionEntry, 0, len(rows))
	for _, row := range rows {
		entrySets := byExercise[row.ID]
		if entrySets == nil {
			entrySets = []domain.ProgressionSet{}
		}
		entries = append(entries, domain.ProgressionEntry{
			WorkoutID: row.WorkoutID,
			Date:      row.StartedAt,
			Sets:      entrySets,
		})
	}
	return entries, nil
}
