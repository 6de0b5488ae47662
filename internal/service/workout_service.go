package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// CreateWorkoutInput carries the optional header of a blank workout.
type CreateWorkoutInput struct {
	Name  *string
	Notes *string
}

// SetInput is a set logged by the client.
type SetInput struct {
	SetNumber    int
	Reps         *int
	Weight       *float64
	Duration     *int
	RestDuration *int
	Completed    bool
}

func (in SetInput) toDomain() domain.ExerciseSet {
	return domain.ExerciseSet{
		SetNumber:    in.SetNumber,
		Reps:         in.Reps,
		Weight:       in.Weight,
		Duration:     in.Duration,
		RestDuration: in.RestDuration,
		Completed:    in.Completed,
	}
}

// AddExerciseInput places a catalog exercise into a workout, optionally with
// sets.
type AddExerciseInput struct {
	ExerciseID uint
	OrderIndex int
	Notes      string
	Sets       []SetInput
}

// WorkoutService is the workout session engine. A workout is open until it is
// completed; cancelling an open workout deletes it. Each user has at most one
// open workout, and exercises and sets of a completed workout are frozen.
type WorkoutService interface {
	CreateBlank(ctx context.Context, userID uint, in CreateWorkoutInput) (*domain.Workout, error)
	CreateFromTemplate(ctx context.Context, caller Caller, templateID uint, overrideName, overrideNotes *string) (*domain.Workout, error)
	Get(ctx context.Context, userID, workoutID uint) (*domain.Workout, error)
	List(ctx context.Context, userID uint, skip, limit int) ([]domain.Workout, error)
	Update(ctx context.Context, userID, workoutID uint, update domain.WorkoutUpdate) (*domain.Workout, error)

	AddExercise(ctx context.Context, userID, workoutID uint, in AddExerciseInput) (*domain.WorkoutExercise, error)
	UpdateExerciseNotes(ctx context.Context, userID, workoutID, workoutExerciseID uint, notes string) (*domain.WorkoutExercise, error)
	RemoveExercise(ctx context.Context, userID, workoutID, workoutExerciseID uint) error

	AddSet(ctx context.Context, userID, workoutID, workoutExerciseID uint, in SetInput) (*domain.ExerciseSet, error)
	UpdateSet(ctx context.Context, userID, workoutID, workoutExerciseID, setID uint, update domain.SetUpdate) (*domain.ExerciseSet, error)
	DeleteSet(ctx context.Context, userID, workoutID, workoutExerciseID, setID uint) error

	Complete(ctx context.Context, userID, workoutID uint) (*domain.Workout, error)
	Cancel(ctx context.Context, userID, workoutID uint) error

	GetActive(ctx context.Context, userID uint) (*domain.Workout, error)
	GetHistory(ctx context.Context, userID uint, skip, limit int) ([]domain.Workout, error)
	GetProgression(ctx context.Context, userID, exerciseID uint, limit int) ([]domain.ProgressionEntry, error)
}

type workoutService struct {
	store repository.Store
	now   Clock
}

// NewWorkoutService creates a new instance of workoutService. A nil clock
// means time.Now in UTC.
func NewWorkoutService(store repository.Store, now Clock) WorkoutService {
	if now == nil {
		now = utcNow
	}
	return &workoutService{store: store, now: now}
}

// ensureNoOpenWorkout enforces the one-open-workout rule.
func ensureNoOpenWorkout(ctx context.Context, workouts repository.WorkoutRepository, userID uint) error {
	_, err := workouts.GetOpenByUser(ctx, userID)
	if err == nil {
		return ErrActiveWorkoutExists
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("check active workout: %w", err)
}

// loadOwnedWorkout returns the workout when it exists and belongs to userID.
func loadOwnedWorkout(ctx context.Context, workouts repository.WorkoutRepository, userID, workoutID uint) (*domain.Workout, error) {
	workout, err := workouts.GetByID(ctx, workoutID)
	if err != nil {
		return nil, notFoundAs(err, ErrWorkoutNotFound)
	}
	if workout.UserID != userID {
		return nil, ErrWorkoutForbidden
	}
	return workout, nil
}

// loadOpenWorkout is loadOwnedWorkout plus the frozen-after-completion rule.
func loadOpenWorkout(ctx context.Context, workouts repository.WorkoutRepository, userID, workoutID uint) (*domain.Workout, error) {
	workout, err := loadOwnedWorkout(ctx, workouts, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout.IsCompleted() {
		return nil, ErrWorkoutCompleted
	}
	return workout, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *workoutService) CreateBlank(ctx context.Context, userID uint, in CreateWorkoutInput) (*domain.Workout, error) {
	workout := &domain.Workout{
		UserID:    userID,
		Name:      trimmedOrNil(in.Name),
		StartedAt: s.now(),
	}
	if in.Notes != nil {
		workout.Notes = *in.Notes
	}

	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if errCheck := ensureNoOpenWorkout(ctx, tx.Workouts(), userID); errCheck != nil {
			return errCheck
		}
		return tx.Workouts().Create(ctx, workout)
	})
	if errTx != nil {
		return nil, errTx
	}
	workout.Exercises = []domain.WorkoutExercise{}
	log.WithFields(log.Fields{"workout_id": workout.ID, "user_id": userID}).Debug("workout started")
	return workout, nil
}

// snapshotTemplate deep-copies template rows into workout exercises, one set
// per suggested set, numbered from 1.
func snapshotTemplate(template *domain.WorkoutTemplate) []domain.WorkoutExercise {
	exercises := make([]domain.WorkoutExercise, 0, len(template.Exercises))
	for _, te := range template.Exercises {
		count := te.SetCount()
		sets := make([]domain.ExerciseSet, 0, count)
		for n := 1; n <= count; n++ {
			sets = append(sets, domain.ExerciseSet{
				SetNumber: n,
				Reps:      copyPtr(te.SuggestedReps),
				Weight:    copyPtr(te.SuggestedWeight),
				Duration:  copyPtr(te.SuggestedDuration),
			})
		}
		exercises = append(exercises, domain.WorkoutExercise{
			ExerciseID: te.ExerciseID,
			OrderIndex: te.OrderIndex,
			Sets:       sets,
		})
	}
	return exercises
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s *workoutService) CreateFromTemplate(ctx context.Context, caller Caller, templateID uint, overrideName, overrideNotes *string) (*domain.Workout, error) {
	var created *domain.Workout
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		template, errLoad := loadVisibleTemplate(ctx, tx.Templates(), caller, templateID)
		if errLoad != nil {
			return errLoad
		}
		if errCheck := ensureNoOpenWorkout(ctx, tx.Workouts(), caller.UserID); errCheck != nil {
			return errCheck
		}

		name := trimmedOrNil(overrideName)
		if name == nil {
			name = &template.Name
		}
		workout := &domain.Workout{
			UserID:     caller.UserID,
			TemplateID: &template.ID,
			Name:       name,
			StartedAt:  s.now(),
			Exercises:  snapshotTemplate(template),
		}
		if overrideNotes != nil {
			workout.Notes = *overrideNotes
		}
		if errCreate := tx.Workouts().Create(ctx, workout); errCreate != nil {
			return fmt.Errorf("instantiate template: %w", errCreate)
		}
		reloaded, errGet := tx.Workouts().GetByID(ctx, workout.ID)
		if errGet != nil {
			return errGet
		}
		created = reloaded
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{
		"workout_id":  created.ID,
		"template_id": templateID,
		"user_id":     caller.UserID,
	}).Debug("workout started from template")
	return created, nil
}

func (s *workoutService) Get(ctx context.Context, userID, workoutID uint) (*domain.Workout, error) {
	return loadOwnedWorkout(ctx, s.store.Workouts(), userID, workoutID)
}

func (s *workoutService) List(ctx context.Context, userID uint, skip, limit int) ([]domain.Workout, error) {
	return s.store.Workouts().ListByUser(ctx, userID, normalizePage(skip, limit))
}

// Update changes name and notes. It is allowed after completion because it
// does not touch exercises or sets.
func (s *workoutService) Update(ctx context.Context, userID, workoutID uint, update domain.WorkoutUpdate) (*domain.Workout, error) {
	var updated *domain.Workout
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		workout, errLoad := loadOwnedWorkout(ctx, tx.Workouts(), userID, workoutID)
		if errLoad != nil {
			return errLoad
		}
		if update.Name != nil {
			update.Name = trimmedOrNil(update.Name)
			if update.Name == nil {
				workout.Name = nil
			}
		}
		update.Apply(workout)
		if errUpdate := tx.Workouts().UpdateHeader(ctx, workout); errUpdate != nil {
			return notFoundAs(errUpdate, ErrWorkoutNotFound)
		}
		updated = workout
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return updated, nil
}

func (s *workoutService) AddExercise(ctx context.Context, userID, workoutID uint, in AddExerciseInput) (*domain.WorkoutExercise, error) {
	var added *domain.WorkoutExercise
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID); errLoad != nil {
			return errLoad
		}
		if _, errFind := tx.Exercises().GetByID(ctx, in.ExerciseID); errFind != nil {
			return notFoundAs(errFind, ErrExerciseNotFound)
		}
		exercise := &domain.WorkoutExercise{
			WorkoutID:  workoutID,
			ExerciseID: in.ExerciseID,
			OrderIndex: in.OrderIndex,
			Notes:      in.Notes,
		}
		for _, set := range in.Sets {
			exercise.Sets = append(exercise.Sets, set.toDomain())
		}
		if errAdd := tx.Workouts().AddExercise(ctx, exercise); errAdd != nil {
			return fmt.Errorf("add workout exercise: %w", errAdd)
		}
		reloaded, errGet := tx.Workouts().GetExercise(ctx, workoutID, exercise.ID)
		if errGet != nil {
			return errGet
		}
		added = reloaded
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return added, nil
}

func (s *workoutService) UpdateExerciseNotes(ctx context.Context, userID, workoutID, workoutExerciseID uint, notes string) (*domain.WorkoutExercise, error) {
	var updated *domain.WorkoutExercise
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID); errLoad != nil {
			return errLoad
		}
		exercise, errFind := tx.Workouts().GetExercise(ctx, workoutID, workoutExerciseID)
		if errFind != nil {
			return notFoundAs(errFind, ErrWorkoutExerciseNotFound)
		}
		if errUpdate := tx.Workouts().UpdateExerciseNotes(ctx, exercise.ID, notes); errUpdate != nil {
			return notFoundAs(errUpdate, ErrWorkoutExerciseNotFound)
		}
		exercise.Notes = notes
		updated = exercise
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return updated, nil
}

func (s *workoutService) RemoveExercise(ctx context.Context, userID, workoutID, workoutExerciseID uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID); errLoad != nil {
			return errLoad
		}
		return notFoundAs(tx.Workouts().DeleteExercise(ctx, workoutID, workoutExerciseID), ErrWorkoutExerciseNotFound)
	})
}

func (s *workoutService) AddSet(ctx context.Context, userID, workoutID, workoutExerciseID uint, in SetInput) (*domain.ExerciseSet, error) {
	set := in.toDomain()
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID); errLoad != nil {
			return errLoad
		}
		if _, errFind := tx.Workouts().GetExercise(ctx, workoutID, workoutExerciseID); errFind != nil {
			return notFoundAs(errFind, ErrWorkoutExerciseNotFound)
		}
		set.WorkoutExerciseID = workoutExerciseID
		return tx.Workouts().AddSet(ctx, &set)
	})
	if errTx != nil {
		return nil, errTx
	}
	return &set, nil
}

// UpdateSet applies only the fields present in update. Completed workouts are
// frozen for set updates as well as for additions and deletions.
func (s *workoutService) UpdateSet(ctx context.Context, userID, workoutID, workoutExerciseID, setID uint, update domain.SetUpdate) (*domain.ExerciseSet, error) {
	var updated *domain.ExerciseSet
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID); errLoad != nil {
			return errLoad
		}
		if _, errFind := tx.Workouts().GetExercise(ctx, workoutID, workoutExerciseID); errFind != nil {
			return notFoundAs(errFind, ErrWorkoutExerciseNotFound)
		}
		set, errFind := tx.Workouts().GetSet(ctx, workoutExerciseID, setID)
		if errFind != nil {
			return notFoundAs(errFind, ErrSetNotFound)
		}
		if update.IsEmpty() {
			updated = set
			return nil
		}
		update.Apply(set)
		if errUpdate := tx.Workouts().UpdateSet(ctx, set); errUpdate != nil {
			return notFoundAs(errUpdate, ErrSetNotFound)
		}
		updated = set
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return updated, nil
}

func (s *workoutService) DeleteSet(ctx context.Context, userID, workoutID, workoutExerciseID, setID uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID); errLoad != nil {
			return errLoad
		}
		if _, errFind := tx.Workouts().GetExercise(ctx, workoutID, workoutExerciseID); errFind != nil {
			return notFoundAs(errFind, ErrWorkoutExerciseNotFound)
		}
		return notFoundAs(tx.Workouts().DeleteSet(ctx, workoutExerciseID, setID), ErrSetNotFound)
	})
}

func (s *workoutService) Complete(ctx context.Context, userID, workoutID uint) (*domain.Workout, error) {
	var completed *domain.Workout
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		workout, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID)
		if errLoad != nil {
			return errLoad
		}
		at := s.now()
		if errMark := tx.Workouts().MarkCompleted(ctx, workoutID, at); errMark != nil {
			if errors.Is(errMark, repository.ErrUpdateFailed) {
				return ErrWorkoutCompleted
			}
			return errMark
		}
		workout.CompletedAt = &at
		completed = workout
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{"workout_id": workoutID, "user_id": userID}).Debug("workout completed")
	return completed, nil
}

// Cancel hard-deletes an open workout with its exercises and sets.
func (s *workoutService) Cancel(ctx context.Context, userID, workoutID uint) error {
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOpenWorkout(ctx, tx.Workouts(), userID, workoutID); errLoad != nil {
			return errLoad
		}
		return notFoundAs(tx.Workouts().DeleteCascade(ctx, workoutID), ErrWorkoutNotFound)
	})
	if errTx != nil {
		return errTx
	}
	log.WithFields(log.Fields{"workout_id": workoutID, "user_id": userID}).Debug("workout cancelled")
	return nil
}

func (s *workoutService) GetActive(ctx context.Context, userID uint) (*domain.Workout, error) {
	workout, err := s.store.Workouts().GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrNoActiveWorkout)
	}
	return workout, nil
}

func (s *workoutService) GetHistory(ctx context.Context, userID uint, skip, limit int) ([]domain.Workout, error) {
	return s.store.Workouts().ListCompletedByUser(ctx, userID, normalizePage(skip, limit))
}

func (s *workoutService) GetProgression(ctx context.Context, userID, exerciseID uint, limit int) ([]domain.ProgressionEntry, error) {
	if limit <= 0 {
		limit = defaultProgressionLimit
	}
	if limit > maxProgressionLimit {
		limit = maxProgressionLimit
	}
	return s.store.Workouts().Progression(ctx, userID, exerciseID, limit)
}
