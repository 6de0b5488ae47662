package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// exerciseRepository implements repository.ExerciseRepository.
type exerciseRepository struct {
	db *gorm.DB
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	return translate(r.db.WithContext(ctx).Create(exercise).Error)
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uint) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := r.db.WithContext(ctx).First(&exercise, id).Error; err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

func (r *exerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&exercise).Error; err != nil {
		return nil, translate(err)
	}
	return &exercise, nil
}

// List returns catalog entries ordered by name.
func (r *exerciseRepository) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	q := r.db.WithContext(ctx).Model(&domain.Exercise{})
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.MuscleGroup != "" {
		q = q.Where("muscle_group = ?", filter.MuscleGroup)
	}
	var exercises []domain.Exercise
	if err := pageOf(q.Order("name ASC").Order("id ASC"), filter.Page).Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.Exercise{ID: exercise.ID}).
		Select("name", "description", "exercise_type", "muscle_group", "equipment",
			"instructions", "media_key", "is_active", "updated_at").
		Updates(exercise)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *exerciseRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Exercise{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *exerciseRepository) IsReferenced(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.TemplateExercise{}).
		Where("exercise_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("exercise_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
