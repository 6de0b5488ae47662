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

// templateRepository implements repository.TemplateRepository.
type templateRepository struct {
	db *gorm.DB
}

func withTemplateExercises(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC").Order("id ASC")
		}).
		Preload("Exercises.Exercise")
}

// Create inserts the header and its exercise rows in one transaction.
func (r *templateRepository) Create(ctx context.Context, template *domain.WorkoutTemplate) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if errCreate := tx.Omit(clause.Associations).Create(template).Error; errCreate != nil {
			return translate(errCreate)
		}
		return insertTemplateExercises(tx, template.ID, template.Exercises)
	})
}

func insertTemplateExercises(tx *gorm.DB, templateID uint, exercises []domain.TemplateExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	for i := range exercises {
		exercises[i].ID = 0
		exercises[i].TemplateID = templateID
	}
	if errCreate := tx.Omit(clause.Associations).Create(&exercises).Error; errCreate != nil {
		return fmt.Errorf("insert template exercises: %w", translate(errCreate))
	}
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (*domain.WorkoutTemplate, error) {
	var template domain.WorkoutTemplate
	if err := withTemplateExercises(r.db.WithContext(ctx)).First(&template, id).Error; err != nil {
		return nil, translate(err)
	}
	return &template, nil
}

func (r *templateRepository) ListVisible(ctx context.Context, userID uint, page repository.Page) ([]domain.WorkoutTemplate, error) {
	var templates []domain.WorkoutTemplate
	q := r.db.WithContext(ctx).
		Where("is_public = ? OR created_by = ?", true, userID).
		Order("id ASC")
	if err := withTemplateExercises(pageOf(q, page)).Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) ListAll(ctx context.Context, page repository.Page) ([]domain.WorkoutTemplate, error) {
	var templates []domain.WorkoutTemplate
	q := pageOf(r.db.WithContext(ctx).Order("id ASC"), page)
	if err := withTemplateExercises(q).Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) UpdateHeader(ctx context.Context, template *domain.WorkoutTemplate) error {
	template.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.WorkoutTemplate{ID: template.ID}).
		Select("name", "description", "is_public", "updated_at").
		Updates(template)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceExercises drops every existing row for the template and inserts the
// given ones.
func (r *templateRepository) ReplaceExercises(ctx context.Context, templateID uint, exercises []domain.TemplateExercise) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if errDelete := tx.Where("template_id = ?", templateID).
			Delete(&domain.TemplateExercise{}).Error; errDelete != nil {
			return fmt.Errorf("delete template exercises: %w", errDelete)
		}
		if errInsert := insertTemplateExercises(tx, templateID, exercises); errInsert != nil {
			return errInsert
		}
		return tx.Model(&domain.WorkoutTemplate{ID: templateID}).
			Update("updated_at", time.Now().UTC()).Error
	})
}

func (r *templateRepository) AddExercise(ctx context.Context, exercise *domain.TemplateExercise) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(exercise).Error)
}

func (r *templateRepository) RemoveExercise(ctx context.Context, templateID, templateExerciseID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND template_id = ?", templateExerciseID, templateID).
		Delete(&domain.TemplateExercise{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var template domain.WorkoutTemplate
		if errFind := tx.Select("id").First(&template, id).Error; errFind != nil {
			return translate(errFind)
		}
		return purgeTemplates(tx, []uint{id})
	})
}
