package gormstore

import (
	"fmt"

	"gorm.io/gorm"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// The purge helpers delete child rows before their parents. They never open a
// transaction themselves and must be called with one.

// purgeWorkouts deletes the given workouts with their exercises and sets.
func purgeWorkouts(tx *gorm.DB, workoutIDs []uint) error {
	if len(workoutIDs) == 0 {
		return nil
	}
	var workoutExerciseIDs []uint
	if errFind := tx.Model(&domain.WorkoutExercise{}).
		Where("workout_id IN ?", workoutIDs).
		Pluck("id", &workoutExerciseIDs).Error; errFind != nil {
		return fmt.Errorf("resolve workout exercises: %w", errFind)
	}
	if errSets := purgeSets(tx, workoutExerciseIDs); errSets != nil {
		return errSets
	}
	if len(workoutExerciseIDs) > 0 {
		if errDelete := tx.Where("id IN ?", workoutExerciseIDs).
			Delete(&domain.WorkoutExercise{}).Error; errDelete != nil {
			return fmt.Errorf("delete workout exercises: %w", errDelete)
		}
	}
	if errDelete := tx.Where("id IN ?", workoutIDs).Delete(&domain.Workout{}).Error; errDelete != nil {
		return fmt.Errorf("delete workouts: %w", errDelete)
	}
	return nil
}

// purgeSets deletes every set under the given workout exercises.
func purgeSets(tx *gorm.DB, workoutExerciseIDs []uint) error {
	if len(workoutExerciseIDs) == 0 {
		return nil
	}
	if errDelete := tx.Where("workout_exercise_id IN ?", workoutExerciseIDs).
		Delete(&domain.ExerciseSet{}).Error; errDelete != nil {
		return fmt.Errorf("delete exercise sets: %w", errDelete)
	}
	return nil
}

// purgeTemplates deletes the given templates and their exercise rows. Workouts
// created from them are independent copies and only lose the back reference.
func purgeTemplates(tx *gorm.DB, templateIDs []uint) error {
	if len(templateIDs) == 0 {
		return nil
	}
	if errDetach := tx.Model(&domain.Workout{}).
		Where("template_id IN ?", templateIDs).
		Update("template_id", nil).Error; errDetach != nil {
		return fmt.Errorf("detach workouts from templates: %w", errDetach)
	}
	if errDelete := tx.Where("template_id IN ?", templateIDs).
		Delete(&domain.TemplateExercise{}).Error; errDelete != nil {
		return fmt.Errorf("delete template exercises: %w", errDelete)
	}
	if errDelete := tx.Where("id IN ?", templateIDs).Delete(&domain.WorkoutTemplate{}).Error; errDelete != nil {
		return fmt.Errorf("delete templates: %w", errDelete)
	}
	return nil
}

// purgeUser removes a user and everything the user owns.
func purgeUser(tx *gorm.DB, userID uint) error {
	var user domain.User
	if errFind := tx.Select("id").First(&user, userID).Error; errFind != nil {
		return translate(errFind)
	}

	var workoutIDs []uint
	if errFind := tx.Model(&domain.Workout{}).
		Where("user_id = ?", userID).
		Pluck("id", &workoutIDs).Error; errFind != nil {
		return fmt.Errorf("resolve workouts: %w", errFind)
	}
	if errPurge := purgeWorkouts(tx, workoutIDs); errPurge != nil {
		return errPurge
	}

	var templateIDs []uint
	if errFind := tx.Model(&domain.WorkoutTemplate{}).
		Where("created_by = ?", userID).
		Pluck("id", &templateIDs).Error; errFind != nil {
		return fmt.Errorf("resolve templates: %w", errFind)
	}
	if errPurge := purgeTemplates(tx, templateIDs); errPurge != nil {
		return errPurge
	}

	res := tx.Delete(&domain.User{}, userID)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrDeleteFailed
	}
	return nil
}
