package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

// TemplateExerciseInput is one suggested exercise in a template.
type TemplateExerciseInput struct {
	ExerciseID        uint
	OrderIndex        int
	SuggestedSets     *int
	SuggestedReps     *int
	SuggestedWeight   *float64
	SuggestedDuration *int
}

// CreateTemplateInput describes a new template and its exercises.
type CreateTemplateInput struct {
	Name        string
	Description string
	IsPublic    bool
	Exercises   []TemplateExerciseInput
}

// TemplateService manages workout templates. Reads honour visibility: a
// template is readable when it is public, owned by the caller, or the caller
// is an admin. Writes require ownership or admin.
type TemplateService interface {
	Create(ctx context.Context, caller Caller, in CreateTemplateInput) (*domain.WorkoutTemplate, error)
	Get(ctx context.Context, caller Caller, id uint) (*domain.WorkoutTemplate, error)
	ListVisible(ctx context.Context, caller Caller, skip, limit int) ([]domain.WorkoutTemplate, error)
	ListAll(ctx context.Context, skip, limit int) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, caller Caller, id uint, update domain.TemplateUpdate) (*domain.WorkoutTemplate, error)
	// UpdateExercises replaces every exercise row of the template.
	UpdateExercises(ctx context.Context, caller Caller, id uint, exercises []TemplateExerciseInput) (*domain.WorkoutTemplate, error)
	AddExercise(ctx context.Context, caller Caller, id uint, exercise TemplateExerciseInput) (*domain.WorkoutTemplate, error)
	RemoveExercise(ctx context.Context, caller Caller, id, templateExerciseID uint) error
	Delete(ctx context.Context, caller Caller, id uint) error
}

type templateService struct {
	store repository.Store
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(store repository.Store) TemplateService {
	return &templateService{store: store}
}

// loadVisibleTemplate resolves a template the caller may read. Shared with
// the workout engine for instantiation.
func loadVisibleTemplate(ctx context.Context, templates repository.TemplateRepository, caller Caller, id uint) (*domain.WorkoutTemplate, error) {
	template, err := templates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTemplateNotFound)
	}
	if !caller.IsAdmin && !template.VisibleTo(caller.UserID) {
		return nil, ErrTemplateForbidden
	}
	return template, nil
}

func loadOwnedTemplate(ctx context.Context, templates repository.TemplateRepository, caller Caller, id uint) (*domain.WorkoutTemplate, error) {
	template, err := templates.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTemplateNotFound)
	}
	if !caller.IsAdmin && template.CreatedBy != caller.UserID {
		return nil, ErrTemplateForbidden
	}
	return template, nil
}

// checkExercisesExist fails with ErrExerciseNotFound for unknown catalog ids.
func checkExercisesExist(ctx context.Context, exercises repository.ExerciseRepository, ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := exercises.GetByID(ctx, id); err != nil {
			return notFoundAs(err, ErrExerciseNotFound)
		}
	}
	return nil
}

func toTemplateExercises(inputs []TemplateExerciseInput) ([]domain.TemplateExercise, []uint) {
	rows := make([]domain.TemplateExercise, 0, len(inputs))
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, domain.TemplateExercise{
			ExerciseID:        in.ExerciseID,
			OrderIndex:        in.OrderIndex,
			SuggestedSets:     in.SuggestedSets,
			SuggestedReps:     in.SuggestedReps,
			SuggestedWeight:   in.SuggestedWeight,
			SuggestedDuration: in.SuggestedDuration,
		})
		ids = append(ids, in.ExerciseID)
	}
	return rows, ids
}

func (s *templateService) Create(ctx context.Context, caller Caller, in CreateTemplateInput) (*domain.WorkoutTemplate, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	rows, exerciseIDs := toTemplateExercises(in.Exercises)
	template := &domain.WorkoutTemplate{
		Name:        name,
		Description: in.Description,
		CreatedBy:   caller.UserID,
		IsPublic:    in.IsPublic,
		Exercises:   rows,
	}

	var created *domain.WorkoutTemplate
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if errCheck := checkExercisesExist(ctx, tx.Exercises(), exerciseIDs); errCheck != nil {
			return errCheck
		}
		if errCreate := tx.Templates().Create(ctx, template); errCreate != nil {
			return fmt.Errorf("create template: %w", errCreate)
		}
		reloaded, errGet := tx.Templates().GetByID(ctx, template.ID)
		if errGet != nil {
			return errGet
		}
		created = reloaded
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	log.WithFields(log.Fields{"template_id": created.ID, "user_id": caller.UserID}).Debug("template created")
	return created, nil
}

func (s *templateService) Get(ctx context.Context, caller Caller, id uint) (*domain.WorkoutTemplate, error) {
	return loadVisibleTemplate(ctx, s.store.Templates(), caller, id)
}

func (s *templateService) ListVisible(ctx context.Context, caller Caller, skip, limit int) ([]domain.WorkoutTemplate, error) {
	return s.store.Templates().ListVisible(ctx, caller.UserID, normalizePage(skip, limit))
}

func (s *templateService) ListAll(ctx context.Context, skip, limit int) ([]domain.WorkoutTemplate, error) {
	return s.store.Templates().ListAll(ctx, normalizePage(skip, limit))
}

func (s *templateService) Update(ctx context.Context, caller Caller, id uint, update domain.TemplateUpdate) (*domain.WorkoutTemplate, error) {
	var updated *domain.WorkoutTemplate
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		template, errLoad := loadOwnedTemplate(ctx, tx.Templates(), caller, id)
		if errLoad != nil {
			return errLoad
		}
		update.Apply(template)
		template.Name = strings.TrimSpace(template.Name)
		if template.Name == "" {
			return ErrNameRequired
		}
		if errUpdate := tx.Templates().UpdateHeader(ctx, template); errUpdate != nil {
			return notFoundAs(errUpdate, ErrTemplateNotFound)
		}
		updated = template
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return updated, nil
}

func (s *templateService) UpdateExercises(ctx context.Context, caller Caller, id uint, exercises []TemplateExerciseInput) (*domain.WorkoutTemplate, error) {
	rows, exerciseIDs := toTemplateExercises(exercises)
	var updated *domain.WorkoutTemplate
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOwnedTemplate(ctx, tx.Templates(), caller, id); errLoad != nil {
			return errLoad
		}
		if errCheck := checkExercisesExist(ctx, tx.Exercises(), exerciseIDs); errCheck != nil {
			return errCheck
		}
		if errReplace := tx.Templates().ReplaceExercises(ctx, id, rows); errReplace != nil {
			return fmt.Errorf("replace template exercises: %w", errReplace)
		}
		reloaded, errGet := tx.Templates().GetByID(ctx, id)
		if errGet != nil {
			return errGet
		}
		updated = reloaded
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return updated, nil
}

func (s *templateService) AddExercise(ctx context.Context, caller Caller, id uint, exercise TemplateExerciseInput) (*domain.WorkoutTemplate, error) {
	rows, exerciseIDs := toTemplateExercises([]TemplateExerciseInput{exercise})
	var updated *domain.WorkoutTemplate
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOwnedTemplate(ctx, tx.Templates(), caller, id); errLoad != nil {
			return errLoad
		}
		if errCheck := checkExercisesExist(ctx, tx.Exercises(), exerciseIDs); errCheck != nil {
			return errCheck
		}
		row := rows[0]
		row.TemplateID = id
		if errAdd := tx.Templates().AddExercise(ctx, &row); errAdd != nil {
			return fmt.Errorf("add template exercise: %w", errAdd)
		}
		reloaded, errGet := tx.Templates().GetByID(ctx, id)
		if errGet != nil {
			return errGet
		}
		updated = reloaded
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return updated, nil
}

func (s *templateService) RemoveExercise(ctx context.Context, caller Caller, id, templateExerciseID uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOwnedTemplate(ctx, tx.Templates(), caller, id); errLoad != nil {
			return errLoad
		}
		return notFoundAs(tx.Templates().RemoveExercise(ctx, id, templateExerciseID), ErrTemplateExerciseNotFound)
	})
}

// Delete removes the template and its exercise rows. Workouts created from it
// keep their own copies.
func (s *templateService) Delete(ctx context.Context, caller Caller, id uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, errLoad := loadOwnedTemplate(ctx, tx.Templates(), caller, id); errLoad != nil {
			return errLoad
		}
		return notFoundAs(tx.Templates().Delete(ctx, id), ErrTemplateNotFound)
	})
}
