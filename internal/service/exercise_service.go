package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/storage"
)

// CreateExerciseInput describes a new catalog entry.
type CreateExerciseInput struct {
	Name         string
	Description  string
	Type         domain.ExerciseType
	MuscleGroup  string
	Equipment    string
	Instructions string
	IsActive     bool
}

// MediaUpload is a presigned slot for uploading exercise media directly to
// object storage.
type MediaUpload struct {
	ObjectKey string    `json:"objectKey"`
	UploadURL string    `json:"uploadUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ImportResult counts what ImportCatalog changed.
type ImportResult struct {
	Created int
	Updated int
}

// ExerciseService manages the exercise catalog.
type ExerciseService interface {
	List(ctx context.Context, muscleGroup string, includeInactive bool, skip, limit int) ([]domain.Exercise, error)
	Get(ctx context.Context, id uint) (*domain.Exercise, error)
	Create(ctx context.Context, in CreateExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, id uint, update domain.ExerciseUpdate) (*domain.Exercise, error)
	// Delete fails with ErrExerciseInUse while any template or workout
	// references the exercise.
	Delete(ctx context.Context, id uint) error
	// ImportCatalog creates entries by name or updates the existing ones.
	ImportCatalog(ctx context.Context, entries []CreateExerciseInput) (ImportResult, error)

	RequestMediaUpload(ctx context.Context, id uint, contentType string) (*MediaUpload, error)
	AttachMedia(ctx context.Context, id uint, objectKey string) (*domain.Exercise, error)
	MediaURL(ctx context.Context, id uint) (string, time.Time, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	store repository.Store
	media storage.FileStorage // nil when object storage is not configured
}

// NewExerciseService creates a new instance of exerciseService. media may be
// nil.
func NewExerciseService(store repository.Store, media storage.FileStorage) ExerciseService {
	return &exerciseService{store: store, media: media}
}

func (s *exerciseService) List(ctx context.Context, muscleGroup string, includeInactive bool, skip, limit int) ([]domain.Exercise, error) {
	return s.store.Exercises().List(ctx, repository.ExerciseFilter{
		ActiveOnly:  !includeInactive,
		MuscleGroup: strings.TrimSpace(muscleGroup),
		Page:        normalizePage(skip, limit),
	})
}

func (s *exerciseService) Get(ctx context.Context, id uint) (*domain.Exercise, error) {
	exercise, err := s.store.Exercises().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func validateExercise(e *domain.Exercise) error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrNameRequired
	}
	if !e.Type.Valid() {
		return ErrInvalidExerciseType
	}
	return nil
}

func (in CreateExerciseInput) toDomain() *domain.Exercise {
	return &domain.Exercise{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Type:         in.Type,
		MuscleGroup:  strings.TrimSpace(in.MuscleGroup),
		Equipment:    strings.TrimSpace(in.Equipment),
		Instructions: in.Instructions,
		IsActive:     in.IsActive,
	}
}

func (s *exerciseService) Create(ctx context.Context, in CreateExerciseInput) (*domain.Exercise, error) {
	exercise := in.toDomain()
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}
	if err := s.store.Exercises().Create(ctx, exercise); err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, id uint, update domain.ExerciseUpdate) (*domain.Exercise, error) {
	exercise, err := s.store.Exercises().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	update.Apply(exercise)
	exercise.Name = strings.TrimSpace(exercise.Name)
	if err := validateExercise(exercise); err != nil {
		return nil, err
	}
	if err := s.store.Exercises().Update(ctx, exercise); err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	return exercise, nil
}

func (s *exerciseService) Delete(ctx context.Context, id uint) error {
	var mediaKey string
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		exercise, errFind := tx.Exercises().GetByID(ctx, id)
		if errFind != nil {
			return notFoundAs(errFind, ErrExerciseNotFound)
		}
		referenced, errRef := tx.Exercises().IsReferenced(ctx, id)
		if errRef != nil {
			return errRef
		}
		if referenced {
			return ErrExerciseInUse
		}
		mediaKey = exercise.MediaKey
		return notFoundAs(tx.Exercises().Delete(ctx, id), ErrExerciseNotFound)
	})
	if errTx != nil {
		return errTx
	}
	s.deleteMediaObject(ctx, mediaKey)
	return nil
}

func (s *exerciseService) ImportCatalog(ctx context.Context, entries []CreateExerciseInput) (ImportResult, error) {
	var result ImportResult
	for i, entry := range entries {
		if err := validateExercise(entry.toDomain()); err != nil {
			return ImportResult{}, fmt.Errorf("entry %d (%q): %w", i+1, entry.Name, err)
		}
	}
	errTx := s.store.WithinTx(ctx, func(tx repository.Store) error {
		for _, entry := range entries {
			incoming := entry.toDomain()
			existing, errFind := tx.Exercises().GetByName(ctx, incoming.Name)
			switch {
			case errors.Is(errFind, repository.ErrNotFound):
				if errCreate := tx.Exercises().Create(ctx, incoming); errCreate != nil {
					return fmt.Errorf("import %q: %w", incoming.Name, errCreate)
				}
				result.Created++
			case errFind != nil:
				return fmt.Errorf("import %q: %w", incoming.Name, errFind)
			default:
				incoming.ID = existing.ID
				incoming.MediaKey = existing.MediaKey
				if errUpdate := tx.Exercises().Update(ctx, incoming); errUpdate != nil {
					return fmt.Errorf("import %q: %w", incoming.Name, errUpdate)
				}
				result.Updated++
			}
		}
		return nil
	})
	if errTx != nil {
		return ImportResult{}, errTx
	}
	return result, nil
}

var mediaExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// ErrUnsupportedMediaType is returned for content types outside mediaExtensions.
var ErrUnsupportedMediaType = newError(ErrValidation, "unsupported media content type")

func mediaPrefix(exerciseID uint) string {
	return fmt.Sprintf("exercises/%d/", exerciseID)
}

func (s *exerciseService) RequestMediaUpload(ctx context.Context, id uint, contentType string) (*MediaUpload, error) {
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}
	ext, ok := mediaExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedMediaType
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	key := mediaPrefix(id) + uuid.NewString() + ext
	url, err := s.media.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &MediaUpload{
		ObjectKey: key,
		UploadURL: url,
		ExpiresAt: utcNow().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// AttachMedia records an uploaded object as the exercise's media and removes
// the previous object.
func (s *exerciseService) AttachMedia(ctx context.Context, id uint, objectKey string) (*domain.Exercise, error) {
	if s.media == nil {
		return nil, ErrMediaUnavailable
	}
	objectKey = strings.TrimSpace(objectKey)
	if !strings.HasPrefix(objectKey, mediaPrefix(id)) || strings.Contains(objectKey, "..") {
		return nil, ErrInvalidMediaKey
	}
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	exists, err := s.media.ObjectExists(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("check media object: %w", err)
	}
	if !exists {
		return nil, ErrMediaObjectMissing
	}
	previous := exercise.MediaKey
	exercise.MediaKey = objectKey
	if err := s.store.Exercises().Update(ctx, exercise); err != nil {
		return nil, notFoundAs(err, ErrExerciseNotFound)
	}
	if previous != objectKey {
		s.deleteMediaObject(ctx, previous)
	}
	return exercise, nil
}

func (s *exerciseService) MediaURL(ctx context.Context, id uint) (string, time.Time, error) {
	if s.media == nil {
		return "", time.Time{}, ErrMediaUnavailable
	}
	exercise, err := s.Get(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if !exercise.HasMedia() {
		return "", time.Time{}, ErrMediaNotUploaded
	}
	url, err := s.media.GeneratePresignedDownloadURL(ctx, exercise.MediaKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign download: %w", err)
	}
	return url, utcNow().Add(storage.DefaultPresignedURLExpiry), nil
}

// deleteMediaObject removes an orphaned object; failures are only logged.
func (s *exerciseService) deleteMediaObject(ctx context.Context, key string) {
	if s.media == nil || key == "" {
		return
	}
	if err := s.media.DeleteObject(ctx, key); err != nil {
		log.WithError(err).WithField("object_key", key).Warn("failed to delete exercise media")
	}
}
