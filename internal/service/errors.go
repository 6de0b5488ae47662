package service

import (
	"errors"

	"alcyxob/workout-tracker/internal/repository"
)

// Error categories. Every error returned by a service either wraps exactly one
// of these or is an unexpected store failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Error is a specific service failure belonging to one category.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap exposes the category so callers can use errors.Is(err, ErrConflict).
func (e *Error) Unwrap() error {
	return e.kind
}

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrUserInactive         = newError(ErrForbidden, "user account is inactive")
	ErrAdminRequired        = newError(ErrForbidden, "admin privileges required")
	ErrUserNotFound         = newError(ErrNotFound, "user not found")
	ErrEmailTaken           = newError(ErrConflict, "email already registered")
	ErrUsernameTaken        = newError(ErrConflict, "username already taken")
	ErrAccountExists        = newError(ErrConflict, "email or username already in use")
	ErrCannotDeleteSelf     = newError(ErrConflict, "admins cannot delete their own account")

	ErrExerciseNotFound     = newError(ErrNotFound, "exercise not found")
	ErrExerciseInUse        = newError(ErrConflict, "exercise is used by templates or workouts; deactivate it instead")
	ErrInvalidExerciseType  = newError(ErrValidation, "exercise type must be WEIGHT_BASED or TIME_BASED")
	ErrMediaNotUploaded     = newError(ErrNotFound, "exercise has no media")
	ErrMediaUnavailable     = errors.New("media storage is not configured")
	ErrInvalidMediaKey      = newError(ErrValidation, "media key does not belong to this exercise")
	ErrMediaObjectMissing   = newError(ErrValidation, "no object has been uploaded under this media key")

	ErrTemplateNotFound         = newError(ErrNotFound, "workout template not found")
	ErrTemplateForbidden        = newError(ErrForbidden, "not allowed to access this workout template")
	ErrTemplateExerciseNotFound = newError(ErrNotFound, "template exercise not found")

	ErrWorkoutNotFound         = newError(ErrNotFound, "workout not found")
	ErrWorkoutForbidden        = newError(ErrForbidden, "not allowed to access this workout")
	ErrActiveWorkoutExists     = newError(ErrConflict, "user already has an active workout")
	ErrNoActiveWorkout         = newError(ErrNotFound, "no active workout")
	ErrWorkoutCompleted        = newError(ErrConflict, "workout is already completed")
	ErrWorkoutExerciseNotFound = newError(ErrNotFound, "workout exercise not found")
	ErrSetNotFound             = newError(ErrNotFound, "exercise set not found")

	ErrNameRequired    = newError(ErrValidation, "name is required")
	ErrInvalidEmail    = newError(ErrValidation, "a valid email is required")
	ErrUsernameInvalid = newError(ErrValidation, "username is required")
	ErrPasswordTooWeak = newError(ErrValidation, "password must be at least 8 characters")
)

// notFoundAs maps repository.ErrNotFound onto a specific service error.
func notFoundAs(err error, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
