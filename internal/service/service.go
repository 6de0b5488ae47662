package service

import (
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
)

const (
	defaultPageLimit        = 100
	maxPageLimit            = 500
	defaultProgressionLimit = 10
	maxProgressionLimit     = 100
	minPasswordLength       = 8
)

// Caller identifies who is invoking an operation.
type Caller struct {
	UserID  uint
	IsAdmin bool
}

// CallerFor builds a Caller from an authenticated user.
func CallerFor(user *domain.User) Caller {
	return Caller{UserID: user.ID, IsAdmin: user.IsAdmin}
}

// Clock returns the current time. Services store UTC.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// normalizePage clamps offset/limit; a non-positive limit means the default.
func normalizePage(skip, limit int) repository.Page {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return repository.Page{Skip: skip, Limit: limit}
}
