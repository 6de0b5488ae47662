package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"alcyxob/workout-tracker/internal/auth"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository/gormstore"
	"alcyxob/workout-tracker/internal/testsupport"
)

// tickingClock advances by one minute on every reading so that workouts
// started in sequence have distinct timestamps.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestAuthenticator(t *testing.T) *auth.JWTAuthenticator {
	t.Helper()
	a, err := auth.NewJWTAuthenticator("test-secret", time.Hour, "workout-tracker-test", auth.WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewJWTAuthenticator: %v", err)
	}
	return a
}

type workoutFixture struct {
	store     *gormstore.Store
	workouts  WorkoutService
	templates TemplateService
	user      *domain.User
	other     *domain.User
	bench     *domain.Exercise
	squat     *domain.Exercise
}

func newWorkoutFixture(t *testing.T) *workoutFixture {
	t.Helper()
	store := testsupport.NewStore(t)
	clock := newTickingClock()
	return &workoutFixture{
		store:     store,
		workouts:  NewWorkoutService(store, clock.Now),
		templates: NewTemplateService(store),
		user:      testsupport.CreateUser(t, store, "lifter"),
		other:     testsupport.CreateUser(t, store, "other"),
		bench:     testsupport.CreateExercise(t, store, "Bench Press"),
		squat:     testsupport.CreateExercise(t, store, "Back Squat"),
	}
}

func (f *workoutFixture) caller() Caller {
	return CallerFor(f.user)
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

// fakeStorage records calls instead of talking to S3.
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	missing map[string]bool
	failDel bool
}

func (f *fakeStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.missing[key], nil
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	return "https://media.test/upload/" + key + "?ct=" + contentType, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://media.test/download/" + key, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel {
		return errors.New("storage offline")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
