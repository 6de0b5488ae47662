package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"alcyxob/workout-tracker/internal/auth"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/ratelimit"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/testsupport"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	users  service.UserService
}

func newTestServer(t *testing.T, loginAttempts int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testsupport.NewStore(t)
	authenticator, err := auth.NewJWTAuthenticator("api-test-secret", time.Hour, "workout-tracker-test", auth.WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewJWTAuthenticator: %v", err)
	}
	services := Services{
		Auth:      service.NewAuthService(store.Users(), authenticator),
		Users:     service.NewUserService(store, authenticator),
		Exercises: service.NewExerciseService(store, nil),
		Templates: service.NewTemplateService(store),
		Workouts:  service.NewWorkoutService(store, nil),
	}
	router := gin.New()
	router.Use(RequestLogger())
	SetupRoutes(router, services, ratelimit.NewManager(config.RedisConfig{}, nil, nil),
		config.RateLimitConfig{LoginAttempts: loginAttempts, LoginWindow: time.Minute},
		func(context.Context) error { return nil })
	return &testServer{t: t, router: router, users: services.Users}
}

// createUser provisions an account and returns a bearer token for it.
func (s *testServer) createUser(username string, admin bool) (uint, string) {
	s.t.Helper()
	user, err := s.users.Create(context.Background(), service.CreateUserInput{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
		IsActive: true,
		IsAdmin:  admin,
	})
	if err != nil {
		s.t.Fatalf("create user: %v", err)
	}
	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": user.Email, "password": "password123"})
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	decode(s.t, rec, &resp)
	return user.ID, resp.Token
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}

func TestPingAndHealth(t *testing.T) {
	s := newTestServer(t, 10)
	expectStatus(t, s.do(http.MethodGet, "/ping", "", nil), http.StatusOK)
	rec := s.do(http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("responses should carry a request id")
	}
}

func TestHealthReportsStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", healthHandler(func(context.Context) error { return errors.New("db down") }))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, 10)
	_, token := s.createUser("jane", false)

	expectStatus(t, s.do(http.MethodGet, "/api/v1/users/me", "", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodGet, "/api/v1/users/me", "not-a-token", nil), http.StatusUnauthorized)

	rec := s.do(http.MethodGet, "/api/v1/users/me", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var me UserResponse
	decode(t, rec, &me)
	if me.Username != "jane" || me.IsAdmin {
		t.Fatalf("unexpected profile: %+v", me)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Fatal("profile must not expose the password hash")
	}

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "jane@example.com", "password": "wrong"})
	expectStatus(t, rec, http.StatusUnauthorized)
	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "not-an-email"})
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t, 2)
	creds := gin.H{"email": "ghost@example.com", "password": "whatever"}
	for i := 0; i < 2; i++ {
		expectStatus(t, s.do(http.MethodPost, "/api/v1/auth/login", "", creds), http.StatusUnauthorized)
	}
	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", creds)
	expectStatus(t, rec, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 should carry Retry-After")
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t, 10)
	_, userToken := s.createUser("jane", false)
	adminID, adminToken := s.createUser("root", true)

	expectStatus(t, s.do(http.MethodGet, "/api/v1/admin/users", userToken, nil), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodPost, "/api/v1/exercises", userToken, gin.H{"name": "Row", "exerciseType": "WEIGHT_BASED"}), http.StatusForbidden)

	rec := s.do(http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var users []UserResponse
	decode(t, rec, &users)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	rec = s.do(http.MethodPost, "/api/v1/admin/users", adminToken, gin.H{
		"email": "jane@example.com", "username": "jane2", "password": "password123",
	})
	expectStatus(t, rec, http.StatusConflict)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", adminID), adminToken, nil)
	expectStatus(t, rec, http.StatusConflict)
	expectStatus(t, s.do(http.MethodGet, "/api/v1/admin/users/abc", adminToken, nil), http.StatusBadRequest)
}

func TestWorkoutFlowOverHTTP(t *testing.T) {
	s := newTestServer(t, 10)
	_, adminToken := s.createUser("root", true)
	_, token := s.createUser("jane", false)
	_, otherToken := s.createUser("john", false)

	rec := s.do(http.MethodPost, "/api/v1/exercises", adminToken, gin.H{"name": "Bench Press", "exerciseType": "WEIGHT_BASED", "muscleGroup": "chest"})
	expectStatus(t, rec, http.StatusCreated)
	var bench ExerciseResponse
	decode(t, rec, &bench)
	if !bench.IsActive {
		t.Fatal("new exercises default to active")
	}

	rec = s.do(http.MethodPost, "/api/v1/templates", token, gin.H{
		"name": "Push Day",
		"exercises": []gin.H{{
			"exerciseId": bench.ID, "suggestedSets": 3, "suggestedReps": 8, "suggestedWeight": 40,
		}},
	})
	expectStatus(t, rec, http.StatusCreated)
	var template domain.WorkoutTemplate
	decode(t, rec, &template)

	expectStatus(t, s.do(http.MethodGet, fmt.Sprintf("/api/v1/templates/%d", template.ID), otherToken, nil), http.StatusForbidden)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/templates/%d/workouts", template.ID), token, nil)
	expectStatus(t, rec, http.StatusCreated)
	var workout domain.Workout
	decode(t, rec, &workout)
	if len(workout.Exercises) != 1 || len(workout.Exercises[0].Sets) != 3 {
		t.Fatalf("unexpected workout graph: %+v", workout)
	}

	expectStatus(t, s.do(http.MethodPost, "/api/v1/workouts", token, nil), http.StatusConflict)
	expectStatus(t, s.do(http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d", workout.ID), otherToken, nil), http.StatusForbidden)

	we := workout.Exercises[0]
	setPath := fmt.Sprintf("/api/v1/workouts/%d/exercises/%d/sets/%d", workout.ID, we.ID, we.Sets[0].ID)
	rec = s.do(http.MethodPut, setPath, token, gin.H{"completed": true, "reps": 10})
	expectStatus(t, rec, http.StatusOK)
	var set domain.ExerciseSet
	decode(t, rec, &set)
	if !set.Completed || *set.Reps != 10 || *set.Weight != 40 {
		t.Fatalf("unexpected set after update: %+v", set)
	}

	rec = s.do(http.MethodGet, "/api/v1/workouts/active", token, nil)
	expectStatus(t, rec, http.StatusOK)

	expectStatus(t, s.do(http.MethodPut, fmt.Sprintf("/api/v1/workouts/%d/complete", workout.ID), token, nil), http.StatusOK)
	expectStatus(t, s.do(http.MethodPut, fmt.Sprintf("/api/v1/workouts/%d/complete", workout.ID), token, nil), http.StatusConflict)
	expectStatus(t, s.do(http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/exercises/%d/sets", workout.ID, we.ID), token, gin.H{"setNumber": 4}), http.StatusConflict)
	expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/workouts/%d", workout.ID), token, nil), http.StatusConflict)
	expectStatus(t, s.do(http.MethodGet, "/api/v1/workouts/active", token, nil), http.StatusNotFound)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/v1/workouts/progression/%d?limit=5", bench.ID), token, nil)
	expectStatus(t, rec, http.StatusOK)
	var progression []domain.ProgressionEntry
	decode(t, rec, &progression)
	if len(progression) != 1 || progression[0].WorkoutID != workout.ID || len(progression[0].Sets) != 3 {
		t.Fatalf("unexpected progression: %+v", progression)
	}
	expectStatus(t, s.do(http.MethodGet, fmt.Sprintf("/api/v1/workouts/progression/%d?limit=500", bench.ID), token, nil), http.StatusBadRequest)

	rec = s.do(http.MethodGet, "/api/v1/workouts/history", token, nil)
	expectStatus(t, rec, http.StatusOK)
	var history []domain.Workout
	decode(t, rec, &history)
	if len(history) != 1 {
		t.Fatalf("history = %d workouts", len(history))
	}

	expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/exercises/%d", bench.ID), adminToken, nil), http.StatusConflict)
}

func TestCancelOverHTTP(t *testing.T) {
	s := newTestServer(t, 10)
	_, token := s.createUser("jane", false)

	rec := s.do(http.MethodPost, "/api/v1/workouts", token, gin.H{"name": "Evening"})
	expectStatus(t, rec, http.StatusCreated)
	var workout domain.Workout
	decode(t, rec, &workout)

	expectStatus(t, s.do(http.MethodDelete, fmt.Sprintf("/api/v1/workouts/%d", workout.ID), token, nil), http.StatusNoContent)
	expectStatus(t, s.do(http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d", workout.ID), token, nil), http.StatusNotFound)
}

func TestMediaUnavailableWithoutStorage(t *testing.T) {
	s := newTestServer(t, 10)
	_, adminToken := s.createUser("root", true)
	rec := s.do(http.MethodPost, "/api/v1/exercises", adminToken, gin.H{"name": "Plank", "exerciseType": "TIME_BASED"})
	expectStatus(t, rec, http.StatusCreated)
	var plank ExerciseResponse
	decode(t, rec, &plank)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/v1/exercises/%d/media/upload-url", plank.ID), adminToken, gin.H{"contentType": "video/mp4"})
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrWorkoutNotFound, http.StatusNotFound},
		{service.ErrTemplateForbidden, http.StatusForbidden},
		{service.ErrActiveWorkoutExists, http.StatusConflict},
		{service.ErrNameRequired, http.StatusBadRequest},
		{service.ErrAuthenticationFailed, http.StatusUnauthorized},
		{auth.ErrTokenExpired, http.StatusUnauthorized},
		{service.ErrMediaUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
