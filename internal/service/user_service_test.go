package service

import (
	"context"
	"testing"

	"alcyxob/workout-tracker/internal/auth"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/testsupport"
)

func TestUserCreateValidatesAndChecksUniqueness(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore(t)
	users := NewUserService(store, newTestAuthenticator(t))

	created, err := users.Create(ctx, CreateUserInput{
		Email:    " jane@example.com ",
		Username: "jane",
		Password: "correct-horse",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "jane@example.com" || created.PasswordHash == "correct-horse" {
		t.Fatalf("unexpected user: %+v", created)
	}

	cases := []struct {
		name string
		in   CreateUserInput
		want error
	}{
		{"bad email", CreateUserInput{Email: "nope", Username: "x", Password: "longenough"}, ErrInvalidEmail},
		{"display name form", CreateUserInput{Email: "Jane Two <jane@example.com>", Username: "jane2", Password: "longenough"}, ErrInvalidEmail},
		{"angle brackets", CreateUserInput{Email: "<jane@example.com>", Username: "jane2", Password: "longenough"}, ErrInvalidEmail},
		{"email taken other case", CreateUserInput{Email: "JANE@Example.com", Username: "jane2", Password: "longenough"}, ErrEmailTaken},
		{"no username", CreateUserInput{Email: "x@example.com", Password: "longenough"}, ErrUsernameInvalid},
		{"short password", CreateUserInput{Email: "x@example.com", Username: "x", Password: "short"}, ErrPasswordTooWeak},
		{"email taken", CreateUserInput{Email: "jane@example.com", Username: "jane2", Password: "longenough"}, ErrEmailTaken},
		{"username taken", CreateUserInput{Email: "jane2@example.com", Username: "jane", Password: "longenough"}, ErrUsernameTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := users.Create(ctx, tc.in)
			expectErr(t, err, tc.want)
		})
	}
}

func TestUserUpdateAndUpdateMe(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore(t)
	authenticator := newTestAuthenticator(t)
	users := NewUserService(store, authenticator)
	jane := testsupport.CreateUser(t, store, "jane")
	testsupport.CreateUser(t, store, "john")

	updated, err := users.UpdateMe(ctx, jane.ID, domain.UserUpdate{
		FullName: testsupport.Ptr("Jane Doe"),
		Password: testsupport.Ptr("new-password"),
		IsAdmin:  testsupport.Ptr(true),
		IsActive: testsupport.Ptr(false),
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if updated.FullName != "Jane Doe" || updated.IsAdmin || !updated.IsActive {
		t.Fatalf("UpdateMe must not touch flags: %+v", updated)
	}
	if !authenticator.Verify("new-password", updated.PasswordHash) {
		t.Fatal("password should be re-hashed")
	}

	_, err = users.UpdateMe(ctx, jane.ID, domain.UserUpdate{Email: testsupport.Ptr("john@example.com")})
	expectErr(t, err, ErrEmailTaken)
	_, err = users.UpdateMe(ctx, jane.ID, domain.UserUpdate{Email: testsupport.Ptr("John <john@example.com>")})
	expectErr(t, err, ErrInvalidEmail)
	_, err = users.UpdateMe(ctx, jane.ID, domain.UserUpdate{Email: testsupport.Ptr(" John@Example.COM ")})
	expectErr(t, err, ErrEmailTaken)
	_, err = users.UpdateMe(ctx, jane.ID, domain.UserUpdate{Username: testsupport.Ptr("john")})
	expectErr(t, err, ErrUsernameTaken)
	// Keeping one's own email is not a conflict.
	if _, err := users.UpdateMe(ctx, jane.ID, domain.UserUpdate{Email: testsupport.Ptr("jane@example.com")}); err != nil {
		t.Fatalf("UpdateMe with own email: %v", err)
	}

	promoted, err := users.Update(ctx, jane.ID, domain.UserUpdate{IsAdmin: testsupport.Ptr(true)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !promoted.IsAdmin {
		t.Fatal("admin update should set the flag")
	}
	_, err = users.Update(ctx, 999, domain.UserUpdate{})
	expectErr(t, err, ErrUserNotFound)
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore(t)
	users := NewUserService(store, newTestAuthenticator(t))
	workouts := NewWorkoutService(store, newTickingClock().Now)
	templates := NewTemplateService(store)

	admin := testsupport.CreateUser(t, store, "admin")
	doomed := testsupport.CreateUser(t, store, "doomed")
	bench := testsupport.CreateExercise(t, store, "Bench Press")

	template, err := templates.Create(ctx, CallerFor(doomed), CreateTemplateInput{
		Name:      "Mine",
		IsPublic:  true,
		Exercises: []TemplateExerciseInput{{ExerciseID: bench.ID, SuggestedSets: testsupport.Ptr(2)}},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	for i := 0; i < 3; i++ {
		w, err := workouts.CreateFromTemplate(ctx, CallerFor(doomed), template.ID, nil, nil)
		if err != nil {
			t.Fatalf("CreateFromTemplate: %v", err)
		}
		if _, err := workouts.Complete(ctx, doomed.ID, w.ID); err != nil {
			t.Fatalf("Complete: %v", err)
		}
	}
	// The admin's own workout from the doomed user's public template survives.
	survivor, err := workouts.CreateFromTemplate(ctx, CallerFor(admin), template.ID, nil, nil)
	if err != nil {
		t.Fatalf("CreateFromTemplate admin: %v", err)
	}

	err = users.Delete(ctx, admin.ID, admin.ID)
	expectErr(t, err, ErrCannotDeleteSelf)

	if err := users.Delete(ctx, admin.ID, doomed.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = users.Get(ctx, doomed.ID)
	expectErr(t, err, ErrUserNotFound)

	db := store.DB()
	if n := testsupport.CountRows(t, db, "workouts", "user_id = ?", doomed.ID); n != 0 {
		t.Fatalf("residual workouts: %d", n)
	}
	if n := testsupport.CountRows(t, db, "workout_templates", "created_by = ?", doomed.ID); n != 0 {
		t.Fatalf("residual templates: %d", n)
	}
	if n := testsupport.CountRows(t, db, "workout_exercises", ""); n != 1 {
		t.Fatalf("only the survivor's exercise should remain, found %d", n)
	}
	if n := testsupport.CountRows(t, db, "exercise_sets", ""); n != 2 {
		t.Fatalf("only the survivor's sets should remain, found %d", n)
	}

	kept, err := workouts.Get(ctx, admin.ID, survivor.ID)
	if err != nil {
		t.Fatalf("survivor workout: %v", err)
	}
	if kept.TemplateID != nil {
		t.Fatalf("survivor should be detached from the deleted template")
	}

	err = users.Delete(ctx, admin.ID, doomed.ID)
	expectErr(t, err, ErrUserNotFound)
}

func TestAuthLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore(t)
	authenticator := newTestAuthenticator(t)
	users := NewUserService(store, authenticator)
	authSvc := NewAuthService(store.Users(), authenticator)

	jane, err := users.Create(ctx, CreateUserInput{Email: "jane@example.com", Username: "jane", Password: "correct-horse", IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	token, expiresAt, user, err := authSvc.Login(ctx, "jane@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || expiresAt.IsZero() || user.ID != jane.ID {
		t.Fatalf("unexpected login result: %q %v %+v", token, expiresAt, user)
	}

	resolved, err := authSvc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if resolved.ID != jane.ID {
		t.Fatalf("token resolved to user %d", resolved.ID)
	}

	if _, _, _, err := authSvc.Login(ctx, " Jane@Example.com", "correct-horse"); err != nil {
		t.Fatalf("Login should ignore email case: %v", err)
	}

	_, _, _, err = authSvc.Login(ctx, "jane@example.com", "wrong-password")
	expectErr(t, err, ErrAuthenticationFailed)
	_, _, _, err = authSvc.Login(ctx, "ghost@example.com", "correct-horse")
	expectErr(t, err, ErrAuthenticationFailed)
	_, err = authSvc.Authenticate(ctx, "garbage")
	expectErr(t, err, auth.ErrInvalidToken)

	if _, err := users.Update(ctx, jane.ID, domain.UserUpdate{IsActive: testsupport.Ptr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, _, _, err = authSvc.Login(ctx, "jane@example.com", "correct-horse")
	expectErr(t, err, ErrUserInactive)
	_, err = authSvc.Authenticate(ctx, token)
	expectErr(t, err, ErrUserInactive)
}
