package service

import (
	"context"
	"strings"
	"testing"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/testsupport"
)

func TestExerciseCatalog(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore(t)
	exercises := NewExerciseService(store, nil)

	plank, err := exercises.Create(ctx, CreateExerciseInput{Name: "Plank", Type: domain.ExerciseTypeTimeBased, MuscleGroup: "core", IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := exercises.Create(ctx, CreateExerciseInput{Name: "Old Crunch", Type: domain.ExerciseTypeWeightBased, MuscleGroup: "core"}); err != nil {
		t.Fatalf("Create inactive: %v", err)
	}
	_, err = exercises.Create(ctx, CreateExerciseInput{Name: "Mystery", Type: "CARDIO"})
	expectErr(t, err, ErrInvalidExerciseType)
	_, err = exercises.Create(ctx, CreateExerciseInput{Type: domain.ExerciseTypeTimeBased})
	expectErr(t, err, ErrNameRequired)

	active, err := exercises.List(ctx, "core", false, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(active) != 1 || active[0].ID != plank.ID {
		t.Fatalf("active core exercises = %d", len(active))
	}
	all, err := exercises.List(ctx, "", true, 0, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all exercises = %d", len(all))
	}

	updated, err := exercises.Update(ctx, plank.ID, domain.ExerciseUpdate{Equipment: testsupport.Ptr("mat")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Equipment != "mat" || updated.Type != domain.ExerciseTypeTimeBased {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestExerciseDeleteRefusesReferenced(t *testing.T) {
	ctx := context.Background()
	f := newWorkoutFixture(t)
	media := &fakeStorage{}
	exercises := NewExerciseService(f.store, media)

	if _, err := f.workouts.CreateBlank(ctx, f.user.ID, CreateWorkoutInput{}); err != nil {
		t.Fatalf("CreateBlank: %v", err)
	}
	active, err := f.workouts.GetActive(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if _, err := f.workouts.AddExercise(ctx, f.user.ID, active.ID, AddExerciseInput{ExerciseID: f.bench.ID}); err != nil {
		t.Fatalf("AddExercise: %v", err)
	}

	err = exercises.Delete(ctx, f.bench.ID)
	expectErr(t, err, ErrExerciseInUse)

	if _, err := exercises.AttachMedia(ctx, f.squat.ID, "exercises/"+itoa(f.squat.ID)+"/demo.mp4"); err != nil {
		t.Fatalf("AttachMedia: %v", err)
	}
	if err := exercises.Delete(ctx, f.squat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(media.deleted) != 1 || !strings.HasSuffix(media.deleted[0], "demo.mp4") {
		t.Fatalf("media object should be removed with the exercise: %v", media.deleted)
	}
	err = exercises.Delete(ctx, f.squat.ID)
	expectErr(t, err, ErrExerciseNotFound)
}

func TestExerciseMedia(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore(t)
	bench := testsupport.CreateExercise(t, store, "Bench Press")

	_, err := NewExerciseService(store, nil).RequestMediaUpload(ctx, bench.ID, "image/png")
	expectErr(t, err, ErrMediaUnavailable)

	media := &fakeStorage{}
	exercises := NewExerciseService(store, media)

	_, err = exercises.RequestMediaUpload(ctx, bench.ID, "application/zip")
	expectErr(t, err, ErrUnsupportedMediaType)
	_, err = exercises.RequestMediaUpload(ctx, 999, "image/png")
	expectErr(t, err, ErrExerciseNotFound)

	upload, err := exercises.RequestMediaUpload(ctx, bench.ID, "image/png")
	if err != nil {
		t.Fatalf("RequestMediaUpload: %v", err)
	}
	prefix := "exercises/" + itoa(bench.ID) + "/"
	if !strings.HasPrefix(upload.ObjectKey, prefix) || !strings.HasSuffix(upload.ObjectKey, ".png") {
		t.Fatalf("object key = %s", upload.ObjectKey)
	}
	if !strings.Contains(upload.UploadURL, upload.ObjectKey) {
		t.Fatalf("upload url = %s", upload.UploadURL)
	}

	_, _, err = exercises.MediaURL(ctx, bench.ID)
	expectErr(t, err, ErrMediaNotUploaded)

	_, err = exercises.AttachMedia(ctx, bench.ID, "exercises/999/other.png")
	expectErr(t, err, ErrInvalidMediaKey)

	media.missing = map[string]bool{upload.ObjectKey: true}
	_, err = exercises.AttachMedia(ctx, bench.ID, upload.ObjectKey)
	expectErr(t, err, ErrMediaObjectMissing)
	media.missing = nil

	if _, err := exercises.AttachMedia(ctx, bench.ID, upload.ObjectKey); err != nil {
		t.Fatalf("AttachMedia: %v", err)
	}
	url, expiresAt, err := exercises.MediaURL(ctx, bench.ID)
	if err != nil {
		t.Fatalf("MediaURL: %v", err)
	}
	if url != "https://media.test/download/"+upload.ObjectKey || expiresAt.IsZero() {
		t.Fatalf("media url = %s", url)
	}

	// Replacing media removes the previous object.
	if _, err := exercises.AttachMedia(ctx, bench.ID, prefix+"second.png"); err != nil {
		t.Fatalf("AttachMedia replace: %v", err)
	}
	if len(media.deleted) != 1 || media.deleted[0] != upload.ObjectKey {
		t.Fatalf("previous object should be deleted: %v", media.deleted)
	}
	media.failDel = true
	if _, err := exercises.AttachMedia(ctx, bench.ID, prefix+"third.png"); err != nil {
		t.Fatalf("storage failures on cleanup must not fail the attach: %v", err)
	}
}

func TestImportCatalogUpserts(t *testing.T) {
	ctx := context.Background()
	store := testsupport.NewStore(t)
	testsupport.CreateExercise(t, store, "Bench Press")
	exercises := NewExerciseService(store, nil)

	result, err := exercises.ImportCatalog(ctx, []CreateExerciseInput{
		{Name: "Bench Press", Type: domain.ExerciseTypeWeightBased, MuscleGroup: "chest", Equipment: "barbell", IsActive: true},
		{Name: "Plank", Type: domain.ExerciseTypeTimeBased, MuscleGroup: "core", IsActive: true},
	})
	if err != nil {
		t.Fatalf("ImportCatalog: %v", err)
	}
	if result.Created != 1 || result.Updated != 1 {
		t.Fatalf("result = %+v", result)
	}
	if n := testsupport.CountRows(t, store.DB(), "exercises", ""); n != 2 {
		t.Fatalf("exercises = %d", n)
	}

	_, err = exercises.ImportCatalog(ctx, []CreateExerciseInput{
		{Name: "Row", Type: domain.ExerciseTypeWeightBased},
		{Name: "Bad", Type: "YOGA"},
	})
	expectErr(t, err, ErrInvalidExerciseType)
	if n := testsupport.CountRows(t, store.DB(), "exercises", ""); n != 2 {
		t.Fatalf("invalid import must not write, exercises = %d", n)
	}
}
