package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configDir string
	baseDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	dbPath := filepath.Join(base, "workouts.db")
	content := fmt.Sprintf("database:\n  driver: sqlite\n  dsn: %q\njwt:\n  secret: cli-secret\nlog:\n  level: error\n", dbPath)
	if err := os.WriteFile(filepath.Join(base, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{configDir: base, baseDir: base}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configDir}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (env *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := env.run(t, args...)
	if err != nil {
		t.Fatalf("workoutctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestMigrateCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "migrate")
	if !strings.Contains(out, "Schema up to date (sqlite)") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestCreateAdminAndListUsers(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.mustRun(t, "create-admin", "--email", "root@example.com", "--username", "root", "--password", "s3cret-pass")
	if !strings.Contains(out, "Created admin root (id 1)") {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := env.run(t, "create-admin", "--email", "root@example.com", "--username", "root2", "--password", "s3cret-pass"); err == nil {
		t.Fatalf("expected duplicate email to fail")
	}
	if _, err := env.run(t, "create-admin", "--email", "short@example.com", "--username", "short", "--password", "abc"); err == nil {
		t.Fatalf("expected short password to fail")
	}

	list := env.mustRun(t, "users", "list")
	for _, want := range []string{"USERNAME", "root@example.com", "yes"} {
		if !strings.Contains(list, want) {
			t.Fatalf("users list missing %q:\n%s", want, list)
		}
	}
	if strings.Contains(list, "short@example.com") {
		t.Fatalf("rejected account should not be listed:\n%s", list)
	}
}

func TestCreateAdminRequiresFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := env.run(t, "create-admin", "--email", "a@example.com"); err == nil {
		t.Fatalf("expected missing flags to fail")
	}
}

func TestUsersListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "users", "list")
	if strings.TrimSpace(out) != "No users." {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestImportExercisesCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	catalog := filepath.Join(env.baseDir, "catalog.yaml")
	content := `exercises:
  - name: Bench Press
    type: weight_based
    muscleGroup: chest
    equipment: barbell
  - name: Plank
    type: TIME_BASED
    muscleGroup: core
    active: false
`
	if err := os.WriteFile(catalog, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	out := env.mustRun(t, "import-exercises", "--file", catalog)
	if !strings.Contains(out, "2 created, 0 updated") {
		t.Fatalf("unexpected first import output: %q", out)
	}
	out = env.mustRun(t, "import-exercises", "--file", catalog)
	if !strings.Contains(out, "0 created, 2 updated") {
		t.Fatalf("unexpected second import output: %q", out)
	}
}

func TestImportExercisesRejectsInvalidCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	catalog := filepath.Join(env.baseDir, "catalog.yaml")
	content := "exercises:\n  - name: Bench Press\n  - name: Mystery\n    type: CARDIO\n"
	if err := os.WriteFile(catalog, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	_, err := env.run(t, "import-exercises", "--file", catalog)
	if err == nil || !strings.Contains(err.Error(), "Mystery") {
		t.Fatalf("expected validation error naming the entry, got %v", err)
	}

	_, err = env.run(t, "import-exercises", "--file", filepath.Join(env.baseDir, "missing.yaml"))
	if err == nil {
		t.Fatalf("expected missing file to fail")
	}
}
