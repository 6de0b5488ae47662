package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeServerConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestRunRejectsMissingSecret(t *testing.T) {
	dir := writeServerConfig(t, "log:\n  level: error\n")
	err := run(dir)
	if err == nil || !strings.Contains(err.Error(), "jwt.secret") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	dir := writeServerConfig(t, "jwt:\n  secret: s\ndatabase:\n  driver: oracle\n  dsn: x\nlog:\n  level: error\n")
	err := run(dir)
	if err == nil || !strings.Contains(err.Error(), "could not open database") {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestRunReturnsListenErrorAfterCleanup(t *testing.T) {
	base := t.TempDir()
	dbPath := filepath.Join(base, "server.db")
	body := "server:\n  address: \"127.0.0.1:-1\"\n  mode: test\njwt:\n  secret: s\ndatabase:\n  driver: sqlite\n  dsn: \"" + dbPath + "\"\nlog:\n  level: error\n"
	dir := writeServerConfig(t, body)

	err := run(dir)
	if err == nil || !strings.Contains(err.Error(), "listen") {
		t.Fatalf("expected listen error, got %v", err)
	}
	// The schema was migrated before the failure and the file is released.
	if _, statErr := os.Stat(dbPath); statErr != nil {
		t.Fatalf("expected database file to exist: %v", statErr)
	}
	if err := os.Remove(dbPath); err != nil {
		t.Fatalf("database file should be removable after run returns: %v", err)
	}
}
