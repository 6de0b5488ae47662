package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address, got %q", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if cfg.JWT.Expiration != time.Hour {
		t.Fatalf("expected 1h expiration, got %s", cfg.JWT.Expiration)
	}
	if cfg.RateLimit.LoginWindow != time.Minute || cfg.RateLimit.LoginAttempts != 10 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.S3.Enabled() {
		t.Fatalf("expected media storage to be disabled by default")
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  address: \":9090\"\njwt:\n  secret: from-file\n  expiration: 30m\ns3:\n  bucket_name: media\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected file address, got %q", cfg.Server.Address)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Fatalf("expected env to override file, got %q", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiration != 30*time.Minute {
		t.Fatalf("expected 30m expiration, got %s", cfg.JWT.Expiration)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.Database.Driver)
	}
	if !cfg.S3.Enabled() {
		t.Fatalf("expected media storage to be enabled")
	}
}
