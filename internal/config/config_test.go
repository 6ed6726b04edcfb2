package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"phototask/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvTimeout, "")
	dir := t.TempDir()

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.APIURL != config.DefaultAPIURL {
		t.Errorf("expected API URL %q, got %q", config.DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.SessionPath() != filepath.Join(dir, "session.json") {
		t.Errorf("unexpected session path %q", cfg.SessionPath())
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "https://api.example.com/")
	t.Setenv(config.EnvTimeout, "5s")

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", cfg.Timeout)
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	t.Setenv(config.EnvTimeout, "soon")

	if _, err := config.New(t.TempDir()); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestNew_DotEnvInConfigDir(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	os.Unsetenv(config.EnvAPIURL)
	t.Setenv(config.EnvTimeout, "")

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PHOTOTASK_API_URL=http://books.local:9000\n"), 0600)
	if err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://books.local:9000" {
		t.Errorf("expected URL from .env, got %q", cfg.APIURL)
	}
}

func TestHasSession(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if cfg.HasSession() {
		t.Fatal("expected no session in empty dir")
	}
	if err := os.WriteFile(cfg.SessionPath(), []byte("{}"), 0600); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}
	if !cfg.HasSession() {
		t.Error("expected session to be detected")
	}
}
