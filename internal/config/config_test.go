package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// t.Setenv registers the restore; unset so the defaults apply.
	t.Setenv("TODO_API_URL", "x")
	t.Setenv("TODO_CONFIG_DIR", "x")
	os.Unsetenv("TODO_API_URL")
	os.Unsetenv("TODO_CONFIG_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	dir, err := cfg.Dir()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dir) != ".todo" {
		t.Fatalf("dir = %q, want ~/.todo", dir)
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	t.Setenv("TODO_API_URL", "https://todo.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIBaseURL != "https://todo.example.com" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
}

func TestConfigDirOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TODO_CONFIG_DIR", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	dir, err := cfg.Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != tmp {
		t.Fatalf("dir = %q, want %q", dir, tmp)
	}
}
