package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testPaths(t *testing.T) Paths {
	dir := t.TempDir()
	return Paths{ConfigDir: filepath.Join(dir, "config"), DataDir: filepath.Join(dir, "data")}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	paths := testPaths(t)
	cfg, err := LoadConfig("", paths)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatabasePath != paths.DatabaseFile() {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, paths.DatabaseFile())
	}
	if cfg.PreviewAddr != DefaultPreviewAddr {
		t.Errorf("PreviewAddr = %q", cfg.PreviewAddr)
	}
}

func TestLoadConfig_File(t *testing.T) {
	paths := testPaths(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `database_path: /tmp/custom.db
log_level: debug
endpoints:
  openai: http://localhost:9999/v1/chat/completions
aliases:
  openai-gpt-4.1: gpt-4.1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path, paths)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatabasePath != "/tmp/custom.db" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Endpoints["openai"] != "http://localhost:9999/v1/chat/completions" {
		t.Errorf("Endpoints = %v", cfg.Endpoints)
	}
	if cfg.Aliases["openai-gpt-4.1"] != "gpt-4.1" {
		t.Errorf("Aliases = %v", cfg.Aliases)
	}
	if cfg.PreviewAddr != DefaultPreviewAddr {
		t.Errorf("PreviewAddr should keep its default, got %q", cfg.PreviewAddr)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SITECHAT_DB", "/tmp/env.db")
	t.Setenv("SITECHAT_LOG_LEVEL", "error")
	t.Setenv("SITECHAT_PREVIEW_ADDR", "127.0.0.1:0")

	cfg, err := LoadConfig("", testPaths(t))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatabasePath != "/tmp/env.db" || cfg.LogLevel != "error" || cfg.PreviewAddr != "127.0.0.1:0" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("endpoints: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path, testPaths(t))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("LoadConfig() error = %v, want ParseError", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SITECHAT_DOTENV_TEST=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITECHAT_DOTENV_TEST", "")
	os.Unsetenv("SITECHAT_DOTENV_TEST")

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	if got := os.Getenv("SITECHAT_DOTENV_TEST"); got != "loaded" {
		t.Errorf("SITECHAT_DOTENV_TEST = %q, want loaded", got)
	}
}
