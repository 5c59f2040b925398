package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorePath != "inventory_local_data.json" {
		t.Errorf("unexpected default store path %q", cfg.StorePath)
	}
	if level, _ := cfg.Level(); level != slog.LevelInfo {
		t.Errorf("expected info default, got %v", level)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
store_path: /tmp/stuff.sqlite3
gemini_api_key: file-key
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorePath != "/tmp/stuff.sqlite3" {
		t.Errorf("store path not applied: %q", cfg.StorePath)
	}
	if cfg.GeminiAPIKey != "file-key" {
		t.Errorf("api key not applied: %q", cfg.GeminiAPIKey)
	}
	if level, _ := cfg.Level(); level != slog.LevelDebug {
		t.Errorf("log level not applied: %v", level)
	}
}

func TestLoadUnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "store_pth: typo.json\n")

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown config key")
	}
}

func TestLoadBadLevelRejected(t *testing.T) {
	path := writeConfig(t, "log_level: loud\n")

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "gemini_api_key: file-key\n")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiAPIKey != "env-key" {
		t.Errorf("expected env override, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
