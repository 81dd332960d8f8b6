// ABOUTME: Tests for lift configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, and path expansion.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// isolate points XDG_CONFIG_HOME at a fresh temp dir and unsets LIFT_* vars.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{EnvDataDir, EnvLogLevel} {
		t.Setenv(key, "")
		// Unset so lift.env can supply it; t.Setenv restores the original.
		_ = os.Unsetenv(key)
	}
	return tmpDir
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
	if filepath.Base(got) != "lift" {
		t.Errorf("GetDataDir() = %q, want a lift directory", got)
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/lift-test"}
	if got := cfg.GetDataDir(); got != "/tmp/lift-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/lift-test")
	}
	if got := cfg.DBPath(); got != "/tmp/lift-test/lift.db" {
		t.Errorf("DBPath() = %q, want %q", got, "/tmp/lift-test/lift.db")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/lift-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "lift-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/lift", filepath.Join(home, "data/lift")},
		{"data/lift", "data/lift"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetLogLevel(t *testing.T) {
	if got := (&Config{}).GetLogLevel(); got != "WARN" {
		t.Errorf("default GetLogLevel() = %q, want WARN", got)
	}
	if got := (&Config{LogLevel: "debug"}).GetLogLevel(); got != "DEBUG" {
		t.Errorf("GetLogLevel() = %q, want DEBUG", got)
	}
	if got := (&Config{LogLevel: "loud"}).GetLogLevel(); got != "WARN" {
		t.Errorf("unknown level should fall back to WARN, got %q", got)
	}
}

func TestGetWeightUnit(t *testing.T) {
	unit, err := (&Config{}).GetWeightUnit()
	if err != nil || unit != "" {
		t.Errorf("empty config: got %q, %v", unit, err)
	}

	unit, err = (&Config{WeightUnit: "kg"}).GetWeightUnit()
	if err != nil || unit != "kg" {
		t.Errorf("kg config: got %q, %v", unit, err)
	}

	if _, err := (&Config{WeightUnit: "stone"}).GetWeightUnit(); err == nil {
		t.Error("Expected error for unknown weight unit")
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should return defaults
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != "" {
		t.Errorf("Expected empty LogLevel, got %q", cfg.LogLevel)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		DataDir:    "/tmp/lift-data",
		LogLevel:   "INFO",
		WeightUnit: "kg",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Loaded config mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{LogLevel: "WARN"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "lift")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "lift")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPaths(t *testing.T) {
	tmpDir := isolate(t)

	if got, want := GetConfigPath(), filepath.Join(tmpDir, "lift", "config.json"); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
	if got, want := GetEnvPath(), filepath.Join(tmpDir, "lift", "lift.env"); got != want {
		t.Errorf("GetEnvPath() = %q, want %q", got, want)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	isolate(t)

	if err := (&Config{DataDir: "/from/file", LogLevel: "ERROR"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	t.Setenv(EnvDataDir, "/from/env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want env override", cfg.DataDir)
	}
	if cfg.LogLevel != "ERROR" {
		t.Errorf("LogLevel = %q, want value from file", cfg.LogLevel)
	}
}

func TestDotenvFileOverridesFile(t *testing.T) {
	tmpDir := isolate(t)

	if err := (&Config{DataDir: "/from/file"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	envFile := filepath.Join(tmpDir, "lift", "lift.env")
	if err := os.WriteFile(envFile, []byte("LIFT_LOG_LEVEL=debug\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want value from lift.env", cfg.LogLevel)
	}
	if cfg.DataDir != "/from/file" {
		t.Errorf("DataDir = %q, want value from file", cfg.DataDir)
	}
}

func TestNewManagerOpensConfiguredDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir}

	mgr := cfg.NewManager(cfg.Logger("test"))
	defer mgr.Close()

	db, err := mgr.DB(context.Background())
	if err != nil {
		t.Fatalf("DB() failed: %v", err)
	}
	if db.Path() != filepath.Join(tmpDir, "lift.db") {
		t.Errorf("Path() = %q", db.Path())
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "lift.db")); os.IsNotExist(err) {
		t.Error("Expected lift.db to be created")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Empty config should result in "{}" since fields have omitempty
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
