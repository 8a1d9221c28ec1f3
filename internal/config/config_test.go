package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_WithExplicitFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "test.toml")

	content := `
[store]
home = "` + dir + `"

[maintenance]
max_age_hours = 100
max_size_bytes = 500

[logging]
level = "debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Store.Home != dir {
		t.Errorf("Store.Home: got %q, want %q", cfg.Store.Home, dir)
	}
	if cfg.Maintenance.MaxAgeHours != 100 {
		t.Errorf("Maintenance.MaxAgeHours: got %d, want 100", cfg.Maintenance.MaxAgeHours)
	}
	if cfg.Maintenance.MaxSizeBytes != 500 {
		t.Errorf("Maintenance.MaxSizeBytes: got %d, want 500", cfg.Maintenance.MaxSizeBytes)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "test.toml")

	content := `
[store]
home = "` + dir + `"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("NFRTCACHE_MAINTENANCE_MAX_AGE_HOURS", "48")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Maintenance.MaxAgeHours != 48 {
		t.Errorf("MaxAgeHours with env override: got %d, want 48", cfg.Maintenance.MaxAgeHours)
	}
}

func TestLoad_ValidationFailure_BadLogLevel(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.toml")

	content := `
[store]
home = "` + dir + `"

[logging]
level = "not-a-level"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, DefaultLogLevel)
	}
	if cfg.Server.StatusAddr != DefaultStatusAddr {
		t.Errorf("Server.StatusAddr: got %q, want %q", cfg.Server.StatusAddr, DefaultStatusAddr)
	}
	if cfg.Maintenance.MaxSizeBytes == 0 {
		t.Error("Maintenance.MaxSizeBytes should not be zero by default")
	}
}

func TestConfigFilePath_BeforeLoad(t *testing.T) {
	loadedConfigFile.Store("")
	path := ConfigFilePath()
	if path != "" {
		t.Errorf("ConfigFilePath before load: got %q, want empty", path)
	}
}

func TestExportConfig(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "exported.toml")

	cfg := DefaultConfig()
	set(cfg)

	if err := ExportConfig(exportPath); err != nil {
		t.Fatalf("ExportConfig: %v", err)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Error("exported config is empty")
	}
}

func TestImportConfig(t *testing.T) {
	dir := t.TempDir()
	importPath := filepath.Join(dir, "import.toml")

	content := `
[store]
home = "` + dir + `"

[logging]
level = "warn"
`
	if err := os.WriteFile(importPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := ImportConfig(importPath); err != nil {
		t.Fatalf("ImportConfig: %v", err)
	}

	cfg := Get()
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level after import: got %q, want %q", cfg.Logging.Level, "warn")
	}

	set(DefaultConfig())
}
