package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"go.innotegrity.dev/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ConsoleLevel != slog.LevelInfo {
		t.Errorf("expected default console level INFO, got %v", cfg.ConsoleLevel)
	}
	if cfg.FileLevel != slog.LevelDebug {
		t.Errorf("expected default file level DEBUG, got %v", cfg.FileLevel)
	}
	if cfg.Format != FormatDetailed {
		t.Errorf("expected default format detailed, got %v", cfg.Format)
	}
	if cfg.MaxFileSize != types.Size(10*1024*1024) {
		t.Errorf("expected default max file size of 10MiB, got %v", cfg.MaxFileSize)
	}
	if cfg.BackupCount != 5 {
		t.Errorf("expected default backup count of 5, got %d", cfg.BackupCount)
	}
	if cfg.Dir != "logs" {
		t.Errorf("expected default dir 'logs', got '%s'", cfg.Dir)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(ConsoleLevelEnvVar, "warning")
	t.Setenv(FileLevelEnvVar, "error")
	t.Setenv(FormatEnvVar, "json")
	t.Setenv(MaxFileSizeEnvVar, "2048")
	t.Setenv(BackupCountEnvVar, "3")

	cfg := FromEnv()
	if cfg.ConsoleLevel != slog.LevelWarn {
		t.Errorf("expected console level WARNING, got %v", cfg.ConsoleLevel)
	}
	if cfg.FileLevel != slog.LevelError {
		t.Errorf("expected file level ERROR, got %v", cfg.FileLevel)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("expected format json, got %v", cfg.Format)
	}
	if cfg.MaxFileSize != types.Size(2048) {
		t.Errorf("expected max file size of 2048, got %v", cfg.MaxFileSize)
	}
	if cfg.BackupCount != 3 {
		t.Errorf("expected backup count of 3, got %d", cfg.BackupCount)
	}
}

func TestFromEnvFallsBackOnMalformedValues(t *testing.T) {
	t.Setenv(ConsoleLevelEnvVar, "loud")
	t.Setenv(FormatEnvVar, "xml")
	t.Setenv(MaxFileSizeEnvVar, "huge")
	t.Setenv(BackupCountEnvVar, "many")

	cfg := FromEnv()
	defaults := DefaultConfig()
	if cfg != defaults {
		t.Errorf("expected malformed values to fall back to defaults, got %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("CONSOLE_LOG_LEVEL=debug\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %s", err.Error())
	}

	// ensure a prior value does not leak into this test
	t.Setenv(ConsoleLevelEnvVar, "")
	os.Unsetenv(ConsoleLevelEnvVar)

	if err := LoadEnvFile(envFile); err != nil {
		t.Fatalf("unexpected error loading env file: %s", err.Error())
	}
	if cfg := FromEnv(); cfg.ConsoleLevel != slog.LevelDebug {
		t.Errorf("expected console level from env file, got %v", cfg.ConsoleLevel)
	}
}

func TestLoadEnvFileMissingFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Errorf("expected an error for a missing env file")
	}
}
