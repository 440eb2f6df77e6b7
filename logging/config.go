package logging

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.innotegrity.dev/types"
	"go.innotegrity.dev/xerrors"
	"go.innotegrity.dev/xfault"
)

const (
	// BackupCountEnvVar is the environment variable holding the number of rotated log files to retain.
	BackupCountEnvVar = "LOG_BACKUP_COUNT"

	// ConsoleLevelEnvVar is the environment variable holding the minimum console log level.
	ConsoleLevelEnvVar = "CONSOLE_LOG_LEVEL"

	// FileLevelEnvVar is the environment variable holding the minimum file log level.
	FileLevelEnvVar = "FILE_LOG_LEVEL"

	// FormatEnvVar is the environment variable holding the console output format.
	FormatEnvVar = "LOG_FORMAT"

	// MaxFileSizeEnvVar is the environment variable holding the maximum log file size in bytes.
	MaxFileSizeEnvVar = "MAX_LOG_FILE_SIZE"
)

// Config holds the settings used by a [Manager] when constructing loggers.
type Config struct {
	// BackupCount is the number of rotated log files to retain.
	BackupCount int `json:"backup_count"`

	// ConsoleLevel is the minimum level at which records are written to the console sink.
	ConsoleLevel slog.Level `json:"console_level"`

	// Dir is the directory in which log files are created.
	Dir string `json:"dir"`

	// FileLevel is the minimum level at which records are written to the file sink.
	FileLevel slog.Level `json:"file_level"`

	// Format is the output format used by the console sink.
	//
	// File sinks always use the detailed format unless they are built directly through [NewFileHandler].
	Format Format `json:"format"`

	// MaxFileSize is the maximum size in bytes of a log file before it gets rotated.
	MaxFileSize types.Size `json:"max_file_size"`
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() Config {
	return Config{
		BackupCount:  DefaultFileHandlerBackupCount,
		ConsoleLevel: slog.LevelInfo,
		Dir:          DefaultFileHandlerLogDir,
		FileLevel:    slog.LevelDebug,
		Format:       FormatDetailed,
		MaxFileSize:  DefaultFileHandlerMaxSize,
	}
}

// FromEnv builds a configuration from environment variables, starting from [DefaultConfig].
//
// The following variables are consulted: CONSOLE_LOG_LEVEL, FILE_LOG_LEVEL, LOG_FORMAT, MAX_LOG_FILE_SIZE and
// LOG_BACKUP_COUNT. A variable that is unset or fails to parse leaves the corresponding default in place, so a
// malformed environment never prevents logging from coming up.
func FromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv(ConsoleLevelEnvVar); v != "" {
		if level, err := ParseLevel(v); err == nil {
			cfg.ConsoleLevel = level
		}
	}
	if v := os.Getenv(FileLevelEnvVar); v != "" {
		if level, err := ParseLevel(v); err == nil {
			cfg.FileLevel = level
		}
	}
	if v := os.Getenv(FormatEnvVar); v != "" {
		if format, err := ParseFormat(v); err == nil {
			cfg.Format = format
		}
	}
	if v := os.Getenv(MaxFileSizeEnvVar); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil && size > 0 {
			cfg.MaxFileSize = types.Size(size)
		}
	}
	if v := os.Getenv(BackupCountEnvVar); v != "" {
		if count, err := strconv.Atoi(v); err == nil {
			cfg.BackupCount = count
		}
	}
	return cfg
}

// LoadEnvFile loads the given .env files into the process environment before reading configuration from it.
//
// Variables already present in the environment always win over values from the files. If no files are given,
// ".env" in the current directory is loaded.
//
// This function may return an error with any of the following codes:
//   - [xfault.OptionsValidationError]: one or more files could not be read
//
// References:
//   https://pkg.go.dev/github.com/joho/godotenv#Load
func LoadEnvFile(files ...string) xerrors.Error {
	if err := godotenv.Load(files...); err != nil {
		return xerrors.Wrapf(xfault.OptionsValidationError, err, "failed to load environment file(s): %s",
			err.Error())
	}
	return nil
}
