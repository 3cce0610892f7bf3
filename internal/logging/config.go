package logging

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds logging configuration.
type Config struct {
	// Enabled determines whether logging is active.
	Enabled bool
	// Level is the minimum log level to record.
	Level string
	// MaxFiles is the maximum number of log files to retain.
	MaxFiles int
	// PID is the process ID.
	PID int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Level:    "info",
		MaxFiles: 10,
		PID:      os.Getpid(),
	}
}

// FromEnv creates a logging Config from environment variables. Setting
// QUICKFIRE_LOG to a level name enables file logging at that level;
// QUICKFIRE_LOG_MAX_FILES overrides the retention count.
func FromEnv() Config {
	cfg := DefaultConfig()
	if level := os.Getenv("QUICKFIRE_LOG"); level != "" {
		cfg.Enabled = true
		cfg.Level = level
	}
	if raw := os.Getenv("QUICKFIRE_LOG_MAX_FILES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.MaxFiles = n
		}
	}
	return cfg
}

// LogDir returns the directory where log files should be stored.
// It uses the following priority:
// 1. {XDG_STATE_HOME}/quickfire/logs (if set and writable)
// 2. {os.TempDir()}/quickfire/logs (fallback)
func LogDir() (string, error) {
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		logDir := filepath.Join(stateDir, "quickfire", "logs")
		if err := os.MkdirAll(logDir, 0700); err == nil {
			if testFileWrite(logDir) {
				return logDir, nil
			}
		}
	}
	tempBase := filepath.Join(os.TempDir(), "quickfire", "logs")
	if err := os.MkdirAll(tempBase, 0700); err != nil {
		return "", err
	}
	return tempBase, nil
}

// testFileWrite attempts to create a temporary file in dir to verify write permissions.
func testFileWrite(dir string) bool {
	tmp := filepath.Join(dir, ".write_test")
	f, err := os.Create(tmp)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmp)
	return true
}
