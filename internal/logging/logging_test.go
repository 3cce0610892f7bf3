package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabledReturnsNoop(t *testing.T) {
	logger, err := Init(Config{Enabled: false})
	require.NoError(t, err)

	_, ok := logger.(noopLogger)
	assert.True(t, ok)
	assert.NoError(t, logger.Shutdown())
}

func TestInitWritesJSONLines(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	logger, err := Init(Config{Enabled: true, Level: "debug", MaxFiles: 5, PID: 42})
	require.NoError(t, err)

	logger.Info("catalog loaded", "entries", 3)
	require.NoError(t, logger.Shutdown())

	impl, ok := logger.(*loggerImpl)
	require.True(t, ok)

	data, err := os.ReadFile(impl.filePath())
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "catalog loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["entries"])
	assert.Equal(t, float64(42), entry["pid"])
}

func TestWithAddsFields(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	logger, err := Init(Config{Enabled: true, Level: "info", PID: 1})
	require.NoError(t, err)
	defer logger.Shutdown()

	child := logger.With("provider", "artisan")
	child.Info("provider scan")

	impl := logger.(*loggerImpl)
	data, err := os.ReadFile(impl.filePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"provider":"artisan"`)
}

func TestLevelFiltering(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	logger, err := Init(Config{Enabled: true, Level: "warn", PID: 1})
	require.NoError(t, err)
	defer logger.Shutdown()

	logger.Debug("hidden")
	logger.Warn("visible")

	impl := logger.(*loggerImpl)
	data, err := os.ReadFile(impl.filePath())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("QUICKFIRE_LOG", "debug")
	t.Setenv("QUICKFIRE_LOG_MAX_FILES", "3")

	cfg := FromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 3, cfg.MaxFiles)
}

func TestRotateKeepsNewestFiles(t *testing.T) {
	dir := t.TempDir()
	names := []string{"quickfire_a.log", "quickfire_b.log", "quickfire_c.log", "other.txt"}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}

	require.NoError(t, rotate(dir, 2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var logs int
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".log") {
			logs++
		}
	}
	assert.Equal(t, 2, logs)

	_, err = os.Stat(filepath.Join(dir, "other.txt"))
	assert.NoError(t, err)
}
