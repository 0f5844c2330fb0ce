package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every MEDSTORE_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfig, EnvDB, EnvSeed, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "medstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "db: /tmp/meds.db\nseed: false\nlog_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/meds.db", cfg.DBPath)
	assert.False(t, cfg.Seed)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "log_level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.True(t, cfg.Seed)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "database: x.db\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_MissingNamedFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfig, writeConfig(t, "db: from-env-file.db\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env-file.db", cfg.DBPath)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env beats file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, "db: file.db\nseed: true\nlog_level: info\n")
		t.Setenv(EnvDB, "env.db")
		t.Setenv(EnvSeed, "false")
		t.Setenv(EnvLogLevel, "error")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env.db", cfg.DBPath)
		assert.False(t, cfg.Seed)
		assert.Equal(t, slog.LevelError, cfg.SlogLevel())
	})

	t.Run("bad seed value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvSeed, "sometimes")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvSeed)
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "LOUD"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LogLevel = "DEBUG"
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.DBPath = "  "
	assert.Error(t, cfg.Validate())
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := DefaultConfig()
	cfg.DBPath = filepath.Join(dir, "medicines.db")

	require.NoError(t, cfg.EnsureDataDir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, cfg.EnsureDataDir(), "second call is a no-op")
}
