package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalConfig(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	assert.NotNil(t, cfg)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)

	cfg2 := GetGlobalConfig()
	assert.Same(t, cfg, cfg2)

	ResetGlobalConfigForTest()
	cfg3 := GetGlobalConfig()
	assert.NotSame(t, cfg, cfg3)

	custom := Default()
	custom.List.PageSize = 42
	SetGlobalConfig(custom)
	assert.Same(t, custom, GetGlobalConfig())
	assert.Equal(t, 42, GetPageSize())
}

func TestGlobalConfig_ReadsHomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvPageSize, "")
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
output:
  default_format: json
list:
  page_size: 12
`), 0o600))
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	assert.Equal(t, "json", GetDefaultOutputFormat())
	assert.Equal(t, 12, GetPageSize())
	assert.Equal(t, DefaultDebounce, GetDebounce())
	assert.Equal(t, filepath.Join(home, "config.yaml"), GetGlobalConfig().Path())
}

func TestGetConfigDir(t *testing.T) {
	t.Run("home override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvHome, dir)

		got, err := GetConfigDir()
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})

	t.Run("user home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(EnvHome, "")
		t.Setenv("HOME", home)
		t.Setenv("USERPROFILE", home)

		got, err := GetConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".bistro"), got)

		require.NoError(t, EnsureConfigDir())
		stat, err := os.Stat(got)
		require.NoError(t, err)
		assert.True(t, stat.IsDir())
	})
}

func TestEnsureLogDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvHome, tmpDir)
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	cfg.Logging.File = filepath.Join(tmpDir, "logs", "subdir", "bistro.log")

	require.NoError(t, EnsureLogDir())

	stat, err := os.Stat(filepath.Join(tmpDir, "logs", "subdir"))
	require.NoError(t, err)
	assert.True(t, stat.IsDir())

	// A regular file cannot be used as a directory.
	blocker := filepath.Join(tmpDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg.Logging.File = filepath.Join(blocker, "subdir", "bistro.log")
	assert.Error(t, EnsureLogDir())
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, "stderr", got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/var/log/bistro.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "/var/log/bistro.log", got.File)
}
