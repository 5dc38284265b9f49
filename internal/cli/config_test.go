package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bistro/internal/config"
)

func TestConfigInit(t *testing.T) {
	home := setupCLITest(t)

	out, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	path := filepath.Join(home, "config.yaml")
	assert.Contains(t, out, path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = runCLI(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigSetGet(t *testing.T) {
	setupCLITest(t)

	_, err := runCLI(t, "config", "set", "list.page_size", "25")
	require.NoError(t, err)

	out, err := runCLI(t, "config", "get", "list.page_size")
	require.NoError(t, err)
	assert.Equal(t, "25\n", out)

	_, err = runCLI(t, "config", "set", "list.page_size", "0")
	require.Error(t, err, "validated before saving")

	_, err = runCLI(t, "config", "set", "list.colour", "blue")
	require.ErrorIs(t, err, config.ErrUnknownKey)

	out, err = runCLI(t, "config", "get", "list.page_size")
	require.NoError(t, err)
	assert.Equal(t, "25\n", out, "rejected values are not saved")
}

func TestConfigList_MasksToken(t *testing.T) {
	setupCLITest(t)

	_, err := runCLI(t, "config", "set", "api.token", "s3cret")
	require.NoError(t, err)

	out, err := runCLI(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "api.token = ********")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "list.debounce = 500ms")
}

func TestConfigGet_FlagOverrides(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "config", "get", "api.base_url", "--api-url", "https://staging.example.com/api")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com/api\n", out)

	out, err = runCLI(t, "config", "get", "api.timeout", "--timeout", "5s")
	require.NoError(t, err)
	assert.Equal(t, "5s\n", out)
}

func TestConfigValidate(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Page size: 10")

	overlay := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("list:\n  page_size: 500\n"), 0o600))

	_, err = runCLI(t, "config", "validate", "--config", overlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PageSize")
}

func TestConfigOverlay_MissingFile(t *testing.T) {
	setupCLITest(t)

	_, err := runCLI(t, "config", "list", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading --config")
}

func TestInvalidEnvOverrideIsLogged(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvPageSize, "lots")

	dir := t.TempDir()
	logFile := filepath.Join(dir, "bistro.log")
	overlay := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("logging:\n  level: warn\n  format: json\n  file: "+logFile+"\n"), 0o600))

	_, err := runCLI(t, "resources", "--config", overlay)
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	logs := string(data)
	assert.Contains(t, logs, "ignoring environment override")
	assert.Contains(t, logs, `"component":"config"`)
	assert.Contains(t, logs, "BISTRO_PAGE_SIZE")
}
