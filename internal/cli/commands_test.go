package cli_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bistro/internal/api"
)

func TestResources(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "resources")
	require.NoError(t, err)
	for _, want := range []string{"orders", "users", "vouchers", "dishes", "role:admin", "createdAt:desc"} {
		assert.Contains(t, out, want)
	}
}

func TestVersion(t *testing.T) {
	setupCLITest(t)

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bistro test")
}

func TestVersion_Server(t *testing.T) {
	setupCLITest(t)

	backend := func(version string) string {
		return newBackend(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/version", r.URL.Path)
			_, _ = w.Write([]byte(`{"version":"` + version + `"}`))
		})
	}

	out, err := runCLI(t, "version", "--server", "--api-url", backend("1.4.2"))
	require.NoError(t, err)
	assert.Contains(t, out, "backend 1.4.2")
	assert.Contains(t, out, "compatible with >=1.0.0, <2.0.0")

	out, err = runCLI(t, "version", "--server", "--api-url", backend("2.1.0"))
	require.ErrorIs(t, err, api.ErrIncompatibleServer)
	assert.Contains(t, out, "backend 2.1.0")
}

func TestConsole_RequiresTerminal(t *testing.T) {
	setupCLITest(t)

	_, err := runCLI(t, "console")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")

	_, err = runCLI(t, "console", "--period", "year")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid period")
}
