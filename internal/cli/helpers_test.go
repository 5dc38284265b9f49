package cli_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rshade/bistro/internal/cli"
	"github.com/rshade/bistro/internal/config"
)

// setupCLITest isolates the config directory and global state of one test.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvAPIToken, "")
	t.Setenv(config.EnvPageSize, "")
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

// runCLI executes the root command with args and returns everything it printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// newBackend starts a test backend and returns its base URL.
func newBackend(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

// queryRecorder keeps the query of the last request a test backend received.
type queryRecorder struct {
	mu   sync.Mutex
	last url.Values
}

func (r *queryRecorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = req.URL.Query()
}

func (r *queryRecorder) query() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
