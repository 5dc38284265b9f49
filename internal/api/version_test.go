package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bistro/internal/api"
)

func TestCheckCompatibility(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		constraint string
		wantErr    error
		wantVer    string
	}{
		{name: "supported", body: `{"version":"1.4.2"}`, wantVer: "1.4.2"},
		{name: "v prefix", body: `{"version":"v1.0.0"}`, wantVer: "1.0.0"},
		{name: "too new", body: `{"version":"2.1.0"}`, wantErr: api.ErrIncompatibleServer, wantVer: "2.1.0"},
		{name: "custom constraint", body: `{"version":"2.1.0"}`, constraint: "^2.0.0", wantVer: "2.1.0"},
		{name: "not semver", body: `{"version":"latest"}`, wantErr: api.ErrMalformedResponse},
		{name: "not json", body: `ok`, wantErr: api.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/version", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			v, err := client.CheckCompatibility(context.Background(), tt.constraint)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantVer != "" {
				require.NotNil(t, v)
				assert.Equal(t, tt.wantVer, v.String())
			}
		})
	}
}

func TestCheckCompatibility_InvalidConstraint(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version":"1.0.0"}`))
	})

	_, err := client.CheckCompatibility(context.Background(), "not a constraint")
	require.Error(t, err)
}
