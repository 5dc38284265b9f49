package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/bistro/internal/api"
	"github.com/rshade/bistro/internal/cli"
	"github.com/rshade/bistro/pkg/version"
)

func TestMainComponents(t *testing.T) {
	root := cli.NewRootCmd(version.String())
	assert.Equal(t, "bistro", root.Use)
	assert.NotEmpty(t, root.Version)

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"list", "console", "resources", "config", "version"})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", want: exitOK},
		{name: "generic error", err: errors.New("boom"), want: exitError},
		{
			name: "incompatible backend",
			err:  fmt.Errorf("checking: %w", api.ErrIncompatibleServer),
			want: exitIncompatible,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
