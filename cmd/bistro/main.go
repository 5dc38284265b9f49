// Command bistro is the restaurant admin console.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/bistro/internal/api"
	"github.com/rshade/bistro/internal/cli"
	"github.com/rshade/bistro/pkg/version"
)

// Exit codes.
const (
	exitOK           = 0
	exitError        = 1
	exitIncompatible = 3
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(version.String()).ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, api.ErrIncompatibleServer):
		return exitIncompatible
	default:
		return exitError
	}
}

func main() {
	os.Exit(exitCode(run()))
}
