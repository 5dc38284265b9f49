// Package cli implements the bistro command line: headless list queries, the interactive
// admin console and configuration management.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/bistro/internal/api"
	"github.com/rshade/bistro/internal/config"
	"github.com/rshade/bistro/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the bistro CLI.
// It loads configuration, wires up logging and tracing, and registers the list, console,
// resources, config and version subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "bistro",
		Short:   "Restaurant admin console",
		Long:    "bistro: browse orders, users, vouchers and the menu of a restaurant backend",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "YAML file whose sections override the config file")
	cmd.PersistentFlags().String("api-url", "", "backend base URL (overrides api.base_url)")
	cmd.PersistentFlags().String("token", "", "backend bearer token (overrides api.token)")
	cmd.PersistentFlags().Duration("timeout", 0, "backend request timeout (overrides api.timeout)")
	cmd.PersistentFlags().
		Bool("skip-version-check", false, "skip the backend version compatibility check")

	cmd.AddCommand(
		NewListCmd(), NewConsoleCmd(), NewResourcesCmd(),
		newConfigCmd(), NewVersionCmd(),
	)

	return cmd
}

const rootCmdExample = `  # List today's paid orders, most expensive first
  bistro list orders --filter paid --sort total:desc

  # Search users and print JSON
  bistro list users --search anna --output json

  # Export the whole menu as YAML
  bistro list dishes --all --output yaml

  # Open the interactive console on the vouchers tab
  bistro console vouchers

  # Point at another backend for one command
  bistro list orders --api-url https://staging.example.com/api

  # Initialize configuration
  bistro config init

  # Set configuration values
  bistro config set list.page_size 25`

// loadConfig builds the effective configuration: config file and environment, then the
// --config overlay, then flags. The result becomes the global configuration.
func loadConfig(cmd *cobra.Command) error {
	cfg := config.New()

	flags := cmd.Flags()
	if path, _ := flags.GetString("config"); path != "" {
		if err := config.ShallowMergeYAML(cfg, path); err != nil {
			return fmt.Errorf("loading --config: %w", err)
		}
	}
	if flags.Changed("api-url") {
		cfg.API.BaseURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("token") {
		cfg.API.Token, _ = flags.GetString("token")
	}
	if flags.Changed("timeout") {
		cfg.API.Timeout, _ = flags.GetDuration("timeout")
	}

	config.SetGlobalConfig(cfg)
	return nil
}

// newClient creates a backend client from the validated global configuration.
func newClient(cmd *cobra.Command) (*api.Client, error) {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}
	return api.NewClient(api.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		Timeout:   cfg.API.Timeout,
		UserAgent: api.DefaultUserAgent + "/" + cmd.Root().Version,
	}), nil
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
