package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/bistro/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, BISTRO_* environment
variables and any --config overlay, for syntax and value ranges.`,
		Example: `  # Validate current configuration
  bistro config validate

  # Validate and show detailed information
  bistro config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	cmd.Printf("  Backend: %s (timeout %s)\n", cfg.API.BaseURL, cfg.API.Timeout)
	cmd.Printf("  Backend compatibility: %s\n", cfg.API.Compatibility)
	cmd.Printf("  Page size: %d\n", cfg.List.PageSize)
	cmd.Printf("  Search debounce: %s\n", cfg.List.Debounce)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
}
