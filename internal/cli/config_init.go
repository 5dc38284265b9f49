package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/bistro/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.bistro/config.yaml (or $BISTRO_HOME/config.yaml) with default values.
Environment variables and --config overlays are not written to the file.`,
		Example: `  # Create configuration
  bistro config init

  # Create configuration, overwriting existing
  bistro config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func initConfig(cmd *cobra.Command, force bool) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}

	// Check if config already exists and force isn't set
	if !force {
		if _, statErr := os.Stat(path); statErr == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("cannot access config path %s: %w", path, statErr)
		}
	}

	if err = config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := config.Default()
	cfg.SetPath(path)
	if err = cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)

	return nil
}
