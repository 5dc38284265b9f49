package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rshade/bistro/internal/config"
)

// NewConfigSetCmd creates the config set command, which writes one key to the config file.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		Example: `  # Use another backend
  bistro config set api.base_url https://admin.example.com/api

  # Show 25 rows per page
  bistro config set list.page_size 25`,
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			// Edit the file itself, not the effective configuration with overrides.
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
				return err
			}
			if err = cfg.Set(key, value); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			logger.Debug().Ctx(cmd.Context()).Str("key", key).Msg("config value set")
			cmd.Printf("Set %s\n", key)
			return nil
		},
	}
}

// NewConfigGetCmd creates the config get command, which prints one effective value.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
}

// NewConfigListCmd creates the config list command, which prints every effective value.
// Secrets are masked.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := config.GetGlobalConfig().Values()
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			w := cmd.OutOrStdout()
			for _, k := range keys {
				if _, err := fmt.Fprintf(w, "%s = %s\n", k, values[k]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
