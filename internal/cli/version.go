package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/bistro/internal/config"
)

// NewVersionCmd creates the version command. With --server it also reports the backend
// version and whether it satisfies api.compatibility.
func NewVersionCmd() *cobra.Command {
	var server bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the bistro version",
		Args:  cobra.NoArgs,
		Example: `  # Client version
  bistro version

  # Client and backend versions
  bistro version --server`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("bistro %s\n", cmd.Root().Version)
			if !server {
				return nil
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			constraint := config.GetAPIConfig().Compatibility
			v, err := client.CheckCompatibility(cmd.Context(), constraint)
			if v != nil {
				cmd.Printf("backend %s\n", v)
			}
			if err != nil {
				return err
			}
			cmd.Printf("compatible with %s\n", constraint)
			return nil
		},
	}

	cmd.Flags().BoolVar(&server, "server", false, "also query the backend version")

	return cmd
}
