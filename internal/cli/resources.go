package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/bistro/internal/admin"
)

// NewResourcesCmd creates the resources command, which lists the admin lists with their
// sort fields and filters.
func NewResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Show the available lists, sort fields and filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tDEFAULT SORT\tSORT FIELDS\tFILTERS\tPERIOD")
			fmt.Fprintln(tw, "----\t-----\t------------\t-----------\t-------\t------")
			for _, r := range admin.Catalogue() {
				sorts := make([]string, len(r.SortFields))
				for i, f := range r.SortFields {
					sorts[i] = string(f)
				}
				filters := make([]string, len(r.Filters))
				for i, f := range r.Filters {
					filters[i] = string(f)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s:%s\t%s\t%s\t%s\n",
					r.Name, r.Title, r.DefaultSortBy, r.DefaultSortOrder,
					strings.Join(sorts, ","), strings.Join(filters, ","), yesNo(r.UsesPeriod))
			}
			return tw.Flush()
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
