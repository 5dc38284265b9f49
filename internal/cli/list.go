package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rshade/bistro/internal/admin"
	"github.com/rshade/bistro/internal/api"
	"github.com/rshade/bistro/internal/cli/pagination"
	"github.com/rshade/bistro/internal/config"
	"github.com/rshade/bistro/internal/listctl"
)

// Output formats of the list command.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

const (
	// tabPadding is the minimum column padding for tabwriter output.
	tabPadding = 2

	// allPagesConcurrency bounds the parallel page requests of --all.
	allPagesConcurrency = 4

	// maxAllPages stops --all from walking an unbounded collection.
	maxAllPages = 1000
)

// listFlags holds the flags of the list command.
type listFlags struct {
	page     int
	pageSize int
	all      bool
	sort     string
	search   string
	filter   string
	period   string
	output   string
}

// NewListCmd creates the list command, which prints one page (or every page) of a
// resource list.
func NewListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:       "list <resource>",
		Short:     "Print a page of orders, users, vouchers or dishes",
		Long:      "Fetch one page of a resource list with search, filter and sort applied, and print it.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: admin.Names(),
		Example: `  # First page of orders placed today
  bistro list orders

  # Third page of users, 25 per page
  bistro list users --page 3 --page-size 25

  # Cancelled orders this month
  bistro list orders --period month --filter cancelled

  # Desserts by price as JSON
  bistro list dishes --filter category:dessert --sort price:asc --output json

  # Every voucher as YAML
  bistro list vouchers --all --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.page, "page", pagination.DefaultPage, "page number (1-based)")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "items per page (default list.page_size)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "fetch every page")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "sort as field or field:order, e.g. total:desc")
	cmd.Flags().StringVar(&flags.search, "search", "", "free-text search")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "filter predicate, e.g. paid or role:admin")
	cmd.Flags().StringVar(&flags.period, "period", string(admin.PeriodToday),
		"reporting period of orders: today, week, month, all")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: table, json, yaml (default output.default_format)")

	return cmd
}

// listRequest is a validated list command invocation.
type listRequest struct {
	resource admin.Resource
	query    listctl.Query
	period   admin.Period
	all      bool
	format   string
}

func buildListRequest(cmd *cobra.Command, name string, flags listFlags) (listRequest, error) {
	res, err := admin.Lookup(name)
	if err != nil {
		return listRequest{}, err
	}

	params := pagination.NewPaginationParams()
	params.Page = flags.page
	params.All = flags.all
	params.PageSize = flags.pageSize
	if !cmd.Flags().Changed("page-size") {
		params.PageSize = config.GetPageSize()
	}
	params.SortField, params.SortOrder, err = pagination.ParseSort(flags.sort)
	if err != nil {
		return listRequest{}, err
	}
	if err = params.Validate(); err != nil {
		return listRequest{}, err
	}

	if err = pagination.ValidateSortField(params.SortField, res.SortFields); err != nil {
		return listRequest{}, err
	}
	filter := listctl.Filter(strings.TrimSpace(flags.filter))
	if err = pagination.ValidateFilter(filter, res.Filters); err != nil {
		return listRequest{}, err
	}

	if params.SortField == "" {
		params.SortField = res.DefaultSortBy
		params.SortOrder = res.DefaultSortOrder
	}

	period, err := admin.ParsePeriod(flags.period)
	if err != nil {
		return listRequest{}, err
	}
	if cmd.Flags().Changed("period") && !res.UsesPeriod {
		return listRequest{}, fmt.Errorf("--period is not supported by %s", res.Name)
	}

	format := strings.ToLower(flags.output)
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	if !slices.Contains([]string{outputTable, outputJSON, outputYAML}, format) {
		return listRequest{}, fmt.Errorf("unsupported output format %q: use table, json or yaml", format)
	}

	return listRequest{
		resource: res,
		query: listctl.Query{
			Page:      params.Page,
			Limit:     params.PageSize,
			Search:    strings.TrimSpace(flags.search),
			Filter:    filter,
			SortBy:    params.SortField,
			SortOrder: params.SortOrder,
		},
		period: period,
		all:    params.All,
		format: format,
	}, nil
}

func runList(cmd *cobra.Command, name string, flags listFlags) error {
	req, err := buildListRequest(cmd, name, flags)
	if err != nil {
		return err
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	var extra api.ParamsFunc
	if req.resource.UsesPeriod {
		extra = req.period.Params
	}
	ctx := cmd.Context()
	logger.Debug().Ctx(ctx).
		Str("resource", req.resource.Name).
		Int("page", req.query.Page).
		Int("limit", req.query.Limit).
		Bool("all", req.all).
		Msg("listing")

	var res listctl.Result[admin.Entity]
	if req.all {
		res, err = fetchAllPages(ctx, req.resource.Fetcher(client, extra), req.query)
	} else {
		res, err = fetchPage(ctx, &req, req.resource.ControllerConfig(client, extra, req.query.Limit))
	}
	if err != nil {
		return fmt.Errorf("listing %s: %w", req.resource.Name, err)
	}

	return renderList(cmd.OutOrStdout(), req, res)
}

// fetchPage runs a list controller without a terminal until its first page settles.
// A page beyond the last one is clamped by the controller and req is updated to match.
func fetchPage(
	ctx context.Context,
	req *listRequest,
	cfg listctl.Config[admin.Entity],
) (listctl.Result[admin.Entity], error) {
	cfg.Initial = req.query
	cfg.Logger = &logger
	ctl := listctl.New(ctx, cfg)
	defer ctl.Close()

	st, err := ctl.WaitIdle(ctx)
	if err != nil {
		return listctl.Result[admin.Entity]{}, err
	}
	if st.Err != nil {
		return listctl.Result[admin.Entity]{}, st.Err
	}
	req.query.Page = st.Page

	return listctl.Result[admin.Entity]{
		Items:      st.Items,
		Total:      st.TotalItems,
		TotalPages: st.TotalPages,
		Page:       st.Page,
	}, nil
}

// fetchAllPages reads page 1 to learn the page count, then the remaining pages in
// parallel. Items keep page order.
func fetchAllPages[T any](
	ctx context.Context,
	fetch listctl.FetchFunc[T],
	q listctl.Query,
) (listctl.Result[T], error) {
	q.Page = 1
	first, err := fetch(ctx, q)
	if err != nil {
		return listctl.Result[T]{}, fmt.Errorf("page 1: %w", err)
	}
	totalPages := max(first.TotalPages, 1)
	if totalPages > maxAllPages {
		return listctl.Result[T]{}, fmt.Errorf("%d pages exceed the --all limit of %d, use a larger --page-size",
			totalPages, maxAllPages)
	}

	pages := make([][]T, totalPages)
	pages[0] = first.Items

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(allPagesConcurrency)
	for p := 2; p <= totalPages; p++ {
		pq := q
		pq.Page = p
		g.Go(func() error {
			r, fetchErr := fetch(gctx, pq)
			if fetchErr != nil {
				return fmt.Errorf("page %d: %w", p, fetchErr)
			}
			pages[p-1] = r.Items
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return listctl.Result[T]{}, err
	}

	return listctl.Result[T]{
		Items:      slices.Concat(pages...),
		Total:      first.Total,
		TotalPages: totalPages,
		Page:       1,
	}, nil
}

// listOutput is the JSON and YAML document of the list command.
type listOutput struct {
	Resource   string                     `json:"resource"             yaml:"resource"`
	Items      []admin.Entity             `json:"items"                yaml:"items"`
	Pagination *pagination.PaginationMeta `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

func renderList(w io.Writer, req listRequest, res listctl.Result[admin.Entity]) error {
	items := res.Items
	if items == nil {
		items = []admin.Entity{}
	}

	switch req.format {
	case outputJSON, outputYAML:
		out := listOutput{Resource: req.resource.Name, Items: items}
		if !req.all {
			meta := pagination.NewPaginationMeta(req.query.Page, req.query.Limit, res.TotalPages, res.Total)
			out.Pagination = &meta
		}
		if req.format == outputJSON {
			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(out); err != nil {
				return fmt.Errorf("encoding JSON: %w", err)
			}
			return nil
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return encoder.Close()
	default:
		return renderListTable(w, req, res)
	}
}

func renderListTable(w io.Writer, req listRequest, res listctl.Result[admin.Entity]) error {
	if len(res.Items) == 0 {
		_, err := fmt.Fprintf(w, "No %s found.\n", strings.ToLower(req.resource.Title))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	headers := req.resource.Headers()
	rule := make([]string, len(headers))
	for i, h := range headers {
		headers[i] = strings.ToUpper(h)
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, e := range res.Items {
		fmt.Fprintln(tw, strings.Join(e.Row(), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	if req.all {
		_, err := fmt.Fprintf(w, "\n%s %s\n", admin.FormatCount(len(res.Items)), strings.ToLower(req.resource.Title))
		return err
	}
	_, err := fmt.Fprintf(w, "\nPage %d of %d (%s items)\n",
		req.query.Page, max(res.TotalPages, 1), admin.FormatCount(res.Total))
	return err
}
