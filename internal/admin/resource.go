// Package admin describes the lists of the restaurant admin console: their entities,
// sort fields, filters and table layout.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/rshade/bistro/internal/api"
	"github.com/rshade/bistro/internal/listctl"
)

// ErrUnknownResource is returned by Lookup for names outside the catalogue.
var ErrUnknownResource = errors.New("unknown resource")

// Resource names.
const (
	ResourceUsers    = "users"
	ResourceOrders   = "orders"
	ResourceVouchers = "vouchers"
	ResourceDishes   = "dishes"
)

// Sort fields shared by several resources.
const (
	SortCreatedAt listctl.SortField = "createdAt"
	SortName      listctl.SortField = "name"
	SortEmail     listctl.SortField = "email"
	SortTotal     listctl.SortField = "total"
	SortStatus    listctl.SortField = "status"
	SortTable     listctl.SortField = "tableNumber"
	SortCode      listctl.SortField = "code"
	SortExpiresAt listctl.SortField = "expiresAt"
	SortUsedCount listctl.SortField = "usedCount"
	SortPrice     listctl.SortField = "price"
	SortCategory  listctl.SortField = "category"
)

// Dish categories known to the menu.
const (
	CategoryStarter = "starter"
	CategoryMain    = "main"
	CategoryDessert = "dessert"
	CategoryDrink   = "drink"
)

// Column is one table column.
type Column struct {
	Title string
	Width int
}

// Resource describes one admin list.
type Resource struct {
	Name  string
	Title string
	// Path is the backend endpoint, relative to the API base URL.
	Path string

	SortFields       []listctl.SortField
	Filters          []listctl.Filter
	DefaultSortBy    listctl.SortField
	DefaultSortOrder listctl.SortOrder
	Columns          []Column

	// UsesPeriod marks lists that depend on the console's reporting period.
	UsesPeriod bool

	newFetcher func(c *api.Client, extra api.ParamsFunc) listctl.FetchFunc[Entity]
}

// Fetcher returns the fetch function of the resource backed by c. extra may be nil.
func (r Resource) Fetcher(c *api.Client, extra api.ParamsFunc) listctl.FetchFunc[Entity] {
	return r.newFetcher(c, extra)
}

// ControllerConfig returns a controller configuration for the resource. Callers fill in
// the observer hooks, dependencies and logger.
func (r Resource) ControllerConfig(c *api.Client, extra api.ParamsFunc, itemsPerPage int) listctl.Config[Entity] {
	return listctl.Config[Entity]{
		Fetch:            r.Fetcher(c, extra),
		Name:             r.Name,
		ItemsPerPage:     itemsPerPage,
		SortFields:       slices.Clone(r.SortFields),
		Filters:          slices.Clone(r.Filters),
		DefaultSortBy:    r.DefaultSortBy,
		DefaultSortOrder: r.DefaultSortOrder,
	}
}

// HasSortField reports whether f is a sort field of the resource.
func (r Resource) HasSortField(f listctl.SortField) bool {
	return slices.Contains(r.SortFields, f)
}

// HasFilter reports whether f is a filter of the resource. FilterNone is always accepted.
func (r Resource) HasFilter(f listctl.Filter) bool {
	return f == listctl.FilterNone || slices.Contains(r.Filters, f)
}

// Headers returns the column titles.
func (r Resource) Headers() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Title
	}
	return out
}

// entityFetcher adapts a typed fetcher to the Entity row type.
func entityFetcher[T Entity](path string) func(*api.Client, api.ParamsFunc) listctl.FetchFunc[Entity] {
	return func(c *api.Client, extra api.ParamsFunc) listctl.FetchFunc[Entity] {
		fetch := api.Fetcher[T](c, path, extra)
		return func(ctx context.Context, q listctl.Query) (listctl.Result[Entity], error) {
			res, err := fetch(ctx, q)
			if err != nil {
				return listctl.Result[Entity]{}, err
			}
			var items []Entity
			if res.Items != nil {
				items = make([]Entity, len(res.Items))
				for i, it := range res.Items {
					items[i] = it
				}
			}
			return listctl.Result[Entity]{
				Items:      items,
				Total:      res.Total,
				TotalPages: res.TotalPages,
				Page:       res.Page,
			}, nil
		}
	}
}

func roleFilter(r Role) listctl.Filter { return listctl.Filter("role:" + string(r)) }

func categoryFilter(c string) listctl.Filter { return listctl.Filter("category:" + c) }

// Catalogue returns every admin list, in console tab order.
func Catalogue() []Resource {
	return []Resource{
		{
			Name:       ResourceOrders,
			Title:      "Orders",
			Path:       "orders",
			SortFields: []listctl.SortField{SortCreatedAt, SortTotal, SortStatus, SortTable},
			Filters: []listctl.Filter{
				listctl.Filter(OrderPending),
				listctl.Filter(OrderPreparing),
				listctl.Filter(OrderServed),
				listctl.Filter(OrderPaid),
				listctl.Filter(OrderCancelled),
			},
			DefaultSortBy:    SortCreatedAt,
			DefaultSortOrder: listctl.SortDesc,
			Columns: []Column{
				{Title: "ID", Width: 10},
				{Title: "Table", Width: 5},
				{Title: "Customer", Width: 18},
				{Title: "Status", Width: 10},
				{Title: "Items", Width: 5},
				{Title: "Total", Width: 12},
				{Title: "Created", Width: 16},
			},
			UsesPeriod: true,
			newFetcher: entityFetcher[Order]("orders"),
		},
		{
			Name:       ResourceUsers,
			Title:      "Users",
			Path:       "users",
			SortFields: []listctl.SortField{SortCreatedAt, SortName, SortEmail},
			Filters: []listctl.Filter{
				roleFilter(RoleAdmin),
				roleFilter(RoleStaff),
				roleFilter(RoleCustomer),
				"active",
				"inactive",
			},
			DefaultSortBy:    SortCreatedAt,
			DefaultSortOrder: listctl.SortDesc,
			Columns: []Column{
				{Title: "Name", Width: 20},
				{Title: "Email", Width: 26},
				{Title: "Role", Width: 9},
				{Title: "Active", Width: 6},
				{Title: "Created", Width: 16},
			},
			newFetcher: entityFetcher[User]("users"),
		},
		{
			Name:             ResourceVouchers,
			Title:            "Vouchers",
			Path:             "vouchers",
			SortFields:       []listctl.SortField{SortCreatedAt, SortCode, SortExpiresAt, SortUsedCount},
			Filters:          []listctl.Filter{"active", "expired"},
			DefaultSortBy:    SortCreatedAt,
			DefaultSortOrder: listctl.SortDesc,
			Columns: []Column{
				{Title: "Code", Width: 14},
				{Title: "Discount", Width: 8},
				{Title: "Max", Width: 10},
				{Title: "Used", Width: 11},
				{Title: "Expires", Width: 16},
				{Title: "Active", Width: 6},
			},
			newFetcher: entityFetcher[Voucher]("vouchers"),
		},
		{
			Name:       ResourceDishes,
			Title:      "Menu",
			Path:       "dishes",
			SortFields: []listctl.SortField{SortCreatedAt, SortName, SortPrice, SortCategory},
			Filters: []listctl.Filter{
				"available",
				"unavailable",
				categoryFilter(CategoryStarter),
				categoryFilter(CategoryMain),
				categoryFilter(CategoryDessert),
				categoryFilter(CategoryDrink),
			},
			DefaultSortBy:    SortCreatedAt,
			DefaultSortOrder: listctl.SortDesc,
			Columns: []Column{
				{Title: "Name", Width: 24},
				{Title: "Category", Width: 10},
				{Title: "Price", Width: 10},
				{Title: "Available", Width: 9},
			},
			newFetcher: entityFetcher[Dish]("dishes"),
		},
	}
}

// Names returns the resource names in catalogue order.
func Names() []string {
	cat := Catalogue()
	out := make([]string, len(cat))
	for i, r := range cat {
		out[i] = r.Name
	}
	return out
}

// Lookup finds a resource by name, case-insensitively.
func Lookup(name string) (Resource, error) {
	for _, r := range Catalogue() {
		if strings.EqualFold(r.Name, strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return Resource{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownResource, name, strings.Join(Names(), ", "))
}

// Period is the reporting window of the orders list.
type Period string

// Reporting periods, in cycling order.
const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParamPeriod is the query parameter carrying the period.
const ParamPeriod = "period"

// Periods returns the periods in cycling order.
func Periods() []Period {
	return []Period{PeriodToday, PeriodWeek, PeriodMonth, PeriodAll}
}

// ParsePeriod parses a period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Periods(), p) {
		return p, nil
	}
	return "", fmt.Errorf("invalid period %q: must be one of today, week, month, all", s)
}

// Next returns the period after p, wrapping around.
func (p Period) Next() Period {
	ps := Periods()
	i := slices.Index(ps, p)
	return ps[(i+1)%len(ps)]
}

// Params encodes the period as query parameters. PeriodAll sends no parameter.
func (p Period) Params() url.Values {
	if p == PeriodAll || p == "" {
		return nil
	}
	return url.Values{ParamPeriod: {string(p)}}
}
