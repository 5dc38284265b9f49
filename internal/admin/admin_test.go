package admin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bistro/internal/admin"
	"github.com/rshade/bistro/internal/api"
	"github.com/rshade/bistro/internal/listctl"
)

func TestLookup(t *testing.T) {
	r, err := admin.Lookup("Orders")
	require.NoError(t, err)
	assert.Equal(t, admin.ResourceOrders, r.Name)
	assert.True(t, r.UsesPeriod)

	_, err = admin.Lookup("tables")
	require.ErrorIs(t, err, admin.ErrUnknownResource)
	assert.Contains(t, err.Error(), "orders, users, vouchers, dishes")
}

func TestCatalogue_Consistent(t *testing.T) {
	for _, r := range admin.Catalogue() {
		t.Run(r.Name, func(t *testing.T) {
			assert.NotEmpty(t, r.Title)
			assert.NotEmpty(t, r.Path)
			assert.True(t, r.HasSortField(r.DefaultSortBy), "default sort must be a sort field")
			assert.True(t, r.DefaultSortOrder.Valid())
			assert.True(t, r.HasFilter(listctl.FilterNone))
			assert.Len(t, r.Headers(), len(r.Columns))
		})
	}
}

func TestResource_FiltersAndSorts(t *testing.T) {
	users, err := admin.Lookup(admin.ResourceUsers)
	require.NoError(t, err)
	assert.True(t, users.HasFilter("role:admin"))
	assert.False(t, users.HasFilter("paid"))
	assert.True(t, users.HasSortField(admin.SortEmail))
	assert.False(t, users.HasSortField(admin.SortPrice))

	dishes, err := admin.Lookup(admin.ResourceDishes)
	require.NoError(t, err)
	assert.True(t, dishes.HasFilter("category:dessert"))
}

func TestRowsMatchColumns(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rows := map[string]admin.Entity{
		admin.ResourceUsers: admin.User{ID: "u1", Name: "An", Email: "an@example.com", Role: admin.RoleStaff, CreatedAt: created},
		admin.ResourceOrders: admin.Order{
			ID: "o1", TableNumber: 4, Status: admin.OrderPaid, Total: decimal.RequireFromString("1234.5"),
			ItemCount: 3, CreatedAt: created,
		},
		admin.ResourceVouchers: admin.Voucher{ID: "v1", Code: "SPRING10", DiscountPercent: decimal.NewFromInt(10)},
		admin.ResourceDishes:   admin.Dish{ID: "d1", Name: "Pho", Category: admin.CategoryMain, Price: decimal.NewFromInt(12)},
	}

	for _, r := range admin.Catalogue() {
		e, ok := rows[r.Name]
		require.True(t, ok, r.Name)
		assert.Len(t, e.Row(), len(r.Columns), r.Name)
	}

	order := rows[admin.ResourceOrders].Row()
	assert.Equal(t, "1,234.50", order[5])
	assert.Equal(t, "4", order[1])
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"12", "12.00"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-42.125", "-42.13"},
		{"-0.001", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, admin.FormatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatCountAndPercent(t *testing.T) {
	assert.Equal(t, "18,248", admin.FormatCount(18248))
	assert.Equal(t, "12.5%", admin.FormatPercent(decimal.RequireFromString("12.50")))
}

func TestVoucher(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	v := admin.Voucher{
		DiscountPercent: decimal.NewFromInt(20),
		MaxDiscount:     decimal.NewFromInt(15),
		UsageLimit:      100,
		UsedCount:       40,
		ExpiresAt:       now.Add(24 * time.Hour),
	}

	assert.Equal(t, "40/100", v.Usage())
	assert.False(t, v.Expired(now))
	assert.True(t, v.Expired(now.Add(48*time.Hour)))
	assert.True(t, decimal.NewFromInt(10).Equal(v.Discount(decimal.NewFromInt(50))))
	assert.True(t, decimal.NewFromInt(15).Equal(v.Discount(decimal.NewFromInt(500))), "capped at max discount")

	v.UsedCount = 100
	assert.True(t, v.Expired(now), "usage limit reached")

	v.UsageLimit = 0
	assert.Equal(t, "100", v.Usage())
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, admin.PeriodWeek, admin.PeriodToday.Next())
	assert.Equal(t, admin.PeriodToday, admin.PeriodAll.Next())

	p, err := admin.ParsePeriod(" Month ")
	require.NoError(t, err)
	assert.Equal(t, admin.PeriodMonth, p)

	_, err = admin.ParsePeriod("year")
	require.Error(t, err)

	assert.Equal(t, "today", admin.PeriodToday.Params().Get(admin.ParamPeriod))
	assert.Nil(t, admin.PeriodAll.Params())
}

func TestResource_Fetcher(t *testing.T) {
	var gotPeriod, gotSort string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		gotPeriod = r.URL.Query().Get(admin.ParamPeriod)
		gotSort = r.URL.Query().Get("sortBy")
		_, _ = w.Write([]byte(`{"items":[{"id":"o1","tableNumber":7,"status":"served","total":"18.40"}],` +
			`"total":1,"totalPages":1,"page":1}`))
	}))
	defer server.Close()

	client := api.NewClient(api.ClientConfig{BaseURL: server.URL})
	orders, err := admin.Lookup(admin.ResourceOrders)
	require.NoError(t, err)

	cfg := orders.ControllerConfig(client, admin.PeriodWeek.Params, 20)
	assert.Equal(t, 20, cfg.ItemsPerPage)

	res, err := cfg.Fetch(context.Background(), listctl.Query{
		Page: 1, Limit: 20, SortBy: admin.SortTotal, SortOrder: listctl.SortAsc,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)

	order, ok := res.Items[0].(admin.Order)
	require.True(t, ok)
	assert.Equal(t, 7, order.TableNumber)
	assert.True(t, decimal.RequireFromString("18.4").Equal(order.Total))
	assert.Equal(t, "week", gotPeriod)
	assert.Equal(t, "total", gotSort)
}
