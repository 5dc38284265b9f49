package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bistro/internal/listctl"
)

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  PaginationParams
		wantErr error
	}{
		{name: "defaults", params: *NewPaginationParams()},
		{name: "page 3", params: PaginationParams{Page: 3, PageSize: 20}},
		{name: "all", params: PaginationParams{Page: 1, PageSize: 100, All: true}},
		{name: "page zero", params: PaginationParams{Page: 0, PageSize: 10}, wantErr: ErrInvalidPage},
		{name: "page size zero", params: PaginationParams{Page: 1, PageSize: 0}, wantErr: ErrInvalidPageSize},
		{name: "page size too big", params: PaginationParams{Page: 1, PageSize: 101}, wantErr: ErrInvalidPageSize},
		{name: "page with all", params: PaginationParams{Page: 2, PageSize: 10, All: true}, wantErr: ErrPageWithAll},
		{
			name:    "bad order",
			params:  PaginationParams{Page: 1, PageSize: 10, SortOrder: "up"},
			wantErr: listctl.ErrInvalidSortOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name      string
		sortStr   string
		wantField listctl.SortField
		wantOrder listctl.SortOrder
		wantErr   error
	}{
		{name: "empty", sortStr: "", wantField: "", wantOrder: listctl.SortDesc},
		{name: "field only", sortStr: "total", wantField: "total", wantOrder: listctl.SortDesc},
		{name: "field and order asc", sortStr: "total:asc", wantField: "total", wantOrder: listctl.SortAsc},
		{name: "upper case order", sortStr: "name:DESC", wantField: "name", wantOrder: listctl.SortDesc},
		{name: "invalid format", sortStr: "field:order:extra", wantErr: ErrInvalidSortFormat},
		{name: "empty field", sortStr: ":asc", wantErr: ErrEmptySortField},
		{name: "invalid order", sortStr: "total:invalid", wantErr: listctl.ErrInvalidSortOrder},
		{name: "missing order", sortStr: "total:", wantErr: listctl.ErrInvalidSortOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, order, err := ParseSort(tt.sortStr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name                               string
		page, pageSize, totalPages, totals int
		want                               PaginationMeta
	}{
		{
			name: "first page", page: 1, pageSize: 10, totalPages: 5, totals: 42,
			want: PaginationMeta{CurrentPage: 1, PageSize: 10, TotalPages: 5, TotalItems: 42, HasNext: true},
		},
		{
			name: "middle page", page: 3, pageSize: 10, totalPages: 5, totals: 42,
			want: PaginationMeta{
				CurrentPage: 3, PageSize: 10, TotalPages: 5, TotalItems: 42,
				HasPrevious: true, HasNext: true,
			},
		},
		{
			name: "last page", page: 5, pageSize: 10, totalPages: 5, totals: 42,
			want: PaginationMeta{CurrentPage: 5, PageSize: 10, TotalPages: 5, TotalItems: 42, HasPrevious: true},
		},
		{
			name: "empty collection", page: 1, pageSize: 10, totalPages: 0, totals: 0,
			want: PaginationMeta{CurrentPage: 1, PageSize: 10, TotalPages: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaginationMeta(tt.page, tt.pageSize, tt.totalPages, tt.totals))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	valid := []listctl.SortField{"createdAt", "total"}

	require.NoError(t, ValidateSortField("", valid))
	require.NoError(t, ValidateSortField("total", valid))

	err := ValidateSortField("price", valid)
	require.ErrorIs(t, err, listctl.ErrInvalidSortField)
	assert.Contains(t, err.Error(), "createdAt, total")
}

func TestValidateFilter(t *testing.T) {
	valid := []listctl.Filter{"paid", "pending"}

	require.NoError(t, ValidateFilter(listctl.FilterNone, valid))
	require.NoError(t, ValidateFilter("paid", valid))

	err := ValidateFilter("archived", valid)
	require.ErrorIs(t, err, listctl.ErrInvalidFilter)
	assert.Contains(t, err.Error(), "paid, pending")
}
