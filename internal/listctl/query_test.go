package listctl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bistro/internal/listctl"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    listctl.SortOrder
		wantErr bool
	}{
		{input: "asc", want: listctl.SortAsc},
		{input: "DESC", want: listctl.SortDesc},
		{input: " Asc ", want: listctl.SortAsc},
		{input: "", wantErr: true},
		{input: "ascending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := listctl.ParseSortOrder(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, listctl.ErrInvalidSortOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortOrderToggle(t *testing.T) {
	assert.Equal(t, listctl.SortDesc, listctl.SortAsc.Toggle())
	assert.Equal(t, listctl.SortAsc, listctl.SortDesc.Toggle())
}

func TestQueryOffset(t *testing.T) {
	assert.Equal(t, 0, listctl.Query{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, listctl.Query{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, listctl.Query{Page: 0, Limit: 10}.Offset())
}
