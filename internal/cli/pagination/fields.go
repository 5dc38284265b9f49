package pagination

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/bistro/internal/listctl"
)

// ValidateSortField returns listctl.ErrInvalidSortField, listing the accepted fields,
// when field is not in valid. An empty field is accepted and means the default.
func ValidateSortField(field listctl.SortField, valid []listctl.SortField) error {
	if field == "" {
		return nil
	}
	if slices.Contains(valid, field) {
		return nil
	}
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return fmt.Errorf("%w %q, valid fields: %s", listctl.ErrInvalidSortField, field, strings.Join(names, ", "))
}

// ValidateFilter returns listctl.ErrInvalidFilter, listing the accepted filters, when
// filter is not in valid. listctl.FilterNone is always accepted.
func ValidateFilter(filter listctl.Filter, valid []listctl.Filter) error {
	if filter == listctl.FilterNone {
		return nil
	}
	if slices.Contains(valid, filter) {
		return nil
	}
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return fmt.Errorf("%w %q, valid filters: %s", listctl.ErrInvalidFilter, filter, strings.Join(names, ", "))
}
