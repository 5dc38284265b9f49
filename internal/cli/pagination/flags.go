package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/bistro/internal/listctl"
)

// Validation limits.
const (
	DefaultPage     = listctl.DefaultPage
	MinPage         = 1
	DefaultPageSize = listctl.DefaultItemsPerPage
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrInvalidPageSize   = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'total:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrPageWithAll       = errors.New("--page cannot be combined with --all")
)

// PaginationParams holds the pagination flags of the list command.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of items per page.
	PageSize int

	// All walks every page instead of one.
	All bool

	// SortField is empty when the resource default applies.
	SortField listctl.SortField

	// SortOrder is the sort direction.
	SortOrder listctl.SortOrder
}

// NewPaginationParams creates a PaginationParams with default values.
func NewPaginationParams() *PaginationParams {
	return &PaginationParams{
		Page:      DefaultPage,
		PageSize:  DefaultPageSize,
		SortOrder: listctl.DefaultSortOrder,
	}
}

// Validate checks that the parameters are within bounds and consistent.
func (p PaginationParams) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w, got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w, got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.All && p.Page != DefaultPage {
		return ErrPageWithAll
	}
	if p.SortOrder != "" && !p.SortOrder.Valid() {
		return fmt.Errorf("%w: got %q", listctl.ErrInvalidSortOrder, p.SortOrder)
	}
	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "total", "createdAt:desc", "name:asc".
// An empty string yields an empty field and the default order.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field listctl.SortField, order listctl.SortOrder, err error) {
	if strings.TrimSpace(sortStr) == "" {
		return "", listctl.DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		// Just field name, use default order
		order = listctl.DefaultSortOrder
	case sortPartsMax:
		order, err = listctl.ParseSortOrder(parts[1])
		if err != nil {
			return "", "", err
		}
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	field = listctl.SortField(strings.TrimSpace(parts[0]))
	if field == "" {
		return "", "", ErrEmptySortField
	}
	return field, order, nil
}
