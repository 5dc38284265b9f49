package listctl

import (
	"errors"
	"fmt"
	"strings"
)

// Query defaults.
const (
	DefaultPage         = 1
	DefaultItemsPerPage = 10
	DefaultSortField    = SortField("createdAt")
	DefaultSortOrder    = SortDesc
)

// Validation errors returned by the controller setters.
var (
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidFilter    = errors.New("invalid filter")
)

// SortOrder is the sort direction sent to the backend.
type SortOrder string

const (
	// SortAsc sorts ascending.
	SortAsc SortOrder = "asc"
	// SortDesc sorts descending.
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is one of the known orders.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// ParseSortOrder parses "asc" or "desc" (case-insensitive).
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, s)
	}
	return o, nil
}

// SortField names a backend column a list can be sorted by.
// Each resource declares its own closed set of fields.
type SortField string

// Filter is a backend filter predicate identifier such as "paid" or "role:admin".
// Each resource declares its own closed set of filters.
type Filter string

// FilterNone disables filtering and is always accepted.
const FilterNone Filter = ""

// Query is the request state of a list. Limit is fixed for the lifetime of a controller.
type Query struct {
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	Search    string    `json:"search,omitempty"`
	Filter    Filter    `json:"filter,omitempty"`
	SortBy    SortField `json:"sortBy,omitempty"`
	SortOrder SortOrder `json:"sortOrder,omitempty"`
}

// Offset returns the zero-based index of the first item on the page.
func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Result is one page of a backend collection.
// A result fully replaces the previous one; there is no incremental merge.
type Result[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
}

// normalize applies the defaults for fields the backend left out.
func (r Result[T]) normalize() Result[T] {
	if r.Items == nil {
		r.Items = []T{}
	}
	if r.TotalPages < 1 {
		r.TotalPages = 1
	}
	if r.Total < 0 {
		r.Total = 0
	}
	return r
}

// fieldSet is a closed set of accepted values. A nil set accepts anything.
type fieldSet[V ~string] map[V]struct{}

func newFieldSet[V ~string](values []V) fieldSet[V] {
	if len(values) == 0 {
		return nil
	}
	set := make(fieldSet[V], len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s fieldSet[V]) contains(v V) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}
