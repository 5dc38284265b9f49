package pagination

// PaginationMeta contains metadata about paginated results.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewPaginationMeta builds metadata for one page of a collection as reported by the backend.
func NewPaginationMeta(page, pageSize, totalPages, totalItems int) PaginationMeta {
	if page < MinPage {
		page = MinPage
	}
	if totalPages < 1 {
		totalPages = 1
	}

	return PaginationMeta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}
