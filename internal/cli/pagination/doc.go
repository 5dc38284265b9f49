// Package pagination validates the list flags of the CLI and builds the pagination
// metadata printed with structured output.
//
// It contains:
//   - PaginationParams: --page, --page-size and --sort parsing and validation
//   - PaginationMeta: response metadata derived from a controller snapshot
//   - ValidateSortField and ValidateFilter: checks against a resource's closed sets
package pagination
