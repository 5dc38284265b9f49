// Package listctl provides the paginated list controller shared by every admin list view.
//
// A Controller owns the query state of one list (page, search, filter, sort) and keeps a
// backend collection in sync with it through a caller-supplied FetchFunc:
//   - Search edits are debounced; only the last value in a burst reaches the backend
//   - Page, filter, sort and external dependency changes fetch immediately
//   - Every fetch carries a sequence token and stale responses are discarded
//   - Fetch failures never escape the controller; they empty the list and set State.Err
//
// The controller is a small state machine with three phases (idle, debouncing, fetching)
// and is safe for concurrent use by a view and its background fetch goroutines.
package listctl
