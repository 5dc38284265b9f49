// Package listview renders one page of a list as a fixed-width table with a movable
// selection. The selection follows the selected row across refreshes when the rows carry
// a stable key, so a page that is refetched in place does not lose the cursor.
package listview
