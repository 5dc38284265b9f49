package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// columnGap separates adjacent columns.
const columnGap = "  "

// ellipsis marks a truncated cell.
const ellipsis = "…"

// Column is a table column. Width is in terminal cells.
type Column struct {
	Title string
	Width int
}

// RowFunc returns the cell texts of an item, one per column.
type RowFunc[T any] func(item T) []string

// KeyFunc returns a stable identity for an item.
type KeyFunc[T any] func(item T) string

// Styles are the styles a Table renders with.
type Styles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
}

// DefaultStyles returns unstyled rows with a bold header and a reversed selection.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true),
		Cell:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Reverse(true),
		Empty:    lipgloss.NewStyle().Faint(true),
	}
}

// Table shows the rows of a page. It is not safe for concurrent use; Bubble Tea drives
// it from a single goroutine.
type Table[T any] struct {
	columns []Column
	row     RowFunc[T]
	key     KeyFunc[T]
	styles  Styles

	items    []T
	selected int
	// offset is the first row in the viewport.
	offset int
	height int
	width  int

	// EmptyText is shown instead of rows when there are none.
	EmptyText string
}

// NewTable creates a table. key may be nil, in which case the selection keeps its index
// across SetItems calls.
func NewTable[T any](columns []Column, row RowFunc[T], key KeyFunc[T], styles Styles) *Table[T] {
	return &Table[T]{
		columns:   columns,
		row:       row,
		key:       key,
		styles:    styles,
		EmptyText: "No results",
	}
}

// SetItems replaces the rows. The previously selected row stays selected if it is still
// present; otherwise the index is clamped.
func (t *Table[T]) SetItems(items []T) {
	var prevKey string
	hadPrev := false
	if t.key != nil && t.selected < len(t.items) {
		prevKey = t.key(t.items[t.selected])
		hadPrev = true
	}

	t.items = items
	if hadPrev {
		for i, it := range items {
			if t.key(it) == prevKey {
				t.selected = i
				t.scroll()
				return
			}
		}
	}
	t.SetSelected(t.selected)
}

// SetSize sets the viewport. height counts data rows, excluding the header.
func (t *Table[T]) SetSize(width, height int) {
	t.width = width
	t.height = max(height, 1)
	t.scroll()
}

// Update moves the selection on up/down, j/k and ctrl+home/ctrl+end. It reports whether
// the key was consumed.
func (t *Table[T]) Update(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		t.SetSelected(t.selected - 1)
	case "down", "j":
		t.SetSelected(t.selected + 1)
	case "ctrl+home", "g":
		t.SetSelected(0)
	case "ctrl+end", "G":
		t.SetSelected(len(t.items) - 1)
	default:
		return false
	}
	return true
}

// SetSelected selects the row at index, clamped to the rows.
func (t *Table[T]) SetSelected(index int) {
	switch {
	case len(t.items) == 0, index < 0:
		t.selected = 0
	case index >= len(t.items):
		t.selected = len(t.items) - 1
	default:
		t.selected = index
	}
	t.scroll()
}

// Selected returns the selected row index.
func (t *Table[T]) Selected() int {
	return t.selected
}

// SelectedItem returns the selected row. ok is false when the table is empty.
func (t *Table[T]) SelectedItem() (T, bool) {
	var zero T
	if t.selected >= len(t.items) {
		return zero, false
	}
	return t.items[t.selected], true
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	return len(t.items)
}

// Columns returns the column definitions.
func (t *Table[T]) Columns() []Column {
	return t.columns
}

// Cells returns the cell texts of item.
func (t *Table[T]) Cells(item T) []string {
	return t.row(item)
}

// scroll keeps the selection inside the viewport.
func (t *Table[T]) scroll() {
	if t.height <= 0 {
		t.offset = 0
		return
	}
	if t.selected < t.offset {
		t.offset = t.selected
	}
	if t.selected >= t.offset+t.height {
		t.offset = t.selected - t.height + 1
	}
	t.offset = max(0, min(t.offset, len(t.items)-t.height))
}

// View renders the header and the rows in the viewport.
func (t *Table[T]) View() string {
	var b strings.Builder
	titles := make([]string, len(t.columns))
	for i, c := range t.columns {
		titles[i] = c.Title
	}
	b.WriteString(t.styles.Header.Render(t.line(titles)))

	if len(t.items) == 0 {
		b.WriteString("\n")
		b.WriteString(t.styles.Empty.Render(t.EmptyText))
		return b.String()
	}

	end := len(t.items)
	if t.height > 0 {
		end = min(end, t.offset+t.height)
	}
	for i := t.offset; i < end; i++ {
		b.WriteString("\n")
		text := t.line(t.row(t.items[i]))
		if i == t.selected {
			b.WriteString(t.styles.Selected.Render(text))
		} else {
			b.WriteString(t.styles.Cell.Render(text))
		}
	}
	return b.String()
}

// line lays out cells in their columns and cuts the result to the table width.
func (t *Table[T]) line(cells []string) string {
	parts := make([]string, len(t.columns))
	for i, c := range t.columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = pad(truncate(cell, c.Width), c.Width)
	}
	out := strings.TrimRight(strings.Join(parts, columnGap), " ")
	if t.width > 0 {
		out = truncate(out, t.width)
	}
	return out
}

// truncate cuts s to width cells, ending with an ellipsis when it was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + ellipsis
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
