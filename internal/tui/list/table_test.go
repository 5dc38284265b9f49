package listview_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listview "github.com/rshade/bistro/internal/tui/list"
)

type dish struct {
	id   string
	name string
}

func newDishTable(keyed bool) *listview.Table[dish] {
	var key listview.KeyFunc[dish]
	if keyed {
		key = func(d dish) string { return d.id }
	}
	return listview.NewTable(
		[]listview.Column{{Title: "ID", Width: 4}, {Title: "Name", Width: 8}},
		func(d dish) []string { return []string{d.id, d.name} },
		key,
		listview.DefaultStyles(),
	)
}

func dishes(ids ...string) []dish {
	out := make([]dish, len(ids))
	for i, id := range ids {
		out[i] = dish{id: id, name: "dish " + id}
	}
	return out
}

func TestTable_Navigation(t *testing.T) {
	tbl := newDishTable(false)
	tbl.SetItems(dishes("a", "b", "c"))

	assert.True(t, tbl.Update(tea.KeyMsg{Type: tea.KeyDown}))
	assert.Equal(t, 1, tbl.Selected())
	assert.True(t, tbl.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}))
	assert.True(t, tbl.Update(tea.KeyMsg{Type: tea.KeyDown}))
	assert.Equal(t, 2, tbl.Selected(), "stops at the last row")

	assert.True(t, tbl.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}))
	assert.Equal(t, 1, tbl.Selected())
	assert.True(t, tbl.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}))
	assert.Equal(t, 0, tbl.Selected())

	assert.False(t, tbl.Update(tea.KeyMsg{Type: tea.KeyRight}))
}

func TestTable_SetItemsKeepsSelectionByKey(t *testing.T) {
	tbl := newDishTable(true)
	tbl.SetItems(dishes("a", "b", "c"))
	tbl.SetSelected(1)

	tbl.SetItems(dishes("x", "y", "b"))
	assert.Equal(t, 2, tbl.Selected())

	tbl.SetItems(dishes("z"))
	assert.Equal(t, 0, tbl.Selected(), "clamped when the row is gone")

	tbl.SetItems(nil)
	_, ok := tbl.SelectedItem()
	assert.False(t, ok)
}

func TestTable_SetItemsWithoutKeyClamps(t *testing.T) {
	tbl := newDishTable(false)
	tbl.SetItems(dishes("a", "b", "c"))
	tbl.SetSelected(2)
	tbl.SetItems(dishes("x", "y"))
	assert.Equal(t, 1, tbl.Selected())

	item, ok := tbl.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "y", item.id)
}

func TestTable_ViewScrollsToSelection(t *testing.T) {
	tbl := newDishTable(true)
	tbl.SetSize(40, 2)
	tbl.SetItems(dishes("a", "b", "c", "d"))
	tbl.SetSelected(3)

	lines := strings.Split(tbl.View(), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "dish c")
	assert.Contains(t, lines[2], "dish d")
}

func TestTable_ViewTruncatesCells(t *testing.T) {
	tbl := listview.NewTable(
		[]listview.Column{{Title: "Name", Width: 6}},
		func(s string) []string { return []string{s} },
		nil,
		listview.DefaultStyles(),
	)
	tbl.SetItems([]string{"Grilled salmon"})
	assert.Contains(t, tbl.View(), "Grill…")
}

func TestTable_Empty(t *testing.T) {
	tbl := newDishTable(true)
	tbl.EmptyText = "Nothing here"
	assert.Contains(t, tbl.View(), "Nothing here")
	assert.Equal(t, 0, tbl.Len())
}
