package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/bistro/internal/listctl"
	listview "github.com/rshade/bistro/internal/tui/list"
)

// StateMsg carries a controller snapshot into the Bubble Tea loop.
type StateMsg[T any] struct {
	// Name is the list the snapshot belongs to.
	Name  string
	State listctl.State[T]
}

// ListOptions describes how a list is laid out.
type ListOptions[T any] struct {
	Title   string
	Columns []listview.Column
	Row     listview.RowFunc[T]
	Key     listview.KeyFunc[T]
}

// stateFeed hands snapshots from the controller goroutines to the UI. It holds at most
// one snapshot; a newer one replaces an unread older one.
type stateFeed[T any] struct {
	ch   chan listctl.State[T]
	done chan struct{}
	once sync.Once
}

func newStateFeed[T any]() *stateFeed[T] {
	return &stateFeed[T]{
		ch:   make(chan listctl.State[T], 1),
		done: make(chan struct{}),
	}
}

func (f *stateFeed[T]) publish(s listctl.State[T]) {
	select {
	case <-f.ch:
	default:
	}
	select {
	case f.ch <- s:
	default:
	}
}

func (f *stateFeed[T]) close() {
	f.once.Do(func() { close(f.done) })
}

// ListModel is an interactive view of one paginated list.
type ListModel[T any] struct {
	name  string
	title string
	ctl   *listctl.Controller[T]
	feed  *stateFeed[T]

	sortFields []listctl.SortField
	filters    []listctl.Filter

	state     listctl.State[T]
	table     *listview.Table[T]
	search    textinput.Model
	searching bool
	loading   *LoadingState
	pager     paginator.Model
	view      ViewState
	notice    string

	width  int
	height int
}

// NewListModel starts a controller for cfg and wraps it in a view. cfg.OnChange, if set,
// is still called. The controller lives until ctx is done or Close is called.
func NewListModel[T any](ctx context.Context, cfg listctl.Config[T], opts ListOptions[T]) *ListModel[T] {
	feed := newStateFeed[T]()
	onChange := cfg.OnChange
	cfg.OnChange = func(s listctl.State[T]) {
		feed.publish(s)
		if onChange != nil {
			onChange(s)
		}
	}

	styles := listview.Styles{
		Header:   TableHeaderStyle,
		Cell:     ValueStyle,
		Selected: TableSelectedStyle,
		Empty:    SubtleStyle,
	}

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.PerPage = 1
	pager.ActiveDot = InfoStyle.Render("•")
	pager.InactiveDot = SubtleStyle.Render("•")

	title := opts.Title
	if title == "" {
		title = cfg.Name
	}

	m := &ListModel[T]{
		name:       cfg.Name,
		title:      title,
		feed:       feed,
		sortFields: slices.Clone(cfg.SortFields),
		filters:    append([]listctl.Filter{listctl.FilterNone}, cfg.Filters...),
		table:      listview.NewTable(opts.Columns, opts.Row, opts.Key, styles),
		search:     newSearchInput(),
		loading:    NewLoadingState(),
		pager:      pager,
		view:       ViewStateList,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.ctl = listctl.New(ctx, cfg)
	m.apply(m.ctl.State())
	m.resize()
	return m
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.Prompt = "/ "
	ti.CharLimit = searchInputCharLimit
	ti.Width = searchInputWidth
	return ti
}

// Init starts the spinner and waits for the first snapshot.
func (m *ListModel[T]) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.waitForState())
}

// waitForState blocks until the controller publishes a snapshot.
func (m *ListModel[T]) waitForState() tea.Cmd {
	feed, name := m.feed, m.name
	return func() tea.Msg {
		select {
		case s := <-feed.ch:
			return StateMsg[T]{Name: name, State: s}
		case <-feed.done:
			return nil
		}
	}
}

// Update handles key presses, window resizes, spinner ticks and snapshots of this list.
func (m *ListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg[T]:
		if msg.Name != m.name {
			return m, nil
		}
		m.apply(msg.State)
		return m, m.waitForState()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.loading.Update(msg)
}

func (m *ListModel[T]) apply(s listctl.State[T]) {
	m.state = s
	m.table.SetItems(s.Items)
	m.pager.SetTotalPages(max(s.TotalPages, 1))
	m.pager.Page = max(s.Page-1, 0)
	if s.Err == nil && !s.Loading {
		m.notice = ""
	}
}

func (m *ListModel[T]) resize() {
	m.table.SetSize(max(m.width-borderPadding, 1), max(m.height-chromeHeight, 1))
}

func (m *ListModel[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == keyCtrlC {
		return m.quit()
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.view == ViewStateDetail {
		switch key {
		case keyEsc, keyEnter, keyBack:
			m.view = ViewStateList
		case keyQuit:
			return m.quit()
		}
		return nil
	}
	if m.table.Update(msg) {
		return nil
	}

	switch key {
	case keyQuit:
		return m.quit()
	case keySlash:
		m.searching = true
		return m.search.Focus()
	case keyEnter:
		if _, ok := m.table.SelectedItem(); ok {
			m.view = ViewStateDetail
		}
	case keyRight, keyL, keyPgDown:
		m.ctl.NextPage()
	case keyLeft, keyH, keyPgUp:
		m.ctl.PrevPage()
	case keyHome:
		m.ctl.SetPage(1)
	case keyEnd:
		m.ctl.SetPage(m.state.TotalPages)
	case keyF:
		m.cycleFilter()
	case keyS:
		m.cycleSort()
	case keyO:
		cur := m.ctl.State()
		m.setSort(cur.SortBy, cur.SortOrder.Toggle())
	case keyR:
		m.ctl.Refetch()
	case keyX:
		m.search.SetValue("")
		m.ctl.ResetFilters()
	}
	return nil
}

func (m *ListModel[T]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyEnter, keyEsc:
		m.searching = false
		m.search.Blur()
		return nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.ctl.SetSearch(v)
	}
	return cmd
}

func (m *ListModel[T]) cycleFilter() {
	i := slices.Index(m.filters, m.ctl.State().Filter)
	next := m.filters[(i+1)%len(m.filters)]
	if err := m.ctl.SetFilter(next); err != nil {
		m.notice = err.Error()
	}
}

func (m *ListModel[T]) cycleSort() {
	if len(m.sortFields) == 0 {
		return
	}
	cur := m.ctl.State()
	i := slices.Index(m.sortFields, cur.SortBy)
	m.setSort(m.sortFields[(i+1)%len(m.sortFields)], cur.SortOrder)
}

func (m *ListModel[T]) setSort(field listctl.SortField, order listctl.SortOrder) {
	if err := m.ctl.SetSort(field, order); err != nil {
		m.notice = err.Error()
	}
}

func (m *ListModel[T]) quit() tea.Cmd {
	m.Close()
	m.view = ViewStateQuitting
	return tea.Quit
}

// Close stops the controller and releases the pending snapshot wait.
func (m *ListModel[T]) Close() {
	m.ctl.Close()
	m.feed.close()
}

// Name returns the list name.
func (m *ListModel[T]) Name() string {
	return m.name
}

// Searching reports whether the search input has focus.
func (m *ListModel[T]) Searching() bool {
	return m.searching
}

// Controller returns the controller behind the view.
func (m *ListModel[T]) Controller() *listctl.Controller[T] {
	return m.ctl
}

// State returns the snapshot the view is showing.
func (m *ListModel[T]) State() listctl.State[T] {
	return m.state
}

// View renders the list, or the detail of the selected row.
func (m *ListModel[T]) View() string {
	switch m.view {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	if m.state.Err != nil {
		b.WriteString(ErrorBannerStyle.Render("Failed to load " + m.title + ": " + m.state.Err.Error()))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(WarningStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.footerView())
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(listHelp))
	return b.String()
}

const listHelp = "/ search  f filter  s sort  o order  ←/→ page  r refresh  x reset  enter details  q quit"

func (m *ListModel[T]) headerView() string {
	parts := []string{HeaderStyle.Render(m.title)}
	if m.state.Filter != listctl.FilterNone {
		parts = append(parts, LabelStyle.Render("filter:")+" "+ValueStyle.Render(string(m.state.Filter)))
	}
	if m.state.SortBy != "" {
		parts = append(parts, LabelStyle.Render("sort:")+" "+
			ValueStyle.Render(fmt.Sprintf("%s %s", m.state.SortBy, sortArrow(m.state.SortOrder))))
	}
	return strings.Join(parts, "  ")
}

func (m *ListModel[T]) footerView() string {
	status := fmt.Sprintf("Page %d/%d - %d items", m.state.Page, max(m.state.TotalPages, 1), m.state.TotalItems)
	line := m.pager.View() + "  " + SubtleStyle.Render(status)
	switch m.state.Phase {
	case listctl.PhaseFetching:
		line += "  " + m.loading.View()
	case listctl.PhaseDebouncing:
		line += "  " + SubtleStyle.Render("typing...")
	}
	return line
}

func (m *ListModel[T]) detailView() string {
	item, ok := m.table.SelectedItem()
	if !ok {
		return ""
	}
	cells := m.table.Cells(item)
	cols := m.table.Columns()

	labelWidth := 0
	for _, c := range cols {
		labelWidth = max(labelWidth, lipgloss.Width(c.Title))
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title + " detail"))
	for i, c := range cols {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		b.WriteString("\n")
		b.WriteString(LabelStyle.Width(labelWidth + 2).Render(c.Title + ":"))
		b.WriteString(ValueStyle.Render(v))
	}
	box := BoxStyle.Width(max(m.width-borderPadding, 1)).Render(b.String())
	return box + "\n" + SubtleStyle.Render("esc back  q quit")
}

func sortArrow(o listctl.SortOrder) string {
	if o == listctl.SortAsc {
		return "↑"
	}
	return "↓"
}
