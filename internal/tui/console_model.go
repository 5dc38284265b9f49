package tui

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/bistro/internal/admin"
	"github.com/rshade/bistro/internal/api"
	listview "github.com/rshade/bistro/internal/tui/list"
)

// ConsoleOptions configures the admin console.
type ConsoleOptions struct {
	PageSize int
	Debounce time.Duration
	// Resource is the tab shown first. Empty selects the first tab.
	Resource string
	// Period is the initial reporting period of period-scoped lists.
	Period admin.Period
	Logger *zerolog.Logger
}

// ConsoleModel is the admin console: one tab per resource, each backed by its own list
// controller. Lists are created the first time their tab is shown.
type ConsoleModel struct {
	ctx       context.Context
	client    *api.Client
	opts      ConsoleOptions
	resources []admin.Resource
	lists     []*ListModel[admin.Entity]
	active    int
	period    atomic.Value // admin.Period
	view      ViewState

	width  int
	height int
}

// NewConsoleModel creates the console. No request is made until Init.
func NewConsoleModel(ctx context.Context, client *api.Client, opts ConsoleOptions) (*ConsoleModel, error) {
	if opts.Period == "" {
		opts.Period = admin.PeriodToday
	}
	resources := admin.Catalogue()
	active := 0
	if opts.Resource != "" {
		r, err := admin.Lookup(opts.Resource)
		if err != nil {
			return nil, err
		}
		for i := range resources {
			if resources[i].Name == r.Name {
				active = i
			}
		}
	}

	m := &ConsoleModel{
		ctx:       ctx,
		client:    client,
		opts:      opts,
		resources: resources,
		lists:     make([]*ListModel[admin.Entity], len(resources)),
		active:    active,
		view:      ViewStateList,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.period.Store(opts.Period)
	return m, nil
}

// Init opens the first tab.
func (m *ConsoleModel) Init() tea.Cmd {
	return m.open(m.active)
}

// Period returns the reporting period of period-scoped lists.
func (m *ConsoleModel) Period() admin.Period {
	p, _ := m.period.Load().(admin.Period)
	return p
}

func (m *ConsoleModel) periodParams() url.Values {
	return m.Period().Params()
}

// open creates the list of tab i if it does not exist yet and returns its start command.
func (m *ConsoleModel) open(i int) tea.Cmd {
	if m.lists[i] != nil {
		return nil
	}
	r := m.resources[i]

	var extra api.ParamsFunc
	if r.UsesPeriod {
		extra = m.periodParams
	}
	cfg := r.ControllerConfig(m.client, extra, m.opts.PageSize)
	if r.UsesPeriod {
		cfg.Dependencies = []any{m.Period()}
	}
	cfg.Debounce = m.opts.Debounce
	cfg.Logger = m.opts.Logger

	l := NewListModel(m.ctx, cfg, ListOptions[admin.Entity]{
		Title:   r.Title,
		Columns: tableColumns(r.Columns),
		Row:     func(e admin.Entity) []string { return e.Row() },
		Key:     func(e admin.Entity) string { return e.Key() },
	})
	l.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 2})
	m.lists[i] = l
	return l.Init()
}

func tableColumns(cols []admin.Column) []listview.Column {
	out := make([]listview.Column, len(cols))
	for i, c := range cols {
		out[i] = listview.Column{Title: c.Title, Width: c.Width}
	}
	return out
}

// Active returns the list of the visible tab.
func (m *ConsoleModel) Active() *ListModel[admin.Entity] {
	return m.lists[m.active]
}

// Update routes key presses to the visible tab and everything else to every open list.
func (m *ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 2}
		for _, l := range m.lists {
			if l != nil {
				l.Update(inner)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	var cmds []tea.Cmd
	for _, l := range m.lists {
		if l == nil {
			continue
		}
		_, cmd := l.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *ConsoleModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	active := m.Active()
	if key == keyCtrlC {
		return m.quit()
	}
	if active != nil && active.Searching() {
		_, cmd := active.Update(msg)
		return cmd
	}

	switch key {
	case keyQuit:
		return m.quit()
	case keyTab:
		return m.switchTab(1)
	case keyShiftTab:
		return m.switchTab(-1)
	case keyP:
		if m.resources[m.active].UsesPeriod {
			m.cyclePeriod()
			return nil
		}
	}

	if active == nil {
		return nil
	}
	_, cmd := active.Update(msg)
	return cmd
}

func (m *ConsoleModel) switchTab(delta int) tea.Cmd {
	n := len(m.resources)
	m.active = ((m.active+delta)%n + n) % n
	return m.open(m.active)
}

// cyclePeriod moves to the next period and refetches every list that depends on it.
func (m *ConsoleModel) cyclePeriod() {
	next := m.Period().Next()
	m.period.Store(next)
	for i, l := range m.lists {
		if l != nil && m.resources[i].UsesPeriod {
			l.Controller().SetDependencies(next)
		}
	}
}

func (m *ConsoleModel) quit() tea.Cmd {
	m.Close()
	m.view = ViewStateQuitting
	return tea.Quit
}

// Close stops every open list.
func (m *ConsoleModel) Close() {
	for _, l := range m.lists {
		if l != nil {
			l.Close()
		}
	}
}

// View renders the tab bar and the visible list.
func (m *ConsoleModel) View() string {
	if m.view == ViewStateQuitting {
		return ""
	}

	tabs := make([]string, len(m.resources))
	for i, r := range m.resources {
		if i == m.active {
			tabs[i] = ActiveTabStyle.Render(r.Title)
		} else {
			tabs[i] = TabStyle.Render(r.Title)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")
	if m.resources[m.active].UsesPeriod {
		b.WriteString(LabelStyle.Render("Period: ") + InfoStyle.Render(string(m.Period())) +
			SubtleStyle.Render("  (p to change)"))
	}
	b.WriteString("\n")
	if l := m.Active(); l != nil {
		b.WriteString(l.View())
	}
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("tab/shift+tab switch list"))
	return b.String()
}
