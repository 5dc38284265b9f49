package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 24

	// borderPadding is the horizontal space taken by a rounded border plus padding.
	borderPadding = 4

	// chromeHeight is the number of rows around the list: tabs, header, column titles,
	// footer, status bar and search input.
	chromeHeight = 8

	searchInputCharLimit = 64
	searchInputWidth     = 40
)

// Palette.
const (
	colorAccent   = lipgloss.Color("57")
	colorSelected = lipgloss.Color("229")
	colorSubtle   = lipgloss.Color("241")
	colorInfo     = lipgloss.Color("39")
	colorWarning  = lipgloss.Color("214")
	colorCritical = lipgloss.Color("196")
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	LabelStyle  = lipgloss.NewStyle().Bold(true)
	ValueStyle  = lipgloss.NewStyle()
	SubtleStyle = lipgloss.NewStyle().Foreground(colorSubtle)
	InfoStyle   = lipgloss.NewStyle().Foreground(colorInfo)

	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCritical)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	TableHeaderStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	TableSelectedStyle = lipgloss.NewStyle().Foreground(colorSelected).Background(colorAccent)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(colorCritical).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorCritical).
				PaddingLeft(1)

	TabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(colorSubtle)
	ActiveTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(colorSelected).Background(colorAccent)
)
