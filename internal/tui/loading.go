package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadingState is the spinner shown while a fetch is in flight.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle
	return &LoadingState{spinner: s, message: "Loading..."}
}

// Init starts the spinner animation.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner. Ticks of other spinners are ignored.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner and its message.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}
