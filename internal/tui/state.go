package tui

// ViewState is the screen a model is showing.
type ViewState int

const (
	// ViewStateList shows the paginated list.
	ViewStateList ViewState = iota
	// ViewStateDetail shows every column of the selected row.
	ViewStateDetail
	// ViewStateQuitting is set once the model asked the program to quit.
	ViewStateQuitting
)

// Key names as reported by tea.KeyMsg.String.
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keySlash    = "/"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyLeft     = "left"
	keyRight    = "right"
	keyPgUp     = "pgup"
	keyPgDown   = "pgdown"
	keyHome     = "home"
	keyEnd      = "end"
	keyF        = "f"
	keyS        = "s"
	keyO        = "o"
	keyR        = "r"
	keyX        = "x"
	keyP        = "p"
	keyH        = "h"
	keyL        = "l"
	keyBack     = "backspace"
)
