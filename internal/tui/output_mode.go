package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results are presented on the current terminal.
type OutputMode int

const (
	// OutputModePlain is unstyled text, for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored, non-interactive output.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen TUI.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks the output mode for stdout. plain and noColor force plain
// output; NO_COLOR, TERM=dumb and CI are honoured; forceColor styles piped output.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	return detectOutputMode(forceColor, noColor, plain, term.IsTerminal(int(os.Stdout.Fd())), os.Getenv)
}

func detectOutputMode(forceColor, noColor, plain, isTTY bool, getenv func(string) string) OutputMode {
	if plain || noColor || getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if !isTTY {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
