// Package tui holds terminal setup shared by the pulse dashboard.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI forces true color output when CLICOLOR_FORCE=1 or
// COLORTERM=truecolor is set, so the dashboard keeps its colors when
// stdout is not detected as a terminal (recordings, CI snapshots).
// Call it before the first style is rendered.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
