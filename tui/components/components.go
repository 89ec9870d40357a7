// Package components holds the small rendering helpers shared by pulse TUIs.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/pulse/tui/theme"
)

// RenderHeader creates a consistent header for TUIs
func RenderHeader(t *theme.Theme, title string, subtitle ...string) string {
	header := t.Header.Render(title)

	if len(subtitle) > 0 && subtitle[0] != "" {
		sub := t.Muted.Render(subtitle[0])
		return lipgloss.JoinVertical(lipgloss.Left, header, sub)
	}

	return header
}

// RenderStatusBar lays out left and right aligned content on one line of
// the given width. When both do not fit, only left is shown.
func RenderStatusBar(t *theme.Theme, left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return lipgloss.NewStyle().
		Foreground(t.Colors.MutedText).
		Render(left + strings.Repeat(" ", gap) + right)
}

// RenderDivider creates a horizontal divider
func RenderDivider(t *theme.Theme, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(t.Colors.Border).
		Render(strings.Repeat("─", width))
}

// RenderBox renders content in a rounded box with an optional title line.
func RenderBox(t *theme.Theme, title, content string, width int) string {
	box := t.Box.Width(width - 2)
	if title == "" {
		return box.Render(content)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, t.Title.Render(title), content))
}
