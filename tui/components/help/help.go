// Package help renders the one-line key hints and the full help overlay of
// the dashboard.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/grovetools/pulse/tui/keymap"
	"github.com/grovetools/pulse/tui/theme"
)

// Model represents an embeddable help component
type Model struct {
	Keys     keymap.Base
	ShowAll  bool
	Width    int
	Height   int
	Theme    *theme.Theme
	Title    string // Title for the full help view
	viewport viewport.Model
}

// New creates a new help model with default settings
func New(keys keymap.Base, t *theme.Theme) Model {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = false
	if t == nil {
		t = theme.DefaultTheme
	}
	return Model{
		Keys:     keys,
		Theme:    t,
		Title:    "Help",
		viewport: vp,
	}
}

// Update handles messages for the help component. While the overlay is
// open it consumes every key: help, quit and esc close it, the rest scroll.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		if m.ShowAll {
			m.setViewportContent()
		}

	case tea.KeyMsg:
		if m.ShowAll {
			if key.Matches(msg, m.Keys.Help) || key.Matches(msg, m.Keys.Quit) || msg.Type == tea.KeyEsc {
				m.Toggle()
				return m, nil
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the short hint line, or the centred overlay when ShowAll is set.
func (m Model) View() string {
	if m.ShowAll {
		content := m.viewport.View()
		if m.viewport.TotalLineCount() > m.viewport.Height {
			indicator := "↕ more"
			if m.viewport.AtTop() {
				indicator = "↓ more"
			} else if m.viewport.AtBottom() {
				indicator = "↑ more"
			}
			indicatorStyle := m.Theme.Muted.Align(lipgloss.Right).Width(m.viewport.Width)
			content = lipgloss.JoinVertical(lipgloss.Right, content, indicatorStyle.Render(indicator))
		}
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
	}

	return m.viewShort(m.Keys.ShortHelp())
}

// viewShort renders the compact, single-line help view.
func (m Model) viewShort(group []key.Binding) string {
	var pairs []string
	for _, binding := range group {
		if !binding.Enabled() {
			continue
		}
		keys := binding.Help().Key
		desc := binding.Help().Desc
		if keys != "" && desc != "" {
			pairs = append(pairs, fmt.Sprintf("%s %s",
				m.Theme.Highlight.Render(keys),
				m.Theme.Muted.Render(desc),
			))
		}
	}
	return strings.Join(pairs, m.Theme.Muted.Render(" • "))
}

// setViewportContent renders every section side by side when they fit the
// width, stacked otherwise, and sizes the viewport to the result.
func (m *Model) setViewportContent() {
	const (
		verticalMargin = 4
		gutterWidth    = 2
	)

	var blocks []string
	for _, section := range m.Keys.Sections() {
		if section.IsEmpty() {
			continue
		}
		blocks = append(blocks, m.renderSectionBox(section))
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.Theme.Colors.Orange).
		MarginBottom(1).
		Align(lipgloss.Center)

	gutter := strings.Repeat(" ", gutterWidth)
	var body string
	if len(blocks) > 0 {
		row := blocks[0]
		for _, b := range blocks[1:] {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, gutter, b)
		}
		body = row
		if lipgloss.Width(row) > m.Width {
			body = lipgloss.JoinVertical(lipgloss.Left, blocks...)
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center, titleStyle.Width(lipgloss.Width(body)).Render(m.Title), body)
	m.viewport.SetContent(content)

	// Reserve 1 line for the scroll indicator.
	m.viewport.Width = lipgloss.Width(content)
	m.viewport.Height = m.Height - verticalMargin - 1
}

// renderSectionBox renders a single section into a styled box with a title.
func (m *Model) renderSectionBox(section keymap.Section) string {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(m.Theme.Colors.Blue)

	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, binding := range section.FilterEnabled() {
		table = table.Row(
			keyStyle.Render(binding.Help().Key),
			m.Theme.Muted.Italic(true).Render(binding.Help().Desc),
		)
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(m.Theme.Colors.Orange).
		Italic(true)

	return m.Theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(section.Name),
		table.String(),
	))
}

// Toggle toggles between showing all help and short help. When showing, it
// recalculates content layout and resets the scroll position.
func (m *Model) Toggle() {
	m.ShowAll = !m.ShowAll
	if m.ShowAll {
		m.setViewportContent()
		m.viewport.GotoTop()
	}
}

// SetSize sets the dimensions of the help view
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height
}
