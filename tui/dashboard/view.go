package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/pkg/format"
	"github.com/grovetools/pulse/tui/components"
	"github.com/grovetools/pulse/tui/theme"
)

func (m *Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		components.RenderHeader(m.theme, "Pulse", "Software delivery KPIs"),
		m.renderTabs(),
		components.RenderDivider(m.theme, width),
	}

	if !m.hasSnapshot {
		sections = append(sections, m.theme.Muted.Render("Waiting for data..."))
	} else if phase, ok := m.view.Phase(); ok {
		sections = append(sections, m.renderPhase(phase, width))
	} else {
		sections = append(sections, m.renderOverview(width))
	}

	if m.err != nil {
		sections = append(sections, m.theme.Error.Render(theme.IconStatusFailed+" "+m.err.Error()))
	}
	if m.notice != "" {
		sections = append(sections, m.theme.Info.Render(m.notice))
	}

	sections = append(sections,
		components.RenderDivider(m.theme, width),
		m.renderFooter(width),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(Views))
	for i, v := range Views {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		if v == m.view {
			tabs[i] = m.theme.ActiveTab.Render(label)
		} else {
			tabs[i] = m.theme.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderOverview(width int) string {
	cards := m.renderCards(overviewCards(m.snapshot.Overall), width)

	rows := store.PhaseSummary(m.snapshot)
	now := m.now()
	barWidth := width - 40
	if barWidth < 10 {
		barWidth = 10
	}

	lines := []string{m.theme.Title.Render("Phases")}
	for _, row := range rows {
		status := string(row.Status)
		style := m.theme.StatusStyle(status)
		line := fmt.Sprintf("%s %-8s %s %4s  %s",
			style.Render(theme.StatusIcon(status)),
			row.Phase.Title(),
			m.renderBar(float64(row.Progress), barWidth),
			pct(row.Progress),
			style.Render(status),
		)
		if t := m.snapshot.Phases.LastUpdated(row.Phase); !t.IsZero() {
			line += "  " + m.theme.Muted.Render(format.FormatAgo(t, now))
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, "", strings.Join(lines, "\n"))
}

func (m *Model) renderPhase(phase store.Phase, width int) string {
	cards := m.renderCards(phaseCards(phase, m.snapshot.Phases), width)

	bars := phaseBars(phase, m.snapshot.Phases)
	labelWidth := 0
	for _, b := range bars {
		if len(b.Label) > labelWidth {
			labelWidth = len(b.Label)
		}
	}
	barWidth := width - labelWidth - 10
	if barWidth < 10 {
		barWidth = 10
	}

	lines := make([]string, len(bars))
	for i, b := range bars {
		lines[i] = fmt.Sprintf("%s  %s %s",
			m.theme.Muted.Render(fmt.Sprintf("%-*s", labelWidth, b.Label)),
			m.renderBar(b.Percent, barWidth),
			m.theme.StatusStyle(b.Status).Render(fmt.Sprintf("%4s", pct(format.Round(b.Percent)))),
		)
	}

	updated := m.theme.Muted.Render("Last updated: " + m.updatedLabel(m.snapshot.Phases.LastUpdated(phase)))
	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		"",
		m.theme.Title.Render(phase.Title()+" metrics"),
		strings.Join(lines, "\n"),
		"",
		updated,
	)
}

// renderCards lays cards out in a grid of up to four columns.
func (m *Model) renderCards(cards []Card, width int) string {
	cols := 4
	switch {
	case width < 60:
		cols = 1
	case width < 100:
		cols = 2
	}
	cardWidth := width / cols

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := start + cols
		if end > len(cards) {
			end = len(cards)
		}
		rendered := make([]string, 0, cols)
		for _, c := range cards[start:end] {
			rendered = append(rendered, m.renderCard(c, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCard(c Card, width int) string {
	value := m.theme.Bold.Render(c.Value)
	if c.Status != "" {
		value = m.theme.StatusStyle(c.Status).Bold(true).Render(c.Value)
	}
	return components.RenderBox(m.theme, "", lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Muted.Render(c.Title),
		value,
		m.theme.Muted.Italic(true).Render(c.Description),
	), width)
}

func (m *Model) renderBar(percent float64, width int) string {
	bar := m.bar
	bar.Width = width
	return bar.ViewAs(percent / 100)
}

func (m *Model) renderFooter(width int) string {
	mode := "live"
	if m.local {
		mode = "local"
	}

	left := strings.Join([]string{
		"pulse " + m.version,
		mode,
		"Last updated: " + m.updatedLabel(m.snapshot.LastUpdated()),
	}, " • ")
	right := m.clock.Format("15:04:05")

	return lipgloss.JoinVertical(lipgloss.Left,
		components.RenderStatusBar(m.theme, left, right, width),
		m.help.View(),
	)
}

func (m *Model) updatedLabel(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return format.FormatDate(t.Local())
}
