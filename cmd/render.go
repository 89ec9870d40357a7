package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/pkg/format"
	"github.com/grovetools/pulse/tui/theme"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	if width := terminalWidth(w); width > 0 {
		tw.SetAllowedRowLength(width)
	}
	return tw
}

// renderSnapshot prints the overall scores followed by one row per phase.
func renderSnapshot(w io.Writer, snap store.Snapshot, now time.Time) {
	overall := newTable(w)
	overall.SetTitle("Overall")
	overall.AppendHeader(table.Row{"Health", "Progress", "Efficiency", "Quality"})
	overall.AppendRow(table.Row{
		percent(snap.Overall.Health),
		percent(snap.Overall.Progress),
		percent(snap.Overall.Efficiency),
		percent(snap.Overall.Quality),
	})
	overall.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	fmt.Fprintln(w, overall.Render())

	phases := newTable(w)
	phases.SetTitle("Phases")
	phases.AppendHeader(table.Row{"Phase", "Progress", "Status", "Updated"})
	for _, row := range store.PhaseSummary(snap) {
		status := string(row.Status)
		phases.AppendRow(table.Row{
			row.Phase.Title(),
			percent(row.Progress),
			theme.StatusColor(status).Render(theme.StatusIcon(status) + " " + status),
			updatedLabel(snap.Phases.LastUpdated(row.Phase), now),
		})
	}
	phases.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	fmt.Fprintln(w, phases.Render())
}

// renderPhase prints the fields of one phase record in display order.
func renderPhase(w io.Writer, phase store.Phase, record any, now time.Time) {
	values := store.FieldValues(record)

	tw := newTable(w)
	tw.SetTitle(phase.Title())
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, name := range store.FieldNames(phase) {
		tw.AppendRow(table.Row{name, formatValue(values[name])})
	}
	stamped, _ := lastUpdatedOf(record)
	tw.AppendFooter(table.Row{"Last updated", updatedLabel(stamped, now)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	fmt.Fprintln(w, tw.Render())
}

func lastUpdatedOf(record any) (time.Time, bool) {
	switch r := record.(type) {
	case store.DesignMetrics:
		return r.LastUpdated, true
	case store.CodeMetrics:
		return r.LastUpdated, true
	case store.BuildMetrics:
		return r.LastUpdated, true
	case store.QAMetrics:
		return r.LastUpdated, true
	case store.DeployMetrics:
		return r.LastUpdated, true
	case store.MonitorMetrics:
		return r.LastUpdated, true
	}
	return time.Time{}, false
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}

// formatValue prints whole numbers with separators and keeps fractions as is.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return format.FormatCount(v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func updatedLabel(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return format.FormatDate(t.Local()) + " (" + format.FormatAgo(t, now) + ")"
}
