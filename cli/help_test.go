package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderHelp(t *testing.T, root *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--help"))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestStyledHelpLeafCommand(t *testing.T) {
	root := NewStandardCommand("pulse", "Track delivery KPIs")
	logs := &cobra.Command{
		Use:   "logs",
		Short: "Show daemon logs",
		Long: `Prints the end of the newest daemon log file.

Examples:
  # last 10 lines
  pulse logs -n 10`,
		RunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	logs.Flags().BoolP("follow", "f", false, "Follow log output")
	logs.Flags().IntP("lines", "n", 50, "Number of lines to show")
	root.AddCommand(logs)

	out := renderHelp(t, root, "logs")
	assert.Contains(t, out, "PULSE LOGS")
	assert.Contains(t, out, "Prints the end of the newest daemon log file.")
	assert.Contains(t, out, "FLAGS")
	assert.Contains(t, out, "-f, --follow")
	assert.Contains(t, out, "Number of lines to show (default: 50)")
	assert.NotContains(t, out, "(default: false)")
	assert.Contains(t, out, "Global flags: -c/--config, --json, -v/--verbose")
	assert.Contains(t, out, "EXAMPLES")
	assert.Contains(t, out, "# last 10 lines")
	assert.Less(t, strings.Index(out, "FLAGS"), strings.Index(out, "EXAMPLES"))
}

func TestStyledHelpParentCommand(t *testing.T) {
	root := NewStandardCommand("pulse", "Track delivery KPIs")
	daemon := &cobra.Command{Use: "daemon", Short: "Manage the pulse daemon"}
	daemon.AddCommand(
		&cobra.Command{Use: "start", Short: "Start the daemon", RunE: func(*cobra.Command, []string) error { return nil }},
		&cobra.Command{Use: "status", Short: "Show daemon status", RunE: func(*cobra.Command, []string) error { return nil }},
	)
	root.AddCommand(daemon)

	out := renderHelp(t, root)
	assert.Contains(t, out, "COMMANDS")
	assert.Contains(t, out, "daemon")
	assert.Contains(t, out, "Manage the pulse daemon")
	assert.Contains(t, out, "Flags: -c/--config, ")
	assert.Contains(t, out, "-v/--verbose")
	assert.Contains(t, out, `Use "pulse [command] --help" for more information.`)

	out = renderHelp(t, root, "daemon")
	assert.Contains(t, out, "start   Start the daemon")
	assert.Contains(t, out, "status  Show daemon status")
}

func TestHelpSections(t *testing.T) {
	root := NewStandardCommand("pulse", "Track delivery KPIs")
	update := &cobra.Command{
		Use:   "update <phase> <field=value>...",
		Short: "Merge new values into one phase",
		RunE:  func(*cobra.Command, []string) error { return nil },
	}
	root.AddCommand(update)

	calls := 0
	SetHelpSections(update, func() []HelpSection {
		calls++
		return []HelpSection{{
			Title: "FIELDS",
			Rows: []HelpRow{
				{Name: "qa", Text: "testsTotal, testsPassed, testsFailed"},
				{Name: "deploy", Text: "uptime, errorRate"},
			},
		}}
	})

	out := renderHelp(t, root, "update")
	assert.Equal(t, 1, calls)
	assert.Contains(t, out, "FIELDS")
	assert.Contains(t, out, "qa      testsTotal, testsPassed, testsFailed")
	assert.Contains(t, out, "deploy  uptime, errorRate")

	out = renderHelp(t, root)
	assert.NotContains(t, out, "FIELDS", "sections belong to one command")
}

func TestHelpRowsWrapUnderText(t *testing.T) {
	var out bytes.Buffer
	p := newHelpPrinter(&out)
	p.width = 40
	p.rows(p.command, []HelpRow{{Name: "monitor", Text: "systemHealth, activeUsers, requestsPerMinute, errorRate"}})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], " monitor  systemHealth,"))
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, strings.Repeat(" ", len("monitor")+3)), "continuation %q", line)
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 7))
	assert.Equal(t, []string{"averyveryverylongword", "x"}, wrap("averyveryverylongword x", 5))
	assert.Equal(t, []string{"keep", "", "breaks"}, wrap("keep\n\nbreaks", 20))
}

func TestSplitExamples(t *testing.T) {
	desc, ex := splitExamples("Does things.\n\nExamples:\n  pulse snapshot --json")
	assert.Equal(t, "Does things.", desc)
	assert.Equal(t, "pulse snapshot --json", ex)

	desc, ex = splitExamples("Only a description.")
	assert.Equal(t, "Only a description.", desc)
	assert.Empty(t, ex)
}
