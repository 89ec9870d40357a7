package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/grovetools/pulse/tui/theme"
)

const (
	maxHelpWidth = 80
	minHelpWidth = 40
	minTextWidth = 20
)

// HelpRow is one aligned line of a help section.
type HelpRow struct {
	Name string
	Text string
}

// HelpSection is a titled block of rows a command adds to its help, shown
// after the flags and before the examples.
type HelpSection struct {
	Title string
	Rows  []HelpRow
}

var (
	helpSections   = make(map[*cobra.Command]func() []HelpSection)
	helpSectionsMu sync.RWMutex
)

// SetHelpSections registers extra sections for the help of cmd. sections is
// called every time the help is rendered.
func SetHelpSections(cmd *cobra.Command, sections func() []HelpSection) {
	helpSectionsMu.Lock()
	defer helpSectionsMu.Unlock()
	helpSections[cmd] = sections
}

func sectionsFor(cmd *cobra.Command) []HelpSection {
	helpSectionsMu.RLock()
	fn := helpSections[cmd]
	helpSectionsMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// SetStyledHelp renders the help of cmd, and of subcommands that do not
// set their own, in the pulse style.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive applies styled help and a silent usage func to a
// command tree. Usage errors are reported by Execute instead.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// PrintError prints err in red with a pointer to the command's help.
func PrintError(cmd *cobra.Command, err error) {
	t := theme.DefaultTheme
	red := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Red)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red.Render("Error:"), err.Error())
	fmt.Fprintln(cmd.ErrOrStderr(), t.Muted.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

// helpPrinter writes one help page.
type helpPrinter struct {
	w     io.Writer
	t     *theme.Theme
	width int

	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
}

func newHelpPrinter(w io.Writer) *helpPrinter {
	t := theme.DefaultTheme
	return &helpPrinter{
		w:       w,
		t:       t,
		width:   helpWidth(w),
		heading: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		command: lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
	}
}

// helpWidth is the terminal width of w clamped to a readable range, or the
// maximum when w is not a terminal.
func helpWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return maxHelpWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return maxHelpWidth
	}
	return max(minHelpWidth, min(width, maxHelpWidth))
}

func (p *helpPrinter) section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, " "+p.heading.Render(title))
}

func (p *helpPrinter) paragraph(text string, style lipgloss.Style) {
	for _, line := range wrap(text, p.width-2) {
		fmt.Fprintln(p.w, " "+style.Render(line))
	}
}

// rows prints names in one column and wraps text in a second, aligned
// after the longest name.
func (p *helpPrinter) rows(nameStyle lipgloss.Style, rows []HelpRow) {
	nameWidth := 0
	for _, r := range rows {
		nameWidth = max(nameWidth, len(r.Name))
	}
	textWidth := max(minTextWidth, p.width-nameWidth-3)
	indent := strings.Repeat(" ", nameWidth+3)

	for _, r := range rows {
		lines := wrap(r.Text, textWidth)
		if len(lines) == 0 {
			lines = []string{""}
		}
		pad := strings.Repeat(" ", nameWidth-len(r.Name))
		fmt.Fprintf(p.w, " %s%s  %s\n", nameStyle.Render(r.Name), pad, lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintln(p.w, indent+line)
		}
	}
}

func (p *helpPrinter) examples(text, cmdPath string) {
	root := strings.Fields(cmdPath)[0]
	sub := lipgloss.NewStyle().Foreground(p.t.Colors.Cyan)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			fmt.Fprintln(p.w)
		case strings.HasPrefix(line, "#"):
			fmt.Fprintln(p.w, " "+p.t.Muted.Render(line))
		default:
			words := strings.Fields(line)
			for i, word := range words {
				switch {
				case i == 0 && word == root:
					words[i] = p.command.Render(word)
				case strings.HasPrefix(word, "-"):
					words[i] = p.flag.Render(word)
				case i == 1:
					words[i] = sub.Render(word)
				}
			}
			fmt.Fprintln(p.w, "   "+strings.Join(words, " "))
		}
	}
}

func styledHelpFunc(cmd *cobra.Command, args []string) {
	p := newHelpPrinter(cmd.OutOrStdout())
	title := lipgloss.NewStyle().Bold(true).Foreground(p.t.Colors.Orange)
	fmt.Fprintln(p.w, " "+title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := splitExamples(cmd.Long)
	if cmd.Short != "" {
		p.paragraph(cmd.Short, lipgloss.NewStyle().Italic(true))
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(p.w)
		p.paragraph(description, lipgloss.NewStyle())
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		p.section("USAGE")
		if cmd.Runnable() {
			fmt.Fprintln(p.w, " "+cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintln(p.w, " "+cmd.CommandPath()+" [command]")
		}
	}

	if cmd.HasAvailableSubCommands() {
		var rows []HelpRow
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				rows = append(rows, HelpRow{Name: sub.Name(), Text: sub.Short})
			}
		}
		p.section("COMMANDS")
		p.rows(p.command, rows)
	}

	local := visibleFlags(cmd.LocalFlags())
	if len(local) > 0 {
		if cmd.HasAvailableSubCommands() {
			fmt.Fprintln(p.w)
			p.paragraph("Flags: "+compactFlags(local), p.t.Muted)
		} else {
			rows := make([]HelpRow, len(local))
			for i, f := range local {
				rows[i] = HelpRow{Name: flagName(f), Text: flagUsage(f)}
			}
			p.section("FLAGS")
			p.rows(p.flag, rows)
		}
	}
	if inherited := visibleFlags(cmd.InheritedFlags()); len(inherited) > 0 {
		fmt.Fprintln(p.w)
		p.paragraph("Global flags: "+compactFlags(inherited), p.t.Muted)
	}

	for _, s := range sectionsFor(cmd) {
		p.section(s.Title)
		p.rows(p.command, s.Rows)
	}

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		p.section("EXAMPLES")
		p.examples(examples, cmd.CommandPath())
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(p.w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// splitExamples separates an "Examples:" block at the end of a long
// description from the text before it.
func splitExamples(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if before, after, ok := strings.Cut(long, marker); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return strings.TrimSpace(long), ""
}

func visibleFlags(fs *pflag.FlagSet) []*pflag.Flag {
	var flags []*pflag.Flag
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
		}
	})
	return flags
}

func compactFlags(flags []*pflag.Flag) string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = "--" + f.Name
		if f.Shorthand != "" {
			names[i] = "-" + f.Shorthand + "/" + names[i]
		}
	}
	return strings.Join(names, ", ")
}

// flagName renders "-f, --follow", or "    --json" to line up with flags
// that have a shorthand.
func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

func flagUsage(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "[]", "0s":
		return f.Usage
	}
	return fmt.Sprintf("%s (default: %s)", f.Usage, f.DefValue)
}

// wrap breaks text into lines of at most width runes at word boundaries.
// Existing line breaks are kept; a single word longer than width gets a
// line of its own.
func wrap(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
