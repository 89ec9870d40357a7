package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grovetools/pulse/config"
)

const defaultThemeName = "default"

// --- Default palette (dashboard status colors) ---
const (
	defaultDarkGreen   = "#4ADE80"
	defaultLightGreen  = "#16A34A"
	defaultDarkYellow  = "#FACC15"
	defaultLightYellow = "#CA8A04"
	defaultDarkRed     = "#F87171"
	defaultLightRed    = "#DC2626"
	defaultDarkOrange  = "#FB923C"
	defaultLightOrange = "#EA580C"
	defaultDarkCyan    = "#22D3EE"
	defaultLightCyan   = "#0891B2"
	defaultDarkBlue    = "#60A5FA"
	defaultLightBlue   = "#2563EB"
	defaultDarkViolet  = "#C084FC"
	defaultLightViolet = "#9333EA"
	defaultDarkText    = "#F3F4F6"
	defaultLightText   = "#111827"
	defaultDarkMuted   = "#9CA3AF"
	defaultLightMuted  = "#4B5563"
	defaultDarkBorder  = "#374151"
	defaultLightBorder = "#D1D5DB"
	defaultDarkSubtle  = "#1F2937"
	defaultLightSubtle = "#F9FAFB"
)

// --- Kanagawa Dragon (dark) / Wave (light) palette ---
const (
	kanagawaDarkGreen   = "#98BB6C"
	kanagawaLightGreen  = "#4E7C5A"
	kanagawaDarkYellow  = "#FF9E3B"
	kanagawaLightYellow = "#A68A64"
	kanagawaDarkRed     = "#FF5D62"
	kanagawaLightRed    = "#C34043"
	kanagawaDarkOrange  = "#FFA066"
	kanagawaLightOrange = "#CC6B4E"
	kanagawaDarkCyan    = "#7E9CD8"
	kanagawaLightCyan   = "#5B8BBE"
	kanagawaDarkBlue    = "#7FB4CA"
	kanagawaLightBlue   = "#4F7CAC"
	kanagawaDarkViolet  = "#957FB8"
	kanagawaLightViolet = "#674D7A"
	kanagawaDarkText    = "#DCD7BA"
	kanagawaLightText   = "#2B2F42"
	kanagawaDarkMuted   = "#727169"
	kanagawaLightMuted  = "#6C7086"
	kanagawaDarkBorder  = "#363646"
	kanagawaLightBorder = "#B5BDC5"
	kanagawaDarkSubtle  = "#1F1F28"
	kanagawaLightSubtle = "#F7F7FB"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalOrange    = "208"
	terminalCyan      = "6"
	terminalBlue      = "4"
	terminalViolet    = "5"
	terminalLightText = "7"
	terminalMutedText = "8"
	terminalBorder    = "8"
	terminalSubtle    = "0"
)

// Colors encapsulates the palette used by a theme. lipgloss.TerminalColor
// allows a mix of adaptive and static colors.
type Colors struct {
	Green            lipgloss.TerminalColor
	Yellow           lipgloss.TerminalColor
	Red              lipgloss.TerminalColor
	Orange           lipgloss.TerminalColor
	Cyan             lipgloss.TerminalColor
	Blue             lipgloss.TerminalColor
	Violet           lipgloss.TerminalColor
	LightText        lipgloss.TerminalColor
	MutedText        lipgloss.TerminalColor
	Border           lipgloss.TerminalColor
	SubtleBackground lipgloss.TerminalColor
}

// Theme holds the pre-configured styles shared by the dashboard and the CLI.
type Theme struct {
	Name   string
	Colors Colors

	// Headers and titles
	Header lipgloss.Style
	Title  lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Text styles - visual hierarchy
	Bold   lipgloss.Style
	Normal lipgloss.Style
	Muted  lipgloss.Style

	// Containers
	Box         lipgloss.Style
	Panel       lipgloss.Style
	ActivePanel lipgloss.Style

	// Tabs
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Special styles
	Highlight lipgloss.Style
	Accent    lipgloss.Style

	// Phase accents, one per lifecycle phase in order.
	AccentColors []lipgloss.TerminalColor
}

var themeRegistry = map[string]func() Colors{
	"default":  newDefaultColors,
	"kanagawa": newKanagawaColors,
	"terminal": newTerminalColors,
}

var themeAliases = map[string]string{
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"kanagawa-wave":   "kanagawa",
	"ansi":            "terminal",
}

// DefaultTheme is the theme selected by PULSE_THEME or the dashboard config.
var DefaultTheme = NewTheme()

// NewTheme creates a theme based on the configured theme selection.
func NewTheme() *Theme {
	return NewThemeWithName(getThemeName())
}

// NewThemeWithName constructs a theme from a specific palette name. Unknown
// names fall back to the default palette.
func NewThemeWithName(name string) *Theme {
	key := normalizeThemeName(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	if _, ok := themeRegistry[key]; !ok {
		key = defaultThemeName
	}
	return newThemeFromColors(themeRegistry[key](), key)
}

// RenderHeader renders a header with the default styling.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// StatusColor returns the style for a phase status or metric level, such as
// "completed", "failed" or "needs-improvement". Unknown values render plain.
func StatusColor(status string) lipgloss.Style {
	return DefaultTheme.StatusStyle(status)
}

// StatusStyle is StatusColor for a specific theme.
func (t *Theme) StatusStyle(status string) lipgloss.Style {
	switch status {
	case "completed", "excellent", "healthy", "low":
		return t.Success
	case "in-progress", "good", "medium":
		return t.Info
	case "pending":
		return t.Muted
	case "warning", "needs-improvement":
		return t.Warning
	case "failed", "critical", "high":
		return t.Error
	default:
		return t.Normal
	}
}

func newThemeFromColors(colors Colors, name string) *Theme {
	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.LightText),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			MarginBottom(1),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Blue).
			Bold(true),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Normal: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		ActivePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Violet).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().
			Foreground(colors.MutedText).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Foreground(colors.LightText).
			Background(colors.SubtleBackground).
			Bold(true).
			Padding(0, 1),

		Highlight: lipgloss.NewStyle().
			Foreground(colors.Orange).
			Bold(true),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),

		AccentColors: []lipgloss.TerminalColor{
			colors.Violet,
			colors.Blue,
			colors.Orange,
			colors.Yellow,
			colors.Green,
			colors.Cyan,
		},
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func getThemeName() string {
	if theme := normalizeThemeName(os.Getenv("PULSE_THEME")); theme != "" {
		return theme
	}

	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil || cfg.Dashboard == nil {
		return defaultThemeName
	}
	if theme := normalizeThemeName(cfg.Dashboard.Theme); theme != "" {
		return theme
	}

	return defaultThemeName
}

func newDefaultColors() Colors {
	return Colors{
		Green:            lipgloss.AdaptiveColor{Light: defaultLightGreen, Dark: defaultDarkGreen},
		Yellow:           lipgloss.AdaptiveColor{Light: defaultLightYellow, Dark: defaultDarkYellow},
		Red:              lipgloss.AdaptiveColor{Light: defaultLightRed, Dark: defaultDarkRed},
		Orange:           lipgloss.AdaptiveColor{Light: defaultLightOrange, Dark: defaultDarkOrange},
		Cyan:             lipgloss.AdaptiveColor{Light: defaultLightCyan, Dark: defaultDarkCyan},
		Blue:             lipgloss.AdaptiveColor{Light: defaultLightBlue, Dark: defaultDarkBlue},
		Violet:           lipgloss.AdaptiveColor{Light: defaultLightViolet, Dark: defaultDarkViolet},
		LightText:        lipgloss.AdaptiveColor{Light: defaultLightText, Dark: defaultDarkText},
		MutedText:        lipgloss.AdaptiveColor{Light: defaultLightMuted, Dark: defaultDarkMuted},
		Border:           lipgloss.AdaptiveColor{Light: defaultLightBorder, Dark: defaultDarkBorder},
		SubtleBackground: lipgloss.AdaptiveColor{Light: defaultLightSubtle, Dark: defaultDarkSubtle},
	}
}

func newKanagawaColors() Colors {
	return Colors{
		Green:            lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
		Yellow:           lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
		Red:              lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
		Orange:           lipgloss.AdaptiveColor{Light: kanagawaLightOrange, Dark: kanagawaDarkOrange},
		Cyan:             lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
		Blue:             lipgloss.AdaptiveColor{Light: kanagawaLightBlue, Dark: kanagawaDarkBlue},
		Violet:           lipgloss.AdaptiveColor{Light: kanagawaLightViolet, Dark: kanagawaDarkViolet},
		LightText:        lipgloss.AdaptiveColor{Light: kanagawaLightText, Dark: kanagawaDarkText},
		MutedText:        lipgloss.AdaptiveColor{Light: kanagawaLightMuted, Dark: kanagawaDarkMuted},
		Border:           lipgloss.AdaptiveColor{Light: kanagawaLightBorder, Dark: kanagawaDarkBorder},
		SubtleBackground: lipgloss.AdaptiveColor{Light: kanagawaLightSubtle, Dark: kanagawaDarkSubtle},
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:            lipgloss.Color(terminalGreen),
		Yellow:           lipgloss.Color(terminalYellow),
		Red:              lipgloss.Color(terminalRed),
		Orange:           lipgloss.Color(terminalOrange),
		Cyan:             lipgloss.Color(terminalCyan),
		Blue:             lipgloss.Color(terminalBlue),
		Violet:           lipgloss.Color(terminalViolet),
		LightText:        lipgloss.Color(terminalLightText),
		MutedText:        lipgloss.Color(terminalMutedText),
		Border:           lipgloss.Color(terminalBorder),
		SubtleBackground: lipgloss.Color(terminalSubtle),
	}
}
