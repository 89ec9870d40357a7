// Package keymap defines the dashboard key bindings and lets users remap them
// from the `keybindings` section of pulse.yml.
package keymap

import (
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/pulse/config"
)

// Base contains the bindings of the pulse dashboard.
type Base struct {
	// Navigation between views
	NextView key.Binding
	PrevView key.Binding
	JumpView key.Binding // 1-7, overview first

	// Actions
	Refresh key.Binding

	// System
	Help key.Binding
	Quit key.Binding
}

// Config is the `keybindings` extension section:
//
//	keybindings:
//	  preset: arrows
//	  bindings:
//	    next_view: ["n"]
//	    quit: ["q", "esc"]
type Config struct {
	Preset   string              `yaml:"preset"`
	Bindings map[string][]string `yaml:"bindings"`
}

// NewBase creates a new Base keymap with the default (vim style) bindings
func NewBase() Base {
	return DefaultVim()
}

// DefaultVim returns the default vim-style keymap
func DefaultVim() Base {
	return Base{
		NextView: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab/l", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("S-tab/h", "prev view"),
		),
		JumpView: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
			key.WithHelp("1-7", "jump to view"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultArrows returns a keymap without letter navigation
func DefaultArrows() Base {
	b := DefaultVim()
	b.NextView = key.NewBinding(
		key.WithKeys("tab", "right"),
		key.WithHelp("tab/→", "next view"),
	)
	b.PrevView = key.NewBinding(
		key.WithKeys("shift+tab", "left"),
		key.WithHelp("S-tab/←", "prev view"),
	)
	return b
}

// Load creates a Base keymap from configuration: the selected preset with
// any per-binding overrides applied on top. A nil config or a malformed
// section yields the vim defaults. Problems with the section are logged to
// logger at warn level; a nil logger discards them.
func Load(cfg *config.Config, logger *logrus.Entry) Base {
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = logrus.NewEntry(discard)
	}

	var kc Config
	if cfg != nil {
		if err := cfg.UnmarshalExtension("keybindings", &kc); err != nil {
			// The decoder may have filled part of kc before failing.
			kc = Config{}
			logger.WithError(err).Warn("Ignoring malformed keybindings section")
		}
	}

	var base Base
	switch kc.Preset {
	case "", "vim":
		base = DefaultVim()
	case "arrows":
		base = DefaultArrows()
	default:
		logger.WithField("preset", kc.Preset).Warn("Unknown keybindings preset, using vim")
		base = DefaultVim()
	}

	if unknown := base.ApplyOverrides(kc.Bindings); len(unknown) > 0 {
		logger.WithFields(logrus.Fields{
			"bindings": unknown,
			"valid":    BindingNames(),
		}).Warn("Ignoring unknown key bindings")
	}
	return base
}

// ShortHelp returns the bindings shown in the footer
func (k Base) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.JumpView, k.Help, k.Quit}
}

// Sections returns grouped sections of all key bindings for the full help view.
func (k Base) Sections() []Section {
	return []Section{
		NavigationSection(k.NextView, k.PrevView, k.JumpView),
		ActionsSection(k.Refresh),
		SystemSection(k.Help, k.Quit),
	}
}

// FullHelp returns one column per section, each headed by the section name.
func (k Base) FullHelp() [][]key.Binding {
	sections := k.Sections()
	result := make([][]key.Binding, len(sections))
	for i, s := range sections {
		header := key.NewBinding(key.WithKeys(""), key.WithHelp("", s.Name))
		result[i] = append([]key.Binding{header}, s.Bindings...)
	}
	return result
}
