package keymap

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// bindings maps the config name of every dashboard binding to its field.
func (k *Base) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"next_view": &k.NextView,
		"prev_view": &k.PrevView,
		"jump_view": &k.JumpView,
		"refresh":   &k.Refresh,
		"help":      &k.Help,
		"quit":      &k.Quit,
	}
}

// BindingNames returns the config names accepted under keybindings.bindings.
func BindingNames() []string {
	var k Base
	names := make([]string, 0, 6)
	for name := range k.bindings() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyOverrides replaces the keys of every binding named in overrides and
// keeps its help description. An empty key list leaves the binding alone.
// For jump_view the order of the keys is the order of the views, overview
// first. Names that match no binding are returned sorted.
func (k *Base) ApplyOverrides(overrides map[string][]string) (unknown []string) {
	targets := k.bindings()
	for name, keys := range overrides {
		b, ok := targets[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if len(keys) == 0 {
			continue
		}
		*b = key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(helpKeys(keys), b.Help().Desc),
		)
	}
	sort.Strings(unknown)
	return unknown
}

// helpKeys is the short label for a key list: "q", "n/tab" or "a-g" for
// longer runs such as the view jumps.
func helpKeys(keys []string) string {
	if len(keys) > 2 {
		return keys[0] + "-" + keys[len(keys)-1]
	}
	return strings.Join(keys, "/")
}
