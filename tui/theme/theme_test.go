package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewThemeWithName(t *testing.T) {
	assert.Equal(t, "kanagawa", NewThemeWithName("Kanagawa Dragon").Name)
	assert.Equal(t, "terminal", NewThemeWithName("ansi").Name)
	assert.Equal(t, "default", NewThemeWithName("neon").Name)
	assert.Len(t, NewThemeWithName("default").AccentColors, 6)
}

func TestStatusStyle(t *testing.T) {
	th := NewThemeWithName("terminal")
	tests := map[string]interface{}{
		"completed":         th.Colors.Green,
		"excellent":         th.Colors.Green,
		"in-progress":       th.Colors.Blue,
		"pending":           th.Colors.MutedText,
		"warning":           th.Colors.Yellow,
		"needs-improvement": th.Colors.Yellow,
		"failed":            th.Colors.Red,
		"critical":          th.Colors.Red,
	}
	for status, want := range tests {
		assert.Equal(t, want, th.StatusStyle(status).GetForeground(), status)
	}
	assert.Equal(t, th.Normal, th.StatusStyle("unknown"))
}

func TestStatusIcon(t *testing.T) {
	setIcons(false)
	assert.Equal(t, "✓", StatusIcon("completed"))
	assert.Equal(t, "✗", StatusIcon("failed"))
	assert.Equal(t, "•", StatusIcon("other"))

	setIcons(true)
	defer setIcons(false)
	assert.Equal(t, nerdIconStatusCompleted, StatusIcon("completed"))
}
