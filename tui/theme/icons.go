package theme

import "os"

// Nerd Font Icons (Private Constants)
const (
	nerdIconStatusCompleted = "󰄳" // md-checkbox_marked_circle (U+F0133)
	nerdIconStatusRunning   = "󰔟" // md-timer_sand (U+F051F)
	nerdIconStatusPending   = "󰄱" // md-checkbox_blank_outline (U+F0131)
	nerdIconStatusFailed    = "\uf467" // oct-x (U+F467)
	nerdIconWarning         = "\uf071" // fa-warning (U+F071)
	nerdIconBullet          = "\uf444" // oct-dot_fill (U+F444)
)

// ASCII Fallback Icons (Private Constants)
const (
	asciiIconStatusCompleted = "✓"
	asciiIconStatusRunning   = "◐"
	asciiIconStatusPending   = "○"
	asciiIconStatusFailed    = "✗"
	asciiIconWarning         = "⚠"
	asciiIconBullet          = "•"
)

// Public icons, resolved once from PULSE_ICONS ("nerd" or "ascii").
var (
	IconStatusCompleted string
	IconStatusRunning   string
	IconStatusPending   string
	IconStatusFailed    string
	IconWarning         string
	IconBullet          string
)

func init() {
	setIcons(os.Getenv("PULSE_ICONS") == "nerd")
}

func setIcons(nerd bool) {
	if nerd {
		IconStatusCompleted = nerdIconStatusCompleted
		IconStatusRunning = nerdIconStatusRunning
		IconStatusPending = nerdIconStatusPending
		IconStatusFailed = nerdIconStatusFailed
		IconWarning = nerdIconWarning
		IconBullet = nerdIconBullet
		return
	}
	IconStatusCompleted = asciiIconStatusCompleted
	IconStatusRunning = asciiIconStatusRunning
	IconStatusPending = asciiIconStatusPending
	IconStatusFailed = asciiIconStatusFailed
	IconWarning = asciiIconWarning
	IconBullet = asciiIconBullet
}

// StatusIcon returns the icon for a phase status.
func StatusIcon(status string) string {
	switch status {
	case "completed":
		return IconStatusCompleted
	case "in-progress":
		return IconStatusRunning
	case "failed":
		return IconStatusFailed
	case "warning":
		return IconWarning
	case "pending":
		return IconStatusPending
	default:
		return IconBullet
	}
}
