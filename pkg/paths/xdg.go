// Package paths provides XDG-compliant path resolution for pulse.
//
// Resolution order:
// 1. PULSE_HOME (portable root) → $PULSE_HOME/{config,state,run}
// 2. XDG env vars → $XDG_*_HOME/pulse
// 3. Platform defaults → ~/.config/pulse, ~/.local/state/pulse
package paths

import (
	"os"
	"path/filepath"
)

const appName = "pulse"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if pulseHome := os.Getenv("PULSE_HOME"); pulseHome != "" {
		return filepath.Join(pulseHome, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if pulseHome := os.Getenv("PULSE_HOME"); pulseHome != "" {
		return filepath.Join(pulseHome, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the pulse configuration directory.
// Used for the global pulse.yml / pulse.toml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// StateDir returns the pulse state directory.
// Used for the pid file and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// LogDir returns the directory daemon and CLI log files are written to.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// RuntimeDir returns the pulse runtime directory for sockets.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if pulseHome := os.Getenv("PULSE_HOME"); pulseHome != "" {
		return filepath.Join(pulseHome, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// SocketPath returns the path to the pulse daemon unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "pulsed.sock")
}

// PidFilePath returns the path to the pulse daemon PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "pulsed.pid")
}

// EnsureDirs creates all pulse directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		StateDir(),
		LogDir(),
		RuntimeDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
