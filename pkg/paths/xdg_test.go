package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPulseHomeOverridesXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PULSE_HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "/should/not/be/used")
	t.Setenv("XDG_RUNTIME_DIR", "/should/not/be/used")

	assert.Equal(t, filepath.Join(home, "config", "pulse"), ConfigDir())
	assert.Equal(t, filepath.Join(home, "state", "pulse"), StateDir())
	assert.Equal(t, filepath.Join(home, "state", "pulse", "logs"), LogDir())
	assert.Equal(t, filepath.Join(home, "run", "pulsed.sock"), SocketPath())
	assert.Equal(t, filepath.Join(home, "state", "pulse", "pulsed.pid"), PidFilePath())
}

func TestXDGDirectories(t *testing.T) {
	t.Setenv("PULSE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	assert.Equal(t, "/xdg/config/pulse", ConfigDir())
	assert.Equal(t, "/xdg/state/pulse", StateDir())
	assert.Equal(t, "/run/user/1000/pulse/pulsed.sock", SocketPath())
}

func TestRuntimeDirFallsBackToState(t *testing.T) {
	t.Setenv("PULSE_HOME", "")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "")

	assert.Equal(t, "/xdg/state/pulse", RuntimeDir())
}

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PULSE_HOME", home)

	assert.NoError(t, EnsureDirs())
	assert.DirExists(t, ConfigDir())
	assert.DirExists(t, LogDir())
	assert.DirExists(t, RuntimeDir())
}
