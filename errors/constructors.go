package errors

import (
	"fmt"
	"strings"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *PulseError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *PulseError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// InvalidPhase creates an error for a phase name outside the known set
func InvalidPhase(phase string, known []string) *PulseError {
	return New(ErrCodeInvalidPhase, fmt.Sprintf("unknown phase '%s' (expected one of: %s)", phase, strings.Join(known, ", "))).
		WithDetail("phase", phase)
}

// InvalidField creates an error for a field that a phase record does not have
// or whose value is not numeric
func InvalidField(phase string, err error) *PulseError {
	return Wrap(err, ErrCodeInvalidField, fmt.Sprintf("invalid fields for phase '%s'", phase)).
		WithDetail("phase", phase).
		WithDetail("reason", err.Error())
}

// DaemonNotRunning creates an error for commands that require the daemon
func DaemonNotRunning(socket string) *PulseError {
	return New(ErrCodeDaemonNotRunning, "pulse daemon is not running").
		WithDetail("socket", socket)
}

// DaemonRunning creates an error for a second daemon start
func DaemonRunning(pid int) *PulseError {
	return New(ErrCodeDaemonRunning, fmt.Sprintf("daemon already running with PID %d", pid)).
		WithDetail("pid", pid)
}
