// Package process wraps the signal-0 liveness check and the stop signal
// used to manage the pulse daemon from the CLI.
package process

import (
	"fmt"
	"os"
	"syscall"
)

// IsProcessAlive checks if a process with the given PID is still running.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	// FindProcess never fails on Unix; the signal tells us whether it exists.
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// EPERM means the process exists but belongs to someone else.
	err = process.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// Terminate sends SIGTERM to the given PID.
func Terminate(pid int) error {
	if !IsProcessAlive(pid) {
		return fmt.Errorf("process %d is not running", pid)
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}
	return nil
}
