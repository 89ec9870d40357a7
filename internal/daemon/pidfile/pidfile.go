// Package pidfile keeps the pulse daemon to a single instance per state
// directory.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/pkg/process"
)

// Acquire writes the current PID to the file.
// It returns a DAEMON_RUNNING error if another live instance owns it.
// A file left behind by a dead process is replaced.
func Acquire(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}

	if running, pid, err := IsRunning(path); err == nil && running && pid != os.Getpid() {
		return errors.DaemonRunning(pid)
	}
	// Whatever is there is stale or unreadable.
	_ = os.Remove(path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			// Lost a race with another starting daemon.
			if pid, readErr := Read(path); readErr == nil {
				return errors.DaemonRunning(pid)
			}
		}
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// Release removes the PID file if it still belongs to this process.
func Release(path string) error {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != os.Getpid() {
		return nil
	}
	return os.Remove(path)
}

// Read returns the PID from the file.
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(content))
	return strconv.Atoi(pidStr)
}

// IsRunning checks if the daemon described by the pidfile is active.
func IsRunning(path string) (bool, int, error) {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return process.IsProcessAlive(pid), pid, nil
}
