package client

import (
	"net"
	"os"
	"time"

	"github.com/grovetools/pulse/pkg/paths"
)

// New returns a Client that will use the daemon if available,
// otherwise falls back to a LocalClient over a fresh seeded store.
//
// Callers don't need to know whether the daemon is running or not. The same
// API works in both modes, but local updates are lost when the process exits.
func New() Client {
	return NewForSocket(paths.SocketPath())
}

// NewForSocket is New with an explicit socket path.
func NewForSocket(socketPath string) Client {
	// Check if socket exists and we can connect
	if _, err := os.Stat(socketPath); err == nil {
		conn, err := net.DialTimeout("unix", socketPath, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return NewRemoteClient(socketPath)
		}
	}

	// Fallback: daemon not running, use local client
	return NewLocalClient(nil)
}
