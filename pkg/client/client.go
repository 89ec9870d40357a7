// Package client provides access to the pulse KPI store.
// It implements a transparent fallback pattern: if the daemon is running, use
// its HTTP API; if not, fall back to an in-process store.
package client

import (
	"context"
	"time"

	"github.com/grovetools/pulse/internal/daemon/store"
)

// Client defines the interface for reading and updating KPI state.
// Both RemoteClient (daemon API) and LocalClient (in-process) implement this interface.
type Client interface {
	// Snapshot returns the current KPI snapshot.
	Snapshot(ctx context.Context) (store.Snapshot, error)

	// Breakdown returns the intermediate ratios behind the overall scores.
	Breakdown(ctx context.Context) (store.Breakdown, error)

	// Phase returns the record of one phase.
	Phase(ctx context.Context, phase store.Phase) (any, error)

	// UpdatePhase merges fields into one phase and returns the new snapshot.
	UpdatePhase(ctx context.Context, phase store.Phase, fields store.Fields) (store.Snapshot, error)

	// StreamSnapshots subscribes to real-time updates. The first event is
	// always an "initial" event carrying the current snapshot. The channel
	// is closed when ctx is cancelled or the connection is lost.
	StreamSnapshots(ctx context.Context) (<-chan Event, error)

	// Config returns the settings the daemon is running with.
	Config(ctx context.Context) (*RunningConfig, error)

	// IsRunning returns true if the daemon is available and responding.
	IsRunning() bool

	// Close cleans up any resources used by the client.
	Close() error
}

// Event types carried in Event.UpdateType.
const (
	EventInitial      = "initial"
	EventSnapshot     = "snapshot"
	EventConfigReload = "config_reload"
)

// Event is a push notification from the store.
type Event struct {
	UpdateType string          `json:"update_type"`
	Source     string          `json:"source,omitempty"`
	Phase      store.Phase     `json:"phase,omitempty"`
	Snapshot   *store.Snapshot `json:"snapshot,omitempty"`
	ConfigFile string          `json:"config_file,omitempty"`
}

// RunningConfig mirrors the daemon's /api/config response.
type RunningConfig struct {
	ConfigFile         string        `json:"config_file,omitempty"`
	Simulation         bool          `json:"simulation"`
	SimulationInterval time.Duration `json:"simulation_interval"`
	GitRepo            string        `json:"git_repo,omitempty"`
	GitInterval        time.Duration `json:"git_interval"`
	Listen             string        `json:"listen,omitempty"`
	Collectors         []string      `json:"collectors"`
	StartedAt          time.Time     `json:"started_at"`
}
