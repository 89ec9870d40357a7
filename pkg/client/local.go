package client

import (
	"context"
	"sync"
	"time"

	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/internal/daemon/collector"
	"github.com/grovetools/pulse/internal/daemon/engine"
	"github.com/grovetools/pulse/internal/daemon/store"
)

// LocalClient implements Client over an in-process store.
// This is used when the daemon is not running, providing the same API
// but keeping all state in the calling process.
type LocalClient struct {
	store *store.Store

	mu       sync.Mutex
	stopSim  func()
	interval time.Duration
}

// NewLocalClient wraps st, or a fresh seeded store when st is nil.
func NewLocalClient(st *store.Store) *LocalClient {
	if st == nil {
		st = store.New()
	}
	return &LocalClient{store: st}
}

// Store returns the wrapped store.
func (c *LocalClient) Store() *store.Store {
	return c.store
}

// StartSimulation runs the monitor simulator against the local store until
// Close is called. Calling it again while running does nothing.
func (c *LocalClient) StartSimulation(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopSim != nil {
		return
	}
	sim := collector.NewSimulator(interval, nil)
	c.interval = sim.Interval()
	c.stopSim = engine.StartRealTimeUpdates(c.store, sim)
}

// Snapshot returns the local snapshot.
func (c *LocalClient) Snapshot(ctx context.Context) (store.Snapshot, error) {
	return c.store.Snapshot(), nil
}

// Breakdown returns the local intermediate ratios.
func (c *LocalClient) Breakdown(ctx context.Context) (store.Breakdown, error) {
	return c.store.Breakdown(), nil
}

// Phase returns the record of one phase.
func (c *LocalClient) Phase(ctx context.Context, phase store.Phase) (any, error) {
	return c.store.Phase(phase)
}

// UpdatePhase applies a partial update to the local store.
func (c *LocalClient) UpdatePhase(ctx context.Context, phase store.Phase, fields store.Fields) (store.Snapshot, error) {
	if err := c.store.UpdatePhase(phase, fields); err != nil {
		return store.Snapshot{}, err
	}
	return c.store.Snapshot(), nil
}

// StreamSnapshots feeds events from a store observer.
func (c *LocalClient) StreamSnapshots(ctx context.Context) (<-chan Event, error) {
	s := &localStream{ch: make(chan Event, 16)}
	initial := c.store.Snapshot()
	s.send(Event{UpdateType: EventInitial, Source: "local", Snapshot: &initial})

	unsubscribe := c.store.Subscribe(func(snap store.Snapshot) {
		s.send(Event{UpdateType: EventSnapshot, Source: "local", Snapshot: &snap})
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		s.close()
	}()
	return s.ch, nil
}

// Config reports the local simulation settings.
func (c *LocalClient) Config(ctx context.Context) (*RunningConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopSim == nil {
		return nil, errors.New(errors.ErrCodeDaemonNotRunning, "config not available in local mode; start the daemon to view running config")
	}
	return &RunningConfig{
		Simulation:         true,
		SimulationInterval: c.interval,
		Collectors:         []string{"simulator"},
	}, nil
}

// IsRunning returns false since this is the local fallback client.
func (c *LocalClient) IsRunning() bool {
	return false
}

// Close stops the local simulation, if any.
func (c *LocalClient) Close() error {
	c.mu.Lock()
	stop := c.stopSim
	c.stopSim = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
	return nil
}

// localStream drops events for a slow reader rather than stall the store,
// and tolerates an observer call racing with close.
type localStream struct {
	mu     sync.Mutex
	closed bool
	ch     chan Event
}

func (s *localStream) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- ev:
	default:
	}
}

func (s *localStream) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	close(s.ch)
}

// Ensure LocalClient implements Client interface.
var _ Client = (*LocalClient)(nil)
