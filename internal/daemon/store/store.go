package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/grovetools/pulse/errors"
	"github.com/sirupsen/logrus"
)

// Store is the in-memory KPI store for the daemon.
// It is thread-safe and notifies observers synchronously after each update.
//
// Updates are serialised by updateMu for their whole duration, including
// observer notification, so observers see updates one at a time and in
// order. The state lock is never held while observers run: observers may
// read the store or unsubscribe, but must not call UpdatePhase.
type Store struct {
	updateMu  sync.Mutex
	mu        sync.RWMutex
	state     Snapshot
	observers []*subscription
	now       func() time.Time
	logger    *logrus.Entry
}

type subscription struct {
	fn     Observer
	active atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for lastUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSeed replaces the default seed snapshot.
func WithSeed(seed Snapshot) Option {
	return func(s *Store) {
		s.state = seed
	}
}

// WithLogger sets the logger used for update tracing.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new Store holding the seed snapshot.
func New(opts ...Option) *Store {
	s := &Store{
		state: Seed(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		logger := logrus.New()
		logger.SetLevel(logrus.WarnLevel)
		s.logger = logrus.NewEntry(logger)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Breakdown returns the intermediate ratios for the current state.
func (s *Store) Breakdown() Breakdown {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeBreakdown(s.state.Phases)
}

// Phase returns a copy of the record for a single phase.
func (s *Store) Phase(p Phase) (any, error) {
	if !p.Valid() {
		return nil, errors.InvalidPhase(string(p), PhaseNames())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Phases.Record(p), nil
}

// UpdatePhase merges fields into the record of phase p, stamps its
// lastUpdated, recomputes the overall scores from all six phases and calls
// every observer in subscription order before returning. Unknown phases and
// invalid fields are rejected without changing state or notifying anyone.
func (s *Store) UpdatePhase(p Phase, fields Fields) error {
	if !p.Valid() {
		return errors.InvalidPhase(string(p), PhaseNames())
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	next := s.state.Phases
	if err := next.merge(p, fields, s.now()); err != nil {
		s.mu.Unlock()
		return errors.InvalidField(string(p), err)
	}
	s.state.Phases = next
	s.state.Overall = Recalculate(next)
	snap := s.state
	observers := make([]*subscription, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"phase":  p,
		"fields": len(fields),
		"health": snap.Overall.Health,
	}).Debug("Phase updated")

	for _, sub := range observers {
		// An earlier observer may have unsubscribed this one.
		if sub.active.Load() {
			sub.fn(snap)
		}
	}
	return nil
}

// Apply routes a collector update through UpdatePhase.
func (s *Store) Apply(u Update) error {
	return s.UpdatePhase(u.Phase, u.Fields)
}

// UpdateDesign updates the design phase.
func (s *Store) UpdateDesign(fields Fields) error { return s.UpdatePhase(PhaseDesign, fields) }

// UpdateCode updates the code phase.
func (s *Store) UpdateCode(fields Fields) error { return s.UpdatePhase(PhaseCode, fields) }

// UpdateBuild updates the build phase.
func (s *Store) UpdateBuild(fields Fields) error { return s.UpdatePhase(PhaseBuild, fields) }

// UpdateQA updates the QA phase.
func (s *Store) UpdateQA(fields Fields) error { return s.UpdatePhase(PhaseQA, fields) }

// UpdateDeploy updates the deploy phase.
func (s *Store) UpdateDeploy(fields Fields) error { return s.UpdatePhase(PhaseDeploy, fields) }

// UpdateMonitor updates the monitor phase.
func (s *Store) UpdateMonitor(fields Fields) error { return s.UpdatePhase(PhaseMonitor, fields) }

// Subscribe registers an observer for all future updates. The returned
// function removes it; calling it more than once has no further effect.
// Registering the same function twice creates two independent entries.
//
// Observers run while the update that triggered them still holds the store,
// so an observer that calls UpdatePhase (or Apply, or UpdateX) deadlocks.
// Hand such updates to another goroutine; they are applied once the current
// round of notifications has finished.
func (s *Store) Subscribe(obs Observer) (unsubscribe func()) {
	sub := &subscription{fn: obs}
	sub.active.Store(true)

	s.mu.Lock()
	s.observers = append(s.observers, sub)
	s.mu.Unlock()

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, candidate := range s.observers {
			if candidate == sub {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				break
			}
		}
	}
}

// ObserverCount returns the number of registered observers.
func (s *Store) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}
