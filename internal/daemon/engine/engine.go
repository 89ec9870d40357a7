// Package engine orchestrates background collectors for the daemon.
package engine

import (
	"context"
	"sync"

	"github.com/grovetools/pulse/internal/daemon/collector"
	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/sirupsen/logrus"
)

// Engine manages and runs all collectors.
type Engine struct {
	store      *store.Store
	collectors []collector.Collector
	logger     *logrus.Entry
}

// New creates a new Engine instance.
func New(st *store.Store, logger *logrus.Entry) *Engine {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		store:  st,
		logger: logger,
	}
}

// Register adds a collector to the engine.
func (e *Engine) Register(c collector.Collector) {
	e.collectors = append(e.collectors, c)
}

// Collectors returns the registered collector names.
func (e *Engine) Collectors() []string {
	names := make([]string, len(e.collectors))
	for i, c := range e.collectors {
		names[i] = c.Name()
	}
	return names
}

// Start runs all collectors and blocks until context is canceled.
// A single consumer applies updates in arrival order.
func (e *Engine) Start(ctx context.Context) {
	updates := make(chan store.Update, 100)
	var wg sync.WaitGroup

	// 1. Start Update Consumer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case u := <-updates:
				if err := e.store.Apply(u); err != nil {
					e.logger.WithFields(logrus.Fields{
						"source": u.Source,
						"phase":  u.Phase,
					}).WithError(err).Warn("Rejected update")
				}
			}
		}
	}()

	// 2. Start Collectors
	for _, c := range e.collectors {
		wg.Add(1)
		go func(col collector.Collector) {
			defer wg.Done()
			e.logger.WithField("collector", col.Name()).Info("Starting collector")
			if err := col.Run(ctx, e.store, updates); err != nil {
				e.logger.WithField("collector", col.Name()).WithError(err).Error("Collector failed")
			}
		}(c)
	}

	wg.Wait()
}

// Store returns the engine's state store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// StartRealTimeUpdates runs the given collectors against st in the
// background, defaulting to a Simulator when none are given. The returned
// stop function cancels them and waits for them to exit; calling it again
// does nothing. Every call starts an independent engine.
func StartRealTimeUpdates(st *store.Store, collectors ...collector.Collector) (stop func()) {
	if len(collectors) == 0 {
		collectors = []collector.Collector{collector.NewSimulator(collector.DefaultSimulationInterval, nil)}
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	e := New(st, logrus.NewEntry(logger).WithField("component", "engine"))
	for _, c := range collectors {
		e.Register(c)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Start(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
