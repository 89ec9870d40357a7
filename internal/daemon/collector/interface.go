// Package collector provides background workers that produce KPI updates.
package collector

import (
	"context"

	"github.com/grovetools/pulse/internal/daemon/store"
)

// Collector is a background worker that gathers metrics and emits updates.
type Collector interface {
	// Name returns the collector's name for logging.
	Name() string

	// Run starts the collector. It should block until context is canceled.
	// It emits updates via the updates channel and never writes to the store
	// directly. It can read from the store to get the current records.
	Run(ctx context.Context, st *store.Store, updates chan<- store.Update) error
}

// emit sends u unless ctx is canceled first. It reports whether u was sent.
func emit(ctx context.Context, updates chan<- store.Update, u store.Update) bool {
	select {
	case <-ctx.Done():
		return false
	case updates <- u:
		return true
	}
}
