package collector

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/grovetools/pulse/internal/daemon/store"
)

// DefaultSimulationInterval is the tick period of the simulator.
const DefaultSimulationInterval = 5 * time.Second

// Simulator emulates live production telemetry by nudging the monitor
// gauges with bounded random noise on every tick.
type Simulator struct {
	interval time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a Simulator. A zero interval uses the default and a
// nil rng is seeded from the clock.
func NewSimulator(interval time.Duration, rng *rand.Rand) *Simulator {
	if interval <= 0 {
		interval = DefaultSimulationInterval
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		interval: interval,
		rng:      rng,
	}
}

// Name returns the collector's name.
func (s *Simulator) Name() string { return "simulator" }

// Interval returns the tick period.
func (s *Simulator) Interval() time.Duration { return s.interval }

// Perturb computes one tick of noise for the given monitor record.
// Users and request rate have a floor; CPU, memory and health stay in band.
func (s *Simulator) Perturb(m store.MonitorMetrics) store.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()

	return store.Fields{
		"activeUsers":       math.Max(1000, m.ActiveUsers+math.Floor(s.rng.Float64()*100-50)),
		"requestsPerMinute": math.Max(2000, m.RequestsPerMinute+math.Floor(s.rng.Float64()*200-100)),
		"cpuUsage":          clamp(m.CPUUsage+s.rng.Float64()*10-5, 30, 90),
		"memoryUsage":       clamp(m.MemoryUsage+s.rng.Float64()*8-4, 40, 85),
		"systemHealth":      clamp(m.SystemHealth+s.rng.Float64()*6-3, 80, 100),
	}
}

// Run emits one monitor update per tick until ctx is canceled.
func (s *Simulator) Run(ctx context.Context, st *store.Store, updates chan<- store.Update) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current := st.Snapshot().Phases.Monitor
			if !emit(ctx, updates, store.Update{
				Phase:  store.PhaseMonitor,
				Fields: s.Perturb(current),
				Source: s.Name(),
			}) {
				return nil
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
