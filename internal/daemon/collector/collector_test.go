package collector

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/testutil"
)

func TestPerturbStaysInBounds(t *testing.T) {
	sim := NewSimulator(time.Second, rand.New(rand.NewSource(42)))

	extremes := []store.MonitorMetrics{
		store.Seed().Phases.Monitor,
		{ActiveUsers: 0, RequestsPerMinute: 0, CPUUsage: 0, MemoryUsage: 0, SystemHealth: 0},
		{ActiveUsers: 1e6, RequestsPerMinute: 1e6, CPUUsage: 500, MemoryUsage: 500, SystemHealth: 500},
	}

	for _, m := range extremes {
		for i := 0; i < 200; i++ {
			f := sim.Perturb(m)

			assert.GreaterOrEqual(t, f["activeUsers"].(float64), 1000.0)
			assert.GreaterOrEqual(t, f["requestsPerMinute"].(float64), 2000.0)
			assert.InDelta(t, 60, f["cpuUsage"].(float64), 30)
			assert.InDelta(t, 62.5, f["memoryUsage"].(float64), 22.5)
			assert.InDelta(t, 90, f["systemHealth"].(float64), 10)

			m.ActiveUsers = f["activeUsers"].(float64)
			m.RequestsPerMinute = f["requestsPerMinute"].(float64)
			m.CPUUsage = f["cpuUsage"].(float64)
			m.MemoryUsage = f["memoryUsage"].(float64)
			m.SystemHealth = f["systemHealth"].(float64)
		}
	}
}

func TestPerturbStepSize(t *testing.T) {
	sim := NewSimulator(time.Second, rand.New(rand.NewSource(7)))
	seed := store.Seed().Phases.Monitor

	for i := 0; i < 100; i++ {
		f := sim.Perturb(seed)
		assert.InDelta(t, seed.ActiveUsers, f["activeUsers"].(float64), 50)
		assert.InDelta(t, seed.RequestsPerMinute, f["requestsPerMinute"].(float64), 100)
		assert.InDelta(t, seed.CPUUsage, f["cpuUsage"].(float64), 5)
		assert.InDelta(t, seed.MemoryUsage, f["memoryUsage"].(float64), 4)
		assert.Len(t, f, 5)
	}
}

func TestSimulatorRunEmitsMonitorUpdates(t *testing.T) {
	st := store.New()
	sim := NewSimulator(5*time.Millisecond, rand.New(rand.NewSource(1)))
	updates := make(chan store.Update)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx, st, updates) }()

	for i := 0; i < 3; i++ {
		select {
		case u := <-updates:
			assert.Equal(t, store.PhaseMonitor, u.Phase)
			assert.Equal(t, "simulator", u.Source)
			assert.NotContains(t, u.Fields, "lastUpdated")
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for simulator update")
		}
	}

	// Nobody reads updates any more; Run must still return on cancel.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("simulator did not stop")
	}
}

func TestNewSimulatorDefaults(t *testing.T) {
	sim := NewSimulator(0, nil)
	assert.Equal(t, DefaultSimulationInterval, sim.Interval())
	assert.Equal(t, "simulator", sim.Name())
}

func TestGitCollectorEmitsCommitCount(t *testing.T) {
	dir := testutil.InitGitRepo(t)
	testutil.CreateCommit(t, dir, "a.txt")

	st := store.New()
	col := NewGitCollector(dir, time.Hour, nil)
	updates := make(chan store.Update, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = col.Run(ctx, st, updates) }()

	select {
	case u := <-updates:
		assert.Equal(t, store.PhaseCode, u.Phase)
		assert.Equal(t, "git", u.Source)
		assert.Equal(t, store.Fields{"commits": 1}, u.Fields)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for git update")
	}
}

func TestGitCollectorSurvivesMissingRepo(t *testing.T) {
	st := store.New()
	col := NewGitCollector(t.TempDir(), 5*time.Millisecond, nil)
	updates := make(chan store.Update, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, col.Run(ctx, st, updates))
	assert.Empty(t, updates)
}
