package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseSummarySeed(t *testing.T) {
	got := PhaseSummary(Seed())

	want := []PhaseStatus{
		{Phase: PhaseDesign, Progress: 90, Status: StatusInProgress},
		{Phase: PhaseCode, Progress: 85, Status: StatusCompleted},
		{Phase: PhaseBuild, Progress: 91, Status: StatusInProgress},
		{Phase: PhaseQA, Progress: 97, Status: StatusInProgress},
		{Phase: PhaseDeploy, Progress: 94, Status: StatusCompleted},
		{Phase: PhaseMonitor, Progress: 94, Status: StatusInProgress},
	}
	assert.Equal(t, want, got)
}

func TestPhaseSummaryThresholds(t *testing.T) {
	snap := Seed()
	snap.Phases.Design.RequirementsCompleted = 50
	snap.Phases.Code.Coverage = 40
	snap.Phases.Build.BuildsFailed = 0
	snap.Phases.QA.PerformanceScore = 95
	snap.Phases.Deploy.ErrorRate = 1
	snap.Phases.Monitor.SystemHealth = 80

	statuses := make(map[Phase]Status)
	for _, row := range PhaseSummary(snap) {
		statuses[row.Phase] = row.Status
	}

	assert.Equal(t, map[Phase]Status{
		PhaseDesign:  StatusCompleted,
		PhaseCode:    StatusPending,
		PhaseBuild:   StatusCompleted,
		PhaseQA:      StatusCompleted,
		PhaseDeploy:  StatusInProgress,
		PhaseMonitor: StatusPending,
	}, statuses)
}

func TestCodeProgressCappedAt100(t *testing.T) {
	snap := Seed()
	snap.Phases.Code.Coverage = 140
	assert.Equal(t, 100, PhaseSummary(snap)[1].Progress)
}

func TestLevels(t *testing.T) {
	assert.Equal(t, LevelExcellent, CodeQualityLevel(85))
	assert.Equal(t, LevelGood, CodeQualityLevel(80))
	assert.Equal(t, LevelNeedsImprovement, CodeQualityLevel(60))

	assert.Equal(t, LevelLow, TechDebtLevel(4))
	assert.Equal(t, LevelMedium, TechDebtLevel(8))
	assert.Equal(t, LevelHigh, TechDebtLevel(15))

	assert.Equal(t, LevelExcellent, DeployErrorLevel(0.8))
	assert.Equal(t, LevelGood, DeployErrorLevel(2))
	assert.Equal(t, LevelNeedsImprovement, DeployErrorLevel(3))

	assert.Equal(t, LevelExcellent, SystemHealthLevel(96))
	assert.Equal(t, LevelGood, SystemHealthLevel(94))
	assert.Equal(t, LevelWarning, SystemHealthLevel(85))
	assert.Equal(t, LevelCritical, SystemHealthLevel(70))

	assert.Equal(t, LevelExcellent, MonitorErrorLevel(0.8))
	assert.Equal(t, LevelWarning, MonitorErrorLevel(4.9))
	assert.Equal(t, LevelCritical, MonitorErrorLevel(5))

	assert.Equal(t, LevelHealthy, ResourceLevel(68))
	assert.Equal(t, LevelWarning, ResourceLevel(72))
	assert.Equal(t, LevelCritical, ResourceLevel(85))
}

func TestBugResolution(t *testing.T) {
	qa := Seed().Phases.QA
	assert.Equal(t, float64(15), qa.OpenBugs())
	assert.Equal(t, 78, qa.BugResolutionRate())

	qa.BugsFound = 0
	assert.Equal(t, 100, qa.BugResolutionRate())
}
