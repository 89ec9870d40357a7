package store

import (
	"math"

	"github.com/grovetools/pulse/pkg/format"
)

// Status is the coarse state of a phase shown on the overview.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusPending    Status = "pending"
	StatusFailed     Status = "failed"
	StatusWarning    Status = "warning"
)

// Level grades a single gauge for the phase views.
type Level string

const (
	LevelExcellent        Level = "excellent"
	LevelGood             Level = "good"
	LevelNeedsImprovement Level = "needs-improvement"
	LevelHealthy          Level = "healthy"
	LevelWarning          Level = "warning"
	LevelCritical         Level = "critical"
	LevelLow              Level = "low"
	LevelMedium           Level = "medium"
	LevelHigh             Level = "high"
)

// PhaseStatus is one row of the overview: how far a phase has got and
// whether it is done.
type PhaseStatus struct {
	Phase    Phase  `json:"phase"`
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
}

// PhaseSummary derives the overview row of every phase, in pipeline order.
func PhaseSummary(s Snapshot) []PhaseStatus {
	p := s.Phases
	return []PhaseStatus{
		{
			Phase:    PhaseDesign,
			Progress: format.CalculatePercentage(p.Design.RequirementsCompleted, p.Design.RequirementsTotal),
			Status:   designStatus(p.Design),
		},
		{
			Phase:    PhaseCode,
			Progress: format.Round(math.Min(p.Code.Coverage, 100)),
			Status:   tiered(p.Code.Coverage, 80, 50),
		},
		{
			Phase:    PhaseBuild,
			Progress: format.CalculatePercentage(p.Build.BuildsSuccessful, p.Build.BuildsTotal),
			Status:   doneWhen(p.Build.BuildsFailed == 0),
		},
		{
			Phase:    PhaseQA,
			Progress: format.CalculatePercentage(p.QA.TestsPassed, p.QA.TestsTotal),
			Status:   doneWhen(p.QA.PerformanceScore > 90),
		},
		{
			Phase:    PhaseDeploy,
			Progress: format.CalculatePercentage(p.Deploy.DeploymentsSuccessful, p.Deploy.DeploymentsTotal),
			Status:   doneWhen(p.Deploy.ErrorRate < 1),
		},
		{
			Phase:    PhaseMonitor,
			Progress: format.Round(p.Monitor.SystemHealth),
			Status:   tiered(p.Monitor.SystemHealth, 95, 80),
		},
	}
}

func designStatus(d DesignMetrics) Status {
	return doneWhen(d.RequirementsCompleted == d.RequirementsTotal)
}

func doneWhen(done bool) Status {
	if done {
		return StatusCompleted
	}
	return StatusInProgress
}

func tiered(v, completed, inProgress float64) Status {
	switch {
	case v > completed:
		return StatusCompleted
	case v > inProgress:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// OpenBugs is the number of reported bugs not yet resolved.
func (q QAMetrics) OpenBugs() float64 {
	return q.BugsFound - q.BugsResolved
}

// BugResolutionRate is the resolved share of reported bugs, 100 when none
// were reported.
func (q QAMetrics) BugResolutionRate() int {
	if q.BugsFound <= 0 {
		return 100
	}
	return format.CalculatePercentage(q.BugsResolved, q.BugsFound)
}

// CodeQualityLevel grades test coverage.
func CodeQualityLevel(coverage float64) Level {
	switch {
	case coverage > 80:
		return LevelExcellent
	case coverage > 60:
		return LevelGood
	default:
		return LevelNeedsImprovement
	}
}

// TechDebtLevel grades the technical debt estimate.
func TechDebtLevel(debt float64) Level {
	switch {
	case debt < 5:
		return LevelLow
	case debt < 15:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// DeployErrorLevel grades the deploy error rate.
func DeployErrorLevel(rate float64) Level {
	switch {
	case rate < 1:
		return LevelExcellent
	case rate < 3:
		return LevelGood
	default:
		return LevelNeedsImprovement
	}
}

// SystemHealthLevel grades the monitor health score.
func SystemHealthLevel(health float64) Level {
	switch {
	case health > 95:
		return LevelExcellent
	case health > 85:
		return LevelGood
	case health > 70:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// MonitorErrorLevel grades the production error rate.
func MonitorErrorLevel(rate float64) Level {
	switch {
	case rate < 1:
		return LevelExcellent
	case rate < 3:
		return LevelGood
	case rate < 5:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// ResourceLevel grades CPU or memory usage.
func ResourceLevel(usage float64) Level {
	switch {
	case usage < 70:
		return LevelHealthy
	case usage < 85:
		return LevelWarning
	default:
		return LevelCritical
	}
}
