// Package store provides the in-memory KPI store for the pulse daemon.
package store

import (
	"strings"
	"time"

	"github.com/grovetools/pulse/errors"
)

// Phase identifies one of the six tracked delivery stages.
type Phase string

const (
	PhaseDesign  Phase = "design"
	PhaseCode    Phase = "code"
	PhaseBuild   Phase = "build"
	PhaseQA      Phase = "qa"
	PhaseDeploy  Phase = "deploy"
	PhaseMonitor Phase = "monitor"
)

// AllPhases lists the phases in pipeline order.
var AllPhases = []Phase{PhaseDesign, PhaseCode, PhaseBuild, PhaseQA, PhaseDeploy, PhaseMonitor}

// Valid reports whether p is one of the six known phases.
func (p Phase) Valid() bool {
	for _, known := range AllPhases {
		if p == known {
			return true
		}
	}
	return false
}

// Title returns the display name of the phase.
func (p Phase) Title() string {
	if p == PhaseQA {
		return "QA"
	}
	s := string(p)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParsePhase resolves a case-insensitive phase name.
func ParsePhase(name string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", errors.InvalidPhase(name, PhaseNames())
	}
	return p, nil
}

// PhaseNames returns the phase identifiers as strings.
func PhaseNames() []string {
	names := make([]string, len(AllPhases))
	for i, p := range AllPhases {
		names[i] = string(p)
	}
	return names
}

// DesignMetrics tracks requirement, mockup, prototype and architecture artefacts.
type DesignMetrics struct {
	RequirementsCompleted float64   `json:"requirementsCompleted" mapstructure:"requirementsCompleted"`
	RequirementsTotal     float64   `json:"requirementsTotal" mapstructure:"requirementsTotal"`
	MockupsCompleted      float64   `json:"mockupsCompleted" mapstructure:"mockupsCompleted"`
	MockupsTotal          float64   `json:"mockupsTotal" mapstructure:"mockupsTotal"`
	PrototypesCompleted   float64   `json:"prototypesCompleted" mapstructure:"prototypesCompleted"`
	PrototypesTotal       float64   `json:"prototypesTotal" mapstructure:"prototypesTotal"`
	ArchitectureCompleted float64   `json:"architectureCompleted" mapstructure:"architectureCompleted"`
	ArchitectureTotal     float64   `json:"architectureTotal" mapstructure:"architectureTotal"`
	LastUpdated           time.Time `json:"lastUpdated" mapstructure:"-"`
}

// CodeMetrics tracks repository activity and code health.
type CodeMetrics struct {
	LinesOfCode   float64   `json:"linesOfCode" mapstructure:"linesOfCode"`
	Commits       float64   `json:"commits" mapstructure:"commits"`
	PullRequests  float64   `json:"pullRequests" mapstructure:"pullRequests"`
	CodeReviews   float64   `json:"codeReviews" mapstructure:"codeReviews"`
	TechnicalDebt float64   `json:"technicalDebt" mapstructure:"technicalDebt"`
	Coverage      float64   `json:"coverage" mapstructure:"coverage"`
	LastUpdated   time.Time `json:"lastUpdated" mapstructure:"-"`
}

// BuildMetrics tracks CI build outcomes. BuildTime is in minutes.
type BuildMetrics struct {
	BuildsTotal             float64   `json:"buildsTotal" mapstructure:"buildsTotal"`
	BuildsSuccessful        float64   `json:"buildsSuccessful" mapstructure:"buildsSuccessful"`
	BuildsFailed            float64   `json:"buildsFailed" mapstructure:"buildsFailed"`
	BuildTime               float64   `json:"buildTime" mapstructure:"buildTime"`
	Dependencies            float64   `json:"dependencies" mapstructure:"dependencies"`
	SecurityVulnerabilities float64   `json:"securityVulnerabilities" mapstructure:"securityVulnerabilities"`
	LastUpdated             time.Time `json:"lastUpdated" mapstructure:"-"`
}

// QAMetrics tracks test results and bug flow.
type QAMetrics struct {
	TestsTotal       float64   `json:"testsTotal" mapstructure:"testsTotal"`
	TestsPassed      float64   `json:"testsPassed" mapstructure:"testsPassed"`
	TestsFailed      float64   `json:"testsFailed" mapstructure:"testsFailed"`
	Coverage         float64   `json:"coverage" mapstructure:"coverage"`
	BugsFound        float64   `json:"bugsFound" mapstructure:"bugsFound"`
	BugsResolved     float64   `json:"bugsResolved" mapstructure:"bugsResolved"`
	PerformanceScore float64   `json:"performanceScore" mapstructure:"performanceScore"`
	LastUpdated      time.Time `json:"lastUpdated" mapstructure:"-"`
}

// DeployMetrics tracks release outcomes. ResponseTime is in milliseconds,
// Uptime and ErrorRate are percentages.
type DeployMetrics struct {
	DeploymentsTotal      float64   `json:"deploymentsTotal" mapstructure:"deploymentsTotal"`
	DeploymentsSuccessful float64   `json:"deploymentsSuccessful" mapstructure:"deploymentsSuccessful"`
	DeploymentsFailed     float64   `json:"deploymentsFailed" mapstructure:"deploymentsFailed"`
	Uptime                float64   `json:"uptime" mapstructure:"uptime"`
	ResponseTime          float64   `json:"responseTime" mapstructure:"responseTime"`
	ErrorRate             float64   `json:"errorRate" mapstructure:"errorRate"`
	LastUpdated           time.Time `json:"lastUpdated" mapstructure:"-"`
}

// MonitorMetrics tracks production telemetry.
type MonitorMetrics struct {
	SystemHealth      float64   `json:"systemHealth" mapstructure:"systemHealth"`
	ActiveUsers       float64   `json:"activeUsers" mapstructure:"activeUsers"`
	RequestsPerMinute float64   `json:"requestsPerMinute" mapstructure:"requestsPerMinute"`
	ErrorRate         float64   `json:"errorRate" mapstructure:"errorRate"`
	CPUUsage          float64   `json:"cpuUsage" mapstructure:"cpuUsage"`
	MemoryUsage       float64   `json:"memoryUsage" mapstructure:"memoryUsage"`
	Alerts            float64   `json:"alerts" mapstructure:"alerts"`
	LastUpdated       time.Time `json:"lastUpdated" mapstructure:"-"`
}

func (m *DesignMetrics) touch(t time.Time)  { m.LastUpdated = t }
func (m *CodeMetrics) touch(t time.Time)    { m.LastUpdated = t }
func (m *BuildMetrics) touch(t time.Time)   { m.LastUpdated = t }
func (m *QAMetrics) touch(t time.Time)      { m.LastUpdated = t }
func (m *DeployMetrics) touch(t time.Time)  { m.LastUpdated = t }
func (m *MonitorMetrics) touch(t time.Time) { m.LastUpdated = t }

// Phases holds one record per phase. All six are always populated.
type Phases struct {
	Design  DesignMetrics  `json:"design"`
	Code    CodeMetrics    `json:"code"`
	Build   BuildMetrics   `json:"build"`
	QA      QAMetrics      `json:"qa"`
	Deploy  DeployMetrics  `json:"deploy"`
	Monitor MonitorMetrics `json:"monitor"`
}

// Record returns a copy of the record for p, or nil for an unknown phase.
func (p Phases) Record(phase Phase) any {
	switch phase {
	case PhaseDesign:
		return p.Design
	case PhaseCode:
		return p.Code
	case PhaseBuild:
		return p.Build
	case PhaseQA:
		return p.QA
	case PhaseDeploy:
		return p.Deploy
	case PhaseMonitor:
		return p.Monitor
	}
	return nil
}

// LastUpdated returns the update stamp of a phase.
func (p Phases) LastUpdated(phase Phase) time.Time {
	switch phase {
	case PhaseDesign:
		return p.Design.LastUpdated
	case PhaseCode:
		return p.Code.LastUpdated
	case PhaseBuild:
		return p.Build.LastUpdated
	case PhaseQA:
		return p.QA.LastUpdated
	case PhaseDeploy:
		return p.Deploy.LastUpdated
	case PhaseMonitor:
		return p.Monitor.LastUpdated
	}
	return time.Time{}
}

// Overall holds the four derived scores. Values are percentages but are not
// clamped, so extreme inputs can push them past 100 or below 0.
type Overall struct {
	Health     int `json:"health"`
	Progress   int `json:"progress"`
	Efficiency int `json:"efficiency"`
	Quality    int `json:"quality"`
}

// Snapshot is the complete KPI state. It contains only values, so a copy of
// a Snapshot shares nothing with the store.
type Snapshot struct {
	Overall Overall `json:"overall"`
	Phases  Phases  `json:"phases"`
}

// LastUpdated returns the most recent phase stamp.
func (s Snapshot) LastUpdated() time.Time {
	var latest time.Time
	for _, p := range AllPhases {
		if t := s.Phases.LastUpdated(p); t.After(latest) {
			latest = t
		}
	}
	return latest
}

// Fields is a partial phase record keyed by the record's JSON field names.
// Values may be any Go number or a numeric string.
type Fields map[string]any

// Update is a partial record emitted by a collector for one phase.
type Update struct {
	Phase  Phase
	Fields Fields
	Source string // Which collector sent this update (e.g., "simulator", "git")
}

// Observer is called with the new snapshot after every successful update.
type Observer func(Snapshot)
