package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/pkg/format"
)

// Card is one headline figure of a view.
type Card struct {
	Title       string
	Value       string
	Description string
	// Status selects the value color, see theme.StatusStyle.
	Status string
}

// Bar is one progress gauge of a view. Percent is in [0, 100].
type Bar struct {
	Label   string
	Percent float64
	Status  string
}

// overviewCards returns the four overall scores.
func overviewCards(o store.Overall) []Card {
	return []Card{
		{Title: "Overall Health", Value: pct(o.Health), Description: "System-wide health score", Status: scoreStatus(o.Health)},
		{Title: "Project Progress", Value: pct(o.Progress), Description: "Overall completion rate", Status: scoreStatus(o.Progress)},
		{Title: "Team Efficiency", Value: pct(o.Efficiency), Description: "Development velocity", Status: scoreStatus(o.Efficiency)},
		{Title: "Quality Score", Value: pct(o.Quality), Description: "Code and testing quality", Status: scoreStatus(o.Quality)},
	}
}

func scoreStatus(v int) string {
	switch {
	case v > 80:
		return string(store.LevelExcellent)
	case v > 60:
		return string(store.LevelGood)
	default:
		return string(store.LevelNeedsImprovement)
	}
}

// phaseCards returns the headline figures of one phase view.
func phaseCards(phase store.Phase, p store.Phases) []Card {
	switch phase {
	case store.PhaseDesign:
		d := p.Design
		return []Card{
			ratioCard("Requirements", d.RequirementsCompleted, d.RequirementsTotal, "Functional and non-functional requirements"),
			ratioCard("Mockups & Wireframes", d.MockupsCompleted, d.MockupsTotal, "UI/UX design assets"),
			ratioCard("Prototypes", d.PrototypesCompleted, d.PrototypesTotal, "Interactive design prototypes"),
			ratioCard("Architecture", d.ArchitectureCompleted, d.ArchitectureTotal, "System architecture documentation"),
		}

	case store.PhaseCode:
		c := p.Code
		return []Card{
			{Title: "Lines of Code", Value: format.FormatBytes(c.LinesOfCode, 2), Description: "Total codebase size"},
			{Title: "Code Coverage", Value: format.FormatPercent(c.Coverage), Description: "Test coverage percentage", Status: string(store.CodeQualityLevel(c.Coverage))},
			{Title: "Active Commits", Value: format.FormatCount(c.Commits), Description: "Total commits"},
			{Title: "Technical Debt", Value: decimal(c.TechnicalDebt) + "d", Description: "Estimated debt time", Status: string(store.TechDebtLevel(c.TechnicalDebt))},
		}

	case store.PhaseBuild:
		b := p.Build
		success := format.CalculatePercentage(b.BuildsSuccessful, b.BuildsTotal)
		return []Card{
			{Title: "Build Success Rate", Value: pct(success), Description: "Percentage of successful builds", Status: string(doneOr(b.BuildsFailed == 0))},
			{Title: "Total Builds", Value: format.FormatCount(b.BuildsTotal), Description: "Total build executions"},
			{Title: "Build Time", Value: decimal(b.BuildTime) + "m", Description: "Average build duration"},
			{Title: "Dependencies", Value: format.FormatCount(b.Dependencies), Description: fmt.Sprintf("%s known vulnerabilities", format.FormatCount(b.SecurityVulnerabilities)), Status: vulnerabilityStatus(b.SecurityVulnerabilities)},
		}

	case store.PhaseQA:
		q := p.QA
		return []Card{
			{Title: "Test Coverage", Value: format.FormatPercent(q.Coverage), Description: "Code coverage percentage", Status: string(store.CodeQualityLevel(q.Coverage))},
			{Title: "Test Pass Rate", Value: pct(format.CalculatePercentage(q.TestsPassed, q.TestsTotal)), Description: "Tests passing successfully"},
			{Title: "Open Bugs", Value: format.FormatCount(q.OpenBugs()), Description: "Active bug reports"},
			{Title: "Performance Score", Value: decimal(q.PerformanceScore), Description: "Overall performance rating", Status: string(doneOr(q.PerformanceScore > 90))},
		}

	case store.PhaseDeploy:
		d := p.Deploy
		return []Card{
			{Title: "Deployment Success Rate", Value: pct(format.CalculatePercentage(d.DeploymentsSuccessful, d.DeploymentsTotal)), Description: "Successful deployment percentage"},
			{Title: "System Uptime", Value: format.FormatPercent(d.Uptime), Description: "System availability"},
			{Title: "Response Time", Value: decimal(d.ResponseTime) + "ms", Description: "Average response time"},
			{Title: "Error Rate", Value: format.FormatPercent(d.ErrorRate), Description: "System error percentage", Status: string(store.DeployErrorLevel(d.ErrorRate))},
		}

	case store.PhaseMonitor:
		mo := p.Monitor
		return []Card{
			{Title: "System Health", Value: format.FormatPercent(mo.SystemHealth), Description: fmt.Sprintf("%s active alerts", format.FormatCount(mo.Alerts)), Status: string(store.SystemHealthLevel(mo.SystemHealth))},
			{Title: "Active Users", Value: format.FormatCount(mo.ActiveUsers), Description: "Currently active users"},
			{Title: "Request Rate", Value: format.FormatCount(mo.RequestsPerMinute) + "/min", Description: "Current request volume"},
			{Title: "Error Rate", Value: format.FormatPercent(mo.ErrorRate), Description: "System error percentage", Status: string(store.MonitorErrorLevel(mo.ErrorRate))},
		}
	}
	return nil
}

// phaseBars returns the gauges of one phase view.
func phaseBars(phase store.Phase, p store.Phases) []Bar {
	switch phase {
	case store.PhaseDesign:
		d := p.Design
		return []Bar{
			ratioBar("Requirements", d.RequirementsCompleted, d.RequirementsTotal),
			ratioBar("Mockups", d.MockupsCompleted, d.MockupsTotal),
			ratioBar("Prototypes", d.PrototypesCompleted, d.PrototypesTotal),
			ratioBar("Architecture", d.ArchitectureCompleted, d.ArchitectureTotal),
		}

	case store.PhaseCode:
		c := p.Code
		quality := store.CodeQualityLevel(c.Coverage)
		debt := store.TechDebtLevel(c.TechnicalDebt)
		return []Bar{
			newBar("Test Coverage", c.Coverage, string(quality)),
			newBar("Code Quality", qualityGauge[quality], string(quality)),
			newBar("Technical Debt", debtGauge[debt], string(debt)),
		}

	case store.PhaseBuild:
		b := p.Build
		return []Bar{
			newBar("Success Rate", float64(format.CalculatePercentage(b.BuildsSuccessful, b.BuildsTotal)), string(store.StatusCompleted)),
			newBar("Failure Rate", float64(format.CalculatePercentage(b.BuildsFailed, b.BuildsTotal)), string(store.StatusFailed)),
		}

	case store.PhaseQA:
		q := p.QA
		return []Bar{
			newBar("Pass Rate", float64(format.CalculatePercentage(q.TestsPassed, q.TestsTotal)), string(store.StatusCompleted)),
			newBar("Fail Rate", float64(format.CalculatePercentage(q.TestsFailed, q.TestsTotal)), string(store.StatusFailed)),
			newBar("Coverage", q.Coverage, string(store.CodeQualityLevel(q.Coverage))),
			newBar("Bug Resolution", float64(q.BugResolutionRate()), string(store.StatusInProgress)),
		}

	case store.PhaseDeploy:
		d := p.Deploy
		return []Bar{
			newBar("Success Rate", float64(format.CalculatePercentage(d.DeploymentsSuccessful, d.DeploymentsTotal)), string(store.StatusCompleted)),
			newBar("Failure Rate", float64(format.CalculatePercentage(d.DeploymentsFailed, d.DeploymentsTotal)), string(store.StatusFailed)),
		}

	case store.PhaseMonitor:
		mo := p.Monitor
		return []Bar{
			newBar("System Health", mo.SystemHealth, string(store.SystemHealthLevel(mo.SystemHealth))),
			// Scaled so a 10% error rate fills the bar.
			newBar("Error Rate", mo.ErrorRate*10, string(store.MonitorErrorLevel(mo.ErrorRate))),
			newBar("CPU Usage", mo.CPUUsage, string(store.ResourceLevel(mo.CPUUsage))),
			newBar("Memory Usage", mo.MemoryUsage, string(store.ResourceLevel(mo.MemoryUsage))),
		}
	}
	return nil
}

var qualityGauge = map[store.Level]float64{
	store.LevelExcellent:        90,
	store.LevelGood:             70,
	store.LevelNeedsImprovement: 40,
}

var debtGauge = map[store.Level]float64{
	store.LevelLow:    20,
	store.LevelMedium: 60,
	store.LevelHigh:   80,
}

func ratioCard(title string, done, total float64, desc string) Card {
	return Card{
		Title:       title,
		Value:       format.FormatCount(done) + "/" + format.FormatCount(total),
		Description: desc,
		Status:      string(doneOr(done >= total)),
	}
}

func ratioBar(label string, done, total float64) Bar {
	return newBar(label, float64(format.CalculatePercentage(done, total)), string(doneOr(done >= total)))
}

func newBar(label string, percent float64, status string) Bar {
	return Bar{Label: label, Percent: math.Max(0, math.Min(100, percent)), Status: status}
}

func doneOr(done bool) store.Status {
	if done {
		return store.StatusCompleted
	}
	return store.StatusInProgress
}

func vulnerabilityStatus(n float64) string {
	if n > 0 {
		return string(store.StatusWarning)
	}
	return string(store.LevelHealthy)
}

func pct(v int) string {
	return fmt.Sprintf("%d%%", v)
}

func decimal(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}
