package store

import (
	"math"

	"github.com/grovetools/pulse/pkg/format"
)

// Breakdown holds the intermediate ratios the overall scores are built from.
type Breakdown struct {
	DesignProgress  float64 `json:"designProgress"`
	CodeQuality     float64 `json:"codeQuality"`
	BuildSuccess    float64 `json:"buildSuccess"`
	QAPassRate      float64 `json:"qaPassRate"`
	DeploySuccess   float64 `json:"deploySuccess"`
	MonitorHealth   float64 `json:"monitorHealth"`
	BuildEfficiency float64 `json:"buildEfficiency"`
	CodeEfficiency  float64 `json:"codeEfficiency"`
	BugQuality      float64 `json:"bugQuality"`
}

// ComputeBreakdown derives the intermediate ratios from all six phases.
func ComputeBreakdown(p Phases) Breakdown {
	bugQuality := 100.0
	if p.QA.BugsFound > 0 {
		bugQuality = 100 * p.QA.BugsResolved / p.QA.BugsFound
	}

	return Breakdown{
		DesignProgress:  ratio(p.Design.RequirementsCompleted, p.Design.RequirementsTotal),
		CodeQuality:     p.Code.Coverage,
		BuildSuccess:    ratio(p.Build.BuildsSuccessful, p.Build.BuildsTotal),
		QAPassRate:      ratio(p.QA.TestsPassed, p.QA.TestsTotal),
		DeploySuccess:   ratio(p.Deploy.DeploymentsSuccessful, p.Deploy.DeploymentsTotal),
		MonitorHealth:   p.Monitor.SystemHealth,
		BuildEfficiency: math.Max(0, 100-p.Build.BuildTime*10),
		CodeEfficiency:  math.Max(0, 100-p.Code.TechnicalDebt*5),
		BugQuality:      bugQuality,
	}
}

// Recalculate derives the four overall scores from all six phases.
func Recalculate(p Phases) Overall {
	b := ComputeBreakdown(p)
	return Overall{
		Health: format.Round(mean(
			b.DesignProgress, b.CodeQuality, b.BuildSuccess,
			b.QAPassRate, b.DeploySuccess, b.MonitorHealth,
		)),
		Progress:   format.Round(mean(b.DesignProgress, b.CodeQuality, b.QAPassRate, b.DeploySuccess)),
		Efficiency: format.Round(mean(b.BuildEfficiency, b.CodeEfficiency, b.DeploySuccess)),
		Quality:    format.Round(mean(p.QA.Coverage, b.BugQuality, p.QA.PerformanceScore)),
	}
}

// ratio returns 100*part/total, or 0 when total is 0.
func ratio(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * part / total
}

func mean(values ...float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
