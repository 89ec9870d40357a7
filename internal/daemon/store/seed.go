package store

import "time"

// SeedTime is the lastUpdated stamp carried by every seeded phase record.
var SeedTime = time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)

// Seed returns the snapshot a new store starts from. The overall scores are
// the published seed values; they are not recomputed until the first update.
func Seed() Snapshot {
	return Snapshot{
		Overall: Overall{
			Health:     92,
			Progress:   78,
			Efficiency: 85,
			Quality:    88,
		},
		Phases: Phases{
			Design: DesignMetrics{
				RequirementsCompleted: 45,
				RequirementsTotal:     50,
				MockupsCompleted:      28,
				MockupsTotal:          30,
				PrototypesCompleted:   8,
				PrototypesTotal:       10,
				ArchitectureCompleted: 12,
				ArchitectureTotal:     15,
				LastUpdated:           SeedTime,
			},
			Code: CodeMetrics{
				LinesOfCode:   250000,
				Commits:       342,
				PullRequests:  28,
				CodeReviews:   67,
				TechnicalDebt: 8,
				Coverage:      85,
				LastUpdated:   SeedTime,
			},
			Build: BuildMetrics{
				BuildsTotal:             156,
				BuildsSuccessful:        142,
				BuildsFailed:            14,
				BuildTime:               4.5,
				Dependencies:            48,
				SecurityVulnerabilities: 3,
				LastUpdated:             SeedTime,
			},
			QA: QAMetrics{
				TestsTotal:       408,
				TestsPassed:      394,
				TestsFailed:      14,
				Coverage:         85,
				BugsFound:        67,
				BugsResolved:     52,
				PerformanceScore: 88,
				LastUpdated:      SeedTime,
			},
			Deploy: DeployMetrics{
				DeploymentsTotal:      48,
				DeploymentsSuccessful: 45,
				DeploymentsFailed:     3,
				Uptime:                99.7,
				ResponseTime:          145,
				ErrorRate:             0.8,
				LastUpdated:           SeedTime,
			},
			Monitor: MonitorMetrics{
				SystemHealth:      94,
				ActiveUsers:       1250,
				RequestsPerMinute: 2450,
				ErrorRate:         0.8,
				CPUUsage:          68,
				MemoryUsage:       72,
				Alerts:            5,
				LastUpdated:       SeedTime,
			},
		},
	}
}
