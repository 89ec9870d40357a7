// Package cmd holds the pulse command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/pulse/cli"
	"github.com/grovetools/pulse/pkg/profiling"
)

// NewRootCmd assembles the pulse command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"pulse",
		"Track delivery KPIs across the SDLC from the terminal",
	)
	root.Long = `Pulse tracks KPIs for six delivery phases (design, code, build, qa,
deploy and monitor) and derives overall health, progress, efficiency and
quality scores from them.

A background daemon keeps the state, simulates monitor telemetry and
streams updates to the dashboard. Without a daemon, commands work against
a fresh in-process store.

Examples:
  pulse daemon start
  pulse snapshot
  pulse update qa testsPassed=1190 testsFailed=60
  pulse dashboard`

	root.AddCommand(NewDaemonCmd())
	root.AddCommand(NewSnapshotCmd())
	root.AddCommand(NewPhaseCmd())
	root.AddCommand(NewUpdateCmd())
	root.AddCommand(NewDashboardCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(cli.NewVersionCommand("pulse"))

	profiling.NewCobraProfiler().AddFlags(root)

	return root
}
