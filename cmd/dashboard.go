package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grovetools/pulse/cli"
	"github.com/grovetools/pulse/logging"
	"github.com/grovetools/pulse/pkg/client"
	"github.com/grovetools/pulse/tui"
	"github.com/grovetools/pulse/tui/dashboard"
	"github.com/grovetools/pulse/tui/keymap"
	"github.com/grovetools/pulse/tui/theme"
	"github.com/grovetools/pulse/version"
)

// NewDashboardCmd creates the `dashboard` command.
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive KPI dashboard",
		Long: `Opens a full-screen dashboard with an overview of the overall scores and
one view per phase. It follows the daemon's live updates; without a daemon it
runs the simulator against an in-process store.

Set PULSE_THEME to override the dashboard.theme setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			tui.InitializeTUI()

			// Log lines would tear the alternate screen.
			prev := logging.GetGlobalOutput()
			logging.SetGlobalOutput(io.Discard)
			defer logging.SetGlobalOutput(prev)

			c := newClient()
			defer c.Close()
			if local, ok := c.(*client.LocalClient); ok {
				local.StartSimulation(cfg.Daemon.SimulationEvery())
			}

			themeName := os.Getenv("PULSE_THEME")
			if themeName == "" {
				themeName = cfg.Dashboard.Theme
			}

			m := dashboard.New(dashboard.Options{
				Client:  c,
				Theme:   theme.NewThemeWithName(themeName),
				Keys:    keymap.Load(cfg, cli.GetLogger(cmd)),
				Version: version.GetInfo().Short(),
				Refresh: cfg.Dashboard.RefreshEvery(),
			})

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("dashboard error: %w", err)
			}
			return nil
		},
	}
}
