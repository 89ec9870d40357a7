package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/pulse/cli"
	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/logging"
	"github.com/grovetools/pulse/pkg/client"
	"github.com/grovetools/pulse/pkg/profiling"
)

// newClient is swapped in tests.
var newClient = client.New

// NewSnapshotCmd creates the `snapshot` command.
func NewSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print the current KPI snapshot",
		Long: `Prints the overall scores and the status of every phase.

Reads from the daemon when it is running, otherwise from a freshly seeded
in-process store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			connect := profiling.Start("connect")
			c := newClient()
			defer c.Close()
			if !c.IsRunning() {
				cli.GetLogger(cmd).Debug("Daemon not running, showing seed data")
			}
			connect.Stop()

			fetch := profiling.Start("fetch")
			snap, err := c.Snapshot(cmd.Context())
			fetch.Stop()
			if err != nil {
				return err
			}

			defer profiling.Start("render").Stop()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			renderSnapshot(cmd.OutOrStdout(), snap, time.Now())
			return nil
		},
	}
}

// NewPhaseCmd creates the `phase` command.
func NewPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "phase <name>",
		Short:     "Print the record of one phase",
		Long:      "Prints every field of one phase record. Phases: " + strings.Join(store.PhaseNames(), ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: store.PhaseNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := store.ParsePhase(args[0])
			if err != nil {
				return err
			}

			c := newClient()
			defer c.Close()

			fetch := profiling.Start("fetch")
			record, err := c.Phase(cmd.Context(), phase)
			fetch.Stop()
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), record)
			}
			renderPhase(cmd.OutOrStdout(), phase, record, time.Now())
			return nil
		},
	}
}

// NewUpdateCmd creates the `update` command.
func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <phase> <field=value>...",
		Short: "Merge new values into one phase",
		Long: `Sets one or more fields of a phase record. Fields that are not named keep
their values. The update is rejected as a whole if any field is unknown or
its value is not a number.

Without a running daemon the update goes to an in-process store and is lost
when the command exits.

Examples:
  pulse update qa testsPassed=1190 testsFailed=60
  pulse update monitor systemHealth=97.5 alerts=0`,
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: store.PhaseNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			phase, err := store.ParsePhase(args[0])
			if err != nil {
				return err
			}
			fields, err := store.ParseFields(args[1:])
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid field arguments")
			}

			c := newClient()
			defer c.Close()
			logger := cli.GetLogger(cmd)
			if !c.IsRunning() {
				logger.Warn("Daemon not running; the update will not be kept")
			}

			apply := profiling.Start("update")
			snap, err := c.UpdatePhase(cmd.Context(), phase, fields)
			apply.Stop()
			if err != nil {
				return err
			}
			logger.WithField("phase", phase).Debugf("Updated %d fields", len(fields))

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, snap)
			}
			logging.NewPrettyLogger().WithWriter(out).Success(fmt.Sprintf("Updated %s (%d fields)", phase.Title(), len(fields)))
			renderSnapshot(out, snap, time.Now())
			return nil
		},
	}
	cli.SetHelpSections(cmd, phaseFieldSections)
	return cmd
}

// phaseFieldSections lists the fields each phase accepts.
func phaseFieldSections() []cli.HelpSection {
	rows := make([]cli.HelpRow, len(store.AllPhases))
	for i, p := range store.AllPhases {
		rows[i] = cli.HelpRow{Name: string(p), Text: strings.Join(store.FieldNames(p), ", ")}
	}
	return []cli.HelpSection{{Title: "FIELDS", Rows: rows}}
}
