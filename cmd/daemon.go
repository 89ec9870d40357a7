package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/pulse/cli"
	"github.com/grovetools/pulse/config"
	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/internal/daemon/collector"
	"github.com/grovetools/pulse/internal/daemon/engine"
	"github.com/grovetools/pulse/internal/daemon/metrics"
	"github.com/grovetools/pulse/internal/daemon/pidfile"
	"github.com/grovetools/pulse/internal/daemon/server"
	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/internal/daemon/watcher"
	"github.com/grovetools/pulse/logging"
	"github.com/grovetools/pulse/pkg/client"
	"github.com/grovetools/pulse/pkg/paths"
	"github.com/grovetools/pulse/pkg/process"
	"github.com/grovetools/pulse/util/pathutil"
)

// daemonComponent names the daemon's logger and log files.
const daemonComponent = "pulsed"

// shutdownTimeout bounds how long the daemon waits for listeners to drain.
const shutdownTimeout = 5 * time.Second

// NewDaemonCmd returns the daemon command with subcommands.
func NewDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the pulse daemon",
		Long:  "The daemon owns the KPI store, runs the collectors and serves the API over a unix socket.",
	}

	cmd.AddCommand(newDaemonStartCmd())
	cmd.AddCommand(newDaemonStopCmd())
	cmd.AddCommand(newDaemonStatusCmd())
	cmd.AddCommand(newDaemonLogsCmd())

	return cmd
}

func newDaemonStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(daemonComponent)
			if cli.GetOptions(cmd).Verbose {
				logger.Logger.SetLevel(logrus.DebugLevel)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runDaemon(ctx, cfg, daemonPaths{
				pidFile: paths.PidFilePath(),
				socket:  paths.SocketPath(),
			}, logger)
		},
	}
}

type daemonPaths struct {
	pidFile string
	socket  string
}

// runDaemon serves the store until ctx is cancelled. Every long-running
// piece shares one errgroup, so a failing listener takes the rest down.
func runDaemon(ctx context.Context, cfg *config.Config, p daemonPaths, logger *logrus.Entry) error {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.SetDefaults()
	d := cfg.Daemon

	gitRepo, err := pathutil.Expand(d.GitRepo)
	if err != nil {
		return fmt.Errorf("invalid daemon.git_repo: %w", err)
	}

	// 1. Acquire Lock
	if err := pidfile.Acquire(p.pidFile); err != nil {
		return err
	}
	defer func() {
		if err := pidfile.Release(p.pidFile); err != nil {
			logger.Errorf("Failed to release pidfile: %v", err)
		}
	}()

	// 2. Setup Store and Engine
	st := store.New(store.WithLogger(logger))
	eng := engine.New(st, logger)
	if d.SimulationEnabled() {
		eng.Register(collector.NewSimulator(d.SimulationEvery(), nil))
	}
	if gitRepo != "" {
		eng.Register(collector.NewGitCollector(gitRepo, d.GitEvery(), logger))
	}

	// 3. Setup Server
	rec := metrics.NewRecorder()
	detach := rec.Attach(st)
	defer detach()

	srv := server.New(st, rec, logger)
	running := &server.RunningConfig{
		ConfigFile:  cfg.Source,
		Simulation:  d.SimulationEnabled(),
		GitRepo:     gitRepo,
		GitInterval: d.GitEvery(),
		Listen:      d.Listen,
		Collectors:  eng.Collectors(),
		StartedAt:   time.Now(),
	}
	if running.Simulation {
		running.SimulationInterval = d.SimulationEvery()
	}
	srv.SetRunningConfig(running)

	g, gctx := errgroup.WithContext(ctx)

	// 4. Engine and listeners
	g.Go(func() error {
		eng.Start(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.ListenAndServe(p.socket)
	})
	if d.Listen != "" {
		g.Go(func() error {
			return srv.ListenAndServeTCP(d.Listen)
		})
	}

	// 5. Config watcher
	if d.WatchEnabled() {
		w, err := watcher.New(config.WatchDirs(cfg), d.Debounce(), logger.WithField("subsystem", "watcher"), srv.BroadcastConfigReload)
		if err != nil {
			logger.WithError(err).Warn("Config watching disabled")
		} else {
			g.Go(func() error {
				w.Start(gctx)
				return nil
			})
		}
	}

	// 6. Shutdown on cancellation
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received stop signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown error: %v", err)
		}
		return nil
	})

	logger.WithFields(logrus.Fields{
		"pid":        os.Getpid(),
		"collectors": eng.Collectors(),
	}).Info("Starting daemon")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("Daemon stopped")
	return nil
}

func newDaemonStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if !running {
				pretty.InfoPretty("Daemon is not running")
				return nil
			}

			if err := process.Terminate(pid); err != nil {
				return err
			}
			pretty.Success(fmt.Sprintf("Sent SIGTERM to process %d", pid))
			return nil
		},
	}
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		Long:  "Reports whether the daemon is running and the settings it runs with. Exits non-zero when stopped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sockPath := paths.SocketPath()
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}
			if !running {
				return errors.DaemonNotRunning(sockPath)
			}

			out := cmd.OutOrStdout()
			c := client.NewRemoteClient(sockPath)
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
			defer cancel()
			rc, err := c.Config(ctx)

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, struct {
					Running bool                  `json:"running"`
					PID     int                   `json:"pid"`
					Socket  string                `json:"socket"`
					Config  *client.RunningConfig `json:"config,omitempty"`
				}{true, pid, sockPath, rc})
			}

			fmt.Fprintf(out, "Running (PID: %d)\nSocket: %s\n", pid, sockPath)
			if err != nil {
				cli.GetLogger(cmd).WithError(err).Debug("Could not read running config")
				return nil
			}
			fmt.Fprintf(out, "Collectors: %v\n", rc.Collectors)
			if rc.Simulation {
				fmt.Fprintf(out, "Simulation: every %s\n", rc.SimulationInterval)
			}
			if rc.GitRepo != "" {
				fmt.Fprintf(out, "Git repo: %s (every %s)\n", rc.GitRepo, rc.GitInterval)
			}
			if rc.Listen != "" {
				fmt.Fprintf(out, "TCP: %s\n", rc.Listen)
			}
			if rc.ConfigFile != "" {
				fmt.Fprintf(out, "Config: %s\n", rc.ConfigFile)
			}
			fmt.Fprintf(out, "Started: %s\n", rc.StartedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func newDaemonLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the daemon log",
		Long: `Prints the newest daemon log file.

Examples:
  # Last 50 lines
  pulse daemon logs

  # Follow the log as the daemon writes it
  pulse daemon logs -f`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			follow, _ := cmd.Flags().GetBool("follow")
			lines, _ := cmd.Flags().GetInt("lines")

			path := latestLogFile(paths.LogDir(), daemonComponent)
			if path == "" {
				path = logging.LogFilePath(daemonComponent)
				if !follow {
					return fmt.Errorf("no daemon log found in %s", paths.LogDir())
				}
			}

			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); err == nil {
				if err := printLastLines(out, path, lines); err != nil {
					return err
				}
			}
			if !follow {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return followFile(ctx, out, path)
		},
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().IntP("lines", "n", 50, "Number of lines to show from the end of the log (0 for all)")

	return cmd
}

// latestLogFile returns the most recent dated log file of component in dir.
// The date suffix sorts lexically.
func latestLogFile(dir, component string) string {
	if dir == "" {
		return ""
	}
	matches, err := filepath.Glob(filepath.Join(dir, component+"-*.log"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[len(matches)-1]
}

// printLastLines writes the last n lines of path, or all of them when n <= 0.
func printLastLines(w io.Writer, path string, n int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var ring []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		ring = append(ring, scanner.Text())
		if n > 0 && len(ring) > n {
			ring = ring[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, line := range ring {
		fmt.Fprintln(w, line)
	}
	return nil
}

// followFile streams lines appended to path until ctx is cancelled. The file
// may not exist yet, and is reopened when the daemon rotates to a new one.
func followFile(ctx context.Context, w io.Writer, path string) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return fmt.Errorf("cannot tail %s: %w", path, err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				continue
			}
			fmt.Fprintln(w, line.Text)
		}
	}
}
