package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// CobraProfiler wires --timing, --cpu-profile and --mem-profile into a
// command tree. Reports go to the command's stderr so --json output on
// stdout stays parseable.
type CobraProfiler struct {
	timer          *Timer
	cpuProfileFile *os.File
	cpuProfilePath string
	memProfilePath string
	timing         bool
}

// NewCobraProfiler creates a profiler driving the global timer.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{timer: defaultTimer}
}

// AddFlags registers the profiling flags and hooks on root. Existing
// persistent hooks of root are kept and run after PreRun and before PostRun.
func (p *CobraProfiler) AddFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing summary on exit")
	root.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write a CPU profile to file")
	root.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write a memory profile to file")
	_ = root.PersistentFlags().MarkHidden("cpu-profile")
	_ = root.PersistentFlags().MarkHidden("mem-profile")

	pre := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := p.PreRun(cmd, args); err != nil {
			return err
		}
		if pre != nil {
			return pre(cmd, args)
		}
		return nil
	}

	post := root.PersistentPostRunE
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if post != nil {
			if err := post(cmd, args); err != nil {
				return err
			}
		}
		return p.PostRun(cmd, args)
	}
}

// PreRun starts the timer and the CPU profile as requested by the flags.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		p.timer.Enable()
	}

	if p.cpuProfilePath != "" {
		f, err := os.Create(p.cpuProfilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		p.cpuProfileFile = f
	}
	return nil
}

// PostRun writes the profiles and prints the timing summary.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()

	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		p.cpuProfileFile = nil
		fmt.Fprintf(out, "CPU profile written to %s\n", p.cpuProfilePath)
	}

	if p.memProfilePath != "" {
		f, err := os.Create(p.memProfilePath)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
		fmt.Fprintf(out, "Memory profile written to %s\n", p.memProfilePath)
	}

	if p.timing {
		p.timer.Summarize(out)
	}
	return nil
}
