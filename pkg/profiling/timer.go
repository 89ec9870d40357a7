// Package profiling times the phases of a single pulse invocation and
// exposes pprof capture through command flags.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Stopper ends a timed span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	timer    *Timer
}

func (s *span) Stop() {
	s.timer.end(s)
}

// Timer records nested spans. Spans started while another is open become
// its children. A disabled Timer records nothing.
type Timer struct {
	mu      sync.Mutex
	enabled bool
	now     func() time.Time
	root    *span
	stack   []*span
}

// NewTimer returns a disabled timer.
func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

var defaultTimer = NewTimer()

// Enable starts the global timer.
func Enable() { defaultTimer.Enable() }

// Start opens a span on the global timer.
func Start(name string) Stopper { return defaultTimer.Start(name) }

// Summarize writes the global timer's spans to w.
func Summarize(w io.Writer) { defaultTimer.Summarize(w) }

// Enable starts recording. The root span begins now.
func (t *Timer) Enable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enabled {
		return
	}
	t.enabled = true
	t.root = &span{name: "total", start: t.now(), timer: t}
	t.stack = []*span{t.root}
}

// Enabled reports whether spans are being recorded.
func (t *Timer) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Start opens a span, to be closed with Stop, typically via defer.
func (t *Timer) Start(name string) Stopper {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return noopStopper{}
	}

	parent := t.stack[len(t.stack)-1]
	s := &span{name: name, start: t.now(), timer: t}
	parent.children = append(parent.children, s)
	t.stack = append(t.stack, s)
	return s
}

func (t *Timer) end(s *span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s.duration = t.now().Sub(s.start)

	// Pop s and anything left open above it.
	for i := len(t.stack) - 1; i > 0; i-- {
		if t.stack[i] == s {
			t.stack = t.stack[:i]
			return
		}
	}
}

// Summarize renders the span tree as a table with each span's share of the
// total run time. It writes nothing when the timer is disabled.
func (t *Timer) Summarize(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || t.root == nil {
		return
	}
	if t.root.duration == 0 {
		t.root.duration = t.now().Sub(t.root.start)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Timing")
	tw.AppendHeader(table.Row{"Span", "Duration", "Share"})
	appendSpan(tw, t.root, 0, t.root.duration)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	tw.Render()
}

func appendSpan(tw table.Writer, s *span, depth int, total time.Duration) {
	share := 0.0
	if total > 0 {
		share = float64(s.duration) / float64(total) * 100
	}
	tw.AppendRow(table.Row{
		strings.Repeat("  ", depth) + s.name,
		s.duration.Round(100 * time.Microsecond).String(),
		fmt.Sprintf("%.1f%%", share),
	})
	for _, child := range s.children {
		appendSpan(tw, child, depth+1, total)
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}
