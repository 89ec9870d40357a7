// Package dashboard is the terminal dashboard behind `pulse dashboard`: an
// overview of the four overall scores and the phase pipeline, plus one view
// per phase.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/pulse/internal/daemon/store"
	"github.com/grovetools/pulse/pkg/client"
	"github.com/grovetools/pulse/tui/components/help"
	"github.com/grovetools/pulse/tui/keymap"
	"github.com/grovetools/pulse/tui/theme"
)

// View is one page of the dashboard.
type View int

const (
	ViewOverview View = iota
	ViewDesign
	ViewCode
	ViewBuild
	ViewQA
	ViewDeploy
	ViewMonitor
)

// Views lists the pages in tab order.
var Views = []View{ViewOverview, ViewDesign, ViewCode, ViewBuild, ViewQA, ViewDeploy, ViewMonitor}

// Phase returns the phase shown by v. The overview has none.
func (v View) Phase() (store.Phase, bool) {
	if v <= ViewOverview || int(v) > len(store.AllPhases) {
		return "", false
	}
	return store.AllPhases[v-1], true
}

// Title returns the tab label of v.
func (v View) Title() string {
	if p, ok := v.Phase(); ok {
		return p.Title()
	}
	return "Overview"
}

const (
	defaultRefresh = time.Second
	reconnectDelay = 2 * time.Second
	defaultWidth   = 100
)

// Options configures a dashboard Model.
type Options struct {
	Client  client.Client
	Theme   *theme.Theme
	Keys    keymap.Base
	Version string
	// Refresh is how often the footer clock is redrawn.
	Refresh time.Duration
	Now     func() time.Time
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	client  client.Client
	theme   *theme.Theme
	keys    keymap.Base
	help    help.Model
	bar     progress.Model
	version string
	refresh time.Duration
	now     func() time.Time
	local   bool

	ctx    context.Context
	cancel context.CancelFunc
	events <-chan client.Event

	snapshot    store.Snapshot
	hasSnapshot bool
	view        View
	width       int
	height      int
	clock       time.Time
	notice      string
	err         error
}

// Messages
type streamStartedMsg struct {
	events <-chan client.Event
}

type eventMsg client.Event

type streamClosedMsg struct{}

type reconnectMsg struct{}

type snapshotMsg store.Snapshot

type errMsg struct {
	err error
}

type tickMsg time.Time

// New creates a dashboard reading from opts.Client.
func New(opts Options) *Model {
	if opts.Theme == nil {
		opts.Theme = theme.DefaultTheme
	}
	if opts.Keys.Quit.Keys() == nil {
		opts.Keys = keymap.NewBase()
	}
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	_, local := opts.Client.(*client.LocalClient)
	ctx, cancel := context.WithCancel(context.Background())

	h := help.New(opts.Keys, opts.Theme)
	h.Title = "Pulse Keybindings"

	return &Model{
		client:  opts.Client,
		theme:   opts.Theme,
		keys:    opts.Keys,
		help:    h,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		version: opts.Version,
		refresh: opts.Refresh,
		now:     opts.Now,
		local:   local,
		ctx:     ctx,
		cancel:  cancel,
		clock:   opts.Now(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.subscribe(),
		m.tick(),
	)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// subscribe opens the snapshot stream. The first event carries the current
// snapshot, so no separate fetch is needed.
func (m *Model) subscribe() tea.Cmd {
	ctx := m.ctx
	c := m.client
	return func() tea.Msg {
		events, err := c.StreamSnapshots(ctx)
		if err != nil {
			return errMsg{err}
		}
		return streamStartedMsg{events: events}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *Model) fetch() tea.Cmd {
	ctx := m.ctx
	c := m.client
	return func() tea.Msg {
		snap, err := c.Snapshot(ctx)
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg(snap)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.help.ShowAll {
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case streamStartedMsg:
		m.events = msg.events
		m.err = nil
		return m, m.waitForEvent()

	case eventMsg:
		m.applyEvent(client.Event(msg))
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.events = nil
		if m.ctx.Err() != nil {
			return m, nil
		}
		m.notice = "Connection to the daemon lost, reconnecting..."
		return m, tea.Tick(reconnectDelay, func(time.Time) tea.Msg {
			return reconnectMsg{}
		})

	case reconnectMsg:
		return m, m.subscribe()

	case snapshotMsg:
		m.snapshot = store.Snapshot(msg)
		m.hasSnapshot = true
		m.err = nil
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tickMsg:
		m.clock = time.Time(msg)
		return m, m.tick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
	case key.Matches(msg, m.keys.NextView):
		m.view = (m.view + 1) % View(len(Views))
	case key.Matches(msg, m.keys.PrevView):
		m.view = (m.view + View(len(Views)) - 1) % View(len(Views))
	case key.Matches(msg, m.keys.JumpView):
		// The n-th key of the binding opens the n-th view.
		for i, k := range m.keys.JumpView.Keys() {
			if k == msg.String() && i < len(Views) {
				m.view = Views[i]
			}
		}
	case key.Matches(msg, m.keys.Refresh):
		m.notice = ""
		return m, m.fetch()
	}
	return m, nil
}

func (m *Model) applyEvent(ev client.Event) {
	switch ev.UpdateType {
	case client.EventInitial, client.EventSnapshot:
		if ev.Snapshot != nil {
			m.snapshot = *ev.Snapshot
			m.hasSnapshot = true
			m.notice = ""
		}
	case client.EventConfigReload:
		m.notice = "Configuration changed: " + ev.ConfigFile
	}
}

// CurrentView returns the page being shown.
func (m *Model) CurrentView() View {
	return m.view
}
