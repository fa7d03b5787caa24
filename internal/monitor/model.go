package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/platform"
	"github.com/rileyhilliard/pidash/internal/render"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: readouts only, no chart
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: stacked gauges, block sparklines
	LayoutCompact
	// LayoutStandard is for terminals 120-160 columns: gauge row and braille chart
	LayoutStandard
	// LayoutWide is for terminals 160+ columns: cards side by side, taller chart
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
	BreakpointWide     = 160
)

// Height breakpoints for layout adjustments
const (
	HeightMinimal  = 24
	HeightStandard = 40
)

// Controller is the part of dashboard.Controller the view drives.
type Controller interface {
	Stop()
	Resume()
	Refresh() bool
	Status() dashboard.Status
}

// Publisher sends platform signals. *platform.Bus satisfies it.
type Publisher interface {
	Publish(platform.Signal)
}

// Options configures the terminal dashboard.
type Options struct {
	Endpoint    string
	Interval    time.Duration
	TimeLayout  string
	PauseOnBlur bool
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	board *render.Board
	ctrl  Controller
	bus   Publisher
	opts  Options

	view   render.View
	status dashboard.Status
	now    time.Time

	help     help.Model
	width    int
	height   int
	showHelp bool
	quitting bool
	focused  bool
	notice   string
}

// clockMsg re-renders relative times once a second.
type clockMsg time.Time

// boardMsg signals that the board changed.
type boardMsg struct {
	version uint64
}

// refreshedMsg reports the outcome of a manual refresh.
type refreshedMsg struct {
	accepted bool
}

// pauseMsg reports the state after a pause toggle.
type pauseMsg struct {
	paused bool
}

// signalMsg reports a platform signal sent on focus change.
type signalMsg struct {
	signal platform.Signal
}

const clockInterval = time.Second

// NewModel creates a dashboard model reading from board and driving ctrl.
// bus may be nil when focus changes should not pause polling.
func NewModel(board *render.Board, ctrl Controller, bus Publisher, opts Options) Model {
	if opts.TimeLayout == "" {
		opts.TimeLayout = dashboard.DefaultTimeLayout
	}
	if opts.Interval <= 0 {
		opts.Interval = dashboard.DefaultInterval
	}

	m := Model{
		board:   board,
		ctrl:    ctrl,
		bus:     bus,
		opts:    opts,
		help:    help.New(),
		focused: true,
		now:     time.Now(),
	}
	m.sync()
	return m
}

// Init starts the clock.
func (m Model) Init() tea.Cmd {
	return m.clockCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case boardMsg:
		m.sync()

	case clockMsg:
		m.now = time.Time(msg)
		m.status = m.ctrl.Status()
		return m, m.clockCmd()

	case refreshedMsg:
		if msg.accepted {
			m.notice = "refreshing"
		} else if m.Paused() {
			m.notice = "paused, press p to resume"
		} else {
			m.notice = "refresh skipped"
		}

	case pauseMsg:
		m.status = m.ctrl.Status()
		if msg.paused {
			m.notice = "paused"
		} else {
			m.notice = "resumed"
		}

	case signalMsg:
		m.status = m.ctrl.Status()

	case tea.FocusMsg:
		m.focused = true
		return m, m.publishCmd(platform.Visible)

	case tea.BlurMsg:
		m.focused = false
		return m, m.publishCmd(platform.Hidden)
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

func (m *Model) sync() {
	m.view = m.board.View()
	m.status = m.ctrl.Status()
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// refreshCmd runs off the update loop; the controller may be mid-cycle.
func (m Model) refreshCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return refreshedMsg{accepted: ctrl.Refresh()}
	}
}

func (m Model) togglePauseCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		if ctrl.Status().State == dashboard.Running {
			ctrl.Stop()
			return pauseMsg{paused: true}
		}
		ctrl.Resume()
		return pauseMsg{paused: false}
	}
}

func (m Model) publishCmd(sig platform.Signal) tea.Cmd {
	if !m.opts.PauseOnBlur || m.bus == nil {
		return nil
	}
	bus := m.bus
	return func() tea.Msg {
		bus.Publish(sig)
		return signalMsg{signal: sig}
	}
}

// Paused reports whether polling is stopped.
func (m Model) Paused() bool {
	return m.status.State == dashboard.Stopped
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// applied snapshot.
func (m Model) SecondsSinceUpdate() int {
	if m.status.LastUpdate.IsZero() {
		return 0
	}
	d := m.now.Sub(m.status.LastUpdate)
	if d < 0 {
		return 0
	}
	return int(d.Seconds())
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard:
		return LayoutStandard
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutMinimal
	}
}

// ShowFooter returns true if the terminal is tall enough to show the footer.
func (m Model) ShowFooter() bool {
	return m.height == 0 || m.height >= HeightMinimal
}
