package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/bar"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/config"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/merge"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/render"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/system"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/theme"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/timer"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Options configures a Model.
type Options struct {
	Config  *config.Config
	Runtime config.Runtime
	System  system.System
	Theme   theme.Theme
	Logger  *slog.Logger
	Tray    bar.Tray

	// Clock drives timers and reveal transitions. Nil uses the wall clock.
	Clock timer.Clock

	// Output is where frames end up; its colour profile is detected unless
	// Profile is set.
	Output  io.Writer
	Profile *termenv.Profile
}

// Model is the root Bubbletea model. It composes the bar on the first
// window size and recomposes it on every resize.
type Model struct {
	opts     Options
	logger   *slog.Logger
	keys     KeyMap
	clock    timer.Clock
	arena    *widget.Arena
	sched    *timer.Scheduler
	inbox    *merge.Inbox
	renderer *render.Renderer

	window     *widget.Window
	bar        *bar.Bar
	cols, rows int
	err        error

	// hovered holds the hover regions under the pointer, innermost first.
	hovered []widget.Handle
	tip     widget.Handle
}

// New returns a Model. Call Close once the program has exited.
func New(opts Options) (*Model, error) {
	var errs []error
	if opts.Config == nil {
		errs = append(errs, errors.New("config is required"))
	}
	if opts.System == nil {
		errs = append(errs, errors.New("system is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = timer.SystemClock{}
	}

	arena := widget.NewArena()
	arena.SetClock(clock.Now)
	return &Model{
		opts:   opts,
		logger: logger,
		keys:   DefaultKeyMap(),
		clock:  clock,
		arena:  arena,
		sched:  timer.New(arena, clock),
		inbox:  merge.NewInbox(),
		renderer: render.New(render.Options{
			Theme:      opts.Theme,
			CellPixels: opts.Config.CellPixels,
			Output:     opts.Output,
			Profile:    opts.Profile,
			Now:        clock.Now,
		}),
	}, nil
}

// Init starts the frame ticker and the inbox watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(TickCmd(FrameInterval), InboxCmd(m.inbox))
}

// Update handles window, timer, inbox, key, mouse and focus messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case TickEvent:
		m.inbox.Drain()
		m.sched.Tick()
		return m, TickCmd(FrameInterval)

	case InboxEvent:
		m.inbox.Drain()
		return m, InboxCmd(m.inbox)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case tea.MouseMsg:
		m.mouse(msg)
		return m, nil

	case tea.BlurMsg:
		// No motion arrives once the pointer leaves the terminal.
		m.hover(nil)
		return m, nil
	}
	return m, nil
}

// View draws the bar into the terminal.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("pulse-bar: %v\n", m.err)
	}
	if m.bar == nil {
		return ""
	}
	return m.renderer.Frame(m.window, m.cols, m.rows, m.tooltip())
}

// Resize recomposes the bar for a cols x rows terminal. The window is sized
// in pixels so the bar's pixel geometry keeps its proportions.
func (m *Model) Resize(cols, rows int) {
	if m.bar != nil && cols == m.cols && rows == m.rows {
		return
	}
	if m.bar != nil {
		m.bar.Teardown()
		m.bar = nil
	}
	m.hovered, m.tip = nil, widget.Handle{}
	m.cols, m.rows = cols, rows

	cfg := m.opts.Config
	cp := cfg.CellPixels
	if cp <= 0 {
		cp = config.DefaultCellPixels
	}
	m.window = widget.NewWindow(m.arena, cfg.Monitor, cols*cp, rows*cp)
	b, err := bar.Compose(m.window, cfg.Monitor, bar.Options{
		Config:    cfg,
		Runtime:   m.opts.Runtime,
		System:    m.opts.System,
		Scheduler: m.sched,
		Inbox:     m.inbox,
		Logger:    m.logger,
		Tray:      m.opts.Tray,
	})
	if err != nil {
		m.err = err
		m.logger.Error("compose failed", "cols", cols, "rows", rows, "err", err)
		return
	}
	m.err = nil
	m.bar = b
	m.logger.Debug("bar resized", "cols", cols, "rows", rows)
}

// Bar returns the composed bar, or nil before the first window size.
func (m *Model) Bar() *bar.Bar { return m.bar }

// Close tears the bar down and stops the renderer.
func (m *Model) Close() {
	if m.bar != nil {
		m.bar.Teardown()
		m.bar = nil
	}
	m.renderer.Close()
}

func (m *Model) tooltip() string {
	n, ok := m.arena.Lookup(m.tip)
	if !ok || !n.Visible {
		return ""
	}
	return n.Tooltip
}

func (m *Model) mouse(msg tea.MouseMsg) {
	under := m.renderer.Under(msg)
	m.hover(under)

	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.scroll(under, widget.ScrollUp)
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.scroll(under, widget.ScrollDown)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		m.click(under, msg)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionMotion:
		m.drag(under, msg)
	}
}

// hover sends leave events to regions the pointer left and enter events to
// regions it entered, and picks the innermost tooltip.
func (m *Model) hover(under []widget.Handle) {
	var regions []widget.Handle
	m.tip = widget.Handle{}
	for _, h := range under {
		if n, ok := m.arena.Lookup(h); ok && n.Tooltip != "" && m.tip.IsZero() {
			m.tip = h
		}
		if m.arena.Hoverable(h) {
			regions = append(regions, h)
		}
	}
	for _, h := range m.hovered {
		if !slices.Contains(regions, h) {
			m.arena.Hover(h, false)
		}
	}
	for _, h := range regions {
		if !slices.Contains(m.hovered, h) {
			m.arena.Hover(h, true)
		}
	}
	m.hovered = regions
}

// click goes to the innermost node that takes it. A slider jumps to the
// pointer.
func (m *Model) click(under []widget.Handle, msg tea.MouseMsg) {
	for _, h := range under {
		if v, ok := m.renderer.SliderValue(h, msg); ok {
			m.arena.ChangeValue(h, v)
			return
		}
		if m.arena.Click(h) {
			return
		}
	}
}

func (m *Model) drag(under []widget.Handle, msg tea.MouseMsg) {
	for _, h := range under {
		if v, ok := m.renderer.SliderValue(h, msg); ok {
			m.arena.ChangeValue(h, v)
			return
		}
	}
}

func (m *Model) scroll(under []widget.Handle, dir widget.ScrollDirection) {
	for _, h := range under {
		if m.arena.Scroll(h, dir) {
			return
		}
	}
}

// stepClock is a clock that can be pushed forward, used to run every
// sensor timer once before a snapshot.
type stepClock struct {
	start time.Time
	skew  time.Duration
}

func (c *stepClock) Now() time.Time { return c.start.Add(c.skew) }

// Snapshot composes the bar for a cols x rows terminal, lets every periodic
// update run once and returns the resulting frame.
func Snapshot(opts Options, cols, rows int) (string, error) {
	start := time.Now()
	if opts.Clock != nil {
		start = opts.Clock.Now()
	}
	clock := &stepClock{start: start}
	opts.Clock = clock
	m, err := New(opts)
	if err != nil {
		return "", err
	}
	defer m.Close()

	m.Resize(cols, rows)
	if m.err != nil {
		return "", m.err
	}
	clock.skew = bar.UpdateTime
	m.sched.Tick()
	m.inbox.Drain()
	return m.View(), nil
}
