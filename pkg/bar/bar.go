// Package bar composes the status bar: one node tree per monitor, with the
// timers that keep it current and the input handlers that drive it.
//
// A Bar is the per-instance context of one composed tree. Every timer
// callback and handler closes over the Bar and reaches nodes through the
// handles it holds, so several bars can live side by side and a torn down
// bar leaves nothing behind.
package bar

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/confirm"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/config"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/merge"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/reveal"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/system"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/timer"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Refresh intervals of the bar's timers.
const (
	UpdateTime     = 1000 * time.Millisecond
	UpdateTimeFast = 100 * time.Millisecond
)

// WorkspaceCount is the number of workspace buttons.
const WorkspaceCount = 9

// Tray adds status notifier items to the right region. It is optional.
type Tray interface {
	AddTray(arena *widget.Arena, parent widget.Handle, geo geometry.Adapter) error
}

// Options are the collaborators of a bar.
type Options struct {
	Config    *config.Config
	Runtime   config.Runtime
	System    system.System
	Scheduler *timer.Scheduler
	// Inbox carries background completions to the UI goroutine.
	Inbox  *merge.Inbox
	Logger *slog.Logger
	Tray   Tray
}

func (o Options) validate() error {
	var errs []error
	if o.Config == nil {
		errs = append(errs, errors.New("config is required"))
	}
	if o.System == nil {
		errs = append(errs, errors.New("system is required"))
	}
	if o.Scheduler == nil {
		errs = append(errs, errors.New("scheduler is required"))
	}
	if o.Inbox == nil {
		errs = append(errs, errors.New("inbox is required"))
	}
	return errors.Join(errs...)
}

// SensorWidget is the text and gauge of one resource sensor.
type SensorWidget struct {
	Region   widget.Handle
	Text     widget.Handle
	Gauge    widget.Handle
	Revealer widget.Handle
}

// AudioWidget holds the slider and icon of one audio direction. Region is
// zero unless the slider sits in a revealer.
type AudioWidget struct {
	Region widget.Handle
	Slider widget.Handle
	Icon   widget.Handle
}

// Bar is one composed bar.
type Bar struct {
	arena   *widget.Arena
	sched   *timer.Scheduler
	inbox   *merge.Inbox
	sys     system.System
	cfg     *config.Config
	rt      config.Runtime
	geo     geometry.Adapter
	logger  *slog.Logger
	monitor int

	orient geometry.Orientation
	angle  float64
	trans  geometry.Transition

	root, left, center, right widget.Handle

	clock      widget.Handle
	sensors    map[string]SensorWidget
	sensorList []string
	network    SensorWidget
	sink       AudioWidget
	source     AudioWidget
	btIcon     widget.Handle
	btDevices  widget.Handle
	packages   *merge.Element
	wsRegion   widget.Handle
	workspaces []widget.Handle
	power      widget.Handle
	powerTray  widget.Handle
	gestures   map[confirm.Action]*confirm.Gesture
	reveals    []*reveal.Binding
}

// Compose builds the bar for monitor into window and returns its context.
// An invalid bar location is logged and the bar falls back to a horizontal
// bar at the top.
func Compose(window *widget.Window, monitor int, opts Options) (*Bar, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("bar: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := opts.Config.BarLocation()
	if err != nil {
		logger.Warn("bar: composing with default location", "err", err)
	}
	geo := geometry.New(loc, logger)

	b := &Bar{
		arena:    window.Arena(),
		sched:    opts.Scheduler,
		inbox:    opts.Inbox,
		sys:      opts.System,
		cfg:      opts.Config,
		rt:       opts.Runtime,
		geo:      geo,
		logger:   logger,
		monitor:  monitor,
		orient:   geo.Orientation(),
		angle:    geo.Angle(),
		trans:    geo.Transition(),
		sensors:  make(map[string]SensorWidget),
		gestures: make(map[confirm.Action]*confirm.Gesture),
	}

	b.root = b.arena.NewRoot(widget.KindBox)
	b.arena.Update(b.root, func(n *widget.Node) {
		n.Orientation = b.orient
		n.SetClass("bar")
	})
	if err := b.compose(window, opts.Tray); err != nil {
		b.arena.Destroy(b.root)
		return nil, fmt.Errorf("bar: compose monitor %d: %w", monitor, err)
	}

	window.SetAnchor(geo.Anchor())
	window.SetCrossSize(b.cfg.Size)
	if err := window.SetMainWidget(b.root); err != nil {
		b.arena.Destroy(b.root)
		return nil, fmt.Errorf("bar: %w", err)
	}
	logger.Debug("bar composed", "monitor", monitor, "location", loc.String(),
		"nodes", b.arena.Len(), "timers", b.sched.Len())
	return b, nil
}

func (b *Bar) compose(window *widget.Window, tray Tray) error {
	// The left region's length puts the center region, and so the clock, in
	// the middle of the window.
	endLeft := -1
	if b.cfg.CenterTime {
		endLeft = b.geo.AxisLength(window.Width, window.Height)/2 - b.cfg.TimeSpace/2
	}

	var err error
	if b.left, err = b.box(b.root, geometry.Transform{Size: endLeft, Expand: !b.cfg.CenterTime, Align: geometry.AlignLeft}); err != nil {
		return err
	}
	if b.rt.HasWorkspaces {
		if err := b.addWorkspaces(b.left); err != nil {
			return fmt.Errorf("workspaces: %w", err)
		}
	}

	if b.center, err = b.box(b.root, geometry.Transform{Size: b.cfg.TimeSpace, Align: geometry.AlignLeft}); err != nil {
		return err
	}
	if err := b.addClock(b.center); err != nil {
		return fmt.Errorf("clock: %w", err)
	}

	if b.right, err = b.box(b.root, geometry.Transform{Size: -1, Expand: true, Align: geometry.AlignRight, MarginAfter: 10}); err != nil {
		return err
	}
	b.arena.Update(b.right, func(n *widget.Node) {
		n.SetClass("right")
		n.Spacing = widget.Spacing{Size: 8}
	})

	if tray != nil {
		if err := tray.AddTray(b.arena, b.right, b.geo); err != nil {
			return fmt.Errorf("tray: %w", err)
		}
	}
	steps := []struct {
		name string
		add  func(widget.Handle) error
		on   bool
	}{
		{"packages", b.addPackages, true},
		{"audio", b.addAudio, true},
		{"bluetooth", b.addBluetooth, b.rt.HasBluetooth},
		{"network", b.addNetwork, b.cfg.NetworkWidget && b.rt.HasNetwork},
		{"sensors", b.addSensors, true},
		{"power", b.addPower, true},
	}
	for _, s := range steps {
		if !s.on {
			continue
		}
		if err := s.add(b.right); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// add creates a child of parent and applies fn to it.
func (b *Bar) add(parent widget.Handle, kind widget.Kind, fn func(n *widget.Node)) (widget.Handle, error) {
	h, err := b.arena.Add(parent, kind)
	if err != nil {
		return widget.Handle{}, err
	}
	if fn != nil {
		b.arena.Update(h, fn)
	}
	return h, nil
}

// box adds an oriented box whose primary transform is primary.
func (b *Bar) box(parent widget.Handle, primary geometry.Transform) (widget.Handle, error) {
	return b.add(parent, widget.KindBox, func(n *widget.Node) {
		n.Orientation = b.orient
		n.SetTransform(b.geo.Transforms(primary, geometry.Natural))
	})
}

// setTransform assigns primary along the bar's axis.
func (b *Bar) setTransform(n *widget.Node, primary geometry.Transform) {
	n.SetTransform(b.geo.Transforms(primary, geometry.Natural))
}

// revealText is the transform shared by the text of a revealed widget.
var revealText = geometry.Transform{Size: -1, Expand: true, Align: geometry.AlignFill, MarginAfter: 6}

func (b *Bar) addClock(parent widget.Handle) error {
	h, err := b.add(parent, widget.KindText, func(n *widget.Node) {
		b.setTransform(n, geometry.Transform{Size: -1, Expand: true, Align: geometry.AlignCenter})
		n.Angle = b.angle
		n.SetClass("time-text")
		n.Text = "Uninitialized"
	})
	if err != nil {
		return err
	}
	b.clock = h
	b.sched.Add(h, func(h widget.Handle) timer.Result {
		t := b.sys.Time()
		b.arena.Update(h, func(n *widget.Node) { n.Text = t })
		return timer.Continue
	}, UpdateTime, timer.Late)
	return nil
}

// Teardown destroys the bar's tree, cancelling every timer attached to it.
// Later calls do nothing.
func (b *Bar) Teardown() {
	if !b.arena.Alive(b.root) {
		return
	}
	b.arena.Destroy(b.root)
	b.logger.Debug("bar torn down", "monitor", b.monitor)
}

// Root returns the bar's root box.
func (b *Bar) Root() widget.Handle { return b.root }

// Regions returns the left, center and right boxes.
func (b *Bar) Regions() (left, center, right widget.Handle) {
	return b.left, b.center, b.right
}

// Clock returns the clock text.
func (b *Bar) Clock() widget.Handle { return b.clock }

// Sensor returns the named resource sensor ("disk", "vram", "gpu", "ram",
// "cpu", "battery").
func (b *Bar) Sensor(name string) (SensorWidget, bool) {
	s, ok := b.sensors[name]
	return s, ok
}

// Sensors returns the names of the resource sensors in bar order.
func (b *Bar) Sensors() []string {
	return append([]string(nil), b.sensorList...)
}

// Network returns the network widget; its handles are zero when the widget
// is off.
func (b *Bar) Network() SensorWidget { return b.network }

// Audio returns the output and input widgets. The input widget is zero
// unless audio input is enabled.
func (b *Bar) Audio() (sink, source AudioWidget) { return b.sink, b.source }

// Bluetooth returns the device text and the icon button.
func (b *Bar) Bluetooth() (devices, icon widget.Handle) { return b.btDevices, b.btIcon }

// Packages returns the package indicator text.
func (b *Bar) Packages() widget.Handle {
	if b.packages == nil {
		return widget.Handle{}
	}
	return b.packages.Handle()
}

// Workspaces returns the workspace scroll region and its buttons.
func (b *Bar) Workspaces() (region widget.Handle, buttons []widget.Handle) {
	return b.wsRegion, append([]widget.Handle(nil), b.workspaces...)
}

// Power returns the power region and the revealer of the power tray.
func (b *Bar) Power() (region, tray widget.Handle) { return b.power, b.powerTray }

// Gesture returns the confirm gesture of a power action.
func (b *Bar) Gesture(a confirm.Action) *confirm.Gesture { return b.gestures[a] }
