package bar

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/merge"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/system"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/timer"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Bluetooth icons.
const (
	iconBTOff       = "󰂲"
	iconBTOn        = "󰂯"
	iconBTConnected = "󰂱"
)

// iconPackages marks pending updates.
const iconPackages = "󰏔 "

func (b *Bar) addBluetooth(parent widget.Handle) error {
	box, err := b.add(parent, widget.KindBox, func(n *widget.Node) { n.Orientation = b.orient })
	if err != nil {
		return err
	}
	if b.btDevices, err = b.add(box, widget.KindText, func(n *widget.Node) {
		n.Angle = b.angle
		n.SetClass("bt-num")
	}); err != nil {
		return err
	}
	if b.btIcon, err = b.add(box, widget.KindButton, func(n *widget.Node) {
		n.Angle = b.angle
		b.setTransform(n, revealText)
	}); err != nil {
		return err
	}
	if err := b.arena.SetClickFn(b.btIcon, func(widget.Handle) { b.sys.OpenBluetoothTool() }); err != nil {
		return err
	}

	b.sched.Add(box, func(widget.Handle) timer.Result {
		b.updateBluetooth(b.sys.BluetoothInfo())
		return timer.Continue
	}, UpdateTime, timer.Late)
	return nil
}

func (b *Bar) updateBluetooth(info system.BluetoothInfo) {
	class, icon := "bt-label-connected", iconBTConnected
	switch {
	case info.DefaultController == "":
		class, icon = "bt-label-off", iconBTOff
	case len(info.Devices) == 0:
		class, icon = "bt-label-on", iconBTOn
	}
	b.arena.Update(b.btIcon, func(n *widget.Node) {
		n.SetClass(class)
		n.Text = icon
	})

	var glyphs strings.Builder
	var names []string
	if class == "bt-label-connected" {
		for _, dev := range info.Devices {
			if !dev.Connected {
				continue
			}
			glyphs.WriteString(system.BluetoothIcon(dev))
			names = append(names, dev.Name)
		}
	}
	b.arena.Update(b.btDevices, func(n *widget.Node) {
		n.Text = glyphs.String()
		if class == "bt-label-connected" {
			n.Tooltip = strings.Join(names, " & ")
		}
	})
}

// addPackages adds the hidden package indicator. Its query runs in the
// background; completions reach the node through the inbox and the
// element's lock.
func (b *Bar) addPackages(parent widget.Handle) error {
	h, err := b.add(parent, widget.KindText, func(n *widget.Node) {
		n.Visible = false
		n.SetClass("package-empty")
		n.Angle = b.angle
	})
	if err != nil {
		return err
	}
	b.packages = merge.NewElement(b.arena, h)

	interval := b.cfg.UpdateInterval()
	b.sched.Add(h, func(widget.Handle) timer.Result {
		b.sys.OutdatedPackagesAsync(func(count int, err error) {
			b.inbox.Post(func() {
				b.packages.Apply(func(n *widget.Node) { applyPackages(n, count, err) })
			})
		})
		return timer.Continue
	}, interval, timer.Immediate)
	return nil
}

// applyPackages writes a query result to the indicator. A failed query
// stays visible so the failure is not mistaken for an up to date system.
func applyPackages(n *widget.Node, count int, err error) {
	switch {
	case err != nil:
		n.Text = iconPackages
		n.Visible = true
		n.SetClass("package-error")
		n.Tooltip = fmt.Sprintf("Update check failed: %v", err)
	case count > 0:
		n.Text = iconPackages
		n.Visible = true
		n.SetClass("package-outofdate")
		n.Tooltip = fmt.Sprintf("Updates available! (%d packages)", count)
	default:
		n.Text = ""
		n.Visible = false
		n.SetClass("package-empty")
		n.Tooltip = ""
	}
}

func (b *Bar) addWorkspaces(parent widget.Handle) error {
	var err error
	if b.wsRegion, err = b.add(parent, widget.KindEventBox, nil); err != nil {
		return err
	}
	if err := b.arena.SetScrollFn(b.wsRegion, func(_ widget.Handle, dir widget.ScrollDirection) {
		b.scrollWorkspaces(dir)
	}); err != nil {
		return err
	}
	box, err := b.box(b.wsRegion, geometry.Transform{Size: -1, Expand: true, Align: geometry.AlignLeft, MarginBefore: 12})
	if err != nil {
		return err
	}
	b.arena.Update(box, func(n *widget.Node) { n.Spacing = widget.Spacing{Size: 8, Homogeneous: true} })

	b.workspaces = make([]widget.Handle, 0, WorkspaceCount)
	for i := 0; i < WorkspaceCount; i++ {
		h, err := b.add(box, widget.KindButton, func(n *widget.Node) {
			b.setTransform(n, geometry.Transform{Size: 8, Align: geometry.AlignFill})
		})
		if err != nil {
			return err
		}
		id := i + 1
		if err := b.arena.SetClickFn(h, func(widget.Handle) { b.sys.GotoWorkspace(id) }); err != nil {
			return err
		}
		b.workspaces = append(b.workspaces, h)
	}

	b.sched.Add(box, func(widget.Handle) timer.Result {
		b.updateWorkspaces()
		return timer.Continue
	}, UpdateTimeFast, timer.Late)
	return nil
}

func (b *Bar) updateWorkspaces() {
	b.sys.PollWorkspaces(b.monitor, len(b.workspaces))
	for i, h := range b.workspaces {
		class := b.sys.WorkspaceStatus(i + 1).Class()
		symbol := b.sys.WorkspaceSymbol(i)
		b.arena.Update(h, func(n *widget.Node) {
			n.SetClass(class)
			n.Text = symbol
		})
	}
}

// scrollWorkspaces moves to the previous workspace on scroll up and the
// next on scroll down, or the other way round when inverted.
func (b *Bar) scrollWorkspaces(dir widget.ScrollDirection) {
	next := dir == widget.ScrollDown
	if b.cfg.WorkspaceScrollInvert {
		next = !next
	}
	if next {
		b.sys.GotoNextWorkspace('+')
	} else {
		b.sys.GotoNextWorkspace('-')
	}
}
