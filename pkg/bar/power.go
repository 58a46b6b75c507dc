package bar

import (
	"gitlab.com/tinyland/lab/pulse-bar/pkg/confirm"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/reveal"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

type powerButton struct {
	action confirm.Action
	class  string
	icon   string
	tr     geometry.Transform
}

// The power tray, in order. Shutdown is the always visible button.
var (
	trayButtons = []powerButton{
		{confirm.Exit, "exit-button", "󰗼", geometry.Natural},
		{confirm.Lock, "sleep-button", "\uf023", geometry.Natural},
		{confirm.Suspend, "sleep-button", "󰏤", geometry.Natural},
		{confirm.Reboot, "reboot-button", "󰑐", revealText},
	}
	shutdownButton = powerButton{confirm.Shutdown, "power-button", "\uf011 ", geometry.Transform{Size: 24, Expand: true, Align: geometry.AlignFill}}
)

// effect maps an action to the system call it guards.
func (b *Bar) effect(a confirm.Action) func() {
	switch a {
	case confirm.Exit:
		return b.sys.ExitWM
	case confirm.Lock:
		return b.sys.Lock
	case confirm.Suspend:
		return b.sys.Suspend
	case confirm.Reboot:
		return b.sys.Reboot
	}
	return b.sys.Shutdown
}

// addPower builds EventBox{Box{Revealer{Box{exit, lock, suspend, reboot}},
// shutdown}}. Hovering the region opens the tray and every button needs a
// confirming second click.
func (b *Bar) addPower(parent widget.Handle) error {
	var err error
	if b.power, err = b.add(parent, widget.KindEventBox, nil); err != nil {
		return err
	}
	box, err := b.box(b.power, geometry.Transform{Size: -1, Align: geometry.AlignRight})
	if err != nil {
		return err
	}
	b.arena.Update(box, func(n *widget.Node) { n.SetClass("power-box") })

	if b.powerTray, err = b.add(box, widget.KindRevealer, nil); err != nil {
		return err
	}
	expand, err := b.box(b.powerTray, revealText)
	if err != nil {
		return err
	}
	b.arena.Update(expand, func(n *widget.Node) {
		n.SetClass("power-box-expand")
		n.Spacing = widget.Spacing{Size: 8, Homogeneous: true}
	})
	for _, pb := range trayButtons {
		if err := b.addPowerButton(expand, pb); err != nil {
			return err
		}
	}
	if err := b.addPowerButton(box, shutdownButton); err != nil {
		return err
	}

	binding, err := reveal.Bind(b.arena, b.power, b.powerTray, b.trans)
	if err != nil {
		return err
	}
	b.reveals = append(b.reveals, binding)
	return nil
}

func (b *Bar) addPowerButton(parent widget.Handle, pb powerButton) error {
	h, err := b.add(parent, widget.KindButton, func(n *widget.Node) {
		n.SetClass(pb.class)
		n.Text = pb.icon
		n.Angle = b.angle
		b.setTransform(n, pb.tr)
	})
	if err != nil {
		return err
	}
	g, err := confirm.New(b.arena, b.sched, h, pb.action, b.effect(pb.action))
	if err != nil {
		return err
	}
	b.gestures[pb.action] = g
	return nil
}
