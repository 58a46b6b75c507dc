package bar

import (
	"fmt"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/reveal"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/system"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/timer"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// reading is one sample of a resource sensor: the hover text and the gauge
// value in [0,1].
type reading struct {
	text  string
	value float64
}

// ratio divides used by total, reading an unknown total as empty.
func ratio(used, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return used / total
}

func cpuReading(s system.Sensors) reading {
	usage, temp := s.CPUUsage(), s.CPUTemp()
	return reading{fmt.Sprintf("CPU: %0.1f%% %0.1f°C", usage*100, temp), usage}
}

func batteryReading(s system.Sensors) reading {
	p := s.BatteryPercentage()
	return reading{fmt.Sprintf("Battery: %0.1f%%", p*100), p}
}

func ramReading(s system.Sensors) reading {
	info := s.RAM()
	used := info.TotalGiB - info.FreeGiB
	return reading{fmt.Sprintf("RAM: %0.2fGiB/%0.2fGiB", used, info.TotalGiB), ratio(used, info.TotalGiB)}
}

func gpuReading(s system.Sensors) reading {
	info := s.GPU()
	return reading{fmt.Sprintf("GPU: %0.1f%% %0.1f°C", info.Utilisation, info.CoreTemp), info.Utilisation / 100}
}

func vramReading(s system.Sensors) reading {
	info := s.VRAM()
	return reading{fmt.Sprintf("VRAM: %0.2fGiB/%0.2fGiB", info.UsedGiB, info.TotalGiB), ratio(info.UsedGiB, info.TotalGiB)}
}

func diskReading(s system.Sensors) reading {
	info := s.Disk()
	return reading{fmt.Sprintf("Disk: %0.2fGiB/%0.2fGiB", info.UsedGiB, info.TotalGiB), ratio(info.UsedGiB, info.TotalGiB)}
}

// addSensors adds the resource sensors in bar order. The battery sensor
// only appears when the host reports a battery.
func (b *Bar) addSensors(parent widget.Handle) error {
	type sensor struct {
		name string
		read func(system.Sensors) reading
		on   bool
	}
	gpu := b.rt.HasNvidia || b.rt.HasAMD
	for _, s := range []sensor{
		{"disk", diskReading, true},
		{"vram", vramReading, gpu},
		{"gpu", gpuReading, gpu},
		{"ram", ramReading, true},
		{"cpu", cpuReading, true},
		{"battery", batteryReading, b.sys.BatteryPercentage() >= 0},
	} {
		if !s.on {
			continue
		}
		if err := b.addSensor(parent, s.name, s.read); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// sensorShell builds EventBox{Box{Revealer{Text}, gauge}}: hovering the
// event box reveals the text next to the gauge.
func (b *Bar) sensorShell(parent widget.Handle, name string, gaugeKind widget.Kind) (SensorWidget, error) {
	var w SensorWidget
	var err error
	if w.Region, err = b.add(parent, widget.KindEventBox, nil); err != nil {
		return w, err
	}
	box, err := b.box(w.Region, geometry.Transform{Size: -1, Expand: true, Align: geometry.AlignRight})
	if err != nil {
		return w, err
	}
	if w.Revealer, err = b.add(box, widget.KindRevealer, nil); err != nil {
		return w, err
	}
	if w.Text, err = b.add(w.Revealer, widget.KindText, func(n *widget.Node) {
		n.SetClass(name + "-data-text")
		n.Angle = b.angle
		b.setTransform(n, revealText)
	}); err != nil {
		return w, err
	}
	if w.Gauge, err = b.add(box, gaugeKind, func(n *widget.Node) {
		if gaugeKind == widget.KindSensor {
			n.SetClass(name + "-util-progress")
		}
		n.SensorAngle = b.geo.SensorAngle()
		n.Angle = b.angle
		b.setTransform(n, geometry.Transform{Size: 24, Expand: true, Align: geometry.AlignFill})
	}); err != nil {
		return w, err
	}
	binding, err := reveal.Bind(b.arena, w.Region, w.Revealer, b.trans)
	if err != nil {
		return w, err
	}
	b.reveals = append(b.reveals, binding)
	return w, nil
}

func (b *Bar) addSensor(parent widget.Handle, name string, read func(system.Sensors) reading) error {
	w, err := b.sensorShell(parent, name, widget.KindSensor)
	if err != nil {
		return err
	}
	b.sensors[name] = w
	b.sensorList = append(b.sensorList, name)

	text := w.Text
	b.sched.Add(w.Gauge, func(h widget.Handle) timer.Result {
		r := read(b.sys)
		b.arena.Update(text, func(n *widget.Node) { n.Text = r.text })
		b.arena.Update(h, func(n *widget.Node) { n.Value = r.value })
		return timer.Continue
	}, UpdateTime, timer.Late)
	return nil
}

func (b *Bar) addNetwork(parent widget.Handle) error {
	w, err := b.sensorShell(parent, "network", widget.KindNetworkSensor)
	if err != nil {
		return err
	}
	b.arena.Update(w.Gauge, func(n *widget.Node) {
		n.LimitUp = widget.Limits{Min: float64(b.cfg.MinUploadBytes), Max: float64(b.cfg.MaxUploadBytes)}
		n.LimitDn = widget.Limits{Min: float64(b.cfg.MinDownloadBytes), Max: float64(b.cfg.MaxDownloadBytes)}
	})
	b.network = w

	dt := UpdateTime.Seconds()
	b.sched.Add(w.Gauge, func(h widget.Handle) timer.Result {
		up := b.sys.NetworkBpsUpload(dt)
		down := b.sys.NetworkBpsDownload(dt)
		text := fmt.Sprintf("%s: %s Up/%s Down", b.cfg.NetworkAdapter, system.FormatBytes(up), system.FormatBytes(down))
		b.arena.Update(w.Text, func(n *widget.Node) { n.Text = text })
		b.arena.Update(h, func(n *widget.Node) { n.Up, n.Down = up, down })
		return timer.Continue
	}, UpdateTime, timer.Late)
	return nil
}
