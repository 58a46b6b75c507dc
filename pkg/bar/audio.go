package bar

import (
	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/reveal"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/timer"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Audio icons.
const (
	iconSink        = "󰕾"
	iconSinkMuted   = "󰝟"
	iconSource      = "󰍬"
	iconSourceMuted = "󰍭"
)

type audioDir int

const (
	audioOutput audioDir = iota
	audioInput
)

// addAudio adds the input (when enabled) and output controls and one fast
// timer on parent that keeps both in sync with the mixer.
func (b *Bar) addAudio(parent widget.Handle) error {
	dirs := []audioDir{audioOutput}
	if b.cfg.AudioInput {
		dirs = []audioDir{audioInput, audioOutput}
	}
	for _, d := range dirs {
		host := parent
		var region widget.Handle
		if b.cfg.AudioRevealer {
			var err error
			if region, err = b.add(parent, widget.KindEventBox, nil); err != nil {
				return err
			}
			host = region
		}
		w, err := b.audioBody(host, d, region)
		if err != nil {
			return err
		}
		if d == audioInput {
			b.source = w
		} else {
			b.sink = w
		}
	}

	b.sched.Add(parent, func(widget.Handle) timer.Result {
		b.updateAudio()
		return timer.Continue
	}, UpdateTimeFast, timer.Late)
	return nil
}

// audioBody builds Box{slider, icon}. With a hover region the slider sits in
// a revealer opened by that region.
func (b *Bar) audioBody(parent widget.Handle, d audioDir, region widget.Handle) (AudioWidget, error) {
	w := AudioWidget{Region: region}
	box, err := b.box(parent, geometry.Transform{Size: -1, Expand: true, Align: geometry.AlignRight})
	if err != nil {
		return w, err
	}
	b.arena.Update(box, func(n *widget.Node) { n.Spacing = widget.Spacing{Size: 8} })

	sliderParent := box
	var revealer widget.Handle
	if !region.IsZero() {
		if revealer, err = b.add(box, widget.KindRevealer, nil); err != nil {
			return w, err
		}
		sliderParent = revealer
	}
	if w.Slider, err = b.slider(sliderParent, d); err != nil {
		return w, err
	}

	if w.Icon, err = b.add(box, widget.KindText, func(n *widget.Node) {
		n.Angle = b.angle
		if d == audioInput {
			n.SetClass("mic-icon")
			n.Text = iconSource
			return
		}
		n.SetClass("audio-icon")
		n.Text = iconSink
		b.setTransform(n, revealText)
	}); err != nil {
		return w, err
	}

	if !region.IsZero() {
		binding, err := reveal.Bind(b.arena, region, revealer, b.trans)
		if err != nil {
			return w, err
		}
		b.reveals = append(b.reveals, binding)
	}
	return w, nil
}

func (b *Bar) slider(parent widget.Handle, d audioDir) (widget.Handle, error) {
	h, err := b.add(parent, widget.KindSlider, func(n *widget.Node) {
		n.Orientation = b.orient
		b.setTransform(n, geometry.Transform{Size: 100, Expand: true, Align: geometry.AlignFill})
		n.Inverted = true
		n.Range = widget.Range{Min: 0, Max: 1, Step: 0.01}
		n.ScrollSpeed = float64(b.cfg.AudioScrollSpeed) / 100
		if d == audioInput {
			n.SetClass("mic-volume")
		} else {
			n.SetClass("audio-volume")
		}
	})
	if err != nil {
		return h, err
	}
	set := b.sys.SetVolumeSink
	if d == audioInput {
		set = b.sys.SetVolumeSource
	}
	return h, b.arena.SetValueChangeFn(h, func(_ widget.Handle, v float64) { set(v) })
}

func (b *Bar) updateAudio() {
	info := b.sys.AudioInfo()
	b.arena.Update(b.sink.Slider, func(n *widget.Node) { n.Value = info.SinkVolume })
	b.arena.Update(b.sink.Icon, func(n *widget.Node) {
		n.Text = iconSink
		if info.SinkMuted {
			n.Text = iconSinkMuted
		}
	})
	if !b.cfg.AudioInput {
		return
	}
	b.arena.Update(b.source.Slider, func(n *widget.Node) { n.Value = info.SourceVolume })
	b.arena.Update(b.source.Icon, func(n *widget.Node) {
		n.Text = iconSource
		if info.SourceMuted {
			n.Text = iconSourceMuted
		}
	})
}
