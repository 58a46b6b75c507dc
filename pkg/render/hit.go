package render

import (
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Under returns the interactive nodes of the last frame that contain the
// pointer, innermost first.
func (r *Renderer) Under(msg tea.MouseMsg) []widget.Handle {
	var hs []widget.Handle
	for _, id := range r.order {
		z := r.zones.Get(id)
		if z == nil || z.IsZero() || !z.InBounds(msg) {
			continue
		}
		hs = append(hs, r.marks[id].h)
	}
	return hs
}

// SliderValue maps the pointer position inside slider h to a value in the
// slider's range. It returns false when h was not drawn as a slider or the
// pointer is outside it.
func (r *Renderer) SliderValue(h widget.Handle, msg tea.MouseMsg) (float64, bool) {
	id := r.prefix + h.String()
	m, ok := r.marks[id]
	if !ok || m.kind != widget.KindSlider {
		return 0, false
	}
	z := r.zones.Get(id)
	if z == nil || !z.InBounds(msg) {
		return 0, false
	}
	x, y := z.Pos(msg)

	pos, span := x, z.EndX-z.StartX
	if m.vertical {
		pos, span = y, z.EndY-z.StartY
	}
	ratio := 0.0
	if span > 0 {
		ratio = float64(pos) / float64(span)
	}
	if m.vertical && m.inverted {
		ratio = 1 - ratio
	}
	return m.rng.Min + ratio*(m.rng.Max-m.rng.Min), true
}
