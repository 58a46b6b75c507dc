package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/components"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

type item struct {
	h     widget.Handle
	n     widget.Node
	block string
}

// mainTransform is the transform of n along an axis.
func mainTransform(n widget.Node, vertical bool) geometry.Transform {
	if vertical {
		return n.Vertical
	}
	return n.Horizontal
}

// length measures a block along an axis.
func length(block string, vertical bool) int {
	if vertical {
		return lipgloss.Height(block)
	}
	return lipgloss.Width(block)
}

// box lays children out along the box's orientation. Surplus space goes to
// children whose transform expands.
func (r *Renderer) box(a *widget.Arena, n widget.Node, c ctx) string {
	vertical := n.Orientation == geometry.Vertical
	var items []item
	for _, k := range n.Children() {
		kn, ok := a.Lookup(k)
		if !ok {
			continue
		}
		b := r.draw(a, k, kn, ctx{avail: -1, vertical: vertical, bg: c.bg})
		if b == "" {
			continue
		}
		items = append(items, item{h: k, n: kn, block: b})
	}
	if len(items) == 0 {
		return ""
	}

	gap := max(0, r.cells(n.Spacing.Size))
	if n.Spacing.Homogeneous {
		widest := 0
		for _, it := range items {
			widest = max(widest, length(it.block, vertical))
		}
		for i := range items {
			items[i].block = r.fitAxis(items[i].block, widest, vertical, geometry.AlignCenter, c.bg)
		}
	}

	// A box with its own size hands out the surplus; a box stretched by its
	// parent only does so when it fills, otherwise it packs its children
	// and lets alignment place them.
	limit := -1
	own := mainTransform(n, vertical)
	if sz := r.cells(own.Size); sz > 0 {
		limit = sz
	} else if c.avail > 0 && vertical == c.vertical && own.Align == geometry.AlignFill {
		limit = c.avail
	}
	if limit > 0 {
		used := gap * (len(items) - 1)
		var expanders []int
		for i, it := range items {
			used += length(it.block, vertical)
			if mainTransform(it.n, vertical).Expand {
				expanders = append(expanders, i)
			}
		}
		if surplus := limit - used; surplus > 0 && len(expanders) > 0 {
			share := surplus / len(expanders)
			for j, i := range expanders {
				extra := share
				if j == len(expanders)-1 {
					extra = surplus - share*(len(expanders)-1)
				}
				it := items[i]
				avail := length(it.block, vertical) + extra
				items[i].block = r.draw(a, it.h, it.n, ctx{avail: avail, vertical: vertical, bg: c.bg})
			}
		}
	}

	// Equalise the cross axis so the join never pads with unstyled space.
	cross := 0
	for _, it := range items {
		cross = max(cross, length(it.block, !vertical))
	}
	blocks := make([]string, 0, 2*len(items))
	for i, it := range items {
		if i > 0 && gap > 0 {
			blocks = append(blocks, r.spacer(gap, cross, vertical, c.bg))
		}
		blocks = append(blocks, r.fitAxis(it.block, cross, !vertical, geometry.AlignLeft, c.bg))
	}
	if vertical {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (r *Renderer) spacer(gap, cross int, vertical bool, bg string) string {
	if vertical {
		return r.fit("", cross, gap, geometry.AlignLeft, geometry.AlignLeft, bg)
	}
	return r.fit("", gap, cross, geometry.AlignLeft, geometry.AlignLeft, bg)
}

// revealer draws its child clipped to the progress of the current
// transition.
func (r *Renderer) revealer(a *widget.Arena, n widget.Node, c ctx) string {
	shown := r.progress(n)
	if shown <= 0 {
		return ""
	}
	block := r.first(a, n, c)
	if block == "" || shown >= 1 {
		return block
	}
	if n.Transition.Type == geometry.SlideUp {
		lines := strings.Split(block, "\n")
		keep := int(math.Ceil(shown * float64(len(lines))))
		return strings.Join(lines[:keep], "\n")
	}
	keep := int(math.Ceil(shown * float64(lipgloss.Width(block))))
	return truncate(block, keep)
}

// progress returns the visible fraction of a revealer's child.
func (r *Renderer) progress(n widget.Node) float64 {
	d := n.Transition.Duration
	if d <= 0 || n.RevealedAt.IsZero() {
		if n.Revealed {
			return 1
		}
		return 0
	}
	t := components.Clamp(float64(r.now().Sub(n.RevealedAt)) / float64(d))
	if n.Revealed {
		return t
	}
	return 1 - t
}

func (r *Renderer) text(n widget.Node, bg string) string {
	fg := r.classColor(n)
	if n.Angle == 270 {
		rows := components.Stack(n.Text)
		for i, row := range rows {
			rows[i] = r.paint(row, fg, bg)
		}
		return strings.Join(rows, "\n")
	}
	return r.paint(n.Text, fg, bg)
}

// glyphLength is a leaf's length along its axis: the transform size when
// set, else def.
func (r *Renderer) glyphLength(tr geometry.Transform, def int) int {
	if sz := r.cells(tr.Size); sz > 0 {
		return sz
	}
	return def
}

func (r *Renderer) sensor(n widget.Node, vertical bool, bg string) string {
	fill, empty := r.th.GaugeColor(n.Value), r.th.GaugeEmpty
	if vertical {
		rows, filled := components.VGauge(n.Value, r.glyphLength(n.Vertical, sensorCells))
		for i := range rows {
			if filled[i] {
				rows[i] = r.paint(rows[i], fill, empty)
			} else {
				rows[i] = r.paint(rows[i], "", empty)
			}
		}
		return strings.Join(rows, "\n")
	}
	g := components.HGauge(n.Value, r.glyphLength(n.Horizontal, sensorCells))
	return r.paint(g.Fill, fill, empty) + r.paint(g.Rest, "", empty)
}

func (r *Renderer) network(n widget.Node, vertical bool, bg string) string {
	up := components.Ratio(n.Up, n.LimitUp.Min, n.LimitUp.Max)
	down := components.Ratio(n.Down, n.LimitDn.Min, n.LimitDn.Max)
	empty := r.th.GaugeEmpty
	if vertical {
		l := r.glyphLength(n.Vertical, sensorCells)
		upRows, upFilled := components.VGauge(up, l/2)
		dnRows, dnFilled := components.VGauge(down, l-l/2)
		var rows []string
		for i := range upRows {
			rows = append(rows, r.gaugeCell(upRows[i], upFilled[i], r.th.Accent, empty))
		}
		for i := range dnRows {
			rows = append(rows, r.gaugeCell(dnRows[i], dnFilled[i], r.th.OK, empty))
		}
		return strings.Join(rows, "\n")
	}
	g := components.HNetGauge(up, down, r.glyphLength(n.Horizontal, sensorCells))
	return r.paint(g.Up.Fill, r.th.Accent, empty) + r.paint(g.Up.Rest, "", empty) +
		r.paint(g.Down.Fill, r.th.OK, empty) + r.paint(g.Down.Rest, "", empty)
}

func (r *Renderer) gaugeCell(cell string, filled bool, fill, empty string) string {
	if filled {
		return r.paint(cell, fill, empty)
	}
	return r.paint(cell, "", empty)
}

func (r *Renderer) slider(n widget.Node, bg string) string {
	ratio := components.Ratio(n.Value, n.Range.Min, n.Range.Max)
	fg := r.classColor(n)
	if n.Orientation == geometry.Vertical {
		rows := components.VSlider(ratio, r.glyphLength(n.Vertical, sliderCells), n.Inverted)
		for i, row := range rows {
			c := fg
			if row == "\u2502" {
				c = r.th.GaugeEmpty
			}
			rows[i] = r.paint(row, c, bg)
		}
		return strings.Join(rows, "\n")
	}
	t := components.HSlider(ratio, r.glyphLength(n.Horizontal, sliderCells))
	return r.paint(t.Done, fg, bg) + r.paint(t.Knob, fg, bg) + r.paint(t.Todo, r.th.GaugeEmpty, bg)
}

// size applies a node's transforms: explicit sizes, expansion into the
// space its parent offers, alignment and margins.
func (r *Renderer) size(block string, n widget.Node, c ctx) string {
	h, v := n.Horizontal, n.Vertical
	w, ht := r.cells(h.Size), r.cells(v.Size)
	hMargin := max(0, r.cells(h.MarginBefore)) + max(0, r.cells(h.MarginAfter))
	vMargin := max(0, r.cells(v.MarginBefore)) + max(0, r.cells(v.MarginAfter))

	main := mainTransform(n, c.vertical)
	if main.Expand && c.avail > 0 {
		if c.vertical {
			ht = max(ht, c.avail-vMargin)
		} else {
			w = max(w, c.avail-hMargin)
		}
	}
	if w > 0 || ht > 0 {
		block = r.fit(block, w, ht, h.Align, v.Align, c.bg)
	}
	block = r.margin(block, r.cells(h.MarginBefore), r.cells(h.MarginAfter), false, c.bg)
	return r.margin(block, r.cells(v.MarginBefore), r.cells(v.MarginAfter), true, c.bg)
}

// margin pads block with before and after cells along one axis.
func (r *Renderer) margin(block string, before, after int, vertical bool, bg string) string {
	before, after = max(0, before), max(0, after)
	if before == 0 && after == 0 {
		return block
	}
	l := length(block, vertical)
	block = r.fitAxis(block, l+after, vertical, geometry.AlignLeft, bg)
	return r.fitAxis(block, l+after+before, vertical, geometry.AlignRight, bg)
}

// fitAxis fits block along one axis, leaving the other as is.
func (r *Renderer) fitAxis(block string, n int, vertical bool, align geometry.Alignment, bg string) string {
	if vertical {
		return r.fit(block, -1, n, geometry.AlignLeft, align, bg)
	}
	return r.fit(block, n, -1, align, geometry.AlignLeft, bg)
}

// fit truncates or pads block to w x h cells; a negative dimension is left
// alone. Padding is painted with bg. Vertical alignment reuses the
// horizontal constants: left is top and right is bottom.
func (r *Renderer) fit(block string, w, h int, ha, va geometry.Alignment, bg string) string {
	var lines []string
	if block != "" {
		lines = strings.Split(block, "\n")
	}
	if w < 0 {
		w = 0
		for _, l := range lines {
			w = max(w, ansi.StringWidth(l))
		}
	}
	if h >= 0 {
		switch {
		case len(lines) > h:
			lines = lines[:h]
		case len(lines) < h:
			missing := h - len(lines)
			before := 0
			switch va {
			case geometry.AlignCenter:
				before = missing / 2
			case geometry.AlignRight:
				before = missing
			}
			pad := make([]string, 0, h)
			for i := 0; i < before; i++ {
				pad = append(pad, "")
			}
			pad = append(pad, lines...)
			for len(pad) < h {
				pad = append(pad, "")
			}
			lines = pad
		}
	}
	for i, l := range lines {
		lines[i] = r.fitLine(l, w, ha, bg)
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) fitLine(line string, w int, align geometry.Alignment, bg string) string {
	line = cutLine(line, w)
	gap := w - ansi.StringWidth(line)
	if gap <= 0 {
		return line
	}
	pad := func(n int) string { return r.paint(strings.Repeat(" ", n), "", bg) }
	switch align {
	case geometry.AlignRight:
		return pad(gap) + line
	case geometry.AlignCenter:
		left := gap / 2
		if left == 0 {
			return line + pad(gap)
		}
		return pad(left) + line + pad(gap-left)
	}
	return line + pad(gap)
}

// cutLine truncates one line to width cells without an ellipsis.
func cutLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, "")
}
