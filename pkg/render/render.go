// Package render draws a bar's node tree into a terminal frame and maps
// pointer positions back to the nodes under them.
//
// Pixel lengths from the node transforms are converted to cells with the
// configured cell size. Interactive nodes (event boxes, buttons, sliders and
// anything with a tooltip) are wrapped in bubblezone markers so the app can
// hit-test mouse events after the frame is shown.
package render

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/config"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/theme"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Default glyph lengths, in cells, for leaves without an explicit size.
const (
	sensorCells = 3
	sliderCells = 5
)

// Options configures a Renderer.
type Options struct {
	Theme theme.Theme
	// CellPixels is the pixel length of one terminal cell.
	CellPixels int
	// Output is the writer the frames end up on; its colour profile is
	// detected unless Profile is set.
	Output  io.Writer
	Profile *termenv.Profile
	// Now is the clock of reveal transitions. Nil uses time.Now.
	Now func() time.Time
}

// Renderer draws frames. It is used from the UI goroutine only.
type Renderer struct {
	th     theme.Theme
	cellPx int
	lr     *lipgloss.Renderer
	zones  *zone.Manager
	prefix string
	now    func() time.Time

	marks map[string]mark
	order []string
}

type mark struct {
	h        widget.Handle
	kind     widget.Kind
	vertical bool
	inverted bool
	rng      widget.Range
}

// New returns a Renderer. Call Close when done with it.
func New(opts Options) *Renderer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	lr := lipgloss.NewRenderer(out)
	if opts.Profile != nil {
		lr.SetColorProfile(*opts.Profile)
	}
	cp := opts.CellPixels
	if cp <= 0 {
		cp = config.DefaultCellPixels
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	zones := zone.New()
	return &Renderer{
		th:     opts.Theme,
		cellPx: cp,
		lr:     lr,
		zones:  zones,
		prefix: zones.NewPrefix(),
		now:    now,
		marks:  make(map[string]mark),
	}
}

// Close stops the zone manager.
func (r *Renderer) Close() {
	r.zones.Close()
}

// cells converts a pixel length to whole cells. Unset lengths come back
// as -1, which the layout reads as "natural".
func (r *Renderer) cells(px int) int {
	return config.PixelsToCells(px, r.cellPx)
}

// Frame draws the window's tree into a cols x rows canvas with the bar at
// the window's anchor. A non-empty tooltip is shown beside the bar.
func (r *Renderer) Frame(win *widget.Window, cols, rows int, tooltip string) string {
	clear(r.marks)
	r.order = r.order[:0]

	a := win.Arena()
	root := win.MainWidget()
	n, ok := a.Lookup(root)
	if !ok || cols <= 0 || rows <= 0 {
		return ""
	}

	vertical := n.Orientation == geometry.Vertical
	bg := r.th.ClassBackground("bar")
	cross := max(1, r.cells(win.CrossSize()))

	var content string
	if vertical {
		bar := r.draw(a, root, n, ctx{avail: rows, vertical: true, bg: bg})
		bar = r.fit(bar, cross, rows, geometry.AlignLeft, geometry.AlignLeft, bg)
		content = bar
		if tooltip != "" && cols > cross+1 {
			tip := r.style(r.th.Dim, "").Render(truncate(tooltip, cols-cross-1))
			if win.Anchor().Has(geometry.AnchorRight) && !win.Anchor().Has(geometry.AnchorLeft) {
				content = lipgloss.JoinHorizontal(lipgloss.Top, tip, " ", bar)
			} else {
				content = lipgloss.JoinHorizontal(lipgloss.Top, bar, " ", tip)
			}
		}
	} else {
		bar := r.draw(a, root, n, ctx{avail: cols, bg: bg})
		bar = r.fit(bar, cols, cross, geometry.AlignLeft, geometry.AlignLeft, bg)
		content = bar
		if tooltip != "" && rows > cross {
			tip := r.style(r.th.Dim, "").Render(truncate(tooltip, cols))
			if win.Anchor().Has(geometry.AnchorBottom) && !win.Anchor().Has(geometry.AnchorTop) {
				content = lipgloss.JoinVertical(lipgloss.Left, tip, bar)
			} else {
				content = lipgloss.JoinVertical(lipgloss.Left, bar, tip)
			}
		}
	}

	hpos, vpos := lipgloss.Left, lipgloss.Top
	if win.Anchor().Has(geometry.AnchorBottom) && !win.Anchor().Has(geometry.AnchorTop) {
		vpos = lipgloss.Bottom
	}
	if win.Anchor().Has(geometry.AnchorRight) && !win.Anchor().Has(geometry.AnchorLeft) {
		hpos = lipgloss.Right
	}
	return r.zones.Scan(lipgloss.Place(cols, rows, hpos, vpos, content))
}

// ctx is what a parent tells a child about the space it is drawn into.
type ctx struct {
	avail    int  // cells along the parent's main axis, -1 when unconstrained
	vertical bool // the parent lays children out top to bottom
	bg       string
}

func (r *Renderer) draw(a *widget.Arena, h widget.Handle, n widget.Node, c ctx) string {
	if !n.Visible {
		return ""
	}
	bg := c.bg
	for _, class := range n.Classes() {
		if b := r.th.ClassBackground(class); b != "" {
			bg = b
		}
	}
	inner := ctx{avail: c.avail, vertical: c.vertical, bg: bg}

	var out string
	switch n.Kind() {
	case widget.KindBox:
		out = r.box(a, n, inner)
	case widget.KindEventBox:
		out = r.first(a, n, inner)
	case widget.KindRevealer:
		out = r.revealer(a, n, inner)
	case widget.KindText, widget.KindButton:
		out = r.text(n, bg)
	case widget.KindSensor:
		out = r.sensor(n, c.vertical, bg)
	case widget.KindNetworkSensor:
		out = r.network(n, c.vertical, bg)
	case widget.KindSlider:
		out = r.slider(n, bg)
	}
	if out == "" {
		return ""
	}
	out = r.size(out, n, c)

	if interactive(n) {
		out = r.mark(h, n, out)
	}
	return out
}

func interactive(n widget.Node) bool {
	switch n.Kind() {
	case widget.KindEventBox, widget.KindButton, widget.KindSlider:
		return true
	}
	return n.Tooltip != ""
}

// first draws the single child of an event box.
func (r *Renderer) first(a *widget.Arena, n widget.Node, c ctx) string {
	kids := n.Children()
	if len(kids) == 0 {
		return ""
	}
	kn, ok := a.Lookup(kids[0])
	if !ok {
		return ""
	}
	return r.draw(a, kids[0], kn, c)
}

// classColor picks the foreground of the node's most specific class: the
// last one that is not plain foreground.
func (r *Renderer) classColor(n widget.Node) string {
	fg := r.th.Foreground
	for _, class := range n.Classes() {
		if c := r.th.ClassColor(class); c != r.th.Foreground {
			fg = c
		}
	}
	return fg
}

func (r *Renderer) style(fg, bg string) lipgloss.Style {
	s := r.lr.NewStyle()
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	return s
}

// paint styles s unless it is empty, so empty strings stay free of escape
// sequences.
func (r *Renderer) paint(s, fg, bg string) string {
	if s == "" {
		return ""
	}
	return r.style(fg, bg).Render(s)
}

func (r *Renderer) mark(h widget.Handle, n widget.Node, block string) string {
	id := r.prefix + h.String()
	if _, seen := r.marks[id]; !seen {
		r.order = append(r.order, id)
	}
	r.marks[id] = mark{
		h:        h,
		kind:     n.Kind(),
		vertical: n.Orientation == geometry.Vertical,
		inverted: n.Inverted,
		rng:      n.Range,
	}
	return r.zones.Mark(id, block)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = cutLine(l, width)
	}
	return strings.Join(lines, "\n")
}
