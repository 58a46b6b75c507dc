package render

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/config"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/theme"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestRenderer renders without colour so frames compare as plain text.
func newTestRenderer(t *testing.T, now time.Time) *Renderer {
	t.Helper()
	p := termenv.Ascii
	r := New(Options{
		Theme:   theme.Get("default"),
		Output:  io.Discard,
		Profile: &p,
		Now:     func() time.Time { return now },
	})
	t.Cleanup(r.Close)
	return r
}

type tree struct {
	arena *widget.Arena
	win   *widget.Window
	root  widget.Handle
}

func newTree(t *testing.T, orientation geometry.Orientation, anchor geometry.Anchor) tree {
	t.Helper()
	a := widget.NewArena()
	a.SetClock(func() time.Time { return t0 })
	root := a.NewRoot(widget.KindBox)
	a.Update(root, func(n *widget.Node) { n.Orientation = orientation })
	win := widget.NewWindow(a, 0, 160, 64)
	win.SetAnchor(anchor)
	win.SetCrossSize(8)
	if err := win.SetMainWidget(root); err != nil {
		t.Fatal(err)
	}
	return tree{arena: a, win: win, root: root}
}

func (tr tree) add(t *testing.T, parent widget.Handle, kind widget.Kind, fn func(n *widget.Node)) widget.Handle {
	t.Helper()
	h, err := tr.arena.Add(parent, kind)
	if err != nil {
		t.Fatal(err)
	}
	if fn != nil {
		tr.arena.Update(h, fn)
	}
	return h
}

func text(s string) func(n *widget.Node) {
	return func(n *widget.Node) { n.Text = s }
}

func TestFrameTextAndGauge(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop|geometry.AnchorLeft|geometry.AnchorRight)
	tr.add(t, tr.root, widget.KindText, text("CPU"))
	tr.add(t, tr.root, widget.KindSensor, func(n *widget.Node) {
		n.Value = 0.5
		n.Horizontal = geometry.Transform{Size: 24}
	})

	got := newTestRenderer(t, t0).Frame(tr.win, 12, 1, "")
	if want := "CPU█▌       "; got != want {
		t.Errorf("frame = %q, want %q", got, want)
	}
}

func TestFrameSkipsHiddenNodes(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	tr.add(t, tr.root, widget.KindText, text("a"))
	tr.add(t, tr.root, widget.KindText, func(n *widget.Node) { n.Text = "hidden"; n.Visible = false })
	tr.add(t, tr.root, widget.KindText, text("b"))

	if got := newTestRenderer(t, t0).Frame(tr.win, 4, 1, ""); got != "ab  " {
		t.Errorf("frame = %q", got)
	}
}

func TestFrameSpacing(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	tr.arena.Update(tr.root, func(n *widget.Node) { n.Spacing = widget.Spacing{Size: 8} })
	tr.add(t, tr.root, widget.KindText, text("a"))
	tr.add(t, tr.root, widget.KindText, text("b"))

	if got := newTestRenderer(t, t0).Frame(tr.win, 4, 1, ""); got != "a b " {
		t.Errorf("frame = %q", got)
	}
}

func TestFrameExpandingRegionAlignsRight(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	tr.add(t, tr.root, widget.KindText, text("L"))
	right := tr.add(t, tr.root, widget.KindBox, func(n *widget.Node) {
		n.Horizontal = geometry.Transform{Size: -1, Expand: true, Align: geometry.AlignRight}
	})
	tr.add(t, right, widget.KindText, text("R"))

	if got := newTestRenderer(t, t0).Frame(tr.win, 10, 1, ""); got != "L        R" {
		t.Errorf("frame = %q", got)
	}
}

func TestFrameFixedSizeTruncates(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	tr.add(t, tr.root, widget.KindText, func(n *widget.Node) {
		n.Text = "abcdef"
		n.Horizontal = geometry.Transform{Size: 24}
	})
	tr.add(t, tr.root, widget.KindText, text("|"))

	if got := newTestRenderer(t, t0).Frame(tr.win, 5, 1, ""); got != "abc| " {
		t.Errorf("frame = %q", got)
	}
}

func TestRevealerShowsChildOnlyWhenRevealed(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	rev := tr.add(t, tr.root, widget.KindRevealer, nil)
	tr.add(t, rev, widget.KindText, text("abcd"))
	tr.add(t, tr.root, widget.KindText, text("|"))
	r := newTestRenderer(t, t0)

	if got := r.Frame(tr.win, 6, 1, ""); got != "|     " {
		t.Errorf("hidden frame = %q", got)
	}
	tr.arena.SetRevealed(rev, true)
	if got := r.Frame(tr.win, 6, 1, ""); got != "abcd| " {
		t.Errorf("revealed frame = %q", got)
	}
}

func TestRevealerClipsDuringTransition(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	rev := tr.add(t, tr.root, widget.KindRevealer, func(n *widget.Node) {
		n.Transition = geometry.Transition{Type: geometry.SlideLeft, Duration: 500 * time.Millisecond}
	})
	tr.add(t, rev, widget.KindText, text("abcd"))
	tr.arena.SetRevealed(rev, true)

	tests := []struct {
		at   time.Duration
		want string
	}{
		{0, "      "},
		{250 * time.Millisecond, "ab    "},
		{time.Second, "abcd  "},
	}
	for _, tt := range tests {
		r := newTestRenderer(t, t0.Add(tt.at))
		if got := r.Frame(tr.win, 6, 1, ""); got != tt.want {
			t.Errorf("at %v: frame = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestVerticalBarStacksText(t *testing.T) {
	tr := newTree(t, geometry.Vertical, geometry.AnchorLeft|geometry.AnchorTop|geometry.AnchorBottom)
	tr.add(t, tr.root, widget.KindText, func(n *widget.Node) { n.Text = "ab"; n.Angle = 270 })

	got := newTestRenderer(t, t0).Frame(tr.win, 3, 4, "")
	want := strings.Join([]string{"a  ", "b  ", "   ", "   "}, "\n")
	if got != want {
		t.Errorf("frame = %q, want %q", got, want)
	}
}

func TestBottomAnchorPlacesBarOnLastRow(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorBottom|geometry.AnchorLeft|geometry.AnchorRight)
	tr.add(t, tr.root, widget.KindText, text("x"))

	got := newTestRenderer(t, t0).Frame(tr.win, 2, 3, "")
	if want := "  \n  \nx "; got != want {
		t.Errorf("frame = %q, want %q", got, want)
	}
}

func TestTooltipBelowTopBar(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop|geometry.AnchorLeft|geometry.AnchorRight)
	tr.add(t, tr.root, widget.KindText, text("x"))

	got := newTestRenderer(t, t0).Frame(tr.win, 8, 2, "Updates available!")
	if want := "x       \nUpdates "; got != want {
		t.Errorf("frame = %q, want %q", got, want)
	}
}

func TestSliderGlyph(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	tr.add(t, tr.root, widget.KindSlider, func(n *widget.Node) { n.Value = 0.5 })

	if got := newTestRenderer(t, t0).Frame(tr.win, 5, 1, ""); got != "━━●──" {
		t.Errorf("frame = %q", got)
	}
}

// waitUnder polls Under until the zone manager has indexed the last frame.
func waitUnder(t *testing.T, r *Renderer, msg tea.MouseMsg) []widget.Handle {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hs := r.Under(msg); len(hs) > 0 {
			return hs
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func TestUnderReturnsInnermostFirst(t *testing.T) {
	tr := newTree(t, geometry.Horizontal, geometry.AnchorTop)
	tr.add(t, tr.root, widget.KindText, text("ab"))
	region := tr.add(t, tr.root, widget.KindEventBox, nil)
	button := tr.add(t, region, widget.KindButton, text("X"))

	r := newTestRenderer(t, t0)
	r.Frame(tr.win, 4, 1, "")

	hs := waitUnder(t, r, tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionMotion})
	if len(hs) != 2 || hs[0] != button || hs[1] != region {
		t.Fatalf("Under = %v, want [%v %v]", hs, button, region)
	}
	if hs := r.Under(tea.MouseMsg{X: 0, Y: 0}); len(hs) != 0 {
		t.Errorf("plain text should not be hit: %v", hs)
	}
}

func TestCellsMatchConfig(t *testing.T) {
	r := newTestRenderer(t, t0)
	cfg := config.DefaultConfig()
	for _, px := range []int{-4, 0, 1, 8, 9, 30, 1920} {
		if got, want := r.cells(px), cfg.Cells(px); got != want {
			t.Errorf("cells(%d) = %d, config says %d", px, got, want)
		}
	}
}
