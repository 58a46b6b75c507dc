package widget

import (
	"fmt"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
)

// Window is the render layer's view of one bar window: its size, the edges
// it anchors to, its thickness across the bar axis, and the root node it
// displays.
type Window struct {
	Monitor int
	Width   int
	Height  int

	arena     *Arena
	anchor    geometry.Anchor
	crossSize int
	main      Handle
}

// NewWindow returns a window of the given size whose content lives in
// arena.
func NewWindow(arena *Arena, monitor, width, height int) *Window {
	return &Window{Monitor: monitor, Width: width, Height: height, arena: arena}
}

// Arena returns the arena holding the window's tree.
func (w *Window) Arena() *Arena { return w.arena }

// SetAnchor sets the edges the window attaches to.
func (w *Window) SetAnchor(a geometry.Anchor) { w.anchor = a }

// Anchor returns the edges the window attaches to.
func (w *Window) Anchor() geometry.Anchor { return w.anchor }

// SetCrossSize sets the window's thickness across the bar axis.
func (w *Window) SetCrossSize(size int) { w.crossSize = size }

// CrossSize returns the window's thickness across the bar axis.
func (w *Window) CrossSize() int { return w.crossSize }

// SetMainWidget installs a root node as the window's content.
func (w *Window) SetMainWidget(h Handle) error {
	n := w.arena.get(h)
	if n == nil {
		return ErrStaleHandle
	}
	if !n.parent.IsZero() {
		return fmt.Errorf("widget: main widget %s has a parent", h)
	}
	w.main = h
	return nil
}

// MainWidget returns the installed root, or the zero Handle. A root that
// has since been destroyed reads as the zero Handle.
func (w *Window) MainWidget() Handle {
	if !w.arena.Alive(w.main) {
		return Handle{}
	}
	return w.main
}
