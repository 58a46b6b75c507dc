// Package reveal binds the pointer-hover state of a region to a revealer
// node: entering the region reveals the revealer's child, leaving hides it.
// The revealer node itself holds the state, so there is no second copy that
// could drift.
package reveal

import (
	"fmt"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// State is the visibility of a revealer's child.
type State int

const (
	Hidden State = iota
	Revealed
)

func (s State) String() string {
	if s == Revealed {
		return "revealed"
	}
	return "hidden"
}

// ErrRegionBound is returned when a hover region already drives another
// revealer.
var ErrRegionBound = widget.ErrHandlerBound

// Binding pairs one hover region with one revealer.
type Binding struct {
	arena    *widget.Arena
	region   widget.Handle
	revealer widget.Handle
}

// Bind wires region's hover events to revealer and sets the revealer's
// transition. A region can drive only one revealer.
func Bind(arena *widget.Arena, region, revealer widget.Handle, tr geometry.Transition) (*Binding, error) {
	n, ok := arena.Lookup(revealer)
	if !ok {
		return nil, widget.ErrStaleHandle
	}
	if n.Kind() != widget.KindRevealer {
		return nil, fmt.Errorf("reveal: %s is a %s, not a revealer", revealer, n.Kind())
	}

	b := &Binding{arena: arena, region: region, revealer: revealer}
	if err := arena.SetHoverFn(region, func(_ widget.Handle, entered bool) {
		b.Hover(entered)
	}); err != nil {
		return nil, fmt.Errorf("reveal: bind %s: %w", region, err)
	}
	arena.Update(revealer, func(n *widget.Node) {
		n.Transition = tr
		n.Revealed = false
	})
	return b, nil
}

// Hover applies a pointer transition: entered reveals, leaving hides,
// whatever the prior state was.
func (b *Binding) Hover(entered bool) State {
	b.arena.SetRevealed(b.revealer, entered)
	return b.State()
}

// State reads the revealer's current state. A destroyed revealer reads as
// Hidden.
func (b *Binding) State() State {
	n, ok := b.arena.Lookup(b.revealer)
	if ok && n.Revealed {
		return Revealed
	}
	return Hidden
}

// Region returns the hover region's handle.
func (b *Binding) Region() widget.Handle { return b.region }

// Revealer returns the revealer's handle.
func (b *Binding) Revealer() widget.Handle { return b.revealer }
