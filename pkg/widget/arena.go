// Package widget holds the display tree of one bar instance.
//
// Nodes live in an Arena and are addressed by Handle, a stable index plus a
// generation counter. A node is owned by the parent it was created under and
// is never re-parented. Everything else (timer callbacks, event handlers,
// the bar's per-instance context) keeps only handles, so access after a
// subtree has been destroyed fails cleanly instead of touching freed state.
//
// An Arena is owned by the UI goroutine and is not safe for concurrent use.
package widget

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStaleHandle is returned when a handle no longer names a live node.
	ErrStaleHandle = errors.New("widget: stale handle")

	// ErrNotContainer is returned when adding a child to a leaf kind.
	ErrNotContainer = errors.New("widget: node cannot own children")

	// ErrSingleChild is returned when adding a second child to a revealer
	// or event box.
	ErrSingleChild = errors.New("widget: node already has its child")
)

// Handle is a non-owning reference to a node in an Arena. The zero Handle
// never names a node.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// String returns a compact identifier, also used as the render zone ID.
func (h Handle) String() string {
	return fmt.Sprintf("n%d.%d", h.index, h.gen)
}

type slot struct {
	gen  uint32
	node *Node
}

// Arena owns every node of one bar.
type Arena struct {
	slots     []slot
	free      []uint32
	live      int
	listeners []func(Handle)
	now       func() time.Time
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{now: time.Now}
}

// SetClock replaces the time source used to stamp reveal transitions.
func (a *Arena) SetClock(now func() time.Time) {
	a.now = now
}

// OnRemove registers fn to be called with every handle removed by Destroy,
// children before their parent.
func (a *Arena) OnRemove(fn func(Handle)) {
	a.listeners = append(a.listeners, fn)
}

func (a *Arena) alloc(n *Node) Handle {
	a.live++
	if k := len(a.free); k > 0 {
		idx := a.free[k-1]
		a.free = a.free[:k-1]
		s := &a.slots[idx]
		s.gen++
		s.node = n
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot{gen: 1, node: n})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *Arena) get(h Handle) *Node {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil
	}
	s := a.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.node
}

// NewRoot creates a parentless node, the top of a bar's tree.
func (a *Arena) NewRoot(kind Kind) Handle {
	return a.alloc(newNode(kind, Handle{}))
}

// Add creates a node of the given kind owned by parent and appends it to
// parent's children.
func (a *Arena) Add(parent Handle, kind Kind) (Handle, error) {
	p := a.get(parent)
	if p == nil {
		return Handle{}, ErrStaleHandle
	}
	if !p.kind.Container() {
		return Handle{}, fmt.Errorf("add %s to %s: %w", kind, p.kind, ErrNotContainer)
	}
	if p.kind.singleChild() && len(p.children) > 0 {
		return Handle{}, fmt.Errorf("add %s to %s: %w", kind, p.kind, ErrSingleChild)
	}
	h := a.alloc(newNode(kind, parent))
	p.children = append(p.children, h)
	return h, nil
}

// Alive reports whether h names a live node.
func (a *Arena) Alive(h Handle) bool {
	return a.get(h) != nil
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	return a.live
}

// Lookup returns a copy of the node named by h.
func (a *Arena) Lookup(h Handle) (Node, bool) {
	n := a.get(h)
	if n == nil {
		return Node{}, false
	}
	return n.clone(), true
}

// Update runs fn against the live node named by h. It returns false, and
// does not call fn, when h is stale.
func (a *Arena) Update(h Handle, fn func(n *Node)) bool {
	n := a.get(h)
	if n == nil {
		return false
	}
	fn(n)
	return true
}

// Children returns the ordered children of h, or nil when h is stale.
func (a *Arena) Children(h Handle) []Handle {
	if n := a.get(h); n != nil {
		return n.Children()
	}
	return nil
}

// Walk visits h and its descendants depth-first in child order. Returning
// false from fn skips the node's children. The node pointer is only valid
// for the duration of the call.
func (a *Arena) Walk(h Handle, fn func(h Handle, n *Node, depth int) bool) {
	a.walk(h, 0, fn)
}

func (a *Arena) walk(h Handle, depth int, fn func(Handle, *Node, int) bool) {
	n := a.get(h)
	if n == nil {
		return
	}
	if !fn(h, n, depth) {
		return
	}
	for _, c := range n.children {
		a.walk(c, depth+1, fn)
	}
}

// Destroy removes h and its whole subtree. Every handle into the subtree
// becomes stale and removal listeners are told about each of them.
func (a *Arena) Destroy(h Handle) error {
	n := a.get(h)
	if n == nil {
		return ErrStaleHandle
	}
	if p := a.get(n.parent); p != nil {
		for i, c := range p.children {
			if c == h {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	a.destroy(h)
	return nil
}

func (a *Arena) destroy(h Handle) {
	n := a.get(h)
	if n == nil {
		return
	}
	for _, c := range n.children {
		a.destroy(c)
	}
	s := &a.slots[h.index]
	s.node = nil
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
	for _, fn := range a.listeners {
		fn(h)
	}
}
