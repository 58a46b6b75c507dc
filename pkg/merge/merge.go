// Package merge moves results computed on background goroutines into state
// owned by the UI goroutine.
//
// Producers Post closures to an Inbox from any goroutine. The UI goroutine
// wakes on Ready and calls Drain, which runs the closures in post order.
// Writes to a single element additionally go through Element.Apply, which
// holds the element's own lock for the duration of the write.
package merge

import (
	"sync"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Inbox is a multi-producer, single-consumer queue of UI work.
type Inbox struct {
	mu    sync.Mutex
	queue []func()
	ready chan struct{}
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{ready: make(chan struct{}, 1)}
}

// Post queues fn for the UI goroutine. It never blocks.
func (in *Inbox) Post(fn func()) {
	in.mu.Lock()
	in.queue = append(in.queue, fn)
	in.mu.Unlock()

	select {
	case in.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled at least once after each Post. A receive does not
// consume queued work; call Drain.
func (in *Inbox) Ready() <-chan struct{} {
	return in.ready
}

// Pending returns the number of queued closures.
func (in *Inbox) Pending() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.queue)
}

// Drain runs every queued closure in post order and returns how many ran.
// Closures posted while draining wait for the next Drain.
func (in *Inbox) Drain() int {
	in.mu.Lock()
	batch := in.queue
	in.queue = nil
	in.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Element guards writes to one node of an arena.
type Element struct {
	mu     sync.Mutex
	arena  *widget.Arena
	handle widget.Handle
}

// NewElement returns the guard for h.
func NewElement(arena *widget.Arena, h widget.Handle) *Element {
	return &Element{arena: arena, handle: h}
}

// Handle returns the guarded node's handle.
func (e *Element) Handle() widget.Handle { return e.handle }

// Apply runs fn against the node under the element's lock. It returns
// false and skips fn when the node has been destroyed. Apply must be
// called on the goroutine that owns the arena.
func (e *Element) Apply(fn func(n *widget.Node)) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.arena.Update(e.handle, fn)
}
