// Package timer runs the periodic callbacks attached to display nodes.
//
// The Scheduler is driven by the UI goroutine: every call to Tick fires the
// timers that are due at that instant. It never sleeps or blocks; waiting is
// expressed as a deadline for the next Tick.
package timer

import (
	"sort"
	"time"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Result is a callback's verdict on whether its timer keeps running.
type Result int

const (
	// Continue reschedules the timer one interval after this firing.
	Continue Result = iota
	// Stop removes the timer permanently.
	Stop
)

// Dispatch selects when a timer fires for the first time.
type Dispatch int

const (
	// Late fires the first time one interval after registration.
	Late Dispatch = iota
	// Immediate fires once during registration, then every interval.
	Immediate
)

// Callback is the unit of periodic work. It receives the handle of the node
// the timer is attached to. Callbacks must not panic; faults are absorbed
// and shown as placeholder state by the callback itself.
type Callback func(node widget.Handle) Result

// ID names a registered timer.
type ID uint64

// Clock is the time source of a Scheduler.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

type entry struct {
	id       ID
	node     widget.Handle
	cb       Callback
	interval time.Duration
	next     time.Time
}

// Scheduler owns the timers of one arena.
type Scheduler struct {
	arena   *widget.Arena
	clock   Clock
	entries map[ID]*entry
	lastID  ID
}

// New returns a Scheduler for the nodes of arena. Destroying a node in the
// arena cancels its timers. A nil clock uses the wall clock.
func New(arena *widget.Arena, clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	s := &Scheduler{
		arena:   arena,
		clock:   clock,
		entries: make(map[ID]*entry),
	}
	arena.OnRemove(s.CancelNode)
	return s
}

// Add registers cb on node. With Immediate dispatch cb runs before Add
// returns; if that first run returns Stop, no timer is kept and the zero ID
// is returned. Add on a stale node registers nothing.
func (s *Scheduler) Add(node widget.Handle, cb Callback, interval time.Duration, dispatch Dispatch) ID {
	if !s.arena.Alive(node) {
		return 0
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	now := s.clock.Now()
	if dispatch == Immediate {
		if cb(node) == Stop {
			return 0
		}
		// The callback may have torn down its own node.
		if !s.arena.Alive(node) {
			return 0
		}
	}
	s.lastID++
	s.entries[s.lastID] = &entry{
		id:       s.lastID,
		node:     node,
		cb:       cb,
		interval: interval,
		next:     now.Add(interval),
	}
	return s.lastID
}

// Cancel removes a timer. Cancelling an unknown or finished timer is a
// no-op.
func (s *Scheduler) Cancel(id ID) {
	delete(s.entries, id)
}

// Active reports whether the timer is still registered.
func (s *Scheduler) Active(id ID) bool {
	_, ok := s.entries[id]
	return ok
}

// CancelNode removes every timer attached to node.
func (s *Scheduler) CancelNode(node widget.Handle) {
	for id, e := range s.entries {
		if e.node == node {
			delete(s.entries, id)
		}
	}
}

// Now reads the scheduler's clock.
func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// Len returns the number of registered timers.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

// NextDeadline returns the earliest pending deadline, or false when no
// timer is registered.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	var best time.Time
	found := false
	for _, e := range s.entries {
		if !found || e.next.Before(best) {
			best = e.next
			found = true
		}
	}
	return best, found
}

// Tick fires every timer due at the clock's current time and returns how
// many callbacks ran. Timers added by a callback during Tick are not
// considered until the next Tick.
func (s *Scheduler) Tick() int {
	now := s.clock.Now()

	var due []*entry
	for _, e := range s.entries {
		if !e.next.After(now) {
			due = append(due, e)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next.Equal(due[j].next) {
			return due[i].id < due[j].id
		}
		return due[i].next.Before(due[j].next)
	})

	fired := 0
	for _, e := range due {
		// An earlier callback in this pass may have cancelled the timer or
		// destroyed its node.
		if _, ok := s.entries[e.id]; !ok {
			continue
		}
		if !s.arena.Alive(e.node) {
			delete(s.entries, e.id)
			continue
		}
		fired++
		if e.cb(e.node) == Stop {
			delete(s.entries, e.id)
			continue
		}
		e.next = now.Add(e.interval)
	}
	return fired
}
