// Package confirm implements the two-click gesture that guards irreversible
// power actions: the first click arms the button, a second click while armed
// runs the action, and an armed button disarms itself after DisarmDelay.
package confirm

import (
	"time"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/timer"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

// Action names a guarded power action.
type Action int

const (
	Exit Action = iota
	Lock
	Suspend
	Reboot
	Shutdown
)

// Actions lists every action in the order the power tray shows them.
var Actions = []Action{Exit, Lock, Suspend, Reboot, Shutdown}

func (a Action) String() string {
	switch a {
	case Exit:
		return "exit"
	case Lock:
		return "lock"
	case Suspend:
		return "suspend"
	case Reboot:
		return "reboot"
	case Shutdown:
		return "shutdown"
	}
	return "unknown"
}

// Class marks an armed button.
const Class = "system-confirm"

// DisarmDelay is how long a button stays armed without a second click.
const DisarmDelay = 2000 * time.Millisecond

// State is the phase of a gesture.
type State int

const (
	Idle State = iota
	Armed
)

func (s State) String() string {
	if s == Armed {
		return "armed"
	}
	return "idle"
}

// Gesture is the confirm state of one action's button.
type Gesture struct {
	action Action
	arena  *widget.Arena
	sched  *timer.Scheduler
	button widget.Handle
	effect func()

	state    State
	disarm   timer.ID
	deadline time.Time
	runs     int
}

// New wires button's click handler to a gesture that runs effect on a
// confirmed second click.
func New(arena *widget.Arena, sched *timer.Scheduler, button widget.Handle, action Action, effect func()) (*Gesture, error) {
	g := &Gesture{
		action: action,
		arena:  arena,
		sched:  sched,
		button: button,
		effect: effect,
	}
	if err := arena.SetClickFn(button, func(widget.Handle) { g.Click() }); err != nil {
		return nil, err
	}
	return g, nil
}

// Click advances the gesture: Idle arms, Armed executes. A click at or
// past the disarm deadline re-arms even if the disarm timer has not fired.
func (g *Gesture) Click() {
	if g.state == Armed && !g.sched.Now().Before(g.deadline) {
		g.sched.Cancel(g.disarm)
		g.reset()
	}
	if g.state == Armed {
		g.execute()
		return
	}
	g.arm()
}

func (g *Gesture) arm() {
	g.state = Armed
	g.deadline = g.sched.Now().Add(DisarmDelay)
	g.arena.Update(g.button, func(n *widget.Node) { n.AddClass(Class) })
	g.disarm = g.sched.Add(g.button, func(widget.Handle) timer.Result {
		g.reset()
		return timer.Stop
	}, DisarmDelay, timer.Late)
}

func (g *Gesture) execute() {
	// Leave Armed before running the effect so a re-entrant click cannot
	// run it twice.
	g.sched.Cancel(g.disarm)
	g.reset()
	g.runs++
	if g.effect != nil {
		g.effect()
	}
}

func (g *Gesture) reset() {
	g.state = Idle
	g.disarm = 0
	g.deadline = time.Time{}
	g.arena.Update(g.button, func(n *widget.Node) { n.RemoveClass(Class) })
}

// State returns the gesture's phase.
func (g *Gesture) State() State { return g.state }

// Action returns the guarded action.
func (g *Gesture) Action() Action { return g.action }

// Button returns the handle of the gesture's button.
func (g *Gesture) Button() widget.Handle { return g.button }

// Executions returns how many times the action has run.
func (g *Gesture) Executions() int { return g.runs }
