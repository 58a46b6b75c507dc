package reveal

import (
	"errors"
	"math/rand"
	"testing"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

type pair struct {
	arena    *widget.Arena
	region   widget.Handle
	revealer widget.Handle
}

func newPair(t *testing.T) pair {
	t.Helper()
	a := widget.NewArena()
	root := a.NewRoot(widget.KindBox)
	region, _ := a.Add(root, widget.KindEventBox)
	box, _ := a.Add(region, widget.KindBox)
	revealer, _ := a.Add(box, widget.KindRevealer)
	return pair{arena: a, region: region, revealer: revealer}
}

func TestHoverEnterRevealsLeaveHides(t *testing.T) {
	p := newPair(t)
	tr := geometry.New(geometry.Top, nil).Transition()
	b, err := Bind(p.arena, p.region, p.revealer, tr)
	if err != nil {
		t.Fatal(err)
	}

	if b.State() != Hidden {
		t.Fatalf("initial state = %v, want hidden", b.State())
	}
	if !p.arena.Hover(p.region, true) {
		t.Fatal("region has no hover handler")
	}
	if b.State() != Revealed {
		t.Errorf("after enter: %v, want revealed", b.State())
	}
	p.arena.Hover(p.region, false)
	if b.State() != Hidden {
		t.Errorf("after leave: %v, want hidden", b.State())
	}

	n, _ := p.arena.Lookup(p.revealer)
	if n.Transition != tr {
		t.Errorf("transition = %+v, want %+v", n.Transition, tr)
	}
}

func TestHoverIsIdempotent(t *testing.T) {
	p := newPair(t)
	b, _ := Bind(p.arena, p.region, p.revealer, geometry.Transition{})

	b.Hover(true)
	if b.Hover(true) != Revealed {
		t.Error("enter while revealed should stay revealed")
	}
	b.Hover(false)
	if b.Hover(false) != Hidden {
		t.Error("leave while hidden should stay hidden")
	}
}

func TestRapidSequencesEndInLastState(t *testing.T) {
	p := newPair(t)
	b, _ := Bind(p.arena, p.region, p.revealer, geometry.Transition{})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		entered := rng.Intn(2) == 0
		p.arena.Hover(p.region, entered)
		want := Hidden
		if entered {
			want = Revealed
		}
		if got := b.State(); got != want {
			t.Fatalf("step %d: state %v after hover(%v)", i, got, entered)
		}
	}
}

func TestRevealersAreIndependent(t *testing.T) {
	a := widget.NewArena()
	root := a.NewRoot(widget.KindBox)
	var bindings []*Binding
	for i := 0; i < 3; i++ {
		region, _ := a.Add(root, widget.KindEventBox)
		rev, _ := a.Add(region, widget.KindRevealer)
		b, err := Bind(a, region, rev, geometry.Transition{})
		if err != nil {
			t.Fatal(err)
		}
		bindings = append(bindings, b)
	}

	a.Hover(bindings[1].Region(), true)
	for i, b := range bindings {
		want := Hidden
		if i == 1 {
			want = Revealed
		}
		if b.State() != want {
			t.Errorf("binding %d: %v, want %v", i, b.State(), want)
		}
	}
}

func TestRegionBindsOnce(t *testing.T) {
	p := newPair(t)
	if _, err := Bind(p.arena, p.region, p.revealer, geometry.Transition{}); err != nil {
		t.Fatal(err)
	}
	if _, err := Bind(p.arena, p.region, p.revealer, geometry.Transition{}); !errors.Is(err, ErrRegionBound) {
		t.Errorf("second Bind: err = %v, want ErrRegionBound", err)
	}
}

func TestBindRejectsNonRevealer(t *testing.T) {
	p := newPair(t)
	if _, err := Bind(p.arena, p.region, p.region, geometry.Transition{}); err == nil {
		t.Error("binding to an event box should fail")
	}
}

func TestDestroyedRevealerReadsHidden(t *testing.T) {
	p := newPair(t)
	b, _ := Bind(p.arena, p.region, p.revealer, geometry.Transition{})
	b.Hover(true)
	p.arena.Destroy(p.region)

	if b.State() != Hidden {
		t.Error("destroyed revealer should read hidden")
	}
	if b.Hover(true) != Hidden {
		t.Error("hover after teardown should be a no-op")
	}
}
