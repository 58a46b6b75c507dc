package merge

import (
	"fmt"
	"sync"
	"testing"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/widget"
)

func TestDrainRunsInPostOrder(t *testing.T) {
	in := NewInbox()
	var got []int
	for i := 0; i < 5; i++ {
		in.Post(func() { got = append(got, i) })
	}
	if in.Pending() != 5 {
		t.Fatalf("Pending = %d, want 5", in.Pending())
	}
	if n := in.Drain(); n != 5 {
		t.Errorf("Drain ran %d, want 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
	if in.Drain() != 0 {
		t.Error("second Drain should find nothing")
	}
}

func TestReadySignalsAfterPost(t *testing.T) {
	in := NewInbox()
	select {
	case <-in.Ready():
		t.Fatal("ready before any post")
	default:
	}
	in.Post(func() {})
	in.Post(func() {})
	select {
	case <-in.Ready():
	default:
		t.Fatal("not ready after post")
	}
}

func TestPostDuringDrainWaits(t *testing.T) {
	in := NewInbox()
	inner := false
	in.Post(func() { in.Post(func() { inner = true }) })
	in.Drain()
	if inner {
		t.Fatal("closure posted during Drain ran in the same pass")
	}
	in.Drain()
	if !inner {
		t.Error("closure posted during Drain never ran")
	}
}

// Simulates N background completions racing to write the same text
// element. The final state must equal one complete payload and every
// completion must be applied exactly once.
func TestConcurrentCompletions(t *testing.T) {
	const n = 64
	arena := widget.NewArena()
	root := arena.NewRoot(widget.KindBox)
	text, _ := arena.Add(root, widget.KindText)
	el := NewElement(arena, text)
	in := NewInbox()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(count int) {
			defer wg.Done()
			in.Post(func() {
				el.Apply(func(node *widget.Node) {
					node.Visible = count > 0
					node.Tooltip = fmt.Sprintf("Updates available! (%d packages)", count)
					node.SetClass("package-outofdate")
				})
			})
		}(i + 1)
	}
	wg.Wait()

	applied := in.Drain()
	if applied != n {
		t.Fatalf("applied %d completions, want %d", applied, n)
	}

	node, _ := arena.Lookup(text)
	var count int
	if _, err := fmt.Sscanf(node.Tooltip, "Updates available! (%d packages)", &count); err != nil {
		t.Fatalf("tooltip %q is not a complete payload: %v", node.Tooltip, err)
	}
	if count < 1 || count > n || !node.Visible || !node.HasClass("package-outofdate") {
		t.Errorf("inconsistent final state: %+v", node)
	}
}

func TestLateCompletionAfterDestroyIsDropped(t *testing.T) {
	arena := widget.NewArena()
	root := arena.NewRoot(widget.KindBox)
	text, _ := arena.Add(root, widget.KindText)
	el := NewElement(arena, text)
	in := NewInbox()

	ran := false
	in.Post(func() {
		el.Apply(func(*widget.Node) { ran = true })
	})
	arena.Destroy(root)
	in.Drain()

	if ran {
		t.Error("completion wrote to a destroyed element")
	}
}
