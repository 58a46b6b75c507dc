package widget

import (
	"errors"
	"math"
)

// ErrHandlerBound is returned when a hover handler is already attached to
// a region. Hover regions drive exactly one consumer.
var ErrHandlerBound = errors.New("widget: hover handler already bound")

// SetHoverFn attaches the pointer enter/leave handler of an event box.
func (a *Arena) SetHoverFn(h Handle, fn func(Handle, bool)) error {
	n := a.get(h)
	if n == nil {
		return ErrStaleHandle
	}
	if n.onHover != nil {
		return ErrHandlerBound
	}
	n.onHover = fn
	return nil
}

// SetClickFn attaches the click handler of a button.
func (a *Arena) SetClickFn(h Handle, fn func(Handle)) error {
	n := a.get(h)
	if n == nil {
		return ErrStaleHandle
	}
	n.onClick = fn
	return nil
}

// SetScrollFn attaches the scroll handler of an event box.
func (a *Arena) SetScrollFn(h Handle, fn func(Handle, ScrollDirection)) error {
	n := a.get(h)
	if n == nil {
		return ErrStaleHandle
	}
	n.onScroll = fn
	return nil
}

// SetValueChangeFn attaches the handler a slider calls when the user moves
// it.
func (a *Arena) SetValueChangeFn(h Handle, fn func(Handle, float64)) error {
	n := a.get(h)
	if n == nil {
		return ErrStaleHandle
	}
	n.onValue = fn
	return nil
}

// Hoverable reports whether h has a hover handler.
func (a *Arena) Hoverable(h Handle) bool {
	n := a.get(h)
	return n != nil && n.onHover != nil
}

// Clickable reports whether h has a click handler.
func (a *Arena) Clickable(h Handle) bool {
	n := a.get(h)
	return n != nil && n.onClick != nil
}

// Scrollable reports whether h reacts to scroll events, either through a
// scroll handler or because it is a slider.
func (a *Arena) Scrollable(h Handle) bool {
	n := a.get(h)
	return n != nil && (n.onScroll != nil || n.kind == KindSlider)
}

// Hover delivers a pointer enter (true) or leave (false) to h. It returns
// false when h is stale or has no hover handler.
func (a *Arena) Hover(h Handle, entered bool) bool {
	n := a.get(h)
	if n == nil || n.onHover == nil {
		return false
	}
	n.onHover(h, entered)
	return true
}

// Click delivers a primary click to h.
func (a *Arena) Click(h Handle) bool {
	n := a.get(h)
	if n == nil || n.onClick == nil {
		return false
	}
	n.onClick(h)
	return true
}

// Scroll delivers a scroll step to h. Sliders move by their scroll speed
// and report the new value through their value handler.
func (a *Arena) Scroll(h Handle, dir ScrollDirection) bool {
	n := a.get(h)
	if n == nil {
		return false
	}
	if n.kind == KindSlider {
		step := n.ScrollSpeed
		if step == 0 {
			step = n.Range.Step
		}
		if dir == ScrollDown {
			step = -step
		}
		return a.ChangeValue(h, n.Value+step)
	}
	if n.onScroll == nil {
		return false
	}
	n.onScroll(h, dir)
	return true
}

// ChangeValue sets a slider's value as if the user had dragged it. The
// value is clamped to the slider's range and snapped to its step before
// the value handler runs.
func (a *Arena) ChangeValue(h Handle, v float64) bool {
	n := a.get(h)
	if n == nil || n.kind != KindSlider {
		return false
	}
	r := n.Range
	if r.Step > 0 {
		v = r.Min + math.Round((v-r.Min)/r.Step)*r.Step
	}
	v = math.Max(r.Min, math.Min(r.Max, v))
	n.Value = v
	if n.onValue != nil {
		n.onValue(h, v)
	}
	return true
}

// SetRevealed opens or closes a revealer and stamps the start of its
// transition.
func (a *Arena) SetRevealed(h Handle, revealed bool) bool {
	n := a.get(h)
	if n == nil || n.kind != KindRevealer {
		return false
	}
	n.Revealed = revealed
	n.RevealedAt = a.now()
	return true
}
