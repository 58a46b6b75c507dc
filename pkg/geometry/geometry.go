// Package geometry maps the configured bar location onto every
// orientation-dependent layout decision: the dominant axis, text rotation,
// reveal transition direction, window anchor, and which axis a widget's
// primary transform applies to.
//
// An Adapter is a pure function of the location it was built with. An
// unrecognized location never aborts composition; each decision logs the
// bad value and falls back to a horizontal bar anchored at the top.
package geometry

import (
	"log/slog"
	"time"
)

// Location is the screen edge the bar is attached to.
type Location rune

const (
	Top    Location = 'T'
	Bottom Location = 'B'
	Left   Location = 'L'
	Right  Location = 'R'
)

// Valid reports whether l is one of the four known edges.
func (l Location) Valid() bool {
	switch l {
	case Top, Bottom, Left, Right:
		return true
	}
	return false
}

// String returns the single-character form used in config files.
func (l Location) String() string {
	return string(rune(l))
}

// ParseLocation converts a config string into a Location. Only the first
// character is significant, matching the one-letter config convention.
// Unknown values are returned as-is so the adapter can log them.
func ParseLocation(s string) Location {
	if s == "" {
		return Location(0)
	}
	return Location([]rune(s)[0])
}

// Orientation is the dominant layout axis of a container.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// TransitionType is the direction of a reveal slide.
type TransitionType int

const (
	SlideLeft TransitionType = iota
	SlideUp
)

func (t TransitionType) String() string {
	if t == SlideUp {
		return "slide-up"
	}
	return "slide-left"
}

// Transition describes a reveal animation. The interpolation itself belongs
// to the render backend.
type Transition struct {
	Type     TransitionType
	Duration time.Duration
}

// RevealDuration is the slide length used by every revealer on the bar.
const RevealDuration = 500 * time.Millisecond

// Anchor is a bit mask of the window edges the bar attaches to.
type Anchor uint8

const (
	AnchorTop Anchor = 1 << iota
	AnchorBottom
	AnchorLeft
	AnchorRight
)

// Has reports whether every edge in edge is set in a.
func (a Anchor) Has(edge Anchor) bool {
	return a&edge == edge
}

func (a Anchor) String() string {
	if a == 0 {
		return "none"
	}
	var out []byte
	for _, e := range []struct {
		bit  Anchor
		name string
	}{{AnchorTop, "top"}, {AnchorBottom, "bottom"}, {AnchorLeft, "left"}, {AnchorRight, "right"}} {
		if a.Has(e.bit) {
			if len(out) > 0 {
				out = append(out, '|')
			}
			out = append(out, e.name...)
		}
	}
	return string(out)
}

// Alignment positions a widget inside the space its parent gives it.
type Alignment int

const (
	AlignFill Alignment = iota
	AlignCenter
	AlignLeft
	AlignRight
)

// Transform is the per-axis size request of a widget. A Size of -1 means
// "natural size"; Expand lets the widget grow into surplus space.
type Transform struct {
	Size         int
	Expand       bool
	Align        Alignment
	MarginBefore int
	MarginAfter  int
}

// Natural is the transform of a widget that takes its natural size and
// does not expand.
var Natural = Transform{Size: -1}

// Adapter answers orientation questions for one bar location.
type Adapter struct {
	loc    Location
	logger *slog.Logger
}

// New returns an Adapter for loc. A nil logger uses slog.Default().
func New(loc Location, logger *slog.Logger) Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return Adapter{loc: loc, logger: logger}
}

// Location returns the location the adapter was built with.
func (a Adapter) Location() Location {
	return a.loc
}

// vertical reports whether the bar runs top-to-bottom. It logs once for an
// invalid location; callers must call it exactly once per decision.
func (a Adapter) vertical(decision string) bool {
	switch a.loc {
	case Top, Bottom:
		return false
	case Left, Right:
		return true
	}
	a.logger.Warn("invalid bar location, using top default",
		"location", string(rune(a.loc)), "decision", decision)
	return false
}

// Orientation returns Horizontal for top/bottom bars and Vertical for
// left/right bars.
func (a Adapter) Orientation() Orientation {
	if a.vertical("orientation") {
		return Vertical
	}
	return Horizontal
}

// Angle returns the text rotation in degrees. Side bars use 270 rather
// than 90 because the renderer clips glyphs rotated by 90.
func (a Adapter) Angle() float64 {
	if a.vertical("angle") {
		return 270
	}
	return 0
}

// SensorAngle returns the start angle of a sensor arc.
func (a Adapter) SensorAngle() float64 {
	if a.vertical("sensor-angle") {
		return 0
	}
	return -90
}

// Transition returns the reveal transition for this bar.
func (a Adapter) Transition() Transition {
	t := SlideLeft
	if a.vertical("transition") {
		t = SlideUp
	}
	return Transition{Type: t, Duration: RevealDuration}
}

// Anchor returns the edges the bar window attaches to.
func (a Adapter) Anchor() Anchor {
	switch a.loc {
	case Top:
		return AnchorTop | AnchorLeft | AnchorRight
	case Bottom:
		return AnchorBottom | AnchorLeft | AnchorRight
	case Left:
		return AnchorLeft | AnchorTop | AnchorBottom
	case Right:
		return AnchorRight | AnchorTop | AnchorBottom
	}
	a.logger.Warn("invalid bar location, using top default",
		"location", string(rune(a.loc)), "decision", "anchor")
	return AnchorTop | AnchorLeft | AnchorRight
}

// Transforms maps a primary and secondary transform onto the horizontal
// and vertical axes. On a horizontal bar the primary transform runs along
// the bar's length, on a vertical bar along its height.
func (a Adapter) Transforms(primary, secondary Transform) (horizontal, vertical Transform) {
	if a.vertical("transform") {
		return secondary, primary
	}
	return primary, secondary
}

// AxisLength picks the window dimension that runs along the bar.
func (a Adapter) AxisLength(width, height int) int {
	if a.vertical("axis-length") {
		return height
	}
	return width
}
