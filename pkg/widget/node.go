package widget

import (
	"fmt"
	"slices"
	"time"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
)

// Kind identifies the type of a node. Only container kinds hold children.
type Kind int

const (
	KindBox Kind = iota
	KindText
	KindButton
	KindSensor
	KindNetworkSensor
	KindSlider
	KindRevealer
	KindEventBox
)

var kindNames = [...]string{
	KindBox:           "box",
	KindText:          "text",
	KindButton:        "button",
	KindSensor:        "sensor",
	KindNetworkSensor: "network-sensor",
	KindSlider:        "slider",
	KindRevealer:      "revealer",
	KindEventBox:      "event-box",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Container reports whether nodes of this kind may own children.
func (k Kind) Container() bool {
	switch k {
	case KindBox, KindRevealer, KindEventBox:
		return true
	}
	return false
}

// singleChild reports whether the kind wraps exactly one child.
func (k Kind) singleChild() bool {
	return k == KindRevealer || k == KindEventBox
}

// Spacing is the gap between children of a box. Homogeneous boxes give
// every child the same share of the axis.
type Spacing struct {
	Size        int
	Homogeneous bool
}

// Range is the value range and step of a slider.
type Range struct {
	Min, Max, Step float64
}

// Limits bound the rate a network sensor maps onto its full scale.
type Limits struct {
	Min, Max float64
}

// ScrollDirection is the direction of a scroll event.
type ScrollDirection int

const (
	ScrollUp ScrollDirection = iota
	ScrollDown
)

// Node is one display element. The structural fields (kind, parent,
// children, handlers) are managed by the Arena; the exported fields are the
// visual state that composition and timer callbacks mutate.
type Node struct {
	kind     Kind
	parent   Handle
	children []Handle
	classes  []string

	onClick  func(Handle)
	onHover  func(Handle, bool)
	onScroll func(Handle, ScrollDirection)
	onValue  func(Handle, float64)

	Visible bool
	Text    string
	Tooltip string

	// Value is the scalar payload of sensors and sliders, in [0,1] for
	// sensors and within Range for sliders.
	Value float64

	// Up and Down are the byte rates of a network sensor.
	Up, Down         float64
	LimitUp, LimitDn Limits

	Angle       float64
	SensorAngle float64

	Horizontal  geometry.Transform
	Vertical    geometry.Transform
	Orientation geometry.Orientation
	Spacing     Spacing

	Transition  geometry.Transition
	Revealed    bool
	RevealedAt  time.Time
	Range       Range
	Inverted    bool
	ScrollSpeed float64
}

func newNode(kind Kind, parent Handle) *Node {
	return &Node{
		kind:       kind,
		parent:     parent,
		Visible:    true,
		Horizontal: geometry.Natural,
		Vertical:   geometry.Natural,
		Range:      Range{Min: 0, Max: 1, Step: 0.01},
	}
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the owning parent, or the zero Handle for a root.
func (n *Node) Parent() Handle { return n.parent }

// Children returns a copy of the ordered child handles.
func (n *Node) Children() []Handle { return slices.Clone(n.children) }

// Classes returns a copy of the node's style classes.
func (n *Node) Classes() []string { return slices.Clone(n.classes) }

// SetClass replaces all classes with a single class.
func (n *Node) SetClass(class string) {
	n.classes = append(n.classes[:0], class)
}

// AddClass adds class if it is not already present.
func (n *Node) AddClass(class string) {
	if !slices.Contains(n.classes, class) {
		n.classes = append(n.classes, class)
	}
}

// RemoveClass removes class if present.
func (n *Node) RemoveClass(class string) {
	n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == class })
}

// HasClass reports whether class is set on the node.
func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.classes, class)
}

// SetTransform assigns the per-axis transforms produced by the geometry
// adapter.
func (n *Node) SetTransform(horizontal, vertical geometry.Transform) {
	n.Horizontal = horizontal
	n.Vertical = vertical
}

// clone returns a copy safe to hand out of the arena.
func (n *Node) clone() Node {
	c := *n
	c.children = slices.Clone(n.children)
	c.classes = slices.Clone(n.classes)
	return c
}
