package components

import "strings"

const (
	sliderKnob      = "\u25CF" // ●
	sliderTrackDone = "\u2501" // ━
	sliderTrackTodo = "\u2500" // ─
	sliderVDone     = "\u2503" // ┃
	sliderVTodo     = "\u2502" // │
)

// SliderTrack is a slider drawn as the travelled track, the knob and the
// remaining track.
type SliderTrack struct {
	Done, Knob, Todo string
}

func (s SliderTrack) String() string { return s.Done + s.Knob + s.Todo }

// knobIndex places the knob of a length-cell slider. The first and last
// cells are reserved for exactly 0 and 1.
func knobIndex(ratio float64, length int) int {
	if length <= 1 {
		return 0
	}
	return int(Clamp(ratio)*float64(length-1) + 0.5)
}

// HSlider draws a horizontal slider, minimum on the left.
func HSlider(ratio float64, length int) SliderTrack {
	if length <= 0 {
		return SliderTrack{}
	}
	k := knobIndex(ratio, length)
	return SliderTrack{
		Done: strings.Repeat(sliderTrackDone, k),
		Knob: sliderKnob,
		Todo: strings.Repeat(sliderTrackTodo, length-1-k),
	}
}

// VSlider draws a vertical slider as rows, top first. An inverted slider
// has its minimum at the bottom, which is how the bar's volume sliders
// read.
func VSlider(ratio float64, length int, inverted bool) []string {
	if length <= 0 {
		return nil
	}
	k := knobIndex(ratio, length)
	rows := make([]string, length)
	for i := range rows {
		pos := i
		if inverted {
			pos = length - 1 - i
		}
		switch {
		case pos == k:
			rows[i] = sliderKnob
		case pos < k:
			rows[i] = sliderVDone
		default:
			rows[i] = sliderVTodo
		}
	}
	return rows
}
