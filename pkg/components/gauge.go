// Package components draws the glyphs of the bar's leaf widgets: block
// gauges for sensors, paired gauges for network rates, slider tracks and
// fitted text. Everything here returns plain cell strings; colour is applied
// by the renderer so the same glyphs work on every terminal profile.
package components

import (
	"math"
	"strings"
)

// Horizontal block characters for sub-cell precision (8 levels per cell).
var hBlocks = [9]rune{
	' ',
	'\u258F', // ▏
	'\u258E', // ▎
	'\u258D', // ▍
	'\u258C', // ▌
	'\u258B', // ▋
	'\u258A', // ▊
	'\u2589', // ▉
	'\u2588', // █
}

// Vertical block characters, filling from the bottom of the cell.
var vBlocks = [9]rune{
	' ',
	'\u2581', // ▁
	'\u2582', // ▂
	'\u2583', // ▃
	'\u2584', // ▄
	'\u2585', // ▅
	'\u2586', // ▆
	'\u2587', // ▇
	'\u2588', // █
}

// Clamp limits ratio to [0, 1]. NaN reads as empty.
func Clamp(ratio float64) float64 {
	if math.IsNaN(ratio) || ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// Ratio maps v onto [0, 1] between lo and hi. An empty or inverted range
// reads as empty.
func Ratio(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return Clamp((v - lo) / (hi - lo))
}

// fillUnits splits ratio over cells*8 eighths into full cells and the
// eighths of the boundary cell.
func fillUnits(ratio float64, cells int) (full, partial int) {
	total := cells * 8
	units := int(math.Round(Clamp(ratio) * float64(total)))
	return units / 8, units % 8
}

// Gauge is a bar gauge split into the part drawn in the fill colour and the
// empty track behind it.
type Gauge struct {
	Fill string
	Rest string
}

// String joins the two parts.
func (g Gauge) String() string { return g.Fill + g.Rest }

// HGauge fills width cells left to right.
func HGauge(ratio float64, width int) Gauge {
	if width <= 0 {
		return Gauge{}
	}
	full, partial := fillUnits(ratio, width)
	var fill strings.Builder
	fill.WriteString(strings.Repeat(string(hBlocks[8]), full))
	empty := width - full
	if partial > 0 {
		fill.WriteRune(hBlocks[partial])
		empty--
	}
	return Gauge{Fill: fill.String(), Rest: strings.Repeat(" ", empty)}
}

// VGauge fills height rows bottom to top. Rows are returned top first, each
// one cell wide; filled reports which rows carry the fill colour.
func VGauge(ratio float64, height int) (rows []string, filled []bool) {
	if height <= 0 {
		return nil, nil
	}
	full, partial := fillUnits(ratio, height)
	rows = make([]string, height)
	filled = make([]bool, height)
	for i := 0; i < height; i++ {
		fromBottom := height - 1 - i
		switch {
		case fromBottom < full:
			rows[i], filled[i] = string(vBlocks[8]), true
		case fromBottom == full && partial > 0:
			rows[i], filled[i] = string(vBlocks[partial]), true
		default:
			rows[i] = " "
		}
	}
	return rows, filled
}

// Level is a single-cell gauge glyph, used when a sensor has no room for a
// full bar.
func Level(ratio float64) string {
	full, partial := fillUnits(ratio, 1)
	if full == 1 {
		return string(vBlocks[8])
	}
	return string(vBlocks[partial])
}

// NetGauge is the glyph pair of a network sensor: upload then download,
// each scaled to its own limits.
type NetGauge struct {
	Up, Down Gauge
}

// HNetGauge splits width between the upload and download gauges, giving
// the odd cell to download.
func HNetGauge(up, down float64, width int) NetGauge {
	upW := width / 2
	return NetGauge{Up: HGauge(up, upW), Down: HGauge(down, width-upW)}
}
