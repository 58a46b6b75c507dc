package components

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHGaugeFill(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		width int
		fill  string
		rest  int
	}{
		{"empty", 0, 4, "", 4},
		{"full", 1, 4, "████", 0},
		{"half", 0.5, 4, "██", 2},
		{"one eighth", 1.0 / 32, 4, "▏", 3},
		{"three eighths of a cell", 0.25 + 3.0/32, 4, "█▍", 2},
		{"over range clamps", 1.7, 3, "███", 0},
		{"negative clamps", -0.3, 3, "", 3},
		{"NaN reads empty", math.NaN(), 2, "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := HGauge(tt.ratio, tt.width)
			if g.Fill != tt.fill {
				t.Errorf("fill = %q, want %q", g.Fill, tt.fill)
			}
			if len(g.Rest) != tt.rest {
				t.Errorf("rest = %q, want %d spaces", g.Rest, tt.rest)
			}
			if w := utf8.RuneCountInString(g.String()); w != tt.width {
				t.Errorf("gauge is %d cells, want %d", w, tt.width)
			}
		})
	}
}

func TestHGaugeZeroWidth(t *testing.T) {
	if g := HGauge(0.5, 0); g.String() != "" {
		t.Errorf("zero width gauge = %q", g.String())
	}
}

func TestVGaugeFillsFromBottom(t *testing.T) {
	rows, filled := VGauge(0.5, 4)
	want := []string{" ", " ", "█", "█"}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
	if filled[0] || filled[1] || !filled[2] || !filled[3] {
		t.Errorf("filled = %v", filled)
	}

	rows, _ = VGauge(0.5/4+0.25, 4)
	if rows[2] != "▄" {
		t.Errorf("partial row = %q, want lower half block", rows[2])
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, " "},
		{0.5, "▄"},
		{1, "█"},
		{0.99, "█"},
	}
	for _, tt := range tests {
		if got := Level(tt.ratio); got != tt.want {
			t.Errorf("Level(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 0.5},
		{-1, 0, 10, 0},
		{20, 0, 10, 1},
		{3, 3, 3, 0},
		{3, 5, 1, 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Ratio(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestHNetGaugeSplitsWidth(t *testing.T) {
	g := HNetGauge(1, 0, 5)
	if g.Up.Fill != "██" || g.Up.Rest != "" {
		t.Errorf("up = %+v", g.Up)
	}
	if g.Down.Fill != "" || g.Down.Rest != strings.Repeat(" ", 3) {
		t.Errorf("down = %+v", g.Down)
	}
}
