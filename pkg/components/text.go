package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// VisibleLen returns the width of s in terminal cells. ANSI escape
// sequences are ignored and wide characters count as two cells.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most width cells, ending in an ellipsis when
// anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, Ellipsis)
}

// Fit truncates or pads s to exactly width cells. Fill and left alignment
// pad on the right; an odd centre padding puts the extra space on the
// right.
func Fit(s string, width int, align geometry.Alignment) string {
	if width <= 0 {
		return ""
	}
	s = Truncate(s, width)
	gap := width - VisibleLen(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case geometry.AlignRight:
		return strings.Repeat(" ", gap) + s
	case geometry.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
	return s + strings.Repeat(" ", gap)
}

// Stack lays s out one grapheme per row, the terminal rendering of text
// rotated onto a vertical bar. Escape sequences are dropped.
func Stack(s string) []string {
	var rows []string
	g := uniseg.NewGraphemes(ansi.Strip(s))
	for g.Next() {
		c := g.Str()
		if strings.TrimSpace(c) == "" && c != " " {
			continue
		}
		rows = append(rows, c)
	}
	return rows
}
