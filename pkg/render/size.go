package render

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
	"golang.org/x/sys/unix"
)

// Size is a terminal's dimensions in cells, plus the cell size in pixels
// when the terminal reports it.
type Size struct {
	Cols  int
	Rows  int
	CellW int // 0 if unknown
	CellH int // 0 if unknown
}

// TerminalSize returns the size of the terminal on stdout, then stderr,
// then COLUMNS/LINES, falling back to 80x24.
func TerminalSize() Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if !term.IsTerminal(fd) {
			continue
		}
		if s := sizeFromIoctl(fd); s.Cols > 0 && s.Rows > 0 {
			return s
		}
	}
	return Size{Cols: envInt("COLUMNS", 80), Rows: envInt("LINES", 24)}
}

func sizeFromIoctl(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}
	s := Size{Cols: int(ws.Col), Rows: int(ws.Row)}
	if ws.Xpixel > 0 && s.Cols > 0 {
		s.CellW = int(ws.Xpixel) / s.Cols
	}
	if ws.Ypixel > 0 && s.Rows > 0 {
		s.CellH = int(ws.Ypixel) / s.Rows
	}
	return s
}

func envInt(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
