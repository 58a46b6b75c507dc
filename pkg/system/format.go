package system

import "fmt"

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// FormatBytes renders a byte count with the largest binary unit that keeps
// the value at or above one, e.g. "1.5MiB".
func FormatBytes(b float64) string {
	i := 0
	for b >= 1024 && i < len(byteUnits)-1 {
		b /= 1024
		i++
	}
	return fmt.Sprintf("%0.1f%s", b, byteUnits[i])
}

const gib = 1024 * 1024 * 1024

func toGiB(b uint64) float64 {
	return float64(b) / gib
}
