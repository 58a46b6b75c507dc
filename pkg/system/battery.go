package system

import (
	"path/filepath"
	"sort"
)

// batteryPercentage reads the capacity of the first battery under the
// power_supply class of root, as a fraction. It returns -1 when there is no
// battery.
func batteryPercentage(root string) float64 {
	caps, _ := filepath.Glob(filepath.Join(root, "class", "power_supply", "BAT*", "capacity"))
	if len(caps) == 0 {
		return -1
	}
	sort.Strings(caps)
	pct, err := readNumber(caps[0])
	if err != nil {
		return -1
	}
	return pct / 100
}
