// Package theme maps the style classes of bar nodes to colours.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme is the colour palette of the bar. Colours are "#RRGGBB".
type Theme struct {
	Name string

	// Base colors
	Background string
	Foreground string
	Dim        string // disabled and empty states
	Accent     string // clock, current workspace, connected devices

	// Status colors
	OK       string
	Warn     string
	Critical string

	// Bar specifics
	GaugeEmpty string // unfilled part of sensor gauges and sliders
	Confirm    string // background of an armed power button
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Lookup returns a named theme and whether it exists.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a theme under its lowercase name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
