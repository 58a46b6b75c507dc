package theme

import "strings"

// ClassColor returns the foreground colour of a style class. Unknown
// classes use Foreground.
func (t Theme) ClassColor(class string) string {
	switch class {
	case "time-text", "bt-label-connected", "ws-current", "audio-volume", "mic-volume":
		return t.Accent
	case "package-outofdate", "ws-active", "sleep-button":
		return t.Warn
	case "package-error", "power-button", "reboot-button", "exit-button", "system-confirm":
		return t.Critical
	case "ws-visible":
		return t.OK
	case "package-empty", "bt-label-off", "ws-dead":
		return t.Dim
	}
	return t.Foreground
}

// ClassBackground returns the background colour a class paints, or "" when
// the class keeps the bar background.
func (t Theme) ClassBackground(class string) string {
	switch class {
	case "bar":
		return t.Background
	case "system-confirm":
		return t.Confirm
	}
	return ""
}

// GaugeColor returns the filled colour of a gauge at ratio. Thresholds:
// >=0.9 critical, >=0.7 warning, else normal.
func (t Theme) GaugeColor(ratio float64) string {
	switch {
	case ratio >= 0.9:
		return t.Critical
	case ratio >= 0.7:
		return t.Warn
	default:
		return t.OK
	}
}

// IsGauge reports whether class names a sensor gauge ("<name>-util-progress").
func IsGauge(class string) bool {
	return strings.HasSuffix(class, "-util-progress")
}
