package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"
)

var thTestHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// --- Get / Names ---

func TestGetDefault(t *testing.T) {
	th := Get("default")
	if th.Name != "default" {
		t.Errorf("Get(\"default\").Name = %q, want %q", th.Name, "default")
	}
	if th.Accent != "#7C3AED" {
		t.Errorf("Get(\"default\").Accent = %q, want %q", th.Accent, "#7C3AED")
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	th := Get("GruvBox")
	if th.Name != "gruvbox" || th.Background != "#282828" {
		t.Errorf("Get(\"GruvBox\") = %+v", th)
	}
}

func TestGetUnknownFallsBackToDefault(t *testing.T) {
	th := Get("unknown-theme-xyz")
	if th.Name != "default" {
		t.Errorf("Get(\"unknown\") = %q, want default", th.Name)
	}
	if _, ok := Lookup("unknown-theme-xyz"); ok {
		t.Error("Lookup should report a missing theme")
	}
}

func TestBuiltinNames(t *testing.T) {
	expected := []string{"catppuccin", "default", "dracula", "gruvbox", "nord", "tokyo-night"}
	names := Names()
	for _, name := range expected {
		i := sort.SearchStrings(names, name)
		if i >= len(names) || names[i] != name {
			t.Errorf("builtin %q missing from %v", name, names)
		}
	}
}

func TestAllBuiltinsValidate(t *testing.T) {
	for _, name := range []string{"catppuccin", "default", "dracula", "gruvbox", "nord", "tokyo-night"} {
		if err := thValidateTheme(Get(name)); err != nil {
			t.Errorf("theme %q: %v", name, err)
		}
	}
}

// --- class mapping ---

func TestClassColor(t *testing.T) {
	th := Get("default")
	tests := []struct {
		class string
		want  string
	}{
		{"time-text", th.Accent},
		{"ws-current", th.Accent},
		{"ws-active", th.Warn},
		{"ws-visible", th.OK},
		{"ws-dead", th.Dim},
		{"package-outofdate", th.Warn},
		{"package-error", th.Critical},
		{"package-empty", th.Dim},
		{"bt-label-off", th.Dim},
		{"bt-label-connected", th.Accent},
		{"cpu-data-text", th.Foreground},
		{"no-such-class", th.Foreground},
	}
	for _, tt := range tests {
		if got := th.ClassColor(tt.class); got != tt.want {
			t.Errorf("ClassColor(%q) = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestClassBackground(t *testing.T) {
	th := Get("nord")
	if th.ClassBackground("bar") != th.Background {
		t.Error("bar should paint the theme background")
	}
	if th.ClassBackground("system-confirm") != th.Confirm {
		t.Error("armed buttons should paint the confirm colour")
	}
	if th.ClassBackground("cpu-data-text") != "" {
		t.Error("plain classes should not paint a background")
	}
}

func TestGaugeColor(t *testing.T) {
	th := Get("default")
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, th.OK},
		{0.69, th.OK},
		{0.7, th.Warn},
		{0.89, th.Warn},
		{0.9, th.Critical},
		{1, th.Critical},
	}
	for _, tt := range tests {
		if got := th.GaugeColor(tt.ratio); got != tt.want {
			t.Errorf("GaugeColor(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
	if !IsGauge("cpu-util-progress") || IsGauge("cpu-data-text") {
		t.Error("IsGauge misclassifies")
	}
}

// --- TOML ---

const validTOML = `
name = "custom"

[base]
background = "#111111"
foreground = "#eeeeee"
dim = "#666666"
accent = "#ff0000"

[status]
ok = "#00ff00"
warn = "#ffff00"
critical = "#ff0000"

[bar]
gauge_empty = "#333333"
confirm = "#440000"
`

func TestLoadFromTOMLValid(t *testing.T) {
	th, err := LoadFromTOML([]byte(validTOML))
	if err != nil {
		t.Fatalf("LoadFromTOML() error: %v", err)
	}
	if th.Name != "custom" || th.Background != "#111111" || th.OK != "#00ff00" || th.Confirm != "#440000" {
		t.Errorf("decoded theme = %+v", th)
	}
}

func TestLoadFromTOMLMissingFieldsError(t *testing.T) {
	data := strings.Replace(validTOML, `confirm = "#440000"`, "", 1)
	if _, err := LoadFromTOML([]byte(data)); err == nil || !strings.Contains(err.Error(), "confirm") {
		t.Errorf("expected missing confirm error, got %v", err)
	}
}

func TestLoadFromTOMLInvalidHexColor(t *testing.T) {
	data := strings.Replace(validTOML, `"#ff0000"`, `"red"`, 1)
	if _, err := LoadFromTOML([]byte(data)); err == nil || !strings.Contains(err.Error(), "invalid hex") {
		t.Errorf("expected invalid hex error, got %v", err)
	}
}

func TestSaveToTOMLRoundtrip(t *testing.T) {
	orig := Get("dracula")
	data, err := SaveToTOML(orig)
	if err != nil {
		t.Fatal(err)
	}
	back, err := LoadFromTOML(data)
	if err != nil {
		t.Fatal(err)
	}
	if back != orig {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", back, orig)
	}
}

func TestLoadFileRegisters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.toml")
	data := strings.Replace(validTOML, `name = "custom"`, `name = "Mine"`, 1)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err != nil {
		t.Fatal(err)
	}
	th, ok := Lookup("mine")
	if !ok || !thTestHexPattern.MatchString(th.Accent) {
		t.Errorf("loaded theme not registered: %+v", th)
	}
}
