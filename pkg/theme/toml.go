package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name   string       `toml:"name"`
	Base   thTOMLBase   `toml:"base"`
	Status thTOMLStatus `toml:"status"`
	Bar    thTOMLBar    `toml:"bar"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLStatus struct {
	OK       string `toml:"ok"`
	Warn     string `toml:"warn"`
	Critical string `toml:"critical"`
}

type thTOMLBar struct {
	GaugeEmpty string `toml:"gauge_empty"`
	Confirm    string `toml:"confirm"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,
		OK:         tt.Status.OK,
		Warn:       tt.Status.Warn,
		Critical:   tt.Status.Critical,
		GaugeEmpty: tt.Bar.GaugeEmpty,
		Confirm:    tt.Bar.Confirm,
	}
	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a TOML theme file and registers it.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %w", err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	Register(t)
	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Base: thTOMLBase{
			Background: t.Background,
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
		},
		Status: thTOMLStatus{OK: t.OK, Warn: t.Warn, Critical: t.Critical},
		Bar:    thTOMLBar{GaugeEmpty: t.GaugeEmpty, Confirm: t.Confirm},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thValidateTheme checks that the name is set and every colour is valid hex.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	colors := []struct{ field, value string }{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"dim", t.Dim},
		{"accent", t.Accent},
		{"ok", t.OK},
		{"warn", t.Warn},
		{"critical", t.Critical},
		{"gauge_empty", t.GaugeEmpty},
		{"confirm", t.Confirm},
	}
	for _, c := range colors {
		if c.value == "" {
			return fmt.Errorf("theme: missing required field %q", c.field)
		}
		if !thHexColorRegex.MatchString(c.value) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", c.value, c.field)
		}
	}
	return nil
}
