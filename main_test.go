package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a TOML config logging into dir and returns its path.
func writeConfig(t *testing.T, dir, extra string) (cfgPath, logPath string) {
	t.Helper()
	logPath = filepath.Join(dir, "log", "pulse-bar.log")
	cfgPath = filepath.Join(dir, "config.toml")
	body := extra + "\n[logging]\nfile = \"" + logPath + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, logPath
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	good, goodLog := writeConfig(t, dir, "")
	invalid, invalidLog := writeConfig(t, t.TempDir(), "cell_pixels = 0")
	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("location = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		args   []string
		want   int
		log    string
		logHas string
	}{
		{"version", []string{"-version"}, 0, "", ""},
		{"unknown flag", []string{"-bogus"}, 2, "", ""},
		{"unreadable config", []string{"-config", broken}, 1, "", ""},
		{"invalid config", []string{"-config", invalid}, 1, invalidLog, ""},
		{"mock frame", []string{"-config", good, "-mock", "-once"}, 0, goodLog, "using demo readings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Fatalf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
			if tt.log == "" {
				return
			}
			data, err := os.ReadFile(tt.log)
			if err != nil {
				t.Fatalf("log file not written: %v", err)
			}
			if !strings.Contains(string(data), tt.logHas) {
				t.Errorf("log missing %q:\n%s", tt.logHas, data)
			}
		})
	}
}

func TestResolveThemeFallsBack(t *testing.T) {
	if th := resolveTheme("no-such-theme", slog.New(slog.NewTextHandler(io.Discard, nil))); th.Name != "default" {
		t.Errorf("theme = %q, want default", th.Name)
	}
}
