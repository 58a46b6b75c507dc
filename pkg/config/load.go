package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a config file.
type Format int

const (
	TOML Format = iota
	YAML
)

// DefaultCellPixels is the pixel width assumed for one terminal cell.
const DefaultCellPixels = 8

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/pulse-bar/config.toml (or config.yaml)
//  2. ~/.config/pulse-bar/config.toml (or config.yaml)
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. Files ending
// in .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// FormatForPath picks the decoder for a file name.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return TOML
}

// LoadFromReader decodes configuration in the given format on top of
// DefaultConfig and applies environment overrides.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Location:   "T",
		Monitor:    0,
		Size:       8,
		CenterTime: true,
		TimeSpace:  300,
		TimeFormat: "Mon Jan 02 15:04",

		AudioScrollSpeed: 5,

		NetworkWidget:    true,
		NetworkAdapter:   "eno1",
		MaxUploadBytes:   5 * 1024 * 1024,
		MaxDownloadBytes: 10 * 1024 * 1024,

		CheckUpdateInterval: Duration{5 * time.Minute},
		CellPixels:          DefaultCellPixels,
		Theme:               "default",

		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(xdgCacheHome(home), "pulse-bar", "pulse-bar.log"),
		},
		Commands: CommandsConfig{
			ExitWM:    []string{"hyprctl", "dispatch", "exit"},
			Lock:      []string{"loginctl", "lock-session"},
			Suspend:   []string{"systemctl", "suspend"},
			Reboot:    []string{"systemctl", "reboot"},
			Shutdown:  []string{"systemctl", "poweroff"},
			Bluetooth: []string{"blueman-manager"},
			Packages:  []string{"checkupdates"},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PULSEBAR_LOCATION"); v != "" {
		cfg.Location = v
	}
	if v := os.Getenv("PULSEBAR_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("PULSEBAR_NETWORK_ADAPTER"); v != "" {
		cfg.NetworkAdapter = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	dirs := []string{filepath.Join(xdgConfigHome(home), "pulse-bar")}

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultDir := filepath.Join(home, ".config", "pulse-bar")
	if dirs[0] != defaultDir {
		dirs = append(dirs, defaultDir)
	}

	var paths []string
	for _, d := range dirs {
		paths = append(paths,
			filepath.Join(d, "config.toml"),
			filepath.Join(d, "config.yaml"),
		)
	}
	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
