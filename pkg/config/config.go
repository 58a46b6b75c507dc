// Package config provides the static configuration of a pulse-bar instance.
// The snapshot is loaded once at startup and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/geometry"
)

// ErrInvalidLocation is reported for a location outside T, B, L and R.
var ErrInvalidLocation = errors.New("invalid bar location")

// Config is the root configuration.
type Config struct {
	// Location is the screen edge the bar is anchored to: T, B, L or R.
	Location string `toml:"location" yaml:"location"`
	Monitor  int    `toml:"monitor" yaml:"monitor"`

	// Size is the bar's cross-axis thickness in pixels.
	Size int `toml:"size" yaml:"size"`

	// CenterTime keeps the clock centered on the main axis. TimeSpace is
	// the pixel length reserved for it.
	CenterTime bool   `toml:"center_time" yaml:"center_time"`
	TimeSpace  int    `toml:"time_space" yaml:"time_space"`
	TimeFormat string `toml:"time_format" yaml:"time_format"`

	AudioInput       bool `toml:"audio_input" yaml:"audio_input"`
	AudioRevealer    bool `toml:"audio_revealer" yaml:"audio_revealer"`
	AudioScrollSpeed int  `toml:"audio_scroll_speed" yaml:"audio_scroll_speed"`

	NetworkWidget    bool   `toml:"network_widget" yaml:"network_widget"`
	NetworkAdapter   string `toml:"network_adapter" yaml:"network_adapter"`
	MinUploadBytes   int64  `toml:"min_upload_bytes" yaml:"min_upload_bytes"`
	MaxUploadBytes   int64  `toml:"max_upload_bytes" yaml:"max_upload_bytes"`
	MinDownloadBytes int64  `toml:"min_download_bytes" yaml:"min_download_bytes"`
	MaxDownloadBytes int64  `toml:"max_download_bytes" yaml:"max_download_bytes"`

	CheckUpdateInterval   Duration `toml:"check_update_interval" yaml:"check_update_interval"`
	WorkspaceScrollInvert bool     `toml:"workspace_scroll_invert" yaml:"workspace_scroll_invert"`

	// CellPixels is how many pixels one terminal cell stands for when
	// pixel sizes are laid out on a character grid.
	CellPixels int `toml:"cell_pixels" yaml:"cell_pixels"`

	Theme    string         `toml:"theme" yaml:"theme"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Commands CommandsConfig `toml:"commands" yaml:"commands"`
}

// LoggingConfig controls the log file. The terminal belongs to the bar, so
// logs never go to stdout.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// CommandsConfig holds the argv of every external command the bar runs.
// An empty command disables the action.
type CommandsConfig struct {
	ExitWM    []string `toml:"exit_wm" yaml:"exit_wm"`
	Lock      []string `toml:"lock" yaml:"lock"`
	Suspend   []string `toml:"suspend" yaml:"suspend"`
	Reboot    []string `toml:"reboot" yaml:"reboot"`
	Shutdown  []string `toml:"shutdown" yaml:"shutdown"`
	Bluetooth []string `toml:"bluetooth" yaml:"bluetooth"`

	// Packages prints one line per outdated package.
	Packages []string `toml:"packages" yaml:"packages"`
}

// Runtime records the capabilities detected on the running host. It is
// resolved once at startup and decides which widgets are composed.
type Runtime struct {
	HasNvidia     bool
	HasAMD        bool
	HasBluetooth  bool
	HasNetwork    bool
	HasWorkspaces bool
}

// BarLocation parses Location. An invalid value is returned as is, together
// with ErrInvalidLocation; the geometry adapter maps it to the top default.
func (c *Config) BarLocation() (geometry.Location, error) {
	loc := geometry.ParseLocation(c.Location)
	if !loc.Valid() || len([]rune(c.Location)) != 1 {
		return loc, fmt.Errorf("%w %q (want T, B, L or R)", ErrInvalidLocation, c.Location)
	}
	return loc, nil
}

// CrossCells converts Size to terminal cells, never less than one.
func (c *Config) CrossCells() int {
	return max(1, c.Cells(c.Size))
}

// Cells converts a pixel length to whole terminal cells with the
// configured cell size.
func (c *Config) Cells(px int) int {
	return PixelsToCells(px, c.CellPixels)
}

// PixelsToCells converts a pixel length to whole cells of cellPx pixels,
// rounding up. A non-positive cellPx means DefaultCellPixels. Non-positive
// lengths mean "unset" and come back as -1.
func PixelsToCells(px, cellPx int) int {
	if px <= 0 {
		return -1
	}
	if cellPx <= 0 {
		cellPx = DefaultCellPixels
	}
	return (px + cellPx - 1) / cellPx
}

// UpdateInterval returns the package check interval.
func (c *Config) UpdateInterval() time.Duration {
	return c.CheckUpdateInterval.Duration
}
