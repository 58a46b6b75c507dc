package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks numeric ranges and rejects configurations the bar cannot
// lay out. An invalid location is not an error: it is logged and the bar
// falls back to the top edge.
func (c *Config) Validate(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := c.BarLocation(); err != nil {
		logger.Warn("config: using top bar", "error", err)
	}

	var errs []error
	if c.Monitor < 0 {
		errs = append(errs, fmt.Errorf("monitor must be >= 0, got %d", c.Monitor))
	}
	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size must be > 0, got %d", c.Size))
	}
	if c.TimeSpace < 0 {
		errs = append(errs, fmt.Errorf("time_space must be >= 0, got %d", c.TimeSpace))
	}
	if c.AudioScrollSpeed <= 0 || c.AudioScrollSpeed > 100 {
		errs = append(errs, fmt.Errorf("audio_scroll_speed must be in 1..100, got %d", c.AudioScrollSpeed))
	}
	if c.MinUploadBytes < 0 || c.MaxUploadBytes <= c.MinUploadBytes {
		errs = append(errs, fmt.Errorf("upload limits must satisfy 0 <= min < max, got %d..%d", c.MinUploadBytes, c.MaxUploadBytes))
	}
	if c.MinDownloadBytes < 0 || c.MaxDownloadBytes <= c.MinDownloadBytes {
		errs = append(errs, fmt.Errorf("download limits must satisfy 0 <= min < max, got %d..%d", c.MinDownloadBytes, c.MaxDownloadBytes))
	}
	if c.CheckUpdateInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("check_update_interval must be positive"))
	}
	if c.CellPixels <= 0 {
		errs = append(errs, fmt.Errorf("cell_pixels must be > 0, got %d", c.CellPixels))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// LogLevel maps Logging.Level to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
