// pulse-bar is a status bar for the terminal.
//
// It draws a one-edge bar with workspaces, a centered clock, resource
// sensors, audio sliders, bluetooth and package indicators and a confirmed
// power menu, and reacts to the mouse.
//
// Usage:
//
//	pulse-bar [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/pulse-bar/config.toml)
//	-theme string     Theme name or TOML theme file, overriding the config
//	-mock             Use drifting demo readings instead of the host
//	-once             Print a single frame and exit
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/app"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/config"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/render"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/system"
	"gitlab.com/tinyland/lab/pulse-bar/pkg/theme"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run does the work of main and returns the exit code, so deferred cleanup
// runs before the process exits.
func run(args []string) int {
	fs := flag.NewFlagSet("pulse-bar", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "Path to configuration file")
		themeName   = fs.String("theme", "", "Theme name or TOML theme file (overrides config)")
		useMock     = fs.Bool("mock", false, "Use demo readings instead of the host")
		once        = fs.Bool("once", false, "Print a single frame and exit")
		verbose     = fs.Bool("verbose", false, "Enable verbose logging")
		showVersion = fs.Bool("version", false, "Print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Printf("pulse-bar %s (%s) built %s\n", version, commit, date)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	// The terminal belongs to the bar, so logs only go to the file.
	if err := ensureLogDir(cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		return 1
	}
	logFile, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer logFile.Close()

	logLevel := cfg.LogLevel()
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(logger); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	if *themeName != "" {
		cfg.Theme = *themeName
	}
	th := resolveTheme(cfg.Theme, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		sys system.System
		rt  config.Runtime
	)
	if *useMock {
		sys = system.NewDemoMock()
		rt = config.Runtime{HasBluetooth: true, HasNetwork: true, HasWorkspaces: true}
		logger.Info("using demo readings")
	} else {
		host := system.NewHost(system.HostOptions{Config: cfg, Logger: logger})
		rt = host.DetectRuntime(ctx)
		host.Start(ctx)
		defer host.Stop()
		sys = host
	}

	opts := app.Options{
		Config:  cfg,
		Runtime: rt,
		System:  sys,
		Theme:   th,
		Logger:  logger,
		Output:  os.Stdout,
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if *once || !interactive {
		size := render.TerminalSize()
		frame, err := app.Snapshot(opts, size.Cols, cfg.CrossCells())
		if err != nil {
			logger.Error("snapshot failed", "error", err)
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		fmt.Println(frame)
		return 0
	}

	model, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus(), tea.WithContext(ctx))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		p.Quit()
	}()

	logger.Info("starting pulse-bar", "version", version, "location", cfg.Location, "theme", th.Name)
	if _, err := p.Run(); err != nil && err != tea.ErrProgramKilled {
		logger.Error("TUI error", "error", err)
		return 1
	}
	return 0
}

// loadConfig reads path, or searches the default locations when path is
// empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// resolveTheme accepts a registered theme name or the path of a TOML theme
// file. Anything else falls back to the default theme.
func resolveTheme(name string, logger *slog.Logger) theme.Theme {
	if t, ok := theme.Lookup(name); ok {
		return t
	}
	if _, err := os.Stat(name); err == nil {
		t, err := theme.LoadFile(name)
		if err == nil {
			return t
		}
		logger.Warn("theme file rejected", "path", name, "error", err)
	} else {
		logger.Warn("unknown theme, using default", "theme", name)
	}
	return theme.Get("default")
}

func ensureLogDir(logFile string) error {
	dir := filepath.Dir(logFile)
	return os.MkdirAll(dir, 0755)
}
