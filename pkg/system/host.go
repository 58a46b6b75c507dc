package system

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/sensors"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/config"
)

const (
	// queryTimeout bounds the synchronous gopsutil reads made from timers.
	queryTimeout   = 200 * time.Millisecond
	packageTimeout = 2 * time.Minute
)

// HostOptions configures a Host.
type HostOptions struct {
	Config *config.Config
	Logger *slog.Logger
	// Runner defaults to ExecRunner.
	Runner Runner
	// SysfsRoot defaults to /sys.
	SysfsRoot string
	// DiskPath is the mount whose usage is reported, default "/".
	DiskPath string
}

// Host answers System from the running machine. Cheap readings (procfs,
// statfs, sysfs) are taken synchronously; the GPU is sampled in the
// background by a Sampler. Host has no mixer, bluetooth or workspace
// backend: those report neutral values and DetectRuntime reports them
// absent.
type Host struct {
	cfg      *config.Config
	logger   *slog.Logger
	run      Runner
	sysfs    string
	diskPath string

	sampler *Sampler
	gpu     *gpuProbe

	mu    sync.Mutex
	up    rateMeter
	down  rateMeter
	audio AudioInfo
}

var _ System = (*Host)(nil)

// NewHost returns a Host. Call Start to begin background sampling.
func NewHost(opts HostOptions) *Host {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.SysfsRoot == "" {
		opts.SysfsRoot = "/sys"
	}
	if opts.DiskPath == "" {
		opts.DiskPath = "/"
	}
	return &Host{
		cfg:      opts.Config,
		logger:   opts.Logger,
		run:      opts.Runner,
		sysfs:    opts.SysfsRoot,
		diskPath: opts.DiskPath,
		sampler:  NewSampler(opts.Logger),
	}
}

// DetectRuntime probes the capabilities that decide which widgets exist.
func (h *Host) DetectRuntime(ctx context.Context) config.Runtime {
	var rt config.Runtime

	vendors := gpuVendors(h.sysfs)
	var nv *nvmlReader
	if vendors["nvidia"] {
		var err error
		if nv, err = openNVML(); err != nil {
			h.logger.Debug("nvml unavailable, trying nvidia-smi", "error", err)
		}
	}
	if nv != nil {
		rt.HasNvidia = true
	} else if vendors["nvidia"] {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		out, err := h.run.Output(cctx, nvidiaQuery)
		cancel()
		if err == nil {
			_, err = parseNvidiaSMI(string(out))
		}
		rt.HasNvidia = err == nil
		if err != nil {
			h.logger.Info("nvidia card without working nvidia-smi", "error", err)
		}
	}
	if !rt.HasNvidia && vendors["amd"] {
		_, err := readAMDGPU(h.sysfs)
		rt.HasAMD = err == nil
	}

	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		h.logger.Warn("listing network interfaces", "error", err)
	}
	for _, iface := range ifaces {
		if iface.Name == h.cfg.NetworkAdapter {
			rt.HasNetwork = true
			break
		}
	}

	switch {
	case rt.HasNvidia:
		h.gpu = &gpuProbe{vendor: "nvidia", run: h.run, sysfs: h.sysfs, nvml: nv}
	case rt.HasAMD:
		h.gpu = &gpuProbe{vendor: "amd", run: h.run, sysfs: h.sysfs}
	}

	h.logger.Info("runtime detected",
		"nvidia", rt.HasNvidia,
		"amd", rt.HasAMD,
		"nvml", nv != nil,
		"network", rt.HasNetwork,
		"adapter", h.cfg.NetworkAdapter,
	)
	return rt
}

// Start launches background sampling. It must follow DetectRuntime.
func (h *Host) Start(ctx context.Context) {
	if h.gpu != nil {
		if err := h.sampler.Register(h.gpu); err != nil {
			h.logger.Warn("registering gpu probe", "error", err)
		}
	}
	h.sampler.Start(ctx)
}

// Stop ends background sampling, logs how each probe fared and releases
// NVML.
func (h *Host) Stop() {
	h.sampler.Stop()
	for _, st := range h.sampler.AllStatus() {
		h.logger.Info("probe status",
			"probe", st.Name,
			"healthy", st.Healthy,
			"runs", st.RunCount,
			"errors", st.ErrorCount,
			"last_error", st.LastError,
		)
	}
	if h.gpu != nil && h.gpu.nvml != nil {
		h.gpu.nvml.close()
		h.gpu.nvml = nil
	}
}

func (h *Host) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

// CPUUsage implements Sensors. The first call measures since boot.
func (h *Host) CPUUsage() float64 {
	ctx, cancel := h.queryCtx()
	defer cancel()
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(total) == 0 {
		return 0
	}
	return total[0] / 100
}

// CPUTemp implements Sensors.
func (h *Host) CPUTemp() float64 {
	ctx, cancel := h.queryCtx()
	defer cancel()
	temps, err := sensors.TemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		return 0
	}
	return pickCPUTemp(temps)
}

// cpuSensorKeys are the hwmon keys of CPU package sensors, most specific
// first.
var cpuSensorKeys = []string{
	"coretemp_package_id_0",
	"k10temp_tctl",
	"k10temp_tdie",
	"zenpower_tdie",
	"cpu_thermal",
	"coretemp",
	"k10temp",
}

func pickCPUTemp(temps []sensors.TemperatureStat) float64 {
	for _, key := range cpuSensorKeys {
		for _, t := range temps {
			if strings.HasPrefix(strings.ToLower(t.SensorKey), key) && t.Temperature > 0 {
				return t.Temperature
			}
		}
	}
	return 0
}

// BatteryPercentage implements Sensors.
func (h *Host) BatteryPercentage() float64 {
	return batteryPercentage(h.sysfs)
}

// RAM implements Sensors.
func (h *Host) RAM() RAMInfo {
	ctx, cancel := h.queryCtx()
	defer cancel()
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return RAMInfo{}
	}
	return RAMInfo{TotalGiB: toGiB(vm.Total), FreeGiB: toGiB(vm.Available)}
}

// Disk implements Sensors.
func (h *Host) Disk() DiskInfo {
	ctx, cancel := h.queryCtx()
	defer cancel()
	u, err := disk.UsageWithContext(ctx, h.diskPath)
	if err != nil {
		return DiskInfo{}
	}
	return DiskInfo{UsedGiB: toGiB(u.Used), TotalGiB: toGiB(u.Total)}
}

// GPU implements Sensors with the last background sample.
func (h *Host) GPU() GPUInfo {
	if h.gpu == nil {
		return GPUInfo{}
	}
	return h.gpu.reading().GPU
}

// VRAM implements Sensors with the last background sample.
func (h *Host) VRAM() VRAMInfo {
	if h.gpu == nil {
		return VRAMInfo{}
	}
	return h.gpu.reading().VRAM
}

// NetworkBpsUpload implements Sensors.
func (h *Host) NetworkBpsUpload(dt float64) float64 {
	sent, _, ok := h.netCounters()
	if !ok {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.up.rate(sent, dt)
}

// NetworkBpsDownload implements Sensors.
func (h *Host) NetworkBpsDownload(dt float64) float64 {
	_, recv, ok := h.netCounters()
	if !ok {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.down.rate(recv, dt)
}

func (h *Host) netCounters() (sent, recv uint64, ok bool) {
	ctx, cancel := h.queryCtx()
	defer cancel()
	stats, err := gnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return 0, 0, false
	}
	for _, s := range stats {
		if s.Name == h.cfg.NetworkAdapter {
			return s.BytesSent, s.BytesRecv, true
		}
	}
	return 0, 0, false
}

// rateMeter turns a monotonically increasing byte counter into a rate.
type rateMeter struct {
	last   uint64
	primed bool
}

// rate returns bytes per second since the previous call. The first call,
// a non-positive dt and a counter reset all yield 0.
func (m *rateMeter) rate(cur uint64, dt float64) float64 {
	prev, primed := m.last, m.primed
	m.last, m.primed = cur, true
	if !primed || dt <= 0 || cur < prev {
		return 0
	}
	return float64(cur-prev) / dt
}

// BluetoothInfo implements Bluetooth. Host has no bluetooth backend.
func (h *Host) BluetoothInfo() BluetoothInfo { return BluetoothInfo{} }

// OpenBluetoothTool implements Bluetooth.
func (h *Host) OpenBluetoothTool() { h.start("bluetooth", h.cfg.Commands.Bluetooth) }

// OutdatedPackagesAsync implements Packages. The configured command prints
// one line per outdated package; exit status 2 with no output means none
// (checkupdates convention).
func (h *Host) OutdatedPackagesAsync(done func(count int, err error)) {
	argv := h.cfg.Commands.Packages
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), packageTimeout)
		defer cancel()

		out, err := h.run.Output(ctx, argv)
		if err != nil {
			if exitCode(err) == 2 && len(bytes.TrimSpace(out)) == 0 {
				done(0, nil)
				return
			}
			done(0, fmt.Errorf("package query %q: %w", strings.Join(argv, " "), err))
			return
		}
		done(countLines(out), nil)
	}()
}

func countLines(out []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}

// AudioInfo implements Audio. Without a mixer backend Host reports the
// volumes last set through it.
func (h *Host) AudioInfo() AudioInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.audio
}

// SetVolumeSink implements Audio.
func (h *Host) SetVolumeSink(v float64) {
	h.mu.Lock()
	h.audio.SinkVolume = v
	h.mu.Unlock()
	h.logger.Debug("sink volume", "value", v)
}

// SetVolumeSource implements Audio.
func (h *Host) SetVolumeSource(v float64) {
	h.mu.Lock()
	h.audio.SourceVolume = v
	h.mu.Unlock()
	h.logger.Debug("source volume", "value", v)
}

// Time implements Clock.
func (h *Host) Time() string {
	return time.Now().Format(h.cfg.TimeFormat)
}

// PollWorkspaces implements Workspaces. Host has no window manager backend.
func (h *Host) PollWorkspaces(monitor, count int) {}

// WorkspaceStatus implements Workspaces.
func (h *Host) WorkspaceStatus(id int) WorkspaceStatus { return WorkspaceDead }

// WorkspaceSymbol implements Workspaces.
func (h *Host) WorkspaceSymbol(index int) string { return strconv.Itoa(index + 1) }

// GotoWorkspace implements Workspaces.
func (h *Host) GotoWorkspace(id int) {
	h.logger.Debug("goto workspace ignored", "id", id)
}

// GotoNextWorkspace implements Workspaces.
func (h *Host) GotoNextWorkspace(direction rune) {
	h.logger.Debug("next workspace ignored", "direction", string(direction))
}

// ExitWM implements Power.
func (h *Host) ExitWM() { h.start("exit", h.cfg.Commands.ExitWM) }

// Lock implements Power.
func (h *Host) Lock() { h.start("lock", h.cfg.Commands.Lock) }

// Suspend implements Power.
func (h *Host) Suspend() { h.start("suspend", h.cfg.Commands.Suspend) }

// Reboot implements Power.
func (h *Host) Reboot() { h.start("reboot", h.cfg.Commands.Reboot) }

// Shutdown implements Power.
func (h *Host) Shutdown() { h.start("shutdown", h.cfg.Commands.Shutdown) }

func (h *Host) start(action string, argv []string) {
	if err := h.run.Start(argv); err != nil {
		h.logger.Warn("command failed", "action", action, "argv", argv, "error", err)
		return
	}
	h.logger.Info("command started", "action", action, "argv", argv)
}
