package system

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/sensors"

	"gitlab.com/tinyland/lab/pulse-bar/pkg/config"
)

// fakeRunner records commands and answers Output from a table keyed by
// the joined argv.
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]fakeResult
	started [][]string
	failAll bool
}

type fakeResult struct {
	out []byte
	err error
}

func (f *fakeRunner) Output(_ context.Context, argv []string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.outputs[strings.Join(argv, " ")]
	if !ok {
		return nil, errors.New("not found")
	}
	return r.out, r.err
}

func (f *fakeRunner) Start(argv []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || len(argv) == 0 {
		return ErrNoCommand
	}
	f.started = append(f.started, argv)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0B"},
		{512, "512.0B"},
		{1024, "1.0KiB"},
		{1536, "1.5KiB"},
		{5 * 1024 * 1024, "5.0MiB"},
		{3.25 * 1024 * 1024 * 1024, "3.2GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNvidiaSMI(t *testing.T) {
	r, err := parseNvidiaSMI("40, 55, 1024, 8192\n12, 30, 0, 4096\n")
	if err != nil {
		t.Fatal(err)
	}
	if r.GPU.Utilisation != 40 || r.GPU.CoreTemp != 55 {
		t.Errorf("gpu = %+v", r.GPU)
	}
	if r.VRAM.UsedGiB != 1 || r.VRAM.TotalGiB != 8 {
		t.Errorf("vram = %+v", r.VRAM)
	}

	for _, bad := range []string{"", "40, 55", "40, hot, 1, 2"} {
		if _, err := parseNvidiaSMI(bad); err == nil {
			t.Errorf("parseNvidiaSMI(%q) should fail", bad)
		}
	}
}

func TestBatteryPercentage(t *testing.T) {
	root := t.TempDir()
	if got := batteryPercentage(root); got >= 0 {
		t.Errorf("no battery: got %v, want negative", got)
	}
	writeFile(t, filepath.Join(root, "class", "power_supply", "BAT0", "capacity"), "87\n")
	if got := batteryPercentage(root); got != 0.87 {
		t.Errorf("battery = %v, want 0.87", got)
	}
}

func TestGPUVendorsAndAMD(t *testing.T) {
	root := t.TempDir()
	dev := filepath.Join(root, "class", "drm", "card0", "device")
	writeFile(t, filepath.Join(dev, "vendor"), "0x1002\n")
	writeFile(t, filepath.Join(dev, "gpu_busy_percent"), "33\n")
	writeFile(t, filepath.Join(dev, "mem_info_vram_used"), "1073741824\n")
	writeFile(t, filepath.Join(dev, "mem_info_vram_total"), "4294967296\n")
	writeFile(t, filepath.Join(dev, "hwmon", "hwmon3", "temp1_input"), "61000\n")

	if v := gpuVendors(root); !v["amd"] || v["nvidia"] {
		t.Errorf("vendors = %v", v)
	}
	r, err := readAMDGPU(root)
	if err != nil {
		t.Fatal(err)
	}
	if r.GPU.Utilisation != 33 || r.GPU.CoreTemp != 61 || r.VRAM.UsedGiB != 1 || r.VRAM.TotalGiB != 4 {
		t.Errorf("reading = %+v", r)
	}
}

func TestPickCPUTemp(t *testing.T) {
	temps := []sensors.TemperatureStat{
		{SensorKey: "nvme_composite", Temperature: 38},
		{SensorKey: "coretemp_core_0", Temperature: 50},
		{SensorKey: "coretemp_package_id_0", Temperature: 52},
	}
	if got := pickCPUTemp(temps); got != 52 {
		t.Errorf("pickCPUTemp = %v, want the package sensor", got)
	}
	if got := pickCPUTemp(temps[:1]); got != 0 {
		t.Errorf("no CPU sensor: got %v", got)
	}
}

func TestRateMeter(t *testing.T) {
	var m rateMeter
	if r := m.rate(1000, 1); r != 0 {
		t.Errorf("first sample = %v, want 0", r)
	}
	if r := m.rate(3000, 2); r != 1000 {
		t.Errorf("rate = %v, want 1000", r)
	}
	if r := m.rate(10, 1); r != 0 {
		t.Errorf("counter reset = %v, want 0", r)
	}
	if r := m.rate(20, 0); r != 0 {
		t.Errorf("zero dt = %v, want 0", r)
	}
}

func newTestHost(t *testing.T, run *fakeRunner) *Host {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Commands.Packages = []string{"checkupdates"}
	return NewHost(HostOptions{
		Config:    cfg,
		Logger:    quietLogger(),
		Runner:    run,
		SysfsRoot: t.TempDir(),
	})
}

func packagesResult(t *testing.T, h *Host) (int, error) {
	t.Helper()
	type res struct {
		n   int
		err error
	}
	ch := make(chan res, 1)
	h.OutdatedPackagesAsync(func(n int, err error) { ch <- res{n, err} })
	select {
	case r := <-ch:
		return r.n, r.err
	case <-time.After(5 * time.Second):
		t.Fatal("completion never ran")
	}
	return 0, nil
}

func TestHostPackagesCountsLines(t *testing.T) {
	run := &fakeRunner{outputs: map[string]fakeResult{
		"checkupdates": {out: []byte("linux 6.1 -> 6.2\nvim 9.0 -> 9.1\n\n")},
	}}
	n, err := packagesResult(t, newTestHost(t, run))
	if err != nil || n != 2 {
		t.Errorf("got %d, %v; want 2, nil", n, err)
	}
}

func TestHostPackagesFailure(t *testing.T) {
	run := &fakeRunner{outputs: map[string]fakeResult{
		"checkupdates": {err: errors.New("mirror unreachable")},
	}}
	if _, err := packagesResult(t, newTestHost(t, run)); err == nil {
		t.Error("expected error from failing query")
	}
}

func TestHostPackagesExitTwoMeansNone(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh")
	}
	cfg := config.DefaultConfig()
	cfg.Commands.Packages = []string{"sh", "-c", "exit 2"}
	h := NewHost(HostOptions{Config: cfg, Logger: quietLogger(), SysfsRoot: t.TempDir()})

	n, err := packagesResult(t, h)
	if err != nil || n != 0 {
		t.Errorf("got %d, %v; want 0, nil", n, err)
	}
}

func TestHostPowerRunsConfiguredCommands(t *testing.T) {
	run := &fakeRunner{}
	h := newTestHost(t, run)
	h.Lock()
	h.Shutdown()
	h.OpenBluetoothTool()

	want := []string{"loginctl lock-session", "systemctl poweroff", "blueman-manager"}
	if len(run.started) != len(want) {
		t.Fatalf("started = %v", run.started)
	}
	for i, w := range want {
		if got := strings.Join(run.started[i], " "); got != w {
			t.Errorf("command %d = %q, want %q", i, got, w)
		}
	}
}

func TestHostDetectRuntimeNvidia(t *testing.T) {
	run := &fakeRunner{outputs: map[string]fakeResult{
		strings.Join(nvidiaQuery, " "): {out: []byte("10, 40, 512, 4096\n")},
	}}
	h := newTestHost(t, run)
	writeFile(t, filepath.Join(h.sysfs, "class", "drm", "card1", "device", "vendor"), "0x10de\n")

	rt := h.DetectRuntime(context.Background())
	if !rt.HasNvidia || rt.HasAMD {
		t.Fatalf("runtime = %+v", rt)
	}
	if err := h.sampler.Register(h.gpu); err != nil {
		t.Fatal(err)
	}
	if err := h.sampler.RunOnce(context.Background(), "gpu"); err != nil {
		t.Fatal(err)
	}
	if g := h.GPU(); g.Utilisation != 10 || g.CoreTemp != 40 {
		t.Errorf("GPU = %+v", g)
	}
	if v := h.VRAM(); v.UsedGiB != 0.5 || v.TotalGiB != 4 {
		t.Errorf("VRAM = %+v", v)
	}
}

func TestHostWithoutGPUReadsZero(t *testing.T) {
	h := newTestHost(t, &fakeRunner{})
	if rt := h.DetectRuntime(context.Background()); rt.HasNvidia || rt.HasAMD {
		t.Errorf("runtime = %+v", rt)
	}
	if h.GPU() != (GPUInfo{}) || h.VRAM() != (VRAMInfo{}) {
		t.Error("GPU readings without a GPU should be zero")
	}
	if h.BatteryPercentage() >= 0 {
		t.Error("empty sysfs should report no battery")
	}
}

type countingProbe struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProbe) Name() string            { return "count" }
func (p *countingProbe) Interval() time.Duration { return 10 * time.Millisecond }
func (p *countingProbe) Sample(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func TestSamplerRunsAndStops(t *testing.T) {
	s := NewSampler(quietLogger())
	p := &countingProbe{}
	if err := s.Register(p); err != nil {
		t.Fatal(err)
	}
	if err := s.Register(p); err == nil {
		t.Error("duplicate register should fail")
	}

	s.Start(context.Background())
	deadline := time.Now().Add(5 * time.Second)
	for {
		st, _ := s.Status("count")
		if st.RunCount >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("probe did not run three times")
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()

	st, _ := s.Status("count")
	after := st.RunCount
	time.Sleep(30 * time.Millisecond)
	st, _ = s.Status("count")
	if st.RunCount != after {
		t.Error("probe ran after Stop")
	}
}

func TestSamplerRecordsErrors(t *testing.T) {
	s := NewSampler(quietLogger())
	p := &countingProbe{err: errors.New("boom")}
	s.Register(p)

	if err := s.RunOnce(context.Background(), "count"); err == nil {
		t.Fatal("expected error")
	}
	st, ok := s.Status("count")
	if !ok || st.Healthy || st.ErrorCount != 1 || st.RunCount != 1 {
		t.Errorf("status = %+v", st)
	}
	if err := s.RunOnce(context.Background(), "missing"); err == nil {
		t.Error("unknown probe should fail")
	}
	if all := s.AllStatus(); len(all) != 1 || all[0].Name != "count" {
		t.Errorf("AllStatus = %+v", all)
	}
}

func TestHostStopLogsProbeStatus(t *testing.T) {
	var buf bytes.Buffer
	h := NewHost(HostOptions{
		Logger:    slog.New(slog.NewTextHandler(&buf, nil)),
		Runner:    &fakeRunner{},
		SysfsRoot: t.TempDir(),
	})
	h.sampler.Register(&countingProbe{err: errors.New("boom")})
	h.sampler.RunOnce(context.Background(), "count")

	h.Stop()
	out := buf.String()
	for _, want := range []string{"probe status", "probe=count", "healthy=false", "errors=1", "last_error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
	h.Stop()
}

func TestMockRecordsActions(t *testing.T) {
	m := NewMock()
	m.GotoWorkspace(3)
	m.GotoNextWorkspace('+')
	m.SetVolumeSink(0.5)
	m.Reboot()

	want := []string{"goto 3", "next +", "sink 0.50", "reboot"}
	got := m.Actions()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("actions = %v, want %v", got, want)
	}
	if m.AudioInfo().SinkVolume != 0.5 {
		t.Error("sink volume not stored")
	}
}

func TestMockPackagesInline(t *testing.T) {
	m := NewMock()
	m.SetPackages(4, nil, true)
	got := -1
	m.OutdatedPackagesAsync(func(n int, err error) { got = n })
	if got != 4 {
		t.Errorf("inline completion = %d, want 4", got)
	}
}

func TestWorkspaceStatusClass(t *testing.T) {
	want := map[WorkspaceStatus]string{
		WorkspaceDead:     "ws-dead",
		WorkspaceInactive: "ws-inactive",
		WorkspaceVisible:  "ws-visible",
		WorkspaceCurrent:  "ws-current",
		WorkspaceActive:   "ws-active",
	}
	for s, w := range want {
		if s.Class() != w {
			t.Errorf("%d.Class() = %q, want %q", s, s.Class(), w)
		}
	}
}
