package system

import (
	"math"
	"strconv"
	"sync"
	"time"
)

// Mock implements System with scripted values. All methods are safe for
// concurrent use. It records every action it is asked to perform.
type Mock struct {
	mu sync.Mutex

	cpu, cpuTemp float64
	battery      float64
	ram          RAMInfo
	disk         DiskInfo
	gpu          GPUInfo
	vram         VRAMInfo
	up, down     float64
	bt           BluetoothInfo
	audio        AudioInfo
	clock        string
	workspaces   map[int]WorkspaceStatus

	packages    int
	packagesErr error
	// syncPackages runs completions on the caller's goroutine.
	syncPackages bool

	// dynamic modulates readings with the wall clock for demos.
	dynamic bool
	start   time.Time

	actions []string
	polls   int
}

var _ System = (*Mock)(nil)

// NewMock returns a mock with plausible readings and no battery.
func NewMock() *Mock {
	return &Mock{
		cpu:        0.12,
		cpuTemp:    45,
		battery:    -1,
		ram:        RAMInfo{TotalGiB: 16, FreeGiB: 12},
		disk:       DiskInfo{UsedGiB: 100, TotalGiB: 500},
		gpu:        GPUInfo{Utilisation: 40, CoreTemp: 55},
		vram:       VRAMInfo{UsedGiB: 1, TotalGiB: 8},
		audio:      AudioInfo{SinkVolume: 0.5, SourceVolume: 0.3},
		clock:      "Sun Mar 01 12:00",
		workspaces: map[int]WorkspaceStatus{},
		start:      time.Now(),
	}
}

// NewDemoMock returns a mock whose readings drift over time, with a
// battery, a bluetooth headset and a few busy workspaces.
func NewDemoMock() *Mock {
	m := NewMock()
	m.dynamic = true
	m.battery = 0.87
	m.packages = 3
	m.bt = BluetoothInfo{
		DefaultController: "00:1A:7D:DA:71:13",
		Devices:           []BluetoothDevice{{Name: "Headset", Type: "audio-headset", Connected: true}},
	}
	m.workspaces = map[int]WorkspaceStatus{
		1: WorkspaceCurrent,
		2: WorkspaceInactive,
		3: WorkspaceActive,
	}
	return m
}

func (m *Mock) wave(period time.Duration) float64 {
	t := time.Since(m.start).Seconds()
	return (math.Sin(2*math.Pi*t/period.Seconds()) + 1) / 2
}

// SetCPU scripts CPU usage in [0,1] and temperature.
func (m *Mock) SetCPU(usage, temp float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cpu, m.cpuTemp = usage, temp
}

// SetBattery scripts the battery fraction; negative means no battery.
func (m *Mock) SetBattery(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.battery = v
}

// SetRAM scripts memory readings.
func (m *Mock) SetRAM(r RAMInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ram = r
}

// SetDisk scripts disk readings.
func (m *Mock) SetDisk(d DiskInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disk = d
}

// SetGPU scripts GPU and VRAM readings.
func (m *Mock) SetGPU(g GPUInfo, v VRAMInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gpu, m.vram = g, v
}

// SetNetwork scripts the network rates in bytes per second.
func (m *Mock) SetNetwork(up, down float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.up, m.down = up, down
}

// SetBluetooth scripts bluetooth state.
func (m *Mock) SetBluetooth(info BluetoothInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bt = info
}

// SetAudio scripts mixer state.
func (m *Mock) SetAudio(a AudioInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audio = a
}

// SetClock scripts the clock text.
func (m *Mock) SetClock(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = s
}

// SetWorkspace scripts one workspace's status.
func (m *Mock) SetWorkspace(id int, s WorkspaceStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workspaces[id] = s
}

// SetPackages scripts the result of package queries. With inline set, the
// completion runs before OutdatedPackagesAsync returns.
func (m *Mock) SetPackages(count int, err error, inline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packages, m.packagesErr, m.syncPackages = count, err, inline
}

// Actions returns the recorded actions in call order, e.g. "lock",
// "goto 3", "next +", "sink 0.50".
func (m *Mock) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.actions...)
}

// Polls returns how many times PollWorkspaces ran.
func (m *Mock) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

func (m *Mock) record(a string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, a)
}

func (m *Mock) CPUUsage() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dynamic {
		return 0.05 + 0.6*m.wave(20*time.Second)
	}
	return m.cpu
}

func (m *Mock) CPUTemp() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dynamic {
		return 40 + 25*m.wave(30*time.Second)
	}
	return m.cpuTemp
}

func (m *Mock) BatteryPercentage() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.battery
}

func (m *Mock) RAM() RAMInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dynamic {
		r := m.ram
		r.FreeGiB = r.TotalGiB * (0.4 + 0.3*m.wave(45*time.Second))
		return r
	}
	return m.ram
}

func (m *Mock) Disk() DiskInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disk
}

func (m *Mock) GPU() GPUInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dynamic {
		return GPUInfo{Utilisation: 100 * m.wave(12*time.Second), CoreTemp: 50 + 20*m.wave(25*time.Second)}
	}
	return m.gpu
}

func (m *Mock) VRAM() VRAMInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vram
}

func (m *Mock) NetworkBpsUpload(dt float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dynamic {
		return 2 * 1024 * 1024 * m.wave(8*time.Second)
	}
	return m.up
}

func (m *Mock) NetworkBpsDownload(dt float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dynamic {
		return 8 * 1024 * 1024 * m.wave(10*time.Second)
	}
	return m.down
}

func (m *Mock) BluetoothInfo() BluetoothInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	info := m.bt
	info.Devices = append([]BluetoothDevice(nil), m.bt.Devices...)
	return info
}

func (m *Mock) OpenBluetoothTool() { m.record("bluetooth") }

func (m *Mock) OutdatedPackagesAsync(done func(count int, err error)) {
	m.mu.Lock()
	count, err, inline := m.packages, m.packagesErr, m.syncPackages
	m.actions = append(m.actions, "packages")
	m.mu.Unlock()

	if inline {
		done(count, err)
		return
	}
	go done(count, err)
}

func (m *Mock) AudioInfo() AudioInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audio
}

func (m *Mock) SetVolumeSink(v float64) {
	m.mu.Lock()
	m.audio.SinkVolume = v
	m.mu.Unlock()
	m.record("sink " + strconv.FormatFloat(v, 'f', 2, 64))
}

func (m *Mock) SetVolumeSource(v float64) {
	m.mu.Lock()
	m.audio.SourceVolume = v
	m.mu.Unlock()
	m.record("source " + strconv.FormatFloat(v, 'f', 2, 64))
}

func (m *Mock) Time() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dynamic {
		return time.Now().Format("Mon Jan 02 15:04:05")
	}
	return m.clock
}

func (m *Mock) PollWorkspaces(monitor, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
}

func (m *Mock) WorkspaceStatus(id int) WorkspaceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.workspaces[id]
}

func (m *Mock) WorkspaceSymbol(index int) string { return strconv.Itoa(index + 1) }

func (m *Mock) GotoWorkspace(id int) { m.record("goto " + strconv.Itoa(id)) }

func (m *Mock) GotoNextWorkspace(direction rune) { m.record("next " + string(direction)) }

func (m *Mock) ExitWM()   { m.record("exit") }
func (m *Mock) Lock()     { m.record("lock") }
func (m *Mock) Suspend()  { m.record("suspend") }
func (m *Mock) Reboot()   { m.record("reboot") }
func (m *Mock) Shutdown() { m.record("shutdown") }
