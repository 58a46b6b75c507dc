// Package system is the sensor and OS query layer of the bar.
//
// The bar only sees the System interface. Host answers it from the running
// machine through gopsutil and configured commands; Mock answers it from
// scripted values for tests and the -mock flag.
package system

// Sensors samples the resource readings shown by sensor widgets.
type Sensors interface {
	// CPUUsage returns overall utilisation in [0,1].
	CPUUsage() float64
	// CPUTemp returns the package temperature in °C, 0 when unknown.
	CPUTemp() float64
	// BatteryPercentage returns the charge in [0,1], or a negative value
	// when the host has no battery.
	BatteryPercentage() float64
	RAM() RAMInfo
	Disk() DiskInfo
	GPU() GPUInfo
	VRAM() VRAMInfo
	// NetworkBpsUpload returns bytes per second sent since the previous
	// call, given the time between calls in seconds.
	NetworkBpsUpload(dt float64) float64
	NetworkBpsDownload(dt float64) float64
}

// Bluetooth reports controller and device state.
type Bluetooth interface {
	BluetoothInfo() BluetoothInfo
	OpenBluetoothTool()
}

// Packages queries outdated packages in the background.
type Packages interface {
	// OutdatedPackagesAsync starts a query and returns immediately. done is
	// called exactly once, on an arbitrary goroutine.
	OutdatedPackagesAsync(done func(count int, err error))
}

// Audio reads and sets sink (output) and source (input) volume.
type Audio interface {
	AudioInfo() AudioInfo
	SetVolumeSink(v float64)
	SetVolumeSource(v float64)
}

// Clock formats the current time for the clock widget.
type Clock interface {
	Time() string
}

// Workspaces tracks window manager workspaces.
type Workspaces interface {
	// PollWorkspaces refreshes the state of the first count workspaces of
	// monitor. Status and Symbol read the polled state.
	PollWorkspaces(monitor, count int)
	WorkspaceStatus(id int) WorkspaceStatus
	WorkspaceSymbol(index int) string
	GotoWorkspace(id int)
	// GotoNextWorkspace moves by one in direction '+' or '-'.
	GotoNextWorkspace(direction rune)
}

// Power runs session and machine power actions.
type Power interface {
	ExitWM()
	Lock()
	Suspend()
	Reboot()
	Shutdown()
}

// System is everything the bar queries.
type System interface {
	Sensors
	Bluetooth
	Packages
	Audio
	Clock
	Workspaces
	Power
}

// RAMInfo is physical memory in GiB.
type RAMInfo struct {
	TotalGiB float64
	FreeGiB  float64
}

// DiskInfo is root filesystem usage in GiB.
type DiskInfo struct {
	UsedGiB  float64
	TotalGiB float64
}

// GPUInfo is utilisation in percent and core temperature in °C.
type GPUInfo struct {
	Utilisation float64
	CoreTemp    float64
}

// VRAMInfo is GPU memory in GiB.
type VRAMInfo struct {
	UsedGiB  float64
	TotalGiB float64
}

// AudioInfo holds volumes in [0,1] and mute flags.
type AudioInfo struct {
	SinkVolume   float64
	SinkMuted    bool
	SourceVolume float64
	SourceMuted  bool
}

// BluetoothDevice is one known device.
type BluetoothDevice struct {
	Name      string
	Type      string
	Connected bool
}

// BluetoothInfo is the default controller and its devices. An empty
// DefaultController means bluetooth is off.
type BluetoothInfo struct {
	DefaultController string
	Devices           []BluetoothDevice
}

// WorkspaceStatus is the state of one workspace.
type WorkspaceStatus int

const (
	WorkspaceDead WorkspaceStatus = iota
	WorkspaceInactive
	WorkspaceVisible
	WorkspaceCurrent
	WorkspaceActive
)

// Class returns the style class of the status.
func (s WorkspaceStatus) Class() string {
	switch s {
	case WorkspaceInactive:
		return "ws-inactive"
	case WorkspaceVisible:
		return "ws-visible"
	case WorkspaceCurrent:
		return "ws-current"
	case WorkspaceActive:
		return "ws-active"
	}
	return "ws-dead"
}

// BluetoothIcon maps a device type to its glyph.
func BluetoothIcon(dev BluetoothDevice) string {
	switch dev.Type {
	case "input-keyboard":
		return "󰌌 "
	case "input-mouse":
		return "󰍽 "
	case "audio-headset", "audio-headphones":
		return "󰋋 "
	case "input-gaming":
		return "󰖺 "
	case "phone":
		return "󰏲 "
	}
	return "󰂱 "
}
