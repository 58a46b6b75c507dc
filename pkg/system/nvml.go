package system

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// nvmlReader reads the first NVIDIA GPU through the driver's management
// library. When the library loads it replaces the nvidia-smi subprocess.
type nvmlReader struct {
	device nvml.Device
}

// openNVML initialises NVML and picks device 0. Close the reader to shut
// the library down.
func openNVML() (*nvmlReader, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("nvml: init: %s", nvml.ErrorString(ret))
	}
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS || count == 0 {
		nvml.Shutdown()
		return nil, fmt.Errorf("nvml: no devices: %s", nvml.ErrorString(ret))
	}
	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return nil, fmt.Errorf("nvml: device 0: %s", nvml.ErrorString(ret))
	}
	return &nvmlReader{device: device}, nil
}

func (r *nvmlReader) read() (gpuReading, error) {
	util, ret := r.device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return gpuReading{}, fmt.Errorf("nvml: utilization: %s", nvml.ErrorString(ret))
	}
	temp, ret := r.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return gpuReading{}, fmt.Errorf("nvml: temperature: %s", nvml.ErrorString(ret))
	}
	mem, ret := r.device.GetMemoryInfo()
	if ret != nvml.SUCCESS {
		return gpuReading{}, fmt.Errorf("nvml: memory: %s", nvml.ErrorString(ret))
	}
	return gpuReading{
		GPU:  GPUInfo{Utilisation: float64(util.Gpu), CoreTemp: float64(temp)},
		VRAM: VRAMInfo{UsedGiB: float64(mem.Used) / gib, TotalGiB: float64(mem.Total) / gib},
	}, nil
}

func (r *nvmlReader) close() {
	nvml.Shutdown()
}
