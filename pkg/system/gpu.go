package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// nvidiaQuery is the nvidia-smi invocation whose CSV output parseNvidiaSMI
// understands.
var nvidiaQuery = []string{
	"nvidia-smi",
	"--query-gpu=utilization.gpu,temperature.gpu,memory.used,memory.total",
	"--format=csv,noheader,nounits",
}

// gpuReading is one sample of the first GPU.
type gpuReading struct {
	GPU  GPUInfo
	VRAM VRAMInfo
}

// parseNvidiaSMI parses the first line of nvidia-smi output in the form
// "util_pct, temp_c, used_mib, total_mib".
func parseNvidiaSMI(output string) (gpuReading, error) {
	line := strings.TrimSpace(output)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if line == "" {
		return gpuReading{}, fmt.Errorf("nvidia-smi: empty output")
	}
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return gpuReading{}, fmt.Errorf("nvidia-smi: want 4 fields, got %d in %q", len(parts), line)
	}
	vals := make([]float64, 4)
	for i := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return gpuReading{}, fmt.Errorf("nvidia-smi: field %d: %w", i, err)
		}
		vals[i] = v
	}
	return gpuReading{
		GPU:  GPUInfo{Utilisation: vals[0], CoreTemp: vals[1]},
		VRAM: VRAMInfo{UsedGiB: vals[2] / 1024, TotalGiB: vals[3] / 1024},
	}, nil
}

// gpuProbe samples the GPU in the background; nvidia-smi takes tens of
// milliseconds, too long for a UI timer.
type gpuProbe struct {
	vendor string // "nvidia" or "amd"
	run    Runner
	sysfs  string
	// nvml, when set, answers for nvidia instead of nvidia-smi.
	nvml *nvmlReader

	mu   sync.RWMutex
	last gpuReading
}

func (p *gpuProbe) Name() string            { return "gpu" }
func (p *gpuProbe) Interval() time.Duration { return time.Second }

func (p *gpuProbe) Sample(ctx context.Context) error {
	var (
		r   gpuReading
		err error
	)
	switch p.vendor {
	case "nvidia":
		if p.nvml != nil {
			r, err = p.nvml.read()
			break
		}
		var out []byte
		out, err = p.run.Output(ctx, nvidiaQuery)
		if err == nil {
			r, err = parseNvidiaSMI(string(out))
		}
	case "amd":
		r, err = readAMDGPU(p.sysfs)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.last = r
	p.mu.Unlock()
	return nil
}

func (p *gpuProbe) reading() gpuReading {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// readAMDGPU reads the amdgpu sysfs counters of the first card that has
// them.
func readAMDGPU(root string) (gpuReading, error) {
	devs, _ := filepath.Glob(filepath.Join(root, "class", "drm", "card[0-9]*", "device"))
	for _, dev := range devs {
		busy, err := readNumber(filepath.Join(dev, "gpu_busy_percent"))
		if err != nil {
			continue
		}
		used, _ := readNumber(filepath.Join(dev, "mem_info_vram_used"))
		total, _ := readNumber(filepath.Join(dev, "mem_info_vram_total"))
		var temp float64
		if hw, _ := filepath.Glob(filepath.Join(dev, "hwmon", "hwmon*", "temp1_input")); len(hw) > 0 {
			if milli, err := readNumber(hw[0]); err == nil {
				temp = milli / 1000
			}
		}
		return gpuReading{
			GPU:  GPUInfo{Utilisation: busy, CoreTemp: temp},
			VRAM: VRAMInfo{UsedGiB: used / gib, TotalGiB: total / gib},
		}, nil
	}
	return gpuReading{}, fmt.Errorf("amdgpu: no card with gpu_busy_percent under %s", root)
}

// gpuVendors returns the vendors of the DRM cards under root, mapped from
// their PCI vendor IDs.
func gpuVendors(root string) map[string]bool {
	found := map[string]bool{}
	paths, _ := filepath.Glob(filepath.Join(root, "class", "drm", "card[0-9]*", "device", "vendor"))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(string(b))) {
		case "0x10de":
			found["nvidia"] = true
		case "0x1002":
			found["amd"] = true
		case "0x8086":
			found["intel"] = true
		}
	}
	return found
}

func readNumber(path string) (float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
}
