package probes

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aegis-watch/aegisd/pkg/errors"
)

// SystemResourceGauge reads utilization through gopsutil. The cpu sample is
// taken over a short fixed window, so Read blocks for that long.
type SystemResourceGauge struct {
	DiskPath    string
	SampleDelay time.Duration
}

func NewSystemResourceGauge() *SystemResourceGauge {
	return &SystemResourceGauge{
		DiskPath:    "/",
		SampleDelay: time.Second,
	}
}

// Read samples current cpu, memory and disk utilization percentages.
func (g *SystemResourceGauge) Read() (ResourceReading, error) {
	cpuPercents, err := cpu.Percent(g.SampleDelay, false)
	if err != nil || len(cpuPercents) == 0 {
		return ResourceReading{}, errors.NewUnavailable("cpu metrics", err)
	}

	vmem, err := mem.VirtualMemory()
	if err != nil {
		return ResourceReading{}, errors.NewUnavailable("memory metrics", err)
	}

	usage, err := disk.Usage(g.DiskPath)
	if err != nil {
		return ResourceReading{}, errors.NewUnavailable("disk metrics", err)
	}

	return ResourceReading{
		CPUPercent:    cpuPercents[0],
		MemoryPercent: vmem.UsedPercent,
		DiskPercent:   usage.UsedPercent,
		SampledAt:     time.Now(),
	}, nil
}
