// Package probes reads the operating system state the monitoring loop
// inspects: running processes, established network connections, and
// cpu/memory/disk utilization. Each probe is an interface so the engine can
// be exercised against fakes.
package probes

import "time"

// ProcessSnapshot describes one running process at the moment of a scan
// cycle. Snapshots are ephemeral and recreated each cycle.
type ProcessSnapshot struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	Exe           string  `json:"exe"`
	Cmdline       string  `json:"cmdline"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// ConnectionSnapshot describes one established network connection.
type ConnectionSnapshot struct {
	LocalAddr  string `json:"local_addr"`
	RemoteAddr string `json:"remote_ip"`
	RemotePort uint32 `json:"remote_port"`
	Status     string `json:"status"`
	PID        int32  `json:"pid"`
}

// ResourceReading is one sample of system-wide utilization.
type ResourceReading struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	DiskPercent   float64   `json:"disk_percent"`
	SampledAt     time.Time `json:"sampled_at"`
}

// ProcessLister snapshots the running processes. Processes that vanish or
// are inaccessible mid-iteration are skipped, not reported as errors.
type ProcessLister interface {
	Snapshot() ([]ProcessSnapshot, error)
}

// ConnectionLister snapshots established connections that have a remote
// endpoint.
type ConnectionLister interface {
	Snapshot() ([]ConnectionSnapshot, error)
}

// ResourceGauge reads current cpu/memory/disk utilization.
type ResourceGauge interface {
	Read() (ResourceReading, error)
}
