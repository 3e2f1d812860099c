package probes

import (
	"github.com/shirou/gopsutil/v3/process"

	"github.com/aegis-watch/aegisd/pkg/errors"
)

// SystemProcessLister lists processes through gopsutil.
type SystemProcessLister struct{}

func NewSystemProcessLister() *SystemProcessLister {
	return &SystemProcessLister{}
}

// Snapshot returns a best-effort view of the running processes. A process
// that exits or denies access between listing and inspection is skipped.
// Only a failure of the listing itself is an error.
func (s *SystemProcessLister) Snapshot() ([]ProcessSnapshot, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, errors.NewUnavailable("process inventory", err)
	}

	snapshots := make([]ProcessSnapshot, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}

		snap := ProcessSnapshot{PID: p.Pid, Name: name}

		// Everything below is best-effort; a missing field is not a
		// reason to drop the process.
		if exe, err := p.Exe(); err == nil {
			snap.Exe = exe
		}
		if cmdline, err := p.Cmdline(); err == nil {
			snap.Cmdline = cmdline
		}
		if cpuPercent, err := p.CPUPercent(); err == nil {
			snap.CPUPercent = cpuPercent
		}
		if memPercent, err := p.MemoryPercent(); err == nil {
			snap.MemoryPercent = float64(memPercent)
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}
