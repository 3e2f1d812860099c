package engine

import (
	"strings"
	"time"

	"github.com/aegis-watch/aegisd/pkg/errors"
	"github.com/aegis-watch/aegisd/pkg/probes"
	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

// Start launches the single background monitoring loop. It is a no-op when
// the loop is already running. A non-positive interval falls back to the
// configured scan interval.
func (e *Engine) Start(interval time.Duration) {
	if interval <= 0 {
		interval = e.cfg.ScanInterval
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		e.logger.Info().Msg("Security monitoring is already running")
		return
	}
	e.running = true
	e.stopCh = make(chan struct{})
	stopCh := e.stopCh
	e.mu.Unlock()

	go e.run(interval, stopCh)

	e.logger.Info().Dur("interval", interval).Msg("Security monitoring started")
	e.notifier.Speak("Security monitoring activated")
}

// Stop signals the loop to exit. The goroutine observes the signal at the
// next tick boundary; there is no forced interruption mid-cycle.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopCh)
	e.mu.Unlock()

	e.logger.Info().Msg("Security monitoring stopped")
	e.notifier.Speak("Security monitoring deactivated")
}

// IsRunning reports whether the monitoring loop is active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) run(interval time.Duration, stopCh <-chan struct{}) {
	// Run immediately on start, then on every tick.
	e.cycle()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.cycle()
		case <-stopCh:
			e.logger.Debug().Msg("Monitoring loop exiting")
			return
		}
	}
}

// cycle performs one round of process, resource and connection inspection.
// A fault in any stage is logged as an operational error and never
// propagated; the loop must survive transient OS query failures.
func (e *Engine) cycle() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("Monitoring cycle panicked")
		}
	}()

	if e.retentionDays > 0 {
		e.PruneThreatLog(e.retentionDays)
	}

	if err := e.checkProcesses(); err != nil {
		e.logOperational("process inventory", err)
	}
	if err := e.checkResources(); err != nil {
		e.logOperational("resource gauge", err)
	}
	if err := e.checkConnections(); err != nil {
		e.logOperational("network connections", err)
	}
}

func (e *Engine) logOperational(stage string, err error) {
	opErr := errors.NewOperational(stage, err)
	e.logger.Error().Err(opErr).Str("stage", stage).Msg("Security monitoring error")
}

func (e *Engine) checkProcesses() error {
	snapshots, err := e.processes.Snapshot()
	if err != nil {
		return err
	}

	suspicious := 0
	for _, proc := range snapshots {
		nameLower := strings.ToLower(proc.Name)

		for _, term := range e.cfg.SuspiciousProcessNames {
			if term != "" && strings.Contains(nameLower, strings.ToLower(term)) {
				suspicious++
				e.recordThreat(threatlog.KindSuspiciousProcess, processDetails(proc))
				break
			}
		}

		if proc.CPUPercent > e.cfg.ProcessCPUThreshold && !e.whitelist.Contains(nameLower) {
			e.recordThreat(threatlog.KindHighCPUUsage, processDetails(proc))
		}
		if proc.MemoryPercent > e.cfg.ProcessMemoryThreshold && !e.whitelist.Contains(nameLower) {
			e.recordThreat(threatlog.KindHighMemoryUsage, processDetails(proc))
		}

		e.noteNewProcess(nameLower)
	}

	if suspicious > 0 {
		e.logger.Warn().Int("count", suspicious).Msg("Found suspicious processes")
	}
	return nil
}

// noteNewProcess logs names never seen before in this engine's lifetime.
// New processes are informational only, never threat entries.
func (e *Engine) noteNewProcess(nameLower string) {
	if e.whitelist.Contains(nameLower) {
		return
	}

	e.seenMu.Lock()
	_, seen := e.seenNames[nameLower]
	e.seenNames[nameLower] = struct{}{}
	e.seenMu.Unlock()

	if !seen {
		e.logger.Info().Str("name", nameLower).Msg("New process detected")
	}
}

func (e *Engine) checkResources() error {
	reading, err := e.resources.Read()
	if err != nil {
		return err
	}

	if reading.CPUPercent > e.cfg.CPUThreatThreshold {
		e.recordThreat(threatlog.KindHighSystemCPU, map[string]interface{}{
			"cpu_percent": reading.CPUPercent,
		})
	}
	if reading.MemoryPercent > e.cfg.MemoryThreatThreshold {
		e.recordThreat(threatlog.KindHighSystemMemory, map[string]interface{}{
			"memory_percent": reading.MemoryPercent,
		})
	}
	if reading.DiskPercent > e.cfg.DiskThreatThreshold {
		e.recordThreat(threatlog.KindLowDiskSpace, map[string]interface{}{
			"disk_percent": reading.DiskPercent,
		})
	}
	return nil
}

func (e *Engine) checkConnections() error {
	snapshots, err := e.connections.Snapshot()
	if err != nil {
		return err
	}

	suspicious := 0
	for _, conn := range snapshots {
		if _, ok := e.suspiciousPorts[conn.RemotePort]; !ok {
			continue
		}
		suspicious++
		e.recordThreat(threatlog.KindSuspiciousConnection, map[string]interface{}{
			"remote_ip":   conn.RemoteAddr,
			"remote_port": conn.RemotePort,
			"pid":         conn.PID,
		})
	}

	if suspicious > 0 {
		e.logger.Warn().Int("count", suspicious).Msg("Found suspicious network connections")
	}
	return nil
}

func processDetails(proc probes.ProcessSnapshot) map[string]interface{} {
	return map[string]interface{}{
		"pid":            proc.PID,
		"name":           proc.Name,
		"exe":            proc.Exe,
		"cmdline":        proc.Cmdline,
		"cpu_percent":    proc.CPUPercent,
		"memory_percent": proc.MemoryPercent,
	}
}
