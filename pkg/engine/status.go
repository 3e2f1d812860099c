package engine

import (
	"time"

	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

// Health levels for SecurityStatus.
const (
	HealthGood     = "good"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// SecurityStatus is the derived health view. It is computed on demand and
// never stored.
type SecurityStatus struct {
	MonitoringActive bool      `json:"monitoring_active"`
	RecentThreats    int       `json:"recent_threats"`
	TotalThreats     int       `json:"total_threats_logged"`
	LastScan         time.Time `json:"last_scan"`
	SystemHealth     string    `json:"system_health"`
	Recommendations  []string  `json:"recommendations"`
}

// Status reads the resource gauge live, counts recent threats and derives
// the overall system health. Recommendations accumulate per triggered
// condition; they are not exclusive.
func (e *Engine) Status() SecurityStatus {
	now := time.Now()
	recent, _ := e.threats.CountSince(now.Add(-24 * time.Hour))

	status := SecurityStatus{
		MonitoringActive: e.IsRunning(),
		RecentThreats:    recent,
		TotalThreats:     e.threats.Len(),
		LastScan:         now,
		SystemHealth:     HealthGood,
		Recommendations:  []string{},
	}

	reading, err := e.resources.Read()
	if err != nil {
		// A dead gauge is itself a degraded state, surfaced here rather
		// than as an error to the caller.
		status.SystemHealth = HealthWarning
		status.Recommendations = append(status.Recommendations, "System metrics unavailable")
	} else {
		if reading.CPUPercent > e.cfg.CPUWarningThreshold {
			status.SystemHealth = HealthWarning
			status.Recommendations = append(status.Recommendations, "High CPU usage detected")
		}
		if reading.MemoryPercent > e.cfg.MemoryWarningThreshold {
			status.SystemHealth = HealthWarning
			status.Recommendations = append(status.Recommendations, "High memory usage detected")
		}
		if reading.DiskPercent > e.cfg.DiskWarningThreshold {
			status.SystemHealth = HealthCritical
			status.Recommendations = append(status.Recommendations, "Low disk space - cleanup recommended")
		}
	}

	if e.recentHighSeverity(now.Add(-time.Hour)) {
		status.SystemHealth = HealthCritical
		status.Recommendations = append(status.Recommendations, "Recent high-severity threats detected")
	}

	return status
}

func (e *Engine) recentHighSeverity(since time.Time) bool {
	for _, entry := range e.threats.Query(since) {
		if entry.Severity == threatlog.SeverityHigh {
			return true
		}
	}
	return false
}
