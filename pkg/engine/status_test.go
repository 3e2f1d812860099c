package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aegis-watch/aegisd/pkg/probes"
	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

func TestStatusGood(t *testing.T) {
	te := newTestEngine(t)

	status := te.engine.Status()
	assert.False(t, status.MonitoringActive)
	assert.Equal(t, HealthGood, status.SystemHealth)
	assert.Empty(t, status.Recommendations)
	assert.Equal(t, 0, status.RecentThreats)
	assert.Equal(t, 0, status.TotalThreats)
}

func TestStatusCriticalOnDiskPressure(t *testing.T) {
	te := newTestEngine(t)
	te.gauge.reading = probes.ResourceReading{CPUPercent: 10, MemoryPercent: 20, DiskPercent: 96}

	status := te.engine.Status()
	assert.Equal(t, HealthCritical, status.SystemHealth)

	found := false
	for _, rec := range status.Recommendations {
		if rec == "Low disk space - cleanup recommended" {
			found = true
		}
	}
	assert.True(t, found, "expected a disk-related recommendation, got %v", status.Recommendations)
}

func TestStatusWarningsAccumulate(t *testing.T) {
	te := newTestEngine(t)
	te.gauge.reading = probes.ResourceReading{CPUPercent: 85, MemoryPercent: 90, DiskPercent: 30}

	status := te.engine.Status()
	assert.Equal(t, HealthWarning, status.SystemHealth)
	assert.Contains(t, status.Recommendations, "High CPU usage detected")
	assert.Contains(t, status.Recommendations, "High memory usage detected")
}

func TestStatusCriticalOnRecentHighSeverityThreat(t *testing.T) {
	te := newTestEngine(t)
	te.threats.Append(threatlog.KindSuspiciousProcess, map[string]interface{}{"name": "trojan.exe"})

	status := te.engine.Status()
	assert.Equal(t, HealthCritical, status.SystemHealth)
	assert.Contains(t, status.Recommendations, "Recent high-severity threats detected")
	assert.Equal(t, 1, status.RecentThreats)
	assert.Equal(t, 1, status.TotalThreats)
}

func TestStatusLowSeverityThreatsDoNotEscalate(t *testing.T) {
	te := newTestEngine(t)
	te.threats.Append(threatlog.KindLowDiskSpace, map[string]interface{}{"disk_percent": 96.0})

	status := te.engine.Status()
	assert.Equal(t, HealthGood, status.SystemHealth)
	assert.Equal(t, 1, status.RecentThreats)
}

func TestStatusDegradedWhenGaugeUnavailable(t *testing.T) {
	te := newTestEngine(t)
	te.gauge.err = fmt.Errorf("metrics source went away")

	status := te.engine.Status()
	assert.Equal(t, HealthWarning, status.SystemHealth)
	assert.Contains(t, status.Recommendations, "System metrics unavailable")
}
