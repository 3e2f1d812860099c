package threatlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(capacity int) *Log {
	return NewLog(capacity, zerolog.Nop())
}

// appendAt inserts an entry with a forged timestamp, for window tests.
func appendAt(l *Log, ts time.Time, kind Kind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		Timestamp: ts,
		Kind:      kind,
		Severity:  Classify(kind),
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected Severity
	}{
		{KindSuspiciousProcess, SeverityHigh},
		{KindMalwareDetected, SeverityHigh},
		{KindUnauthorizedAccess, SeverityHigh},
		{KindSuspiciousConnection, SeverityHigh},
		{KindHighCPUUsage, SeverityMedium},
		{KindHighMemoryUsage, SeverityMedium},
		{KindUnusualFileActivity, SeverityMedium},
		{KindHighSystemCPU, SeverityLow},
		{KindLowDiskSpace, SeverityLow},
		{KindFileQuarantined, SeverityLow},
		{Kind("never_seen_before"), SeverityLow},
		{Kind(""), SeverityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.kind))
		})
	}
}

func TestLogCapacityEvictsOldestFirst(t *testing.T) {
	l := newTestLog(10)

	for i := 0; i < 25; i++ {
		l.Append(KindHighCPUUsage, map[string]interface{}{"seq": i})
		assert.LessOrEqual(t, l.Len(), 10, "log must never exceed capacity")
	}

	entries := l.Snapshot()
	require.Len(t, entries, 10)

	// The survivors are the 10 most recent appends, in arrival order.
	for i, e := range entries {
		assert.Equal(t, 15+i, e.Details["seq"])
	}
}

func TestLogAppendAssignsSeverityAndTimestamp(t *testing.T) {
	l := newTestLog(0) // falls back to DefaultCapacity

	before := time.Now()
	entry := l.Append(KindSuspiciousProcess, map[string]interface{}{"name": "keylogger.exe"})
	after := time.Now()

	assert.Equal(t, SeverityHigh, entry.Severity)
	assert.False(t, entry.Timestamp.Before(before))
	assert.False(t, entry.Timestamp.After(after))
	assert.Equal(t, 1, l.Len())
}

func TestLogQuerySince(t *testing.T) {
	l := newTestLog(100)
	now := time.Now()

	appendAt(l, now.Add(-2*time.Hour), KindHighCPUUsage)
	appendAt(l, now.Add(-30*time.Minute), KindSuspiciousProcess)
	appendAt(l, now.Add(-time.Minute), KindLowDiskSpace)

	recent := l.Query(now.Add(-time.Hour))
	require.Len(t, recent, 2)
	assert.Equal(t, KindSuspiciousProcess, recent[0].Kind)
	assert.Equal(t, KindLowDiskSpace, recent[1].Kind)

	total, high := l.CountSince(now.Add(-time.Hour))
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, high)
}

func TestLogSummarizeWindow(t *testing.T) {
	l := newTestLog(100)
	now := time.Now()

	// Inside the 24h window: 2 high, 1 medium.
	appendAt(l, now.Add(-time.Hour), KindSuspiciousProcess)
	appendAt(l, now.Add(-2*time.Hour), KindSuspiciousConnection)
	appendAt(l, now.Add(-3*time.Hour), KindHighMemoryUsage)

	// Outside the window: 5 entries.
	for i := 0; i < 5; i++ {
		appendAt(l, now.Add(-time.Duration(25+i)*time.Hour), KindSuspiciousProcess)
	}

	summary := l.Summarize(24 * time.Hour)
	assert.Equal(t, "Last 24 hours", summary.TimePeriod)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.High)
	assert.Equal(t, 1, summary.Medium)
	assert.Equal(t, 0, summary.Low)
	assert.Equal(t, 2, summary.ByKind[KindSuspiciousProcess])
	assert.Equal(t, 1, summary.ByKind[KindHighMemoryUsage])
}

func TestLogPrune(t *testing.T) {
	l := newTestLog(100)
	now := time.Now()

	appendAt(l, now.Add(-40*24*time.Hour), KindHighCPUUsage)
	appendAt(l, now.Add(-31*24*time.Hour), KindHighCPUUsage)
	appendAt(l, now.Add(-time.Hour), KindSuspiciousProcess)

	removed := l.Prune(30 * 24 * time.Hour)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, KindSuspiciousProcess, l.Snapshot()[0].Kind)

	assert.Equal(t, 0, l.Prune(30*24*time.Hour))
}

func TestLogExport(t *testing.T) {
	l := newTestLog(100)
	l.Append(KindSuspiciousProcess, map[string]interface{}{"name": "trojan.exe", "pid": 42})
	l.Append(KindHighCPUUsage, map[string]interface{}{"cpu_percent": 99.1})

	dir := t.TempDir()
	path, err := l.Export(dir, "")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "threat_log_"), "generated name: %s", base)
	assert.True(t, strings.HasSuffix(base, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "suspicious_process", entries[0]["type"])
	assert.Equal(t, "high", entries[0]["severity"])
	assert.NotEmpty(t, entries[0]["timestamp"])
	details, ok := entries[0]["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "trojan.exe", details["name"])

	// Explicit filename is honored.
	path, err = l.Export(dir, "custom.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom.json"), path)
}

func TestLogExportEmpty(t *testing.T) {
	l := newTestLog(10)

	path, err := l.Export(t.TempDir(), "empty.json")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestLogConcurrentAppend(t *testing.T) {
	l := newTestLog(50)
	done := make(chan struct{})

	for w := 0; w < 4; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				l.Append(KindHighCPUUsage, map[string]interface{}{"writer": fmt.Sprint(w)})
			}
		}(w)
	}
	for w := 0; w < 4; w++ {
		<-done
	}

	assert.Equal(t, 50, l.Len())
}
