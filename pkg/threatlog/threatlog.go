// Package threatlog records detected anomalies in an append-only, bounded,
// time-queryable log. The log is shared between the monitoring loop, the
// file scanner, the quarantine manager and status reporting, so every
// access path holds the mutex.
package threatlog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Severity classifies how urgent a threat entry is. High severity drives an
// immediate user notice; medium and low are recorded only.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Kind names the category of a detected anomaly.
type Kind string

const (
	KindSuspiciousProcess    Kind = "suspicious_process"
	KindMalwareDetected      Kind = "malware_detected"
	KindUnauthorizedAccess   Kind = "unauthorized_access"
	KindSuspiciousConnection Kind = "suspicious_network_connection"
	KindHighCPUUsage         Kind = "high_cpu_usage"
	KindHighMemoryUsage      Kind = "high_memory_usage"
	KindUnusualFileActivity  Kind = "unusual_file_activity"
	KindHighSystemCPU        Kind = "high_system_cpu"
	KindHighSystemMemory     Kind = "high_system_memory"
	KindLowDiskSpace         Kind = "low_disk_space"
	KindFileThreatDetected   Kind = "file_threat_detected"
	KindFileQuarantined      Kind = "file_quarantined"
)

// Entry is one recorded anomaly. Entries are immutable once created and
// owned exclusively by the Log.
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Kind      Kind                   `json:"type"`
	Severity  Severity               `json:"severity"`
	Details   map[string]interface{} `json:"details"`
}

// Classify maps a threat kind to its severity. The table is fixed; any
// unrecognized kind is low.
func Classify(kind Kind) Severity {
	switch kind {
	case KindSuspiciousProcess, KindMalwareDetected, KindUnauthorizedAccess, KindSuspiciousConnection:
		return SeverityHigh
	case KindHighCPUUsage, KindHighMemoryUsage, KindUnusualFileActivity:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 1000

// Log is the bounded threat record. Oldest entries are evicted first once
// the capacity is exceeded.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	logger   zerolog.Logger
}

// NewLog creates a threat log holding at most capacity entries.
func NewLog(capacity int, logger zerolog.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		logger:   logger.With().Str("component", "threatlog").Logger(),
	}
}

// Append records a new threat. The timestamp is assigned here and the
// severity comes from the fixed classification table. The created entry is
// returned so callers can decide whether to raise a notice.
func (l *Log) Append(kind Kind, details map[string]interface{}) Entry {
	entry := Entry{
		Timestamp: time.Now(),
		Kind:      kind,
		Severity:  Classify(kind),
		Details:   details,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if overflow := len(l.entries) - l.capacity; overflow > 0 {
		l.entries = l.entries[overflow:]
	}
	l.mu.Unlock()

	l.logger.Warn().
		Str("kind", string(kind)).
		Str("severity", string(entry.Severity)).
		Interface("details", details).
		Msg("Security threat recorded")

	return entry
}

// Len returns the current number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Query returns the entries recorded after the given cutoff, oldest first.
func (l *Log) Query(since time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range l.entries {
		if e.Timestamp.After(since) {
			out = append(out, e)
		}
	}
	return out
}

// CountSince returns how many entries are newer than the cutoff, and how
// many of those are high severity.
func (l *Log) CountSince(since time.Time) (total, high int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.Timestamp.After(since) {
			total++
			if e.Severity == SeverityHigh {
				high++
			}
		}
	}
	return total, high
}

// Snapshot returns a copy of the full ordered entry sequence.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Prune removes entries older than now minus the given duration and returns
// how many were removed.
func (l *Log) Prune(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)

	l.mu.Lock()
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	removed := len(l.entries) - len(kept)
	l.entries = kept
	l.mu.Unlock()

	if removed > 0 {
		l.logger.Info().Int("removed", removed).Msg("Pruned old threat log entries")
	}
	return removed
}
