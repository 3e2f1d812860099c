package threatlog

import (
	"fmt"
	"time"
)

// Summary aggregates the threats recorded inside a time window. Key names
// match the exported threat log records.
type Summary struct {
	Total      int          `json:"total_threats"`
	High       int          `json:"high_severity"`
	Medium     int          `json:"medium_severity"`
	Low        int          `json:"low_severity"`
	ByKind     map[Kind]int `json:"threat_types"`
	TimePeriod string       `json:"time_period"`
}

// Summarize reports totals, per-severity counts and per-kind counts for the
// entries recorded in the last `window`.
func (l *Log) Summarize(window time.Duration) Summary {
	cutoff := time.Now().Add(-window)

	summary := Summary{
		ByKind:     make(map[Kind]int),
		TimePeriod: fmt.Sprintf("Last %d hours", int(window.Hours())),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if !e.Timestamp.After(cutoff) {
			continue
		}
		summary.Total++
		switch e.Severity {
		case SeverityHigh:
			summary.High++
		case SeverityMedium:
			summary.Medium++
		case SeverityLow:
			summary.Low++
		}
		summary.ByKind[e.Kind]++
	}

	return summary
}
