// Package engine ties the probes, the file scanner, the quarantine manager
// and the threat log into one explicitly constructed instance with a
// start/run/stop lifecycle. The command-dispatch layer talks to this type
// and nothing else.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aegis-watch/aegisd/pkg/config"
	"github.com/aegis-watch/aegisd/pkg/notify"
	"github.com/aegis-watch/aegisd/pkg/probes"
	"github.com/aegis-watch/aegisd/pkg/quarantine"
	"github.com/aegis-watch/aegisd/pkg/scanner"
	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

// Deps are the collaborators an Engine is constructed from.
type Deps struct {
	Config        config.SecurityConfig
	Threats       *threatlog.Log
	Processes     probes.ProcessLister
	Connections   probes.ConnectionLister
	Resources     probes.ResourceGauge
	Scanner       *scanner.Scanner
	Quarantine    *quarantine.Manager
	Notifier      notify.Notifier
	LogDir        string
	RetentionDays int
	Logger        zerolog.Logger
}

// Engine is the security monitoring and threat detection engine.
type Engine struct {
	cfg           config.SecurityConfig
	threats       *threatlog.Log
	processes     probes.ProcessLister
	connections   probes.ConnectionLister
	resources     probes.ResourceGauge
	scanner       *scanner.Scanner
	jail          *quarantine.Manager
	notifier      notify.Notifier
	whitelist     *Whitelist
	logDir        string
	retentionDays int
	logger        zerolog.Logger

	suspiciousPorts map[uint32]struct{}

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	seenMu    sync.Mutex
	seenNames map[string]struct{}
}

func New(deps Deps) *Engine {
	ports := make(map[uint32]struct{}, len(deps.Config.SuspiciousPorts))
	for _, p := range deps.Config.SuspiciousPorts {
		ports[p] = struct{}{}
	}

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}

	return &Engine{
		cfg:             deps.Config,
		threats:         deps.Threats,
		processes:       deps.Processes,
		connections:     deps.Connections,
		resources:       deps.Resources,
		scanner:         deps.Scanner,
		jail:            deps.Quarantine,
		notifier:        notifier,
		whitelist:       NewWhitelist(),
		logDir:          deps.LogDir,
		retentionDays:   deps.RetentionDays,
		logger:          deps.Logger.With().Str("component", "engine").Logger(),
		suspiciousPorts: ports,
		seenNames:       make(map[string]struct{}),
	}
}

// recordThreat appends an entry and raises an immediate notice when the
// classification is high severity.
func (e *Engine) recordThreat(kind threatlog.Kind, details map[string]interface{}) {
	entry := e.threats.Append(kind, details)
	if entry.Severity == threatlog.SeverityHigh {
		e.notifier.Speak(fmt.Sprintf("Security alert: %s detected", kind))
	}
}

// ScanFile runs the file scanner against a single path.
func (e *Engine) ScanFile(path string) (*scanner.FileScanResult, error) {
	return e.scanner.Scan(path)
}

// QuarantineFile relocates a flagged file into the quarantine directory.
func (e *Engine) QuarantineFile(path string) (*quarantine.Record, error) {
	return e.jail.Quarantine(path)
}

// QuarantinedFiles lists the basenames currently held in quarantine.
func (e *Engine) QuarantinedFiles() ([]string, error) {
	return e.jail.List()
}

// ThreatSummary aggregates the threats recorded in the last `hours` hours.
func (e *Engine) ThreatSummary(hours int) threatlog.Summary {
	if hours <= 0 {
		hours = 24
	}
	return e.threats.Summarize(time.Duration(hours) * time.Hour)
}

// ExportThreatLog writes the full threat log under the configured log
// directory and returns the path written.
func (e *Engine) ExportThreatLog(filename string) (string, error) {
	return e.threats.Export(e.logDir, filename)
}

// PruneThreatLog removes entries older than the given number of days.
func (e *Engine) PruneThreatLog(days int) int {
	return e.threats.Prune(time.Duration(days) * 24 * time.Hour)
}

// AddWhitelist exempts a process name from resource anomaly flags.
func (e *Engine) AddWhitelist(name string) {
	e.whitelist.Add(name)
	e.logger.Info().Str("process", name).Msg("Added to whitelist")
	e.notifier.Speak(fmt.Sprintf("Process %s added to security whitelist", name))
}

// RemoveWhitelist drops a process name from the whitelist. It reports
// whether the name was present.
func (e *Engine) RemoveWhitelist(name string) bool {
	if !e.whitelist.Remove(name) {
		return false
	}
	e.logger.Info().Str("process", name).Msg("Removed from whitelist")
	e.notifier.Speak(fmt.Sprintf("Process %s removed from security whitelist", name))
	return true
}

// WhitelistedProcesses returns the current whitelist, sorted.
func (e *Engine) WhitelistedProcesses() []string {
	return e.whitelist.Names()
}
