package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aegis-watch/aegisd/pkg/errors"
	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

// Finding is one heuristic hit recorded against a scanned file.
type Finding struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

const (
	FindingSuspiciousExtension = "suspicious_extension"
	FindingLargeFileSize       = "large_file_size"
	FindingHighEntropy         = "high_entropy"
	FindingKnownMalwareHash    = "known_malware_hash"
)

// FileScanResult is the per-file verdict. It is produced per invocation and
// persisted only through the resulting threat entry when unsafe.
type FileScanResult struct {
	Path      string    `json:"file_path"`
	Size      int64     `json:"file_size"`
	ScanTime  time.Time `json:"scan_time"`
	Digest    string    `json:"file_hash"`
	Entropy   float64   `json:"entropy"`
	Extension string    `json:"extension"`
	Findings  []Finding `json:"threats_found"`
	IsSafe    bool      `json:"is_safe"`
}

// Options are the configured scan heuristics.
type Options struct {
	LargeFileThreshold  int64
	EntropyThreshold    float64
	DangerousExtensions []string
}

// Scanner orchestrates the heuristic checks into a per-file verdict and
// records unsafe results in the threat log.
type Scanner struct {
	opts       Options
	extensions map[string]struct{}
	reputation Reputation
	threats    *threatlog.Log
	logger     zerolog.Logger
}

func NewScanner(opts Options, reputation Reputation, threats *threatlog.Log, logger zerolog.Logger) *Scanner {
	extensions := make(map[string]struct{}, len(opts.DangerousExtensions))
	for _, ext := range opts.DangerousExtensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{
		opts:       opts,
		extensions: extensions,
		reputation: reputation,
		threats:    threats,
		logger:     logger.With().Str("component", "scanner").Logger(),
	}
}

// Scan inspects a single file. Each heuristic contributes zero or one
// finding and all findings accumulate; a heuristic that cannot complete is
// skipped rather than aborting the scan. Only a missing path or a wholly
// unreadable file fails the operation.
func (s *Scanner) Scan(path string) (*FileScanResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewIO("stat", path, err)
	}
	if info.IsDir() {
		return nil, errors.NewIO("scan", path, fmt.Errorf("is a directory"))
	}

	// Probe readability up front; a file we cannot open at all fails the
	// whole scan instead of silently producing an empty verdict.
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	f.Close()

	result := &FileScanResult{
		Path:      path,
		Size:      info.Size(),
		ScanTime:  time.Now(),
		Extension: strings.ToLower(filepath.Ext(path)),
	}

	if _, ok := s.extensions[result.Extension]; ok && result.Extension != "" {
		result.Findings = append(result.Findings, Finding{
			Type:        FindingSuspiciousExtension,
			Description: fmt.Sprintf("File has potentially dangerous extension: %s", result.Extension),
		})
	}

	if result.Size > s.opts.LargeFileThreshold {
		result.Findings = append(result.Findings, Finding{
			Type:        FindingLargeFileSize,
			Description: fmt.Sprintf("Unusually large file: %d bytes", result.Size),
		})
	}

	if entropy, err := Entropy(path, entropyBlockSize); err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("Entropy check skipped")
	} else {
		result.Entropy = entropy
		if entropy > s.opts.EntropyThreshold {
			result.Findings = append(result.Findings, Finding{
				Type:        FindingHighEntropy,
				Description: fmt.Sprintf("High entropy detected: %.2f (possible encryption/packing)", entropy),
			})
		}
	}

	if digest, err := Digest(path, "sha256"); err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("Hash check skipped")
	} else {
		result.Digest = digest
		if s.reputation != nil && s.reputation.IsKnownBad(digest) {
			result.Findings = append(result.Findings, Finding{
				Type:        FindingKnownMalwareHash,
				Description: "File hash matches known malware signature",
			})
		}
	}

	result.IsSafe = len(result.Findings) == 0

	if !result.IsSafe && s.threats != nil {
		s.threats.Append(threatlog.KindFileThreatDetected, result.Details())
	}

	s.logger.Info().
		Str("path", path).
		Bool("is_safe", result.IsSafe).
		Int("findings", len(result.Findings)).
		Msg("File scan completed")

	return result, nil
}

// Details renders the result as a threat entry payload, keyed the same way
// the exported log records are.
func (r *FileScanResult) Details() map[string]interface{} {
	findings := make([]map[string]interface{}, 0, len(r.Findings))
	for _, f := range r.Findings {
		findings = append(findings, map[string]interface{}{
			"type":        f.Type,
			"description": f.Description,
		})
	}
	return map[string]interface{}{
		"file_path":     r.Path,
		"file_size":     r.Size,
		"file_hash":     r.Digest,
		"entropy":       r.Entropy,
		"threats_found": findings,
	}
}
