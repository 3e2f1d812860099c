package threatlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/aegis-watch/aegisd/pkg/errors"
)

// Export writes the full ordered entry sequence as an indented JSON array
// under dir and returns the path written. When filename is empty a
// timestamped name of the form threat_log_<timestamp>.json is generated.
func (l *Log) Export(dir, filename string) (string, error) {
	if filename == "" {
		filename = "threat_log_" + time.Now().Format("20060102_150405") + ".json"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewIO("mkdir", dir, err)
	}

	entries := l.Snapshot()
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", errors.NewIO("marshal", filename, err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.NewIO("write", path, err)
	}

	l.logger.Info().Str("path", path).Int("entries", len(entries)).Msg("Threat log exported")
	return path, nil
}
