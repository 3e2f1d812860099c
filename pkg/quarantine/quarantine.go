// Package quarantine isolates flagged files by relocating them into a
// dedicated directory. Files are moved, never copied in place, and every
// move is recorded in the threat log before the call returns.
package quarantine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aegis-watch/aegisd/pkg/errors"
	"github.com/aegis-watch/aegisd/pkg/notify"
	"github.com/aegis-watch/aegisd/pkg/threatlog"
)

// Record describes one completed quarantine action.
type Record struct {
	OriginalPath   string    `json:"original_path"`
	QuarantinePath string    `json:"quarantine_path"`
	QuarantinedAt  time.Time `json:"quarantined_at"`
}

// Manager moves flagged files into the quarantine directory.
type Manager struct {
	dir      string
	threats  *threatlog.Log
	notifier notify.Notifier
	logger   zerolog.Logger
}

func NewManager(dir string, threats *threatlog.Log, notifier notify.Notifier, logger zerolog.Logger) *Manager {
	return &Manager{
		dir:      dir,
		threats:  threats,
		notifier: notifier,
		logger:   logger.With().Str("component", "quarantine").Logger(),
	}
}

// Quarantine moves the file at path into the quarantine directory under a
// timestamped name and logs a file_quarantined threat entry. The directory
// is created on first use.
func (m *Manager) Quarantine(path string) (*Record, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewIO("stat", path, err)
	}

	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return nil, errors.NewIO("mkdir", m.dir, err)
	}

	filename := filepath.Base(path)
	destName := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filename)
	destPath := filepath.Join(m.dir, destName)

	if err := moveFile(path, destPath); err != nil {
		return nil, err
	}

	record := &Record{
		OriginalPath:   path,
		QuarantinePath: destPath,
		QuarantinedAt:  time.Now(),
	}

	m.threats.Append(threatlog.KindFileQuarantined, map[string]interface{}{
		"original_path":   record.OriginalPath,
		"quarantine_path": record.QuarantinePath,
		"quarantined_at":  record.QuarantinedAt.Format(time.RFC3339),
	})

	m.logger.Info().
		Str("original_path", path).
		Str("quarantine_path", destPath).
		Msg("File quarantined")

	if m.notifier != nil {
		m.notifier.Speak(fmt.Sprintf("Suspicious file quarantined: %s", filename))
	}

	return record, nil
}

// List returns the basenames currently held in the quarantine directory.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIO("readdir", m.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// moveFile renames src to dst, falling back to copy-then-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.NewIO("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.NewIO("create", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return errors.NewIO("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return errors.NewIO("close", dst, err)
	}

	in.Close()
	if err := os.Remove(src); err != nil {
		return errors.NewIO("remove", src, err)
	}
	return nil
}
