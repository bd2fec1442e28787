// Package snapshot persists the full entry collection as a single
// pretty-printed JSON array. Every write replaces the file atomically, so a
// reader never observes a partially-written snapshot.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spark-journal/core/internal/models"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Load reads the snapshot at path. A missing, unreadable or non-JSON file
// degrades to an empty collection: entries is always usable and the error is
// diagnostic only. Callers cannot distinguish "truly empty" from "corrupt"
// under this policy.
func Load(path string) ([]models.Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Entry{}, nil
		}
		return []models.Entry{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var entries []models.Entry
	if err := json.Unmarshal(content, &entries); err != nil {
		return []models.Entry{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// Save writes entries to path as an indented JSON array. The content goes to
// a temporary file in the same directory first and is moved into place with
// an atomic rename; on any failure the temp file is discarded and the prior
// snapshot stays intact.
func Save(path string, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp snapshot %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp snapshot %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp snapshot %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}
	return nil
}
