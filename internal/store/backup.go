package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// rotateBackups copies the current bytes of path to path + ".bak.<unix>" and
// deletes all but the newest keep snapshots for that file. Failures to delete
// an individual stale snapshot are logged and do not abort the save. This is
// not crash-atomic: dying between the snapshot and the final write leaves the
// target unmodified with one extra backup present.
func (s *SiteStore) rotateBackups(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read for backup: %w", err)
	}

	backupPath := fmt.Sprintf("%s.bak.%d", path, s.now().Unix())
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	matches, err := filepath.Glob(path + ".bak.*")
	if err != nil {
		return fmt.Errorf("glob backups: %w", err)
	}

	type backup struct {
		path string
		mod  int64
	}
	backups := make([]backup, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			s.log.Warn("stat backup failed", "path", m, "error", err)
			continue
		}
		backups = append(backups, backup{path: m, mod: info.ModTime().UnixNano()})
	}

	// Newest first; equal mtimes fall back to the timestamp in the name.
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].mod != backups[j].mod {
			return backups[i].mod > backups[j].mod
		}
		return backups[i].path > backups[j].path
	})

	for _, stale := range backups[min(s.keep, len(backups)):] {
		if err := os.Remove(stale.path); err != nil {
			s.log.Warn("prune backup failed", "path", stale.path, "error", err)
		}
	}
	return nil
}
