package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Usage is the on-disk footprint reported by the status endpoint.
type Usage struct {
	ContentBytes  int64 `json:"content_bytes"`
	DatabaseBytes int64 `json:"database_bytes"`
}

// DiskUsage measures the content directory and, for the SQLite backend, the database
// file with its WAL and shared-memory companions. dbPath may be empty.
func DiskUsage(contentDir, dbPath string) (Usage, error) {
	var u Usage
	var err error
	if u.ContentBytes, err = DiskUsageBytes(contentDir); err != nil {
		return u, err
	}
	if dbPath != "" && dbPath != ":memory:" {
		if u.DatabaseBytes, err = DiskUsageBytes(dbPath, dbPath+"-wal", dbPath+"-shm"); err != nil {
			return u, err
		}
	}
	return u, nil
}

// DiskUsageBytes returns the total size in bytes of the given paths.
// Each path may be a file or a directory (recursively summed).
// Missing paths are skipped; errors during walk are returned.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		n, err := dirSize(p)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
