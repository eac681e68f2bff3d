package textio

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile writes content to path via a temp file and rename.
//
// The temp file is created in the same directory as the target so the
// rename stays on one filesystem. The file descriptor is flushed and
// fsynced before the rename, and the containing directory is fsynced after
// it where the platform supports that. On any failure the temp file is
// removed; a failed removal leaks a stale temp file rather than masking
// the original error.
func AtomicWriteFile(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".lep-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing content: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing to disk: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	success = true

	// Make the rename itself durable. Not every platform supports fsync
	// on directories; the write outcome is already determined here, so a
	// failure is ignored the same way temp cleanup failures are.
	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}

	return nil
}
