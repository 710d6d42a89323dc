package engine

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to destPath via a temp file in the destination
// directory followed by a rename, so a reader never observes a partially
// written output. Intermediate directories are created as needed.
func writeFileAtomic(destPath string, data []byte) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(destDir, "mpix-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), destPath)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
