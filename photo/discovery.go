package photo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// listFiles returns the names of regular files directly inside dir, in
// directory listing order.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryAccessError{Op: "list", Path: dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// CountRawFiles counts the RAW files directly inside dir
func CountRawFiles(dir string) (int, error) {
	names, err := listFiles(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, name := range names {
		if IsRawFile(name) {
			n++
		}
	}
	return n, nil
}

// EnsureOutputDir creates dir if it does not exist yet.
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &DirectoryAccessError{Op: "create", Path: dir, Err: err}
	}
	return nil
}

// CleanupTempFiles deletes exiftool temp and backup artifacts from dir and
// returns the names it removed.
func CleanupTempFiles(dir string) ([]string, error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	var removed []string
	var errs []error
	for _, name := range names {
		if !IsTempArtifact(name) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
			continue
		}
		removed = append(removed, name)
	}
	return removed, errors.Join(errs...)
}
