package photo

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestCleanupTempFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"IMG_01.jpg",
		"IMG_01.jpg_original",
		"IMG_02.jpg_exiftool_tmp",
		"metadata.json",
	)
	if err := os.Mkdir(filepath.Join(dir, "nested_original"), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := CleanupTempFiles(dir)
	if err != nil {
		t.Fatalf("CleanupTempFiles() error = %v", err)
	}
	slices.Sort(removed)
	expected := []string{"IMG_01.jpg_original", "IMG_02.jpg_exiftool_tmp"}
	if !slices.Equal(removed, expected) {
		t.Errorf("removed = %v, expected %v", removed, expected)
	}

	for _, keep := range []string{"IMG_01.jpg", "metadata.json", "nested_original"} {
		if _, err := os.Stat(filepath.Join(dir, keep)); err != nil {
			t.Errorf("%s should be kept: %v", keep, err)
		}
	}
}

func TestCleanupTempFiles_NonExistentDirectory(t *testing.T) {
	_, err := CleanupTempFiles(filepath.Join(t.TempDir(), "missing"))
	var dirErr *DirectoryAccessError
	if !errors.As(err, &dirErr) {
		t.Fatalf("expected DirectoryAccessError, got %v", err)
	}
	if dirErr.Op != "list" {
		t.Errorf("Op = %q, expected list", dirErr.Op)
	}
}

func TestEnsureOutputDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	for i := 0; i < 2; i++ {
		if err := EnsureOutputDir(dir); err != nil {
			t.Fatalf("EnsureOutputDir() call %d error = %v", i+1, err)
		}
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("expected directory at %s", dir)
	}
}

func TestEnsureOutputDir_BlockedByFile(t *testing.T) {
	parent := t.TempDir()
	touch(t, parent, "blocker")

	err := EnsureOutputDir(filepath.Join(parent, "blocker", "out"))
	var dirErr *DirectoryAccessError
	if !errors.As(err, &dirErr) || dirErr.Op != "create" {
		t.Fatalf("expected create DirectoryAccessError, got %v", err)
	}
}

func TestCountRawFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "IMG_01.CR2", "DSC_02.arw", "DSC_03.NEF", "IMG_01.jpg", "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "nested.cr2"), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := CountRawFiles(dir)
	if err != nil {
		t.Fatalf("CountRawFiles() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 RAW files, got %d", n)
	}

	if _, err := CountRawFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
