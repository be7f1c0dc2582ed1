package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// ErrSameFile is returned when a copy would overwrite its own source.
var ErrSameFile = errors.New("source and destination must not be the same")

// CopyFile streams src to dst, creating dst's parent directories. The
// source is left untouched and dst is overwritten.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return ErrSameFile
	}
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()|0o200)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// EnsureDir creates path and its parents if missing
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
