package photo

import (
	"path/filepath"
	"slices"
	"strings"
)

// SidecarName is the metadata sidecar written by ExtractMetadata.
const SidecarName = "metadata.json"

// Suffixes exiftool leaves behind when rewriting files in place.
const (
	ExifToolTempSuffix   = "_exiftool_tmp"
	ExifToolBackupSuffix = "_original"
)

var rawExtensions = []string{".cr2", ".arw", ".nef"}

var metadataExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".cr2", ".arw", ".nef"}

// IsRawFile checks if the file extension is one of the supported camera RAW formats
func IsRawFile(path string) bool {
	return slices.Contains(rawExtensions, strings.ToLower(filepath.Ext(path)))
}

// IsMetadataSource reports whether metadata extraction should attempt the file
func IsMetadataSource(path string) bool {
	return slices.Contains(metadataExtensions, strings.ToLower(filepath.Ext(path)))
}

// IsJPEG checks for a .jpg or .jpeg extension in any case
func IsJPEG(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jpg" || ext == ".jpeg"
}

// BaseName strips the directory and the last extension from path
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IsTempArtifact reports whether name is a leftover from an in-place exiftool rewrite
func IsTempArtifact(name string) bool {
	return strings.HasSuffix(name, ExifToolTempSuffix) || strings.HasSuffix(name, ExifToolBackupSuffix)
}

// previewBaseName returns the base name of a generated preview, or false if
// name does not carry a .jpg extension.
func previewBaseName(name string) (string, bool) {
	ext := filepath.Ext(name)
	if !strings.EqualFold(ext, ".jpg") {
		return "", false
	}
	return strings.TrimSuffix(name, ext), true
}
