package utils

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

var (
	networkMountPrefixes = []string{
		"/mnt/",     // Linux NFS/SMB mounts
		"/media/",   // Linux removable/network media
		"/Volumes/", // macOS network volumes
	}

	networkPathIndicators = []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp"}

	networkFSTypes = map[string]bool{
		"nfs": true, "nfs4": true, "cifs": true, "smb3": true, "smbfs": true,
		"afpfs": true, "davfs": true, "fuse.sshfs": true, "fuse.rclone": true,
	}

	// mountTable is swapped out in tests
	mountTable = readMountTable
)

// Mount is one entry of the system mount table
type Mount struct {
	Point  string
	FSType string
}

// IsNetworkDrive reports whether a RAW folder likely lives on a network share.
// Parallel exiftool runs against such shares thrash, so callers drop to one worker.
func IsNetworkDrive(filePath string) bool {
	// UNC paths are checked before filepath.Abs mangles them
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	if fsType := mountFSType(absPath, mountTable()); fsType != "" && networkFSTypes[fsType] {
		return true
	}

	for _, prefix := range networkMountPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range networkPathIndicators {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}
	return false
}

// mountFSType returns the filesystem type of the longest mount point
// containing path, or "" when no mount matches.
func mountFSType(path string, mounts []Mount) string {
	best, fsType := -1, ""
	for _, m := range mounts {
		point := strings.TrimSuffix(m.Point, "/")
		if path != point && !strings.HasPrefix(path, point+"/") {
			continue
		}
		if len(point) > best {
			best, fsType = len(point), m.FSType
		}
	}
	return fsType
}

// readMountTable parses /proc/self/mounts. Platforms without it get an empty table.
func readMountTable() []Mount {
	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		return nil
	}
	defer f.Close()

	var mounts []Mount
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, Mount{Point: unescapeMount(fields[1]), FSType: fields[2]})
	}
	return mounts
}

// unescapeMount decodes the octal escapes the kernel uses for spaces and tabs
func unescapeMount(s string) string {
	return strings.NewReplacer(`\040`, " ", `\011`, "\t", `\134`, `\`).Replace(s)
}
