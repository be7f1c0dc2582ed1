package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ResourceDirName is the directory bundled tools ship in, next to the binary
// when packaged or in the working directory during development.
const ResourceDirName = "resources"

// ErrToolNotFound is returned when no lookup location holds the tool.
var ErrToolNotFound = errors.New("tool not found")

// Resolver maps a tool name to an executable path.
//
// Lookup order: the configured resource dir, the packaged layout
// (<executable dir>/resources), the development layout (<cwd>/resources),
// then PATH.
type Resolver struct {
	resourceDir string
	executable  func() (string, error)
	getwd       func() (string, error)
	lookPath    func(string) (string, error)
}

// NewResolver returns a Resolver; resourceDir may be empty.
func NewResolver(resourceDir string) *Resolver {
	return &Resolver{
		resourceDir: resourceDir,
		executable:  os.Executable,
		getwd:       os.Getwd,
		lookPath:    exec.LookPath,
	}
}

// Candidates returns the filesystem locations checked for tool, in order.
func (r *Resolver) Candidates(tool string) []string {
	name := executableName(tool)
	var dirs []string
	if r.resourceDir != "" {
		dirs = append(dirs, r.resourceDir)
	}
	if exe, err := r.executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), ResourceDirName))
	}
	if wd, err := r.getwd(); err == nil {
		dirs = append(dirs, filepath.Join(wd, ResourceDirName))
	}

	candidates := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	return candidates
}

// Locate returns the path of the first usable candidate for tool.
func (r *Resolver) Locate(tool string) (string, error) {
	if filepath.IsAbs(tool) {
		if isRegularFile(tool) {
			return tool, nil
		}
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	for _, candidate := range r.Candidates(tool) {
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}
	if path, err := r.lookPath(executableName(tool)); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrToolNotFound, tool)
}

func executableName(tool string) string {
	if runtime.GOOS == "windows" && filepath.Ext(tool) == "" {
		return tool + ".exe"
	}
	return tool
}

func isRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
