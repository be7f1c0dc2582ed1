package utils

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/lepinkainen/photopipe/runner"
)

// Requirement describes an external tool photopipe shells out to
type Requirement struct {
	Name        string
	Tool        string
	Description string
	Optional    bool
}

// ToolStatus reports whether a requirement could be located
type ToolStatus struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// DefaultRequirements lists the tools the processing pipeline needs
func DefaultRequirements(resizeTool, exifTool string) []Requirement {
	return []Requirement{
		{Name: "Resize", Tool: resizeTool, Description: "Resizes RAW originals into the output folder"},
		{Name: "ExifTool", Tool: exifTool, Description: "Extracts previews and copies metadata tags"},
	}
}

// CheckTools resolves every requirement and reports availability
func CheckTools(resolver *runner.Resolver, reqs []Requirement) []ToolStatus {
	results := make([]ToolStatus, 0, len(reqs))
	for _, req := range reqs {
		req.Tool = strings.TrimSpace(req.Tool)
		status := ToolStatus{Requirement: req}
		if req.Tool == "" {
			status.Detail = "tool not configured"
			results = append(results, status)
			continue
		}
		path, err := resolver.Locate(req.Tool)
		if err != nil {
			status.Detail = fmt.Sprintf("%q not found in %s", req.Tool, strings.Join(resolver.Candidates(req.Tool), ", "))
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// ValidateToolDependencies fails on the first missing required tool
func ValidateToolDependencies(resolver *runner.Resolver, reqs []Requirement) error {
	for _, status := range CheckTools(resolver, reqs) {
		if status.Available || status.Optional {
			continue
		}
		return fmt.Errorf("%s not found. %s", status.Tool, getInstallationInstructions(status.Tool))
	}
	return nil
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions(tool string) string {
	if !strings.Contains(strings.ToLower(tool), "exiftool") {
		return fmt.Sprintf("Place the %s binary in the %q directory next to photopipe or add it to PATH", tool, runner.ResourceDirName)
	}
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install exiftool"
	case "linux":
		return "Install with: apt-get install libimage-exiftool-perl (Ubuntu/Debian) or yum install perl-Image-ExifTool (CentOS/RHEL)"
	case "windows":
		return "Download from https://exiftool.org and add to PATH"
	default:
		return "Download from https://exiftool.org"
	}
}
