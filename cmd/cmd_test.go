package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/photopipe/config"
	"github.com/lepinkainen/photopipe/types"
)

// testApp returns an AppContext writing to a buffer and resolving tools
// from resourceDir only.
func testApp(t *testing.T, resourceDir string) (*types.AppContext, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Tools.ResourceDir = resourceDir
	cfg.Tools.Resize = "photopipe-test-resize"
	cfg.Tools.ExifTool = "photopipe-test-exiftool"
	cfg.Processing.OutputDirName = "photopipe-test-" + filepath.Base(t.TempDir())

	out := filepath.Join(os.TempDir(), cfg.Processing.OutputDirName)
	t.Cleanup(func() {
		os.RemoveAll(out)
		os.Remove(out + ".lock")
	})

	var buf bytes.Buffer
	return &types.AppContext{Version: "test", Config: &cfg, Out: &buf}, &buf
}

// stubTools writes shell scripts named after the test tools into a new
// resource dir. Each script runs body.
func stubTools(t *testing.T, body string, tools ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stubs are not supported on Windows")
	}
	dir := t.TempDir()
	for _, tool := range tools {
		script := "#!/bin/sh\n" + body + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, tool), []byte(script), 0o755))
	}
	return dir
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("test"), 0o644))
	}
}
