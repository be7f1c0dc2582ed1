package photo

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
)

type toolCall struct {
	Tool string
	Args []string
}

// fakeRunner records invocations and delegates behaviour to handle.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []toolCall
	handle func(tool string, args []string) (string, error)
}

func (f *fakeRunner) Run(ctx context.Context, tool string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, toolCall{Tool: tool, Args: slices.Clone(args)})
	handle := f.handle
	f.mu.Unlock()

	if handle == nil {
		return "ok", nil
	}
	return handle(tool, args)
}

func (f *fakeRunner) Calls() []toolCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// fakeParser returns canned metadata per file name.
type fakeParser struct {
	results map[string]map[string]any
	errs    map[string]error
}

func (f fakeParser) Parse(path string) (map[string]any, error) {
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	return f.results[name], nil
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0o644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
}

func argValue(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}
