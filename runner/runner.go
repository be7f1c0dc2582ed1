// Package runner invokes the bundled command-line tools.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/lepinkainen/photopipe/logging"
)

// ExternalToolError is returned when a tool cannot be started or exits non-zero.
type ExternalToolError struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExternalToolError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Tool, e.Err, stderr)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// Runner resolves tool names through a Resolver and executes them.
type Runner struct {
	resolver *Resolver
	logger   *slog.Logger
}

// New creates a Runner. A nil logger discards output.
func New(resolver *Resolver, logger *slog.Logger) *Runner {
	return &Runner{resolver: resolver, logger: logging.OrDiscard(logger)}
}

// Run executes tool with args and waits for it to exit. On success it returns
// stdout and stderr joined by a newline, meant to be logged verbatim.
func (r *Runner) Run(ctx context.Context, tool string, args ...string) (string, error) {
	path, err := r.resolver.Locate(tool)
	if err != nil {
		return "", &ExternalToolError{Tool: tool, Args: args, Err: err}
	}
	r.logger.Debug("running tool", "tool", tool, "path", path, "args", strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.Debug("tool failed", "tool", tool, "error", err)
		return "", &ExternalToolError{Tool: tool, Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String() + "\n" + stderr.String(), nil
}
