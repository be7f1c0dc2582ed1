package types

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/lepinkainen/photopipe/config"
	"github.com/lepinkainen/photopipe/logging"
	"github.com/lepinkainen/photopipe/runner"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	Config  *config.Config
	Logger  *slog.Logger
	// Ctx is cancelled on interrupt
	Ctx context.Context
	// Out receives user-facing output, stdout when nil
	Out io.Writer
}

// VersionOrDefault returns the build version, tolerating a nil context
func (a *AppContext) VersionOrDefault() string {
	if a == nil || a.Version == "" {
		return DefaultVersion
	}
	return a.Version
}

// Settings returns the loaded configuration or the defaults
func (a *AppContext) Settings() *config.Config {
	if a == nil || a.Config == nil {
		cfg := config.Default()
		return &cfg
	}
	return a.Config
}

// Log returns the application logger or a discard logger
func (a *AppContext) Log() *slog.Logger {
	if a == nil {
		return logging.Discard()
	}
	return logging.OrDiscard(a.Logger)
}

// Context returns the run context, never nil
func (a *AppContext) Context() context.Context {
	if a == nil || a.Ctx == nil {
		return context.Background()
	}
	return a.Ctx
}

// Stdout returns the writer for user-facing output
func (a *AppContext) Stdout() io.Writer {
	if a == nil || a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

// Runner builds a tool runner honouring the configured resource dir
func (a *AppContext) Runner() *runner.Runner {
	return runner.New(a.Resolver(), a.Log())
}

// Resolver builds the tool resolver for the configured resource dir
func (a *AppContext) Resolver() *runner.Resolver {
	return runner.NewResolver(a.Settings().Tools.ResourceDir)
}
