package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/lepinkainen/photopipe/cmd"
	"github.com/lepinkainen/photopipe/config"
	"github.com/lepinkainen/photopipe/logging"
	"github.com/lepinkainen/photopipe/types"
)

var Version = "dev"

type CLI struct {
	Config    string           `help:"Path to the TOML config file" type:"path" placeholder:"FILE"`
	LogLevel  string           `help:"Log level (debug, info, warn, error)"`
	LogFormat string           `help:"Log format (text, json)"`
	Version   kong.VersionFlag `help:"Print version and exit"`

	Process      cmd.ProcessCmd      `cmd:"" help:"Convert RAW files into JPEG previews with copied metadata"`
	Organize     cmd.OrganizeCmd     `cmd:"" help:"Copy photos into album folders from a CSV mapping"`
	Extract      cmd.ExtractCmd      `cmd:"" help:"Write a metadata.json sidecar for a directory"`
	CopyMetadata cmd.CopyMetadataCmd `cmd:"" name:"copy-metadata" help:"Copy tags from RAW files onto matching JPEGs"`
	Similar      cmd.SimilarCmd      `cmd:"" help:"Find perceptually similar previews"`
	Check        cmd.CheckCmd        `cmd:"" help:"Check that the external tools can be found"`
}

// newAppContext loads configuration, applies flag overrides and builds the
// logger. The returned stop function releases the interrupt handler.
func newAppContext(cli *CLI) (*types.AppContext, context.CancelFunc, error) {
	cfg, _, err := config.Load(cli.Config)
	if err != nil {
		return nil, nil, err
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Logging.Format = cli.LogFormat
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return &types.AppContext{
		Version: Version,
		Config:  cfg,
		Logger:  logger,
		Ctx:     ctx,
	}, stop, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("photopipe"),
		kong.Description("RAW preview pipeline, metadata sidecars and CSV album sorting."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	appCtx, stop, err := newAppContext(&cli)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(appCtx)
	stop()
	ctx.FatalIfErrorf(err)
}
