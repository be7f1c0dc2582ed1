package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/photopipe/photo"
	"github.com/lepinkainen/photopipe/types"
	"github.com/lepinkainen/photopipe/ui"
	"github.com/lepinkainen/photopipe/utils"
)

// CopyMetadataCmd copies all tags from RAW files onto same-named JPEGs.
type CopyMetadataCmd struct {
	RawDir  string `arg:"" name:"raw-dir" help:"Directory of RAW originals" type:"existingdir"`
	JPGDir  string `arg:"" name:"jpg-dir" help:"Directory of JPEG previews" type:"existingdir"`
	Workers int    `help:"Parallel workers (0 = auto)" default:"0"`
}

// Run copies tags pair by pair and prints a summary.
func (cmd *CopyMetadataCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Settings()
	out := appCtx.Stdout()

	exif := []utils.Requirement{{Name: "ExifTool", Tool: cfg.Tools.ExifTool}}
	if err := utils.ValidateToolDependencies(appCtx.Resolver(), exif); err != nil {
		return err
	}

	workers, network := resolveWorkers(cmd.JPGDir, cmd.Workers, cfg.Processing.Workers)
	if network {
		fmt.Fprintln(out, ui.WarningStyle.Render("⚠️  Network drive detected, using 1 worker for optimal performance"))
	}

	var bar *progressbar.ProgressBar
	copier := photo.NewCopier(appCtx.Runner(), photo.CopierOptions{
		ExifTool: cfg.Tools.ExifTool,
		Workers:  workers,
		Logger:   appCtx.Log(),
		OnPair: func(r photo.PairResult) {
			if bar == nil {
				bar = progressbar.NewOptions(r.Total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("Copying metadata"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(r.Current)
		},
	})

	outcome := copier.CopyMetadata(appCtx.Context(), cmd.RawDir, cmd.JPGDir)
	if bar != nil {
		_ = bar.Finish()
	}
	if !outcome.Success {
		fmt.Fprintln(out, ui.ErrorStyle.Render("❌ Metadata copy failed: "+outcome.Error))
		return errors.New(outcome.Error)
	}

	removed, err := photo.CleanupTempFiles(cmd.JPGDir)
	if err != nil {
		return err
	}
	appCtx.Log().Debug("removed temporary files", "count", len(removed))

	fmt.Fprintf(out, "%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Copied: %d, ⏭  Skipped: %d, ❌ Failed: %d",
		outcome.Copied, outcome.Skipped, outcome.Failed)))
	return nil
}
