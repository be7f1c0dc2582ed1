package cmd

import (
	"errors"
	"fmt"

	"github.com/lepinkainen/photopipe/photo"
	"github.com/lepinkainen/photopipe/types"
	"github.com/lepinkainen/photopipe/ui"
)

// ExtractCmd writes a metadata.json sidecar for the images in a directory.
type ExtractCmd struct {
	Dir string `arg:"" name:"dir" help:"Directory of images" type:"existingdir"`
}

// Run extracts embedded metadata into the sidecar.
func (cmd *ExtractCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Stdout()
	outcome := photo.NewExtractor(nil, appCtx.Log()).ExtractMetadata(cmd.Dir)
	if !outcome.Success {
		fmt.Fprintln(out, ui.ErrorStyle.Render("❌ Metadata extraction failed: "+outcome.Error))
		return errors.New(outcome.Error)
	}
	fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("✅ Saved %d record(s) to %s", outcome.Records, outcome.OutputPath)))
	return nil
}
