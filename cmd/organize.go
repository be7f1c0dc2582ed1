package cmd

import (
	"fmt"
	"os"

	"github.com/lepinkainen/photopipe/album"
	"github.com/lepinkainen/photopipe/types"
	"github.com/lepinkainen/photopipe/ui"
	"github.com/lepinkainen/photopipe/utils"
)

// OrganizeCmd copies photos into album folders listed in a CSV mapping.
// Albums are created next to the photo folder; originals are left in place.
type OrganizeCmd struct {
	CSV         string `arg:"" name:"csv" help:"CSV file with 'album name' and 'file name' columns" type:"existingfile"`
	PhotoFolder string `arg:"" name:"photo-folder" help:"Folder to search for photos" type:"existingdir"`
}

// Run routes every CSV row and prints a per-row report.
func (cmd *OrganizeCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Stdout()

	f, err := os.Open(cmd.CSV)
	if err != nil {
		return fmt.Errorf("open mapping: %w", err)
	}
	defer f.Close()

	router := album.NewRouter(album.Options{
		Extensions: appCtx.Settings().Organize.Extensions,
		Logger:     appCtx.Log(),
		CopyFile:   utils.CopyFile,
	})
	report, err := router.Route(appCtx.Context(), f, cmd.PhotoFolder)
	if err != nil {
		fmt.Fprintln(out, ui.ErrorStyle.Render(report.Message))
		return err
	}

	rows := make([][]string, 0, len(report.Results))
	counts := map[album.Status]int{}
	for _, r := range report.Results {
		counts[r.Status]++
		rows = append(rows, []string{r.AlbumName, r.FileName, string(r.Status), r.Error})
	}
	fmt.Fprintln(out, renderTable([]string{"Album", "File", "Status", "Error"}, rows, nil))
	fmt.Fprintf(out, "\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ Copied: %d, ⚠️  Not found: %d, ❌ Invalid: %d, ❌ Failed: %d",
		counts[album.StatusCopied], counts[album.StatusFileNotFound], counts[album.StatusInvalidRow], counts[album.StatusCopyFailed])))
	fmt.Fprintln(out, ui.SuccessStyle.Render(report.Message))
	return nil
}
