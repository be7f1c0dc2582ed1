package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/photopipe/photo"
	"github.com/lepinkainen/photopipe/types"
	"github.com/lepinkainen/photopipe/ui"
)

// SimilarCmd finds perceptually similar previews, typically burst shots or
// duplicates among the JPEGs written by process.
type SimilarCmd struct {
	Files       []string `arg:"" name:"files" help:"Preview images to compare" type:"existingfile"`
	Threshold   int      `help:"Hamming distance threshold for similarity (0-64)" default:"10"`
	Interactive bool     `short:"i" help:"Review similar groups and delete unwanted previews"`
}

// Run hashes every image, compares all pairs and reports those within the
// threshold (lower distance = more similar).
func (cmd *SimilarCmd) Run(appCtx *types.AppContext) error {
	out := appCtx.Stdout()

	var images []string
	for _, file := range cmd.Files {
		if !isComparableImage(file) {
			fmt.Fprintln(out, ui.WarningStyle.Render(fmt.Sprintf("⚠️  %s is not a supported image, skipping", file)))
			continue
		}
		images = append(images, file)
	}
	if len(images) < 2 {
		fmt.Fprintf(out, "%s\n", ui.ErrorStyle.Render("❌ Need at least 2 images to compare"))
		return nil
	}

	fmt.Fprintf(out, "%s\n", ui.InfoStyle.Render(fmt.Sprintf("Calculating perceptual hashes for %d files...", len(images))))
	pairs, errs := photo.FindSimilar(images, cmd.Threshold)
	for _, err := range errs {
		fmt.Fprintf(out, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ %v", err)))
	}

	if len(pairs) == 0 {
		fmt.Fprintf(out, "%s\n", ui.SuccessStyle.Render("✅ No similar files found within threshold"))
		return nil
	}

	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{strconv.Itoa(p.Distance), p.A, p.B})
	}
	fmt.Fprintln(out, renderTable([]string{"Distance", "Image", "Similar to"}, rows, []columnAlignment{alignRight}))

	if !cmd.Interactive || !isTerminal(out) {
		return nil
	}
	final, err := tea.NewProgram(ui.NewSimilarModel(photo.GroupSimilar(pairs))).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ui.SimilarModel); ok && len(m.Deleted()) > 0 {
		fmt.Fprintf(out, "%s\n", ui.SuccessStyle.Render(fmt.Sprintf("🗑  Deleted %d preview(s)", len(m.Deleted()))))
	}
	return nil
}

func isComparableImage(path string) bool {
	if photo.IsJPEG(path) {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".gif", ".bmp", ".tif", ".tiff":
		return true
	}
	return false
}
