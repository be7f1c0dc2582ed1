package cmd

import (
	"fmt"

	"github.com/lepinkainen/photopipe/types"
	"github.com/lepinkainen/photopipe/ui"
	"github.com/lepinkainen/photopipe/utils"
)

// CheckCmd reports whether the external tools can be found.
type CheckCmd struct{}

// Run prints a tool availability table and fails if a required tool is missing.
func (cmd *CheckCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Settings()
	out := appCtx.Stdout()
	resolver := appCtx.Resolver()
	requirements := utils.DefaultRequirements(cfg.Tools.Resize, cfg.Tools.ExifTool)

	statuses := utils.CheckTools(resolver, requirements)
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state, where := "found", s.Path
		if !s.Available {
			state, where = "missing", s.Detail
		}
		state = ui.StatusIcon(s.Available) + " " + state
		rows = append(rows, []string{s.Name, s.Tool, state, where})
	}
	fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Status", "Location"}, rows, nil))

	if err := utils.ValidateToolDependencies(resolver, requirements); err != nil {
		fmt.Fprintln(out, ui.ErrorStyle.Render("❌ "+err.Error()))
		return err
	}
	fmt.Fprintln(out, ui.SuccessStyle.Render("✅ All tools available"))
	return nil
}
