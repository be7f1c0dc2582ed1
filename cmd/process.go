package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/photopipe/photo"
	"github.com/lepinkainen/photopipe/types"
	"github.com/lepinkainen/photopipe/ui"
	"github.com/lepinkainen/photopipe/utils"
)

// ProcessCmd converts a folder of RAW files into JPEG previews with copied
// metadata and a metadata.json sidecar.
type ProcessCmd struct {
	Folder  string `arg:"" name:"folder" help:"Folder containing RAW files" type:"existingdir"`
	Workers int    `help:"Parallel metadata copy workers (0 = auto)" default:"0"`
	NoTUI   bool   `name:"no-tui" help:"Print plain progress instead of the interactive view"`
	JSON    bool   `help:"Print the processing result as JSON"`
}

// Run executes the processing pipeline on the folder.
func (cmd *ProcessCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Settings()
	out := appCtx.Stdout()
	logger := appCtx.Log()

	requirements := utils.DefaultRequirements(cfg.Tools.Resize, cfg.Tools.ExifTool)
	if err := utils.ValidateToolDependencies(appCtx.Resolver(), requirements); err != nil {
		return err
	}

	workers, network := resolveWorkers(cmd.Folder, cmd.Workers, cfg.Processing.Workers)
	if network {
		fmt.Fprintln(out, ui.WarningStyle.Render("⚠️  Network drive detected, using 1 worker for optimal performance"))
	}
	logger.Debug("resolved worker count", "workers", workers, "network", network)

	pipeline := photo.NewPipeline(appCtx.Runner(), nil, photo.PipelineOptions{
		OutputDir:  cfg.OutputDir(),
		ResizeTool: cfg.Tools.Resize,
		ExifTool:   cfg.Tools.ExifTool,
		ResizeArgs: cfg.ResizeArgsFor,
		Workers:    workers,
		Logger:     logger,
	})

	var (
		result *photo.ProcessingResult
		err    error
	)
	switch {
	case cmd.JSON:
		result, err = pipeline.Run(appCtx.Context(), cmd.Folder, nil)
	case !cmd.NoTUI && isTerminal(out):
		result, err = cmd.runWithTUI(appCtx.Context(), pipeline, appCtx.VersionOrDefault())
	default:
		result, err = cmd.runPlain(appCtx.Context(), pipeline, out, appCtx.VersionOrDefault())
	}
	if err != nil {
		if errors.Is(err, photo.ErrBusy) {
			return fmt.Errorf("%w: wait for the other run to finish", err)
		}
		return err
	}

	if cmd.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(out, result)
	return nil
}

// resolveWorkers picks the copy worker count: the flag, then the config,
// then 1 on network drives or the CPU count otherwise
func resolveWorkers(folder string, flag, configured int) (int, bool) {
	if flag > 0 {
		return flag, false
	}
	if configured > 0 {
		return configured, false
	}
	if utils.IsNetworkDrive(folder) {
		return 1, true
	}
	return runtime.NumCPU(), false
}

// runWithTUI drives the pipeline behind the interactive progress view
func (cmd *ProcessCmd) runWithTUI(ctx context.Context, pipeline *photo.Pipeline, version string) (*photo.ProcessingResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(ui.NewPipelineModel(cmd.Folder, version, cancel))

	var (
		result *photo.ProcessingResult
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, runErr = pipeline.Run(ctx, cmd.Folder, ui.ProgramListener(program))
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	<-done
	return result, runErr
}

// runPlain prints status lines and a copy progress bar
func (cmd *ProcessCmd) runPlain(ctx context.Context, pipeline *photo.Pipeline, out io.Writer, version string) (*photo.ProcessingResult, error) {
	fmt.Fprintln(out, ui.HeaderStyle.Render(fmt.Sprintf("photopipe %s", version)))
	fmt.Fprintln(out, ui.ProcessingStyle.Render(fmt.Sprintf("Processing %s", cmd.Folder)))

	var bar *progressbar.ProgressBar
	listener := func(e photo.Event) {
		switch e.Kind {
		case photo.EventStatus:
			if bar != nil {
				_ = bar.Finish()
				bar = nil
			}
			fmt.Fprintln(out, ui.InfoStyle.Render(e.Message))
		case photo.EventProgress:
			if bar == nil {
				bar = progressbar.NewOptions(e.Total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("Copying metadata"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(e.Current)
		case photo.EventError:
			fmt.Fprintln(out, ui.ErrorStyle.Render("❌ "+e.Message))
		}
	}
	return pipeline.Run(ctx, cmd.Folder, listener)
}

func printResult(out io.Writer, result *photo.ProcessingResult) {
	copyStatus := "ok"
	if !result.MetadataCopyResult.Success {
		copyStatus = result.MetadataCopyResult.Error
	}
	extractStatus := result.MetadataExtraction.OutputPath
	if !result.MetadataExtraction.Success {
		extractStatus = result.MetadataExtraction.Error
	}

	rows := [][]string{
		{"Output", result.OutputPath},
		{"Metadata copy", copyStatus},
		{"Copied", strconv.Itoa(result.MetadataCopyResult.Copied)},
		{"Skipped", strconv.Itoa(result.MetadataCopyResult.Skipped)},
		{"Failed", strconv.Itoa(result.MetadataCopyResult.Failed)},
		{"Sidecar", extractStatus},
		{"Records", strconv.Itoa(result.MetadataExtraction.Records)},
		{"ExifTool time", result.ExifToolTime},
		{"Metadata time", result.MetadataTime},
		{"Total time", result.TotalTime},
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Step", "Result"}, rows, nil))
	fmt.Fprintf(out, "\n%s\n", ui.SuccessStyle.Render("✅ Processing complete."))
}
