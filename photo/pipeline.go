package photo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/lepinkainen/photopipe/logging"
)

// ErrBusy is returned when another run holds the output directory lock.
var ErrBusy = errors.New("another processing run is using the output directory")

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	OutputDir  string
	ResizeTool string
	ExifTool   string
	// ResizeArgs builds the resize tool arguments for one run.
	ResizeArgs func(inputDir, outputDir string) []string
	Workers    int
	Logger     *slog.Logger
}

// Pipeline converts a folder of RAW files into JPEG previews with copied
// metadata and a metadata.json sidecar.
type Pipeline struct {
	runner ToolRunner
	parser MetadataParser
	opts   PipelineOptions
	logger *slog.Logger
	now    func() time.Time
}

// NewPipeline creates a Pipeline. A nil parser uses ExifParser.
func NewPipeline(runner ToolRunner, parser MetadataParser, opts PipelineOptions) *Pipeline {
	if parser == nil {
		parser = ExifParser{}
	}
	if opts.ResizeTool == "" {
		opts.ResizeTool = "resize"
	}
	if opts.ExifTool == "" {
		opts.ExifTool = "exiftool"
	}
	if opts.ResizeArgs == nil {
		opts.ResizeArgs = func(in, out string) []string { return []string{"-i", in, "-o", out} }
	}
	return &Pipeline{
		runner: runner,
		parser: parser,
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger),
		now:    time.Now,
	}
}

// RawPreviewArgs extracts embedded previews from CR2 and ARW files.
func RawPreviewArgs(inputDir, outputDir string) []string {
	return []string{
		"-ext", "cr2", "-ext", "arw", "-b", "-previewimage",
		"-w!", filepath.Join(outputDir, "%f.jpg"), "-r", inputDir,
	}
}

// NEFPreviewArgs extracts the full-size JPEG embedded in NEF files.
func NEFPreviewArgs(inputDir, outputDir string) []string {
	return []string{
		"-b", "-jpgfromraw", "-w", filepath.Join(outputDir, "%f.jpg"),
		"-ext", "nef", "-r", inputDir,
	}
}

// Run executes every stage in order, reporting through emit. Exactly one
// terminal event (EventComplete or EventError) is emitted. Work already
// written to disk is kept when a stage fails.
func (p *Pipeline) Run(ctx context.Context, inputDir string, emit Listener) (*ProcessingResult, error) {
	if emit == nil {
		emit = func(Event) {}
	}
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	out := p.opts.OutputDir

	status := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		logger.Info(msg)
		emit(Event{Kind: EventStatus, Message: msg})
	}
	fail := func(err error) (*ProcessingResult, error) {
		logger.Error("processing failed", "error", err)
		emit(Event{Kind: EventError, Message: err.Error()})
		return nil, err
	}

	lock := flock.New(filepath.Clean(out) + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fail(fmt.Errorf("acquire output lock: %w", err))
	}
	if !locked {
		return fail(ErrBusy)
	}
	defer func() { _ = lock.Unlock() }()

	if err := EnsureOutputDir(out); err != nil {
		return fail(err)
	}
	status("Output files will be stored in: %s", out)
	if n, err := CountRawFiles(inputDir); err != nil {
		logger.Warn("could not count RAW files", "error", err)
	} else {
		status("Found %d RAW file(s) in %s", n, inputDir)
	}

	status("Starting image resize...")
	resizeLog, err := p.runner.Run(ctx, p.opts.ResizeTool, p.opts.ResizeArgs(inputDir, out)...)
	if err != nil {
		return fail(err)
	}
	status("Resize Log: %s", resizeLog)

	status("Processing CR2 and ARW files...")
	toolStart := p.now()
	exifLog, err := p.runner.Run(ctx, p.opts.ExifTool, RawPreviewArgs(inputDir, out)...)
	if err != nil {
		return fail(err)
	}
	status("ExifTool Log (CR2 and ARW): %s", exifLog)

	status("Processing NEF files...")
	nefLog, err := p.runner.Run(ctx, p.opts.ExifTool, NEFPreviewArgs(inputDir, out)...)
	if err != nil {
		return fail(err)
	}
	toolTime := p.now().Sub(toolStart)
	status("ExifTool NEF Log: %s", nefLog)

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	status("Copying metadata...")
	metadataStart := p.now()
	copier := NewCopier(p.runner, CopierOptions{
		ExifTool: p.opts.ExifTool,
		Workers:  p.opts.Workers,
		Logger:   logger,
		OnPair: func(r PairResult) {
			emit(Event{Kind: EventProgress, Message: r.JPEGFile, Current: r.Current, Total: r.Total})
		},
	})
	copyOutcome := copier.CopyMetadata(ctx, inputDir, out)
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if copyOutcome.Success {
		status("Metadata copy succeeded")
	} else {
		status("Metadata copy failed: %s", copyOutcome.Error)
	}

	status("Cleaning up temporary files...")
	removed, err := CleanupTempFiles(out)
	if err != nil {
		return fail(err)
	}
	logger.Debug("removed temporary files", "count", len(removed))

	status("Extracting metadata...")
	extraction := NewExtractor(p.parser, logger).ExtractMetadata(out)
	metadataTime := p.now().Sub(metadataStart)
	if extraction.Success {
		status("Metadata extraction succeeded")
	} else {
		status("Metadata extraction failed: %s", extraction.Error)
	}

	result := &ProcessingResult{
		RunID:              runID,
		ResizeLog:          resizeLog,
		ExifLog:            exifLog + "\n" + nefLog,
		OutputPath:         out,
		MetadataCopyResult: copyOutcome,
		MetadataExtraction: extraction,
		ExifToolTime:       FormatDuration(toolTime),
		MetadataTime:       FormatDuration(metadataTime),
		TotalTime:          FormatDuration(toolTime + metadataTime),
	}
	emit(Event{Kind: EventComplete, Result: result})
	return result, nil
}
