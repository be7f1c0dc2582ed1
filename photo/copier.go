package photo

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/photopipe/logging"
)

// ToolRunner executes an external tool and returns its combined log output.
type ToolRunner interface {
	Run(ctx context.Context, tool string, args ...string) (string, error)
}

// CopierOptions configures a Copier.
type CopierOptions struct {
	ExifTool string // tool name passed to the runner, default "exiftool"
	Workers  int    // concurrent tag copies, <= 0 means runtime.NumCPU()
	Logger   *slog.Logger
	OnPair   func(PairResult) // called after every pair, in completion order
}

// Copier copies embedded metadata from RAW originals onto generated previews.
type Copier struct {
	runner   ToolRunner
	exifTool string
	workers  int
	logger   *slog.Logger
	onPair   func(PairResult)
}

// NewCopier creates a Copier that shells out through runner.
func NewCopier(runner ToolRunner, opts CopierOptions) *Copier {
	exifTool := opts.ExifTool
	if exifTool == "" {
		exifTool = "exiftool"
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Copier{
		runner:   runner,
		exifTool: exifTool,
		workers:  workers,
		logger:   logging.OrDiscard(opts.Logger),
		onPair:   opts.OnPair,
	}
}

type filePair struct {
	raw  string
	jpeg string
}

// CopyMetadata pairs every file in rawDir with <basename>.jpg in jpgDir and
// copies all tags onto the JPEG in place. Failed or unmatched files are
// logged and counted; the outcome is only unsuccessful when a directory
// cannot be listed.
func (c *Copier) CopyMetadata(ctx context.Context, rawDir, jpgDir string) CopyOutcome {
	c.logger.Info("starting metadata copy", "raw_dir", rawDir, "jpg_dir", jpgDir)

	rawFiles, err := listFiles(rawDir)
	if err != nil {
		c.logger.Error("metadata copy aborted", "error", err)
		return CopyOutcome{Success: false, Error: err.Error()}
	}
	jpgFiles, err := listFiles(jpgDir)
	if err != nil {
		c.logger.Error("metadata copy aborted", "error", err)
		return CopyOutcome{Success: false, Error: err.Error()}
	}

	previews := make(map[string]string, len(jpgFiles))
	for _, name := range jpgFiles {
		base, ok := previewBaseName(name)
		if !ok {
			continue
		}
		if _, seen := previews[base]; !seen {
			previews[base] = name
		}
	}

	var outcome CopyOutcome
	var pairs []filePair
	for _, raw := range rawFiles {
		jpeg, ok := previews[BaseName(raw)]
		if !ok {
			c.logger.Warn("no matching JPEG for file", "file", raw)
			outcome.Skipped++
			continue
		}
		pairs = append(pairs, filePair{raw: raw, jpeg: jpeg})
	}

	var (
		mu   sync.Mutex
		done int
		g    errgroup.Group
	)
	g.SetLimit(c.workers)

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			rawPath := filepath.Join(rawDir, p.raw)
			jpegPath := filepath.Join(jpgDir, p.jpeg)
			out, err := c.runner.Run(ctx, c.exifTool,
				"-tagsFromFile", rawPath, "-all:all", "-overwrite_original", jpegPath)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				c.logger.Error("metadata copy failed", "raw", rawPath, "jpeg", jpegPath, "error", err)
				outcome.Failed++
			} else {
				c.logger.Debug("copied metadata", "raw", rawPath, "jpeg", jpegPath, "output", out)
				outcome.Copied++
			}
			if c.onPair != nil {
				c.onPair(PairResult{RawFile: p.raw, JPEGFile: p.jpeg, Err: err, Current: done, Total: len(pairs)})
			}
			return nil
		})
	}
	_ = g.Wait()

	outcome.Success = true
	c.logger.Info("metadata copy completed",
		"copied", outcome.Copied, "skipped", outcome.Skipped, "failed", outcome.Failed)
	return outcome
}
