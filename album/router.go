// Package album sorts photos into album folders from a CSV mapping.
package album

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lepinkainen/photopipe/logging"
	"github.com/lepinkainen/photopipe/utils"
)

// Status is the outcome of one mapping row.
type Status string

const (
	StatusCopied       Status = "copied"
	StatusFileNotFound Status = "file-not-found"
	StatusInvalidRow   Status = "invalid-row"
	StatusCopyFailed   Status = "copy-failed"
)

// CompletionMessage is reported after every row has been handled.
const CompletionMessage = "Photo organization complete! Photos have been copied to their respective albums while remaining in their original location."

// DefaultExtensions are the image types considered when scanning the photo folder.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "nef", "cr2", "arw"}

// Result is the outcome of one mapping row. FileName is the name found on
// disk when the row matched, otherwise the name from the CSV.
type Result struct {
	FileName  string `json:"fileName"`
	AlbumName string `json:"albumName"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
}

// Report is the outcome of a routing run; Results follow CSV row order.
type Report struct {
	Message string   `json:"message"`
	Results []Result `json:"results"`
}

// Options configures a Router.
type Options struct {
	Extensions []string // without leading dot, nil means DefaultExtensions
	Logger     *slog.Logger
	CopyFile   func(src, dst string) error
}

// Router copies photos into album folders next to the photo folder.
type Router struct {
	extensions []string
	logger     *slog.Logger
	copyFile   func(src, dst string) error
}

// NewRouter creates a Router.
func NewRouter(opts Options) *Router {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	normalized := make([]string, 0, len(exts))
	for _, ext := range exts {
		normalized = append(normalized, strings.ToLower(strings.TrimPrefix(ext, ".")))
	}
	copyFile := opts.CopyFile
	if copyFile == nil {
		copyFile = utils.CopyFile
	}
	return &Router{
		extensions: normalized,
		logger:     logging.OrDiscard(opts.Logger),
		copyFile:   copyFile,
	}
}

// Route reads the mapping from csvData and copies each listed photo from
// photoFolder into <parent of photoFolder>/<album name>. Per-row problems
// are recorded in the report; an unreadable CSV, an empty mapping or an
// unreadable photo folder fail the whole run with a report carrying only an
// "Error: ..." message.
func (r *Router) Route(ctx context.Context, csvData io.Reader, photoFolder string) (*Report, error) {
	fail := func(err error) (*Report, error) {
		r.logger.Error("photo organization failed", "error", err)
		return &Report{Message: "Error: " + err.Error()}, err
	}

	rows, err := ParseRows(csvData)
	if err != nil {
		return fail(err)
	}

	images, err := FindImages(photoFolder, r.extensions)
	if err != nil {
		return fail(err)
	}
	r.logger.Info("found image files", "folder", photoFolder, "count", len(images))

	index := make(map[string]string, len(images))
	for _, rel := range images {
		key := strings.ToLower(rel)
		if _, seen := index[key]; !seen {
			index[key] = rel
		}
	}

	parent := filepath.Dir(filepath.Clean(photoFolder))
	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		results = append(results, r.routeRow(row, photoFolder, parent, index))
	}

	return &Report{Message: CompletionMessage, Results: results}, nil
}

func (r *Router) routeRow(row Row, photoFolder, parent string, index map[string]string) Result {
	result := Result{FileName: row.File, AlbumName: row.Album}
	logger := r.logger.With("line", row.Line, "album", row.Album, "file", row.File)

	if !validAlbumName(row.Album) || strings.TrimSpace(row.File) == "" {
		logger.Warn("invalid album name or file name")
		result.Status = StatusInvalidRow
		return result
	}

	albumPath := filepath.Join(parent, row.Album)
	if err := utils.EnsureDir(albumPath); err != nil {
		logger.Error("failed to create album folder", "path", albumPath, "error", err)
		result.Status = StatusCopyFailed
		result.Error = err.Error()
		return result
	}

	matched, ok := index[strings.ToLower(row.File)]
	if !ok {
		logger.Info("file not found")
		result.Status = StatusFileNotFound
		return result
	}

	result.FileName = matched
	src := filepath.Join(photoFolder, filepath.FromSlash(matched))
	dst := filepath.Join(albumPath, filepath.FromSlash(matched))
	if err := r.copyFile(src, dst); err != nil {
		logger.Error("copy failed", "src", src, "dst", dst, "error", err)
		result.Status = StatusCopyFailed
		result.Error = err.Error()
		return result
	}

	logger.Info("copied photo", "dst", dst)
	result.Status = StatusCopied
	return result
}

// validAlbumName rejects names that would escape the parent folder.
func validAlbumName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// FindImages walks root recursively and returns the slash-separated paths,
// relative to root, of files whose extension is in extensions (compared
// case-insensitively). Hidden files and directories are skipped.
func FindImages(root string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(d.Name()), "."))
		if !slices.Contains(extensions, ext) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan photo folder %s: %w", root, err)
	}
	return files, nil
}
