package album

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/photopipe/utils"
)

// photoFolder creates <tmp>/photos with the given files and returns its path.
func photoFolder(t *testing.T, files ...string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.MkdirAll(root, 0o755))
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("image:"+f), 0o644))
	}
	return root
}

func TestRoute_EndToEnd(t *testing.T) {
	folder := photoFolder(t, "beach.jpg")
	csv := "album name,file name\nVacation,beach.jpg\nVacation,missing.jpg\n"

	report, err := NewRouter(Options{}).Route(context.Background(), strings.NewReader(csv), folder)
	require.NoError(t, err)

	assert.Equal(t, CompletionMessage, report.Message)
	assert.Equal(t, []Result{
		{FileName: "beach.jpg", AlbumName: "Vacation", Status: StatusCopied},
		{FileName: "missing.jpg", AlbumName: "Vacation", Status: StatusFileNotFound},
	}, report.Results)

	copied := filepath.Join(filepath.Dir(folder), "Vacation", "beach.jpg")
	assert.FileExists(t, copied)
	assert.FileExists(t, filepath.Join(folder, "beach.jpg"), "source must stay in place")
}

func TestRoute_AlbumNamedLikePhotoFolder(t *testing.T) {
	folder := photoFolder(t, "beach.jpg")
	csv := "album name,file name\nphotos,beach.jpg\n"

	report, err := NewRouter(Options{}).Route(context.Background(), strings.NewReader(csv), folder)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	assert.Equal(t, StatusCopyFailed, report.Results[0].Status)
	assert.Equal(t, utils.ErrSameFile.Error(), report.Results[0].Error)

	data, err := os.ReadFile(filepath.Join(folder, "beach.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image:beach.jpg", string(data), "source must not be truncated")
}

func TestRoute_CaseInsensitiveMatch(t *testing.T) {
	folder := photoFolder(t, "Photo1.JPG")
	csv := "album name,file name\nFamily,photo1.jpg\n"

	report, err := NewRouter(Options{}).Route(context.Background(), strings.NewReader(csv), folder)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	assert.Equal(t, StatusCopied, report.Results[0].Status)
	assert.Equal(t, "Photo1.JPG", report.Results[0].FileName)
	assert.FileExists(t, filepath.Join(filepath.Dir(folder), "Family", "Photo1.JPG"))
}

func TestRoute_InvalidRows(t *testing.T) {
	folder := photoFolder(t, "a.jpg")
	csv := strings.Join([]string{
		"album name,file name",
		"Trip,",
		",a.jpg",
		"../escape,a.jpg",
		"OnlyAlbum",
		"Trip,a.jpg",
	}, "\n")

	report, err := NewRouter(Options{}).Route(context.Background(), strings.NewReader(csv), folder)
	require.NoError(t, err)
	require.Len(t, report.Results, 5)

	for i := 0; i < 4; i++ {
		assert.Equal(t, StatusInvalidRow, report.Results[i].Status, "row %d", i)
	}
	assert.Equal(t, StatusCopied, report.Results[4].Status)
	assert.NoDirExists(t, filepath.Join(filepath.Dir(filepath.Dir(folder)), "escape"))
}

func TestRoute_NestedFilesKeepRelativePath(t *testing.T) {
	folder := photoFolder(t, "2024/june/IMG_7.CR2", "2024/june/notes.txt")
	csv := "album name,file name\nRaw,2024/june/img_7.cr2\nRaw,2024/june/notes.txt\n"

	report, err := NewRouter(Options{}).Route(context.Background(), strings.NewReader(csv), folder)
	require.NoError(t, err)

	assert.Equal(t, StatusCopied, report.Results[0].Status)
	assert.Equal(t, "2024/june/IMG_7.CR2", report.Results[0].FileName)
	assert.FileExists(t, filepath.Join(filepath.Dir(folder), "Raw", "2024", "june", "IMG_7.CR2"))
	assert.Equal(t, StatusFileNotFound, report.Results[1].Status, "non-image extensions are not matched")
}

func TestRoute_CopyFailure(t *testing.T) {
	folder := photoFolder(t, "a.jpg", "b.jpg")
	csv := "album name,file name\nX,a.jpg\nX,b.jpg\n"

	router := NewRouter(Options{CopyFile: func(src, dst string) error {
		if filepath.Base(src) == "a.jpg" {
			return errors.New("disk full")
		}
		return nil
	}})
	report, err := router.Route(context.Background(), strings.NewReader(csv), folder)
	require.NoError(t, err)

	assert.Equal(t, StatusCopyFailed, report.Results[0].Status)
	assert.Equal(t, "disk full", report.Results[0].Error)
	assert.Equal(t, StatusCopied, report.Results[1].Status)
}

func TestRoute_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty input", ""},
		{"header only", "album name,file name\n"},
		{"header and blank lines", "album name,file name\n\n\n"},
		{"unterminated quote", "album name,file name\nVacation,\"beach.jpg\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewRouter(Options{}).Route(context.Background(), strings.NewReader(tt.csv), photoFolder(t))
			require.Error(t, err)

			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.True(t, strings.HasPrefix(report.Message, "Error: "), report.Message)
			assert.Empty(t, report.Results)
		})
	}
}

func TestRoute_MissingPhotoFolder(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	report, err := NewRouter(Options{}).Route(context.Background(), strings.NewReader("album name,file name\nA,b.jpg\n"), missing)
	require.Error(t, err)
	assert.Contains(t, report.Message, "Error: ")
	assert.Empty(t, report.Results)
}

func TestRoute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRouter(Options{}).Route(ctx, strings.NewReader("album name,file name\nA,b.jpg\n"), photoFolder(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRows(t *testing.T) {
	csv := "\ufeffid,file name,album name\n1,a.jpg,Trip\n\n2,b.jpg\n3,c.jpg,Home,extra\n"
	rows, err := ParseRows(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, Row{Line: 2, Album: "Trip", File: "a.jpg"}, rows[0])
	assert.Equal(t, Row{Line: 4, Album: "", File: "b.jpg"}, rows[1])
	assert.Equal(t, "Home", rows[2].Album)
}

func TestParseRows_ColumnNamesAreCaseSensitive(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("Album Name,File Name\nTrip,a.jpg\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Album)
	assert.Empty(t, rows[0].File)
}

func TestFindImages(t *testing.T) {
	folder := photoFolder(t, "a.JPG", "b.png", "c.txt", "sub/d.nef", ".hidden/e.jpg", ".f.jpg")

	files, err := FindImages(folder, DefaultExtensions)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.JPG", "b.png", "sub/d.nef"}, files)
}
