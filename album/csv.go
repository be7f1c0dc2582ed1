package album

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names recognised in the mapping header. Matching is case-sensitive.
const (
	ColumnAlbum = "album name"
	ColumnFile  = "file name"
)

// ErrNoRows is returned when a mapping has a header but no data rows.
var ErrNoRows = errors.New("no data found in CSV file")

// ParseError wraps a failure to read the mapping CSV.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse CSV line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse CSV: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Row is one album mapping. Missing columns leave the field empty.
type Row struct {
	Line  int
	Album string
	File  string
}

// ParseRows reads a header-first CSV mapping. Blank lines are skipped and
// rows may have fewer or more fields than the header.
func ParseRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: ErrNoRows}
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	albumCol, fileCol := -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		switch name {
		case ColumnAlbum:
			if albumCol < 0 {
				albumCol = i
			}
		case ColumnFile:
			if fileCol < 0 {
				fileCol = i
			}
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return nil, &ParseError{Err: err}
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, Row{
			Line:  line,
			Album: field(record, albumCol),
			File:  field(record, fileCol),
		})
	}

	if len(rows) == 0 {
		return nil, &ParseError{Err: ErrNoRows}
	}
	return rows, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
