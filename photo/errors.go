package photo

import "fmt"

// DirectoryAccessError reports a directory that could not be listed or created.
type DirectoryAccessError struct {
	Op   string // "list" or "create"
	Path string
	Err  error
}

func (e *DirectoryAccessError) Error() string {
	return fmt.Sprintf("%s directory %s: %v", e.Op, e.Path, e.Err)
}

func (e *DirectoryAccessError) Unwrap() error { return e.Err }

// ParseError reports a file whose embedded metadata could not be read.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse metadata from %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
