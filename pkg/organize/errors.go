package organize

import (
	"fmt"

	"github.com/sdejongh/extsort/pkg/models"
)

// FileError is a per-file failure. The file it names is left where it was
// and the run continues with the next file.
type FileError struct {
	Path string // absolute path of the file being processed
	Op   string
	Kind models.ErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func newFileError(kind models.ErrorKind, op, path string, err error) *FileError {
	return &FileError{Path: path, Op: op, Kind: kind, Err: err}
}
