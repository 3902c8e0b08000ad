package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"time"
)

// ErrNotDirectory is returned when the base path is not a directory
var ErrNotDirectory = errors.New("path is not a directory")

// FileInfo represents metadata about a file.
// Symbolic links are described, not followed.
type FileInfo struct {
	Path         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	IsRegular    bool
	Permissions  uint32
}

// Backend defines the storage operations the organizer needs.
// All paths are relative to the backend root.
type Backend interface {
	// Root returns the absolute root path
	Root() string

	// Abs returns the absolute path for a relative path
	Abs(path string) string

	// ReadDir lists a single directory, freshly on every call
	ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns file metadata without following symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if anything occupies the path
	Exists(ctx context.Context, path string) (bool, error)

	// Move renames a file, copying across devices when needed
	Move(ctx context.Context, from, to string) error

	// Delete removes a single file
	Delete(ctx context.Context, path string) error

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}
