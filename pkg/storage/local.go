package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sdejongh/extsort/pkg/ratelimit"
)

// Local is a filesystem-based storage backend rooted at the base directory
type Local struct {
	rootPath string
	limiter  *ratelimit.Limiter

	// rename is swapped in tests to simulate cross-device moves
	rename func(from, to string) error
}

// NewLocal creates a new local filesystem backend.
// The root is resolved to an absolute path and must be an accessible directory.
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absPath)
	}

	// Listing the root up front surfaces permission problems before any traversal
	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	f.Close()

	return &Local{rootPath: absPath, rename: os.Rename}, nil
}

// SetReadLimiter throttles reads done for hashing and cross-device copies
func (l *Local) SetReadLimiter(limiter *ratelimit.Limiter) {
	l.limiter = limiter
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// Abs returns the absolute path for a relative path
func (l *Local) Abs(path string) string {
	return filepath.Join(l.rootPath, path)
}

// ReadDir lists the entries of one directory
func (l *Local) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.Abs(path))
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	return entries, nil
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(l.Abs(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return ratelimit.NewReadCloser(ctx, file, l.limiter), nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	fullPath := l.Abs(path)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Path:         fullPath,
		RelativePath: filepath.Clean(path),
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		IsDir:        info.IsDir(),
		IsRegular:    info.Mode().IsRegular(),
		Permissions:  uint32(info.Mode().Perm()),
	}, nil
}

// Exists checks if a file, directory or link occupies the path
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(l.Abs(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Move renames a file within the tree. When source and target live on
// different filesystems the file is copied, verified and the source removed.
func (l *Local) Move(ctx context.Context, from, to string) error {
	src := l.Abs(from)
	dst := l.Abs(to)

	err := l.rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("failed to move file: %w", err)
	}

	if err := l.copyAcross(ctx, src, dst); err != nil {
		return fmt.Errorf("failed to copy file across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("copied but failed to remove source: %w", err)
	}
	return nil
}

// Delete removes a single file; directories are never removed
func (l *Local) Delete(ctx context.Context, path string) error {
	fullPath := l.Abs(path)

	info, err := os.Lstat(fullPath)
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to delete: %s is a directory", fullPath)
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// MkdirAll creates a directory and all necessary parents.
// An existing directory is not an error.
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	if err := os.MkdirAll(l.Abs(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}
