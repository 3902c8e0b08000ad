package organize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/sdejongh/extsort/pkg/logging"
	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/output"
)

const rootDir = "."

// walk visits directories top-down from an explicit stack. Each directory is
// listed when it is popped, so buckets created while processing a parent are
// seen fresh and filtered out before any descent.
func (e *Engine) walk(ctx context.Context) error {
	stack := []string{rootDir}

	for len(stack) > 0 {
		if ctx.Err() != nil {
			return nil
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := e.backend.ReadDir(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if dir == rootDir {
				return fmt.Errorf("failed to list base directory %s: %w", e.backend.Root(), err)
			}
			e.directoryError(ctx, dir, err)
			continue
		}

		e.report.Stats.DirsScanned++
		e.formatter.Progress(output.ProgressUpdate{
			Type:      output.UpdateDirectory,
			Path:      e.backend.Abs(dir),
			FilesSeen: e.filesSeen,
		})

		var subdirs []string
		for _, entry := range entries {
			if ctx.Err() != nil {
				return nil
			}

			rel := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if e.skipDir(ctx, rel, entry.Name()) {
					continue
				}
				subdirs = append(subdirs, rel)
				continue
			}

			// The file is finished even if ctx is cancelled meanwhile
			e.processFile(context.WithoutCancel(ctx), rel, entry.Name())
		}

		// Reverse so the first listed subdirectory is visited first
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return nil
}

// skipDir reports whether a subdirectory must not be descended into
func (e *Engine) skipDir(ctx context.Context, rel, name string) bool {
	reason := ""
	switch {
	case IsBucketDir(name):
		reason = "organizer output"
	case e.exclude.match(rel, true):
		reason = "excluded"
	default:
		return false
	}

	e.report.Stats.DirsExcluded++
	e.logger.Debug(ctx, "Not descending into directory", logging.Fields{
		"path":   e.backend.Abs(rel),
		"reason": reason,
	})
	return true
}

// processFile classifies one directory entry and, when it qualifies, resolves it
func (e *Engine) processFile(ctx context.Context, rel, name string) {
	e.filesSeen++
	e.report.Stats.FilesScanned++

	entry := &models.FileEntry{
		RelativePath: rel,
		AbsolutePath: e.backend.Abs(rel),
		Name:         name,
	}

	if IsHidden(name) {
		e.skip(ctx, entry, "hidden")
		return
	}

	base, ext, ok := Classify(name)
	if !ok {
		e.skip(ctx, entry, "no extension")
		return
	}
	entry.BaseName = base
	entry.Extension = ext

	if e.exclude.match(rel, false) {
		e.skip(ctx, entry, "excluded")
		return
	}

	info, err := e.backend.Stat(ctx, rel)
	if err != nil {
		e.fail(ctx, entry, newFileError(models.ErrorAccess, "stat", entry.AbsolutePath, err))
		return
	}
	if !info.IsRegular {
		e.skip(ctx, entry, "not a regular file")
		return
	}
	entry.Size = info.Size
	entry.ModTime = info.ModTime

	start := time.Now()
	fa, err := e.resolve(ctx, entry)
	if err != nil {
		var fe *FileError
		if !errors.As(err, &fe) {
			fe = newFileError(models.ErrorAccess, "organize", entry.AbsolutePath, err)
		}
		e.fail(ctx, entry, fe)
		return
	}
	fa.Duration = time.Since(start)

	e.record(fa)
	e.logger.Info(ctx, "File organized", logging.Fields{
		"path":   fa.SourcePath(),
		"dest":   actionTarget(&fa),
		"action": fa.Action,
		"size":   entry.Size,
	})
	e.formatter.Progress(output.ProgressUpdate{
		Type:      output.UpdateAction,
		Path:      entry.AbsolutePath,
		Action:    &fa,
		FilesSeen: e.filesSeen,
	})
}

func (e *Engine) skip(ctx context.Context, entry *models.FileEntry, reason string) {
	fa := models.FileAction{Entry: entry, Action: models.ActionSkip, Reason: reason}
	e.record(fa)

	e.logger.Debug(ctx, "Skipping file", logging.Fields{
		"path":   entry.AbsolutePath,
		"reason": reason,
	})
	e.formatter.Progress(output.ProgressUpdate{
		Type:      output.UpdateSkip,
		Path:      entry.AbsolutePath,
		Action:    &fa,
		FilesSeen: e.filesSeen,
	})
}

// fail records a per-file error; the file stays where it is
func (e *Engine) fail(ctx context.Context, entry *models.FileEntry, fe *FileError) {
	fa := models.FileAction{Entry: entry, Action: models.ActionError, Error: fe}
	e.record(fa)
	e.report.Errors = append(e.report.Errors, models.OrganizeError{
		FilePath:  fe.Path,
		Kind:      fe.Kind,
		Error:     fe.Error(),
		Timestamp: time.Now(),
	})

	e.logger.Error(ctx, "Failed to organize file", fe.Err, logging.Fields{
		"path": entry.AbsolutePath,
		"op":   fe.Op,
		"kind": fe.Kind,
	})
	e.formatter.Progress(output.ProgressUpdate{
		Type:      output.UpdateError,
		Path:      entry.AbsolutePath,
		Action:    &fa,
		FilesSeen: e.filesSeen,
		Error:     fe,
	})
}

// directoryError reports a subdirectory that could not be listed
func (e *Engine) directoryError(ctx context.Context, dir string, err error) {
	fe := newFileError(models.ErrorAccess, "list", e.backend.Abs(dir), err)
	e.report.Errors = append(e.report.Errors, models.OrganizeError{
		FilePath:  fe.Path,
		Kind:      fe.Kind,
		Error:     fe.Error(),
		Timestamp: time.Now(),
	})

	e.logger.Error(ctx, "Failed to list directory", err, logging.Fields{"path": fe.Path})
	e.formatter.Progress(output.ProgressUpdate{
		Type:      output.UpdateError,
		Path:      fe.Path,
		FilesSeen: e.filesSeen,
		Error:     fe,
	})
}

func (e *Engine) record(fa models.FileAction) {
	e.report.Stats.Record(fa)
	e.report.Actions = append(e.report.Actions, fa)
}

func actionTarget(fa *models.FileAction) string {
	if fa.Action.Removes() {
		return fa.DuplicateOf
	}
	return fa.Destination
}

// isNotExist reports whether err means nothing occupies a path
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
