package organize

import (
	"context"
	"path/filepath"

	"github.com/sdejongh/extsort/pkg/logging"
	"github.com/sdejongh/extsort/pkg/models"
	"github.com/sdejongh/extsort/pkg/storage"
)

// resolve applies the conflict policy to one file:
//
//  1. destination free: move under the original name
//  2. occupant of a different size: move to the first free {base}_{N}.{ext}
//  3. occupant with the same digest: delete the file
//  4. same size, different digest: quarantine, or delete if an identical
//     file is already quarantined
func (e *Engine) resolve(ctx context.Context, entry *models.FileEntry) (models.FileAction, error) {
	bucket := BucketName(entry.Extension)
	if err := e.ensureDir(ctx, bucket); err != nil {
		return models.FileAction{}, err
	}

	dest := filepath.Join(bucket, entry.Name)
	occupant, err := e.lookup(ctx, dest)
	if err != nil {
		return models.FileAction{}, err
	}
	if occupant == nil {
		return e.move(ctx, entry, dest, models.ActionMoved)
	}

	if !occupant.IsRegular || occupant.Size != entry.Size {
		e.logger.Debug(ctx, "Name taken by a file of different size", logging.Fields{
			"path":          entry.AbsolutePath,
			"occupant":      occupant.Path,
			"size":          entry.Size,
			"occupant_size": occupant.Size,
		})
		slot, err := e.freeSlot(ctx, bucket, entry)
		if err != nil {
			return models.FileAction{}, err
		}
		return e.move(ctx, entry, slot, models.ActionRenamed)
	}

	same, err := e.sameContent(ctx, entry, dest)
	if err != nil {
		return models.FileAction{}, err
	}
	if same {
		return e.remove(ctx, entry, dest, models.ActionDuplicateRemoved)
	}

	e.logger.Debug(ctx, "Same name and size, different content", logging.Fields{
		"path":     entry.AbsolutePath,
		"occupant": occupant.Path,
	})
	return e.quarantine(ctx, entry)
}

// quarantine places a file that collides by name and size but not content
func (e *Engine) quarantine(ctx context.Context, entry *models.FileEntry) (models.FileAction, error) {
	dir := QuarantineDir(entry.Extension)
	if err := e.ensureDir(ctx, dir); err != nil {
		return models.FileAction{}, err
	}

	direct := filepath.Join(dir, entry.Name)
	occupant, err := e.lookup(ctx, direct)
	if err != nil {
		return models.FileAction{}, err
	}
	if occupant == nil {
		return e.move(ctx, entry, direct, models.ActionQuarantined)
	}

	// Every occupied slot is either skipped or ends the scan, so N only grows
	for n := 1; ; n++ {
		slot := filepath.Join(dir, SlotName(entry.BaseName, entry.Extension, n))
		occupant, err := e.lookup(ctx, slot)
		if err != nil {
			return models.FileAction{}, err
		}
		if occupant == nil {
			return e.move(ctx, entry, slot, models.ActionQuarantined)
		}

		// A different size cannot hash equal
		if !occupant.IsRegular || occupant.Size != entry.Size {
			continue
		}

		same, err := e.sameContent(ctx, entry, slot)
		if err != nil {
			return models.FileAction{}, err
		}
		if same {
			return e.remove(ctx, entry, slot, models.ActionQuarantineDuplicateRemoved)
		}
	}
}

// ensureDir creates a bucket or quarantine directory unless it is already there
func (e *Engine) ensureDir(ctx context.Context, dir string) error {
	info, err := e.backend.Stat(ctx, dir)
	if err == nil && info.IsDir {
		return nil
	}
	if err != nil && !isNotExist(err) {
		return newFileError(models.ErrorMkdir, "mkdir", e.backend.Abs(dir), err)
	}

	if err := e.backend.MkdirAll(ctx, dir); err != nil {
		return newFileError(models.ErrorMkdir, "mkdir", e.backend.Abs(dir), err)
	}

	e.report.Stats.DirsCreated++
	e.logger.Debug(ctx, "Created directory", logging.Fields{"path": e.backend.Abs(dir)})
	return nil
}

// lookup returns what occupies a path, or nil when it is free
func (e *Engine) lookup(ctx context.Context, rel string) (*storage.FileInfo, error) {
	info, err := e.backend.Stat(ctx, rel)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, newFileError(models.ErrorAccess, "stat", e.backend.Abs(rel), err)
	}
	return info, nil
}

// freeSlot finds the lowest N >= 1 whose disambiguated name is free in dir
func (e *Engine) freeSlot(ctx context.Context, dir string, entry *models.FileEntry) (string, error) {
	for n := 1; ; n++ {
		slot := filepath.Join(dir, SlotName(entry.BaseName, entry.Extension, n))
		occupant, err := e.lookup(ctx, slot)
		if err != nil {
			return "", err
		}
		if occupant == nil {
			return slot, nil
		}
	}
}

// sameContent compares the digest of entry with the file at rel. The
// entry's digest is computed once and reused for later comparisons.
func (e *Engine) sameContent(ctx context.Context, entry *models.FileEntry, rel string) (bool, error) {
	sum, err := entry.Hash(ctx, e.hashFn)
	if err != nil {
		return false, newFileError(models.ErrorHash, "hash", entry.AbsolutePath, err)
	}

	other, err := e.hasher.Sum(ctx, e.backend, rel)
	if err != nil {
		return false, newFileError(models.ErrorHash, "hash", e.backend.Abs(rel), err)
	}

	e.logger.Debug(ctx, "Compared digests", logging.Fields{
		"path":  entry.AbsolutePath,
		"other": e.backend.Abs(rel),
		"equal": sum == other,
	})
	return sum == other, nil
}

func (e *Engine) move(ctx context.Context, entry *models.FileEntry, dest string, action models.Action) (models.FileAction, error) {
	if err := e.backend.Move(ctx, entry.RelativePath, dest); err != nil {
		return models.FileAction{}, newFileError(models.ErrorMove, "move", entry.AbsolutePath, err)
	}
	return models.FileAction{
		Entry:       entry,
		Action:      action,
		Destination: e.backend.Abs(dest),
	}, nil
}

// remove deletes a file whose digest matched the file at survivor
func (e *Engine) remove(ctx context.Context, entry *models.FileEntry, survivor string, action models.Action) (models.FileAction, error) {
	if err := e.backend.Delete(ctx, entry.RelativePath); err != nil {
		return models.FileAction{}, newFileError(models.ErrorDelete, "delete", entry.AbsolutePath, err)
	}
	return models.FileAction{
		Entry:       entry,
		Action:      action,
		DuplicateOf: e.backend.Abs(survivor),
	}, nil
}
