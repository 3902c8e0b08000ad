package models

import (
	"context"
	"time"
)

// HashFunc computes the content digest of the file at a path relative to the base directory
type HashFunc func(ctx context.Context, relativePath string) (string, error)

// FileEntry represents a file under consideration during an organize run
type FileEntry struct {
	// RelativePath is the path relative to the base directory
	RelativePath string

	// AbsolutePath is the full path on the filesystem
	AbsolutePath string

	// Name is the file name including its extension
	Name string

	// BaseName is the file name without the final extension
	BaseName string

	// Extension is the normalized (uppercase) extension without the dot
	Extension string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// hash is computed on demand and only lives as long as the entry
	hash string
}

// Hash returns the content digest of the entry, computing it on first use.
// The digest is memoized for the lifetime of the entry only.
func (e *FileEntry) Hash(ctx context.Context, fn HashFunc) (string, error) {
	if e.hash != "" {
		return e.hash, nil
	}
	h, err := fn(ctx, e.RelativePath)
	if err != nil {
		return "", err
	}
	e.hash = h
	return h, nil
}

// Hashed reports whether the digest has already been computed
func (e *FileEntry) Hashed() bool {
	return e.hash != ""
}

// Action represents the terminal outcome for a file
type Action string

const (
	// ActionMoved moves the file into its bucket under its original name
	ActionMoved Action = "moved"
	// ActionRenamed moves the file into its bucket under a disambiguated name
	ActionRenamed Action = "renamed"
	// ActionDuplicateRemoved deletes a file identical to its bucket occupant
	ActionDuplicateRemoved Action = "duplicate_removed"
	// ActionQuarantined moves a same-name, same-size, different-content file into quarantine
	ActionQuarantined Action = "quarantined"
	// ActionQuarantineDuplicateRemoved deletes a file identical to a quarantined one
	ActionQuarantineDuplicateRemoved Action = "quarantine_duplicate_removed"
	// ActionSkip leaves the file in place (hidden, no extension, excluded, not regular)
	ActionSkip Action = "skipped"
	// ActionError indicates processing of the file failed
	ActionError Action = "error"
)

// Terminal reports whether the action relocated or removed the file
func (a Action) Terminal() bool {
	switch a {
	case ActionMoved, ActionRenamed, ActionDuplicateRemoved,
		ActionQuarantined, ActionQuarantineDuplicateRemoved:
		return true
	default:
		return false
	}
}

// Removes reports whether the action deletes the source file
func (a Action) Removes() bool {
	return a == ActionDuplicateRemoved || a == ActionQuarantineDuplicateRemoved
}

// FileAction records what was done with one file
type FileAction struct {
	Entry       *FileEntry
	Action      Action
	Destination string // absolute destination path for moves
	DuplicateOf string // absolute path of the surviving copy for removals
	Reason      string
	Error       error
	Duration    time.Duration
}

// SourcePath returns the absolute source path of the action
func (fa *FileAction) SourcePath() string {
	if fa.Entry == nil {
		return ""
	}
	return fa.Entry.AbsolutePath
}
