package models

import (
	"time"
)

// OrganizeReport represents the results of an organize run
type OrganizeReport struct {
	// Operation details
	OperationID   string
	BasePath      string
	HashAlgorithm HashAlgorithm

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Terminal actions performed, in processing order
	Actions []FileAction

	// Errors encountered
	Errors []OrganizeError

	// Overall status
	Status RunStatus
}

// Statistics holds organize run metrics
type Statistics struct {
	DirsScanned  int
	DirsExcluded int // Extension_* and excluded directories not descended into
	FilesScanned int

	FilesMoved                  int
	FilesRenamed                int
	DuplicatesRemoved           int
	FilesQuarantined            int
	QuarantineDuplicatesRemoved int
	FilesSkipped                int
	FilesErrored                int

	FilesHashed int // digests computed, counting both sides of a comparison
	DirsCreated int

	BytesMoved     int64
	BytesReclaimed int64 // bytes freed by removing duplicates
}

// Record updates the counters for one file action
func (s *Statistics) Record(fa FileAction) {
	var size int64
	if fa.Entry != nil {
		size = fa.Entry.Size
	}
	switch fa.Action {
	case ActionMoved:
		s.FilesMoved++
		s.BytesMoved += size
	case ActionRenamed:
		s.FilesRenamed++
		s.BytesMoved += size
	case ActionQuarantined:
		s.FilesQuarantined++
		s.BytesMoved += size
	case ActionDuplicateRemoved:
		s.DuplicatesRemoved++
		s.BytesReclaimed += size
	case ActionQuarantineDuplicateRemoved:
		s.QuarantineDuplicatesRemoved++
		s.BytesReclaimed += size
	case ActionSkip:
		s.FilesSkipped++
	case ActionError:
		s.FilesErrored++
	}
}

// Organized returns the number of files that reached a terminal location
func (s *Statistics) Organized() int {
	return s.FilesMoved + s.FilesRenamed + s.FilesQuarantined +
		s.DuplicatesRemoved + s.QuarantineDuplicatesRemoved
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusSuccess indicates every file was handled without error
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some files could not be processed
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates the run could not start
	StatusFailed RunStatus = "failed"
	// StatusCancelled indicates the run was interrupted between files
	StatusCancelled RunStatus = "cancelled"
)

// ErrorKind categorizes per-file failures
type ErrorKind string

const (
	// ErrorAccess covers permission denied, vanished files and unreadable directories
	ErrorAccess ErrorKind = "access"
	// ErrorHash covers read failures while computing a digest
	ErrorHash ErrorKind = "hash"
	// ErrorMkdir covers bucket or quarantine directory creation failures
	ErrorMkdir ErrorKind = "mkdir"
	// ErrorMove covers rename and cross-device copy failures
	ErrorMove ErrorKind = "move"
	// ErrorDelete covers duplicate removal failures
	ErrorDelete ErrorKind = "delete"
)

// OrganizeError represents an error during an organize run
type OrganizeError struct {
	FilePath  string
	Kind      ErrorKind
	Error     string
	Timestamp time.Time
}

// ExitCode returns the appropriate exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
