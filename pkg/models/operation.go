package models

import (
	"time"
)

// HashAlgorithm selects the content digest used for duplicate detection
type HashAlgorithm string

const (
	// HashSHA256 uses SHA-256 (default)
	HashSHA256 HashAlgorithm = "sha256"
	// HashSHA1 uses SHA-1
	HashSHA1 HashAlgorithm = "sha1"
	// HashMD5 uses MD5 (fastest, weakest)
	HashMD5 HashAlgorithm = "md5"
)

// Valid reports whether the algorithm is supported
func (h HashAlgorithm) Valid() bool {
	switch h {
	case HashSHA256, HashSHA1, HashMD5:
		return true
	default:
		return false
	}
}

// OrganizeOperation represents one organize run configuration
type OrganizeOperation struct {
	ID              string
	BasePath        string
	HashAlgorithm   HashAlgorithm
	ExcludePatterns []string
	IOLimit         int64 // bytes per second, 0 = unlimited
	BufferSize      int
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *OrganizeOperation) Validate() error {
	if op.BasePath == "" {
		return &ValidationError{Field: "BasePath", Message: "base path is required"}
	}
	if !op.HashAlgorithm.Valid() {
		return &ValidationError{Field: "HashAlgorithm", Message: "unsupported hash algorithm: " + string(op.HashAlgorithm)}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	if op.IOLimit < 0 {
		return &ValidationError{Field: "IOLimit", Message: "io limit cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
